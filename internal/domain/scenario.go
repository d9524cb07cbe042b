package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LifeEvent represents a discrete event layered onto a scenario's assumptions,
// such as a job loss, inheritance, or large one-time expense.
type LifeEvent struct {
	Type        string          `yaml:"type" json:"type"`
	Timing      int             `yaml:"timing" json:"timing"`     // years from now
	Duration    int             `yaml:"duration" json:"duration"` // years, 0 for one-time
	Impact      decimal.Decimal `yaml:"impact" json:"impact"`     // annual cash impact, negative for costs
	Probability float64         `yaml:"probability" json:"probability"`
}

// ScenarioProfile is an immutable value object describing one scenario's
// complete set of economic and life-event assumptions. All rates are plain
// decimals (0.07 = 7%). Name is the comparison key and must be unique within
// one comparison.
type ScenarioProfile struct {
	Name                string                     `yaml:"name" json:"name"`
	Description         string                     `yaml:"description" json:"description"`
	MarketReturns       map[string]decimal.Decimal `yaml:"market_returns" json:"market_returns"`
	InflationAssumption decimal.Decimal            `yaml:"inflation_assumption" json:"inflation_assumption"`
	IncomeGrowthRates   map[string]decimal.Decimal `yaml:"income_growth_rates" json:"income_growth_rates"`
	ExpensePatterns     map[string]decimal.Decimal `yaml:"expense_patterns" json:"expense_patterns"`
	LifeEvents          []LifeEvent                `yaml:"life_events,omitempty" json:"life_events,omitempty"`
	Metadata            map[string]string          `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt           time.Time                  `yaml:"created_at" json:"created_at"`
}

// Clone returns a deep copy of the profile. Mutating the copy never affects
// the original.
func (sp ScenarioProfile) Clone() ScenarioProfile {
	out := sp
	out.MarketReturns = cloneRateMap(sp.MarketReturns)
	out.IncomeGrowthRates = cloneRateMap(sp.IncomeGrowthRates)
	out.ExpensePatterns = cloneRateMap(sp.ExpensePatterns)
	if sp.LifeEvents != nil {
		out.LifeEvents = make([]LifeEvent, len(sp.LifeEvents))
		copy(out.LifeEvents, sp.LifeEvents)
	}
	if sp.Metadata != nil {
		out.Metadata = make(map[string]string, len(sp.Metadata))
		for k, v := range sp.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

func cloneRateMap(m map[string]decimal.Decimal) map[string]decimal.Decimal {
	if m == nil {
		return nil
	}
	out := make(map[string]decimal.Decimal, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
