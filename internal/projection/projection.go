// Package projection implements the probability/gap-analysis seam consumed
// by the scenario generator. The deterministic engine projects goal funding
// from a scenario's assumptions; the Monte Carlo engine layers randomized
// annual draws on top of the same cash-flow model.
//
// The funding model is deliberately simple: annual household savings are
// split across goals in proportion to their targets, each goal's balance
// compounds at the scenario's blended return, and targets inflate at the
// scenario's inflation assumption. It is an approximation, not a market
// simulation.
package projection

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/finplan/scenario-engine/internal/domain"
	"github.com/finplan/scenario-engine/internal/scenario"
)

// DefaultProjectionYears covers the longest net-worth marker.
const DefaultProjectionYears = 30

// assumptions are the float-space view of a scenario profile used by the
// year-by-year projection loops.
type assumptions struct {
	blendedReturn float64
	inflation     float64
	incomeGrowth  map[string]float64
	expenseScale  map[string]float64
	lifeEvents    []domain.LifeEvent
}

func newAssumptions(sp domain.ScenarioProfile, profile *domain.HouseholdProfile) assumptions {
	a := assumptions{
		blendedReturn: blendedReturn(sp, profile),
		inflation:     sp.InflationAssumption.InexactFloat64(),
		incomeGrowth:  make(map[string]float64, len(sp.IncomeGrowthRates)),
		expenseScale:  make(map[string]float64, len(sp.ExpensePatterns)),
		lifeEvents:    sp.LifeEvents,
	}
	for source, rate := range sp.IncomeGrowthRates {
		a.incomeGrowth[source] = rate.InexactFloat64()
	}
	for category, multiplier := range sp.ExpensePatterns {
		a.expenseScale[category] = multiplier.InexactFloat64()
	}
	return a
}

// blendedReturn weights the scenario's asset-class returns by the profile's
// allocation; without an allocation the asset classes are equal-weighted.
func blendedReturn(sp domain.ScenarioProfile, profile *domain.HouseholdProfile) float64 {
	if len(sp.MarketReturns) == 0 {
		return 0
	}
	allocation := map[string]float64{}
	var totalWeight float64
	if profile != nil {
		for class, weight := range profile.AssetAllocation {
			w := weight.InexactFloat64()
			if _, tracked := sp.MarketReturns[class]; tracked && w > 0 {
				allocation[class] = w
				totalWeight += w
			}
		}
	}
	if totalWeight == 0 {
		for class := range sp.MarketReturns {
			allocation[class] = 1
			totalWeight += 1
		}
	}
	var blended float64
	for class, weight := range allocation {
		blended += sp.MarketReturns[class].InexactFloat64() * weight / totalWeight
	}
	return blended
}

// savingsAt is the household's expected net savings in projection year t
// (0-based): income grown per source minus expenses scaled per category and
// inflated, plus the expected impact of any life events active that year.
func (a assumptions) savingsAt(profile *domain.HouseholdProfile, t int) float64 {
	var income float64
	for source, amount := range profile.AnnualIncome {
		growth, ok := a.incomeGrowth[source]
		if !ok {
			growth = a.incomeGrowth["primary"]
		}
		income += amount.InexactFloat64() * pow1p(growth, t)
	}
	var expenses float64
	for category, amount := range profile.AnnualExpenses {
		scale, ok := a.expenseScale[category]
		if !ok {
			scale = 1
		}
		expenses += amount.InexactFloat64() * scale * pow1p(a.inflation, t)
	}
	return income - expenses + a.lifeEventImpactAt(t)
}

// lifeEventImpactAt sums the probability-weighted impact of events whose
// window covers year t.
func (a assumptions) lifeEventImpactAt(t int) float64 {
	var impact float64
	for _, event := range a.lifeEvents {
		end := event.Timing + event.Duration
		if end < event.Timing {
			end = event.Timing
		}
		if t >= event.Timing && t <= end {
			impact += event.Impact.InexactFloat64() * event.Probability
		}
	}
	return impact
}

func pow1p(rate float64, years int) float64 {
	result := 1.0
	for i := 0; i < years; i++ {
		result *= 1 + rate
	}
	return result
}

// goalWeights splits savings across goals in proportion to target amounts.
func goalWeights(goals []domain.Goal) map[string]float64 {
	weights := make(map[string]float64, len(goals))
	var total float64
	for _, goal := range goals {
		total += goal.TargetAmount.InexactFloat64()
	}
	if total <= 0 {
		return weights
	}
	for _, goal := range goals {
		weights[goal.ID] = goal.TargetAmount.InexactFloat64() / total
	}
	return weights
}

// markerYears maps each net worth marker to its year offset, capped at the
// projection horizon.
func markerYears(projectionYears int) map[string]int {
	markers := make(map[string]int)
	for _, marker := range domain.NetWorthMarkers() {
		if horizon := domain.MarkerHorizon(marker); horizon <= projectionYears {
			markers[marker] = horizon
		}
	}
	return markers
}

// retirementAge derives the projected retirement age: the retirement goal's
// achievement year when one exists, else the profile's target shifted by any
// archetype retirement offset.
func retirementAge(goals []domain.Goal, profile *domain.HouseholdProfile, sp domain.ScenarioProfile, timeline map[string]int) *int {
	if profile == nil {
		return nil
	}
	age := profile.TargetRetirementAge
	if offset, ok := sp.Metadata[scenario.MetadataRetirementOffset]; ok {
		if n, err := strconv.Atoi(offset); err == nil {
			age += n
		}
	}

	retirementGoals := make([]string, 0, 1)
	for _, goal := range goals {
		if goal.Class == domain.GoalRetirement {
			retirementGoals = append(retirementGoals, goal.ID)
		}
	}
	sort.Strings(retirementGoals)
	for _, goalID := range retirementGoals {
		if year, ok := timeline[goalID]; ok {
			achieved := profile.CurrentAge + year
			if achieved > age {
				age = achieved
			}
			break
		}
	}
	return &age
}

func toDecimalMap(values map[string]float64) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(values))
	for k, v := range values {
		out[k] = decimal.NewFromFloat(v).Round(2)
	}
	return out
}
