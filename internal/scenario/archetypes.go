package scenario

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finplan/scenario-engine/internal/domain"
)

// Built-in archetype names.
const (
	ArchetypeBaseline        = "baseline"
	ArchetypeOptimistic      = "optimistic"
	ArchetypePessimistic     = "pessimistic"
	ArchetypeHighInflation   = "high_inflation"
	ArchetypeEarlyRetirement = "early_retirement"
)

// MetadataRetirementOffset is the metadata key an archetype may carry to
// shift the household's target retirement age, in years.
const MetadataRetirementOffset = "retirement_age_offset"

// StandardArchetypes lists the built-in archetypes in generation order.
func StandardArchetypes() []string {
	return []string{
		ArchetypeBaseline,
		ArchetypeOptimistic,
		ArchetypePessimistic,
		ArchetypeHighInflation,
		ArchetypeEarlyRetirement,
	}
}

// Overrides carries partial scenario parameters for deep-merging into an
// archetype. Nil fields are left untouched; map entries merge key-by-key so
// overriding one asset-class return leaves its siblings alone.
type Overrides struct {
	Description         *string                    `yaml:"description,omitempty"`
	MarketReturns       map[string]decimal.Decimal `yaml:"market_returns,omitempty"`
	InflationAssumption *decimal.Decimal           `yaml:"inflation_assumption,omitempty"`
	IncomeGrowthRates   map[string]decimal.Decimal `yaml:"income_growth_rates,omitempty"`
	ExpensePatterns     map[string]decimal.Decimal `yaml:"expense_patterns,omitempty"`
	LifeEvents          []domain.LifeEvent         `yaml:"life_events,omitempty"`
	Metadata            map[string]string          `yaml:"metadata,omitempty"`
}

// ArchetypeRegistry holds named default parameter sets. Each Generator owns
// its own registry, so overrides applied in one session never leak into
// another. Safe for concurrent use.
type ArchetypeRegistry struct {
	mu         sync.RWMutex
	archetypes map[string]domain.ScenarioProfile
}

// NewArchetypeRegistry creates a registry seeded with the five built-in
// archetypes.
func NewArchetypeRegistry() *ArchetypeRegistry {
	r := &ArchetypeRegistry{archetypes: make(map[string]domain.ScenarioProfile)}
	for name, profile := range builtinArchetypes() {
		r.archetypes[name] = profile
	}
	return r
}

// Defaults returns a deep copy of the archetype's parameters. Mutating the
// returned profile never affects the registry or earlier copies.
func (r *ArchetypeRegistry) Defaults(scenarioType string) (domain.ScenarioProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.archetypes[scenarioType]
	if !ok {
		return domain.ScenarioProfile{}, fmt.Errorf("%w: %q", ErrUnknownScenarioType, scenarioType)
	}
	return profile.Clone(), nil
}

// Registered reports whether an archetype of the given name exists.
func (r *ArchetypeRegistry) Registered(scenarioType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.archetypes[scenarioType]
	return ok
}

// Override deep-merges partial parameters into an archetype, creating the
// archetype if it does not exist yet.
func (r *ArchetypeRegistry) Override(scenarioType string, o Overrides) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.archetypes[scenarioType]
	if !ok {
		profile = domain.ScenarioProfile{
			Name:      scenarioType,
			CreatedAt: time.Now().UTC(),
		}
	} else {
		profile = profile.Clone()
	}

	if o.Description != nil {
		profile.Description = *o.Description
	}
	if o.InflationAssumption != nil {
		profile.InflationAssumption = *o.InflationAssumption
	}
	profile.MarketReturns = mergeRates(profile.MarketReturns, o.MarketReturns)
	profile.IncomeGrowthRates = mergeRates(profile.IncomeGrowthRates, o.IncomeGrowthRates)
	profile.ExpensePatterns = mergeRates(profile.ExpensePatterns, o.ExpensePatterns)
	if o.LifeEvents != nil {
		profile.LifeEvents = make([]domain.LifeEvent, len(o.LifeEvents))
		copy(profile.LifeEvents, o.LifeEvents)
	}
	if o.Metadata != nil {
		if profile.Metadata == nil {
			profile.Metadata = make(map[string]string, len(o.Metadata))
		}
		for k, v := range o.Metadata {
			profile.Metadata[k] = v
		}
	}

	r.archetypes[scenarioType] = profile
}

func mergeRates(base, overrides map[string]decimal.Decimal) map[string]decimal.Decimal {
	if overrides == nil {
		return base
	}
	if base == nil {
		base = make(map[string]decimal.Decimal, len(overrides))
	}
	for k, v := range overrides {
		base[k] = v
	}
	return base
}

func rate(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// builtinArchetypes returns the default parameter sets. The baseline carries
// consensus long-run assumptions; the other four are fixed relative stress
// deviations so they stay consistent stress tests independent of a
// household's own beliefs.
func builtinArchetypes() map[string]domain.ScenarioProfile {
	created := time.Now().UTC()
	return map[string]domain.ScenarioProfile{
		ArchetypeBaseline: {
			Name:        ArchetypeBaseline,
			Description: "Expected long-run market and inflation assumptions",
			MarketReturns: map[string]decimal.Decimal{
				"stocks":      rate(0.07),
				"bonds":       rate(0.04),
				"real_estate": rate(0.05),
				"cash":        rate(0.015),
			},
			InflationAssumption: rate(0.03),
			IncomeGrowthRates: map[string]decimal.Decimal{
				"primary":   rate(0.04),
				"secondary": rate(0.03),
			},
			ExpensePatterns: map[string]decimal.Decimal{
				"essential":     rate(1.0),
				"discretionary": rate(1.0),
			},
			Metadata:  map[string]string{"type": ArchetypeBaseline, "standard": "true"},
			CreatedAt: created,
		},
		ArchetypeOptimistic: {
			Name:        ArchetypeOptimistic,
			Description: "Strong markets, healthy raises, contained spending",
			MarketReturns: map[string]decimal.Decimal{
				"stocks":      rate(0.10),
				"bonds":       rate(0.05),
				"real_estate": rate(0.07),
				"cash":        rate(0.02),
			},
			InflationAssumption: rate(0.025),
			IncomeGrowthRates: map[string]decimal.Decimal{
				"primary":   rate(0.06),
				"secondary": rate(0.05),
			},
			ExpensePatterns: map[string]decimal.Decimal{
				"essential":     rate(0.95),
				"discretionary": rate(0.90),
			},
			Metadata:  map[string]string{"type": ArchetypeOptimistic, "standard": "true"},
			CreatedAt: created,
		},
		ArchetypePessimistic: {
			Name:        ArchetypePessimistic,
			Description: "Weak markets, stagnant income, elevated spending",
			MarketReturns: map[string]decimal.Decimal{
				"stocks":      rate(0.04),
				"bonds":       rate(0.02),
				"real_estate": rate(0.02),
				"cash":        rate(0.01),
			},
			InflationAssumption: rate(0.045),
			IncomeGrowthRates: map[string]decimal.Decimal{
				"primary":   rate(0.02),
				"secondary": rate(0.015),
			},
			ExpensePatterns: map[string]decimal.Decimal{
				"essential":     rate(1.10),
				"discretionary": rate(1.15),
			},
			Metadata:  map[string]string{"type": ArchetypePessimistic, "standard": "true"},
			CreatedAt: created,
		},
		ArchetypeHighInflation: {
			Name:        ArchetypeHighInflation,
			Description: "Persistent high inflation eroding purchasing power",
			MarketReturns: map[string]decimal.Decimal{
				"stocks":      rate(0.06),
				"bonds":       rate(0.03),
				"real_estate": rate(0.06),
				"cash":        rate(0.02),
			},
			InflationAssumption: rate(0.07),
			IncomeGrowthRates: map[string]decimal.Decimal{
				"primary":   rate(0.035),
				"secondary": rate(0.03),
			},
			ExpensePatterns: map[string]decimal.Decimal{
				"essential":     rate(1.20),
				"discretionary": rate(1.10),
			},
			Metadata:  map[string]string{"type": ArchetypeHighInflation, "standard": "true"},
			CreatedAt: created,
		},
		ArchetypeEarlyRetirement: {
			Name:        ArchetypeEarlyRetirement,
			Description: "Retire five years early on a leaner budget",
			MarketReturns: map[string]decimal.Decimal{
				"stocks":      rate(0.07),
				"bonds":       rate(0.04),
				"real_estate": rate(0.05),
				"cash":        rate(0.015),
			},
			InflationAssumption: rate(0.03),
			IncomeGrowthRates: map[string]decimal.Decimal{
				"primary":   rate(0.04),
				"secondary": rate(0.03),
			},
			ExpensePatterns: map[string]decimal.Decimal{
				"essential":     rate(0.85),
				"discretionary": rate(0.70),
			},
			Metadata: map[string]string{
				"type":                   ArchetypeEarlyRetirement,
				"standard":               "true",
				MetadataRetirementOffset: "-5",
			},
			CreatedAt: created,
		},
	}
}
