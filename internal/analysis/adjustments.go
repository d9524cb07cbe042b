package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finplan/scenario-engine/internal/domain"
)

// Adjustment is one changed input variable in an alternative scenario,
// scored by how much it moved the mean goal probability vs the baseline.
type Adjustment struct {
	ScenarioName  string          `json:"scenario_name"`
	Variable      string          `json:"variable"`
	BaselineValue decimal.Decimal `json:"baseline_value"`
	ScenarioValue decimal.Decimal `json:"scenario_value"`
	ImpactScore   float64         `json:"impact_score"`
	Description   string          `json:"description"`
}

// IdentifyMostEffectiveAdjustments auto-selects the baseline scenario, diffs
// every other scenario's profile against it field by field, and returns one
// candidate per changed field tagged with the scenario's doubled
// mean-probability delta (clamped to [-1,1]), sorted by descending absolute
// impact.
func (a *Analyzer) IdentifyMostEffectiveAdjustments(results []*domain.ScenarioResult) []Adjustment {
	baseline := autoSelectBaseline(results)
	if baseline == nil {
		return nil
	}
	baseMean := baseline.MeanGoalProbability()

	var adjustments []Adjustment
	for _, r := range results {
		if r == nil || r == baseline {
			continue
		}
		impact := clamp((r.MeanGoalProbability()-baseMean)*2, -1, 1)
		for _, diff := range diffProfiles(baseline.Profile, r.Profile) {
			adjustments = append(adjustments, Adjustment{
				ScenarioName:  r.Profile.Name,
				Variable:      diff.variable,
				BaselineValue: diff.baseValue,
				ScenarioValue: diff.altValue,
				ImpactScore:   impact,
				Description:   describeAdjustment(diff.variable, impact),
			})
		}
	}

	sort.SliceStable(adjustments, func(i, j int) bool {
		return math.Abs(adjustments[i].ImpactScore) > math.Abs(adjustments[j].ImpactScore)
	})
	return adjustments
}

// autoSelectBaseline picks the first result whose name contains "baseline"
// (case-insensitive), else the first result.
func autoSelectBaseline(results []*domain.ScenarioResult) *domain.ScenarioResult {
	for _, r := range results {
		if r != nil && strings.Contains(strings.ToLower(r.Profile.Name), "baseline") {
			return r
		}
	}
	for _, r := range results {
		if r != nil {
			return r
		}
	}
	return nil
}

type profileDiff struct {
	variable  string
	baseValue decimal.Decimal
	altValue  decimal.Decimal
}

// diffProfiles lists every changed assumption field between two profiles:
// each asset-class return, inflation, each income growth source, and each
// expense category.
func diffProfiles(base, alt domain.ScenarioProfile) []profileDiff {
	var diffs []profileDiff
	diffs = append(diffs, diffRateMaps(varReturnPrefix, base.MarketReturns, alt.MarketReturns)...)
	if !base.InflationAssumption.Equal(alt.InflationAssumption) {
		diffs = append(diffs, profileDiff{varInflation, base.InflationAssumption, alt.InflationAssumption})
	}
	diffs = append(diffs, diffRateMaps(varIncomePrefix, base.IncomeGrowthRates, alt.IncomeGrowthRates)...)
	diffs = append(diffs, diffRateMaps(varExpensePrefix, base.ExpensePatterns, alt.ExpensePatterns)...)
	return diffs
}

func diffRateMaps(prefix string, base, alt map[string]decimal.Decimal) []profileDiff {
	keys := map[string]bool{}
	for k := range base {
		keys[k] = true
	}
	for k := range alt {
		keys[k] = true
	}
	var diffs []profileDiff
	for _, k := range sortedKeys(keys) {
		baseValue, altValue := base[k], alt[k]
		if !baseValue.Equal(altValue) {
			diffs = append(diffs, profileDiff{prefix + k, baseValue, altValue})
		}
	}
	return diffs
}

// describeAdjustment buckets an adjustment's impact into canned wording at
// the 0.5/0.2/0.05 absolute thresholds.
func describeAdjustment(variable string, impact float64) string {
	verb := "improves"
	if impact < 0 {
		verb = "reduces"
	}
	switch abs := math.Abs(impact); {
	case abs >= 0.5:
		return fmt.Sprintf("Changing %s dramatically %s goal outcomes", variable, verb)
	case abs >= 0.2:
		return fmt.Sprintf("Changing %s meaningfully %s goal outcomes", variable, verb)
	case abs >= 0.05:
		return fmt.Sprintf("Changing %s modestly %s goal outcomes", variable, verb)
	default:
		return fmt.Sprintf("Changing %s has little effect on goal outcomes", variable)
	}
}
