package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finplan/scenario-engine/internal/domain"
)

// Variable name prefixes used in sensitivity and adjustment reports.
const (
	varInflation     = "inflation_assumption"
	varReturnPrefix  = "market_returns."
	varIncomePrefix  = "income_growth_rates."
	varExpensePrefix = "expense_patterns."
)

// Sensitivity impact levels and directions.
const (
	ImpactHigh   = "high"   // normalized sensitivity > 0.7
	ImpactMedium = "medium" // normalized sensitivity > 0.3
	ImpactLow    = "low"

	DirectionPositive = "positive"
	DirectionNegative = "negative"
	DirectionNeutral  = "neutral"
	DirectionUnknown  = "unknown"
)

const affectedGoalDelta = 0.02

// VariableSensitivity is the measured responsiveness of mean goal success
// probability to one input variable, normalized across all tracked
// variables.
type VariableSensitivity struct {
	Variable      string   `json:"variable"`
	Sensitivity   float64  `json:"sensitivity"` // normalized to the max observed
	RawScore      float64  `json:"raw_score"`
	ImpactLevel   string   `json:"impact_level"`
	Direction     string   `json:"direction"`
	AffectedGoals []string `json:"affected_goals"`
}

type variablePoint struct {
	value    float64
	meanProb float64
	result   *domain.ScenarioResult
}

// IdentifyCriticalVariables measures, for a fixed variable list (per
// asset-class returns, inflation, income growth rates, expense multipliers),
// how strongly the mean goal probability responds across the supplied
// scenarios. Three or more scenarios use Pearson correlation; exactly two
// fall back to the range ratio |dProbability/dValue|. Sensitivities are
// normalized by the maximum observed, so the most influential variable
// always reports 1.0.
func (a *Analyzer) IdentifyCriticalVariables(results []*domain.ScenarioResult) []VariableSensitivity {
	if len(results) == 0 {
		return nil
	}

	variables := trackedVariables(results)
	out := make([]VariableSensitivity, 0, len(variables))
	maxRaw := 0.0
	for _, variable := range variables {
		points := collectPoints(results, variable)
		vs := VariableSensitivity{Variable: variable}
		vs.RawScore = rawSensitivity(points)
		vs.Direction = sensitivityDirection(points)
		vs.AffectedGoals = affectedGoals(points)
		if vs.RawScore > maxRaw {
			maxRaw = vs.RawScore
		}
		out = append(out, vs)
	}

	for i := range out {
		if maxRaw > 0 {
			out[i].Sensitivity = out[i].RawScore / maxRaw
		}
		switch {
		case out[i].Sensitivity > 0.7:
			out[i].ImpactLevel = ImpactHigh
		case out[i].Sensitivity > 0.3:
			out[i].ImpactLevel = ImpactMedium
		default:
			out[i].ImpactLevel = ImpactLow
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Sensitivity > out[j].Sensitivity })
	return out
}

// trackedVariables builds the fixed variable list: every asset class seen
// across the scenarios, inflation, and the standard income/expense keys.
func trackedVariables(results []*domain.ScenarioResult) []string {
	assetClasses := map[string]bool{}
	incomeSources := map[string]bool{}
	expenseCategories := map[string]bool{}
	for _, r := range results {
		for class := range r.Profile.MarketReturns {
			assetClasses[class] = true
		}
		for source := range r.Profile.IncomeGrowthRates {
			incomeSources[source] = true
		}
		for category := range r.Profile.ExpensePatterns {
			expenseCategories[category] = true
		}
	}

	var variables []string
	for _, class := range sortedKeys(assetClasses) {
		variables = append(variables, varReturnPrefix+class)
	}
	variables = append(variables, varInflation)
	for _, source := range sortedKeys(incomeSources) {
		variables = append(variables, varIncomePrefix+source)
	}
	for _, category := range sortedKeys(expenseCategories) {
		variables = append(variables, varExpensePrefix+category)
	}
	return variables
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func collectPoints(results []*domain.ScenarioResult, variable string) []variablePoint {
	var points []variablePoint
	for _, r := range results {
		value, ok := variableValue(r.Profile, variable)
		if !ok {
			continue
		}
		points = append(points, variablePoint{
			value:    value,
			meanProb: r.MeanGoalProbability(),
			result:   r,
		})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].value < points[j].value })
	return points
}

// variableValue resolves a dotted variable name against a scenario profile.
func variableValue(sp domain.ScenarioProfile, variable string) (float64, bool) {
	if variable == varInflation {
		return sp.InflationAssumption.InexactFloat64(), true
	}
	lookup := func(m map[string]decimal.Decimal, key string) (float64, bool) {
		v, ok := m[key]
		if !ok {
			return 0, false
		}
		return v.InexactFloat64(), true
	}
	if key, ok := strings.CutPrefix(variable, varReturnPrefix); ok {
		return lookup(sp.MarketReturns, key)
	}
	if key, ok := strings.CutPrefix(variable, varIncomePrefix); ok {
		return lookup(sp.IncomeGrowthRates, key)
	}
	if key, ok := strings.CutPrefix(variable, varExpensePrefix); ok {
		return lookup(sp.ExpensePatterns, key)
	}
	return 0, false
}

func rawSensitivity(points []variablePoint) float64 {
	switch {
	case len(points) >= 3:
		xs := make([]float64, len(points))
		ys := make([]float64, len(points))
		for i, p := range points {
			xs[i] = p.value
			ys[i] = p.meanProb
		}
		return math.Abs(pearson(xs, ys))
	case len(points) == 2:
		dv := points[1].value - points[0].value
		if dv == 0 {
			return 0
		}
		return math.Abs((points[1].meanProb - points[0].meanProb) / dv)
	default:
		return 0
	}
}

func sensitivityDirection(points []variablePoint) string {
	if len(points) < 2 {
		return DirectionUnknown
	}
	first, last := points[0], points[len(points)-1]
	switch {
	case last.meanProb > first.meanProb:
		return DirectionPositive
	case last.meanProb < first.meanProb:
		return DirectionNegative
	default:
		return DirectionNeutral
	}
}

// affectedGoals lists goals whose probability moves between the lowest and
// highest variable-value scenarios.
func affectedGoals(points []variablePoint) []string {
	if len(points) < 2 {
		return nil
	}
	low, high := points[0].result, points[len(points)-1].result
	var goals []string
	for _, goalID := range low.SortedGoalIDs() {
		lowProb, okLow := low.Probability(goalID)
		highProb, okHigh := high.Probability(goalID)
		if okLow && okHigh && math.Abs(highProb-lowProb) > affectedGoalDelta {
			goals = append(goals, goalID)
		}
	}
	return goals
}

// CombinedAdjustmentImpact estimates the joint effect of several
// adjustments: the summed individual effects plus the configured synergy
// bonus, clamped to [-1,1]. The bonus is a tunable default only.
func (a *Analyzer) CombinedAdjustmentImpact(adjustments []Adjustment) float64 {
	var sum float64
	for _, adj := range adjustments {
		sum += adj.ImpactScore
	}
	return clamp(sum*(1+a.SynergyBonus), -1, 1)
}
