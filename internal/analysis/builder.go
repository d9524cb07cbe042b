package analysis

import (
	"github.com/shopspring/decimal"

	"github.com/finplan/scenario-engine/internal/domain"
	"github.com/finplan/scenario-engine/internal/scenario"
)

// BuildComparison allocates a comparison container over the goals and
// ordered scenario results and fills it: per-goal outcomes, per-scenario
// success metrics, difference metrics vs the baseline, and sensitivity
// entries. Scenarios with missing data simply contribute less; nothing here
// aborts the batch.
func (a *Analyzer) BuildComparison(goals []domain.Goal, profile *domain.HouseholdProfile, results []*domain.ScenarioResult) *scenario.ComparisonResult {
	goalIDs := make([]string, len(goals))
	for i, goal := range goals {
		goalIDs[i] = goal.ID
	}
	cr := scenario.NewComparisonResult(goalIDs, results)

	for _, result := range results {
		if result == nil {
			continue
		}
		name := result.Profile.Name
		for _, goal := range goals {
			cr.SetGoalOutcome(goal.ID, name, goalOutcome(result, goal))
		}
		summary := a.CalculateSuccessMetrics(result, goals, profile)
		cr.SetSuccessMetric(name, summary.Metrics(result))
	}

	baseline := cr.ScenarioResults[cr.BaselineName]
	if baseline != nil {
		baseSummary := a.CalculateSuccessMetrics(baseline, goals, profile)
		baseMetrics := baseSummary.Metrics(baseline)
		for _, name := range cr.ScenarioOrder {
			if name == cr.BaselineName {
				continue
			}
			alt := cr.ScenarioResults[name]
			altSummary := a.CalculateSuccessMetrics(alt, goals, profile)
			altMetrics := altSummary.Metrics(alt)
			cr.SetDifferenceMetric(name, differenceMetrics(baseline, alt, baseMetrics, altMetrics))
		}
	}

	for _, vs := range a.IdentifyCriticalVariables(results) {
		cr.AddSensitivityResult(vs.Variable, vs.Sensitivity, vs.AffectedGoals)
	}
	return cr
}

func goalOutcome(result *domain.ScenarioResult, goal domain.Goal) *scenario.GoalOutcome {
	p, ok := result.Probability(goal.ID)
	if !ok {
		return nil
	}
	outcome := &scenario.GoalOutcome{
		Probability: &p,
		Achievable:  p >= 0.5,
	}
	if year, present := result.GoalTimeline[goal.ID]; present {
		y := year
		outcome.Timeline = &y
	}
	if gap, present := result.GoalFundingGaps[goal.ID]; present {
		outcome.FundingGap = gap
	}
	return outcome
}

func differenceMetrics(baseline, alt *domain.ScenarioResult, baseMetrics, altMetrics *scenario.SuccessMetrics) *scenario.DifferenceMetrics {
	dm := &scenario.DifferenceMetrics{
		SuccessRateChange:     altMetrics.OverallSuccessRate - baseMetrics.OverallSuccessRate,
		GoalAchievementChange: altMetrics.GoalAchievementRate - baseMetrics.GoalAchievementRate,
		NetWorthImpact:        make(map[string]decimal.Decimal),
	}
	if baseline.RetirementAge != nil && alt.RetirementAge != nil {
		dm.RetirementAgeChange = float64(*alt.RetirementAge - *baseline.RetirementAge)
	}
	for _, marker := range domain.NetWorthMarkers() {
		baseNW, okBase := baseline.NetWorthProjection[marker]
		altNW, okAlt := alt.NetWorthProjection[marker]
		if okBase && okAlt {
			dm.NetWorthImpact[marker] = altNW.Sub(baseNW)
		}
	}
	return dm
}
