package analysis

import (
	"github.com/finplan/scenario-engine/internal/domain"
)

// GoalImpactLevel buckets one goal's change between two scenarios.
type GoalImpactLevel string

const (
	SignificantlyImproved GoalImpactLevel = "significantly_improved"
	Improved              GoalImpactLevel = "improved"
	MinimalChange         GoalImpactLevel = "minimal_change"
	Worsened              GoalImpactLevel = "worsened"
	SignificantlyWorsened GoalImpactLevel = "significantly_worsened"
	MixedImpact           GoalImpactLevel = "mixed_impact"
)

// ComparisonAssessment buckets a whole pairwise comparison.
type ComparisonAssessment string

const (
	SignificantlyBetter ComparisonAssessment = "significantly_better"
	Better              ComparisonAssessment = "better"
	Mixed               ComparisonAssessment = "mixed"
	Worse               ComparisonAssessment = "worse"
	SignificantlyWorse  ComparisonAssessment = "significantly_worse"
)

// Probability-delta thresholds for goal impact bucketing.
const (
	significantDelta = 0.10
	minorDelta       = 0.03
	countedDelta     = 0.05 // counts toward improved/worsened totals
)

// GoalOutcomeDelta is one goal's change between baseline and alternative.
type GoalOutcomeDelta struct {
	ProbabilityChange float64         `json:"probability_change"`
	TimelineChange    *int            `json:"timeline_change,omitempty"`
	Impact            GoalImpactLevel `json:"impact"`
}

// RiskShift summarizes how the risk profile moves between two scenarios.
type RiskShift struct {
	RiskConcentrationChange  float64 `json:"risk_concentration_change"`
	AverageProbabilityChange float64 `json:"average_probability_change"`
	AtRiskGoalsChange        int     `json:"at_risk_goals_change"`
}

// OutcomeComparison is the full pairwise comparison of two scenarios.
type OutcomeComparison struct {
	BaselineName        string                      `json:"baseline_name"`
	AlternativeName     string                      `json:"alternative_name"`
	GoalChanges         map[string]GoalOutcomeDelta `json:"goal_changes"`
	GoalsImproved       int                         `json:"goals_improved"`
	GoalsWorsened       int                         `json:"goals_worsened"`
	RetirementAgeChange *int                        `json:"retirement_age_change,omitempty"`
	RiskShift           RiskShift                   `json:"risk_shift"`
	Assessment          ComparisonAssessment        `json:"assessment"`
}

// CompareScenarioOutcomes diffs an alternative scenario against a baseline
// goal by goal, derives the risk-profile shift from both impact analyses,
// and buckets the overall comparison.
func (a *Analyzer) CompareScenarioOutcomes(baseline, alternative *domain.ScenarioResult, goals []domain.Goal, profile *domain.HouseholdProfile) *OutcomeComparison {
	oc := &OutcomeComparison{
		BaselineName:    baseline.Profile.Name,
		AlternativeName: alternative.Profile.Name,
		GoalChanges:     make(map[string]GoalOutcomeDelta, len(goals)),
	}

	for _, goal := range goals {
		baseProb, okBase := baseline.Probability(goal.ID)
		altProb, okAlt := alternative.Probability(goal.ID)
		if !okBase || !okAlt {
			continue
		}
		delta := GoalOutcomeDelta{ProbabilityChange: altProb - baseProb}
		if baseYear, ok := baseline.GoalTimeline[goal.ID]; ok {
			if altYear, ok := alternative.GoalTimeline[goal.ID]; ok {
				change := altYear - baseYear
				delta.TimelineChange = &change
			}
		}
		delta.Impact = assessGoalImpact(delta.ProbabilityChange, delta.TimelineChange)
		oc.GoalChanges[goal.ID] = delta

		if delta.ProbabilityChange > countedDelta {
			oc.GoalsImproved++
		} else if delta.ProbabilityChange < -countedDelta {
			oc.GoalsWorsened++
		}
	}

	if baseline.RetirementAge != nil && alternative.RetirementAge != nil {
		change := *alternative.RetirementAge - *baseline.RetirementAge
		oc.RetirementAgeChange = &change
	}

	baseImpact := a.AnalyzeScenarioImpact(baseline, goals, profile)
	altImpact := a.AnalyzeScenarioImpact(alternative, goals, profile)
	oc.RiskShift = RiskShift{
		RiskConcentrationChange:  altImpact.RiskConcentration - baseImpact.RiskConcentration,
		AverageProbabilityChange: altImpact.AverageProbability - baseImpact.AverageProbability,
		AtRiskGoalsChange:        altImpact.AtRiskGoals - baseImpact.AtRiskGoals,
	}

	oc.Assessment = generateComparisonAssessment(oc.GoalsImproved, oc.GoalsWorsened, oc.RetirementAgeChange)
	return oc
}

// assessGoalImpact buckets a goal's probability delta, with a timeline
// override: achieving the goal at least a year earlier upgrades "improved"
// to "significantly_improved", while a delay of more than a year drags
// "improved" or "minimal_change" down to "mixed_impact".
func assessGoalImpact(probDelta float64, timelineDelta *int) GoalImpactLevel {
	var level GoalImpactLevel
	switch {
	case probDelta >= significantDelta:
		level = SignificantlyImproved
	case probDelta >= minorDelta:
		level = Improved
	case probDelta <= -significantDelta:
		level = SignificantlyWorsened
	case probDelta <= -minorDelta:
		level = Worsened
	default:
		level = MinimalChange
	}

	if timelineDelta != nil {
		if *timelineDelta <= -1 && level == Improved {
			level = SignificantlyImproved
		}
		if *timelineDelta > 1 && (level == Improved || level == MinimalChange) {
			level = MixedImpact
		}
	}
	return level
}

// generateComparisonAssessment buckets the whole comparison using a 2:1
// improved:worsened ratio, with a retirement override: retiring at least two
// years earlier upgrades to significantly_better, at least two years later
// drags a better or significantly_better verdict down to mixed.
func generateComparisonAssessment(improved, worsened int, retirementChange *int) ComparisonAssessment {
	var assessment ComparisonAssessment
	switch {
	case improved > 2*worsened && improved > 0:
		assessment = SignificantlyBetter
	case improved > worsened:
		assessment = Better
	case worsened > 2*improved && worsened > 0:
		assessment = SignificantlyWorse
	case worsened > improved:
		assessment = Worse
	default:
		assessment = Mixed
	}

	if retirementChange != nil {
		if *retirementChange <= -2 && (assessment == Better || assessment == Mixed) {
			assessment = SignificantlyBetter
		}
		if *retirementChange >= 2 && (assessment == Better || assessment == SignificantlyBetter) {
			assessment = Mixed
		}
	}
	return assessment
}
