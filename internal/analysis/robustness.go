package analysis

import (
	"sort"

	"github.com/finplan/scenario-engine/internal/domain"
)

// Robustness assessments for the overall score.
const (
	RobustnessSensitive = "sensitive" // overall score < 0.5
	RobustnessModerate  = "moderate"
	RobustnessResilient = "resilient" // overall score > 0.8
)

// RobustnessReport measures how stable a scenario's goal probabilities stay
// under perturbed variations of its assumptions.
type RobustnessReport struct {
	GoalStability  map[string]float64 `json:"goal_stability"`
	OverallScore   float64            `json:"overall_score"`
	SensitiveGoals []string           `json:"sensitive_goals"` // stability < 0.5
	ResilientGoals []string           `json:"resilient_goals"` // stability > 0.8
	Assessment     string             `json:"assessment"`
}

// CalculateScenarioRobustness measures per-goal probability deviation across
// the variations. Each goal's stability is 1 - min(1, stdev(deviations)*5);
// the overall score is the mean stability. Variations identical to the base
// yield a perfect score.
func (a *Analyzer) CalculateScenarioRobustness(base *domain.ScenarioResult, variations []*domain.ScenarioResult) *RobustnessReport {
	report := &RobustnessReport{GoalStability: make(map[string]float64)}

	goalIDs := base.SortedGoalIDs()
	var total float64
	for _, goalID := range goalIDs {
		baseProb, _ := base.Probability(goalID)
		var deviations []float64
		for _, v := range variations {
			if v == nil {
				continue
			}
			if p, ok := v.Probability(goalID); ok {
				deviations = append(deviations, p-baseProb)
			}
		}
		stability := 1 - minFloat(1, stdev(deviations)*5)
		report.GoalStability[goalID] = stability
		total += stability

		if stability < 0.5 {
			report.SensitiveGoals = append(report.SensitiveGoals, goalID)
		} else if stability > 0.8 {
			report.ResilientGoals = append(report.ResilientGoals, goalID)
		}
	}

	if len(goalIDs) > 0 {
		report.OverallScore = total / float64(len(goalIDs))
	} else {
		// No goals to measure; treat as perfectly stable.
		report.OverallScore = 1
	}
	sort.Strings(report.SensitiveGoals)
	sort.Strings(report.ResilientGoals)

	switch {
	case report.OverallScore < 0.5:
		report.Assessment = RobustnessSensitive
	case report.OverallScore > 0.8:
		report.Assessment = RobustnessResilient
	default:
		report.Assessment = RobustnessModerate
	}
	return report
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
