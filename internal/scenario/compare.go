package scenario

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finplan/scenario-engine/internal/domain"
)

// Probability changes smaller than this are treated as noise when counting
// improved and worsened goals.
const probabilityNoiseThreshold = 0.05

// Canned overall assessments for a pairwise comparison.
const (
	AssessmentPositive      = "This scenario has a positive impact on your financial goals"
	AssessmentChallenging   = "This scenario presents challenges for your financial goals"
	AssessmentMinimalImpact = "This scenario has minimal impact on your financial goals"
)

// GoalDelta captures one goal's change between a baseline and an alternative.
type GoalDelta struct {
	ProbabilityChange float64 `json:"probability_change"`
	TimelineChange    *int    `json:"timeline_change,omitempty"`
}

// ComparisonSummary is the canned narrative for one alternative.
type ComparisonSummary struct {
	GoalsImproved     int      `json:"goals_improved"`
	GoalsWorsened     int      `json:"goals_worsened"`
	Findings          []string `json:"findings"`
	OverallAssessment string   `json:"overall_assessment"`
}

// AlternativeComparison holds the deltas of one alternative vs the baseline.
type AlternativeComparison struct {
	GoalDeltas          map[string]GoalDelta       `json:"goal_deltas"`
	RetirementAgeChange *int                       `json:"retirement_age_change,omitempty"`
	NetWorthChanges     map[string]decimal.Decimal `json:"net_worth_changes"`
	Summary             ComparisonSummary          `json:"summary"`
}

// PairwiseComparison is the output of Generator.CompareScenarios.
type PairwiseComparison struct {
	BaselineName string                            `json:"baseline_name"`
	Alternatives map[string]*AlternativeComparison `json:"alternatives"`
}

// CompareScenarios diffs each named alternative against the baseline result,
// producing per-goal deltas, retirement and net-worth changes, and a canned
// summary per alternative.
func (g *Generator) CompareScenarios(baseline *domain.ScenarioResult, alternatives map[string]*domain.ScenarioResult) *PairwiseComparison {
	comparison := &PairwiseComparison{
		BaselineName: baseline.Profile.Name,
		Alternatives: make(map[string]*AlternativeComparison, len(alternatives)),
	}
	for name, alternative := range alternatives {
		if alternative == nil {
			g.Logger.Warnf("skipping nil alternative %q", name)
			continue
		}
		comparison.Alternatives[name] = compareAlternative(baseline, alternative)
	}
	return comparison
}

func compareAlternative(baseline, alternative *domain.ScenarioResult) *AlternativeComparison {
	ac := &AlternativeComparison{
		GoalDeltas:      make(map[string]GoalDelta),
		NetWorthChanges: make(map[string]decimal.Decimal),
	}

	improved, worsened := 0, 0
	for goalID, baseProb := range baseline.GoalProbabilities {
		altProb, ok := alternative.GoalProbabilities[goalID]
		if !ok {
			continue
		}
		delta := GoalDelta{ProbabilityChange: altProb - baseProb}
		if baseYear, ok := baseline.GoalTimeline[goalID]; ok {
			if altYear, ok := alternative.GoalTimeline[goalID]; ok {
				change := altYear - baseYear
				delta.TimelineChange = &change
			}
		}
		ac.GoalDeltas[goalID] = delta

		if delta.ProbabilityChange > probabilityNoiseThreshold {
			improved++
		} else if delta.ProbabilityChange < -probabilityNoiseThreshold {
			worsened++
		}
	}

	if baseline.RetirementAge != nil && alternative.RetirementAge != nil {
		change := *alternative.RetirementAge - *baseline.RetirementAge
		ac.RetirementAgeChange = &change
	}

	for _, marker := range domain.NetWorthMarkers() {
		baseNW, okBase := baseline.NetWorthProjection[marker]
		altNW, okAlt := alternative.NetWorthProjection[marker]
		if okBase && okAlt {
			ac.NetWorthChanges[marker] = altNW.Sub(baseNW)
		}
	}

	ac.Summary = summarizeComparison(improved, worsened, ac)
	return ac
}

func summarizeComparison(improved, worsened int, ac *AlternativeComparison) ComparisonSummary {
	summary := ComparisonSummary{GoalsImproved: improved, GoalsWorsened: worsened}

	if improved > 0 {
		summary.Findings = append(summary.Findings,
			fmt.Sprintf("%d goal(s) show improved probability of success", improved))
	}
	if worsened > 0 {
		summary.Findings = append(summary.Findings,
			fmt.Sprintf("%d goal(s) show decreased probability of success", worsened))
	}
	if ac.RetirementAgeChange != nil {
		switch change := *ac.RetirementAgeChange; {
		case change > 0:
			summary.Findings = append(summary.Findings,
				fmt.Sprintf("Retirement delayed by %d year(s)", change))
		case change < 0:
			summary.Findings = append(summary.Findings,
				fmt.Sprintf("Retirement possible %d year(s) earlier", -change))
		}
	}
	if marker := longestMarker(ac.NetWorthChanges); marker != "" {
		change := ac.NetWorthChanges[marker]
		horizon := domain.MarkerHorizon(marker)
		if change.IsNegative() {
			summary.Findings = append(summary.Findings,
				fmt.Sprintf("Net worth decreases by $%s at year %d", change.Abs().StringFixed(0), horizon))
		} else if change.IsPositive() {
			summary.Findings = append(summary.Findings,
				fmt.Sprintf("Net worth increases by $%s at year %d", change.StringFixed(0), horizon))
		}
	}

	summary.OverallAssessment = assessFindings(summary.Findings)
	return summary
}

// assessFindings buckets the comparison from the finding texts: any mention
// of a decrease or delay marks the scenario challenging, any remaining
// finding marks it positive, none means minimal impact.
func assessFindings(findings []string) string {
	if len(findings) == 0 {
		return AssessmentMinimalImpact
	}
	for _, finding := range findings {
		lower := strings.ToLower(finding)
		if strings.Contains(lower, "decrease") || strings.Contains(lower, "delay") {
			return AssessmentChallenging
		}
	}
	return AssessmentPositive
}

func longestMarker(changes map[string]decimal.Decimal) string {
	best := ""
	for marker := range changes {
		if domain.MarkerHorizon(marker) > domain.MarkerHorizon(best) {
			best = marker
		}
	}
	return best
}
