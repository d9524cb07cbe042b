package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/finplan/scenario-engine/internal/domain"
)

// Insight severities.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Insight is one rule-based narrative finding about a scenario.
type Insight struct {
	Type           string `json:"type"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
	Severity       string `json:"severity"`
}

// Opportunity is a suggested change ranked by expected effect.
type Opportunity struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Action      string  `json:"action"`
	Priority    string  `json:"priority"`
	ImpactScore float64 `json:"impact_score"`
}

// GenerateScenarioInsights applies the narrative rules to one scenario's
// impact analysis: underfunded clusters, late or early retirement,
// concentrated risk, and overall confidence.
func (a *Analyzer) GenerateScenarioInsights(result *domain.ScenarioResult, impact *ScenarioImpact, goals []domain.Goal) []Insight {
	var insights []Insight

	var underfunded []string
	for _, goal := range goals {
		if gi, ok := impact.GoalImpacts[goal.ID]; ok && gi.FundingStatus == Underfunded {
			underfunded = append(underfunded, goal.Name)
		}
	}
	if len(underfunded) > 0 {
		severity := SeverityMedium
		if len(underfunded) > 2 {
			severity = SeverityHigh
		}
		insights = append(insights, Insight{
			Type:           "underfunded_goals",
			Title:          "Goals at risk of falling short",
			Description:    fmt.Sprintf("%d goal(s) are underfunded under this scenario: %s", len(underfunded), strings.Join(underfunded, ", ")),
			Recommendation: "Increase contributions to the most at-risk goals or extend their target dates",
			Severity:       severity,
		})
	}

	if result.RetirementAge != nil {
		switch age := *result.RetirementAge; {
		case age > 70:
			insights = append(insights, Insight{
				Type:           "late_retirement",
				Title:          "Retirement projects beyond age 70",
				Description:    fmt.Sprintf("Under this scenario retirement is not reachable until age %d", age),
				Recommendation: "Raise the savings rate or adjust the retirement income target",
				Severity:       SeverityHigh,
			})
		case age < 60:
			insights = append(insights, Insight{
				Type:           "early_retirement",
				Title:          "Early retirement within reach",
				Description:    fmt.Sprintf("This scenario supports retiring at age %d", age),
				Recommendation: "Consider whether surplus savings could serve other goals",
				Severity:       SeverityLow,
			})
		}
	}

	if impact.RiskConcentration > 0.7 {
		insights = append(insights, Insight{
			Type:           "concentrated_risk",
			Title:          "Shortfall risk is concentrated",
			Description:    fmt.Sprintf("Risk concentration measures %.2f; most of the shortfall risk sits in a few goals", impact.RiskConcentration),
			Recommendation: "Rebalance contributions so a single goal's failure cannot dominate the plan",
			Severity:       SeverityHigh,
		})
	}

	switch {
	case impact.AverageProbability > 0 && impact.AverageProbability < 0.6:
		insights = append(insights, Insight{
			Type:           "low_overall_confidence",
			Title:          "Overall goal confidence is low",
			Description:    fmt.Sprintf("Average goal success probability is %.0f%%", impact.AverageProbability*100),
			Recommendation: "Revisit goal sizing and savings allocations before committing to this plan",
			Severity:       SeverityMedium,
		})
	case impact.AverageProbability > 0.8:
		insights = append(insights, Insight{
			Type:           "strong_position",
			Title:          "Plan is on solid footing",
			Description:    fmt.Sprintf("Average goal success probability is %.0f%%", impact.AverageProbability*100),
			Recommendation: "Maintain current contributions and review annually",
			Severity:       SeverityLow,
		})
	}

	return insights
}

// SuggestOptimizationOpportunities converts the highest-impact positive
// adjustments across scenarios into ranked, actionable suggestions. Pure
// aggregation over IdentifyMostEffectiveAdjustments.
func (a *Analyzer) SuggestOptimizationOpportunities(results []*domain.ScenarioResult) []Opportunity {
	adjustments := a.IdentifyMostEffectiveAdjustments(results)

	var opportunities []Opportunity
	seen := map[string]bool{}
	for _, adj := range adjustments {
		if adj.ImpactScore <= 0.05 || seen[adj.Variable] {
			continue
		}
		seen[adj.Variable] = true
		priority := SeverityLow
		switch {
		case adj.ImpactScore >= 0.5:
			priority = SeverityHigh
		case adj.ImpactScore >= 0.2:
			priority = SeverityMedium
		}
		opportunities = append(opportunities, Opportunity{
			Title:       fmt.Sprintf("Adjust %s", adj.Variable),
			Description: adj.Description,
			Action:      fmt.Sprintf("Move %s from %s toward %s as in scenario %q", adj.Variable, adj.BaselineValue.String(), adj.ScenarioValue.String(), adj.ScenarioName),
			Priority:    priority,
			ImpactScore: adj.ImpactScore,
		})
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].ImpactScore > opportunities[j].ImpactScore
	})
	return opportunities
}
