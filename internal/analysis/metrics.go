package analysis

import (
	"github.com/finplan/scenario-engine/internal/domain"
	"github.com/finplan/scenario-engine/internal/scenario"
)

// Financial resilience blends one measured input (emergency fund success
// probability) with two placeholder constants. The debt ratio and income
// stability figures are documented approximations pending a dedicated
// debt/income calculator; they are not derived from profile data.
const (
	placeholderDebtRatio       = 0.3
	placeholderIncomeStability = 0.7

	resilienceEmergencyWeight = 0.4
	resilienceDebtWeight      = 0.3
	resilienceIncomeWeight    = 0.3
)

// SuccessSummary carries one scenario's success metrics.
type SuccessSummary struct {
	GoalSuccessRate     float64 `json:"goal_success_rate"`    // mean of squared per-goal probabilities
	FullyFundedGoals    int     `json:"fully_funded_goals"`   // probability >= 0.9
	UnderfundedGoals    int     `json:"underfunded_goals"`    // probability < 0.5
	RetirementReadiness float64 `json:"retirement_readiness"` // min probability among retirement goals
	FinancialResilience float64 `json:"financial_resilience"`
}

// CalculateSuccessMetrics derives a scenario's success summary. The goal
// success rate averages squared probabilities, which penalizes
// low-probability goals more than a plain mean would.
func (a *Analyzer) CalculateSuccessMetrics(result *domain.ScenarioResult, goals []domain.Goal, profile *domain.HouseholdProfile) *SuccessSummary {
	summary := &SuccessSummary{}

	var squared []float64
	var emergencyProb *float64
	retirementReadiness := -1.0
	for _, goal := range goals {
		p, ok := result.Probability(goal.ID)
		if !ok {
			continue
		}
		squared = append(squared, p*p)
		if p >= 0.9 {
			summary.FullyFundedGoals++
		}
		if p < 0.5 {
			summary.UnderfundedGoals++
		}
		if goal.Class == domain.GoalRetirement && (retirementReadiness < 0 || p < retirementReadiness) {
			retirementReadiness = p
		}
		if goal.Class == domain.GoalEmergencyFund && emergencyProb == nil {
			prob := p
			emergencyProb = &prob
		}
	}

	summary.GoalSuccessRate = mean(squared)
	if retirementReadiness >= 0 {
		summary.RetirementReadiness = retirementReadiness
	}
	summary.FinancialResilience = financialResilience(emergencyProb, result)
	return summary
}

// financialResilience blends the emergency fund probability with the
// placeholder debt and income terms, clamped to [0,1]. Without an emergency
// fund goal the scenario's mean goal probability stands in.
func financialResilience(emergencyProb *float64, result *domain.ScenarioResult) float64 {
	emergency := result.MeanGoalProbability()
	if emergencyProb != nil {
		emergency = *emergencyProb
	}
	score := resilienceEmergencyWeight*emergency +
		resilienceDebtWeight*(1-placeholderDebtRatio) +
		resilienceIncomeWeight*placeholderIncomeStability
	return clamp(score, 0, 1)
}

// Metrics shapes a success summary into the comparison container's
// per-scenario record, attaching the scenario's retirement age and net worth
// progression. The achievement rate is the fully funded share of goals with
// recorded probabilities.
func (ss *SuccessSummary) Metrics(result *domain.ScenarioResult) *scenario.SuccessMetrics {
	achievementRate := 0.0
	if n := len(result.GoalProbabilities); n > 0 {
		achievementRate = float64(ss.FullyFundedGoals) / float64(n)
	}
	return &scenario.SuccessMetrics{
		OverallSuccessRate:       ss.GoalSuccessRate,
		RetirementAge:            result.RetirementAge,
		NetWorthProgression:      result.NetWorthProjection,
		GoalAchievementRate:      achievementRate,
		FinancialResilienceScore: ss.FinancialResilience,
	}
}
