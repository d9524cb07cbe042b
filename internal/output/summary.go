package output

import (
	"sort"

	"github.com/finplan/scenario-engine/internal/analysis"
	"github.com/finplan/scenario-engine/internal/domain"
	"github.com/finplan/scenario-engine/pkg/moneyfmt"
)

// ScenarioSummary is a compact, display-ready view of one scenario's outcome.
type ScenarioSummary struct {
	Name                string            `json:"name"`
	Description         string            `json:"description,omitempty"`
	AverageProbability  string            `json:"average_probability"`
	GoalProbabilities   map[string]string `json:"goal_probabilities"`
	HighConfidenceGoals int               `json:"high_confidence_goals"`
	AtRiskGoals         int               `json:"at_risk_goals"`
	RiskConcentration   string            `json:"risk_concentration"`
	RetirementAge       *int              `json:"retirement_age,omitempty"`
	ProjectedNetWorth   string            `json:"projected_net_worth,omitempty"`
	NetWorthHorizon     int               `json:"net_worth_horizon_years,omitempty"`
	KeyAssumptions      map[string]string `json:"key_assumptions"`
}

// PrepareScenarioSummary flattens a result and its impact analysis into
// formatted strings for report rendering.
func PrepareScenarioSummary(result *domain.ScenarioResult, impact *analysis.ScenarioImpact) *ScenarioSummary {
	if result == nil {
		return nil
	}
	summary := &ScenarioSummary{
		Name:              result.Profile.Name,
		Description:       result.Profile.Description,
		GoalProbabilities: make(map[string]string, len(result.GoalProbabilities)),
		RetirementAge:     result.RetirementAge,
		KeyAssumptions:    keyAssumptions(result.Profile),
	}
	for _, goalID := range result.SortedGoalIDs() {
		summary.GoalProbabilities[goalID] = formatPercent(result.GoalProbabilities[goalID])
	}
	if impact != nil {
		summary.AverageProbability = formatPercent(impact.AverageProbability)
		summary.HighConfidenceGoals = impact.HighConfidenceGoals
		summary.AtRiskGoals = impact.AtRiskGoals
		summary.RiskConcentration = formatPercent(impact.RiskConcentration)
	} else {
		summary.AverageProbability = formatPercent(result.MeanGoalProbability())
		summary.RiskConcentration = formatPercent(0)
	}
	if marker := result.LongestHorizonMarker(); marker != "" {
		summary.ProjectedNetWorth = moneyfmt.Display(result.NetWorthProjection[marker], DisplayCurrency)
		summary.NetWorthHorizon = domain.MarkerHorizon(marker)
	}
	return summary
}

// keyAssumptions renders the scenario's headline assumptions as percentages.
func keyAssumptions(sp domain.ScenarioProfile) map[string]string {
	assumptions := map[string]string{
		"inflation": formatPercent(sp.InflationAssumption.InexactFloat64()),
	}
	classes := make([]string, 0, len(sp.MarketReturns))
	for class := range sp.MarketReturns {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	for _, class := range classes {
		assumptions[class+"_return"] = formatPercent(sp.MarketReturns[class].InexactFloat64())
	}
	return assumptions
}
