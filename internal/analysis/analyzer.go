// Package analysis contains the statistical and heuristic layer over
// scenario result bundles: per-scenario impact analysis, pairwise outcome
// comparison, sensitivity identification, insight generation, and robustness
// scoring. Degenerate inputs (no scenarios, empty series, zero division)
// resolve to neutral defaults rather than raising, so one goal's or one
// scenario's missing data never aborts a batch.
package analysis

import (
	"github.com/finplan/scenario-engine/internal/domain"
	"github.com/finplan/scenario-engine/internal/scenario"
)

// DefaultSynergyBonus is the flat bonus applied when summing individual
// adjustment effects into a combined estimate. It is a tunable default, not a
// modeled quantity.
const DefaultSynergyBonus = 0.10

// Analyzer derives metrics, diffs, and narratives from scenario results.
type Analyzer struct {
	SynergyBonus float64
	Logger       scenario.Logger
}

// NewAnalyzer creates an analyzer with default tuning.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		SynergyBonus: DefaultSynergyBonus,
		Logger:       scenario.NopLogger{},
	}
}

// FundingStatus classifies a goal's success probability.
type FundingStatus string

const (
	FullyFunded     FundingStatus = "fully_funded"     // probability >= 0.9
	MostlyFunded    FundingStatus = "mostly_funded"    // probability >= 0.7
	PartiallyFunded FundingStatus = "partially_funded" // probability >= 0.4
	Underfunded     FundingStatus = "underfunded"      // probability < 0.4
	UnknownFunding  FundingStatus = "unknown"          // no recorded probability
)

// ClassifyFundingStatus maps a probability to its funding status. A nil
// probability is unknown.
func ClassifyFundingStatus(probability *float64) FundingStatus {
	if probability == nil {
		return UnknownFunding
	}
	switch p := *probability; {
	case p >= 0.9:
		return FullyFunded
	case p >= 0.7:
		return MostlyFunded
	case p >= 0.4:
		return PartiallyFunded
	default:
		return Underfunded
	}
}

// GoalImpact is one goal's standing within a single scenario.
type GoalImpact struct {
	GoalID        string           `json:"goal_id"`
	Name          string           `json:"name"`
	Class         domain.GoalClass `json:"class"`
	Probability   *float64         `json:"probability"`
	FundingStatus FundingStatus    `json:"funding_status"`
	Timeline      *int             `json:"timeline,omitempty"`
}

// ScenarioImpact is the per-scenario impact analysis over all goals.
type ScenarioImpact struct {
	ScenarioName        string                `json:"scenario_name"`
	GoalImpacts         map[string]GoalImpact `json:"goal_impacts"`
	AverageProbability  float64               `json:"average_probability"`
	MinimumProbability  float64               `json:"minimum_probability"`
	HighConfidenceGoals int                   `json:"high_confidence_goals"` // probability >= 0.8
	AtRiskGoals         int                   `json:"at_risk_goals"`         // probability < 0.5
	RetirementTimeline  *int                  `json:"retirement_timeline,omitempty"`
	RiskConcentration   float64               `json:"risk_concentration"`
}

// AnalyzeScenarioImpact classifies every goal's funding status under one
// scenario, aggregates probability statistics, reports the earliest
// retirement-goal timeline, and measures risk concentration.
func (a *Analyzer) AnalyzeScenarioImpact(result *domain.ScenarioResult, goals []domain.Goal, profile *domain.HouseholdProfile) *ScenarioImpact {
	impact := &ScenarioImpact{
		ScenarioName: result.Profile.Name,
		GoalImpacts:  make(map[string]GoalImpact, len(goals)),
	}

	var probs []float64
	for _, goal := range goals {
		gi := GoalImpact{GoalID: goal.ID, Name: goal.Name, Class: goal.Class}
		if p, ok := result.Probability(goal.ID); ok {
			prob := p
			gi.Probability = &prob
			probs = append(probs, p)
			if p >= 0.8 {
				impact.HighConfidenceGoals++
			}
			if p < 0.5 {
				impact.AtRiskGoals++
			}
		}
		gi.FundingStatus = ClassifyFundingStatus(gi.Probability)
		if year, ok := result.GoalTimeline[goal.ID]; ok {
			y := year
			gi.Timeline = &y
		}
		impact.GoalImpacts[goal.ID] = gi

		if goal.Class == domain.GoalRetirement && gi.Timeline != nil {
			if impact.RetirementTimeline == nil || *gi.Timeline < *impact.RetirementTimeline {
				impact.RetirementTimeline = gi.Timeline
			}
		}
	}

	impact.AverageProbability = mean(probs)
	impact.MinimumProbability = minProbability(probs)
	impact.RiskConcentration = riskConcentration(probs)
	return impact
}

func minProbability(probs []float64) float64 {
	if len(probs) == 0 {
		return 0
	}
	min := probs[0]
	for _, p := range probs[1:] {
		if p < min {
			min = p
		}
	}
	return min
}

// riskConcentration is a Herfindahl-Hirschman Index over each goal's share
// of the total shortfall (1 - probability), normalized to [0,1] via
// (HHI - 1/n) / (1 - 1/n). Higher means the shortfall risk is concentrated
// in fewer goals. One or zero goals, or zero total shortfall, yield 0.
func riskConcentration(probs []float64) float64 {
	n := len(probs)
	if n <= 1 {
		return 0
	}
	var totalShortfall float64
	for _, p := range probs {
		totalShortfall += 1 - p
	}
	if totalShortfall <= 0 {
		return 0
	}
	var hhi float64
	for _, p := range probs {
		share := (1 - p) / totalShortfall
		hhi += share * share
	}
	floor := 1 / float64(n)
	return clamp((hhi-floor)/(1-floor), 0, 1)
}
