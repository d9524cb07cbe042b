package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Net worth projection markers produced by the analysis engines.
const (
	MarkerYear5  = "year_5"
	MarkerYear10 = "year_10"
	MarkerYear20 = "year_20"
	MarkerYear30 = "year_30"
)

// NetWorthMarkers lists the projection markers in horizon order.
func NetWorthMarkers() []string {
	return []string{MarkerYear5, MarkerYear10, MarkerYear20, MarkerYear30}
}

// MarkerHorizon returns the year offset encoded in a net worth marker
// ("year_10" -> 10). Unrecognized markers return 0.
func MarkerHorizon(marker string) int {
	suffix, ok := strings.CutPrefix(marker, "year_")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0
	}
	return n
}

// ScenarioResult is the outcome bundle for one scenario, produced by a
// probability/gap-analysis engine.
type ScenarioResult struct {
	Profile            ScenarioProfile            `yaml:"scenario_profile" json:"scenario_profile"`
	GoalProbabilities  map[string]float64         `yaml:"goal_probabilities" json:"goal_probabilities"`
	GoalTimeline       map[string]int             `yaml:"goal_achievement_timeline" json:"goal_achievement_timeline"`
	GoalFundingGaps    map[string]decimal.Decimal `yaml:"goal_funding_gaps,omitempty" json:"goal_funding_gaps,omitempty"`
	NetWorthProjection map[string]decimal.Decimal `yaml:"net_worth_projection" json:"net_worth_projection"`
	RetirementAge      *int                       `yaml:"retirement_age,omitempty" json:"retirement_age,omitempty"`
	AnalysisDate       time.Time                  `yaml:"analysis_date" json:"analysis_date"`
}

// MeanGoalProbability returns the average success probability across goals,
// or 0 when the result carries no probabilities.
func (sr *ScenarioResult) MeanGoalProbability() float64 {
	if len(sr.GoalProbabilities) == 0 {
		return 0
	}
	var sum float64
	for _, p := range sr.GoalProbabilities {
		sum += p
	}
	return sum / float64(len(sr.GoalProbabilities))
}

// Probability looks up one goal's success probability; the second return is
// false when the goal has no recorded probability.
func (sr *ScenarioResult) Probability(goalID string) (float64, bool) {
	p, ok := sr.GoalProbabilities[goalID]
	return p, ok
}

// LongestHorizonMarker returns the marker with the longest horizon that has a
// recorded net worth value, or "" when the projection is empty.
func (sr *ScenarioResult) LongestHorizonMarker() string {
	best := ""
	for marker := range sr.NetWorthProjection {
		if MarkerHorizon(marker) > MarkerHorizon(best) {
			best = marker
		}
	}
	return best
}

// SortedGoalIDs returns the goal ids present in the probability map in a
// stable order.
func (sr *ScenarioResult) SortedGoalIDs() []string {
	ids := make([]string, 0, len(sr.GoalProbabilities))
	for id := range sr.GoalProbabilities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
