package scenario

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finplan/scenario-engine/internal/domain"
)

// GoalOutcome is one goal's outcome under one scenario.
type GoalOutcome struct {
	Probability *float64        `json:"probability"`
	Timeline    *int            `json:"timeline"`
	FundingGap  decimal.Decimal `json:"funding_gap"`
	Achievable  bool            `json:"achievable"`
}

// SuccessMetrics are the per-scenario headline metrics.
type SuccessMetrics struct {
	OverallSuccessRate       float64                    `json:"overall_success_rate"`
	RetirementAge            *int                       `json:"retirement_age,omitempty"`
	NetWorthProgression      map[string]decimal.Decimal `json:"net_worth_progression"`
	GoalAchievementRate      float64                    `json:"goal_achievement_rate"`
	FinancialResilienceScore float64                    `json:"financial_resilience_score"`
}

// DifferenceMetrics measure one scenario against the baseline.
type DifferenceMetrics struct {
	SuccessRateChange     float64                    `json:"success_rate_change"`
	RetirementAgeChange   float64                    `json:"retirement_age_change"`
	NetWorthImpact        map[string]decimal.Decimal `json:"net_worth_impact"`
	GoalAchievementChange float64                    `json:"goal_achievement_change"`
}

// SensitivityEntry records how strongly one input variable moves outcomes.
type SensitivityEntry struct {
	Variable      string   `json:"variable"`
	ImpactScore   float64  `json:"impact_score"`
	AffectedGoals []string `json:"affected_goals"`
}

// Weights for scoring alternatives against the baseline. Retirement age is
// inverted because an earlier retirement (negative delta) is an improvement.
const (
	weightSuccessRate     = 0.3
	weightRetirementAge   = 0.3
	weightNetWorth        = 0.2
	weightGoalAchievement = 0.2
	netWorthScoreDivisor  = 1_000_000
)

// ComparisonResult aggregates the results of N named scenarios for one
// comparison request. It is allocated once and filled incrementally by
// setter calls; unknown goal or scenario names are silently ignored so
// callers may probe optional metrics without guarding every write.
type ComparisonResult struct {
	ID                string                             `json:"id"`
	ScenarioResults   map[string]*domain.ScenarioResult  `json:"scenario_results"`
	ScenarioOrder     []string                           `json:"scenario_order"`
	BaselineName      string                             `json:"baseline_name"`
	GoalOutcomes      map[string]map[string]*GoalOutcome `json:"goal_outcomes"`
	SuccessMetrics    map[string]*SuccessMetrics         `json:"success_metrics"`
	DifferenceMetrics map[string]*DifferenceMetrics      `json:"difference_metrics"`
	Sensitivity       []SensitivityEntry                 `json:"sensitivity_analysis"`
	ProcessedAt       time.Time                          `json:"processed_at"`
}

// NewComparisonResult allocates a comparison over the given goals and
// ordered scenario results. The baseline is the first scenario whose name
// contains "baseline" (case-insensitive), else the first by insertion order.
func NewComparisonResult(goalIDs []string, results []*domain.ScenarioResult) *ComparisonResult {
	cr := &ComparisonResult{
		ID:                uuid.NewString(),
		ScenarioResults:   make(map[string]*domain.ScenarioResult, len(results)),
		ScenarioOrder:     make([]string, 0, len(results)),
		GoalOutcomes:      make(map[string]map[string]*GoalOutcome, len(goalIDs)),
		SuccessMetrics:    make(map[string]*SuccessMetrics, len(results)),
		DifferenceMetrics: make(map[string]*DifferenceMetrics),
		ProcessedAt:       time.Now().UTC(),
	}
	for _, result := range results {
		if result == nil {
			continue
		}
		name := result.Profile.Name
		if _, seen := cr.ScenarioResults[name]; seen {
			continue
		}
		cr.ScenarioResults[name] = result
		cr.ScenarioOrder = append(cr.ScenarioOrder, name)
	}
	cr.BaselineName = selectBaseline(cr.ScenarioOrder)
	for _, goalID := range goalIDs {
		outcomes := make(map[string]*GoalOutcome, len(cr.ScenarioOrder))
		for _, name := range cr.ScenarioOrder {
			outcomes[name] = nil
		}
		cr.GoalOutcomes[goalID] = outcomes
	}
	return cr
}

func selectBaseline(order []string) string {
	for _, name := range order {
		if strings.Contains(strings.ToLower(name), "baseline") {
			return name
		}
	}
	if len(order) > 0 {
		return order[0]
	}
	return ""
}

// SetGoalOutcome records one goal's outcome under one scenario. Unknown goal
// ids or scenario names are ignored.
func (cr *ComparisonResult) SetGoalOutcome(goalID, scenarioName string, outcome *GoalOutcome) {
	outcomes, ok := cr.GoalOutcomes[goalID]
	if !ok {
		return
	}
	if _, ok := outcomes[scenarioName]; !ok {
		return
	}
	outcomes[scenarioName] = outcome
}

// SetSuccessMetric records a scenario's headline metrics. Unknown scenario
// names are ignored.
func (cr *ComparisonResult) SetSuccessMetric(scenarioName string, metrics *SuccessMetrics) {
	if _, ok := cr.ScenarioResults[scenarioName]; !ok {
		return
	}
	cr.SuccessMetrics[scenarioName] = metrics
}

// SetDifferenceMetric records a non-baseline scenario's difference metrics.
// Unknown scenario names and the baseline itself are ignored.
func (cr *ComparisonResult) SetDifferenceMetric(scenarioName string, metrics *DifferenceMetrics) {
	if _, ok := cr.ScenarioResults[scenarioName]; !ok {
		return
	}
	if scenarioName == cr.BaselineName {
		return
	}
	cr.DifferenceMetrics[scenarioName] = metrics
}

// AddSensitivityResult records one variable's sensitivity. A repeated
// variable name updates the existing entry in place, preserving insertion
// order.
func (cr *ComparisonResult) AddSensitivityResult(variable string, impactScore float64, affectedGoals []string) {
	for i := range cr.Sensitivity {
		if cr.Sensitivity[i].Variable == variable {
			cr.Sensitivity[i].ImpactScore = impactScore
			cr.Sensitivity[i].AffectedGoals = affectedGoals
			return
		}
	}
	cr.Sensitivity = append(cr.Sensitivity, SensitivityEntry{
		Variable:      variable,
		ImpactScore:   impactScore,
		AffectedGoals: affectedGoals,
	})
}

// MostSensitiveVariables returns the top-limit sensitivity entries by impact
// score descending, ties broken by insertion order.
func (cr *ComparisonResult) MostSensitiveVariables(limit int) []SensitivityEntry {
	if limit <= 0 {
		return nil
	}
	sorted := make([]SensitivityEntry, len(cr.Sensitivity))
	copy(sorted, cr.Sensitivity)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ImpactScore > sorted[j].ImpactScore
	})
	if limit > len(sorted) {
		limit = len(sorted)
	}
	return sorted[:limit]
}

// BestAlternativeScenario scores every non-baseline scenario that has
// difference metrics and returns the highest-scoring name. The second return
// is false when no difference metrics exist.
func (cr *ComparisonResult) BestAlternativeScenario() (string, bool) {
	best := ""
	bestScore := 0.0
	found := false
	for _, name := range cr.ScenarioOrder {
		if name == cr.BaselineName {
			continue
		}
		dm, ok := cr.DifferenceMetrics[name]
		if !ok || dm == nil {
			continue
		}
		score := weightSuccessRate*dm.SuccessRateChange +
			weightRetirementAge*(-dm.RetirementAgeChange) +
			weightNetWorth*netWorthScore(dm.NetWorthImpact) +
			weightGoalAchievement*dm.GoalAchievementChange
		if !found || score > bestScore {
			best = name
			bestScore = score
			found = true
		}
	}
	return best, found
}

// netWorthScore is the net-worth delta at the longest recorded horizon,
// scaled to roughly [-1,1].
func netWorthScore(impact map[string]decimal.Decimal) float64 {
	marker := ""
	for m := range impact {
		if domain.MarkerHorizon(m) > domain.MarkerHorizon(marker) {
			marker = m
		}
	}
	if marker == "" {
		return 0
	}
	score := impact[marker].InexactFloat64() / netWorthScoreDivisor
	return clamp(score, -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ToJSON serializes the full comparison, including processed_at, for
// renderers and persistence.
func (cr *ComparisonResult) ToJSON() ([]byte, error) {
	return json.Marshal(cr)
}

// ComparisonFromJSON rebuilds a comparison from its serialized form. The
// round trip preserves goal outcomes, success metrics, difference metrics,
// and sensitivity entries.
func ComparisonFromJSON(data []byte) (*ComparisonResult, error) {
	var cr ComparisonResult
	if err := json.Unmarshal(data, &cr); err != nil {
		return nil, err
	}
	return &cr, nil
}
