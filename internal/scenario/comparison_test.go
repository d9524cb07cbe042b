package scenario

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finplan/scenario-engine/internal/domain"
)

func resultNamed(name string) *domain.ScenarioResult {
	return &domain.ScenarioResult{Profile: domain.ScenarioProfile{Name: name}}
}

func TestNewComparisonResult_BaselineSelection(t *testing.T) {
	cr := NewComparisonResult([]string{"retirement"}, []*domain.ScenarioResult{
		resultNamed("optimistic"),
		resultNamed("My Baseline Plan"),
		resultNamed("pessimistic"),
	})
	assert.Equal(t, "My Baseline Plan", cr.BaselineName)
	assert.Equal(t, []string{"optimistic", "My Baseline Plan", "pessimistic"}, cr.ScenarioOrder)
	assert.NotEmpty(t, cr.ID)

	// Without a "baseline" name the first scenario stands in.
	cr = NewComparisonResult(nil, []*domain.ScenarioResult{
		resultNamed("optimistic"),
		resultNamed("pessimistic"),
	})
	assert.Equal(t, "optimistic", cr.BaselineName)
}

func TestNewComparisonResult_PreallocatesGoalOutcomes(t *testing.T) {
	cr := NewComparisonResult([]string{"retirement", "college"}, []*domain.ScenarioResult{
		resultNamed("baseline"),
		resultNamed("optimistic"),
	})
	require.Len(t, cr.GoalOutcomes, 2)
	for _, goalID := range []string{"retirement", "college"} {
		outcomes, ok := cr.GoalOutcomes[goalID]
		require.True(t, ok)
		require.Len(t, outcomes, 2)
		assert.Nil(t, outcomes["baseline"])
		assert.Nil(t, outcomes["optimistic"])
	}
}

func TestSetters_IgnoreUnknownNames(t *testing.T) {
	cr := NewComparisonResult([]string{"retirement"}, []*domain.ScenarioResult{
		resultNamed("baseline"),
		resultNamed("optimistic"),
	})

	p := 0.8
	cr.SetGoalOutcome("unknown_goal", "baseline", &GoalOutcome{Probability: &p})
	cr.SetGoalOutcome("retirement", "unknown_scenario", &GoalOutcome{Probability: &p})
	assert.Len(t, cr.GoalOutcomes, 1)
	assert.Nil(t, cr.GoalOutcomes["retirement"]["baseline"])

	cr.SetSuccessMetric("unknown_scenario", &SuccessMetrics{})
	assert.Empty(t, cr.SuccessMetrics)

	// The baseline never gets difference metrics.
	cr.SetDifferenceMetric("baseline", &DifferenceMetrics{})
	cr.SetDifferenceMetric("unknown_scenario", &DifferenceMetrics{})
	assert.Empty(t, cr.DifferenceMetrics)

	cr.SetDifferenceMetric("optimistic", &DifferenceMetrics{SuccessRateChange: 0.1})
	require.Len(t, cr.DifferenceMetrics, 1)
}

func TestAddSensitivityResult_UpdatesInPlace(t *testing.T) {
	cr := NewComparisonResult(nil, []*domain.ScenarioResult{resultNamed("baseline")})
	cr.AddSensitivityResult("market_returns.stocks", 0.9, []string{"retirement"})
	cr.AddSensitivityResult("inflation_assumption", 0.5, nil)
	cr.AddSensitivityResult("market_returns.stocks", 0.95, []string{"retirement", "college"})

	require.Len(t, cr.Sensitivity, 2)
	assert.Equal(t, "market_returns.stocks", cr.Sensitivity[0].Variable)
	assert.InDelta(t, 0.95, cr.Sensitivity[0].ImpactScore, 1e-9)
	assert.Equal(t, []string{"retirement", "college"}, cr.Sensitivity[0].AffectedGoals)
}

func TestMostSensitiveVariables(t *testing.T) {
	cr := NewComparisonResult(nil, []*domain.ScenarioResult{resultNamed("baseline")})
	cr.AddSensitivityResult("market_returns.bonds", 0.2, nil)
	cr.AddSensitivityResult("market_returns.stocks", 1.0, nil)
	cr.AddSensitivityResult("inflation_assumption", 0.6, nil)
	cr.AddSensitivityResult("income_growth_rates.primary", 0.1, nil)

	top := cr.MostSensitiveVariables(3)
	require.Len(t, top, 3)
	assert.Equal(t, "market_returns.stocks", top[0].Variable)
	assert.Equal(t, "inflation_assumption", top[1].Variable)
	assert.Equal(t, "market_returns.bonds", top[2].Variable)

	assert.Nil(t, cr.MostSensitiveVariables(0))
	assert.Len(t, cr.MostSensitiveVariables(10), 4)
}

func TestBestAlternativeScenario(t *testing.T) {
	cr := NewComparisonResult(nil, []*domain.ScenarioResult{
		resultNamed("baseline"),
		resultNamed("optimistic"),
		resultNamed("pessimistic"),
	})

	// No difference metrics yet.
	_, ok := cr.BestAlternativeScenario()
	assert.False(t, ok)

	cr.SetDifferenceMetric("optimistic", &DifferenceMetrics{
		SuccessRateChange:     0.15,
		RetirementAgeChange:   -5,
		GoalAchievementChange: 0.2,
		NetWorthImpact: map[string]decimal.Decimal{
			domain.MarkerYear30: decimal.NewFromInt(500000),
		},
	})
	cr.SetDifferenceMetric("pessimistic", &DifferenceMetrics{
		SuccessRateChange:     -0.2,
		RetirementAgeChange:   4,
		GoalAchievementChange: -0.3,
		NetWorthImpact: map[string]decimal.Decimal{
			domain.MarkerYear30: decimal.NewFromInt(-800000),
		},
	})

	best, ok := cr.BestAlternativeScenario()
	require.True(t, ok)
	assert.Equal(t, "optimistic", best)
}

func TestComparison_JSONRoundTrip(t *testing.T) {
	base := resultNamed("baseline")
	base.GoalProbabilities = map[string]float64{"retirement": 0.7}
	alt := resultNamed("optimistic")
	alt.GoalProbabilities = map[string]float64{"retirement": 0.85}

	cr := NewComparisonResult([]string{"retirement"}, []*domain.ScenarioResult{base, alt})
	p := 0.7
	cr.SetGoalOutcome("retirement", "baseline", &GoalOutcome{
		Probability: &p,
		FundingGap:  decimal.NewFromInt(120000),
		Achievable:  true,
	})
	cr.SetSuccessMetric("baseline", &SuccessMetrics{OverallSuccessRate: 0.49})
	cr.SetDifferenceMetric("optimistic", &DifferenceMetrics{SuccessRateChange: 0.23})
	cr.AddSensitivityResult("inflation_assumption", 1.0, []string{"retirement"})

	data, err := cr.ToJSON()
	require.NoError(t, err)

	restored, err := ComparisonFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, cr.ID, restored.ID)
	assert.Equal(t, cr.BaselineName, restored.BaselineName)
	assert.Equal(t, cr.ScenarioOrder, restored.ScenarioOrder)
	require.NotNil(t, restored.GoalOutcomes["retirement"]["baseline"])
	assert.InDelta(t, 0.7, *restored.GoalOutcomes["retirement"]["baseline"].Probability, 1e-9)
	assert.True(t, restored.GoalOutcomes["retirement"]["baseline"].FundingGap.Equal(decimal.NewFromInt(120000)))
	assert.InDelta(t, 0.49, restored.SuccessMetrics["baseline"].OverallSuccessRate, 1e-9)
	assert.InDelta(t, 0.23, restored.DifferenceMetrics["optimistic"].SuccessRateChange, 1e-9)
	require.Len(t, restored.Sensitivity, 1)
	assert.Equal(t, "inflation_assumption", restored.Sensitivity[0].Variable)
	assert.True(t, cr.ProcessedAt.Equal(restored.ProcessedAt))
}
