package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finplan/scenario-engine/internal/domain"
)

func builderResult(name string, stocks, inflation float64, probs map[string]float64, retirementAge *int, netWorth30 int64) *domain.ScenarioResult {
	return &domain.ScenarioResult{
		Profile: domain.ScenarioProfile{
			Name: name,
			MarketReturns: map[string]decimal.Decimal{
				"stocks": decimal.NewFromFloat(stocks),
			},
			InflationAssumption: decimal.NewFromFloat(inflation),
		},
		GoalProbabilities: probs,
		GoalTimeline:      map[string]int{"retirement": 20},
		GoalFundingGaps:   map[string]decimal.Decimal{"retirement": decimal.NewFromInt(90000)},
		RetirementAge:     retirementAge,
		NetWorthProjection: map[string]decimal.Decimal{
			domain.MarkerYear30: decimal.NewFromInt(netWorth30),
		},
	}
}

func TestBuildComparison(t *testing.T) {
	a := NewAnalyzer()
	goals := analysisGoals()
	baseline := builderResult("baseline", 0.07, 0.03,
		map[string]float64{"retirement": 0.70, "emergency": 0.90, "college": 0.50},
		intPtr(65), 1_000_000)
	optimistic := builderResult("optimistic", 0.10, 0.025,
		map[string]float64{"retirement": 0.85, "emergency": 0.95, "college": 0.65},
		intPtr(63), 1_500_000)
	pessimistic := builderResult("pessimistic", 0.04, 0.045,
		map[string]float64{"retirement": 0.50, "emergency": 0.80, "college": 0.35},
		intPtr(68), 650_000)

	cr := a.BuildComparison(goals, nil, []*domain.ScenarioResult{baseline, optimistic, pessimistic})
	require.NotNil(t, cr)
	assert.Equal(t, "baseline", cr.BaselineName)
	assert.Equal(t, []string{"baseline", "optimistic", "pessimistic"}, cr.ScenarioOrder)

	// Goal outcomes are filled for every goal/scenario pair.
	outcome := cr.GoalOutcomes["retirement"]["baseline"]
	require.NotNil(t, outcome)
	assert.InDelta(t, 0.70, *outcome.Probability, 1e-9)
	assert.True(t, outcome.Achievable)
	require.NotNil(t, outcome.Timeline)
	assert.Equal(t, 20, *outcome.Timeline)
	assert.True(t, outcome.FundingGap.Equal(decimal.NewFromInt(90000)))

	collegeWorst := cr.GoalOutcomes["college"]["pessimistic"]
	require.NotNil(t, collegeWorst)
	assert.False(t, collegeWorst.Achievable)

	// Success metrics exist for all three, difference metrics for the two
	// alternatives only.
	require.Len(t, cr.SuccessMetrics, 3)
	require.Len(t, cr.DifferenceMetrics, 2)
	diff := cr.DifferenceMetrics["optimistic"]
	require.NotNil(t, diff)
	assert.Greater(t, diff.SuccessRateChange, 0.0)
	assert.InDelta(t, -2.0, diff.RetirementAgeChange, 1e-9)
	assert.True(t, diff.NetWorthImpact[domain.MarkerYear30].Equal(decimal.NewFromInt(500_000)))

	// Sensitivity entries come from the tracked variables.
	assert.NotEmpty(t, cr.Sensitivity)
	best, ok := cr.BestAlternativeScenario()
	require.True(t, ok)
	assert.Equal(t, "optimistic", best)
}

func TestBuildComparison_SkipsNilResults(t *testing.T) {
	a := NewAnalyzer()
	goals := analysisGoals()
	baseline := builderResult("baseline", 0.07, 0.03,
		map[string]float64{"retirement": 0.70}, nil, 1_000_000)

	cr := a.BuildComparison(goals, nil, []*domain.ScenarioResult{baseline, nil})
	assert.Equal(t, []string{"baseline"}, cr.ScenarioOrder)
	require.Len(t, cr.SuccessMetrics, 1)
	assert.Empty(t, cr.DifferenceMetrics)
}

func TestBuildComparison_GoalWithoutProbabilityStaysNil(t *testing.T) {
	a := NewAnalyzer()
	goals := analysisGoals()
	baseline := builderResult("baseline", 0.07, 0.03,
		map[string]float64{"retirement": 0.70}, nil, 1_000_000)

	cr := a.BuildComparison(goals, nil, []*domain.ScenarioResult{baseline})
	assert.Nil(t, cr.GoalOutcomes["college"]["baseline"])
	require.NotNil(t, cr.GoalOutcomes["retirement"]["baseline"])
}
