package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioProfile_Clone_DeepCopy(t *testing.T) {
	original := ScenarioProfile{
		Name:        "baseline",
		Description: "expected case",
		MarketReturns: map[string]decimal.Decimal{
			"stocks": decimal.NewFromFloat(0.07),
			"bonds":  decimal.NewFromFloat(0.04),
		},
		InflationAssumption: decimal.NewFromFloat(0.03),
		IncomeGrowthRates: map[string]decimal.Decimal{
			"primary": decimal.NewFromFloat(0.04),
		},
		ExpensePatterns: map[string]decimal.Decimal{
			"essential": decimal.NewFromFloat(1.0),
		},
		LifeEvents: []LifeEvent{
			{Type: "sabbatical", Timing: 5, Duration: 1, Impact: decimal.NewFromInt(-50000), Probability: 0.3},
		},
		Metadata: map[string]string{"type": "baseline"},
	}

	clone := original.Clone()
	clone.MarketReturns["stocks"] = decimal.NewFromFloat(0.12)
	clone.IncomeGrowthRates["primary"] = decimal.NewFromFloat(0.10)
	clone.ExpensePatterns["essential"] = decimal.NewFromFloat(2.0)
	clone.LifeEvents[0].Timing = 1
	clone.Metadata["type"] = "mutated"

	assert.True(t, original.MarketReturns["stocks"].Equal(decimal.NewFromFloat(0.07)))
	assert.True(t, original.IncomeGrowthRates["primary"].Equal(decimal.NewFromFloat(0.04)))
	assert.True(t, original.ExpensePatterns["essential"].Equal(decimal.NewFromFloat(1.0)))
	assert.Equal(t, 5, original.LifeEvents[0].Timing)
	assert.Equal(t, "baseline", original.Metadata["type"])
}

func TestScenarioProfile_Clone_NilMaps(t *testing.T) {
	original := ScenarioProfile{Name: "sparse"}
	clone := original.Clone()
	assert.Nil(t, clone.MarketReturns)
	assert.Nil(t, clone.LifeEvents)
	assert.Nil(t, clone.Metadata)
}

func TestMarkerHorizon(t *testing.T) {
	assert.Equal(t, 5, MarkerHorizon(MarkerYear5))
	assert.Equal(t, 30, MarkerHorizon(MarkerYear30))
	assert.Equal(t, 0, MarkerHorizon("decade_1"))
	assert.Equal(t, 0, MarkerHorizon(""))
}

func TestScenarioResult_MeanGoalProbability(t *testing.T) {
	empty := &ScenarioResult{}
	assert.Zero(t, empty.MeanGoalProbability())

	sr := &ScenarioResult{GoalProbabilities: map[string]float64{"a": 0.4, "b": 0.8}}
	assert.InDelta(t, 0.6, sr.MeanGoalProbability(), 1e-9)
}

func TestScenarioResult_LongestHorizonMarker(t *testing.T) {
	sr := &ScenarioResult{NetWorthProjection: map[string]decimal.Decimal{
		MarkerYear5:  decimal.NewFromInt(100),
		MarkerYear20: decimal.NewFromInt(400),
	}}
	assert.Equal(t, MarkerYear20, sr.LongestHorizonMarker())

	empty := &ScenarioResult{}
	assert.Equal(t, "", empty.LongestHorizonMarker())
}

func TestScenarioResult_SortedGoalIDs(t *testing.T) {
	sr := &ScenarioResult{GoalProbabilities: map[string]float64{"c": 1, "a": 1, "b": 1}}
	require.Equal(t, []string{"a", "b", "c"}, sr.SortedGoalIDs())
}
