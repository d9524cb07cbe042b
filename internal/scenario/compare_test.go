package scenario

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finplan/scenario-engine/internal/domain"
)

func comparisonResult(name string, probs map[string]float64, retirementAge *int, netWorth30 int64) *domain.ScenarioResult {
	return &domain.ScenarioResult{
		Profile:           domain.ScenarioProfile{Name: name},
		GoalProbabilities: probs,
		RetirementAge:     retirementAge,
		NetWorthProjection: map[string]decimal.Decimal{
			domain.MarkerYear30: decimal.NewFromInt(netWorth30),
		},
	}
}

func intPtr(v int) *int { return &v }

func TestCompareScenarios_CountsAndAssessment(t *testing.T) {
	gen := NewGenerator(&stubEngine{})
	baseline := comparisonResult("baseline",
		map[string]float64{"retirement": 0.70, "college": 0.60, "emergency": 0.90},
		intPtr(65), 1_000_000)
	better := comparisonResult("optimistic",
		map[string]float64{"retirement": 0.80, "college": 0.75, "emergency": 0.92},
		intPtr(63), 1_400_000)
	worse := comparisonResult("pessimistic",
		map[string]float64{"retirement": 0.55, "college": 0.48, "emergency": 0.89},
		intPtr(68), 700_000)

	pc := gen.CompareScenarios(baseline, map[string]*domain.ScenarioResult{
		"optimistic":  better,
		"pessimistic": worse,
	})
	require.Len(t, pc.Alternatives, 2)
	assert.Equal(t, "baseline", pc.BaselineName)

	opt := pc.Alternatives["optimistic"]
	require.NotNil(t, opt)
	// emergency moved +0.02, inside the noise threshold.
	assert.Equal(t, 2, opt.Summary.GoalsImproved)
	assert.Equal(t, 0, opt.Summary.GoalsWorsened)
	assert.Equal(t, AssessmentPositive, opt.Summary.OverallAssessment)
	require.NotNil(t, opt.RetirementAgeChange)
	assert.Equal(t, -2, *opt.RetirementAgeChange)
	assert.True(t, opt.NetWorthChanges[domain.MarkerYear30].Equal(decimal.NewFromInt(400_000)))

	pes := pc.Alternatives["pessimistic"]
	require.NotNil(t, pes)
	assert.Equal(t, 0, pes.Summary.GoalsImproved)
	assert.Equal(t, 2, pes.Summary.GoalsWorsened)
	assert.Equal(t, AssessmentChallenging, pes.Summary.OverallAssessment)
}

func TestCompareScenarios_MinimalImpact(t *testing.T) {
	gen := NewGenerator(&stubEngine{})
	baseline := comparisonResult("baseline", map[string]float64{"retirement": 0.70}, nil, 0)
	baseline.NetWorthProjection = nil
	twin := comparisonResult("twin", map[string]float64{"retirement": 0.71}, nil, 0)
	twin.NetWorthProjection = nil

	pc := gen.CompareScenarios(baseline, map[string]*domain.ScenarioResult{"twin": twin})
	summary := pc.Alternatives["twin"].Summary
	assert.Empty(t, summary.Findings)
	assert.Equal(t, AssessmentMinimalImpact, summary.OverallAssessment)
}

func TestCompareScenarios_DelayMarksChallenging(t *testing.T) {
	gen := NewGenerator(&stubEngine{})
	// Probabilities improve, but retirement slips: the delay finding wins.
	baseline := comparisonResult("baseline", map[string]float64{"retirement": 0.60}, intPtr(65), 900_000)
	delayed := comparisonResult("delayed", map[string]float64{"retirement": 0.70}, intPtr(67), 1_100_000)

	pc := gen.CompareScenarios(baseline, map[string]*domain.ScenarioResult{"delayed": delayed})
	summary := pc.Alternatives["delayed"].Summary
	assert.Equal(t, AssessmentChallenging, summary.OverallAssessment)
	assert.Contains(t, summary.Findings, "Retirement delayed by 2 year(s)")
}

func TestCompareScenarios_SkipsNilAlternative(t *testing.T) {
	gen := NewGenerator(&stubEngine{})
	baseline := comparisonResult("baseline", map[string]float64{"retirement": 0.6}, nil, 0)

	pc := gen.CompareScenarios(baseline, map[string]*domain.ScenarioResult{"ghost": nil})
	assert.Empty(t, pc.Alternatives)
}
