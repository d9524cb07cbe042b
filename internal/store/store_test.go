package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finplan/scenario-engine/internal/domain"
)

func sampleResult(name string) *domain.ScenarioResult {
	return &domain.ScenarioResult{
		Profile: domain.ScenarioProfile{
			Name:                name,
			Description:         "sample",
			MarketReturns:       map[string]decimal.Decimal{"stocks": decimal.NewFromFloat(0.07)},
			InflationAssumption: decimal.NewFromFloat(0.03),
		},
		GoalProbabilities: map[string]float64{"retirement": 0.72},
		GoalTimeline:      map[string]int{"retirement": 18},
		GoalFundingGaps:   map[string]decimal.Decimal{"retirement": decimal.NewFromInt(150000)},
		NetWorthProjection: map[string]decimal.Decimal{
			domain.MarkerYear10: decimal.NewFromInt(650000),
		},
		AnalysisDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStore_PutGet(t *testing.T) {
	ms := NewMemoryStore()
	result := sampleResult("baseline")

	require.NoError(t, ms.Put("baseline", result))
	loaded, err := ms.Get("baseline")
	require.NoError(t, err)
	assert.Equal(t, result, loaded)
	assert.Equal(t, []string{"baseline"}, ms.Names())
}

func TestMemoryStore_GetMissing(t *testing.T) {
	ms := NewMemoryStore()
	_, err := ms.Get("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "missing")
}

func TestMemoryStore_PutValidation(t *testing.T) {
	ms := NewMemoryStore()
	assert.Error(t, ms.Put("", sampleResult("x")))
	assert.Error(t, ms.Put("x", nil))
}

func TestMemoryStore_PutReplaces(t *testing.T) {
	ms := NewMemoryStore()
	first := sampleResult("baseline")
	second := sampleResult("baseline")
	second.GoalProbabilities["retirement"] = 0.9

	require.NoError(t, ms.Put("baseline", first))
	require.NoError(t, ms.Put("baseline", second))
	loaded, err := ms.Get("baseline")
	require.NoError(t, err)
	assert.InDelta(t, 0.9, loaded.GoalProbabilities["retirement"], 1e-9)
}

func TestFileStore_RoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	result := sampleResult("baseline")
	require.NoError(t, fs.Put("baseline", result))

	loaded, err := fs.Get("baseline")
	require.NoError(t, err)
	assert.Equal(t, "baseline", loaded.Profile.Name)
	assert.InDelta(t, 0.72, loaded.GoalProbabilities["retirement"], 1e-9)
	assert.Equal(t, 18, loaded.GoalTimeline["retirement"])
	assert.True(t, loaded.GoalFundingGaps["retirement"].Equal(decimal.NewFromInt(150000)))
	assert.True(t, loaded.NetWorthProjection[domain.MarkerYear10].Equal(decimal.NewFromInt(650000)))
	assert.True(t, loaded.AnalysisDate.Equal(result.AnalysisDate))
}

func TestFileStore_GetMissing(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = fs.Get("never_saved")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_SanitizesNames(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, fs.Put("../escape/attempt", sampleResult("escape")))
	loaded, err := fs.Get("../escape/attempt")
	require.NoError(t, err)
	assert.Equal(t, "escape", loaded.Profile.Name)
}
