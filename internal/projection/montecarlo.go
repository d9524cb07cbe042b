package projection

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finplan/scenario-engine/internal/domain"
	"github.com/finplan/scenario-engine/internal/scenario"
)

// Default Monte Carlo tuning. Iterations cap bounds latency for callers that
// need it; volatilities are long-run equity-heavy portfolio figures.
const (
	DefaultIterations          = 1000
	DefaultReturnVolatility    = 0.12
	DefaultInflationVolatility = 0.01
)

// MonteCarloEngine implements scenario.AnalysisEngine by sampling annual
// return and inflation draws around the scenario's assumptions. A fixed
// seed makes runs reproducible.
type MonteCarloEngine struct {
	Iterations          int
	ProjectionYears     int
	Seed                int64
	ReturnVolatility    float64
	InflationVolatility float64
	Logger              scenario.Logger
}

// NewMonteCarloEngine creates an engine with default tuning and a
// time-based seed.
func NewMonteCarloEngine() *MonteCarloEngine {
	return &MonteCarloEngine{
		Iterations:          DefaultIterations,
		ProjectionYears:     DefaultProjectionYears,
		Seed:                time.Now().UnixNano(),
		ReturnVolatility:    DefaultReturnVolatility,
		InflationVolatility: DefaultInflationVolatility,
		Logger:              scenario.NopLogger{},
	}
}

// RunScenario simulates the goal funding trajectories under randomized
// annual draws. Per-goal probability is the fraction of iterations that
// reach the inflated target by the goal's horizon; timelines and net worth
// markers report the median across iterations.
func (e *MonteCarloEngine) RunScenario(ctx context.Context, goals []domain.Goal, profile *domain.HouseholdProfile, sp domain.ScenarioProfile) (*domain.ScenarioResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	iterations := e.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	years := e.ProjectionYears
	if years <= 0 {
		years = DefaultProjectionYears
	}
	a := newAssumptions(sp, profile)
	weights := goalWeights(goals)
	rng := rand.New(rand.NewSource(e.Seed))

	successes := make(map[string]int, len(goals))
	achievementYears := make(map[string][]int, len(goals))
	shortfalls := make(map[string][]float64, len(goals))
	markerSamples := map[string][]float64{}
	markers := markerYears(years)

	for iter := 0; iter < iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		netWorth := 0.0
		if profile != nil {
			netWorth = profile.LiquidNetWorth.InexactFloat64()
		}
		balances := make(map[string]float64, len(goals))
		for _, goal := range goals {
			balances[goal.ID] = goal.CurrentAmount.InexactFloat64()
		}
		achieved := map[string]int{}
		cumulativeInflation := 1.0

		for t := 0; t < years; t++ {
			annualReturn := a.blendedReturn + rng.NormFloat64()*e.ReturnVolatility
			annualInflation := a.inflation + rng.NormFloat64()*e.InflationVolatility
			cumulativeInflation *= 1 + annualInflation

			savings := 0.0
			if profile != nil {
				savings = a.savingsAt(profile, t)
			}
			netWorth = netWorth*(1+annualReturn) + savings
			for _, goal := range goals {
				balances[goal.ID] = balances[goal.ID]*(1+annualReturn) + savings*weights[goal.ID]
				if _, done := achieved[goal.ID]; !done {
					if balances[goal.ID] >= goal.TargetAmount.InexactFloat64()*cumulativeInflation {
						achieved[goal.ID] = t + 1
					}
				}
			}
			for marker, horizon := range markers {
				if horizon == t+1 {
					markerSamples[marker] = append(markerSamples[marker], netWorth)
				}
			}
		}

		for _, goal := range goals {
			horizon := goalHorizon(goal, years)
			target := goal.TargetAmount.InexactFloat64() * pow1p(a.inflation, horizon)
			if year, ok := achieved[goal.ID]; ok && year <= horizon {
				successes[goal.ID]++
				achievementYears[goal.ID] = append(achievementYears[goal.ID], year)
			} else {
				shortfalls[goal.ID] = append(shortfalls[goal.ID], target-balances[goal.ID])
			}
		}
	}

	result := &domain.ScenarioResult{
		Profile:            sp.Clone(),
		GoalProbabilities:  make(map[string]float64, len(goals)),
		GoalTimeline:       make(map[string]int, len(goals)),
		GoalFundingGaps:    make(map[string]decimal.Decimal, len(goals)),
		NetWorthProjection: make(map[string]decimal.Decimal),
		AnalysisDate:       time.Now().UTC(),
	}

	for _, goal := range goals {
		result.GoalProbabilities[goal.ID] = float64(successes[goal.ID]) / float64(iterations)
		if years := achievementYears[goal.ID]; len(years) > 0 {
			result.GoalTimeline[goal.ID] = medianInt(years)
		}
		if gaps := shortfalls[goal.ID]; len(gaps) > 0 {
			result.GoalFundingGaps[goal.ID] = decimal.NewFromFloat(medianFloat(gaps)).Round(2)
		} else {
			result.GoalFundingGaps[goal.ID] = decimal.Zero
		}
	}
	netWorthByMarker := make(map[string]float64, len(markerSamples))
	for marker, samples := range markerSamples {
		netWorthByMarker[marker] = medianFloat(samples)
	}
	result.NetWorthProjection = toDecimalMap(netWorthByMarker)
	result.RetirementAge = retirementAge(goals, profile, sp, result.GoalTimeline)
	return result, nil
}

func goalHorizon(goal domain.Goal, projectionYears int) int {
	horizon := goal.TargetYear
	if horizon <= 0 || horizon > projectionYears {
		horizon = projectionYears
	}
	return horizon
}

func medianInt(values []int) int {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)
	return sorted[len(sorted)/2]
}

func medianFloat(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
