package projection

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finplan/scenario-engine/internal/domain"
	"github.com/finplan/scenario-engine/internal/scenario"
)

// Probability bounds for the deterministic funding-ratio mapping. A goal
// never reports certainty in either direction.
const (
	minGoalProbability = 0.02
	maxGoalProbability = 0.98
)

// DeterministicEngine implements scenario.AnalysisEngine with a single
// expected-value projection per scenario.
type DeterministicEngine struct {
	ProjectionYears int
	Logger          scenario.Logger
}

// NewDeterministicEngine creates an engine covering the default horizon.
func NewDeterministicEngine() *DeterministicEngine {
	return &DeterministicEngine{
		ProjectionYears: DefaultProjectionYears,
		Logger:          scenario.NopLogger{},
	}
}

// RunScenario projects every goal's funding under the scenario's
// assumptions and assembles the result bundle.
func (e *DeterministicEngine) RunScenario(ctx context.Context, goals []domain.Goal, profile *domain.HouseholdProfile, sp domain.ScenarioProfile) (*domain.ScenarioResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	years := e.ProjectionYears
	if years <= 0 {
		years = DefaultProjectionYears
	}
	a := newAssumptions(sp, profile)
	weights := goalWeights(goals)

	result := &domain.ScenarioResult{
		Profile:            sp.Clone(),
		GoalProbabilities:  make(map[string]float64, len(goals)),
		GoalTimeline:       make(map[string]int, len(goals)),
		GoalFundingGaps:    make(map[string]decimal.Decimal, len(goals)),
		NetWorthProjection: make(map[string]decimal.Decimal),
		AnalysisDate:       time.Now().UTC(),
	}

	// Year-by-year balances: household net worth plus per-goal funding.
	netWorth := 0.0
	if profile != nil {
		netWorth = profile.LiquidNetWorth.InexactFloat64()
	}
	balances := make(map[string]float64, len(goals))
	for _, goal := range goals {
		balances[goal.ID] = goal.CurrentAmount.InexactFloat64()
	}

	netWorthByMarker := map[string]float64{}
	markers := markerYears(years)
	achieved := map[string]bool{}

	for t := 0; t < years; t++ {
		savings := 0.0
		if profile != nil {
			savings = a.savingsAt(profile, t)
		}
		netWorth = netWorth*(1+a.blendedReturn) + savings
		for _, goal := range goals {
			balances[goal.ID] = balances[goal.ID]*(1+a.blendedReturn) + savings*weights[goal.ID]
			target := goal.TargetAmount.InexactFloat64() * pow1p(a.inflation, t+1)
			if !achieved[goal.ID] && balances[goal.ID] >= target {
				achieved[goal.ID] = true
				result.GoalTimeline[goal.ID] = t + 1
			}
		}
		for marker, horizon := range markers {
			if horizon == t+1 {
				netWorthByMarker[marker] = netWorth
			}
		}
	}

	for _, goal := range goals {
		horizon := goal.TargetYear
		if horizon <= 0 {
			horizon = years
		}
		if horizon > years {
			horizon = years
		}
		target := goal.TargetAmount.InexactFloat64() * pow1p(a.inflation, horizon)
		projected := projectBalance(goal, a, weights[goal.ID], profile, horizon)
		result.GoalProbabilities[goal.ID] = fundingProbability(projected, target)
		if gap := target - projected; gap > 0 {
			result.GoalFundingGaps[goal.ID] = decimal.NewFromFloat(gap).Round(2)
		} else {
			result.GoalFundingGaps[goal.ID] = decimal.Zero
		}
	}

	result.NetWorthProjection = toDecimalMap(netWorthByMarker)
	result.RetirementAge = retirementAge(goals, profile, sp, result.GoalTimeline)
	return result, nil
}

// projectBalance replays the goal's funding trajectory up to horizon.
func projectBalance(goal domain.Goal, a assumptions, weight float64, profile *domain.HouseholdProfile, horizon int) float64 {
	balance := goal.CurrentAmount.InexactFloat64()
	for t := 0; t < horizon; t++ {
		savings := 0.0
		if profile != nil {
			savings = a.savingsAt(profile, t)
		}
		balance = balance*(1+a.blendedReturn) + savings*weight
	}
	return balance
}

// fundingProbability maps a projected-vs-target funding ratio onto a success
// probability. Fully funded plans approach but never reach certainty.
func fundingProbability(projected, target float64) float64 {
	if target <= 0 {
		return maxGoalProbability
	}
	if projected <= 0 {
		return minGoalProbability
	}
	p := 0.8 * (projected / target)
	if p < minGoalProbability {
		return minGoalProbability
	}
	if p > maxGoalProbability {
		return maxGoalProbability
	}
	return p
}
