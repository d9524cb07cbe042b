// Package config loads and validates plan files: the household profile, its
// goals, and any scenario customizations to run against them.
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/finplan/scenario-engine/internal/domain"
	"github.com/finplan/scenario-engine/internal/scenario"
)

// Plan is the top-level input document.
type Plan struct {
	Household          domain.HouseholdProfile       `yaml:"household"`
	Goals              []domain.Goal                 `yaml:"goals"`
	ArchetypeOverrides map[string]scenario.Overrides `yaml:"archetype_overrides,omitempty"`
	CustomScenarios    []scenario.CustomScenario     `yaml:"custom_scenarios,omitempty"`
	UserAssumptions    *scenario.StaticParameters    `yaml:"user_assumptions,omitempty"`
}

// PlanParser handles parsing of plan files.
type PlanParser struct{}

// NewPlanParser creates a new plan parser.
func NewPlanParser() *PlanParser {
	return &PlanParser{}
}

// LoadFromFile loads a plan from a YAML file.
func (pp *PlanParser) LoadFromFile(filename string) (*Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := pp.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	return &plan, nil
}

// ValidatePlan validates the loaded plan.
func (pp *PlanParser) ValidatePlan(plan *Plan) error {
	if err := plan.Household.Validate(); err != nil {
		return fmt.Errorf("household validation failed: %w", err)
	}

	if len(plan.Goals) == 0 {
		return fmt.Errorf("no goals provided")
	}
	seen := make(map[string]bool, len(plan.Goals))
	for i, goal := range plan.Goals {
		if err := goal.Validate(); err != nil {
			return fmt.Errorf("goal %d validation failed: %w", i, err)
		}
		if seen[goal.ID] {
			return fmt.Errorf("goal %d: duplicate goal id %q", i, goal.ID)
		}
		seen[goal.ID] = true
	}

	for name, overrides := range plan.ArchetypeOverrides {
		if err := pp.validateOverrides(name, overrides); err != nil {
			return fmt.Errorf("archetype override %s validation failed: %w", name, err)
		}
	}

	for i, custom := range plan.CustomScenarios {
		if field := custom.MissingField(); field != "" {
			return fmt.Errorf("custom scenario %d: missing required field %s", i, field)
		}
	}
	return nil
}

// validateOverrides sanity-checks override rates; zero values are allowed,
// runaway ones are not.
func (pp *PlanParser) validateOverrides(_ string, overrides scenario.Overrides) error {
	if overrides.InflationAssumption != nil && overrides.InflationAssumption.LessThan(decimal.NewFromFloat(-0.10)) {
		return fmt.Errorf("inflation assumption cannot be less than -10%% (extreme deflation)")
	}
	for class, rate := range overrides.MarketReturns {
		if rate.LessThan(decimal.NewFromFloat(-1.0)) {
			return fmt.Errorf("market return for %s cannot be less than -100%%", class)
		}
	}
	for category, multiplier := range overrides.ExpensePatterns {
		if multiplier.IsNegative() {
			return fmt.Errorf("expense pattern for %s cannot be negative", category)
		}
	}
	return nil
}

// CreateExamplePlan creates an example plan suitable for `scenariocalc example`.
func (pp *PlanParser) CreateExamplePlan() *Plan {
	highInflation := decimal.NewFromFloat(0.055)
	return &Plan{
		Household: domain.HouseholdProfile{
			ID:                  "household-1",
			CurrentAge:          42,
			TargetRetirementAge: 65,
			AnnualIncome: map[string]decimal.Decimal{
				"primary":   decimal.NewFromInt(110000),
				"secondary": decimal.NewFromInt(45000),
			},
			AnnualExpenses: map[string]decimal.Decimal{
				"essential":     decimal.NewFromInt(72000),
				"discretionary": decimal.NewFromInt(28000),
			},
			LiquidNetWorth:      decimal.NewFromInt(350000),
			EmergencyFundMonths: 4,
			AssetAllocation: map[string]decimal.Decimal{
				"stocks": decimal.NewFromFloat(0.65),
				"bonds":  decimal.NewFromFloat(0.25),
				"cash":   decimal.NewFromFloat(0.10),
			},
			AnnualSavingsRate: decimal.NewFromFloat(0.20),
		},
		Goals: []domain.Goal{
			{
				ID:            "retirement",
				Name:          "Retirement",
				Class:         domain.GoalRetirement,
				TargetAmount:  decimal.NewFromInt(1500000),
				CurrentAmount: decimal.NewFromInt(280000),
				TargetYear:    23,
				Priority:      1,
			},
			{
				ID:            "emergency",
				Name:          "Emergency Fund",
				Class:         domain.GoalEmergencyFund,
				TargetAmount:  decimal.NewFromInt(50000),
				CurrentAmount: decimal.NewFromInt(33000),
				TargetYear:    2,
				Priority:      2,
			},
			{
				ID:            "college",
				Name:          "College Fund",
				Class:         domain.GoalEducation,
				TargetAmount:  decimal.NewFromInt(200000),
				CurrentAmount: decimal.NewFromInt(40000),
				TargetYear:    10,
				Priority:      3,
			},
		},
		ArchetypeOverrides: map[string]scenario.Overrides{
			scenario.ArchetypeHighInflation: {
				InflationAssumption: &highInflation,
			},
		},
	}
}
