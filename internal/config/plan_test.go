package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finplan/scenario-engine/internal/domain"
	"github.com/finplan/scenario-engine/internal/scenario"
)

func TestNewPlanParser(t *testing.T) {
	assert.NotNil(t, NewPlanParser())
}

func TestCreateExamplePlan_Validates(t *testing.T) {
	parser := NewPlanParser()
	plan := parser.CreateExamplePlan()
	require.NoError(t, parser.ValidatePlan(plan))
	assert.Len(t, plan.Goals, 3)
	assert.Contains(t, plan.ArchetypeOverrides, scenario.ArchetypeHighInflation)
}

func TestLoadFromFile_Success(t *testing.T) {
	planYAML := "household:\n" +
		"  id: \"hh-1\"\n" +
		"  current_age: 42\n" +
		"  target_retirement_age: 65\n" +
		"  annual_income:\n" +
		"    primary: 110000\n" +
		"  annual_expenses:\n" +
		"    essential: 72000\n" +
		"  liquid_net_worth: 350000\n" +
		"goals:\n" +
		"  - id: \"retirement\"\n" +
		"    name: \"Retirement\"\n" +
		"    class: \"retirement\"\n" +
		"    target_amount: 1500000\n" +
		"    current_amount: 280000\n" +
		"    target_year: 23\n" +
		"    priority: 1\n" +
		"archetype_overrides:\n" +
		"  baseline:\n" +
		"    inflation_assumption: 0.035\n" +
		"user_assumptions:\n" +
		"  inflation: 0.028\n" +
		"  market_returns:\n" +
		"    stocks: 0.075\n"

	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(planYAML), 0o644))

	plan, err := NewPlanParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hh-1", plan.Household.ID)
	require.Len(t, plan.Goals, 1)
	assert.Equal(t, domain.GoalRetirement, plan.Goals[0].Class)
	override, ok := plan.ArchetypeOverrides["baseline"]
	require.True(t, ok)
	require.NotNil(t, override.InflationAssumption)
	assert.True(t, override.InflationAssumption.Equal(decimal.NewFromFloat(0.035)))
	require.NotNil(t, plan.UserAssumptions)
	require.NotNil(t, plan.UserAssumptions.Inflation)
	assert.True(t, plan.UserAssumptions.Inflation.Equal(decimal.NewFromFloat(0.028)))
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := NewPlanParser().LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("household: [unbalanced"), 0o644))

	_, err := NewPlanParser().LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidatePlan_Failures(t *testing.T) {
	parser := NewPlanParser()

	noGoals := parser.CreateExamplePlan()
	noGoals.Goals = nil
	assert.ErrorContains(t, parser.ValidatePlan(noGoals), "no goals")

	duplicate := parser.CreateExamplePlan()
	duplicate.Goals = append(duplicate.Goals, duplicate.Goals[0])
	assert.ErrorContains(t, parser.ValidatePlan(duplicate), "duplicate goal id")

	badHousehold := parser.CreateExamplePlan()
	badHousehold.Household.ID = ""
	assert.ErrorContains(t, parser.ValidatePlan(badHousehold), "household validation failed")

	badGoal := parser.CreateExamplePlan()
	badGoal.Goals[0].Class = "vacation"
	assert.ErrorContains(t, parser.ValidatePlan(badGoal), "goal 0 validation failed")

	badCustom := parser.CreateExamplePlan()
	badCustom.CustomScenarios = []scenario.CustomScenario{{Name: "incomplete"}}
	assert.ErrorContains(t, parser.ValidatePlan(badCustom), "missing required field description")

	deflation := parser.CreateExamplePlan()
	rate := decimal.NewFromFloat(-0.5)
	deflation.ArchetypeOverrides = map[string]scenario.Overrides{
		"baseline": {InflationAssumption: &rate},
	}
	assert.ErrorContains(t, parser.ValidatePlan(deflation), "inflation assumption")

	negativeExpense := parser.CreateExamplePlan()
	negativeExpense.ArchetypeOverrides = map[string]scenario.Overrides{
		"baseline": {ExpensePatterns: map[string]decimal.Decimal{"essential": decimal.NewFromFloat(-0.5)}},
	}
	assert.ErrorContains(t, parser.ValidatePlan(negativeExpense), "expense pattern")
}
