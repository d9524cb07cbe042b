package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGoal() Goal {
	return Goal{
		ID:            "retirement",
		Name:          "Retirement",
		Class:         GoalRetirement,
		TargetAmount:  decimal.NewFromInt(1000000),
		CurrentAmount: decimal.NewFromInt(250000),
		TargetYear:    20,
		Priority:      1,
	}
}

func TestGoalClass_Valid(t *testing.T) {
	for _, class := range []GoalClass{GoalRetirement, GoalEmergencyFund, GoalEducation, GoalHome, GoalDiscretionary, GoalOther} {
		assert.True(t, class.Valid(), "class %s should be valid", class)
	}
	assert.False(t, GoalClass("vacation").Valid())
	assert.False(t, GoalClass("").Valid())
}

func TestGoal_Validate(t *testing.T) {
	goal := validGoal()
	require.NoError(t, goal.Validate())

	missingID := validGoal()
	missingID.ID = ""
	assert.Error(t, missingID.Validate())

	badClass := validGoal()
	badClass.Class = "vacation"
	assert.Error(t, badClass.Validate())

	zeroTarget := validGoal()
	zeroTarget.TargetAmount = decimal.Zero
	assert.Error(t, zeroTarget.Validate())

	negativeCurrent := validGoal()
	negativeCurrent.CurrentAmount = decimal.NewFromInt(-1)
	assert.Error(t, negativeCurrent.Validate())

	noYear := validGoal()
	noYear.TargetYear = 0
	assert.Error(t, noYear.Validate())
}

func validProfile() HouseholdProfile {
	return HouseholdProfile{
		ID:                  "hh-1",
		CurrentAge:          40,
		TargetRetirementAge: 65,
		AnnualIncome: map[string]decimal.Decimal{
			"primary":   decimal.NewFromInt(100000),
			"secondary": decimal.NewFromInt(40000),
		},
		AnnualExpenses: map[string]decimal.Decimal{
			"essential":     decimal.NewFromInt(60000),
			"discretionary": decimal.NewFromInt(20000),
		},
		LiquidNetWorth:      decimal.NewFromInt(300000),
		EmergencyFundMonths: 6,
	}
}

func TestHouseholdProfile_Totals(t *testing.T) {
	profile := validProfile()
	assert.True(t, profile.TotalAnnualIncome().Equal(decimal.NewFromInt(140000)))
	assert.True(t, profile.TotalAnnualExpenses().Equal(decimal.NewFromInt(80000)))
}

func TestHouseholdProfile_Validate(t *testing.T) {
	profile := validProfile()
	require.NoError(t, profile.Validate())

	noID := validProfile()
	noID.ID = ""
	assert.Error(t, noID.Validate())

	retiresBeforeNow := validProfile()
	retiresBeforeNow.TargetRetirementAge = 39
	assert.Error(t, retiresBeforeNow.Validate())

	noIncome := validProfile()
	noIncome.AnnualIncome = nil
	assert.Error(t, noIncome.Validate())

	negativeNetWorth := validProfile()
	negativeNetWorth.LiquidNetWorth = decimal.NewFromInt(-100)
	assert.Error(t, negativeNetWorth.Validate())
}
