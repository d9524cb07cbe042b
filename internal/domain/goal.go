package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// GoalClass is the normalized classification of a financial goal.
type GoalClass string

const (
	GoalRetirement    GoalClass = "retirement"
	GoalEmergencyFund GoalClass = "emergency_fund"
	GoalEducation     GoalClass = "education"
	GoalHome          GoalClass = "home"
	GoalDiscretionary GoalClass = "discretionary"
	GoalOther         GoalClass = "other"
)

// Valid reports whether the class belongs to the closed classification set.
func (gc GoalClass) Valid() bool {
	switch gc {
	case GoalRetirement, GoalEmergencyFund, GoalEducation, GoalHome, GoalDiscretionary, GoalOther:
		return true
	}
	return false
}

// Goal represents a single financial goal to be evaluated under every scenario.
type Goal struct {
	ID            string          `yaml:"id" json:"id"`
	Name          string          `yaml:"name" json:"name"`
	Class         GoalClass       `yaml:"class" json:"class"`
	TargetAmount  decimal.Decimal `yaml:"target_amount" json:"target_amount"`
	CurrentAmount decimal.Decimal `yaml:"current_amount" json:"current_amount"`
	TargetYear    int             `yaml:"target_year" json:"target_year"`
	Priority      int             `yaml:"priority" json:"priority"`
}

// Validate checks the goal's required fields.
func (g *Goal) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("goal id is required")
	}
	if g.Name == "" {
		return fmt.Errorf("goal name is required")
	}
	if !g.Class.Valid() {
		return fmt.Errorf("goal class %q is not one of the recognized classes", g.Class)
	}
	if g.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("goal target amount must be positive")
	}
	if g.CurrentAmount.LessThan(decimal.Zero) {
		return fmt.Errorf("goal current amount cannot be negative")
	}
	if g.TargetYear <= 0 {
		return fmt.Errorf("goal target year must be positive")
	}
	return nil
}

// HouseholdProfile describes the household whose goals are being evaluated.
type HouseholdProfile struct {
	ID                   string                     `yaml:"id" json:"id"`
	CurrentAge           int                        `yaml:"current_age" json:"current_age"`
	TargetRetirementAge  int                        `yaml:"target_retirement_age" json:"target_retirement_age"`
	AnnualIncome         map[string]decimal.Decimal `yaml:"annual_income" json:"annual_income"`
	AnnualExpenses       map[string]decimal.Decimal `yaml:"annual_expenses" json:"annual_expenses"`
	LiquidNetWorth       decimal.Decimal            `yaml:"liquid_net_worth" json:"liquid_net_worth"`
	EmergencyFundMonths  int                        `yaml:"emergency_fund_months" json:"emergency_fund_months"`
	AssetAllocation      map[string]decimal.Decimal `yaml:"asset_allocation" json:"asset_allocation"`
	AnnualSavingsRate    decimal.Decimal            `yaml:"annual_savings_rate" json:"annual_savings_rate"`
}

// TotalAnnualIncome sums all income sources.
func (hp *HouseholdProfile) TotalAnnualIncome() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range hp.AnnualIncome {
		total = total.Add(amount)
	}
	return total
}

// TotalAnnualExpenses sums all expense categories.
func (hp *HouseholdProfile) TotalAnnualExpenses() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range hp.AnnualExpenses {
		total = total.Add(amount)
	}
	return total
}

// Validate checks the profile's required fields.
func (hp *HouseholdProfile) Validate() error {
	if hp.ID == "" {
		return fmt.Errorf("profile id is required")
	}
	if hp.CurrentAge <= 0 || hp.CurrentAge > 110 {
		return fmt.Errorf("current age must be between 1 and 110")
	}
	if hp.TargetRetirementAge <= hp.CurrentAge {
		return fmt.Errorf("target retirement age must be greater than current age")
	}
	if len(hp.AnnualIncome) == 0 {
		return fmt.Errorf("at least one income source is required")
	}
	if hp.LiquidNetWorth.LessThan(decimal.Zero) {
		return fmt.Errorf("liquid net worth cannot be negative")
	}
	return nil
}
