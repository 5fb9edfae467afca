package models

import (
	"errors"
	"fmt"
)

// ErrInvalidSimulation is returned for a malformed affordability request
var ErrInvalidSimulation = errors.New("invalid simulation")

// AffordabilityRequest describes a new recurring monthly expense
type AffordabilityRequest struct {
	MonthlyExpense float64 `json:"monthly_expense"`
}

// Validate rejects negative expenses
func (r AffordabilityRequest) Validate() error {
	if r.MonthlyExpense < 0 {
		return fmt.Errorf("%w: monthly_expense must be >= 0", ErrInvalidSimulation)
	}
	return nil
}

// AffordabilityResult is the budget impact of a simulated expense
type AffordabilityResult struct {
	CanAfford             bool    `json:"can_afford"`
	CurrentBudget         float64 `json:"current_budget"`
	CurrentAvgSpend       float64 `json:"current_avg_spend"`
	ProjectedSpendWithNew float64 `json:"projected_spend_with_new"`
	BudgetRemainingAfter  float64 `json:"budget_remaining_after"`
	ImpactPercent         float64 `json:"impact_percent"`
	Recommendation        string  `json:"recommendation"`
}
