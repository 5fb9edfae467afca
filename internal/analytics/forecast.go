package analytics

import (
	"github.com/Dan9191/finance-tracker/internal/models"
	"github.com/shopspring/decimal"
)

// VelocityWindowDays is the default length of a spending velocity window
const VelocityWindowDays = 7

// Velocity statuses
const (
	VelocityIncreasingFast = "increasing_fast"
	VelocityIncreasing     = "increasing"
	VelocityStable         = "stable"
	VelocityDecreasing     = "decreasing"
	VelocityDecreasingFast = "decreasing_fast"
)

// Forecast statuses
const (
	ForecastWellUnder = "well_under_budget"
	ForecastUnder     = "under_budget"
	ForecastOnBudget  = "on_budget"
	ForecastOver      = "over_budget"
)

// SumDebits totals the DEBIT spend outside ignored and income categories.
// Refunds are not netted so the velocity reflects outgoing money only.
func SumDebits(txns []models.Transaction, ignored, income []string) decimal.Decimal {
	skip := toSet(ignored)
	for n := range toSet(income) {
		skip[n] = struct{}{}
	}
	total := decimal.Zero
	for _, t := range txns {
		if _, ok := skip[t.CategoryName]; ok {
			continue
		}
		if models.ParsePaymentType(string(t.PaymentType)) == models.Debit {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// VelocityStatus classifies the change between two spending windows
func VelocityStatus(changePercent float64) string {
	switch {
	case changePercent > 20:
		return VelocityIncreasingFast
	case changePercent > 5:
		return VelocityIncreasing
	case changePercent < -20:
		return VelocityDecreasingFast
	case changePercent < -5:
		return VelocityDecreasing
	default:
		return VelocityStable
	}
}

// Forecast projects the end-of-cycle position of r from the daily rate of the
// current velocity window. daysForward <= 0 projects to the end of the cycle.
func Forecast(r *models.HealthReport, current, previous models.SpendingWindow, windowDays, daysForward int) *models.BudgetForecast {
	if windowDays <= 0 {
		windowDays = VelocityWindowDays
	}
	projectionDays := daysForward
	if projectionDays <= 0 {
		projectionDays = r.DaysLeft
	}

	curSpend := decimal.NewFromFloat(current.Spending)
	prevSpend := decimal.NewFromFloat(previous.Spending)
	change := SpendDiffPercent(curSpend, prevSpend).Round(1).InexactFloat64()

	rate := curSpend.Div(decimal.NewFromInt(int64(windowDays)))
	spend := decimal.NewFromFloat(r.TotalSpend)
	budget := decimal.NewFromFloat(r.TotalBudget)
	remaining := decimal.NewFromFloat(r.BudgetRemaining)
	projectedTotal := spend.Add(rate.Mul(decimal.NewFromInt(int64(projectionDays))))
	projectedRemaining := budget.Sub(projectedTotal)

	f := &models.BudgetForecast{
		CurrentBudget:       r.TotalBudget,
		CurrentSpend:        r.TotalSpend,
		CurrentRemaining:    r.BudgetRemaining,
		DaysLeftInCycle:     r.DaysLeft,
		ProjectionDays:      projectionDays,
		CurrentDailyRate:    round2(rate),
		SafeDailySpend:      round2(SafeDailySpend(remaining, projectionDays)),
		CurrentWindow:       current,
		PreviousWindow:      previous,
		VelocityChange:      change,
		VelocityStatus:      VelocityStatus(change),
		ProjectedTotalSpend: round2(projectedTotal),
		ProjectedRemaining:  round2(projectedRemaining),
		WillStayUnderBudget: !projectedRemaining.IsNegative(),
	}
	switch {
	case projectedRemaining.IsNegative():
		f.Status = ForecastOver
	case projectedRemaining.GreaterThan(budget.Mul(decimal.NewFromFloat(0.2))):
		f.Status = ForecastWellUnder
	case projectedRemaining.IsPositive():
		f.Status = ForecastUnder
	default:
		f.Status = ForecastOnBudget
	}
	return f
}
