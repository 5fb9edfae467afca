package analytics

import (
	"fmt"
	"time"

	"github.com/Dan9191/finance-tracker/internal/models"
	"github.com/shopspring/decimal"
)

const (
	// SpendLookbackDays is the history the average monthly spend is taken from
	SpendLookbackDays = 90
	// SalaryLookbackDays is the history the average salary is taken from
	SalaryLookbackDays = 360

	monthLayout = "2006-01"
)

// Affordability recommendations
const (
	RecommendComfortable = "You can comfortably afford this expense."
	RecommendAffordable  = "Affordable, but consider reducing discretionary spending."
	RecommendTight       = "Tight budget. Consider cutting other expenses first."
	RecommendNoIncome    = "Unable to calculate budget: no income transactions found in the configured income categories. Add salary transactions or switch to a fixed budget."
)

// AverageMonthlySpend averages the DEBIT spend of the complete calendar months
// in txns. The month containing today is left out.
func AverageMonthlySpend(txns []models.Transaction, today time.Time, ignored, income []string) decimal.Decimal {
	skip := toSet(ignored)
	for n := range toSet(income) {
		skip[n] = struct{}{}
	}
	current := today.Format(monthLayout)
	totals := make(map[string]decimal.Decimal)
	for _, t := range txns {
		if _, ok := skip[t.CategoryName]; ok {
			continue
		}
		if models.ParsePaymentType(string(t.PaymentType)) != models.Debit {
			continue
		}
		month := t.Date.Format(monthLayout)
		if month == current {
			continue
		}
		totals[month] = totals[month].Add(t.Amount)
	}
	return average(totals)
}

// AverageMonthlyIncome averages the income credits per calendar month in txns
func AverageMonthlyIncome(txns []models.Transaction, income []string) decimal.Decimal {
	cats := toSet(income)
	totals := make(map[string]decimal.Decimal)
	for _, t := range txns {
		if _, ok := cats[t.CategoryName]; !ok {
			continue
		}
		if models.ParsePaymentType(string(t.PaymentType)) != models.Credit {
			continue
		}
		month := t.Date.Format(monthLayout)
		totals[month] = totals[month].Add(t.Amount)
	}
	return average(totals)
}

func average(totals map[string]decimal.Decimal) decimal.Decimal {
	if len(totals) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, v := range totals {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(totals))))
}

// Affordability simulates adding expense to the average monthly spend. A
// PERCENTAGE budget is taken from avgSalary.
func Affordability(s models.Settings, avgSpend, avgSalary decimal.Decimal, expense float64) *models.AffordabilityResult {
	exp := decimal.NewFromFloat(expense)
	projected := avgSpend.Add(exp)

	var budget decimal.Decimal
	if s.BudgetType == models.BudgetPercentage {
		if !avgSalary.IsPositive() {
			return &models.AffordabilityResult{
				CurrentAvgSpend:       round2(avgSpend),
				ProjectedSpendWithNew: round2(projected),
				Recommendation:        RecommendNoIncome,
			}
		}
		budget = avgSalary.Mul(decimal.NewFromFloat(s.BudgetValue)).Div(hundred)
	} else {
		budget = decimal.NewFromFloat(s.BudgetValue)
	}

	remaining := budget.Sub(projected)
	r := &models.AffordabilityResult{
		CanAfford:             !remaining.IsNegative(),
		CurrentBudget:         round2(budget),
		CurrentAvgSpend:       round2(avgSpend),
		ProjectedSpendWithNew: round2(projected),
		BudgetRemainingAfter:  round2(remaining),
	}
	if budget.IsPositive() {
		r.ImpactPercent = exp.Div(budget).Mul(hundred).Round(1).InexactFloat64()
	}
	switch {
	case !r.CanAfford:
		r.Recommendation = fmt.Sprintf("Not recommended. You'd exceed your budget by %s.", remaining.Abs().StringFixed(2))
	case remaining.GreaterThan(budget.Mul(decimal.NewFromFloat(0.2))):
		r.Recommendation = RecommendComfortable
	case remaining.GreaterThan(budget.Mul(decimal.NewFromFloat(0.1))):
		r.Recommendation = RecommendAffordable
	default:
		r.Recommendation = RecommendTight
	}
	return r
}
