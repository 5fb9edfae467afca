package analytics

import (
	"github.com/Dan9191/finance-tracker/internal/models"
	"github.com/shopspring/decimal"
)

// DebitsByCategory sums the DEBIT amounts per category. Refunds do not reduce
// progress towards a goal.
func DebitsByCategory(txns []models.Transaction) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, t := range txns {
		if models.ParsePaymentType(string(t.PaymentType)) == models.Debit {
			out[t.CategoryName] = out[t.CategoryName].Add(t.Amount)
		}
	}
	return out
}

// GoalProgress measures spend against the cap of g. The percentage stops at
// 100; IsOverBudget reports anything beyond the cap.
func GoalProgress(g models.Goal, spend decimal.Decimal) models.GoalProgress {
	p := models.GoalProgress{
		Goal:         g,
		CurrentSpend: round2(spend),
		IsOverBudget: spend.GreaterThan(g.CapAmount),
	}
	if g.CapAmount.IsPositive() {
		pct := spend.Div(g.CapAmount).Mul(hundred)
		if pct.GreaterThan(hundred) {
			pct = hundred
		}
		p.ProgressPercent = pct.Round(1).InexactFloat64()
	}
	return p
}
