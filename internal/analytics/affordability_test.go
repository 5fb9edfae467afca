package analytics

import (
	"testing"

	"github.com/Dan9191/finance-tracker/internal/calendar"
	"github.com/Dan9191/finance-tracker/internal/models"
	"github.com/shopspring/decimal"
)

func TestAverageMonthlySpend_CompleteMonthsOnly(t *testing.T) {
	today := calendar.Date(2024, 4, 10)
	got := AverageMonthlySpend([]models.Transaction{
		txn(calendar.Date(2024, 2, 3), "1000", models.Debit, "Food"),
		txn(calendar.Date(2024, 2, 20), "500", models.Debit, "Bills"),
		txn(calendar.Date(2024, 3, 5), "2500", models.Debit, "Food"),
		txn(calendar.Date(2024, 3, 6), "400", models.Credit, "Food"),
		txn(calendar.Date(2024, 3, 7), "9000", models.Debit, "Transfer"),
		txn(calendar.Date(2024, 3, 8), "100", models.Debit, "Salary"),
		txn(calendar.Date(2024, 4, 2), "7000", models.Debit, "Food"),
	}, today, []string{"Transfer"}, []string{"Salary"})
	if !got.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("expected (1500+2500)/2 = 2000, got %s", got)
	}
	if !AverageMonthlySpend(nil, today, nil, nil).IsZero() {
		t.Error("expected zero average without history")
	}
}

func TestAverageMonthlyIncome(t *testing.T) {
	got := AverageMonthlyIncome([]models.Transaction{
		txn(calendar.Date(2024, 1, 31), "60000", models.Credit, "Salary"),
		txn(calendar.Date(2024, 2, 29), "50000", models.Credit, "Salary"),
		txn(calendar.Date(2024, 2, 15), "20000", models.Credit, "Income"),
		txn(calendar.Date(2024, 2, 16), "999", models.Debit, "Salary"),
		txn(calendar.Date(2024, 2, 17), "5000", models.Credit, "Refunds"),
	}, []string{"Salary", "Income"})
	if !got.Equal(decimal.NewFromInt(65000)) {
		t.Errorf("expected (60000+70000)/2 = 65000, got %s", got)
	}
}

func TestAffordability(t *testing.T) {
	fixed := models.Settings{BudgetType: models.BudgetFixed, BudgetValue: 10000}
	tests := []struct {
		name      string
		avgSpend  int64
		expense   float64
		canAfford bool
		remaining float64
		impact    float64
		want      string
	}{
		{"comfortable", 5000, 2000, true, 3000, 20, RecommendComfortable},
		{"affordable", 7000, 1500, true, 1500, 15, RecommendAffordable},
		{"tight at ten percent", 7000, 2000, true, 1000, 20, RecommendTight},
		{"exactly on budget", 8000, 2000, true, 0, 20, RecommendTight},
		{"over", 9000, 2500, false, -1500, 25, "Not recommended. You'd exceed your budget by 1500.00."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Affordability(fixed, decimal.NewFromInt(tt.avgSpend), decimal.Zero, tt.expense)
			if r.CanAfford != tt.canAfford || r.BudgetRemainingAfter != tt.remaining {
				t.Errorf("expected afford=%v remaining=%.2f, got %v %.2f", tt.canAfford, tt.remaining, r.CanAfford, r.BudgetRemainingAfter)
			}
			if r.ImpactPercent != tt.impact {
				t.Errorf("expected impact %.1f, got %.1f", tt.impact, r.ImpactPercent)
			}
			if r.Recommendation != tt.want {
				t.Errorf("expected %q, got %q", tt.want, r.Recommendation)
			}
			if r.CurrentBudget != 10000 || r.ProjectedSpendWithNew != float64(tt.avgSpend)+tt.expense {
				t.Errorf("unexpected budget/projection %.2f / %.2f", r.CurrentBudget, r.ProjectedSpendWithNew)
			}
		})
	}
}

func TestAffordability_Percentage(t *testing.T) {
	s := models.Settings{BudgetType: models.BudgetPercentage, BudgetValue: 40}

	r := Affordability(s, decimal.NewFromInt(10000), decimal.NewFromInt(50000), 3000)
	if r.CurrentBudget != 20000 || r.BudgetRemainingAfter != 7000 || r.Recommendation != RecommendComfortable {
		t.Errorf("unexpected result %+v", r)
	}

	r = Affordability(s, decimal.NewFromInt(10000), decimal.Zero, 3000)
	if r.CanAfford || r.CurrentBudget != 0 || r.ImpactPercent != 0 || r.Recommendation != RecommendNoIncome {
		t.Errorf("no salary history must not be affordable: %+v", r)
	}
	if r.ProjectedSpendWithNew != 13000 {
		t.Errorf("projection still reported, got %.2f", r.ProjectedSpendWithNew)
	}
}

func TestAffordability_ZeroBudget(t *testing.T) {
	r := Affordability(models.Settings{BudgetType: models.BudgetFixed}, decimal.Zero, decimal.Zero, 0)
	if !r.CanAfford || r.ImpactPercent != 0 {
		t.Errorf("zero expense on zero budget: %+v", r)
	}
}
