package analytics

import (
	"math"
	"testing"

	"github.com/Dan9191/finance-tracker/internal/calendar"
	"github.com/Dan9191/finance-tracker/internal/models"
	"github.com/shopspring/decimal"
)

func fixedSettings(budget float64) models.Settings {
	return models.Settings{SalaryDay: 1, BudgetType: models.BudgetFixed, BudgetValue: budget}
}

func march() models.Cycle {
	return models.Cycle{Start: calendar.Date(2024, 3, 1), End: calendar.Date(2024, 3, 30)}
}

func february() models.Cycle {
	return models.Cycle{Offset: 1, Start: calendar.Date(2024, 1, 31), End: calendar.Date(2024, 2, 29)}
}

func TestBuildReport_ProjectionScenario(t *testing.T) {
	cur := AggregateCycle([]models.Transaction{
		txn(calendar.Date(2024, 3, 5), "45000", models.Debit, "Rent"),
	}, march().Start, nil, nil)

	r := BuildReport(ReportInput{
		Settings: fixedSettings(50000),
		Cycle:    march(),
		Previous: february(),
		Current:  cur,
		Today:    calendar.Date(2024, 3, 20),
	})

	if r.DaysInCycle != 30 || r.DaysPassed != 20 || r.DaysLeft != 10 {
		t.Fatalf("unexpected day counts %d/%d/%d", r.DaysInCycle, r.DaysPassed, r.DaysLeft)
	}
	if r.ProjectedSpend != 67500 {
		t.Errorf("projected spend: expected 67500, got %.2f", r.ProjectedSpend)
	}
	if r.BudgetRemaining != 5000 {
		t.Errorf("remaining: expected 5000, got %.2f", r.BudgetRemaining)
	}
	if r.SafeDailySpend != 500 {
		t.Errorf("safe daily: expected 500, got %.2f", r.SafeDailySpend)
	}
	if r.TotalBudget != 50000 {
		t.Errorf("budget: expected 50000, got %.2f", r.TotalBudget)
	}
	if r.BurnRateStatus != StatusHighBurn || r.BurnRateLevel != LevelRed {
		t.Errorf("expected High Burn/Red, got %s/%s", r.BurnRateStatus, r.BurnRateLevel)
	}
	if r.BudgetUsedPercent != 90 {
		t.Errorf("budget used: expected 90, got %.1f", r.BudgetUsedPercent)
	}
	if r.ViewMode != "Current" {
		t.Errorf("unexpected view mode %q", r.ViewMode)
	}
}

func TestBuildReport_PercentageBudget(t *testing.T) {
	cur := AggregateCycle([]models.Transaction{
		txn(calendar.Date(2024, 3, 1), "80000", models.Credit, "Salary"),
		txn(calendar.Date(2024, 3, 2), "1000", models.Debit, "Food"),
	}, march().Start, nil, []string{"Salary"})

	s := models.Settings{SalaryDay: 1, BudgetType: models.BudgetPercentage, BudgetValue: 40}
	r := BuildReport(ReportInput{
		Settings:       s,
		Cycle:          march(),
		Previous:       february(),
		Current:        cur,
		IncomeBase:     cur.TotalIncome,
		Today:          calendar.Date(2024, 3, 15),
		AlertThreshold: 80,
	})
	if r.TotalBudget != 32000 {
		t.Errorf("expected 40%% of 80000, got %.2f", r.TotalBudget)
	}
	if r.TotalIncome != 80000 || r.IncomeBase != 80000 {
		t.Errorf("unexpected income %.2f / base %.2f", r.TotalIncome, r.IncomeBase)
	}
	if r.NoIncomeDetected || r.ShowBudgetAlert {
		t.Error("unexpected flags")
	}
	if r.BurnRateStatus != StatusOnTrack {
		t.Errorf("expected On Track, got %s", r.BurnRateStatus)
	}
}

func TestBuildReport_ZeroIncome(t *testing.T) {
	cur := AggregateCycle([]models.Transaction{
		txn(calendar.Date(2024, 3, 2), "1000", models.Debit, "Food"),
	}, march().Start, nil, []string{"Salary"})

	r := BuildReport(ReportInput{
		Settings: models.Settings{SalaryDay: 1, BudgetType: models.BudgetPercentage, BudgetValue: 40},
		Cycle:    march(),
		Previous: february(),
		Current:  cur,
		Today:    calendar.Date(2024, 3, 10),
	})
	if r.TotalBudget != 0 {
		t.Errorf("expected zero budget, got %.2f", r.TotalBudget)
	}
	if !r.NoIncomeDetected {
		t.Error("expected no income flag")
	}
	if r.BurnRateStatus != StatusNoBudget {
		t.Errorf("expected %s, got %s", StatusNoBudget, r.BurnRateStatus)
	}
	if r.SafeDailySpend != 0 || r.BudgetUsedPercent != 0 || r.ShowBudgetAlert {
		t.Errorf("zero budget should not produce allowance or alert: %+v", r)
	}
	if *r.SpendingTrend[0].Ideal != 0 {
		t.Errorf("ideal line should be flat at zero")
	}
}

func TestBuildReport_PreviousComparisonAndTrend(t *testing.T) {
	cur := AggregateCycle([]models.Transaction{
		txn(calendar.Date(2024, 3, 1), "100", models.Debit, "Food"),
		txn(calendar.Date(2024, 3, 4), "200", models.Debit, "Food"),
		txn(calendar.Date(2024, 3, 4), "50", models.Credit, "Food"),
	}, march().Start, nil, nil)
	prior := AggregateCycle([]models.Transaction{
		txn(calendar.Date(2024, 1, 31), "100", models.Debit, "Food"),
		txn(calendar.Date(2024, 2, 4), "100", models.Debit, "Bills"),
		txn(calendar.Date(2024, 2, 20), "700", models.Debit, "Bills"),
	}, february().Start, nil, nil)

	r := BuildReport(ReportInput{
		Settings: fixedSettings(3000),
		Cycle:    march(),
		Previous: february(),
		Current:  cur,
		Prior:    prior,
		Today:    calendar.Date(2024, 3, 5),
	})

	if r.DaysPassed != 5 {
		t.Fatalf("expected 5 days passed, got %d", r.DaysPassed)
	}
	if r.PrevCycleSpendToDate != 200 {
		t.Errorf("prev spend to date: expected 200, got %.2f", r.PrevCycleSpendToDate)
	}
	if r.SpendDiffPercent != 25 {
		t.Errorf("diff percent: expected 25, got %.1f", r.SpendDiffPercent)
	}
	if len(r.SpendingTrend) != 30 {
		t.Fatalf("expected 30 trend points, got %d", len(r.SpendingTrend))
	}

	day4 := r.SpendingTrend[3]
	if day4.Day != 4 || day4.Actual == nil || *day4.Actual != 250 {
		t.Errorf("day 4 actual: expected 250, got %+v", day4)
	}
	if day4.Date != "04 Mar" {
		t.Errorf("day 4 label: expected 04 Mar, got %s", day4.Date)
	}
	if r.SpendingTrend[5].Actual != nil {
		t.Error("actual must be hidden after today for the current cycle")
	}
	if p := r.SpendingTrend[29].Previous; p == nil || *p != 900 {
		t.Errorf("previous cumulative on day 30: expected 900, got %v", p)
	}
	if ideal := r.SpendingTrend[29].Ideal; ideal == nil || *ideal != 3000 {
		t.Errorf("ideal on last day should equal budget, got %v", ideal)
	}
	if ideal := r.SpendingTrend[9].Ideal; *ideal != 1000 {
		t.Errorf("ideal on day 10: expected 1000, got %.2f", *ideal)
	}
}

func TestBuildReport_LongerPreviousCycle(t *testing.T) {
	prev := models.Cycle{Offset: 1, Start: calendar.Date(2024, 1, 29), End: calendar.Date(2024, 2, 29)}
	short := models.Cycle{Start: calendar.Date(2024, 3, 1), End: calendar.Date(2024, 3, 28)}
	r := BuildReport(ReportInput{
		Settings: fixedSettings(2800),
		Cycle:    short,
		Previous: prev,
		Today:    calendar.Date(2024, 3, 28),
	})
	if len(r.SpendingTrend) != 32 {
		t.Fatalf("expected trend to cover the longer previous cycle, got %d", len(r.SpendingTrend))
	}
	last := r.SpendingTrend[31]
	if last.Actual != nil || last.Ideal != nil {
		t.Error("current cycle values must be hidden past its end")
	}
	if last.Previous == nil {
		t.Error("previous value expected on day 32")
	}
}

func TestBuildReport_History(t *testing.T) {
	hist := models.Cycle{Offset: 2, Start: calendar.Date(2024, 1, 1), End: calendar.Date(2024, 1, 30)}
	prev := models.Cycle{Offset: 3, Start: calendar.Date(2023, 12, 1), End: calendar.Date(2023, 12, 31)}
	cur := AggregateCycle([]models.Transaction{
		txn(calendar.Date(2024, 1, 30), "600", models.Debit, "Food"),
	}, hist.Start, nil, nil)
	r := BuildReport(ReportInput{
		Settings: fixedSettings(3000),
		Cycle:    hist,
		Previous: prev,
		Current:  cur,
		Today:    calendar.Date(2024, 3, 10),
	})
	if r.ViewMode != "History (-2)" {
		t.Errorf("unexpected view mode %q", r.ViewMode)
	}
	if r.DaysPassed != 30 || r.DaysLeft != 0 {
		t.Errorf("history cycle should be complete, got %d/%d", r.DaysPassed, r.DaysLeft)
	}
	if r.SafeDailySpend != 0 {
		t.Errorf("no days left means no allowance, got %.2f", r.SafeDailySpend)
	}
	if a := r.SpendingTrend[29].Actual; a == nil || *a != 600 {
		t.Errorf("history actual should be visible through the end, got %v", a)
	}
	if r.ProjectedSpend != 600 {
		t.Errorf("complete cycle projects to its spend, got %.2f", r.ProjectedSpend)
	}
}

func TestBuildReport_EmptyCycleDoesNotPanic(t *testing.T) {
	broken := models.Cycle{Start: calendar.Date(2024, 3, 2), End: calendar.Date(2024, 3, 1)}
	r := BuildReport(ReportInput{
		Settings: fixedSettings(1000),
		Cycle:    broken,
		Previous: broken,
		Today:    calendar.Date(2024, 3, 2),
	})
	if r.DaysInCycle != 0 || r.DaysPassed != 0 || r.DaysLeft != 0 {
		t.Errorf("unexpected counts %d/%d/%d", r.DaysInCycle, r.DaysPassed, r.DaysLeft)
	}
	if len(r.SpendingTrend) != 0 {
		t.Errorf("expected empty trend, got %d points", len(r.SpendingTrend))
	}
	if r.ProjectedSpend != 0 || r.SafeDailySpend != 0 {
		t.Errorf("unexpected projection %.2f / %.2f", r.ProjectedSpend, r.SafeDailySpend)
	}
}

func TestBuildReport_CategoryBreakdown(t *testing.T) {
	cur := AggregateCycle([]models.Transaction{
		{Amount: decimal.NewFromInt(300), Date: calendar.Date(2024, 3, 2), PaymentType: models.Debit, CategoryName: "Food", CategoryColor: "#f87171"},
		txn(calendar.Date(2024, 3, 2), "300", models.Debit, "Bills"),
		txn(calendar.Date(2024, 3, 3), "900", models.Debit, "Shopping"),
		txn(calendar.Date(2024, 3, 3), "100", models.Credit, "Health"),
		txn(calendar.Date(2024, 3, 4), "50", models.Debit, "Transport"),
		txn(calendar.Date(2024, 3, 4), "50", models.Credit, "Transport"),
	}, march().Start, nil, nil)
	r := BuildReport(ReportInput{Settings: fixedSettings(5000), Cycle: march(), Previous: february(), Current: cur, Today: calendar.Date(2024, 3, 5)})

	want := []string{"Shopping", "Bills", "Food"}
	if len(r.CategoryBreakdown) != len(want) {
		t.Fatalf("expected %v, got %+v", want, r.CategoryBreakdown)
	}
	for i, name := range want {
		if r.CategoryBreakdown[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, r.CategoryBreakdown[i].Name)
		}
	}
	if r.CategoryBreakdown[2].Color != "#f87171" {
		t.Errorf("color not carried: %q", r.CategoryBreakdown[2].Color)
	}
}

func TestBuildReport_Alert(t *testing.T) {
	cur := AggregateCycle([]models.Transaction{
		txn(calendar.Date(2024, 3, 2), "850", models.Debit, "Food"),
	}, march().Start, nil, nil)
	r := BuildReport(ReportInput{
		Settings:       fixedSettings(1000),
		Cycle:          march(),
		Previous:       february(),
		Current:        cur,
		Today:          calendar.Date(2024, 3, 28),
		AlertThreshold: 80,
	})
	if !r.ShowBudgetAlert {
		t.Errorf("expected alert at %.1f%% used", r.BudgetUsedPercent)
	}
}

func TestSafeDailySpend_NeverNegativeOrInfinite(t *testing.T) {
	for _, remaining := range []float64{-5000, -0.01, 0, 0.01, 1, 5000, 1e9} {
		for daysLeft := -1; daysLeft <= 31; daysLeft++ {
			got := SafeDailySpend(decimal.NewFromFloat(remaining), daysLeft).InexactFloat64()
			if got < 0 || math.IsInf(got, 0) || math.IsNaN(got) {
				t.Fatalf("remaining %.2f days %d: got %v", remaining, daysLeft, got)
			}
			if (daysLeft <= 0 || remaining <= 0) && got != 0 {
				t.Fatalf("remaining %.2f days %d: expected 0, got %v", remaining, daysLeft, got)
			}
		}
	}
}

func TestSpendDiffPercent(t *testing.T) {
	tests := []struct {
		spend, prev string
		want        float64
	}{
		{"150", "100", 50},
		{"50", "100", -50},
		{"10", "0", 100},
		{"0", "0", 0},
		{"-10", "0", 0},
	}
	for _, tt := range tests {
		got := SpendDiffPercent(decimal.RequireFromString(tt.spend), decimal.RequireFromString(tt.prev)).InexactFloat64()
		if got != tt.want {
			t.Errorf("spend %s prev %s: expected %.1f, got %.1f", tt.spend, tt.prev, tt.want, got)
		}
	}
}

func TestProjectedSpend_DayZero(t *testing.T) {
	if got := ProjectedSpend(decimal.NewFromInt(120), 0, 30); !got.Equal(decimal.NewFromInt(120)) {
		t.Errorf("day zero should return spend unchanged, got %s", got)
	}
}

func TestClassifyBurn_Monotonic(t *testing.T) {
	const budget = 1000.0
	for days := 1; days <= 31; days++ {
		for passed := 0; passed <= days; passed++ {
			last := -1
			for spend := 0.0; spend <= 1200; spend += 5 {
				s := Severity(ClassifyBurn(spend, budget, passed, days).Status)
				if s < last {
					t.Fatalf("days %d passed %d spend %.0f: severity dropped from %d to %d", days, passed, spend, last, s)
				}
				last = s
			}
		}
	}
}

func TestClassifyBurn_Thresholds(t *testing.T) {
	tests := []struct {
		spend float64
		want  string
	}{
		{500, StatusOnTrack},
		{540, StatusOnTrack},
		{560, StatusCaution},
		{640, StatusCaution},
		{660, StatusHighBurn},
		{1000, StatusHighBurn},
		{1001, StatusOverBudget},
	}
	for _, tt := range tests {
		if got := ClassifyBurn(tt.spend, 1000, 15, 30).Status; got != tt.want {
			t.Errorf("spend %.0f at half time: expected %s, got %s", tt.spend, tt.want, got)
		}
	}
}
