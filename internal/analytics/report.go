package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/Dan9191/finance-tracker/internal/cycle"
	"github.com/Dan9191/finance-tracker/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ReportInput carries everything the health report is built from
type ReportInput struct {
	Settings       models.Settings
	Cycle          models.Cycle
	Previous       models.Cycle
	Current        *Aggregate
	Prior          *Aggregate
	IncomeBase     decimal.Decimal
	Today          time.Time
	Recent         []models.Transaction
	AlertThreshold float64
}

// BudgetLimit derives the cycle budget from settings and the income base
func BudgetLimit(s models.Settings, incomeBase decimal.Decimal) decimal.Decimal {
	value := decimal.NewFromFloat(s.BudgetValue)
	if s.BudgetType == models.BudgetPercentage {
		return incomeBase.Mul(value).Div(hundred)
	}
	return value
}

// SafeDailySpend spreads the remaining budget over the remaining days.
// It is zero when nothing is left to spread or no days remain.
func SafeDailySpend(remaining decimal.Decimal, daysLeft int) decimal.Decimal {
	if daysLeft <= 0 || !remaining.IsPositive() {
		return decimal.Zero
	}
	return remaining.Div(decimal.NewFromInt(int64(daysLeft)))
}

// ProjectedSpend extrapolates the spend so far to the whole cycle
func ProjectedSpend(spend decimal.Decimal, daysPassed, daysInCycle int) decimal.Decimal {
	if daysPassed <= 0 {
		return spend
	}
	return spend.Div(decimal.NewFromInt(int64(daysPassed))).Mul(decimal.NewFromInt(int64(daysInCycle)))
}

// SpendDiffPercent compares spend with the previous cycle's spend to date
func SpendDiffPercent(spend, prevToDate decimal.Decimal) decimal.Decimal {
	switch {
	case prevToDate.IsPositive():
		return spend.Sub(prevToDate).Div(prevToDate).Mul(hundred)
	case spend.IsPositive():
		return hundred
	default:
		return decimal.Zero
	}
}

// BuildReport combines the aggregates of the current and previous cycle
// with the settings into a health report
func BuildReport(in ReportInput) *models.HealthReport {
	cur := in.Cycle
	cycle.Progress(&cur, in.Today)
	prev := in.Previous
	cycle.Progress(&prev, in.Today)

	current := in.Current
	if current == nil {
		current = NewAggregate()
	}
	prior := in.Prior
	if prior == nil {
		prior = NewAggregate()
	}

	limit := BudgetLimit(in.Settings, in.IncomeBase)
	spend := current.TotalSpend
	remaining := limit.Sub(spend)
	prevToDate := prior.SpendThrough(cur.DaysPassed)

	budget := round2(limit)
	totalSpend := round2(spend)
	burn := ClassifyBurn(totalSpend, budget, cur.DaysPassed, cur.DaysInCycle)

	r := &models.HealthReport{
		CycleStart:           cur.Start,
		CycleEnd:             cur.End,
		DaysInCycle:          cur.DaysInCycle,
		DaysPassed:           cur.DaysPassed,
		DaysLeft:             cur.DaysLeft,
		TotalBudget:          budget,
		TotalSpend:           totalSpend,
		TotalIncome:          round2(current.TotalIncome),
		IncomeBase:           round2(in.IncomeBase),
		BudgetRemaining:      round2(remaining),
		SafeDailySpend:       round2(SafeDailySpend(remaining, cur.DaysLeft)),
		BurnRateStatus:       burn.Status,
		BurnRateLevel:        burn.Level,
		ProjectedSpend:       round2(ProjectedSpend(spend, cur.DaysPassed, cur.DaysInCycle)),
		NoIncomeDetected:     in.Settings.BudgetType == models.BudgetPercentage && !in.IncomeBase.IsPositive(),
		PrevCycleSpendToDate: round2(prevToDate),
		SpendDiffPercent:     SpendDiffPercent(spend, prevToDate).Round(1).InexactFloat64(),
		CategoryBreakdown:    breakdown(current),
		SpendingTrend:        trend(cur, prev, current, prior, limit),
		RecentTransactions:   in.Recent,
		ViewMode:             viewMode(cur.Offset),
	}
	if r.RecentTransactions == nil {
		r.RecentTransactions = []models.Transaction{}
	}
	if limit.IsPositive() {
		r.BudgetUsedPercent = spend.Div(limit).Mul(hundred).Round(1).InexactFloat64()
		r.ShowBudgetAlert = in.AlertThreshold > 0 && r.BudgetUsedPercent >= in.AlertThreshold
	}
	return r
}

func breakdown(agg *Aggregate) []models.CategorySpend {
	out := make([]models.CategorySpend, 0, len(agg.Categories))
	for name, b := range agg.Categories {
		if !b.Value.IsPositive() {
			continue
		}
		out = append(out, models.CategorySpend{Name: name, Value: round2(b.Value), Color: b.Color})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func trend(cur, prev models.Cycle, current, prior *Aggregate, limit decimal.Decimal) []models.TrendPoint {
	days := cur.DaysInCycle
	if prev.DaysInCycle > days {
		days = prev.DaysInCycle
	}
	idealDaily := decimal.Zero
	if cur.DaysInCycle > 0 {
		idealDaily = limit.Div(decimal.NewFromInt(int64(cur.DaysInCycle)))
	}

	points := make([]models.TrendPoint, 0, days)
	cumActual, cumPrev := decimal.Zero, decimal.Zero
	for i := 1; i <= days; i++ {
		cumActual = cumActual.Add(current.DailyDeltas[i])
		cumPrev = cumPrev.Add(prior.DailyDeltas[i])

		p := models.TrendPoint{
			Day:  i,
			Date: cur.Start.AddDate(0, 0, i-1).Format("02 Jan"),
		}
		showActual := i <= cur.DaysInCycle && !(cur.Offset == 0 && i > cur.DaysPassed)
		if showActual {
			p.Actual = ptr(round2(cumActual))
		}
		if i <= prev.DaysInCycle {
			p.Previous = ptr(round2(cumPrev))
		}
		if i <= cur.DaysInCycle {
			p.Ideal = ptr(round2(idealDaily.Mul(decimal.NewFromInt(int64(i)))))
		}
		points = append(points, p)
	}
	return points
}

func viewMode(offset int) string {
	if offset == 0 {
		return "Current"
	}
	return fmt.Sprintf("History (-%d)", offset)
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func ptr(v float64) *float64 {
	return &v
}
