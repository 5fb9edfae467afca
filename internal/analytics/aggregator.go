package analytics

import (
	"time"

	"github.com/Dan9191/finance-tracker/internal/calendar"
	"github.com/Dan9191/finance-tracker/internal/models"
	"github.com/shopspring/decimal"
)

// CategoryBucket accumulates the net spend of one category
type CategoryBucket struct {
	Value decimal.Decimal
	Color string
}

// Aggregate is the single-pass summary of one cycle's transactions
type Aggregate struct {
	TotalSpend  decimal.Decimal
	TotalIncome decimal.Decimal
	Categories  map[string]*CategoryBucket
	// DailyDeltas holds the net spend per day index (day 1 = cycle start).
	// Only days with activity are present and values are not cumulative.
	DailyDeltas map[int]decimal.Decimal
}

// NewAggregate returns an empty aggregate
func NewAggregate() *Aggregate {
	return &Aggregate{
		Categories:  make(map[string]*CategoryBucket),
		DailyDeltas: make(map[int]decimal.Decimal),
	}
}

// AggregateCycle partitions txns in one pass. Ignored categories are skipped,
// income categories move income (CREDIT adds, DEBIT reverses) and everything
// else moves spend: DEBIT adds, CREDIT refunds on the day it posts.
func AggregateCycle(txns []models.Transaction, start time.Time, ignored, income []string) *Aggregate {
	ignoredSet := toSet(ignored)
	incomeSet := toSet(income)
	agg := NewAggregate()

	for _, txn := range txns {
		if _, skip := ignoredSet[txn.CategoryName]; skip {
			continue
		}
		pt := models.ParsePaymentType(string(txn.PaymentType))

		if _, ok := incomeSet[txn.CategoryName]; ok {
			switch pt {
			case models.Credit:
				agg.TotalIncome = agg.TotalIncome.Add(txn.Amount)
			case models.Debit:
				agg.TotalIncome = agg.TotalIncome.Sub(txn.Amount)
			}
			continue
		}

		var delta decimal.Decimal
		switch pt {
		case models.Debit:
			delta = txn.Amount
		case models.Credit:
			delta = txn.Amount.Neg()
		default:
			continue
		}

		agg.TotalSpend = agg.TotalSpend.Add(delta)

		bucket, ok := agg.Categories[txn.CategoryName]
		if !ok {
			bucket = &CategoryBucket{Color: txn.CategoryColor}
			agg.Categories[txn.CategoryName] = bucket
		}
		bucket.Value = bucket.Value.Add(delta)

		day := calendar.DaysBetween(start, txn.Date) + 1
		agg.DailyDeltas[day] = agg.DailyDeltas[day].Add(delta)
	}
	return agg
}

// SpendThrough sums the daily deltas up to and including day
func (a *Aggregate) SpendThrough(day int) decimal.Decimal {
	total := decimal.Zero
	for d, v := range a.DailyDeltas {
		if d <= day {
			total = total.Add(v)
		}
	}
	return total
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
