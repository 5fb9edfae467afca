package cycle

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/finance-tracker/internal/calendar"
	"github.com/Dan9191/finance-tracker/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	// EarlySalaryWindow is how many days before the theoretical end are
	// scanned for an early salary
	EarlySalaryWindow = 10
	// MinCycleDays keeps a salary close to the start from being read as the
	// next cycle's early salary
	MinCycleDays = 5
)

// IncomeFinder looks up income credits in the transaction store
type IncomeFinder interface {
	// EarliestIncomeCredit returns the date of the first CREDIT in one of
	// categories dated within [from, to]
	EarliestIncomeCredit(ctx context.Context, from, to time.Time, categories []string) (time.Time, bool, error)
}

// Resolver applies the early salary guard to theoretical cycles
type Resolver struct {
	calc   *Calculator
	finder IncomeFinder
	log    *logrus.Logger
}

// NewResolver initializes a secure cycle resolver
func NewResolver(calc *Calculator, finder IncomeFinder, log *logrus.Logger) *Resolver {
	return &Resolver{calc: calc, finder: finder, log: log}
}

// Calculator exposes the underlying calendar calculator
func (r *Resolver) Calculator() *Calculator {
	return r.calc
}

// Secure returns the cycle for offset with its end snapped before an early
// salary, so one salary is never attributed to two consecutive cycles
func (r *Resolver) Secure(ctx context.Context, offset int, incomeCategories []string) (models.Cycle, error) {
	start, end, err := r.calc.Theoretical(offset)
	if err != nil {
		return models.Cycle{}, err
	}
	end, truncated, err := r.Guard(ctx, start, end, incomeCategories)
	if err != nil {
		return models.Cycle{}, err
	}
	return models.Cycle{
		Offset:      offset,
		Start:       start,
		End:         end,
		DaysInCycle: calendar.DaysBetween(start, end) + 1,
		Truncated:   truncated,
	}, nil
}

// Guard scans [end-EarlySalaryWindow, end] for the earliest income credit and,
// when it lies more than MinCycleDays after start, returns the day before it
// as the new end
func (r *Resolver) Guard(ctx context.Context, start, end time.Time, incomeCategories []string) (time.Time, bool, error) {
	if len(incomeCategories) == 0 {
		return end, false, nil
	}
	found, ok, err := r.finder.EarliestIncomeCredit(ctx, end.AddDate(0, 0, -EarlySalaryWindow), end, incomeCategories)
	if err != nil {
		return end, false, fmt.Errorf("failed to scan for early salary: %w", err)
	}
	if !ok {
		return end, false, nil
	}
	found = calendar.Civil(found)
	if !found.After(start.AddDate(0, 0, MinCycleDays)) {
		return end, false, nil
	}
	snapped := found.AddDate(0, 0, -1)
	r.log.WithFields(logrus.Fields{
		"salary_date": found.Format("2006-01-02"),
		"cycle_start": start.Format("2006-01-02"),
		"old_end":     end.Format("2006-01-02"),
		"new_end":     snapped.Format("2006-01-02"),
	}).Info("Early salary detected, snapping cycle end")
	return snapped, true, nil
}

// Progress fills the elapsed/remaining day counts of c. The start day counts
// as day 1; historical cycles (offset > 0) are complete.
func Progress(c *models.Cycle, today time.Time) {
	c.DaysInCycle = calendar.DaysBetween(c.Start, c.End) + 1
	if c.DaysInCycle < 0 {
		c.DaysInCycle = 0
	}
	if c.Offset > 0 {
		c.DaysPassed = c.DaysInCycle
	} else {
		passed := calendar.DaysBetween(c.Start, today) + 1
		if passed < 0 {
			passed = 0
		}
		if passed > c.DaysInCycle {
			passed = c.DaysInCycle
		}
		c.DaysPassed = passed
	}
	c.DaysLeft = c.DaysInCycle - c.DaysPassed
	if c.DaysLeft < 0 {
		c.DaysLeft = 0
	}
}
