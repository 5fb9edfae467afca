package cycle

import (
	"errors"
	"time"

	"github.com/Dan9191/finance-tracker/internal/calendar"
)

// ErrNegativeOffset is returned for offsets pointing into the future
var ErrNegativeOffset = errors.New("cycle offset must be >= 0")

// Clock returns the current instant; its calendar date is "today"
type Clock func() time.Time

// SystemClock reads the wall clock in loc
func SystemClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

// FixedClock always reports the same instant
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// Calculator derives theoretical cycle ranges from the salary day
type Calculator struct {
	salaryDay int
	holidays  calendar.HolidayChecker
	now       Clock
}

// NewCalculator creates a calculator; nil holidays means weekends only
func NewCalculator(salaryDay int, holidays calendar.HolidayChecker, now Clock) *Calculator {
	return &Calculator{salaryDay: salaryDay, holidays: holidays, now: now}
}

// Today returns the civil date decisions for offset 0 are based on
func (c *Calculator) Today() time.Time {
	return calendar.Civil(c.now())
}

// Payday resolves the salary date for a linear month index (year*12 + month-1)
func (c *Calculator) Payday(linearMonth int) time.Time {
	year, month := splitMonth(linearMonth)
	return calendar.ResolvePayday(year, month, c.salaryDay, c.holidays)
}

// Theoretical returns the calendar-only [start, end] of the cycle offset
// cycles before the current one. Offset 0 always contains today.
func (c *Calculator) Theoretical(offset int) (start, end time.Time, err error) {
	if offset < 0 {
		return time.Time{}, time.Time{}, ErrNegativeOffset
	}
	today := c.Today()
	anchor := linearMonth(today)
	if today.Before(c.Payday(anchor)) {
		anchor--
	}
	// next month's payday can be pulled back into this month
	if !today.Before(c.Payday(anchor + 1)) {
		anchor++
	}
	target := anchor - offset
	start = c.Payday(target)
	end = c.Payday(target + 1).AddDate(0, 0, -1)
	return start, end, nil
}

func linearMonth(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

func splitMonth(linear int) (int, time.Month) {
	year := linear / 12
	month := linear%12 + 1
	return year, time.Month(month)
}
