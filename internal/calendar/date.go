package calendar

import "time"

// Day is one calendar day
const Day = 24 * time.Hour

// Civil drops the clock and zone of t, keeping its calendar date.
// All cycle arithmetic runs on these UTC midnights.
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a civil date; out-of-range days normalize like time.Date
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole days from a to b (negative if b is earlier)
func DaysBetween(a, b time.Time) int {
	return int(Civil(b).Sub(Civil(a)) / Day)
}

// AddDays shifts a civil date by n days
func AddDays(t time.Time, n int) time.Time {
	return Civil(t).AddDate(0, 0, n)
}

// DaysIn returns the number of days in the given month
func DaysIn(year int, month time.Month) int {
	return Date(year, month+1, 0).Day()
}

// IsWeekend reports Saturday or Sunday
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
