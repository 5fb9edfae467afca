package calendar

import "time"

// maxPaydayWalk bounds the backward walk for calendars that mark every day
// as a holiday
const maxPaydayWalk = 366

// ResolvePayday returns the working day salary is paid for the given month.
// A day past the month's end is clamped to its last day, then the date walks
// backwards over weekends and holidays. A nil checker means weekends only.
func ResolvePayday(year int, month time.Month, day int, holidays HolidayChecker) time.Time {
	if last := DaysIn(year, month); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	target := Date(year, month, day)
	d := target
	for i := 0; i < maxPaydayWalk; i++ {
		if !IsWeekend(d) && (holidays == nil || !holidays.IsHoliday(d)) {
			return d
		}
		d = d.AddDate(0, 0, -1)
	}
	return target
}
