package models

import "time"

// Cycle is a budget period bounded by two resolved paydays
type Cycle struct {
	Offset      int       `json:"offset"`
	Start       time.Time `json:"cycle_start"`
	End         time.Time `json:"cycle_end"`
	DaysInCycle int       `json:"days_in_cycle"`
	DaysPassed  int       `json:"days_passed"`
	DaysLeft    int       `json:"days_left"`
	Truncated   bool      `json:"truncated"`
}
