package models

import (
	"errors"
	"fmt"
	"strings"
)

// BudgetType selects how the cycle budget limit is derived
type BudgetType string

const (
	BudgetFixed      BudgetType = "FIXED"
	BudgetPercentage BudgetType = "PERCENTAGE"
)

// ErrInvalidSettings is returned when a settings update fails validation
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the single user settings row
type Settings struct {
	ID                int64      `json:"id"`
	SalaryDay         int        `json:"salary_day"`
	BudgetType        BudgetType `json:"budget_type"`
	BudgetValue       float64    `json:"budget_value"`
	IgnoredCategories []string   `json:"ignored_categories"`
	IncomeCategories  []string   `json:"income_categories"`
	ViewCycleOffset   int        `json:"view_cycle_offset"`
}

// DefaultSettings returns the row created on first access
func DefaultSettings() Settings {
	return Settings{
		SalaryDay:         1,
		BudgetType:        BudgetPercentage,
		BudgetValue:       40,
		IgnoredCategories: []string{},
		IncomeCategories:  []string{"Salary", "Income"},
	}
}

// Validate normalizes category lists and checks value ranges
func (s *Settings) Validate() error {
	s.BudgetType = BudgetType(strings.ToUpper(strings.TrimSpace(string(s.BudgetType))))
	if s.SalaryDay < 1 || s.SalaryDay > 31 {
		return fmt.Errorf("%w: salary_day must be between 1 and 31", ErrInvalidSettings)
	}
	if s.BudgetType != BudgetFixed && s.BudgetType != BudgetPercentage {
		return fmt.Errorf("%w: budget_type must be FIXED or PERCENTAGE", ErrInvalidSettings)
	}
	if s.BudgetValue < 0 {
		return fmt.Errorf("%w: budget_value must be >= 0", ErrInvalidSettings)
	}
	if s.ViewCycleOffset < 0 {
		return fmt.Errorf("%w: view_cycle_offset must be >= 0", ErrInvalidSettings)
	}
	s.IgnoredCategories = CleanCategories(s.IgnoredCategories)
	s.IncomeCategories = CleanCategories(s.IncomeCategories)
	return nil
}

// CleanCategories trims names, drops blanks and duplicates, keeps order
func CleanCategories(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// JoinCategories encodes a category list for the comma separated column
func JoinCategories(names []string) string {
	return strings.Join(CleanCategories(names), ",")
}

// SplitCategories decodes the comma separated column
func SplitCategories(raw string) []string {
	return CleanCategories(strings.Split(raw, ","))
}
