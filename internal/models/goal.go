package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrGoalNotFound is returned for an unknown goal id
	ErrGoalNotFound = errors.New("goal not found")
	// ErrInvalidGoal is returned when a goal fails validation
	ErrInvalidGoal = errors.New("invalid goal")
)

// Goal sources
const (
	GoalManual  = "manual"
	GoalChatbot = "chatbot"
)

// Goal caps the spend of one category per cycle
type Goal struct {
	ID            int64           `json:"id"`
	CategoryID    int64           `json:"category_id"`
	CapAmount     decimal.Decimal `json:"cap_amount"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedVia    string          `json:"created_via"`
	CategoryName  string          `json:"category_name"`
	CategoryColor string          `json:"category_color"`
}

// Validate checks a new goal and fills its defaults
func (g *Goal) Validate() error {
	if g.CategoryID <= 0 {
		return fmt.Errorf("%w: category_id is required", ErrInvalidGoal)
	}
	if g.CapAmount.IsNegative() {
		return fmt.Errorf("%w: cap_amount must be >= 0", ErrInvalidGoal)
	}
	g.CreatedVia = strings.ToLower(strings.TrimSpace(g.CreatedVia))
	switch g.CreatedVia {
	case "":
		g.CreatedVia = GoalManual
	case GoalManual, GoalChatbot:
	default:
		return fmt.Errorf("%w: created_via must be manual or chatbot", ErrInvalidGoal)
	}
	g.IsActive = true
	return nil
}

// GoalUpdate holds the goal fields a client may change; nil leaves a field as is
type GoalUpdate struct {
	CapAmount *decimal.Decimal `json:"cap_amount"`
	IsActive  *bool            `json:"is_active"`
}

// Validate checks the changed fields
func (u GoalUpdate) Validate() error {
	if u.CapAmount != nil && u.CapAmount.IsNegative() {
		return fmt.Errorf("%w: cap_amount must be >= 0", ErrInvalidGoal)
	}
	return nil
}

// GoalProgress is a goal with the spend of its category in the current cycle
type GoalProgress struct {
	Goal
	CurrentSpend    float64 `json:"current_spend"`
	ProgressPercent float64 `json:"progress_percent"`
	IsOverBudget    bool    `json:"is_over_budget"`
}
