package models

import "time"

// CategorySpend is one slice of the category breakdown
type CategorySpend struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// TrendPoint is one day of the cumulative spending chart.
// Nil values are hidden on the chart.
type TrendPoint struct {
	Day      int      `json:"day"`
	Date     string   `json:"date"`
	Actual   *float64 `json:"actual"`
	Previous *float64 `json:"previous"`
	Ideal    *float64 `json:"ideal"`
}

// HealthReport is the financial health snapshot of one cycle
type HealthReport struct {
	CycleStart  time.Time `json:"cycle_start"`
	CycleEnd    time.Time `json:"cycle_end"`
	DaysInCycle int       `json:"days_in_cycle"`
	DaysPassed  int       `json:"days_passed"`
	DaysLeft    int       `json:"days_left"`

	TotalBudget      float64 `json:"total_budget"`
	TotalSpend       float64 `json:"total_spend"`
	TotalIncome      float64 `json:"total_income"`
	IncomeBase       float64 `json:"income_base"`
	BudgetRemaining  float64 `json:"budget_remaining"`
	SafeDailySpend   float64 `json:"safe_to_spend_daily"`
	BurnRateStatus   string  `json:"burn_rate_status"`
	BurnRateLevel    string  `json:"burn_rate_level"`
	ProjectedSpend   float64 `json:"projected_spend"`
	NoIncomeDetected bool    `json:"no_income_detected"`

	PrevCycleSpendToDate float64 `json:"prev_cycle_spend_todate"`
	SpendDiffPercent     float64 `json:"spend_diff_percent"`

	CategoryBreakdown  []CategorySpend `json:"category_breakdown"`
	SpendingTrend      []TrendPoint    `json:"spending_trend"`
	RecentTransactions []Transaction   `json:"recent_transactions"`
	ViewMode           string          `json:"view_mode"`

	BudgetUsedPercent float64 `json:"budget_used_percent"`
	ShowBudgetAlert   bool    `json:"show_budget_alert"`
}

// SpendingWindow is the spend inside one velocity window
type SpendingWindow struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Spending float64   `json:"spending"`
}

// BudgetForecast projects the end-of-cycle budget position
type BudgetForecast struct {
	CurrentBudget       float64        `json:"current_budget"`
	CurrentSpend        float64        `json:"current_spend"`
	CurrentRemaining    float64        `json:"current_remaining"`
	DaysLeftInCycle     int            `json:"days_left_in_cycle"`
	ProjectionDays      int            `json:"projection_days"`
	CurrentDailyRate    float64        `json:"current_daily_rate"`
	SafeDailySpend      float64        `json:"safe_daily_spend"`
	CurrentWindow       SpendingWindow `json:"current_window"`
	PreviousWindow      SpendingWindow `json:"previous_window"`
	VelocityChange      float64        `json:"velocity_change_percent"`
	VelocityStatus      string         `json:"spending_velocity_status"`
	ProjectedTotalSpend float64        `json:"projected_total_spend"`
	ProjectedRemaining  float64        `json:"projected_remaining"`
	Status              string         `json:"status"`
	WillStayUnderBudget bool           `json:"will_stay_under_budget"`
}

// Snapshot is the persisted daily copy of a report's headline figures
type Snapshot struct {
	TakenAt           time.Time `json:"taken_at"`
	CycleStart        time.Time `json:"cycle_start"`
	CycleEnd          time.Time `json:"cycle_end"`
	DaysPassed        int       `json:"days_passed"`
	TotalBudget       float64   `json:"total_budget"`
	TotalSpend        float64   `json:"total_spend"`
	BudgetRemaining   float64   `json:"budget_remaining"`
	SafeDailySpend    float64   `json:"safe_to_spend_daily"`
	ProjectedSpend    float64   `json:"projected_spend"`
	BurnRateStatus    string    `json:"burn_rate_status"`
	BudgetUsedPercent float64   `json:"budget_used_percent"`
}

// NewSnapshot copies the headline figures of a report
func NewSnapshot(r *HealthReport, takenAt time.Time) *Snapshot {
	return &Snapshot{
		TakenAt:           takenAt,
		CycleStart:        r.CycleStart,
		CycleEnd:          r.CycleEnd,
		DaysPassed:        r.DaysPassed,
		TotalBudget:       r.TotalBudget,
		TotalSpend:        r.TotalSpend,
		BudgetRemaining:   r.BudgetRemaining,
		SafeDailySpend:    r.SafeDailySpend,
		ProjectedSpend:    r.ProjectedSpend,
		BurnRateStatus:    r.BurnRateStatus,
		BudgetUsedPercent: r.BudgetUsedPercent,
	}
}
