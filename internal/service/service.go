package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/finance-tracker/internal/analytics"
	"github.com/Dan9191/finance-tracker/internal/calendar"
	"github.com/Dan9191/finance-tracker/internal/config"
	"github.com/Dan9191/finance-tracker/internal/cycle"
	"github.com/Dan9191/finance-tracker/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks . Store

const (
	// RecentLimit is how many transactions a report lists
	RecentLimit = 5
	// FallbackIncomeDays is how far before a cycle start a salary is looked up
	// when the cycle itself has no income
	FallbackIncomeDays = 7
)

// ErrInvalidCredentials is returned by Login for an unknown user or wrong password
var ErrInvalidCredentials = errors.New("invalid credentials")

// Store is the persistence the service depends on
type Store interface {
	cycle.IncomeFinder
	LatestIncomeCredit(ctx context.Context, from, to time.Time, categories []string) (decimal.Decimal, bool, error)
	FetchTransactions(ctx context.Context, start, end time.Time) ([]models.Transaction, error)
	RecentTransactions(ctx context.Context, start, end time.Time, limit int) ([]models.Transaction, error)
	GetOrCreateSettings(ctx context.Context) (*models.Settings, error)
	UpdateSettings(ctx context.Context, s *models.Settings) error
	ActiveGoals(ctx context.Context) ([]models.Goal, error)
	CreateGoal(ctx context.Context, g *models.Goal) error
	UpdateGoal(ctx context.Context, id int64, u models.GoalUpdate) (*models.Goal, error)
	DeleteGoal(ctx context.Context, id int64) error
}

// Service handles business logic
type Service struct {
	store    Store
	log      *logrus.Logger
	config   *config.Config
	holidays calendar.HolidayChecker
	clock    cycle.Clock
}

// NewService initializes a new service
func NewService(store Store, log *logrus.Logger, cfg *config.Config, holidays calendar.HolidayChecker, clock cycle.Clock) *Service {
	return &Service{store: store, log: log, config: cfg, holidays: holidays, clock: clock}
}

// Settings returns the current settings, creating the defaults on first access
func (s *Service) Settings(ctx context.Context) (*models.Settings, error) {
	return s.store.GetOrCreateSettings(ctx)
}

// UpdateSettings validates and stores a new settings row
func (s *Service) UpdateSettings(ctx context.Context, in models.Settings) (*models.Settings, error) {
	current, err := s.store.GetOrCreateSettings(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.ID = current.ID
	if err := s.store.UpdateSettings(ctx, &in); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"salary_day":   in.SalaryDay,
		"budget_type":  in.BudgetType,
		"budget_value": in.BudgetValue,
	}).Info("Settings updated")
	return &in, nil
}

// Cycle returns the secured cycle offset cycles back with its day counts filled
func (s *Service) Cycle(ctx context.Context, offset int) (*models.Cycle, error) {
	settings, err := s.store.GetOrCreateSettings(ctx)
	if err != nil {
		return nil, err
	}
	resolver := s.resolver(settings)
	c, err := resolver.Secure(ctx, offset, settings.IncomeCategories)
	if err != nil {
		return nil, err
	}
	cycle.Progress(&c, resolver.Calculator().Today())
	return &c, nil
}

// HealthReport builds the financial health report of the cycle offset cycles
// back. A negative offset selects the offset stored in settings.
func (s *Service) HealthReport(ctx context.Context, offset int) (*models.HealthReport, error) {
	settings, err := s.store.GetOrCreateSettings(ctx)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = settings.ViewCycleOffset
	}
	resolver := s.resolver(settings)
	today := resolver.Calculator().Today()

	cur, err := resolver.Secure(ctx, offset, settings.IncomeCategories)
	if err != nil {
		return nil, err
	}
	prev, err := resolver.Secure(ctx, offset+1, settings.IncomeCategories)
	if err != nil {
		return nil, err
	}

	curTxns, err := s.store.FetchTransactions(ctx, cur.Start, cur.End)
	if err != nil {
		return nil, err
	}
	prevTxns, err := s.store.FetchTransactions(ctx, prev.Start, prev.End)
	if err != nil {
		return nil, err
	}
	current := analytics.AggregateCycle(curTxns, cur.Start, settings.IgnoredCategories, settings.IncomeCategories)
	prior := analytics.AggregateCycle(prevTxns, prev.Start, settings.IgnoredCategories, settings.IncomeCategories)

	incomeBase, err := s.incomeBase(ctx, settings, cur, current.TotalIncome)
	if err != nil {
		return nil, err
	}

	recent, err := s.store.RecentTransactions(ctx, cur.Start, cur.End, RecentLimit)
	if err != nil {
		return nil, err
	}

	report := analytics.BuildReport(analytics.ReportInput{
		Settings:       *settings,
		Cycle:          cur,
		Previous:       prev,
		Current:        current,
		Prior:          prior,
		IncomeBase:     incomeBase,
		Today:          today,
		Recent:         recent,
		AlertThreshold: s.config.AlertThreshold,
	})
	s.log.WithFields(logrus.Fields{
		"offset":      offset,
		"cycle_start": cur.Start.Format("2006-01-02"),
		"cycle_end":   cur.End.Format("2006-01-02"),
		"burn_rate":   report.BurnRateStatus,
	}).Debug("Health report built")
	return report, nil
}

// incomeBase picks the income a PERCENTAGE budget is computed from. A cycle
// without income falls back to the last salary in the days before its start.
func (s *Service) incomeBase(ctx context.Context, settings *models.Settings, cur models.Cycle, income decimal.Decimal) (decimal.Decimal, error) {
	if settings.BudgetType != models.BudgetPercentage || !income.IsZero() || len(settings.IncomeCategories) == 0 {
		return income, nil
	}
	from := cur.Start.AddDate(0, 0, -FallbackIncomeDays)
	to := cur.Start.AddDate(0, 0, -1)
	amount, ok, err := s.store.LatestIncomeCredit(ctx, from, to, settings.IncomeCategories)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return income, nil
	}
	s.log.WithFields(logrus.Fields{
		"cycle_start": cur.Start.Format("2006-01-02"),
		"amount":      amount.String(),
	}).Info("Using salary credited before cycle start as income base")
	return amount, nil
}

// Forecast projects the current cycle forward at the recent daily spending
// rate. daysForward <= 0 projects to the end of the cycle.
func (s *Service) Forecast(ctx context.Context, daysForward int) (*models.BudgetForecast, error) {
	report, err := s.HealthReport(ctx, 0)
	if err != nil {
		return nil, err
	}
	settings, err := s.store.GetOrCreateSettings(ctx)
	if err != nil {
		return nil, err
	}
	today := calendar.Civil(s.clock())
	window := analytics.VelocityWindowDays

	current, err := s.spendingWindow(ctx, settings, today.AddDate(0, 0, -(window-1)), today)
	if err != nil {
		return nil, err
	}
	previous, err := s.spendingWindow(ctx, settings, today.AddDate(0, 0, -(2*window-1)), today.AddDate(0, 0, -window))
	if err != nil {
		return nil, err
	}
	return analytics.Forecast(report, current, previous, window, daysForward), nil
}

func (s *Service) spendingWindow(ctx context.Context, settings *models.Settings, start, end time.Time) (models.SpendingWindow, error) {
	txns, err := s.store.FetchTransactions(ctx, start, end)
	if err != nil {
		return models.SpendingWindow{}, fmt.Errorf("failed to load spending window: %w", err)
	}
	spend := analytics.SumDebits(txns, settings.IgnoredCategories, settings.IncomeCategories)
	return models.SpendingWindow{Start: start, End: end, Spending: spend.Round(2).InexactFloat64()}, nil
}

func (s *Service) resolver(settings *models.Settings) *cycle.Resolver {
	calc := cycle.NewCalculator(settings.SalaryDay, s.holidays, s.clock)
	return cycle.NewResolver(calc, s.store, s.log)
}
