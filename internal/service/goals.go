package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/finance-tracker/internal/analytics"
	"github.com/Dan9191/finance-tracker/internal/calendar"
	"github.com/Dan9191/finance-tracker/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Goals returns the active goals with the spend of their category in the
// current secured cycle
func (s *Service) Goals(ctx context.Context) ([]models.GoalProgress, error) {
	goals, err := s.store.ActiveGoals(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.GoalProgress, 0, len(goals))
	if len(goals) == 0 {
		return out, nil
	}

	settings, err := s.store.GetOrCreateSettings(ctx)
	if err != nil {
		return nil, err
	}
	cur, err := s.resolver(settings).Secure(ctx, 0, settings.IncomeCategories)
	if err != nil {
		return nil, err
	}
	txns, err := s.store.FetchTransactions(ctx, cur.Start, cur.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load cycle spend: %w", err)
	}
	spend := analytics.DebitsByCategory(txns)
	for _, g := range goals {
		out = append(out, analytics.GoalProgress(g, spend[g.CategoryName]))
	}
	return out, nil
}

// CreateGoal validates g and stores it, replacing the active goal of its category
func (s *Service) CreateGoal(ctx context.Context, g models.Goal) (*models.Goal, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.CreateGoal(ctx, &g); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"goal_id":     g.ID,
		"category":    g.CategoryName,
		"cap_amount":  g.CapAmount.String(),
		"created_via": g.CreatedVia,
	}).Info("Goal created")
	return &g, nil
}

// UpdateGoal changes the cap or the active flag of goal id
func (s *Service) UpdateGoal(ctx context.Context, id int64, u models.GoalUpdate) (*models.Goal, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	g, err := s.store.UpdateGoal(ctx, id, u)
	if err != nil {
		return nil, err
	}
	s.log.WithField("goal_id", id).Info("Goal updated")
	return g, nil
}

// DeleteGoal removes goal id
func (s *Service) DeleteGoal(ctx context.Context, id int64) error {
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		return err
	}
	s.log.WithField("goal_id", id).Info("Goal deleted")
	return nil
}

// Affordability simulates a new recurring monthly expense against the
// average spend of the last complete months
func (s *Service) Affordability(ctx context.Context, req models.AffordabilityRequest) (*models.AffordabilityResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	settings, err := s.store.GetOrCreateSettings(ctx)
	if err != nil {
		return nil, err
	}
	today := calendar.Civil(s.clock())

	txns, err := s.store.FetchTransactions(ctx, today.AddDate(0, 0, -analytics.SpendLookbackDays), today)
	if err != nil {
		return nil, fmt.Errorf("failed to load spend history: %w", err)
	}
	avgSpend := analytics.AverageMonthlySpend(txns, today, settings.IgnoredCategories, settings.IncomeCategories)

	avgSalary := decimal.Zero
	if settings.BudgetType == models.BudgetPercentage {
		end := calendar.Date(today.Year(), today.Month(), 1).AddDate(0, 0, -1)
		income, err := s.store.FetchTransactions(ctx, end.AddDate(0, 0, -analytics.SalaryLookbackDays), end)
		if err != nil {
			return nil, fmt.Errorf("failed to load salary history: %w", err)
		}
		avgSalary = analytics.AverageMonthlyIncome(income, settings.IncomeCategories)
	}

	r := analytics.Affordability(*settings, avgSpend, avgSalary, req.MonthlyExpense)
	s.log.WithFields(logrus.Fields{
		"monthly_expense": req.MonthlyExpense,
		"can_afford":      r.CanAfford,
	}).Debug("Affordability simulated")
	return r, nil
}
