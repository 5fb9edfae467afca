package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dan9191/finance-tracker/internal/models"
)

// GetOrCreateSettings returns the settings row, inserting the defaults on first access
func (r *Repository) GetOrCreateSettings(ctx context.Context) (*models.Settings, error) {
	s := &models.Settings{}
	var ignored, income string
	query := `
		SELECT id, salary_day, budget_type, budget_value, ignored_categories, income_categories, view_cycle_offset
		FROM user_settings
		ORDER BY id
		LIMIT 1`
	err := r.db.QueryRowContext(ctx, query).
		Scan(&s.ID, &s.SalaryDay, &s.BudgetType, &s.BudgetValue, &ignored, &income, &s.ViewCycleOffset)
	if err == sql.ErrNoRows {
		return r.createDefaultSettings(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find settings: %w", err)
	}
	s.IgnoredCategories = models.SplitCategories(ignored)
	s.IncomeCategories = models.SplitCategories(income)
	return s, nil
}

func (r *Repository) createDefaultSettings(ctx context.Context) (*models.Settings, error) {
	s := models.DefaultSettings()
	query := `
		INSERT INTO user_settings (salary_day, budget_type, budget_value, ignored_categories, income_categories, view_cycle_offset)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, s.SalaryDay, string(s.BudgetType), s.BudgetValue,
		models.JoinCategories(s.IgnoredCategories), models.JoinCategories(s.IncomeCategories), s.ViewCycleOffset).
		Scan(&s.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create settings: %w", err)
	}
	return &s, nil
}

// UpdateSettings overwrites the settings row identified by s.ID
func (r *Repository) UpdateSettings(ctx context.Context, s *models.Settings) error {
	query := `
		UPDATE user_settings
		SET salary_day = $1, budget_type = $2, budget_value = $3,
		    ignored_categories = $4, income_categories = $5, view_cycle_offset = $6
		WHERE id = $7`
	res, err := r.db.ExecContext(ctx, query, s.SalaryDay, string(s.BudgetType), s.BudgetValue,
		models.JoinCategories(s.IgnoredCategories), models.JoinCategories(s.IncomeCategories), s.ViewCycleOffset, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("settings %d not found", s.ID)
	}
	return nil
}
