package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dan9191/finance-tracker/internal/models"
)

const goalColumns = `
	g.id, g.category_id, g.cap_amount, g.is_active, g.created_at, g.created_via,
	c.name, COALESCE(c.color, '')`

// ActiveGoals returns the active goals with their category, newest first
func (r *Repository) ActiveGoals(ctx context.Context) ([]models.Goal, error) {
	query := `SELECT` + goalColumns + `
		FROM monthly_goals g
		JOIN categories c ON c.id = g.category_id
		WHERE g.is_active
		ORDER BY g.created_at DESC, g.id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goals: %w", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.CategoryID, &g.CapAmount, &g.IsActive, &g.CreatedAt, &g.CreatedVia,
			&g.CategoryName, &g.CategoryColor); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}
	return goals, nil
}

// CreateGoal stores g as the only active goal of its category. The id,
// creation time and category fields are filled in.
func (r *Repository) CreateGoal(ctx context.Context, g *models.Goal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE monthly_goals SET is_active = FALSE WHERE category_id = $1 AND is_active`, g.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to deactivate goals: %w", err)
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO monthly_goals (category_id, cap_amount, is_active, created_via)
		VALUES ($1, $2, TRUE, $3)
		RETURNING id, created_at`, g.CategoryID, g.CapAmount, g.CreatedVia).
		Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	err = tx.QueryRowContext(ctx, `SELECT name, COALESCE(color, '') FROM categories WHERE id = $1`, g.CategoryID).
		Scan(&g.CategoryName, &g.CategoryColor)
	if err != nil {
		return fmt.Errorf("failed to find category %d: %w", g.CategoryID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit goal: %w", err)
	}
	g.IsActive = true
	return nil
}

// UpdateGoal applies the non-nil fields of u to goal id
func (r *Repository) UpdateGoal(ctx context.Context, id int64, u models.GoalUpdate) (*models.Goal, error) {
	var capAmount, active any
	if u.CapAmount != nil {
		capAmount = *u.CapAmount
	}
	if u.IsActive != nil {
		active = *u.IsActive
	}
	query := `
		WITH g AS (
			UPDATE monthly_goals
			SET cap_amount = COALESCE($1, cap_amount), is_active = COALESCE($2, is_active)
			WHERE id = $3
			RETURNING *
		)
		SELECT` + goalColumns + `
		FROM g JOIN categories c ON c.id = g.category_id`
	var g models.Goal
	err := r.db.QueryRowContext(ctx, query, capAmount, active, id).
		Scan(&g.ID, &g.CategoryID, &g.CapAmount, &g.IsActive, &g.CreatedAt, &g.CreatedVia,
			&g.CategoryName, &g.CategoryColor)
	if err == sql.ErrNoRows {
		return nil, models.ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return &g, nil
}

// DeleteGoal removes goal id
func (r *Repository) DeleteGoal(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM monthly_goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if n == 0 {
		return models.ErrGoalNotFound
	}
	return nil
}
