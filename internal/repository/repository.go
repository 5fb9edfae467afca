package repository

import (
	"context"
	"database/sql"
	"fmt"
)

const dateLayout = "2006-01-02"

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the tables the service reads from when they are missing
func (r *Repository) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id    SERIAL PRIMARY KEY,
			name  VARCHAR(100) NOT NULL UNIQUE,
			color VARCHAR(20)
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id            SERIAL PRIMARY KEY,
			amount        DECIMAL(12, 2) NOT NULL,
			payment_type  VARCHAR(10) NOT NULL,
			txn_date      DATE NOT NULL,
			merchant_name VARCHAR(255),
			payment_mode  VARCHAR(50),
			bank_name     VARCHAR(100),
			category_id   INTEGER REFERENCES categories(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_txn_date ON transactions(txn_date)`,
		`CREATE TABLE IF NOT EXISTS user_settings (
			id                 SERIAL PRIMARY KEY,
			salary_day         INTEGER NOT NULL DEFAULT 1,
			budget_type        VARCHAR(20) NOT NULL DEFAULT 'PERCENTAGE',
			budget_value       DOUBLE PRECISION NOT NULL DEFAULT 40,
			ignored_categories TEXT NOT NULL DEFAULT '',
			income_categories  TEXT NOT NULL DEFAULT 'Salary,Income',
			view_cycle_offset  INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS monthly_goals (
			id          SERIAL PRIMARY KEY,
			category_id INTEGER NOT NULL REFERENCES categories(id),
			cap_amount  DECIMAL(12, 2) NOT NULL,
			is_active   BOOLEAN NOT NULL DEFAULT TRUE,
			created_at  TIMESTAMP NOT NULL DEFAULT now(),
			created_via VARCHAR(20) NOT NULL DEFAULT 'manual'
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}
