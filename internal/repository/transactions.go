package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dan9191/finance-tracker/internal/calendar"
	"github.com/Dan9191/finance-tracker/internal/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const transactionColumns = `
		t.id, t.amount, t.txn_date, t.payment_type,
		COALESCE(c.name, 'Uncategorized'), COALESCE(c.color, ''),
		COALESCE(t.merchant_name, ''), COALESCE(t.payment_mode, ''), COALESCE(t.bank_name, '')`

// FetchTransactions returns every transaction dated within [start, end]
func (r *Repository) FetchTransactions(ctx context.Context, start, end time.Time) ([]models.Transaction, error) {
	query := `
		SELECT` + transactionColumns + `
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.txn_date BETWEEN $1 AND $2
		ORDER BY t.txn_date, t.id`
	rows, err := r.db.QueryContext(ctx, query, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// RecentTransactions returns the latest limit transactions within [start, end], newest first
func (r *Repository) RecentTransactions(ctx context.Context, start, end time.Time, limit int) ([]models.Transaction, error) {
	query := `
		SELECT` + transactionColumns + `
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.txn_date BETWEEN $1 AND $2
		ORDER BY t.txn_date DESC, t.id DESC
		LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, start.Format(dateLayout), end.Format(dateLayout), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// EarliestIncomeCredit returns the date of the first income credit within [from, to]
func (r *Repository) EarliestIncomeCredit(ctx context.Context, from, to time.Time, categories []string) (time.Time, bool, error) {
	query := `
		SELECT t.txn_date
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE UPPER(t.payment_type) = 'CREDIT'
		  AND t.txn_date BETWEEN $1 AND $2
		  AND c.name = ANY($3)
		ORDER BY t.txn_date ASC
		LIMIT 1`
	var date time.Time
	err := r.db.QueryRowContext(ctx, query, from.Format(dateLayout), to.Format(dateLayout), pq.Array(categories)).Scan(&date)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to find income credit: %w", err)
	}
	return calendar.Civil(date), true, nil
}

// LatestIncomeCredit returns the amount of the last income credit within [from, to]
func (r *Repository) LatestIncomeCredit(ctx context.Context, from, to time.Time, categories []string) (decimal.Decimal, bool, error) {
	query := `
		SELECT t.amount
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE UPPER(t.payment_type) = 'CREDIT'
		  AND t.txn_date BETWEEN $1 AND $2
		  AND c.name = ANY($3)
		ORDER BY t.txn_date DESC, t.id DESC
		LIMIT 1`
	var amount decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, from.Format(dateLayout), to.Format(dateLayout), pq.Array(categories)).Scan(&amount)
	if err == sql.ErrNoRows {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to find fallback income: %w", err)
	}
	return amount, true, nil
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var txns []models.Transaction
	for rows.Next() {
		var (
			t  models.Transaction
			pt string
		)
		if err := rows.Scan(&t.ID, &t.Amount, &t.Date, &pt, &t.CategoryName, &t.CategoryColor,
			&t.MerchantName, &t.PaymentMode, &t.BankName); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Date = calendar.Civil(t.Date)
		t.PaymentType = models.ParsePaymentType(pt)
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return txns, nil
}
