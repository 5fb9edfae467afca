package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/Dan9191/finance-tracker/internal/models"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteRecorder persists report snapshots to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logrus.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *logrus.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	log.Infof("SQLite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS report_snapshots (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp           INTEGER NOT NULL,
			cycle_start         TEXT NOT NULL,
			cycle_end           TEXT NOT NULL,
			days_passed         INTEGER,
			total_budget        REAL,
			total_spend         REAL,
			budget_remaining    REAL,
			safe_daily_spend    REAL,
			projected_spend     REAL,
			burn_rate_status    TEXT,
			budget_used_percent REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON report_snapshots(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_cycle ON report_snapshots(cycle_start)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSnapshot(snap *models.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO report_snapshots
		(timestamp, cycle_start, cycle_end, days_passed, total_budget, total_spend,
		 budget_remaining, safe_daily_spend, projected_spend, burn_rate_status, budget_used_percent)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		snap.TakenAt.Unix(), snap.CycleStart.Format(dateLayout), snap.CycleEnd.Format(dateLayout),
		snap.DaysPassed, snap.TotalBudget, snap.TotalSpend,
		snap.BudgetRemaining, snap.SafeDailySpend, snap.ProjectedSpend,
		snap.BurnRateStatus, snap.BudgetUsedPercent,
	)
	if err != nil {
		return fmt.Errorf("failed to record snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) Snapshots(limit int) ([]models.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT timestamp, cycle_start, cycle_end, days_passed, total_budget, total_spend,
		budget_remaining, safe_daily_spend, projected_spend, burn_rate_status, budget_used_percent
		FROM report_snapshots
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var out []models.Snapshot
	for rows.Next() {
		var (
			s          models.Snapshot
			ts         int64
			start, end string
		)
		if err := rows.Scan(&ts, &start, &end, &s.DaysPassed, &s.TotalBudget, &s.TotalSpend,
			&s.BudgetRemaining, &s.SafeDailySpend, &s.ProjectedSpend, &s.BurnRateStatus, &s.BudgetUsedPercent); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s.TakenAt = time.Unix(ts, 0).UTC()
		if s.CycleStart, err = time.Parse(dateLayout, start); err != nil {
			return nil, fmt.Errorf("failed to parse cycle start %q: %w", start, err)
		}
		if s.CycleEnd, err = time.Parse(dateLayout, end); err != nil {
			return nil, fmt.Errorf("failed to parse cycle end %q: %w", end, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("Closing SQLite recorder")
	return r.db.Close()
}
