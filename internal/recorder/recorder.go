package recorder

import "github.com/Dan9191/finance-tracker/internal/models"

// Recorder persists daily report snapshots for later analysis.
type Recorder interface {
	RecordSnapshot(snap *models.Snapshot) error
	// Snapshots returns up to limit snapshots, newest first.
	Snapshots(limit int) ([]models.Snapshot, error)
	Close() error
}
