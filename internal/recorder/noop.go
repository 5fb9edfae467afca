package recorder

import "github.com/Dan9191/finance-tracker/internal/models"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSnapshot(_ *models.Snapshot) error { return nil }

func (n *NoopRecorder) Snapshots(_ int) ([]models.Snapshot, error) { return nil, nil }

func (n *NoopRecorder) Close() error { return nil }
