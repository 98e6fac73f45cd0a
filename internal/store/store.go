// Package store persists batch run history: one row per run plus one
// row per produced output record. It is bookkeeping around the
// pipeline, not part of it; processing works the same with no store.
package store

import (
	"context"

	"github.com/sells-group/analyst-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for run history.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, inputPath, outputPath string) (*model.Run, error)
	FinishRun(ctx context.Context, runID string, status model.RunStatus, summary *model.RunSummary) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Records
	SaveRecord(ctx context.Context, runID string, rec model.OutputRecord) error
	ListRecords(ctx context.Context, runID string) ([]model.OutputRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
