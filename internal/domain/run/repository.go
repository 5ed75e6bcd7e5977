package run

import "context"

// RunRepository persists completed runs for the export and dashboard
// collaborators. A run is written once and never mutated afterwards.
type RunRepository interface {
	// Create stores the run together with its attendance records,
	// allocation line items and issues, atomically.
	Create(ctx context.Context, r Run) (Run, error)

	// GetByID retrieves a full run including its children.
	GetByID(ctx context.Context, id string) (Run, error)

	// List retrieves run summaries, newest first.
	List(ctx context.Context, limit int) ([]Run, error)
}
