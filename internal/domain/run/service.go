package run

import "context"

// RunService defines the reconciliation pipeline entry points.
type RunService interface {
	// Submit processes one batch of raw time records and usage records and
	// persists the completed run. Per-record failures become issues on the
	// run; Submit only fails on envelope validation or storage errors.
	Submit(ctx context.Context, req SubmitRunRequest) (RunResponse, error)

	// Get retrieves a completed run with all children.
	Get(ctx context.Context, id string) (RunResponse, error)

	// List retrieves recent run summaries, newest first.
	List(ctx context.Context, limit int) ([]RunListItem, error)
}
