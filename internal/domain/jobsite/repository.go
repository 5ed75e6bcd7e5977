package jobsite

import "context"

// JobSiteRepository defines data access for job site windows. Windows are
// created and edited by job administration; the pipeline only reads them.
type JobSiteRepository interface {
	// GetAll retrieves every configured window.
	GetAll(ctx context.Context) ([]JobSiteWindow, error)

	// GetByJobID retrieves the window for a single job.
	GetByJobID(ctx context.Context, jobID string) (JobSiteWindow, error)

	// Create stores a new window.
	Create(ctx context.Context, window JobSiteWindow) (JobSiteWindow, error)
}
