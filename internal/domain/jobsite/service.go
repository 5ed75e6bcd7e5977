package jobsite

import "context"

type JobSiteService interface {
	List(ctx context.Context) ([]JobSiteResponse, error)
	Create(ctx context.Context, req CreateJobSiteRequest) (JobSiteResponse, error)
}
