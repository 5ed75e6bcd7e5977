package jobsite

import (
	"context"
	"fmt"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/jobsite"
)

type JobSiteServiceImpl struct {
	jobSiteRepo jobsite.JobSiteRepository
}

func NewJobSiteService(jobSiteRepo jobsite.JobSiteRepository) jobsite.JobSiteService {
	return &JobSiteServiceImpl{
		jobSiteRepo: jobSiteRepo,
	}
}

// List implements jobsite.JobSiteService.
func (s *JobSiteServiceImpl) List(ctx context.Context) ([]jobsite.JobSiteResponse, error) {
	windows, err := s.jobSiteRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list job site windows: %w", err)
	}

	responses := make([]jobsite.JobSiteResponse, 0, len(windows))
	for _, w := range windows {
		responses = append(responses, jobsite.ToResponse(w))
	}

	return responses, nil
}

// Create implements jobsite.JobSiteService.
func (s *JobSiteServiceImpl) Create(ctx context.Context, req jobsite.CreateJobSiteRequest) (jobsite.JobSiteResponse, error) {
	if err := req.Validate(); err != nil {
		return jobsite.JobSiteResponse{}, err
	}

	created, err := s.jobSiteRepo.Create(ctx, req.ToWindow())
	if err != nil {
		return jobsite.JobSiteResponse{}, fmt.Errorf("failed to create job site window: %w", err)
	}

	return jobsite.ToResponse(created), nil
}
