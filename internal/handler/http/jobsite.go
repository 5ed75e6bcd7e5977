package http

import (
	"encoding/json"
	"net/http"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/jobsite"
	"github.com/groundworks-ops/fleetrecon-go/internal/handler/http/response"
)

type JobSiteHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
}

type JobSiteHandlerImpl struct {
	jobSiteService jobsite.JobSiteService
}

func NewJobSiteHandler(jobSiteService jobsite.JobSiteService) JobSiteHandler {
	return &JobSiteHandlerImpl{
		jobSiteService: jobSiteService,
	}
}

func (h *JobSiteHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	windows, err := h.jobSiteService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, windows)
}

func (h *JobSiteHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req jobsite.CreateJobSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	created, err := h.jobSiteService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Job site window created", created)
}
