package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/run"
	"github.com/groundworks-ops/fleetrecon-go/internal/handler/http/response"
)

type RunHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type RunHandlerImpl struct {
	runService run.RunService
}

func NewRunHandler(runService run.RunService) RunHandler {
	return &RunHandlerImpl{
		runService: runService,
	}
}

// Submit accepts a batch of raw time records plus usage records and runs the
// full reconciliation pipeline over them.
func (h *RunHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req run.SubmitRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.runService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Reconciliation run completed", result)
}

func (h *RunHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if runID == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	result, err := h.runService.Get(r.Context(), runID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *RunHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			response.BadRequest(w, "limit must be between 1 and 100", nil)
			return
		}
		limit = parsed
	}

	result, err := h.runService.List(r.Context(), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
