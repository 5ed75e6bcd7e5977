package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/run"
	"github.com/groundworks-ops/fleetrecon-go/internal/pkg/validator"
)

type stubRunService struct {
	submitResp run.RunResponse
	submitErr  error
	getResp    run.RunResponse
	getErr     error
	listResp   []run.RunListItem
	listErr    error
}

func (s *stubRunService) Submit(ctx context.Context, req run.SubmitRunRequest) (run.RunResponse, error) {
	return s.submitResp, s.submitErr
}

func (s *stubRunService) Get(ctx context.Context, id string) (run.RunResponse, error) {
	return s.getResp, s.getErr
}

func (s *stubRunService) List(ctx context.Context, limit int) ([]run.RunListItem, error) {
	return s.listResp, s.listErr
}

func routerWith(svc run.RunService) *chi.Mux {
	r := chi.NewRouter()
	h := NewRunHandler(svc)
	r.Post("/runs", h.Submit)
	r.Get("/runs", h.List)
	r.Get("/runs/{runID}", h.Get)
	return r
}

func TestRunHandler_Submit_Success(t *testing.T) {
	t.Parallel()
	router := routerWith(&stubRunService{submitResp: run.RunResponse{ID: "run-1"}})

	body := `{"records":[{"date":"2025-03-10","job_id":"JOB-7","asset_label":"ET-32 (EMP1) [DFW]","time_start":"07:00","time_stop":"15:00"}]}`
	req := httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "run-1", resp.Data.ID)
}

func TestRunHandler_Submit_InvalidJSON(t *testing.T) {
	t.Parallel()
	router := routerWith(&stubRunService{})

	req := httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunHandler_Submit_ValidationErrors(t *testing.T) {
	t.Parallel()
	router := routerWith(&stubRunService{
		submitErr: validator.ValidationErrors{
			{Field: "records", Message: "batch must contain at least one record or usage entry"},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader(`{"records":[]}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "records")
}

func TestRunHandler_Submit_EmptyBatch(t *testing.T) {
	t.Parallel()
	router := routerWith(&stubRunService{submitErr: run.ErrEmptyBatch})

	req := httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunHandler_Get_NotFound(t *testing.T) {
	t.Parallel()
	router := routerWith(&stubRunService{getErr: run.ErrRunNotFound})

	req := httptest.NewRequest(http.MethodGet, "/runs/missing", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunHandler_List_BadLimit(t *testing.T) {
	t.Parallel()
	router := routerWith(&stubRunService{})

	req := httptest.NewRequest(http.MethodGet, "/runs?limit=9999", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
