package response

import (
	"errors"
	"net/http"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/jobsite"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/run"
	"github.com/groundworks-ops/fleetrecon-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Run domain errors
	case errors.Is(err, run.ErrRunNotFound):
		NotFound(w, "Reconciliation run not found")
	case errors.Is(err, run.ErrEmptyBatch):
		BadRequest(w, "Batch contains no records", nil)

	// Job site domain errors
	case errors.Is(err, jobsite.ErrJobSiteNotFound):
		NotFound(w, "Job site window not found")
	case errors.Is(err, jobsite.ErrJobSiteExists):
		Conflict(w, "A window for this job already exists")
	case errors.Is(err, jobsite.ErrInvalidGeofence):
		BadRequest(w, "Geofence definition is invalid", nil)
	case errors.Is(err, jobsite.ErrInvalidWindow):
		BadRequest(w, "Working-hour window definition is invalid", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
