package jobsite

import (
	"time"

	"github.com/groundworks-ops/fleetrecon-go/internal/pkg/validator"
)

type CreateJobSiteRequest struct {
	JobID        string   `json:"job_id"`
	Name         string   `json:"name"`
	StartTime    string   `json:"start_time"` // HH:MM
	EndTime      string   `json:"end_time"`   // HH:MM
	Weekdays     []int    `json:"weekdays"`   // 0=Sunday .. 6=Saturday
	GraceMinutes int      `json:"grace_minutes"`
	Geofence     Geofence `json:"geofence"`
}

func (r *CreateJobSiteRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.JobID) {
		errs = append(errs, validator.ValidationError{
			Field:   "job_id",
			Message: "job_id is required",
		})
	}

	if !validator.IsValidClock(r.StartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time must be in HH:MM format",
		})
	}

	if !validator.IsValidClock(r.EndTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be in HH:MM format",
		})
	}

	for _, wd := range r.Weekdays {
		if wd < 0 || wd > 6 {
			errs = append(errs, validator.ValidationError{
				Field:   "weekdays",
				Message: "weekdays must be between 0 (Sunday) and 6 (Saturday)",
			})
			break
		}
	}

	if r.GraceMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "grace_minutes",
			Message: "grace_minutes must not be negative",
		})
	}

	if err := ValidateGeofence(r.Geofence); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "geofence",
			Message: err.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ValidateGeofence accepts an empty geofence (binding-only sites) but
// rejects half-defined circles, non-positive radii and degenerate polygons.
func ValidateGeofence(g Geofence) error {
	circleFields := 0
	if g.CenterLatitude != nil {
		circleFields++
	}
	if g.CenterLongitude != nil {
		circleFields++
	}
	if g.RadiusMeters != nil {
		circleFields++
	}
	if circleFields != 0 && circleFields != 3 {
		return ErrInvalidGeofence
	}
	if g.RadiusMeters != nil && *g.RadiusMeters <= 0 {
		return ErrInvalidGeofence
	}
	if g.CenterLatitude != nil && (*g.CenterLatitude < -90 || *g.CenterLatitude > 90) {
		return ErrInvalidGeofence
	}
	if g.CenterLongitude != nil && (*g.CenterLongitude < -180 || *g.CenterLongitude > 180) {
		return ErrInvalidGeofence
	}
	if n := len(g.Polygon); n > 0 && n < 3 {
		return ErrInvalidGeofence
	}
	return nil
}

// ToWindow converts a validated request into the domain entity.
func (r *CreateJobSiteRequest) ToWindow() JobSiteWindow {
	weekdays := make([]time.Weekday, 0, len(r.Weekdays))
	for _, wd := range r.Weekdays {
		weekdays = append(weekdays, time.Weekday(wd))
	}
	return JobSiteWindow{
		JobID:        r.JobID,
		Name:         r.Name,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Weekdays:     weekdays,
		GraceMinutes: r.GraceMinutes,
		Geofence:     r.Geofence,
	}
}

type JobSiteResponse struct {
	ID           string   `json:"id"`
	JobID        string   `json:"job_id"`
	Name         string   `json:"name,omitempty"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	Weekdays     []int    `json:"weekdays"`
	GraceMinutes int      `json:"grace_minutes"`
	Geofence     Geofence `json:"geofence"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// ToResponse maps the entity into its transport shape.
func ToResponse(w JobSiteWindow) JobSiteResponse {
	weekdays := make([]int, 0, len(w.Weekdays))
	for _, wd := range w.Weekdays {
		weekdays = append(weekdays, int(wd))
	}
	return JobSiteResponse{
		ID:           w.ID,
		JobID:        w.JobID,
		Name:         w.Name,
		StartTime:    w.StartTime,
		EndTime:      w.EndTime,
		Weekdays:     weekdays,
		GraceMinutes: w.GraceMinutes,
		Geofence:     w.Geofence,
		CreatedAt:    w.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    w.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
