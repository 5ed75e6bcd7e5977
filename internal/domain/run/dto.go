package run

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/attendance"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/billing"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/record"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/validation"
	"github.com/groundworks-ops/fleetrecon-go/internal/pkg/validator"
)

// RawRecordInput is one time-sheet row as submitted by the upload
// collaborator. Label and time texts are passed through untouched; the
// pipeline is responsible for surviving whatever is in them.
type RawRecordInput struct {
	Ref        string   `json:"ref,omitempty"`
	Date       string   `json:"date"` // YYYY-MM-DD
	JobID      string   `json:"job_id"`
	AssetLabel string   `json:"asset_label"`
	TimeStart  string   `json:"time_start"`
	TimeStop   string   `json:"time_stop"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// UsageRecordInput is one billable usage entry submitted with the batch.
type UsageRecordInput struct {
	Ref           string          `json:"ref"`
	Date          string          `json:"date"` // YYYY-MM-DD
	JobID         string          `json:"job_id"`
	AssetID       string          `json:"asset_id"`
	AssetCategory string          `json:"asset_category,omitempty"`
	CostCode      string          `json:"cost_code"`
	Amount        decimal.Decimal `json:"amount"`
}

type SubmitRunRequest struct {
	Records []RawRecordInput   `json:"records"`
	Usage   []UsageRecordInput `json:"usage,omitempty"`
}

// Validate checks only the envelope. Individual record content is
// deliberately not validated here: malformed rows must flow through the
// pipeline and come back as issues, not reject the batch.
func (r *SubmitRunRequest) Validate() error {
	var errs validator.ValidationErrors

	for i, rec := range r.Records {
		if _, ok := validator.IsValidDate(rec.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "records",
				Message: "record " + validator.Itoa(i) + ": date must be in YYYY-MM-DD format",
			})
		}
	}

	for i, u := range r.Usage {
		if validator.IsEmpty(u.Ref) {
			errs = append(errs, validator.ValidationError{
				Field:   "usage",
				Message: "usage " + validator.Itoa(i) + ": ref is required",
			})
		}
		if _, ok := validator.IsValidDate(u.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "usage",
				Message: "usage " + validator.Itoa(i) + ": date must be in YYYY-MM-DD format",
			})
		}
		if validator.IsEmpty(u.CostCode) {
			errs = append(errs, validator.ValidationError{
				Field:   "usage",
				Message: "usage " + validator.Itoa(i) + ": cost_code is required",
			})
		}
		if u.Amount.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   "usage",
				Message: "usage " + validator.Itoa(i) + ": amount must not be negative",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToRawRecord converts an input row into the domain shape. The ref falls
// back to a positional one so issues can always point at a row.
func (r RawRecordInput) ToRawRecord(index int) record.RawRecord {
	ref := r.Ref
	if ref == "" {
		ref = "row-" + validator.Itoa(index+1)
	}
	date, _ := time.Parse("2006-01-02", r.Date)
	return record.RawRecord{
		ID:         ref,
		Date:       date,
		JobID:      r.JobID,
		AssetLabel: r.AssetLabel,
		TimeStart:  r.TimeStart,
		TimeStop:   r.TimeStop,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
	}
}

// ToUsageRecord converts a usage input into the domain shape.
func (u UsageRecordInput) ToUsageRecord() billing.UsageRecord {
	date, _ := time.Parse("2006-01-02", u.Date)
	return billing.UsageRecord{
		ID:            u.Ref,
		JobID:         u.JobID,
		AssetID:       u.AssetID,
		AssetCategory: u.AssetCategory,
		CostCode:      u.CostCode,
		Amount:        u.Amount,
		Date:          date,
	}
}

type RunResponse struct {
	ID          string                               `json:"id"`
	StartedAt   string                               `json:"started_at"`
	CompletedAt string                               `json:"completed_at"`
	Summary     validation.RunSummary                `json:"summary"`
	Attendance  []attendance.AttendanceResponse      `json:"attendance"`
	Allocations []billing.AllocationLineItemResponse `json:"allocations"`
	Issues      []validation.Issue                   `json:"issues"`
}

type RunListItem struct {
	ID          string                `json:"id"`
	StartedAt   string                `json:"started_at"`
	CompletedAt string                `json:"completed_at"`
	Summary     validation.RunSummary `json:"summary"`
}

// ToResponse maps a run into its transport shape.
func ToResponse(r Run) RunResponse {
	attendanceResponses := make([]attendance.AttendanceResponse, 0, len(r.Attendance))
	for _, rec := range r.Attendance {
		attendanceResponses = append(attendanceResponses, attendance.ToResponse(rec))
	}
	allocationResponses := make([]billing.AllocationLineItemResponse, 0, len(r.Allocations))
	for _, item := range r.Allocations {
		allocationResponses = append(allocationResponses, billing.ToLineItemResponse(item))
	}
	issues := r.Issues
	if issues == nil {
		issues = []validation.Issue{}
	}
	return RunResponse{
		ID:          r.ID,
		StartedAt:   r.StartedAt.Format("2006-01-02 15:04:05"),
		CompletedAt: r.CompletedAt.Format("2006-01-02 15:04:05"),
		Summary:     r.Summary,
		Attendance:  attendanceResponses,
		Allocations: allocationResponses,
		Issues:      issues,
	}
}

// ToListItem maps a run into its list shape (no children).
func ToListItem(r Run) RunListItem {
	return RunListItem{
		ID:          r.ID,
		StartedAt:   r.StartedAt.Format("2006-01-02 15:04:05"),
		CompletedAt: r.CompletedAt.Format("2006-01-02 15:04:05"),
		Summary:     r.Summary,
	}
}
