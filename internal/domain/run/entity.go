package run

import (
	"time"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/attendance"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/billing"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/validation"
)

// Run is one completed reconciliation batch: the classified attendance
// records, the billing allocation line items, and everything the validation
// reporter observed along the way.
type Run struct {
	ID          string
	StartedAt   time.Time
	CompletedAt time.Time
	Summary     validation.RunSummary
	Attendance  []attendance.AttendanceRecord
	Allocations []billing.AllocationLineItem
	Issues      []validation.Issue
}
