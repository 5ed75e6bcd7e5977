package attendance

import (
	"time"
)

// Attendance status flags, listed in classification precedence order.
// Presence on site is the strongest signal: a shift outside the geofence is
// not_on_job regardless of its times.
const (
	StatusNotOnJob  = "not_on_job"
	StatusLateStart = "late_start"
	StatusEarlyEnd  = "early_end"
	StatusOnTime    = "on_time"
)

// Statuses lists every valid status flag.
var Statuses = []string{StatusNotOnJob, StatusLateStart, StatusEarlyEnd, StatusOnTime}

// AttendanceRecord is the classification outcome for one shift. Records are
// immutable once emitted for a given input batch.
type AttendanceRecord struct {
	ID            string
	RunID         string
	RecordRef     string
	EmployeeID    *string
	DriverName    string
	AssetID       string
	Division      string
	JobID         string
	Date          time.Time
	Status        string
	ExpectedStart *time.Time
	ExpectedEnd   *time.Time
	ActualStart   *time.Time
	ActualEnd     *time.Time
	DayCrossed    bool
	Notes         string
	CreatedAt     time.Time
}
