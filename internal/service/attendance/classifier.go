package attendance

import (
	"fmt"
	"time"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/attendance"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/jobsite"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/validation"
	"github.com/groundworks-ops/fleetrecon-go/internal/service/shift"
)

// Classifier compares normalized shifts against job site windows. It is
// pure: windows are passed in per call, never looked up from shared state.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify produces the attendance record for one shift. Decision order,
// first match wins:
//
//  1. shift position outside the job geofence -> not_on_job
//  2. actual start after expected start + grace -> late_start
//  3. actual end before expected end - grace   -> early_end
//  4. otherwise                                -> on_time
//
// Presence on site must not be masked by a time-only classification, which
// is why the geofence check runs first. Grace tolerance comes from the
// window, per job.
func (c *Classifier) Classify(entry shift.Entry, window jobsite.JobSiteWindow) (attendance.AttendanceRecord, []validation.Issue) {
	var issues []validation.Issue

	rec := attendance.AttendanceRecord{
		RecordRef:  entry.RecordRef,
		EmployeeID: entry.Identity.EmployeeID,
		DriverName: entry.Identity.DriverName,
		AssetID:    entry.Identity.AssetID,
		Division:   entry.Identity.Division,
		JobID:      window.JobID,
		Date:       entry.Shift.Date,
		DayCrossed: entry.Shift.DayCrossed,
	}
	actualStart := entry.Shift.StartAt
	actualEnd := entry.Shift.StopAt
	rec.ActualStart = &actualStart
	rec.ActualEnd = &actualEnd

	expectedStart, expectedEnd, err := window.ExpectedBounds(entry.Shift.Date)
	if err != nil {
		// The window came from configuration that failed to parse; treat
		// like an unconfigured job rather than poisoning the whole group.
		issues = append(issues, validation.Issue{
			Severity:  validation.SeverityError,
			RecordRef: entry.RecordRef,
			Code:      validation.CodeUnknownJobSite,
			Message:   fmt.Sprintf("job %s window is invalid: %v", window.JobID, err),
		})
		rec.Status = attendance.StatusNotOnJob
		rec.Notes = "unclassifiable: invalid job site window"
		return rec, issues
	}
	rec.ExpectedStart = &expectedStart
	rec.ExpectedEnd = &expectedEnd

	if !window.ValidOn(entry.Shift.Date.Weekday()) {
		issues = append(issues, validation.Issue{
			Severity:  validation.SeverityWarning,
			RecordRef: entry.RecordRef,
			Code:      validation.CodeShiftOutsideSchedule,
			Message:   fmt.Sprintf("job %s is not scheduled on %s", window.JobID, entry.Shift.Date.Weekday()),
		})
	}

	if !c.onSite(entry.Shift.Latitude, entry.Shift.Longitude, window.Geofence) {
		rec.Status = attendance.StatusNotOnJob
		rec.Notes = "reported position outside job geofence"
		return rec, issues
	}

	grace := time.Duration(window.GraceMinutes) * time.Minute

	if actualStart.After(expectedStart.Add(grace)) {
		rec.Status = attendance.StatusLateStart
		rec.Notes = fmt.Sprintf("started %d min after expected %s",
			int(actualStart.Sub(expectedStart).Minutes()), window.StartTime)
		return rec, issues
	}

	if actualEnd.Before(expectedEnd.Add(-grace)) {
		rec.Status = attendance.StatusEarlyEnd
		rec.Notes = fmt.Sprintf("ended %d min before expected %s",
			int(expectedEnd.Sub(actualEnd).Minutes()), window.EndTime)
		return rec, issues
	}

	rec.Status = attendance.StatusOnTime
	return rec, issues
}

// onSite evaluates geofence containment. Rows without a GPS fix (manual
// sheets) fall back to the job binding itself, as do jobs without a
// configured geofence: absence of evidence is not treated as absence.
func (c *Classifier) onSite(lat, lon *float64, fence jobsite.Geofence) bool {
	if fence.Empty() {
		return true
	}
	if lat == nil || lon == nil {
		return true
	}
	return fence.Contains(*lat, *lon)
}
