package attendance

import "time"

type AttendanceResponse struct {
	ID            string  `json:"id"`
	RecordRef     string  `json:"record_ref"`
	EmployeeID    *string `json:"employee_id,omitempty"`
	DriverName    string  `json:"driver_name"`
	AssetID       string  `json:"asset_id"`
	Division      string  `json:"division"`
	JobID         string  `json:"job_id"`
	Date          string  `json:"date"`
	Status        string  `json:"status"`
	ExpectedStart *string `json:"expected_start,omitempty"`
	ExpectedEnd   *string `json:"expected_end,omitempty"`
	ActualStart   *string `json:"actual_start,omitempty"`
	ActualEnd     *string `json:"actual_end,omitempty"`
	DayCrossed    bool    `json:"day_crossed"`
	Notes         string  `json:"notes,omitempty"`
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

// ToResponse maps the entity into its transport shape.
func ToResponse(rec AttendanceRecord) AttendanceResponse {
	return AttendanceResponse{
		ID:            rec.ID,
		RecordRef:     rec.RecordRef,
		EmployeeID:    rec.EmployeeID,
		DriverName:    rec.DriverName,
		AssetID:       rec.AssetID,
		Division:      rec.Division,
		JobID:         rec.JobID,
		Date:          rec.Date.Format("2006-01-02"),
		Status:        rec.Status,
		ExpectedStart: timePtrToString(rec.ExpectedStart),
		ExpectedEnd:   timePtrToString(rec.ExpectedEnd),
		ActualStart:   timePtrToString(rec.ActualStart),
		ActualEnd:     timePtrToString(rec.ActualEnd),
		DayCrossed:    rec.DayCrossed,
		Notes:         rec.Notes,
	}
}
