package record

import (
	"time"
)

// Sentinel values used when label parsing cannot recover a field.
// Downstream code can rely on these instead of checking for empty strings.
const (
	UnknownAsset    = "UNKNOWN"
	UnknownDriver   = "UNKNOWN"
	UnknownDivision = "Unknown"
)

// RawRecord is one row of input exactly as handed over by the telematics
// export or manual upload collaborators. Nothing about it is guaranteed;
// any field may be empty or garbled.
type RawRecord struct {
	ID         string
	Date       time.Time
	JobID      string
	AssetLabel string
	TimeStart  string
	TimeStop   string

	// Optional GPS fix reported alongside the row. Manual payroll sheets
	// never carry one.
	Latitude  *float64
	Longitude *float64
}

// ParsedIdentity is derived from an asset label. It is always fully
// populated: missing substructure degrades to the sentinel constants above,
// and a missing employee ID degrades to nil (never an empty string).
type ParsedIdentity struct {
	AssetID    string
	DriverName string
	EmployeeID *string
	Division   string
}

// NormalizedShift carries absolute start/stop timestamps on the correct
// calendar day after day-crossing resolution. StopAt is never before StartAt.
type NormalizedShift struct {
	EmployeeID *string
	AssetID    string
	Division   string
	JobID      string
	Date       time.Time
	StartAt    time.Time
	StopAt     time.Time
	DayCrossed bool

	Latitude  *float64
	Longitude *float64
}

// Duration returns the shift length.
func (s NormalizedShift) Duration() time.Duration {
	return s.StopAt.Sub(s.StartAt)
}
