package validation

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue codes raised across the pipeline stages.
const (
	CodeUnparseableLabel      = "UNPARSEABLE_LABEL"
	CodeUnknownDriver         = "UNKNOWN_DRIVER"
	CodeMissingEmployeeID     = "MISSING_EMPLOYEE_ID"
	CodeMissingDivision       = "MISSING_DIVISION"
	CodeMalformedTime         = "MALFORMED_TIME"
	CodeAmbiguousOvernight    = "AMBIGUOUS_OVERNIGHT"
	CodeShiftTooLong          = "SHIFT_TOO_LONG"
	CodeOverlappingAssignment = "OVERLAPPING_ASSIGNMENT"
	CodeShiftOutsideSchedule  = "SHIFT_OUTSIDE_SCHEDULE"
	CodeUnknownJobSite        = "UNKNOWN_JOB_SITE"
	CodeInvalidGeofence       = "INVALID_GEOFENCE"
	CodeInvalidAllocationRule = "INVALID_ALLOCATION_RULE"
	CodeDuplicateRule         = "DUPLICATE_RULE"
)

// Issue is a single error or warning observed for a record (or a
// configuration entry) during a run. Issues are accumulated per run and
// never mutated after the run completes.
type Issue struct {
	Severity  string `json:"severity"`
	RecordRef string `json:"record_ref"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// RunSummary is the per-run statistics block surfaced to operators so they
// can triage warnings before trusting the reconciliation output.
type RunSummary struct {
	TotalRecords       int            `json:"total_records"`
	RecordsWithWarning int            `json:"records_with_warning"`
	RecordsWithError   int            `json:"records_with_error"`
	StatusCounts       map[string]int `json:"status_counts"`
}
