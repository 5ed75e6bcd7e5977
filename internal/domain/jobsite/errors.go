package jobsite

import "errors"

// Job site domain errors
var (
	ErrJobSiteNotFound = errors.New("job site window not found")
	ErrJobSiteExists   = errors.New("a window for this job already exists")
	ErrInvalidGeofence = errors.New("geofence definition is invalid")
	ErrInvalidWindow   = errors.New("working-hour window definition is invalid")
)
