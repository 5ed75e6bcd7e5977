package jobsite

import (
	"fmt"
	"time"

	"github.com/groundworks-ops/fleetrecon-go/internal/pkg/geo"
)

// Point is a single geofence vertex.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geofence is the spatial boundary of a job site. A site may define a
// circle (center + radius), a polygon, or both; containment in either
// counts as on site.
type Geofence struct {
	CenterLatitude  *float64 `json:"center_latitude,omitempty"`
	CenterLongitude *float64 `json:"center_longitude,omitempty"`
	RadiusMeters    *float64 `json:"radius_meters,omitempty"`
	Polygon         []Point  `json:"polygon,omitempty"`
}

// Empty reports whether the geofence defines no usable boundary at all.
func (g Geofence) Empty() bool {
	return !g.hasCircle() && len(g.Polygon) < 3
}

func (g Geofence) hasCircle() bool {
	return g.CenterLatitude != nil && g.CenterLongitude != nil && g.RadiusMeters != nil
}

// Contains reports whether the point falls inside the geofence.
func (g Geofence) Contains(lat, lon float64) bool {
	if g.hasCircle() {
		if geo.HaversineDistance(lat, lon, *g.CenterLatitude, *g.CenterLongitude) <= *g.RadiusMeters {
			return true
		}
	}
	if len(g.Polygon) >= 3 {
		poly := make([][2]float64, len(g.Polygon))
		for i, p := range g.Polygon {
			poly[i] = [2]float64{p.Latitude, p.Longitude}
		}
		return geo.InPolygon(lat, lon, poly)
	}
	return false
}

// JobSiteWindow is the configured working-hour window and geofence for a
// job site. It is owned by job administration and read-only to the
// classification pipeline.
type JobSiteWindow struct {
	ID           string
	JobID        string
	Name         string
	StartTime    string // "HH:MM", local to the site
	EndTime      string
	Weekdays     []time.Weekday
	GraceMinutes int
	Geofence     Geofence
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidOn reports whether the window applies on the given weekday. A window
// with no weekdays configured applies every day.
func (w JobSiteWindow) ValidOn(d time.Weekday) bool {
	if len(w.Weekdays) == 0 {
		return true
	}
	for _, wd := range w.Weekdays {
		if wd == d {
			return true
		}
	}
	return false
}

// ExpectedBounds resolves the window's time-of-day bounds onto a concrete
// calendar day. An end time at or before the start time means the window
// ends on the following day.
func (w JobSiteWindow) ExpectedBounds(date time.Time) (start, end time.Time, err error) {
	sh, sm, err := parseClock(w.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start time %q", ErrInvalidWindow, w.StartTime)
	}
	eh, em, err := parseClock(w.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end time %q", ErrInvalidWindow, w.EndTime)
	}
	start = time.Date(date.Year(), date.Month(), date.Day(), sh, sm, 0, 0, date.Location())
	end = time.Date(date.Year(), date.Month(), date.Day(), eh, em, 0, 0, date.Location())
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

func parseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
