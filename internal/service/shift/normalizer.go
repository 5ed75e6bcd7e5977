package shift

import (
	"fmt"
	"strings"
	"time"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/record"
)

// DefaultMaxShift bounds how long a single shift may run before it is
// treated as malformed input.
const DefaultMaxShift = 24 * time.Hour

// Accepted time-of-day layouts. 24-hour first; telematics exports use it.
var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
}

// Explicit next-day markers accepted on the stop time. Day-crossing is only
// applied when one of these is present; an unmarked time reversal is
// flagged, never silently treated as an overnight shift.
var nextDayMarkers = []string{"(+1)", "(NEXT DAY)"}

type Normalizer struct {
	maxShift time.Duration
}

func NewNormalizer(maxShift time.Duration) *Normalizer {
	if maxShift <= 0 {
		maxShift = DefaultMaxShift
	}
	return &Normalizer{maxShift: maxShift}
}

// Normalize parses the start and stop time texts of a record onto absolute
// timestamps for the record's calendar date, resolving explicit day
// crossings. The returned shift still lacks identity fields; the caller
// merges those from the label parser.
func (n *Normalizer) Normalize(date time.Time, startText, stopText string) (record.NormalizedShift, error) {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	startHour, startMinute, err := parseTimeOfDay(startText)
	if err != nil {
		return record.NormalizedShift{}, fmt.Errorf("start time %q: %w", startText, err)
	}

	stopClean, dayCrossed := stripNextDayMarker(stopText)
	stopHour, stopMinute, err := parseTimeOfDay(stopClean)
	if err != nil {
		return record.NormalizedShift{}, fmt.Errorf("stop time %q: %w", stopText, err)
	}

	startAt := startOfDay.Add(time.Duration(startHour)*time.Hour + time.Duration(startMinute)*time.Minute)
	stopAt := startOfDay.Add(time.Duration(stopHour)*time.Hour + time.Duration(stopMinute)*time.Minute)

	if dayCrossed {
		stopAt = stopAt.AddDate(0, 0, 1)
	} else if stopAt.Before(startAt) {
		// Could be an overnight shift, could be a typo. Flag it and let an
		// operator decide; guessing silently misbills overnight work.
		return record.NormalizedShift{}, fmt.Errorf("start %q stop %q: %w", startText, stopText, record.ErrAmbiguousOvernight)
	}

	if stopAt.Sub(startAt) > n.maxShift {
		return record.NormalizedShift{}, fmt.Errorf("duration %s: %w", stopAt.Sub(startAt), record.ErrShiftTooLong)
	}

	return record.NormalizedShift{
		Date:       startOfDay,
		StartAt:    startAt,
		StopAt:     stopAt,
		DayCrossed: dayCrossed,
	}, nil
}

// stripNextDayMarker removes a trailing next-day marker from the stop text,
// reporting whether one was present.
func stripNextDayMarker(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	upper := strings.ToUpper(trimmed)
	for _, marker := range nextDayMarkers {
		if strings.HasSuffix(upper, marker) {
			return strings.TrimSpace(trimmed[:len(trimmed)-len(marker)]), true
		}
	}
	return trimmed, false
}

// parseTimeOfDay accepts both 12-hour ("07:05 AM") and 24-hour ("22:45")
// texts. Case of the meridiem does not matter.
func parseTimeOfDay(text string) (hour, minute int, err error) {
	cleaned := strings.ToUpper(strings.TrimSpace(text))
	if cleaned == "" {
		return 0, 0, record.ErrMalformedTime
	}
	for _, layout := range timeLayouts {
		if t, parseErr := time.Parse(layout, cleaned); parseErr == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, record.ErrMalformedTime
}
