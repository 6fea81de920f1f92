// Package daterange resolves period names into calendar-date bounds.
package daterange

import (
	"fmt"
	"time"
)

// Layout is the plain calendar date format stored on tasks.
const Layout = "2006-01-02"

// Epoch is the lower bound used for unbounded ranges.
const Epoch = "2020-01-01"

// Range is an inclusive pair of YYYY-MM-DD dates. An empty To means no upper bound.
type Range struct {
	From string `json:"from"`
	To   string `json:"to,omitempty"`
}

const (
	KindToday  = "today"
	KindWeek   = "week"
	KindMonth  = "month"
	KindAll    = "all"
	KindCustom = "custom"
)

// Today returns the calendar date of now in now's own location.
func Today(now time.Time) string {
	return now.Format(Layout)
}

// DaysAgo returns the calendar date n days before now, in now's location.
func DaysAgo(now time.Time, n int) string {
	return now.AddDate(0, 0, -n).Format(Layout)
}

// Resolve maps a period kind onto a Range. now must already be expressed in
// the caller's zone (see In), otherwise boundary days shift near midnight.
// Unknown kinds resolve to the unbounded range.
func Resolve(kind, start, end string, now time.Time) (Range, error) {
	switch kind {
	case KindToday:
		return Range{From: Today(now)}, nil
	case KindWeek:
		return Range{From: DaysAgo(now, 7)}, nil
	case KindMonth:
		return Range{From: DaysAgo(now, 30)}, nil
	case KindCustom:
		if start == "" || end == "" {
			return Range{}, fmt.Errorf("custom range requires both start and end dates")
		}
		if err := Validate(start); err != nil {
			return Range{}, err
		}
		if err := Validate(end); err != nil {
			return Range{}, err
		}
		if start > end {
			return Range{}, fmt.Errorf("start date %s is after end date %s", start, end)
		}
		return Range{From: start, To: end}, nil
	default:
		return Range{From: Epoch}, nil
	}
}

// Validate checks that s is a real YYYY-MM-DD date.
func Validate(s string) error {
	if _, err := time.Parse(Layout, s); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return nil
}

// In returns now shifted into the caller's zone. offsetMinutes is minutes east
// of UTC; nil falls back to the given location.
func In(now time.Time, offsetMinutes *int, fallback *time.Location) time.Time {
	if offsetMinutes != nil {
		return now.In(time.FixedZone("caller", *offsetMinutes*60))
	}
	if fallback != nil {
		return now.In(fallback)
	}
	return now
}
