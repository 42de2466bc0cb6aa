// Package timezone resolves the timezone and reference instant that anchor
// relative expressions.
package timezone

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// referenceLayouts are accepted for explicit reference instants, most
// specific first. Layouts without an offset are read in the caller's zone.
var referenceLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimezone parses an IANA timezone identifier (e.g., "Asia/Shanghai").
// If the timezone is invalid, returns UTC and an error.
func ParseTimezone(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" || tz == "UTC" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC, errors.Wrapf(err, "invalid timezone %q", tz)
	}
	return loc, nil
}

// IsValidTimezone checks if a timezone identifier is valid.
func IsValidTimezone(tz string) bool {
	_, err := ParseTimezone(tz)
	return err == nil
}

// ParseReference reads an explicit reference instant. Empty input returns the
// zero time, which recognizers treat as now.
func ParseReference(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range referenceLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("invalid reference time %q", s)
}

// FromUnix converts a Unix timestamp to the given zone, UTC when nil.
func FromUnix(ts int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(ts, 0).In(loc)
}
