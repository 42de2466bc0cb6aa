package datetime

import (
	"strings"
	"time"
)

// Canonical unit codes whose durations are written after the "T" marker.
const (
	CodeSecond = "S"
	CodeMinute = "M"
	CodeHour   = "H"

	CodeDay   = "D"
	CodeWeek  = "W"
	CodeMonth = "MON"
	CodeYear  = "Y"
)

// timexLayout renders resolved instants.
const timexLayout = "2006-01-02T15:04:05"

// TimexPresentRef is the encoding of "now".
const TimexPresentRef = "PRESENT_REF"

// IsLessThanDay reports whether code is a sub-day unit.
func IsLessThanDay(code string) bool {
	return code == CodeSecond || code == CodeMinute || code == CodeHour
}

// DurationTimex composes the duration encoding: "P", then "T" for sub-day
// units, then the numeral text unchanged, then the first letter of the code.
// 5 hours is "PT5H", 2 days "P2D", half a year "P0.5Y".
func DurationTimex(numText, code string) string {
	var b strings.Builder
	b.WriteString("P")
	if IsLessThanDay(code) {
		b.WriteString("T")
	}
	b.WriteString(numText)
	b.WriteByte(code[0])
	return b.String()
}

// InstantTimex renders a resolved instant.
func InstantTimex(t time.Time) string {
	return t.Format(timexLayout)
}
