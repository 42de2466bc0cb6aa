// Package model defines the records shared by every recognizer category:
// candidate spans produced by extractors, resolved values produced by parsers,
// and the merged outcome returned to callers.
//
// All offsets are byte offsets into the input text, so for any span s
// extracted from text, text[s.Start:s.End()] == s.Text.
package model

import (
	"maps"
	"strconv"
)

// Category classifies a recognized span.
type Category string

const (
	// CategoryDuration is an anchor-independent magnitude ("5 hours").
	CategoryDuration Category = "duration"
	// CategoryDateTime is an instant relative to the reference ("3 days ago").
	CategoryDateTime Category = "datetime"
	// CategoryCurrency is a monetary amount ("5 euros").
	CategoryCurrency Category = "currency"
)

// Resolution labels used as keys of the future/past resolution maps.
const (
	ResolutionDuration = "DURATION"
	ResolutionDateTime = "DATETIME"
	ResolutionValue    = "value"
	ResolutionUnit     = "unit"
	ResolutionMod      = "Mod"
)

// CandidateSpan is a positioned substring classified by category, prior to
// semantic resolution.
type CandidateSpan struct {
	Start    int      `json:"start"`
	Length   int      `json:"length"`
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// NewSpan slices text[start:end] into a span of the given category.
func NewSpan(text string, start, end int, category Category) CandidateSpan {
	return CandidateSpan{
		Start:    start,
		Length:   end - start,
		Text:     text[start:end],
		Category: category,
	}
}

// End returns the exclusive end offset of the span.
func (s CandidateSpan) End() int {
	return s.Start + s.Length
}

// Overlaps reports whether the [Start, End) ranges of s and o intersect.
func (s CandidateSpan) Overlaps(o CandidateSpan) bool {
	return s.Start < o.End() && o.Start < s.End()
}

// ResolvedValue is the semantic resolution of a span.
//
// A successful value always has a non-empty Timex and both values set; a
// failed value is the zero ResolvedValue.
type ResolvedValue struct {
	Success          bool              `json:"success"`
	Timex            string            `json:"timex"`
	FutureValue      float64           `json:"futureValue"`
	PastValue        float64           `json:"pastValue"`
	FutureResolution map[string]string `json:"futureResolution,omitempty"`
	PastResolution   map[string]string `json:"pastResolution,omitempty"`
}

// NewResolvedValue builds a successful value. The resolution entries are
// published independently in both the future and the past maps.
func NewResolvedValue(timex string, future, past float64, resolution map[string]string) ResolvedValue {
	fr := make(map[string]string, len(resolution))
	pr := make(map[string]string, len(resolution))
	for k, v := range resolution {
		fr[k] = v
		pr[k] = v
	}
	return ResolvedValue{
		Success:          true,
		Timex:            timex,
		FutureValue:      future,
		PastValue:        past,
		FutureResolution: fr,
		PastResolution:   pr,
	}
}

// ParseOutcome is the unit of output per recognized expression: the span
// merged with its resolution. Value is nil when resolution failed.
type ParseOutcome struct {
	CandidateSpan
	Value    *ResolvedValue `json:"value,omitempty"`
	TimexStr string         `json:"timexStr"`
}

// Resolved reports whether the outcome carries a successful value.
func (o ParseOutcome) Resolved() bool {
	return o.Value != nil && o.Value.Success
}

// Clone returns a copy of o that shares no memory with it.
func (o ParseOutcome) Clone() ParseOutcome {
	if o.Value != nil {
		v := *o.Value
		v.FutureResolution = maps.Clone(v.FutureResolution)
		v.PastResolution = maps.Clone(v.PastResolution)
		o.Value = &v
	}
	return o
}

// Shift returns a copy of o moved by offset bytes.
func (o ParseOutcome) Shift(offset int) ParseOutcome {
	o.Start += offset
	return o
}

// FormatNumber renders v as its shortest exact decimal text.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
