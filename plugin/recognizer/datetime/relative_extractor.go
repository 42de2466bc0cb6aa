package datetime

import (
	"regexp"
	"strings"

	"github.com/hrygo/recognizers/plugin/recognizer/model"
)

var wordPattern = regexp.MustCompile(`\S+`)

// RelativeExtractor delimits instants expressed relative to the reference:
// anchored durations ("3 days ago", "in about 2 hours", "1 hour and 30
// minutes later") and the present ("now", "end of the day").
type RelativeExtractor struct {
	cfg       Config
	durations *DurationExtractor
}

// NewRelativeExtractor validates cfg and returns an extractor bound to it.
func NewRelativeExtractor(cfg Config) (*RelativeExtractor, error) {
	durations, err := NewDurationExtractor(cfg)
	if err != nil {
		return nil, err
	}
	return &RelativeExtractor{cfg: cfg, durations: durations}, nil
}

// Extract returns the non-overlapping relative spans of text ordered by start.
func (e *RelativeExtractor) Extract(text string) []model.CandidateSpan {
	g := e.cfg.Grammar()
	ranges := e.anchored(text)
	ranges = append(ranges, findAll(g.Now, text)...)
	ranges = append(ranges, findAll(g.TheEndOf, text)...)

	var spans []model.CandidateSpan
	for _, r := range ranges {
		span := model.NewSpan(text, r[0], r[1], model.CategoryDateTime)
		if span.Length == 0 || overlapsAny(spans, span) {
			continue
		}
		spans = append(spans, span)
	}
	sortSpans(spans)
	return spans
}

// anchored chains durations separated by connectors and attaches the anchor
// keyword that follows ("ago", "later") or precedes ("in") the chain.
func (e *RelativeExtractor) anchored(text string) [][2]int {
	durs := e.durations.Extract(text)
	var out [][2]int
	for i := 0; i < len(durs); {
		j := i
		for j+1 < len(durs) && e.chained(text[durs[j].End():durs[j+1].Start]) {
			j++
		}
		start, end := durs[i].Start, durs[j].End()
		if s, ok := fuzzyStart(e.cfg, text, start); ok {
			start = s
		}

		if idx, ok := e.cfg.AgoIndex(text[end:]); ok {
			out = append(out, [2]int{start, end + idx})
		} else if idx, ok := e.cfg.LaterIndex(text[end:]); ok {
			out = append(out, [2]int{start, end + idx})
		} else if idx, ok := e.cfg.InIndex(text[:start]); ok {
			out = append(out, [2]int{idx, end})
		}
		i = j + 1
	}
	return out
}

// chained reports whether the gap between two durations joins them.
func (e *RelativeExtractor) chained(gap string) bool {
	gap = strings.TrimSpace(gap)
	return gap == "" || e.cfg.IsConnector(gap)
}

// maxFuzzyWords bounds the length of a fuzzy modifier ("por volta de").
const maxFuzzyWords = 3

// fuzzyStart moves start back over a fuzzy modifier that immediately precedes
// it ("about", "cerca de"). Longer modifiers are tried first.
func fuzzyStart(cfg Config, text string, start int) (int, bool) {
	words := wordPattern.FindAllStringIndex(text[:start], -1)
	for n := maxFuzzyWords; n >= 1; n-- {
		if len(words) < n {
			continue
		}
		first, last := words[len(words)-n], words[len(words)-1]
		if cfg.IsFuzzy(text[first[0]:last[1]]) {
			return first[0], true
		}
	}
	return start, false
}
