package datetime

import (
	"regexp"
	"sort"

	"github.com/hrygo/recognizers/plugin/recognizer/model"
)

// extractRule finds candidate [start, end) ranges for one grammar strategy.
type extractRule struct {
	name string
	find func(e *DurationExtractor, text string) [][2]int
}

// durationRules run in precedence order. A later rule only fills gaps left by
// the earlier ones.
var durationRules = []extractRule{
	{name: "number-unit", find: (*DurationExtractor).numberWithUnit},
	{name: "number-combined-unit", find: (*DurationExtractor).numberCombinedWithUnit},
	{name: "an-unit", find: (*DurationExtractor).anUnit},
	{name: "implicit-unit", find: (*DurationExtractor).implicitUnit},
}

// DurationExtractor delimits duration spans. It is safe for concurrent use.
type DurationExtractor struct {
	cfg Config
}

// NewDurationExtractor validates cfg and returns an extractor bound to it.
func NewDurationExtractor(cfg Config) (*DurationExtractor, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &DurationExtractor{cfg: cfg}, nil
}

// Extract returns the non-overlapping duration spans of text ordered by start.
func (e *DurationExtractor) Extract(text string) []model.CandidateSpan {
	var spans []model.CandidateSpan
	for _, rule := range durationRules {
		for _, r := range rule.find(e, text) {
			span := model.NewSpan(text, r[0], r[1], model.CategoryDuration)
			if span.Length == 0 || overlapsAny(spans, span) {
				continue
			}
			spans = append(spans, span)
		}
	}
	sortSpans(spans)
	return spans
}

// numberWithUnit pairs each separated numeral with a unit that follows it.
func (e *DurationExtractor) numberWithUnit(text string) [][2]int {
	var out [][2]int
	re := e.cfg.Grammar().FollowedUnit
	for _, num := range e.cfg.Numbers().Extract(text) {
		loc := re.FindStringSubmatchIndex(text[num.End():])
		if loc == nil || loc[0] != 0 {
			continue
		}
		out = append(out, [2]int{num.Start, num.End() + loc[1]})
	}
	return out
}

func (e *DurationExtractor) numberCombinedWithUnit(text string) [][2]int {
	return findAll(e.cfg.Grammar().NumberCombinedWithUnit, text)
}

func (e *DurationExtractor) anUnit(text string) [][2]int {
	return findAll(e.cfg.Grammar().AnUnit, text)
}

// implicitUnit covers whole-unit phrases first, then half-unit phrases.
func (e *DurationExtractor) implicitUnit(text string) [][2]int {
	g := e.cfg.Grammar()
	return append(findAll(g.AllUnit, text), findAll(g.HalfUnit, text)...)
}

func findAll(re *regexp.Regexp, text string) [][2]int {
	var out [][2]int
	for _, loc := range re.FindAllStringIndex(text, -1) {
		out = append(out, [2]int{loc[0], loc[1]})
	}
	return out
}

func overlapsAny(spans []model.CandidateSpan, s model.CandidateSpan) bool {
	for _, o := range spans {
		if o.Overlaps(s) {
			return true
		}
	}
	return false
}

func sortSpans(spans []model.CandidateSpan) {
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
}
