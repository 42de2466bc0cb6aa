package datetime

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hrygo/recognizers/plugin/recognizer/model"
	"github.com/hrygo/recognizers/plugin/recognizer/number"
)

// maxCombinedCoarseValue caps fused numerals for year, month and week units;
// "1500years" is more likely an identifier than a duration.
const maxCombinedCoarseValue = 1000

var plainDigits = regexp.MustCompile(`^\d+(?:[.,]\d+)?$`)

// resolveStrategy is one way of reading a duration span. It reports false when
// it does not apply, letting the next strategy try.
type resolveStrategy func(p *DurationParser, text string) (model.ResolvedValue, bool)

// durationStrategies are tried in order until one succeeds.
var durationStrategies = []resolveStrategy{
	(*DurationParser).parseNumberWithUnit,
	(*DurationParser).parseNumberCombinedWithUnit,
	(*DurationParser).parseAnUnit,
	(*DurationParser).parseImplicitDuration,
}

// DurationParser resolves duration spans. It is safe for concurrent use.
type DurationParser struct {
	cfg Config
}

// NewDurationParser validates cfg and returns a parser bound to it.
func NewDurationParser(cfg Config) (*DurationParser, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &DurationParser{cfg: cfg}, nil
}

// Parse resolves a duration span. The reference instant does not affect a
// duration's magnitude and is accepted for parity with the other parsers.
// Spans of another category, or spans no strategy can read, come back with a
// nil Value and an empty TimexStr.
func (p *DurationParser) Parse(span model.CandidateSpan, _ time.Time) model.ParseOutcome {
	out := model.ParseOutcome{CandidateSpan: span}
	if span.Category != model.CategoryDuration {
		return out
	}
	if v := p.Resolve(span.Text); v.Success {
		out.Value = &v
		out.TimexStr = v.Timex
	}
	return out
}

// Resolve runs the strategies over text and returns the first success, or the
// zero value.
func (p *DurationParser) Resolve(text string) model.ResolvedValue {
	for _, strategy := range durationStrategies {
		if v, ok := strategy(p, text); ok {
			return v
		}
	}
	return model.ResolvedValue{}
}

// parseNumberWithUnit reads "<numeral> <unit>" where the numeral is found by
// the numeral parser and the rest of the text is the unit.
func (p *DurationParser) parseNumberWithUnit(text string) (model.ResolvedValue, bool) {
	nums := p.cfg.Numbers().Extract(text)
	if len(nums) != 1 {
		return model.ResolvedValue{}, false
	}
	value, err := p.cfg.Numbers().Parse(nums[0].Text)
	if err != nil {
		return model.ResolvedValue{}, false
	}
	unit, ok := p.cfg.Lexicon().Lookup(strings.ToLower(strings.TrimSpace(text[nums[0].End():])))
	if !ok {
		return model.ResolvedValue{}, false
	}
	return durationValue(numeralText(nums[0].Text, value), value, unit), true
}

// parseNumberCombinedWithUnit reads digits fused to a unit ("2days").
func (p *DurationParser) parseNumberCombinedWithUnit(text string) (model.ResolvedValue, bool) {
	re := p.cfg.Grammar().NumberCombinedWithUnit
	m := re.FindStringSubmatch(text)
	if m == nil {
		return model.ResolvedValue{}, false
	}
	numText, _ := group(re, m, "num")
	unitText, _ := group(re, m, "unit")
	unit, ok := p.cfg.Lexicon().Lookup(strings.ToLower(unitText))
	if !ok {
		return model.ResolvedValue{}, false
	}
	value, err := p.cfg.Numbers().Parse(numText)
	if err != nil {
		return model.ResolvedValue{}, false
	}
	if value > maxCombinedCoarseValue && isCoarse(unit.Code) {
		return model.ResolvedValue{}, false
	}
	return durationValue(numeralText(numText, value), value, unit), true
}

// numeralText is the numeral as it appears in a timex. Digit numerals keep
// their digits as written ("1.50" stays "1.50"), with a decimal comma written
// as a point; grouped and spelled-out numerals are rendered from value.
func numeralText(text string, value float64) string {
	if !plainDigits.MatchString(text) {
		return number.FormatValue(value)
	}
	normalized := strings.Replace(text, ",", ".", 1)
	if v, err := strconv.ParseFloat(normalized, 64); err != nil || v != value {
		return number.FormatValue(value)
	}
	return normalized
}

// parseAnUnit reads "a/an <unit>" as one unit and "half a/an <unit>" as half.
func (p *DurationParser) parseAnUnit(text string) (model.ResolvedValue, bool) {
	re := p.cfg.Grammar().AnUnit
	m := re.FindStringSubmatch(text)
	if m == nil {
		return model.ResolvedValue{}, false
	}
	numText := "1"
	if _, half := group(re, m, "half"); half {
		numText = "0.5"
	}
	unitText, _ := group(re, m, "unit")
	unit, ok := p.cfg.Lexicon().Lookup(strings.ToLower(unitText))
	if !ok {
		return model.ResolvedValue{}, false
	}
	return durationValue(numText, parseConst(numText), unit), true
}

// parseImplicitDuration reads numeral-less phrases. Whole ("all day") and half
// ("half year") are both checked; when both patterns match, the half result
// replaces the whole one, even if the half unit does not resolve.
func (p *DurationParser) parseImplicitDuration(text string) (model.ResolvedValue, bool) {
	g := p.cfg.Grammar()
	var ret model.ResolvedValue
	if v, matched := p.resolveImplicit(g.AllUnit, text, "1"); matched {
		ret = v
	}
	if v, matched := p.resolveImplicit(g.HalfUnit, text, "0.5"); matched {
		ret = v
	}
	return ret, ret.Success
}

// resolveImplicit looks the captured unit up in the value map. matched reports
// whether re matched at all, independently of the lookup.
func (p *DurationParser) resolveImplicit(re *regexp.Regexp, text, numText string) (v model.ResolvedValue, matched bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return model.ResolvedValue{}, false
	}
	unitText, _ := group(re, m, "unit")
	unit, ok := p.cfg.Lexicon().LookupValue(unitText)
	if !ok {
		return model.ResolvedValue{}, true
	}
	return durationValue(numText, parseConst(numText), unit), true
}

// durationValue builds the resolution of numText units. A duration has no
// direction, so the future and past values are the same number of seconds.
func durationValue(numText string, value float64, unit UnitEntry) model.ResolvedValue {
	seconds := value * unit.Seconds
	return model.NewResolvedValue(DurationTimex(numText, unit.Code), seconds, seconds,
		map[string]string{model.ResolutionDuration: model.FormatNumber(seconds)})
}

func isCoarse(code string) bool {
	return code == CodeYear || code == CodeMonth || code == CodeWeek
}

func parseConst(numText string) float64 {
	if numText == "0.5" {
		return 0.5
	}
	return 1
}
