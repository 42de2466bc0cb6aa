package datetime

import (
	"math"
	"strings"
	"time"

	"github.com/hrygo/recognizers/plugin/recognizer/model"
)

// maxOffsetSeconds is the largest offset time.Duration can represent.
var maxOffsetSeconds = float64(math.MaxInt64) / float64(time.Second)

// ModApprox marks resolutions introduced by a fuzzy modifier.
const ModApprox = "approx"

// RelativeParser resolves relative spans against the reference instant.
type RelativeParser struct {
	cfg       Config
	durations *DurationExtractor
	parser    *DurationParser
}

// NewRelativeParser validates cfg and returns a parser bound to it.
func NewRelativeParser(cfg Config) (*RelativeParser, error) {
	durations, err := NewDurationExtractor(cfg)
	if err != nil {
		return nil, err
	}
	parser, err := NewDurationParser(cfg)
	if err != nil {
		return nil, err
	}
	return &RelativeParser{cfg: cfg, durations: durations, parser: parser}, nil
}

// Parse resolves a datetime span relative to ref. Spans of another category,
// or spans that cannot be resolved, come back with a nil Value.
func (p *RelativeParser) Parse(span model.CandidateSpan, ref time.Time) model.ParseOutcome {
	out := model.ParseOutcome{CandidateSpan: span}
	if span.Category != model.CategoryDateTime {
		return out
	}
	if v := p.Resolve(span.Text, ref); v.Success {
		out.Value = &v
		out.TimexStr = v.Timex
	}
	return out
}

// Resolve reads text as the present, the end of the reference day, or a chain
// of durations anchored before or after ref.
func (p *RelativeParser) Resolve(text string, ref time.Time) model.ResolvedValue {
	g := p.cfg.Grammar()
	if matchesWhole(g.Now.FindStringIndex(text), text) {
		return instantValue(TimexPresentRef, ref, nil)
	}
	if matchesWhole(g.TheEndOf.FindStringIndex(text), text) {
		end := time.Date(ref.Year(), ref.Month(), ref.Day(), 23, 59, 59, 0, ref.Location())
		return instantValue(InstantTimex(end), end, nil)
	}
	return p.resolveAnchored(text, ref)
}

func (p *RelativeParser) resolveAnchored(text string, ref time.Time) model.ResolvedValue {
	durs := p.durations.Extract(text)
	if len(durs) == 0 {
		return model.ResolvedValue{}
	}

	var total float64
	for _, d := range durs {
		v := p.parser.Resolve(d.Text)
		if !v.Success {
			return model.ResolvedValue{}
		}
		total += v.FutureValue
	}
	if total > maxOffsetSeconds {
		return model.ResolvedValue{}
	}

	first, last := durs[0], durs[len(durs)-1]
	prefix := text[:first.Start]
	fuzzy := false
	if s, ok := fuzzyStart(p.cfg, text, first.Start); ok {
		fuzzy = true
		prefix = text[:s]
	}

	var sign float64
	switch {
	case isAnchor(p.cfg.AgoIndex, text[last.End():]):
		sign = -1
	case isAnchor(p.cfg.LaterIndex, text[last.End():]):
		sign = 1
	case isAnchor(p.cfg.InIndex, prefix):
		sign = 1
	default:
		return model.ResolvedValue{}
	}

	instant := ref.Add(time.Duration(sign * total * float64(time.Second)))
	var extra map[string]string
	if fuzzy {
		extra = map[string]string{model.ResolutionMod: ModApprox}
	}
	return instantValue(InstantTimex(instant), instant, extra)
}

// instantValue publishes an instant as Unix seconds. The anchor keyword
// already fixes the direction, so the future and past sides agree.
func instantValue(timex string, t time.Time, extra map[string]string) model.ResolvedValue {
	resolution := map[string]string{model.ResolutionDateTime: t.Format(time.RFC3339)}
	for k, v := range extra {
		resolution[k] = v
	}
	unix := float64(t.Unix())
	return model.NewResolvedValue(timex, unix, unix, resolution)
}

func isAnchor(detect func(string) (int, bool), text string) bool {
	_, ok := detect(text)
	return ok
}

func matchesWhole(loc []int, text string) bool {
	return loc != nil && strings.TrimSpace(text[:loc[0]]) == "" && strings.TrimSpace(text[loc[1]:]) == ""
}
