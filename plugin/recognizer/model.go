package recognizer

import (
	"sort"
	"time"

	"github.com/hrygo/recognizers/plugin/recognizer/culture"
	"github.com/hrygo/recognizers/plugin/recognizer/datetime"
	"github.com/hrygo/recognizers/plugin/recognizer/model"
	"github.com/hrygo/recognizers/plugin/recognizer/numberwithunit"
)

// Model bundles the extractor/parser pairs of one culture. It is read-only
// once built and safe for concurrent use.
type Model struct {
	culture *culture.Culture

	durations      *datetime.DurationExtractor
	durationParser *datetime.DurationParser
	relative       *datetime.RelativeExtractor
	relativeParser *datetime.RelativeParser
	currency       *numberwithunit.Extractor
	currencyParser *numberwithunit.Parser
}

// NewModel builds every recognizer of c.
func NewModel(c *culture.Culture) (*Model, error) {
	m := &Model{culture: c}
	var err error
	if m.durations, err = datetime.NewDurationExtractor(c.DateTime); err != nil {
		return nil, err
	}
	if m.durationParser, err = datetime.NewDurationParser(c.DateTime); err != nil {
		return nil, err
	}
	if m.relative, err = datetime.NewRelativeExtractor(c.DateTime); err != nil {
		return nil, err
	}
	if m.relativeParser, err = datetime.NewRelativeParser(c.DateTime); err != nil {
		return nil, err
	}
	if m.currency, err = numberwithunit.NewCurrencyExtractor(c.Currency); err != nil {
		return nil, err
	}
	if m.currencyParser, err = numberwithunit.NewCurrencyParser(c.Currency); err != nil {
		return nil, err
	}
	return m, nil
}

// Culture returns the culture the model was built from.
func (m *Model) Culture() *culture.Culture {
	return m.culture
}

// Recognize runs every recognizer over text. A relative span supersedes the
// durations it overlaps; spans of different categories may overlap otherwise.
// Outcomes that fail to resolve are kept with a nil Value.
func (m *Model) Recognize(text string, ref time.Time) []model.ParseOutcome {
	relative := m.relative.Extract(text)
	out := make([]model.ParseOutcome, 0, len(relative))
	for _, s := range relative {
		out = append(out, m.relativeParser.Parse(s, ref))
	}
	for _, s := range m.durations.Extract(text) {
		if overlapsAny(relative, s) {
			continue
		}
		out = append(out, m.durationParser.Parse(s, ref))
	}
	for _, s := range m.currency.Extract(text) {
		out = append(out, m.currencyParser.Parse(s, ref))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
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
