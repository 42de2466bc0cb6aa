package numberwithunit

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/hrygo/recognizers/plugin/recognizer/model"
)

// units bundles the suffix and prefix indexes built from a Config.
type units struct {
	suffix    *unitIndex
	prefix    *unitIndex
	ambiguous map[string]bool
}

func newUnits(cfg Config) (*units, error) {
	if cfg.Numbers == nil {
		return nil, errors.New("numeral parser is nil")
	}
	if len(cfg.Suffixes) == 0 && len(cfg.Prefixes) == 0 {
		return nil, errors.New("no unit forms configured")
	}
	suffix, err := newUnitIndex(cfg.Suffixes, func(alt string) string { return `(?i)^\s*(?:` + alt + `)` })
	if err != nil {
		return nil, errors.Wrap(err, "suffix units")
	}
	prefix, err := newUnitIndex(cfg.Prefixes, func(alt string) string { return `(?i)(?:` + alt + `)\s*$` })
	if err != nil {
		return nil, errors.Wrap(err, "prefix units")
	}
	u := &units{suffix: suffix, prefix: prefix, ambiguous: make(map[string]bool)}
	for _, a := range cfg.Ambiguous {
		u.ambiguous[strings.ToLower(a)] = true
	}
	return u, nil
}

// Extractor delimits amounts in text. It is safe for concurrent use.
type Extractor struct {
	cfg      Config
	units    *units
	category model.Category
}

// NewCurrencyExtractor builds an extractor of currency amounts.
func NewCurrencyExtractor(cfg Config) (*Extractor, error) {
	u, err := newUnits(cfg)
	if err != nil {
		return nil, err
	}
	return &Extractor{cfg: cfg, units: u, category: model.CategoryCurrency}, nil
}

// Extract returns the non-overlapping amounts of text ordered by start. A
// numeral followed by a suffix unit is preferred over a prefix unit before it.
func (e *Extractor) Extract(text string) []model.CandidateSpan {
	var spans []model.CandidateSpan
	add := func(start, end int) {
		span := model.NewSpan(text, start, end, e.category)
		for _, o := range spans {
			if o.Overlaps(span) {
				return
			}
		}
		spans = append(spans, span)
	}

	for _, num := range e.cfg.Numbers.Extract(text) {
		if end, form, ok := e.suffixAt(text, num.End()); ok && e.units.accept(form, num.Text) {
			add(num.Start, end)
			continue
		}
		if start, form, ok := e.prefixBefore(text, num.Start); ok && e.units.accept(form, num.Text) {
			add(start, num.End())
		}
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

// suffixAt matches a unit right after the numeral ending at pos.
func (e *Extractor) suffixAt(text string, pos int) (end int, form string, ok bool) {
	re := e.units.suffix.re
	if re == nil {
		return 0, "", false
	}
	loc := re.FindStringIndex(text[pos:])
	if loc == nil {
		return 0, "", false
	}
	end = pos + loc[1]
	form = strings.TrimSpace(text[pos:end])
	if endsWord(form) && !boundaryAfter(text, end) {
		return 0, "", false
	}
	return end, form, true
}

// prefixBefore matches a unit right before the numeral starting at pos.
func (e *Extractor) prefixBefore(text string, pos int) (start int, form string, ok bool) {
	re := e.units.prefix.re
	if re == nil {
		return 0, "", false
	}
	loc := re.FindStringIndex(text[:pos])
	if loc == nil {
		return 0, "", false
	}
	form = strings.TrimSpace(text[loc[0]:pos])
	if startsWord(form) && !boundaryBefore(text, loc[0]) {
		return 0, "", false
	}
	return loc[0], form, true
}

// accept rejects ambiguous unit forms unless the numeral is written in digits.
func (u *units) accept(form, numText string) bool {
	if !u.ambiguous[strings.ToLower(form)] {
		return true
	}
	r, _ := utf8.DecodeRuneInString(numText)
	return unicode.IsDigit(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func endsWord(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return isWordRune(r)
}

func startsWord(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}
