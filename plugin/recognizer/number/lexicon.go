// Package number extracts and parses cardinal numerals, written either with
// digits ("1,500.25") or spelled out ("twenty five"), driven by a per-locale
// Lexicon.
package number

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Lexicon holds the locale data a numeral extractor and parser need.
type Lexicon struct {
	// Units are additive words below ten or twenty ("one", "twelve").
	Units map[string]float64
	// Tens are additive words such as "twenty" or "cento".
	Tens map[string]float64
	// Multipliers scale the running value ("hundred", "thousand", "mil").
	Multipliers map[string]float64
	// Joiners may appear between number words ("and", "e").
	Joiners []string
	// DecimalSeparator and GroupSeparator apply to digit numerals.
	DecimalSeparator string
	GroupSeparator   string
}

// Validate checks that the lexicon can be compiled into patterns.
func (l *Lexicon) Validate() error {
	if l == nil {
		return errors.New("number lexicon is nil")
	}
	if len(l.Units) == 0 {
		return errors.New("number lexicon has no unit words")
	}
	if l.DecimalSeparator == "" {
		return errors.New("number lexicon has no decimal separator")
	}
	if l.DecimalSeparator == l.GroupSeparator {
		return errors.Errorf("decimal and group separator are both %q", l.DecimalSeparator)
	}
	for word, v := range l.Multipliers {
		if v <= 1 {
			return errors.Errorf("multiplier %q must be greater than 1, got %v", word, v)
		}
	}
	return nil
}

// words returns every number word, longest first.
func (l *Lexicon) words() []string {
	var all []string
	for _, m := range []map[string]float64{l.Units, l.Tens, l.Multipliers} {
		for w := range m {
			all = append(all, strings.ToLower(w))
		}
	}
	return longestFirst(all)
}

// lookup classifies a single lower-cased token.
func (l *Lexicon) lookup(token string) (value float64, multiplier bool, ok bool) {
	if v, ok := l.Units[token]; ok {
		return v, false, true
	}
	if v, ok := l.Tens[token]; ok {
		return v, false, true
	}
	if v, ok := l.Multipliers[token]; ok {
		return v, true, true
	}
	return 0, false, false
}

func (l *Lexicon) isJoiner(token string) bool {
	for _, j := range l.Joiners {
		if strings.EqualFold(j, token) {
			return true
		}
	}
	return false
}

// alternation quotes and joins words for use inside a regexp group.
func alternation(words []string) string {
	quoted := make([]string, 0, len(words))
	for _, w := range longestFirst(words) {
		quoted = append(quoted, regexp.QuoteMeta(w))
	}
	return strings.Join(quoted, "|")
}

func longestFirst(words []string) []string {
	out := append([]string(nil), words...)
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}
