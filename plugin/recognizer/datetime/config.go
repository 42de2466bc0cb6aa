// Package datetime recognizes duration expressions ("5 hours", "2days",
// "half an hour", "all day") and the relative anchors built on them ("3 days
// ago", "in 2 hours", "now") in free text.
//
// Recognition is split into extraction, which delimits candidate spans, and
// parsing, which resolves a span against a reference instant. Both are written
// once against Config; a locale plugs in by implementing it.
package datetime

import (
	"regexp"

	"github.com/pkg/errors"

	"github.com/hrygo/recognizers/plugin/recognizer/number"
)

// NumeralParser finds and interprets numerals. *number.Extractor implements it.
type NumeralParser interface {
	Extract(text string) []number.Span
	Parse(text string) (float64, error)
}

// Config is the capability set a locale supplies to the extractors and parsers.
type Config interface {
	// Grammar returns the compiled patterns of the locale.
	Grammar() *Grammar
	// Lexicon returns the unit lexicon of the locale.
	Lexicon() *UnitLexicon
	// Numbers returns the numeral extractor/parser of the locale.
	Numbers() NumeralParser

	// IsFuzzy reports whether text is an approximating modifier ("about").
	IsFuzzy(text string) bool
	// AgoIndex reports whether text starts with a past anchor ("ago") and
	// returns the offset just past the keyword.
	AgoIndex(text string) (int, bool)
	// LaterIndex reports whether text starts with a future anchor ("later")
	// and returns the offset just past the keyword.
	LaterIndex(text string) (int, bool)
	// InIndex reports whether text ends with a future prefix ("in") and
	// returns the offset where the keyword starts.
	InIndex(text string) (int, bool)
	// IsConnector reports whether text glues two expressions ("and", ",").
	IsConnector(text string) bool
}

// Grammar is the set of compiled patterns a locale provides.
//
// Unit-bearing patterns capture the unit in a group named "unit".
// NumberCombinedWithUnit also captures the digits in "num", and AnUnit may
// capture a "half" group.
type Grammar struct {
	// FollowedUnit matches a unit at the start of the text that follows a
	// separated numeral, e.g. " hours" after "5".
	FollowedUnit *regexp.Regexp
	// NumberCombinedWithUnit matches digits fused to a unit ("2days").
	NumberCombinedWithUnit *regexp.Regexp
	// AnUnit matches indefinite-article phrases ("an hour", "half a day").
	AnUnit *regexp.Regexp
	// AllUnit matches whole-unit phrases ("all day").
	AllUnit *regexp.Regexp
	// HalfUnit matches half-unit phrases ("half year").
	HalfUnit *regexp.Regexp

	// Now matches references to the present ("now", "right now").
	Now *regexp.Regexp
	// TheEndOf matches end-of-day phrases ("end of the day").
	TheEndOf *regexp.Regexp
}

// Validate checks that every pattern is present and exposes its groups.
func (g *Grammar) Validate() error {
	if g == nil {
		return errors.New("grammar is nil")
	}
	required := []struct {
		name   string
		re     *regexp.Regexp
		groups []string
	}{
		{"FollowedUnit", g.FollowedUnit, []string{"unit"}},
		{"NumberCombinedWithUnit", g.NumberCombinedWithUnit, []string{"num", "unit"}},
		{"AnUnit", g.AnUnit, []string{"half", "unit"}},
		{"AllUnit", g.AllUnit, []string{"unit"}},
		{"HalfUnit", g.HalfUnit, []string{"unit"}},
		{"Now", g.Now, nil},
		{"TheEndOf", g.TheEndOf, nil},
	}
	for _, r := range required {
		if r.re == nil {
			return errors.Errorf("grammar pattern %s is missing", r.name)
		}
		for _, group := range r.groups {
			if r.re.SubexpIndex(group) < 0 {
				return errors.Errorf("grammar pattern %s has no %q group", r.name, group)
			}
		}
	}
	return nil
}

// ValidateConfig checks a locale configuration before it is shared.
func ValidateConfig(cfg Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := cfg.Grammar().Validate(); err != nil {
		return err
	}
	if cfg.Lexicon() == nil {
		return errors.New("unit lexicon is nil")
	}
	if cfg.Numbers() == nil {
		return errors.New("numeral parser is nil")
	}
	return nil
}

// group returns the text of a named group of a FindStringSubmatch result, and
// whether the group participated in the match.
func group(re *regexp.Regexp, match []string, name string) (string, bool) {
	i := re.SubexpIndex(name)
	if i < 0 || i >= len(match) {
		return "", false
	}
	return match[i], match[i] != ""
}
