// Package culture turns a locale's lexicon document into the configuration the
// recognizers run on. A locale is a subpackage that embeds its lexicon.yaml;
// nothing outside the lexicon differs between locales.
package culture

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/recognizers/plugin/recognizer/datetime"
	"github.com/hrygo/recognizers/plugin/recognizer/number"
	"github.com/hrygo/recognizers/plugin/recognizer/numberwithunit"
)

// Culture is the fully built, read-only configuration of one locale.
type Culture struct {
	Code     string
	Name     string
	DateTime *DateTimeConfig
	Currency numberwithunit.Config
}

// DateTimeConfig implements datetime.Config.
type DateTimeConfig struct {
	*Keywords
	grammar *datetime.Grammar
	lexicon *datetime.UnitLexicon
	numbers *number.Extractor
}

var _ datetime.Config = (*DateTimeConfig)(nil)

func (c *DateTimeConfig) Grammar() *datetime.Grammar      { return c.grammar }
func (c *DateTimeConfig) Lexicon() *datetime.UnitLexicon  { return c.lexicon }
func (c *DateTimeConfig) Numbers() datetime.NumeralParser { return c.numbers }

// Load decodes a lexicon document and builds its culture.
func Load(raw []byte) (*Culture, error) {
	lex, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return Build(lex)
}

// Build compiles a decoded lexicon. Any malformed entry or pattern fails the
// whole culture.
func Build(lex *Lexicon) (*Culture, error) {
	numbers, err := number.NewExtractor(lex.NumberLexicon())
	if err != nil {
		return nil, errors.Wrapf(err, "culture %s: numbers", lex.Code)
	}
	units, err := datetime.NewUnitLexicon(lex.UnitEntries())
	if err != nil {
		return nil, errors.Wrapf(err, "culture %s: units", lex.Code)
	}
	grammar, err := compileGrammar(lex.Grammar, units.Alternation())
	if err != nil {
		return nil, errors.Wrapf(err, "culture %s: grammar", lex.Code)
	}
	keywords, err := NewKeywords(lex.Keywords)
	if err != nil {
		return nil, errors.Wrapf(err, "culture %s: keywords", lex.Code)
	}

	cfg := &DateTimeConfig{Keywords: keywords, grammar: grammar, lexicon: units, numbers: numbers}
	if err := datetime.ValidateConfig(cfg); err != nil {
		return nil, errors.Wrapf(err, "culture %s", lex.Code)
	}
	return &Culture{
		Code:     strings.ToLower(lex.Code),
		Name:     lex.Name,
		DateTime: cfg,
		Currency: numberwithunit.Config{
			Numbers:   numbers,
			Suffixes:  splitAll(lex.Currency.Suffixes),
			Prefixes:  splitAll(lex.Currency.Prefixes),
			Ambiguous: lex.Currency.Ambiguous,
		},
	}, nil
}

func compileGrammar(g GrammarData, units string) (*datetime.Grammar, error) {
	out := &datetime.Grammar{}
	patterns := []struct {
		name string
		src  string
		dst  **regexp.Regexp
	}{
		{"followed_unit", g.FollowedUnit, &out.FollowedUnit},
		{"number_combined_with_unit", g.NumberCombinedWithUnit, &out.NumberCombinedWithUnit},
		{"an_unit", g.AnUnit, &out.AnUnit},
		{"all_unit", g.AllUnit, &out.AllUnit},
		{"half_unit", g.HalfUnit, &out.HalfUnit},
		{"now", g.Now, &out.Now},
		{"the_end_of", g.TheEndOf, &out.TheEndOf},
	}
	for _, p := range patterns {
		if p.src == "" {
			return nil, errors.Errorf("pattern %s is empty", p.name)
		}
		re, err := regexp.Compile(strings.ReplaceAll(p.src, unitsPlaceholder, units))
		if err != nil {
			return nil, errors.Wrapf(err, "pattern %s", p.name)
		}
		*p.dst = re
	}
	return out, nil
}

func sortLongestFirst(words []string) {
	sort.SliceStable(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
}
