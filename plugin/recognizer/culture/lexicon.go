package culture

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/hrygo/recognizers/plugin/recognizer/datetime"
	"github.com/hrygo/recognizers/plugin/recognizer/number"
)

// unitsPlaceholder is replaced by the unit alternation in grammar patterns.
const unitsPlaceholder = "{{units}}"

// Lexicon is the decoded form of a locale's lexicon.yaml.
type Lexicon struct {
	Code     string       `yaml:"code"`
	Name     string       `yaml:"name"`
	Numbers  NumberData   `yaml:"numbers"`
	Units    []UnitData   `yaml:"units"`
	Grammar  GrammarData  `yaml:"grammar"`
	Keywords KeywordData  `yaml:"keywords"`
	Currency CurrencyData `yaml:"currency"`
}

// NumberData describes numerals.
type NumberData struct {
	Decimal     string             `yaml:"decimal"`
	Group       string             `yaml:"group"`
	Joiners     []string           `yaml:"joiners"`
	Units       map[string]float64 `yaml:"units"`
	Tens        map[string]float64 `yaml:"tens"`
	Multipliers map[string]float64 `yaml:"multipliers"`
}

// UnitData is one duration unit. Forms is a pipe-delimited alternation.
type UnitData struct {
	Name    string  `yaml:"name"`
	Code    string  `yaml:"code"`
	Seconds float64 `yaml:"seconds"`
	Forms   string  `yaml:"forms"`
}

// GrammarData holds the raw patterns. {{units}} expands to every unit form.
type GrammarData struct {
	FollowedUnit           string `yaml:"followed_unit"`
	NumberCombinedWithUnit string `yaml:"number_combined_with_unit"`
	AnUnit                 string `yaml:"an_unit"`
	AllUnit                string `yaml:"all_unit"`
	HalfUnit               string `yaml:"half_unit"`
	Now                    string `yaml:"now"`
	TheEndOf               string `yaml:"the_end_of"`
}

// KeywordData lists the anchor, modifier and connector words.
type KeywordData struct {
	Fuzzy      []string `yaml:"fuzzy"`
	Ago        []string `yaml:"ago"`
	Later      []string `yaml:"later"`
	In         []string `yaml:"in"`
	Connectors []string `yaml:"connectors"`
}

// CurrencyData maps canonical currency names to pipe-delimited forms.
type CurrencyData struct {
	Suffixes  map[string]string `yaml:"suffixes"`
	Prefixes  map[string]string `yaml:"prefixes"`
	Ambiguous []string          `yaml:"ambiguous"`
}

// Decode parses a lexicon document.
func Decode(raw []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(raw, &lex); err != nil {
		return nil, errors.Wrap(err, "decode lexicon")
	}
	if lex.Code == "" {
		return nil, errors.New("lexicon has no culture code")
	}
	return &lex, nil
}

// SplitForms splits a pipe-delimited alternation, dropping blanks.
func SplitForms(alternation string) []string {
	var forms []string
	for _, f := range strings.Split(alternation, "|") {
		if f = strings.TrimSpace(f); f != "" {
			forms = append(forms, f)
		}
	}
	return forms
}

// NumberLexicon converts the numeral section.
func (l *Lexicon) NumberLexicon() *number.Lexicon {
	return &number.Lexicon{
		Units:            l.Numbers.Units,
		Tens:             l.Numbers.Tens,
		Multipliers:      l.Numbers.Multipliers,
		Joiners:          l.Numbers.Joiners,
		DecimalSeparator: l.Numbers.Decimal,
		GroupSeparator:   l.Numbers.Group,
	}
}

// UnitEntries converts the unit section.
func (l *Lexicon) UnitEntries() []datetime.UnitEntry {
	entries := make([]datetime.UnitEntry, 0, len(l.Units))
	for _, u := range l.Units {
		entries = append(entries, datetime.UnitEntry{
			Name:    u.Name,
			Code:    u.Code,
			Seconds: u.Seconds,
			Forms:   SplitForms(u.Forms),
		})
	}
	return entries
}

func splitAll(m map[string]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for name, alt := range m {
		out[name] = SplitForms(alt)
	}
	return out
}
