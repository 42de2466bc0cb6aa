// Package numberwithunit recognizes amounts written as a numeral joined to a
// unit word or symbol. Currency is the only unit family shipped: "5 euros",
// "R$ 10", "$3.50".
package numberwithunit

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/recognizers/plugin/recognizer/number"
)

// NumeralParser finds and interprets numerals. *number.Extractor implements it.
type NumeralParser interface {
	Extract(text string) []number.Span
	Parse(text string) (float64, error)
}

// Config is the locale data of one unit family.
type Config struct {
	Numbers NumeralParser
	// Suffixes maps a canonical unit name to the forms written after the
	// numeral ("Euro" -> euro, euros, €).
	Suffixes map[string][]string
	// Prefixes maps a canonical unit name to the forms written before the
	// numeral ("Dólar" -> $).
	Prefixes map[string][]string
	// Ambiguous forms are only accepted after a digit numeral.
	Ambiguous []string
}

// unitIndex resolves unit forms of one position (suffix or prefix).
type unitIndex struct {
	names map[string]string // lower-cased form -> canonical name
	re    *regexp.Regexp
}

func newUnitIndex(units map[string][]string, anchor func(alt string) string) (*unitIndex, error) {
	idx := &unitIndex{names: make(map[string]string)}
	var forms []string
	for name, list := range units {
		for _, f := range list {
			key := strings.ToLower(strings.TrimSpace(f))
			if key == "" {
				continue
			}
			if prev, ok := idx.names[key]; ok && prev != name {
				return nil, errors.Errorf("unit form %q maps to both %q and %q", f, prev, name)
			}
			if _, ok := idx.names[key]; !ok {
				forms = append(forms, key)
			}
			idx.names[key] = name
		}
	}
	if len(forms) == 0 {
		return idx, nil
	}
	sort.SliceStable(forms, func(i, j int) bool {
		if len(forms[i]) != len(forms[j]) {
			return len(forms[i]) > len(forms[j])
		}
		return forms[i] < forms[j]
	})
	quoted := make([]string, len(forms))
	for i, f := range forms {
		quoted[i] = regexp.QuoteMeta(f)
	}
	re, err := regexp.Compile(anchor(strings.Join(quoted, "|")))
	if err != nil {
		return nil, errors.Wrap(err, "compile unit pattern")
	}
	idx.re = re
	return idx, nil
}

func (i *unitIndex) lookup(form string) (string, bool) {
	name, ok := i.names[strings.ToLower(form)]
	return name, ok
}
