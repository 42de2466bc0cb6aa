package datetime

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// UnitEntry maps the surface forms of one unit to its canonical code and its
// scale in seconds.
type UnitEntry struct {
	Name    string
	Code    string
	Seconds float64
	Forms   []string
}

// UnitLexicon resolves unit words. It is built once per locale and is
// read-only afterwards.
type UnitLexicon struct {
	names  map[string]UnitEntry // surface form -> entry
	values map[string]UnitEntry // canonical unit name -> entry
	forms  []string
}

// NewUnitLexicon validates entries and indexes them by surface form and by
// canonical name.
func NewUnitLexicon(entries []UnitEntry) (*UnitLexicon, error) {
	if len(entries) == 0 {
		return nil, errors.New("unit lexicon is empty")
	}
	l := &UnitLexicon{
		names:  make(map[string]UnitEntry),
		values: make(map[string]UnitEntry),
	}
	for _, e := range entries {
		if e.Name == "" || e.Code == "" {
			return nil, errors.Errorf("unit entry %+v needs a name and a code", e)
		}
		if e.Seconds <= 0 {
			return nil, errors.Errorf("unit %q has non-positive scale %v", e.Name, e.Seconds)
		}
		name := NormalizeUnit(e.Name)
		if _, dup := l.values[name]; dup {
			return nil, errors.Errorf("unit %q declared twice", e.Name)
		}
		l.values[name] = e

		for _, form := range append([]string{e.Name}, e.Forms...) {
			key := NormalizeUnit(form)
			if key == "" {
				continue
			}
			if prev, ok := l.names[key]; ok {
				if prev.Code != e.Code {
					return nil, errors.Errorf("surface form %q maps to both %s and %s", form, prev.Code, e.Code)
				}
				continue
			}
			l.names[key] = e
			l.forms = append(l.forms, key)
		}
	}
	sort.SliceStable(l.forms, func(i, j int) bool {
		if len(l.forms[i]) != len(l.forms[j]) {
			return len(l.forms[i]) > len(l.forms[j])
		}
		return l.forms[i] < l.forms[j]
	})
	return l, nil
}

// Lookup resolves a surface form through the name map.
func (l *UnitLexicon) Lookup(surface string) (UnitEntry, bool) {
	e, ok := l.names[NormalizeUnit(surface)]
	return e, ok
}

// LookupValue resolves a canonical unit name ("day", "year") through the
// value map. Aliases such as "hrs" are not found here.
func (l *UnitLexicon) LookupValue(name string) (UnitEntry, bool) {
	e, ok := l.values[NormalizeUnit(name)]
	return e, ok
}

// Alternation returns every surface form, longest first, quoted for use
// inside a regexp group.
func (l *UnitLexicon) Alternation() string {
	quoted := make([]string, len(l.forms))
	for i, f := range l.forms {
		quoted[i] = regexp.QuoteMeta(f)
	}
	return strings.Join(quoted, "|")
}

// NormalizeUnit trims, NFC-normalizes and lower-cases a unit word.
func NormalizeUnit(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(strings.TrimSpace(s)))
}
