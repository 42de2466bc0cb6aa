package culture

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Keywords implements the keyword detectors of datetime.Config from word lists.
type Keywords struct {
	fuzzy      map[string]bool
	connectors map[string]bool
	ago        *regexp.Regexp
	later      *regexp.Regexp
	in         *regexp.Regexp
}

// NewKeywords compiles the keyword lists.
func NewKeywords(k KeywordData) (*Keywords, error) {
	if len(k.Ago) == 0 || len(k.Later) == 0 || len(k.In) == 0 {
		return nil, errors.New("ago, later and in keywords are required")
	}
	return &Keywords{
		fuzzy:      phraseSet(k.Fuzzy),
		connectors: phraseSet(k.Connectors),
		ago:        regexp.MustCompile(`(?i)^\s*(?:` + phraseAlternation(k.Ago) + `)`),
		later:      regexp.MustCompile(`(?i)^\s*(?:` + phraseAlternation(k.Later) + `)`),
		in:         regexp.MustCompile(`(?i)(?:^|\s)(` + phraseAlternation(k.In) + `)\s*$`),
	}, nil
}

// IsFuzzy reports whether text is an approximating modifier.
func (k *Keywords) IsFuzzy(text string) bool {
	return k.fuzzy[normalizePhrase(text)]
}

// IsConnector reports whether text joins two expressions.
func (k *Keywords) IsConnector(text string) bool {
	return k.connectors[normalizePhrase(text)]
}

// AgoIndex reports whether text opens with a past anchor and returns the
// offset just past it.
func (k *Keywords) AgoIndex(text string) (int, bool) {
	return leadingIndex(k.ago, text)
}

// LaterIndex reports whether text opens with a future anchor and returns the
// offset just past it.
func (k *Keywords) LaterIndex(text string) (int, bool) {
	return leadingIndex(k.later, text)
}

// InIndex reports whether text closes with a future prefix and returns the
// offset where it starts.
func (k *Keywords) InIndex(text string) (int, bool) {
	m := k.in.FindStringSubmatchIndex(text)
	if m == nil {
		return 0, false
	}
	return m[2], true
}

// leadingIndex matches re at the start of text and requires the keyword to
// end on a word boundary, including after accented letters.
func leadingIndex(re *regexp.Regexp, text string) (int, bool) {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return 0, false
	}
	if loc[1] < len(text) {
		next, _ := utf8.DecodeRuneInString(text[loc[1]:])
		last, _ := utf8.DecodeLastRuneInString(text[:loc[1]])
		if isWord(last) && isWord(next) {
			return 0, false
		}
	}
	return loc[1], true
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// phraseAlternation quotes phrases longest first and lets their inner spaces
// match any whitespace run.
func phraseAlternation(phrases []string) string {
	sorted := append([]string(nil), phrases...)
	sortLongestFirst(sorted)
	quoted := make([]string, 0, len(sorted))
	for _, p := range sorted {
		words := strings.Fields(p)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		quoted = append(quoted, strings.Join(words, `\s+`))
	}
	return strings.Join(quoted, "|")
}

func phraseSet(phrases []string) map[string]bool {
	set := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		set[normalizePhrase(p)] = true
	}
	return set
}

func normalizePhrase(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
