package number

import (
	"regexp"
	"sort"
)

// Span is a recognized numeral inside a larger text, in byte offsets.
type Span struct {
	Start  int
	Length int
	Text   string
}

// End returns the exclusive end offset of the span.
func (s Span) End() int {
	return s.Start + s.Length
}

// Extractor finds cardinal numerals in free text.
type Extractor struct {
	lex    *Lexicon
	parser *Parser
	digits *regexp.Regexp
	words  *regexp.Regexp
}

// NewExtractor compiles the digit and word patterns for lex.
func NewExtractor(lex *Lexicon) (*Extractor, error) {
	parser, err := NewParser(lex)
	if err != nil {
		return nil, err
	}

	dec := regexp.QuoteMeta(lex.DecimalSeparator)
	digits := `\d+(?:` + dec + `\d+)?`
	if lex.GroupSeparator != "" {
		grp := regexp.QuoteMeta(lex.GroupSeparator)
		digits = `\d{1,3}(?:` + grp + `\d{3})+(?:` + dec + `\d+)?|` + digits
	}

	word := `(?:` + alternation(lex.words()) + `)`
	sep := `(?:\s*-\s*|\s+)`
	if len(lex.Joiners) > 0 {
		sep = `(?:\s+(?:` + alternation(lex.Joiners) + `)\s+|\s*-\s*|\s+)`
	}

	return &Extractor{
		lex:    lex,
		parser: parser,
		digits: regexp.MustCompile(`\b(?:` + digits + `)\b`),
		words:  regexp.MustCompile(`(?i)\b` + word + `(?:` + sep + word + `)*\b`),
	}, nil
}

// Extract returns the numerals of text ordered by start offset. Digit
// numerals take precedence over overlapping word runs.
func (e *Extractor) Extract(text string) []Span {
	var spans []Span
	for _, loc := range e.digits.FindAllStringIndex(text, -1) {
		spans = append(spans, newSpan(text, loc[0], loc[1]))
	}
	for _, loc := range e.words.FindAllStringIndex(text, -1) {
		for _, s := range e.splitRun(text, loc[0], loc[1]) {
			if !overlapsAny(spans, s) {
				spans = append(spans, s)
			}
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

// splitRun turns a run of number words into one or more parseable numerals:
// "one hundred and twenty" stays whole, "one two" becomes "one" and "two".
func (e *Extractor) splitRun(text string, start, end int) []Span {
	if _, err := e.parser.Parse(text[start:end]); err == nil {
		return []Span{newSpan(text, start, end)}
	}

	locs := tokenPattern.FindAllStringIndex(text[start:end], -1)
	var spans []Span
	for i := 0; i < len(locs); {
		s := start + locs[i][0]
		if e.lex.isJoiner(text[s : start+locs[i][1]]) {
			i++
			continue
		}
		best, bestIdx := start+locs[i][1], i
		for j := i + 1; j < len(locs); j++ {
			tok := text[start+locs[j][0] : start+locs[j][1]]
			if e.lex.isJoiner(tok) {
				continue
			}
			cand := start + locs[j][1]
			if _, err := e.parser.Parse(text[s:cand]); err != nil {
				break
			}
			best, bestIdx = cand, j
		}
		spans = append(spans, newSpan(text, s, best))
		i = bestIdx + 1
	}
	return spans
}

// Parse parses a numeral span; it makes Extractor usable wherever both
// extraction and parsing are needed.
func (e *Extractor) Parse(text string) (float64, error) {
	return e.parser.Parse(text)
}

func newSpan(text string, start, end int) Span {
	return Span{Start: start, Length: end - start, Text: text[start:end]}
}

func overlapsAny(spans []Span, s Span) bool {
	for _, o := range spans {
		if s.Start < o.End() && o.Start < s.End() {
			return true
		}
	}
	return false
}
