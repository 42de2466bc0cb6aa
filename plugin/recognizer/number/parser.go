package number

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// ErrNotANumber is returned when a text span cannot be interpreted as a numeral.
var ErrNotANumber = errors.New("not a number")

var tokenPattern = regexp.MustCompile(`[^\s\-]+`)

// Parser converts numeral text into a numeric value.
type Parser struct {
	lex *Lexicon
}

// NewParser creates a parser for the given lexicon.
func NewParser(lex *Lexicon) (*Parser, error) {
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return &Parser{lex: lex}, nil
}

// Parse returns the value of a digit or spelled-out numeral.
func (p *Parser) Parse(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrNotANumber
	}
	if r := []rune(text)[0]; unicode.IsDigit(r) {
		return p.parseDigits(text)
	}
	return p.parseWords(text)
}

func (p *Parser) parseDigits(text string) (float64, error) {
	if p.lex.GroupSeparator != "" {
		text = strings.ReplaceAll(text, p.lex.GroupSeparator, "")
	}
	if p.lex.DecimalSeparator != "." {
		text = strings.ReplaceAll(text, p.lex.DecimalSeparator, ".")
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrNotANumber, "%q", text)
	}
	return v, nil
}

// parseWords accumulates number words left to right. An additive word must be
// smaller than the decimal place of the one before it, so "twenty five" is
// accepted while "one two" and "twenty twelve" are not.
func (p *Parser) parseWords(text string) (float64, error) {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(tokens) == 0 {
		return 0, ErrNotANumber
	}
	if p.lex.isJoiner(tokens[0]) || p.lex.isJoiner(tokens[len(tokens)-1]) {
		return 0, errors.Wrapf(ErrNotANumber, "%q starts or ends with a joiner", text)
	}

	var total, current, last float64
	for _, tok := range tokens {
		if p.lex.isJoiner(tok) {
			continue
		}
		v, mult, ok := p.lex.lookup(tok)
		if !ok {
			return 0, errors.Wrapf(ErrNotANumber, "unknown number word %q", tok)
		}
		if mult {
			if current == 0 {
				current = 1
			}
			if v >= 1000 {
				total += current * v
				current, last = 0, 0
			} else {
				current *= v
				last = v
			}
			continue
		}
		if last != 0 && v >= place(last) {
			return 0, errors.Wrapf(ErrNotANumber, "%q cannot follow %v", tok, last)
		}
		current += v
		last = v
	}
	return total + current, nil
}

// place returns the decimal place of v: 1 for 7, 10 for 20, 100 for 300.
func place(v float64) float64 {
	if v < 1 {
		return 1
	}
	return math.Pow(10, math.Floor(math.Log10(v)))
}

// FormatValue renders v as its shortest exact decimal text.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
