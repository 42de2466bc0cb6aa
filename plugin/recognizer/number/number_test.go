package number

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLexicon() *Lexicon {
	return &Lexicon{
		Units: map[string]float64{
			"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
			"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10, "twelve": 12,
		},
		Tens:             map[string]float64{"twenty": 20, "thirty": 30},
		Multipliers:      map[string]float64{"hundred": 100, "thousand": 1000},
		Joiners:          []string{"and"},
		DecimalSeparator: ".",
		GroupSeparator:   ",",
	}
}

func TestParser_Parse(t *testing.T) {
	p, err := NewParser(testLexicon())
	require.NoError(t, err)

	tests := []struct {
		input string
		want  float64
	}{
		{"5", 5},
		{"0.5", 0.5},
		{"1,500", 1500},
		{"1,500.25", 1500.25},
		{"five", 5},
		{"Twenty Five", 25},
		{"twenty-five", 25},
		{"one hundred and twenty", 120},
		{"two thousand three hundred", 2300},
		{"hundred", 100},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := p.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParser_Rejects(t *testing.T) {
	p, err := NewParser(testLexicon())
	require.NoError(t, err)

	for _, input := range []string{"", "abc", "one two", "twenty twelve", "and five", "five and", "1.2.3"} {
		t.Run(input, func(t *testing.T) {
			_, err := p.Parse(input)
			assert.ErrorIs(t, err, ErrNotANumber)
		})
	}
}

func TestExtractor_Extract(t *testing.T) {
	e, err := NewExtractor(testLexicon())
	require.NoError(t, err)

	text := "twenty five people waited 1,500 minutes, one two"
	var got []string
	for _, s := range e.Extract(text) {
		got = append(got, s.Text)
		assert.Equal(t, s.Text, text[s.Start:s.End()])
	}
	assert.Equal(t, []string{"twenty five", "1,500", "one", "two"}, got)

	assert.Empty(t, e.Extract("2days"))
	assert.Empty(t, e.Extract("nothing here"))
}

func TestLexicon_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Lexicon)
	}{
		{"no units", func(l *Lexicon) { l.Units = nil }},
		{"no decimal", func(l *Lexicon) { l.DecimalSeparator = "" }},
		{"same separators", func(l *Lexicon) { l.GroupSeparator = "." }},
		{"bad multiplier", func(l *Lexicon) { l.Multipliers["one"] = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := testLexicon()
			tt.mutate(lex)
			assert.Error(t, lex.Validate())
		})
	}
	var nilLex *Lexicon
	assert.Error(t, nilLex.Validate())
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "5", FormatValue(5))
	assert.Equal(t, "0.5", FormatValue(0.5))
	assert.Equal(t, "1500", FormatValue(1500))
}
