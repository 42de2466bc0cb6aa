package datetime_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/recognizers/plugin/recognizer/culture"
	"github.com/hrygo/recognizers/plugin/recognizer/culture/english"
	"github.com/hrygo/recognizers/plugin/recognizer/culture/portuguese"
	"github.com/hrygo/recognizers/plugin/recognizer/datetime"
	"github.com/hrygo/recognizers/plugin/recognizer/model"
)

var (
	refTime      = time.Date(2026, 1, 27, 10, 0, 0, 0, time.UTC)
	timexPattern = regexp.MustCompile(`^PT?[0-9.,]+[SMHDWY]$`)
)

func newCulture(t *testing.T, build func() (*culture.Culture, error)) *culture.Culture {
	t.Helper()
	c, err := build()
	require.NoError(t, err)
	return c
}

func newDuration(t *testing.T, c *culture.Culture) (*datetime.DurationExtractor, *datetime.DurationParser) {
	t.Helper()
	ext, err := datetime.NewDurationExtractor(c.DateTime)
	require.NoError(t, err)
	parser, err := datetime.NewDurationParser(c.DateTime)
	require.NoError(t, err)
	return ext, parser
}

func TestDuration_English(t *testing.T) {
	ext, parser := newDuration(t, newCulture(t, english.New))

	tests := []struct {
		name    string
		input   string
		span    string
		start   int
		timex   string
		seconds float64
	}{
		{"separated", "I waited 5 hours", "5 hours", 9, "PT5H", 18000},
		{"fused", "2days", "2days", 0, "P2D", 172800},
		{"half an hour", "half an hour", "half an hour", 0, "PT0.5H", 1800},
		{"an hour", "it took an hour", "an hour", 8, "PT1H", 3600},
		{"all day", "all day", "all day", 0, "P1D", 86400},
		{"half year", "half year", "half year", 0, "P0.5Y", 15768000},
		{"word numeral", "twenty five minutes", "twenty five minutes", 0, "PT25M", 1500},
		{"month code", "3 months", "3 months", 0, "P3M", 7776000},
		{"fused fine unit", "1500seconds", "1500seconds", 0, "PT1500S", 1500},
		{"fused decimal", "1.5hrs", "1.5hrs", 0, "PT1.5H", 5400},
		{"decimal as written", "1.50 hours", "1.50 hours", 0, "PT1.50H", 5400},
		{"trailing zero", "3.0 days", "3.0 days", 0, "P3.0D", 259200},
		{"grouped", "1,500 minutes", "1,500 minutes", 0, "PT1500M", 90000},
		{"fused grouped", "1,000years", "1,000years", 0, "P1000Y", 31536000000},
		{"abbreviation", "wait 10 mins", "10 mins", 5, "PT10M", 600},
		{"upper case", "5 HOURS", "5 HOURS", 0, "PT5H", 18000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := ext.Extract(tt.input)
			require.Len(t, spans, 1)
			s := spans[0]
			assert.Equal(t, tt.span, s.Text)
			assert.Equal(t, tt.start, s.Start)
			assert.Equal(t, model.CategoryDuration, s.Category)

			out := parser.Parse(s, refTime)
			require.True(t, out.Resolved())
			assert.Equal(t, tt.timex, out.TimexStr)
			assert.Equal(t, tt.timex, out.Value.Timex)
			assert.Regexp(t, timexPattern, out.TimexStr)
			assert.Equal(t, tt.seconds, out.Value.FutureValue)
			assert.Equal(t, out.Value.FutureValue, out.Value.PastValue)
			assert.Equal(t, model.FormatNumber(tt.seconds), out.Value.FutureResolution[model.ResolutionDuration])
			assert.Equal(t, out.Value.FutureResolution, out.Value.PastResolution)
		})
	}
}

func TestDuration_NoMatch(t *testing.T) {
	ext, parser := newDuration(t, newCulture(t, english.New))

	assert.Empty(t, ext.Extract("xyz"))
	assert.Empty(t, ext.Extract(""))

	v := parser.Resolve("xyz")
	assert.False(t, v.Success)
	assert.Empty(t, v.Timex)
	assert.Zero(t, v.FutureValue)
	assert.Nil(t, v.FutureResolution)
}

func TestDuration_FusedCoarseGuard(t *testing.T) {
	ext, parser := newDuration(t, newCulture(t, english.New))

	for _, input := range []string{"1500years", "2000weeks", "1001months", "1,500years"} {
		t.Run(input, func(t *testing.T) {
			spans := ext.Extract(input)
			require.Len(t, spans, 1)
			assert.Equal(t, input, spans[0].Text)
			out := parser.Parse(spans[0], refTime)
			assert.False(t, out.Resolved())
			assert.Nil(t, out.Value)
			assert.Empty(t, out.TimexStr)
		})
	}

	v := parser.Resolve("1000years")
	require.True(t, v.Success)
	assert.Equal(t, "P1000Y", v.Timex)

	ext, parser = newDuration(t, newCulture(t, portuguese.New))
	spans := ext.Extract("1.500anos")
	require.Len(t, spans, 1)
	assert.Equal(t, "1.500anos", spans[0].Text)
	assert.False(t, parser.Parse(spans[0], refTime).Resolved())
}

func TestDuration_RulePrecedence(t *testing.T) {
	ext, _ := newDuration(t, newCulture(t, english.New))

	text := "He spent 3 days and half an hour there, then 2weeks, then all day."
	spans := ext.Extract(text)

	var got []string
	for _, s := range spans {
		got = append(got, s.Text)
		assert.Equal(t, s.Text, text[s.Start:s.End()])
	}
	assert.Equal(t, []string{"3 days", "half an hour", "2weeks", "all day"}, got)

	for i := 1; i < len(spans); i++ {
		assert.False(t, spans[i-1].Overlaps(spans[i]))
		assert.Less(t, spans[i-1].Start, spans[i].Start)
	}
}

func TestDuration_Idempotent(t *testing.T) {
	ext, parser := newDuration(t, newCulture(t, english.New))

	text := "twenty minutes, 2days and half year"
	first := ext.Extract(text)
	second := ext.Extract(text)
	assert.Equal(t, first, second)
	for _, s := range first {
		assert.Equal(t, parser.Parse(s, refTime), parser.Parse(s, refTime))
	}
}

func TestDuration_WrongCategory(t *testing.T) {
	_, parser := newDuration(t, newCulture(t, english.New))

	span := model.NewSpan("5 hours", 0, 7, model.CategoryCurrency)
	out := parser.Parse(span, refTime)
	assert.Nil(t, out.Value)
	assert.Equal(t, span, out.CandidateSpan)
}

func TestDuration_Portuguese(t *testing.T) {
	ext, parser := newDuration(t, newCulture(t, portuguese.New))

	tests := []struct {
		input   string
		span    string
		timex   string
		seconds float64
	}{
		{"Ação: 5 horas", "5 horas", "PT5H", 18000},
		{"dois dias", "dois dias", "P2D", 172800},
		{"meia hora", "meia hora", "PT0.5H", 1800},
		{"o dia todo", "o dia todo", "P1D", 86400},
		{"3semanas", "3semanas", "P3W", 1814400},
		{"1,5 horas", "1,5 horas", "PT1.5H", 5400},
		{"2,50horas", "2,50horas", "PT2.50H", 9000},
		{"dois meses", "dois meses", "P2M", 5184000},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			spans := ext.Extract(tt.input)
			require.Len(t, spans, 1)
			s := spans[0]
			assert.Equal(t, tt.span, s.Text)
			assert.Equal(t, tt.span, tt.input[s.Start:s.End()])

			out := parser.Parse(s, refTime)
			require.True(t, out.Resolved())
			assert.Equal(t, tt.timex, out.TimexStr)
			assert.Equal(t, tt.seconds, out.Value.FutureValue)
		})
	}
}

func TestDurationTimex(t *testing.T) {
	tests := []struct {
		num, code, want string
	}{
		{"5", datetime.CodeHour, "PT5H"},
		{"0.5", datetime.CodeMinute, "PT0.5M"},
		{"30", datetime.CodeSecond, "PT30S"},
		{"2", datetime.CodeDay, "P2D"},
		{"3", datetime.CodeMonth, "P3M"},
		{"1", datetime.CodeWeek, "P1W"},
		{"0.5", datetime.CodeYear, "P0.5Y"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, datetime.DurationTimex(tt.num, tt.code))
	}
}
