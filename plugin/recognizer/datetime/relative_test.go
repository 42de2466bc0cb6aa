package datetime_test

import (
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

func newRelative(t *testing.T, c *culture.Culture) (*datetime.RelativeExtractor, *datetime.RelativeParser) {
	t.Helper()
	ext, err := datetime.NewRelativeExtractor(c.DateTime)
	require.NoError(t, err)
	parser, err := datetime.NewRelativeParser(c.DateTime)
	require.NoError(t, err)
	return ext, parser
}

func TestRelative_English(t *testing.T) {
	ext, parser := newRelative(t, newCulture(t, english.New))

	tests := []struct {
		name   string
		input  string
		span   string
		timex  string
		when   time.Time
		approx bool
	}{
		{"ago", "I left 3 days ago", "3 days ago", "2026-01-24T10:00:00", refTime.AddDate(0, 0, -3), false},
		{"in", "back in 2 hours", "in 2 hours", "2026-01-27T12:00:00", refTime.Add(2 * time.Hour), false},
		{"fuzzy in", "in about 2 hours", "in about 2 hours", "2026-01-27T12:00:00", refTime.Add(2 * time.Hour), true},
		{"fuzzy ago", "roughly an hour ago", "roughly an hour ago", "2026-01-27T09:00:00", refTime.Add(-time.Hour), true},
		{"chained later", "1 hour and 30 minutes later", "1 hour and 30 minutes later", "2026-01-27T11:30:00", refTime.Add(90 * time.Minute), false},
		{"from now", "3 days from now", "3 days from now", "2026-01-30T10:00:00", refTime.AddDate(0, 0, 3), false},
		{"end of day", "by the end of the day", "the end of the day", "2026-01-27T23:59:59", time.Date(2026, 1, 27, 23, 59, 59, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := ext.Extract(tt.input)
			require.Len(t, spans, 1)
			s := spans[0]
			assert.Equal(t, tt.span, s.Text)
			assert.Equal(t, model.CategoryDateTime, s.Category)

			out := parser.Parse(s, refTime)
			require.True(t, out.Resolved())
			assert.Equal(t, tt.timex, out.TimexStr)
			assert.Equal(t, float64(tt.when.Unix()), out.Value.FutureValue)
			assert.Equal(t, out.Value.FutureValue, out.Value.PastValue)
			assert.Equal(t, tt.when.Format(time.RFC3339), out.Value.FutureResolution[model.ResolutionDateTime])
			if tt.approx {
				assert.Equal(t, datetime.ModApprox, out.Value.FutureResolution[model.ResolutionMod])
			} else {
				assert.NotContains(t, out.Value.FutureResolution, model.ResolutionMod)
			}
		})
	}
}

func TestRelative_Now(t *testing.T) {
	ext, parser := newRelative(t, newCulture(t, english.New))

	spans := ext.Extract("call me right now")
	require.Len(t, spans, 1)
	assert.Equal(t, "right now", spans[0].Text)

	out := parser.Parse(spans[0], refTime)
	require.True(t, out.Resolved())
	assert.Equal(t, datetime.TimexPresentRef, out.TimexStr)
	assert.Equal(t, float64(refTime.Unix()), out.Value.FutureValue)
}

func TestRelative_UnanchoredDurationIgnored(t *testing.T) {
	ext, parser := newRelative(t, newCulture(t, english.New))

	assert.Empty(t, ext.Extract("it takes 5 hours"))
	assert.False(t, parser.Resolve("5 hours", refTime).Success)

	span := model.NewSpan("3 days ago", 0, 10, model.CategoryDuration)
	assert.Nil(t, parser.Parse(span, refTime).Value)
}

func TestRelative_Portuguese(t *testing.T) {
	ext, parser := newRelative(t, newCulture(t, portuguese.New))

	tests := []struct {
		input string
		span  string
		when  time.Time
	}{
		{"saiu 3 dias atrás", "3 dias atrás", refTime.AddDate(0, 0, -3)},
		{"volto daqui a 2 horas", "daqui a 2 horas", refTime.Add(2 * time.Hour)},
		{"uma semana depois", "uma semana depois", refTime.AddDate(0, 0, 7)},
		{"agora mesmo", "agora mesmo", refTime},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			spans := ext.Extract(tt.input)
			require.Len(t, spans, 1)
			assert.Equal(t, tt.span, spans[0].Text)

			out := parser.Parse(spans[0], refTime)
			require.True(t, out.Resolved())
			assert.Equal(t, float64(tt.when.Unix()), out.Value.FutureValue)
		})
	}
}
