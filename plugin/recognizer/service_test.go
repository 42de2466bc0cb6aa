package recognizer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/recognizers/plugin/filter"
	"github.com/hrygo/recognizers/plugin/recognizer/model"
)

var refTime = time.Date(2026, 1, 27, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, opts Options) *Service {
	t.Helper()
	svc, err := NewService(opts)
	require.NoError(t, err)
	svc.now = func() time.Time { return refTime }
	return svc
}

func texts(outcomes []model.ParseOutcome) []string {
	var out []string
	for _, o := range outcomes {
		out = append(out, o.Text)
	}
	return out
}

func TestService_Recognize(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()

	text := "Lunch took 2 hours and cost 30 dollars; I left 3 days ago."
	out, err := svc.Recognize(ctx, Request{Text: text, Reference: refTime})
	require.NoError(t, err)
	assert.Equal(t, []string{"2 hours", "30 dollars", "3 days ago"}, texts(out))

	assert.Equal(t, model.CategoryDuration, out[0].Category)
	assert.Equal(t, "PT2H", out[0].TimexStr)
	assert.Equal(t, model.CategoryCurrency, out[1].Category)
	assert.Equal(t, "30 Dollar", out[1].TimexStr)
	assert.Equal(t, model.CategoryDateTime, out[2].Category)
	assert.Equal(t, "2026-01-24T10:00:00", out[2].TimexStr)
	for _, o := range out {
		assert.Equal(t, o.Text, text[o.Start:o.End()])
	}
}

func TestService_DefaultReference(t *testing.T) {
	svc := newTestService(t, Options{})
	out, err := svc.Recognize(context.Background(), Request{Text: "in 1 hour"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "2026-01-27T11:00:00", out[0].TimexStr)
}

func TestService_Cultures(t *testing.T) {
	svc := newTestService(t, Options{DefaultCulture: "pt_BR"})
	assert.Equal(t, []CultureInfo{
		{Code: "en-us", Name: "English"},
		{Code: "pt-br", Name: "Portuguese", Default: true},
	}, svc.Cultures())
	assert.Equal(t, "pt-br", svc.DefaultCulture())

	out, err := svc.Recognize(context.Background(), Request{Text: "meia hora", Reference: refTime})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "PT0.5H", out[0].TimexStr)
}

func TestService_Errors(t *testing.T) {
	svc := newTestService(t, Options{Cultures: []string{"en-us"}, MaxTextBytes: 16})
	ctx := context.Background()

	_, err := svc.Recognize(ctx, Request{Culture: "pt-br", Text: "5 horas"})
	assert.ErrorIs(t, err, ErrUnsupportedCulture)

	_, err = svc.Recognize(ctx, Request{Text: "this text is far too long"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Recognize(ctx, Request{Text: "5 hours", Filter: "category =="})
	assert.ErrorIs(t, err, filter.ErrInvalid)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.Recognize(cancelled, Request{Text: "5 hours"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewService(Options{Cultures: []string{"xx-yy"}})
	assert.ErrorIs(t, err, ErrUnsupportedCulture)
	_, err = NewService(Options{Cultures: []string{"en-us"}, DefaultCulture: "pt-br"})
	assert.ErrorIs(t, err, ErrUnsupportedCulture)
}

func TestService_Filter(t *testing.T) {
	svc := newTestService(t, Options{})
	out, err := svc.Recognize(context.Background(), Request{
		Text:      "5 hours, 10 euros and 1500years",
		Reference: refTime,
		Filter:    `category == "duration" && success`,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"5 hours"}, texts(out))
}

func TestService_CallerOwnsOutcomes(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()

	for _, expr := range []string{"", "success"} {
		req := Request{Text: "it took 5 hours", Reference: refTime, Filter: expr}
		first, err := svc.Recognize(ctx, req)
		require.NoError(t, err)
		require.Len(t, first, 1)
		require.NotNil(t, first[0].Value)
		require.NotEmpty(t, first[0].Value.FutureResolution)
		want := *first[0].Clone().Value

		first[0].Value.Timex = "PT0S"
		for k := range first[0].Value.FutureResolution {
			first[0].Value.FutureResolution[k] = "0"
		}
		delete(first[0].Value.PastResolution, model.ResolutionDuration)

		second, err := svc.Recognize(ctx, req)
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, want, *second[0].Value, "filter %q", expr)
	}
}

func TestService_RecognizeBatch(t *testing.T) {
	svc := newTestService(t, Options{Concurrency: 2})
	reqs := []Request{
		{Text: "5 hours", Reference: refTime},
		{Text: "dois dias", Culture: "pt-br", Reference: refTime},
		{Text: "nothing here", Reference: refTime},
		{Text: "all day", Reference: refTime},
	}
	results, err := svc.RecognizeBatch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, []string{"5 hours"}, texts(results[0]))
	assert.Equal(t, []string{"dois dias"}, texts(results[1]))
	assert.Empty(t, results[2])
	assert.Equal(t, "P1D", results[3][0].TimexStr)

	reqs[2].Culture = "xx-yy"
	_, err = svc.RecognizeBatch(context.Background(), reqs)
	assert.ErrorIs(t, err, ErrUnsupportedCulture)
}

func TestService_RecognizeMarkdown(t *testing.T) {
	svc := newTestService(t, Options{})
	src := "# Notes\n\nThe build takes **2 hours**.\n\n```\nsleep 5 hours\n```\n"
	out, err := svc.RecognizeMarkdown(context.Background(), Request{Text: src, Reference: refTime})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "2 hours", out[0].Text)
	assert.Equal(t, "2 hours", src[out[0].Start:out[0].End()])
}

func TestService_ConcurrentUse(t *testing.T) {
	svc := newTestService(t, Options{CacheSize: 8})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := svc.Recognize(context.Background(), Request{Text: "half an hour and 2days", Reference: refTime})
			assert.NoError(t, err)
			assert.Equal(t, []string{"half an hour", "2days"}, texts(out))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, svc.cache.size())
}

func TestOutcomeCache(t *testing.T) {
	c := newOutcomeCache(2, time.Minute)
	now := refTime
	c.now = func() time.Time { return now }

	c.set("a", []model.ParseOutcome{{}})
	c.set("b", nil)
	_, ok := c.get("a")
	require.True(t, ok)
	c.set("c", nil)

	_, ok = c.get("b")
	assert.False(t, ok, "least recently used entry is evicted")
	_, ok = c.get("a")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.get("a")
	assert.False(t, ok, "expired entry is dropped")
	assert.Equal(t, 1, c.size())
}
