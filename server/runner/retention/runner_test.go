package retention

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/recognizers/store"
	storetest "github.com/hrygo/recognizers/store/test"
)

func TestNewRunner_Interval(t *testing.T) {
	assert.Equal(t, time.Minute, NewRunner(nil, time.Second).interval)
	assert.Equal(t, 12*time.Minute, NewRunner(nil, 2*time.Hour).interval)
	assert.Equal(t, time.Hour, NewRunner(nil, 30*24*time.Hour).interval)
}

func TestRunner_RunOnce(t *testing.T) {
	ctx := context.Background()
	ts := storetest.NewTestingStore(ctx, t)

	_, err := ts.CreateRecognitions(ctx, []*store.Recognition{
		{Culture: "en-us", Category: "duration", Text: "5 hours", Length: 7, CreatedTs: time.Now().Add(-3 * time.Hour).Unix()},
		{Culture: "en-us", Category: "duration", Text: "2days", Length: 5},
	})
	require.NoError(t, err)

	r := NewRunner(ts, time.Hour)
	assert.Equal(t, int64(1), r.RunOnce(ctx))
	assert.Equal(t, int64(0), r.RunOnce(ctx))
}

func TestRunner_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ts := storetest.NewTestingStore(ctx, t)

	done := make(chan struct{})
	go func() {
		NewRunner(ts, time.Hour).Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}
}
