// Package stats summarizes the persisted recognition history.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/recognizers/store"
)

// Stats is a snapshot of the recognition history.
type Stats struct {
	Total    int64
	LastDay  int64
	LastWeek int64

	ByCategory map[string]int64
	ByCulture  map[string]int64

	// LastRecognitionTime is zero when the history is empty.
	LastRecognitionTime time.Time
	LastUpdated         time.Time
}

// Observer receives the row counts of every collection, e.g. to export them
// as gauges.
type Observer interface {
	ObserveHistoryRows(culture, category string, rows int64)
}

// Collector periodically aggregates the history.
type Collector struct {
	store    *store.Store
	observer Observer
	now      func() time.Time

	mu    sync.RWMutex
	stats *Stats
}

// NewCollector creates a collector. observer may be nil.
func NewCollector(st *store.Store, observer Observer) *Collector {
	return &Collector{
		store:    st,
		observer: observer,
		now:      time.Now,
		stats:    &Stats{},
	}
}

// Start collects once and then every interval until ctx is done.
func (c *Collector) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := c.Collect(ctx); err != nil && ctx.Err() == nil {
			slog.Warn("failed to collect history stats", "error", err)
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// GetStats returns a copy of the latest snapshot.
func (c *Collector) GetStats() *Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := *c.stats
	snapshot.ByCategory = maps.Clone(c.stats.ByCategory)
	snapshot.ByCulture = maps.Clone(c.stats.ByCulture)
	return &snapshot
}

// Refresh returns the latest snapshot, collecting first when it is older
// than maxAge.
func (c *Collector) Refresh(ctx context.Context, maxAge time.Duration) (*Stats, error) {
	c.mu.RLock()
	updated := c.stats.LastUpdated
	c.mu.RUnlock()

	if updated.IsZero() || c.now().Sub(updated) >= maxAge {
		if err := c.Collect(ctx); err != nil {
			return nil, err
		}
	}
	return c.GetStats(), nil
}

// Collect aggregates the history from the store.
func (c *Collector) Collect(ctx context.Context) error {
	now := c.now()
	all, err := c.store.CountRecognitions(ctx, &store.FindRecognition{})
	if err != nil {
		return errors.Wrap(err, "failed to count history")
	}
	lastDay, err := c.countSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return err
	}
	lastWeek, err := c.countSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return err
	}

	s := &Stats{
		LastDay:     lastDay,
		LastWeek:    lastWeek,
		ByCategory:  map[string]int64{},
		ByCulture:   map[string]int64{},
		LastUpdated: now,
	}
	var lastTs int64
	for _, row := range all {
		s.Total += row.Count
		s.ByCategory[row.Category] += row.Count
		s.ByCulture[row.Culture] += row.Count
		lastTs = max(lastTs, row.LastCreatedTs)
		if c.observer != nil {
			c.observer.ObserveHistoryRows(row.Culture, row.Category, row.Count)
		}
	}
	if lastTs > 0 {
		s.LastRecognitionTime = time.Unix(lastTs, 0)
	}

	c.mu.Lock()
	c.stats = s
	c.mu.Unlock()
	return nil
}

func (c *Collector) countSince(ctx context.Context, since time.Time) (int64, error) {
	after := since.Unix()
	rows, err := c.store.CountRecognitions(ctx, &store.FindRecognition{CreatedTsAfter: &after})
	if err != nil {
		return 0, errors.Wrapf(err, "failed to count history since %s", since.Format(time.RFC3339))
	}
	var total int64
	for _, row := range rows {
		total += row.Count
	}
	return total, nil
}

// Summary renders the snapshot for terminals.
func (s *Stats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recognition history (updated %s)\n", s.LastUpdated.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "  total:     %d\n", s.Total)
	fmt.Fprintf(&b, "  last day:  %d\n", s.LastDay)
	fmt.Fprintf(&b, "  last week: %d\n", s.LastWeek)
	writeCounts(&b, "by category", s.ByCategory)
	writeCounts(&b, "by culture", s.ByCulture)
	fmt.Fprintf(&b, "  last recognition: %s\n", formatLastRecognition(s.LastRecognitionTime, s.LastUpdated))
	return b.String()
}

func writeCounts(b *strings.Builder, title string, counts map[string]int64) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s:\n", title)
	for _, k := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(b, "    %-10s %d\n", k, counts[k])
	}
}

func formatLastRecognition(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	switch {
	case d < time.Hour:
		return "just now"
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	}
	return t.Format("2006-01-02")
}
