package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/hrygo/recognizers/store"
)

// Runner periodically removes recognition history older than the retention.
type Runner struct {
	store     *store.Store
	retention time.Duration
	interval  time.Duration
}

// NewRunner creates a history pruning runner. The check interval is a tenth of
// the retention, clamped to [1m, 1h].
func NewRunner(store *store.Store, retention time.Duration) *Runner {
	interval := retention / 10
	if interval < time.Minute {
		interval = time.Minute
	}
	if interval > time.Hour {
		interval = time.Hour
	}
	return &Runner{
		store:     store,
		retention: retention,
		interval:  interval,
	}
}

// Run prunes once on startup and then on every tick until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunOnce(ctx)
		case <-ctx.Done():
			slog.Info("retention runner stopped")
			return
		}
	}
}

// RunOnce prunes expired history and returns the number of removed rows.
func (r *Runner) RunOnce(ctx context.Context) int64 {
	removed, err := r.store.PruneRecognitions(ctx, r.retention)
	if err != nil {
		slog.Error("failed to prune recognition history", "error", err)
		return 0
	}
	if removed > 0 {
		slog.Info("pruned recognition history", "removed", removed, "retention", r.retention.String())
	}
	return removed
}
