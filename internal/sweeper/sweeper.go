// Package sweeper removes artifacts that outlived the retention window.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/grabtube/grabtube/internal/store"
)

// FileStore is the slice of the artifact store the sweeper needs.
type FileStore interface {
	List(ctx context.Context) ([]store.FileInfo, error)
	Delete(ctx context.Context, name string) (bool, error)
}

// Sweeper periodically scans the store and deletes files older than the
// retention TTL.
type Sweeper struct {
	store    FileStore
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

// New creates a Sweeper over the given store.
func New(fs FileStore, ttl, interval time.Duration) *Sweeper {
	return &Sweeper{store: fs, ttl: ttl, interval: interval, now: time.Now}
}

// Start runs sweep passes on the configured interval. It blocks until ctx
// is cancelled. A failing pass is logged and the loop continues; cleanup
// must never die.
func (s *Sweeper) Start(ctx context.Context) {
	slog.Info("sweeper started", "ttl", s.ttl.String(), "interval", s.interval.String())
	for {
		// Sweep first so artifacts left over from a previous run don't
		// wait a full interval after restart.
		s.RunOnce(ctx)

		select {
		case <-ctx.Done():
			slog.Info("sweeper stopped")
			return
		case <-time.After(s.interval):
		}
	}
}

// RunOnce performs a single sweep pass and reports how many files were
// removed. Per-file failures are logged and skipped so one bad entry never
// aborts the pass.
func (s *Sweeper) RunOnce(ctx context.Context) int {
	files, err := s.store.List(ctx)
	if err != nil {
		slog.Error("sweep list failed", "error", err)
		return 0
	}

	removed := 0
	now := s.now()
	for _, f := range files {
		age := now.Sub(f.ModifiedAt)
		if age <= s.ttl {
			continue
		}
		ok, err := s.store.Delete(ctx, f.Name)
		if err != nil {
			slog.Error("sweep delete failed", "file", f.Name, "error", err)
			continue
		}
		if ok {
			removed++
			slog.Info("swept expired artifact", "file", f.Name, "age", age.Truncate(time.Second).String())
		}
	}
	return removed
}
