package sweeper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grabtube/grabtube/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "downloads"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func writeAged(t *testing.T, s *store.Store, name string, age time.Duration) {
	t.Helper()
	path := filepath.Join(s.Dir(), name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestRunOnce_RemovesOnlyExpired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	writeAged(t, s, "old.mp4", 2*time.Hour)
	writeAged(t, s, "older.mp3", 3*time.Hour)
	writeAged(t, s, "fresh.mp4", time.Minute)

	sw := New(s, time.Hour, time.Minute)
	if removed := sw.RunOnce(ctx); removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	files, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Name != "fresh.mp4" {
		t.Errorf("surviving files = %+v, want only fresh.mp4", files)
	}
}

func TestRunOnce_AgeBoundary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mtime := time.Now().Add(-time.Hour)
	path := filepath.Join(s.Dir(), "boundary.mp4")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	// Age exactly equal to the TTL is not yet expired; pin the clock so
	// the comparison is deterministic.
	sw := New(s, time.Hour, time.Minute)
	sw.now = func() time.Time { return mtime.Add(time.Hour) }
	if removed := sw.RunOnce(ctx); removed != 0 {
		t.Errorf("removed = %d, want 0 (age == ttl is not expired)", removed)
	}

	sw.now = func() time.Time { return mtime.Add(time.Hour + time.Second) }
	if removed := sw.RunOnce(ctx); removed != 1 {
		t.Errorf("removed = %d, want 1 once past the ttl", removed)
	}
}

// failingStore wraps a real store and fails deletion of one file.
type failingStore struct {
	*store.Store
	failName string
}

func (f *failingStore) Delete(ctx context.Context, name string) (bool, error) {
	if name == f.failName {
		return false, errors.New("simulated delete failure")
	}
	return f.Store.Delete(ctx, name)
}

func TestRunOnce_ContinuesPastFailures(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	writeAged(t, s, "bad.mp4", 2*time.Hour)
	writeAged(t, s, "good.mp4", 2*time.Hour)

	sw := New(&failingStore{Store: s, failName: "bad.mp4"}, time.Hour, time.Minute)
	if removed := sw.RunOnce(ctx); removed != 1 {
		t.Errorf("removed = %d, want 1 (failure skipped, pass continues)", removed)
	}
}

// staleStore returns a listing containing a file a client already deleted.
type staleStore struct {
	*store.Store
	stale store.FileInfo
}

func (f *staleStore) List(ctx context.Context) ([]store.FileInfo, error) {
	files, err := f.Store.List(ctx)
	return append(files, f.stale), err
}

func TestRunOnce_ToleratesConcurrentDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// A client delete landed between the sweeper's List and Delete: the
	// listing still names the file but it is gone from disk.
	fs := &staleStore{Store: s, stale: store.FileInfo{
		Name:       "gone.mp4",
		ModifiedAt: time.Now().Add(-2 * time.Hour),
	}}

	sw := New(fs, time.Hour, time.Minute)
	if removed := sw.RunOnce(ctx); removed != 0 {
		t.Errorf("removed = %d, want 0 (already gone is success, not a removal)", removed)
	}
}

func TestStart_StopsOnCancel(t *testing.T) {
	s := newTestStore(t)
	sw := New(s, time.Hour, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sw.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancel")
	}
}
