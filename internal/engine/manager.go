// Package engine holds the download job manager and the extraction
// collaborator implementations it drives.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/grabtube/grabtube/internal/model"
	"github.com/grabtube/grabtube/internal/store"
)

// Manager orchestrates one download submission: identifier generation,
// format resolution, the probe-then-fetch protocol against the extraction
// collaborator, and artifact resolution. Submissions are independent; the
// manager never serializes one behind another.
type Manager struct {
	store        store.Resolver
	extractor    Extractor
	titles       TitleSource
	fetchTimeout time.Duration
	now          func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewManager creates a Manager. titles may be nil, in which case untitled
// media falls straight back to the default title.
func NewManager(s store.Resolver, ex Extractor, titles TitleSource, fetchTimeout time.Duration) *Manager {
	return &Manager{
		store:        s,
		extractor:    ex,
		titles:       titles,
		fetchTimeout: fetchTimeout,
		now:          time.Now,
		inflight:     make(map[string]struct{}),
	}
}

// Submit runs one download job to completion and returns the resolved
// artifact, or a classified error from the taxonomy. The collaborator is
// never called for an unusable request.
func (m *Manager) Submit(ctx context.Context, url, kind, quality string) (*model.Job, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, model.NewError(model.KindInvalidRequest, "URL required", nil)
	}

	id := m.reserveID()
	defer m.releaseID(id)

	spec := model.NewFormatSpec(kind, quality)
	job := &model.Job{
		ID:        id,
		URL:       url,
		Spec:      spec,
		Kind:      spec.Kind,
		CreatedAt: m.now(),
	}

	// Probe first: a clearly dead URL must not trigger a fetch, which can
	// do expensive partial work before failing.
	probeMeta, err := m.extractor.Probe(ctx, url)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			slog.Warn("probe returned no data", "job_id", id, "url", url)
			return nil, noDataError(err)
		}
		return nil, classified(err)
	}

	fctx, cancel := context.WithTimeout(ctx, m.fetchTimeout)
	defer cancel()

	fetchMeta, err := m.extractor.Fetch(fctx, url, spec, id)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			slog.Warn("fetch returned no data", "job_id", id, "url", url)
			return nil, noDataError(err)
		}
		slog.Error("fetch failed", "job_id", id, "url", url, "error", err)
		return nil, classified(err)
	}

	// The collaborator reported success; the artifact must exist. A miss
	// here means a partial write or a crash mid-merge.
	filename, err := m.store.Resolve(ctx, id)
	if err != nil {
		slog.Error("artifact missing after successful fetch", "job_id", id, "url", url, "error", err)
		return nil, model.NewError(model.KindArtifactMissing,
			"download completed but no file was produced", err)
	}

	job.Filename = filename
	job.Title = m.resolveTitle(ctx, url, fetchMeta, probeMeta)

	slog.Info("job resolved", "job_id", id, "file", filename, "type", job.Kind)
	return job, nil
}

// reserveID hands out a fresh job identifier. The stem is the Unix second;
// same-second submissions get a -N suffix. An identifier is taken while a
// submission holds it in flight or while any file with that stem exists in
// the store.
func (m *Manager) reserveID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	base := strconv.FormatInt(m.now().Unix(), 10)
	id := base
	for n := 1; ; n++ {
		_, busy := m.inflight[id]
		if !busy && !m.store.Contains(id) {
			break
		}
		id = base + "-" + strconv.Itoa(n)
	}
	m.inflight[id] = struct{}{}
	return id
}

func (m *Manager) releaseID(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inflight, id)
}

// resolveTitle picks the first usable title: fetch metadata, probe
// metadata, the page-title fallback, then the default.
func (m *Manager) resolveTitle(ctx context.Context, url string, candidates ...*Metadata) string {
	for _, meta := range candidates {
		if meta != nil && strings.TrimSpace(meta.Title) != "" {
			return strings.TrimSpace(meta.Title)
		}
	}
	if m.titles != nil {
		if title, err := m.titles.Resolve(ctx, url); err == nil && strings.TrimSpace(title) != "" {
			return strings.TrimSpace(title)
		}
	}
	return model.DefaultTitle
}

func noDataError(cause error) error {
	return model.NewError(model.KindUpstreamUnavailable,
		"video unavailable (private, deleted or restricted)", cause)
}

// classified guarantees a taxonomy error: adapters return *model.Error
// already, but anything else crossing the boundary becomes a FetchError.
func classified(err error) error {
	var ce *model.Error
	if errors.As(err, &ce) {
		return ce
	}
	return model.NewError(model.KindFetchError, "download failed", err)
}
