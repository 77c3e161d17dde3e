package engine

import (
	"context"
	"os"
	"path/filepath"

	"github.com/grabtube/grabtube/internal/model"
)

// StubExtractor fakes the extraction collaborator (for development and
// testing). Fetch writes a real file into the store directory so the
// resolve path is exercised end to end.
type StubExtractor struct {
	dir string
}

// NewStubExtractor creates a stub writing into dir.
func NewStubExtractor(dir string) *StubExtractor {
	return &StubExtractor{dir: dir}
}

func (e *StubExtractor) Probe(_ context.Context, url string) (*Metadata, error) {
	return &Metadata{Title: "Stub media for " + url}, nil
}

func (e *StubExtractor) Fetch(_ context.Context, url string, spec model.FormatSpec, outputStem string) (*Metadata, error) {
	name := outputStem + "." + spec.Container()
	content := []byte("stub " + spec.Kind + " content for " + url + "\n")
	if err := os.WriteFile(filepath.Join(e.dir, name), content, 0o644); err != nil {
		return nil, model.NewError(model.KindFetchError, "download failed", err)
	}
	return &Metadata{Title: "Stub media for " + url, Ext: spec.Container()}, nil
}
