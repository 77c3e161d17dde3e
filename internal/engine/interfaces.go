package engine

import (
	"context"
	"errors"

	"github.com/grabtube/grabtube/internal/model"
)

// ErrNoData is the benign "nothing found" result from the extraction
// collaborator: the URL resolved but the upstream returned no media
// (private, deleted, restricted). It is distinct from a hard fault.
var ErrNoData = errors.New("upstream returned no data")

// Metadata is what the collaborator knows about the media.
type Metadata struct {
	Title string
	Ext   string
}

// Extractor abstracts the external extraction/transcode collaborator.
// Probe resolves metadata without downloading; Fetch materializes the
// artifact under the given filename stem inside the store directory.
// Both return ErrNoData for a benign empty result and a classified
// *model.Error for hard faults.
type Extractor interface {
	Probe(ctx context.Context, url string) (*Metadata, error)
	Fetch(ctx context.Context, url string, spec model.FormatSpec, outputStem string) (*Metadata, error)
}

// TitleSource names media that the collaborator could not title.
type TitleSource interface {
	Resolve(ctx context.Context, url string) (string, error)
}
