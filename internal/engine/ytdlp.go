package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"

	"github.com/grabtube/grabtube/internal/model"
)

const (
	// downloadRetries is passed through to the collaborator's own retry
	// hooks for both whole-file and fragment retries.
	downloadRetries = "5"

	// playerClients keeps extraction working against current YouTube;
	// the android client is the more stable of the two.
	playerClients = "youtube:player_client=android,web"
)

// YTDLPExtractor drives the yt-dlp binary through go-ytdlp.
type YTDLPExtractor struct {
	dir           string
	binaryPath    string
	socketTimeout float64
}

// NewYTDLPExtractor creates an extractor writing artifacts into dir.
// binaryPath may be empty, in which case yt-dlp is resolved from PATH.
func NewYTDLPExtractor(dir, binaryPath string, socketTimeoutSeconds float64) *YTDLPExtractor {
	return &YTDLPExtractor{dir: dir, binaryPath: binaryPath, socketTimeout: socketTimeoutSeconds}
}

// Probe resolves metadata without downloading anything.
func (e *YTDLPExtractor) Probe(ctx context.Context, url string) (*Metadata, error) {
	cmd := e.base().SkipDownload()

	res, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, classify(err)
	}
	meta, ok := metadataFrom(res)
	if !ok {
		return nil, ErrNoData
	}
	return meta, nil
}

// Fetch downloads and transcodes the media to the spec, writing
// <outputStem>.<ext> into the store directory.
func (e *YTDLPExtractor) Fetch(ctx context.Context, url string, spec model.FormatSpec, outputStem string) (*Metadata, error) {
	cmd := e.base().Output(filepath.Join(e.dir, outputStem+".%(ext)s"))

	if spec.Kind == model.KindAudio {
		cmd = cmd.Format("bestaudio/best").
			ExtractAudio().
			AudioFormat("mp3").
			AudioQuality(spec.AudioBitrate)
	} else {
		cmd = cmd.Format(fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best/best", spec.Height)).
			MergeOutputFormat("mp4")
	}

	res, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, classify(err)
	}
	meta, ok := metadataFrom(res)
	if !ok {
		return nil, ErrNoData
	}
	return meta, nil
}

// base builds the option set shared by probe and fetch.
func (e *YTDLPExtractor) base() *ytdlp.Command {
	cmd := ytdlp.New().
		NoPlaylist().
		NoWarnings().
		Retries(downloadRetries).
		FragmentRetries(downloadRetries).
		SocketTimeout(e.socketTimeout).
		NoCheckCertificates().
		ExtractorArgs(playerClients)
	if e.binaryPath != "" {
		cmd = cmd.SetExecutable(e.binaryPath)
	}
	return cmd
}

// metadataFrom pulls title and extension out of a run result. A run that
// reports success but yields no extracted info is the "no data" case.
func metadataFrom(res *ytdlp.Result) (*Metadata, bool) {
	if res == nil {
		return nil, false
	}
	info, err := res.GetExtractedInfo()
	if err != nil || len(info) == 0 {
		return nil, false
	}
	meta := &Metadata{}
	if info[0].Title != nil {
		meta.Title = *info[0].Title
	}
	if info[0].Filename != nil {
		meta.Ext = strings.TrimPrefix(filepath.Ext(*info[0].Filename), ".")
	}
	return meta, true
}

// classify maps a collaborator failure onto the error taxonomy by
// inspecting the failure text. Format incompatibilities are the classic
// "site changed" failure and get an upgrade hint; access problems are the
// upstream's answer, not ours; the rest is transient network trouble that
// already survived the retry budget.
func classify(err error) error {
	msg := strings.ToLower(err.Error())

	switch {
	case containsAny(msg,
		"player response",
		"unable to extract",
		"unsupported url",
		"signature extraction",
		"no video formats",
		"requested format is not available",
	):
		return model.NewError(model.KindExtractionError,
			"upstream format not understood; update the yt-dlp binary", err)

	case containsAny(msg,
		"private video",
		"video unavailable",
		"has been removed",
		"age-restricted",
		"age restricted",
		"sign in to confirm",
		"available in your country",
		"members-only",
	):
		return model.NewError(model.KindUpstreamUnavailable,
			"video unavailable (private, deleted or restricted)", err)
	}

	return model.NewError(model.KindFetchError, "download failed", err)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
