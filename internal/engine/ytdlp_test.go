package engine

import (
	"errors"
	"testing"

	"github.com/grabtube/grabtube/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want model.ErrorKind
	}{
		{"player response change", "ERROR: [youtube] abc: Failed to extract any player response", model.KindExtractionError},
		{"unsupported url", "ERROR: Unsupported URL: https://example.com/clip", model.KindExtractionError},
		{"no formats", "ERROR: [youtube] abc: No video formats found", model.KindExtractionError},
		{"private video", "ERROR: [youtube] abc: Private video. Sign in if you've been granted access", model.KindUpstreamUnavailable},
		{"removed video", "ERROR: [youtube] abc: Video unavailable. This video has been removed", model.KindUpstreamUnavailable},
		{"age gate", "ERROR: [youtube] abc: Sign in to confirm your age. This video may be age-restricted", model.KindUpstreamUnavailable},
		{"region block", "ERROR: [youtube] abc: The uploader has not made this video available in your country", model.KindUpstreamUnavailable},
		{"network fault", "ERROR: unable to download video data: HTTP Error 503", model.KindFetchError},
		{"timeout", "ERROR: Connection timed out", model.KindFetchError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(errors.New(tt.msg))
			if got := model.ErrorKindOf(err); got != tt.want {
				t.Errorf("classify(%q) kind = %v, want %v", tt.msg, got, tt.want)
			}
			// The raw upstream text must stay out of the user message.
			if model.UserMessage(err) == tt.msg {
				t.Error("user message leaked the raw collaborator error")
			}
		})
	}
}

func TestClassify_ExtractionHint(t *testing.T) {
	err := classify(errors.New("Failed to extract any player response"))
	if got := model.UserMessage(err); got != "upstream format not understood; update the yt-dlp binary" {
		t.Errorf("message = %q, want the upgrade hint", got)
	}
}
