package model

import (
	"errors"
	"net/http"
	"testing"
)

func TestNewFormatSpec_Video(t *testing.T) {
	tests := []struct {
		quality    string
		wantHeight int
	}{
		{"720", 720},
		{"1080", 1080},
		{"144", 144},
		{"2160", 2160},
		{"999", DefaultHeight},
		{"", DefaultHeight},
		{"best", DefaultHeight},
		{"-1", DefaultHeight},
	}
	for _, tt := range tests {
		spec := NewFormatSpec(KindVideo, tt.quality)
		if spec.Height != tt.wantHeight {
			t.Errorf("quality %q: Height = %d, want %d", tt.quality, spec.Height, tt.wantHeight)
		}
		if spec.Container() != "mp4" {
			t.Errorf("quality %q: Container = %q, want mp4", tt.quality, spec.Container())
		}
	}
}

func TestNewFormatSpec_AudioIgnoresQuality(t *testing.T) {
	for _, quality := range []string{"720", "1080", "", "garbage"} {
		spec := NewFormatSpec(KindAudio, quality)
		if spec.Kind != KindAudio {
			t.Fatalf("Kind = %q, want audio", spec.Kind)
		}
		if spec.Height != 0 {
			t.Errorf("quality %q: Height = %d, want 0", quality, spec.Height)
		}
		if spec.Container() != "mp3" {
			t.Errorf("quality %q: Container = %q, want mp3", quality, spec.Container())
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"audio", KindAudio},
		{"video", KindVideo},
		{"", KindVideo},
		{"AUDIO", KindVideo},
		{"mp3", KindVideo},
	}
	for _, tt := range tests {
		if got := ParseKind(tt.in); got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestErrorKind_HTTPStatus(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want int
	}{
		{KindInvalidRequest, http.StatusBadRequest},
		{KindUpstreamUnavailable, http.StatusBadRequest},
		{KindExtractionError, http.StatusBadRequest},
		{KindFetchError, http.StatusInternalServerError},
		{KindArtifactMissing, http.StatusInternalServerError},
		{KindNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		if got := tt.kind.HTTPStatus(); got != tt.want {
			t.Errorf("%s.HTTPStatus() = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewError(KindFetchError, "download failed", cause)

	if !errors.Is(err, cause) {
		t.Error("cause should be reachable via errors.Is")
	}
	if ErrorKindOf(err) != KindFetchError {
		t.Errorf("ErrorKindOf = %v, want KindFetchError", ErrorKindOf(err))
	}
	if UserMessage(err) != "download failed" {
		t.Errorf("UserMessage = %q", UserMessage(err))
	}
}

func TestErrorKindOf_Unclassified(t *testing.T) {
	if got := ErrorKindOf(errors.New("boom")); got != KindFetchError {
		t.Errorf("ErrorKindOf(plain error) = %v, want KindFetchError", got)
	}
	if got := UserMessage(errors.New("secret detail")); got != "internal error" {
		t.Errorf("UserMessage(plain error) = %q, want generic message", got)
	}
}
