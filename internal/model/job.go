package model

import "time"

// Kind constants for the requested output.
const (
	KindVideo = "video"
	KindAudio = "audio"
)

// DefaultTitle is used when neither the collaborator nor the title
// fallback can name the media.
const DefaultTitle = "video"

// Job is the in-memory record of one submission. It lives only for the
// duration of the request; nothing about it is persisted.
type Job struct {
	ID        string     `json:"id"`
	URL       string     `json:"url"`
	Spec      FormatSpec `json:"-"`
	Filename  string     `json:"filename"`
	Title     string     `json:"title"`
	Kind      string     `json:"type"`
	CreatedAt time.Time  `json:"-"`
}

// ParseKind normalizes the request "type" field. Anything that is not
// explicitly audio is treated as video, matching the request default.
func ParseKind(s string) string {
	if s == KindAudio {
		return KindAudio
	}
	return KindVideo
}
