package model

import "strconv"

// DefaultHeight is the resolution ceiling applied when the requested
// quality is missing or not recognized.
const DefaultHeight = 720

// defaultAudioBitrate is the fixed mp3 bitrate for audio jobs, in kbit/s.
const defaultAudioBitrate = "192"

// recognizedHeights are the quality values accepted as resolution ceilings.
var recognizedHeights = map[int]bool{
	144:  true,
	240:  true,
	360:  true,
	480:  true,
	720:  true,
	1080: true,
	1440: true,
	2160: true,
}

// FormatSpec is the resolved download target derived from the request
// parameters. Video jobs carry a resolution ceiling and merge into mp4;
// audio jobs ignore resolution and always produce mp3.
type FormatSpec struct {
	Kind         string
	Height       int
	AudioBitrate string
}

// NewFormatSpec builds the spec for the given kind and quality string.
// Unrecognized quality values fall back to DefaultHeight rather than
// failing, to stay compatible with whatever the client sends.
func NewFormatSpec(kind, quality string) FormatSpec {
	kind = ParseKind(kind)
	if kind == KindAudio {
		return FormatSpec{Kind: KindAudio, AudioBitrate: defaultAudioBitrate}
	}
	height := DefaultHeight
	if h, err := strconv.Atoi(quality); err == nil && recognizedHeights[h] {
		height = h
	}
	return FormatSpec{Kind: KindVideo, Height: height}
}

// Container returns the expected final container extension for the spec.
func (f FormatSpec) Container() string {
	if f.Kind == KindAudio {
		return "mp3"
	}
	return "mp4"
}
