package model

import (
	"fmt"
	"strings"
)

// FormatIntent is what the user asks to download
type FormatIntent string

const (
	// AudioAndVideo downloads a stream holding both tracks
	AudioAndVideo FormatIntent = "video"

	// AudioOnly downloads the audio track and converts it to mp3
	AudioOnly FormatIntent = "audio"

	// VideoOnly downloads the video track without audio
	VideoOnly FormatIntent = "video_only"
)

// MIME types handed to the presentation layer
const (
	MimeTypeMP3 = "audio/mp3"
	MimeTypeMP4 = "video/mp4"
)

// FormatIntents lists every supported intent in display order
func FormatIntents() []FormatIntent {
	return []FormatIntent{AudioAndVideo, AudioOnly, VideoOnly}
}

// ParseFormatIntent converts user input into a FormatIntent.
// Unknown values are rejected with ErrInvalidIntent.
func ParseFormatIntent(s string) (FormatIntent, error) {
	intent := FormatIntent(strings.ToLower(strings.TrimSpace(s)))
	if !intent.Valid() {
		return "", &Error{Kind: KindInvalidIntent, Op: "parse intent", Err: fmt.Errorf("unknown format %q", s)}
	}
	return intent, nil
}

// Valid reports whether the intent is one of the supported values
func (f FormatIntent) Valid() bool {
	switch f {
	case AudioAndVideo, AudioOnly, VideoOnly:
		return true
	}
	return false
}

// MimeType derives the MIME type of the produced file from the intent alone
func (f FormatIntent) MimeType() (string, error) {
	switch f {
	case AudioOnly:
		return MimeTypeMP3, nil
	case AudioAndVideo, VideoOnly:
		return MimeTypeMP4, nil
	}
	return "", &Error{Kind: KindInvalidIntent, Op: "mime type", Err: fmt.Errorf("unknown format %q", string(f))}
}

// Label returns the human readable name shown in format pickers
func (f FormatIntent) Label() string {
	switch f {
	case AudioAndVideo:
		return "Video (audio and video)"
	case AudioOnly:
		return "Sound (audio only)"
	case VideoOnly:
		return "Video without audio"
	}
	return string(f)
}

// String returns the string representation of FormatIntent
func (f FormatIntent) String() string {
	return string(f)
}

// DownloadResult describes a file produced by a successful download
type DownloadResult struct {
	Path     string `json:"path"`
	MimeType string `json:"mime_type"`
	Title    string `json:"title,omitempty"`
}
