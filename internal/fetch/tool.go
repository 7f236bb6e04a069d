package fetch

import "context"

// Postprocessor keys understood by the fetch tool
const (
	ExtractAudioKey = "FFmpegExtractAudio"
)

// Postprocessor is a conversion the tool runs after the transfer
type Postprocessor struct {
	Key     string // tool-side postprocessor name
	Codec   string // target codec, e.g. "mp3"
	Quality string // target quality, e.g. "192" (kbit/s)
}

// Query describes one tool invocation
type Query struct {
	Format         string // format selector, e.g. "best[ext=mp4]/best"
	OutputTemplate string // output path template, e.g. "/dir/%(title)s.%(ext)s"
	Download       bool   // false only extracts metadata
	Postprocessor  *Postprocessor
}

// Tool extracts information about a locator and optionally downloads it
type Tool interface {
	ExtractInfo(ctx context.Context, locator string, q Query) (*Info, error)
}
