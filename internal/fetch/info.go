package fetch

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Thumbnail is one entry of the tool's thumbnails list
type Thumbnail struct {
	URL        string `json:"url"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Preference int    `json:"preference,omitempty"`
}

// RequestedDownload describes a file the tool wrote
type RequestedDownload struct {
	Filepath string `json:"filepath"`
	Ext      string `json:"ext"`
}

// Info is the subset of the tool's info document this module reads.
// Optional numeric fields are pointers so absent differs from zero.
type Info struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title"`
	Uploader           string              `json:"uploader"`
	Channel            string              `json:"channel"`
	ViewCount          *int64              `json:"view_count"`
	Duration           *float64            `json:"duration"`
	Thumbnail          string              `json:"thumbnail"`
	Thumbnails         []Thumbnail         `json:"thumbnails"`
	Ext                string              `json:"ext"`
	Filename           string              `json:"_filename"`
	RequestedDownloads []RequestedDownload `json:"requested_downloads"`
}

// Author returns the uploader, falling back to the channel name
func (i *Info) Author() string {
	if i.Uploader != "" {
		return i.Uploader
	}
	return i.Channel
}

// BestThumbnail returns the explicit thumbnail, or the widest listed one
func (i *Info) BestThumbnail() string {
	if i.Thumbnail != "" {
		return i.Thumbnail
	}
	best := ""
	bestWidth := -1
	for _, t := range i.Thumbnails {
		if t.URL != "" && t.Width >= bestWidth {
			best = t.URL
			bestWidth = t.Width
		}
	}
	return best
}

// ErrNoInfo is returned when the tool output holds no JSON document
var ErrNoInfo = errors.New("no info document in tool output")

// ParseInfo decodes the info document from the tool's stdout. The
// document is the last line that starts with '{'.
func ParseInfo(stdout string) (*Info, error) {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var info Info
		if err := json.Unmarshal([]byte(line), &info); err != nil {
			return nil, fmt.Errorf("failed to decode info document: %w", err)
		}
		return &info, nil
	}
	return nil, ErrNoInfo
}
