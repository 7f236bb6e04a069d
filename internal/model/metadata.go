package model

import "strconv"

// Placeholders used when a provider does not supply a field
const (
	UnavailableMarker = "Unavailable"
	TitleUnavailable  = "Title unavailable"
	AuthorUnavailable = "Author unavailable"
)

// Count is a non-negative integer that may be unknown
type Count struct {
	Value int64
	Known bool
}

// KnownCount returns a Count holding v
func KnownCount(v int64) Count {
	return Count{Value: v, Known: true}
}

// UnknownCount returns a Count carrying the unavailable marker
func UnknownCount() Count {
	return Count{}
}

// String returns the decimal value, or UnavailableMarker if unknown
func (c Count) String() string {
	if !c.Known {
		return UnavailableMarker
	}
	return strconv.FormatInt(c.Value, 10)
}

// MarshalText renders the count for JSON and other text encoders
func (c Count) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// VideoMetadata is the normalized metadata record shared by all providers.
// A resolver returns either a fully populated VideoMetadata or an error.
type VideoMetadata struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	Views           Count  `json:"views"`
	DurationSeconds Count  `json:"duration_seconds"`
	ThumbnailURL    string `json:"thumbnail_url,omitempty"` // empty when absent
}

// HasThumbnail reports whether a thumbnail URL is available
func (m VideoMetadata) HasThumbnail() bool {
	return m.ThumbnailURL != ""
}
