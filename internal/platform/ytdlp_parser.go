package platform

import (
	"context"
	"fmt"

	"github.com/ytget/ytdlp/v2"
)

// YTDLPLister lists playlist items through the ytdlp library without
// spawning the yt-dlp executable.
type YTDLPLister struct {
	limit int
}

// NewYTDLPLister creates a lister that returns every item of a playlist
func NewYTDLPLister() *YTDLPLister {
	return &YTDLPLister{}
}

// WithLimit caps the number of listed items. Zero means no limit.
func (y *YTDLPLister) WithLimit(limit int) *YTDLPLister {
	y.limit = limit
	return y
}

// ListPlaylist implements PlaylistLister
func (y *YTDLPLister) ListPlaylist(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, y.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	out := make([]PlaylistItem, 0, len(items))
	for _, it := range items {
		out = append(out, PlaylistItem{VideoID: it.VideoID, Title: it.Title})
	}
	return out, nil
}
