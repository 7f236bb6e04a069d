package platform

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ytget/ytgrab/internal/model"
)

// Timeout constants
const (
	DefaultPlaylistParseTimeout = 60 * time.Second
)

// URL parameters and templates
const (
	PlaylistURLParam        = "list"
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// Playlist title constants
const (
	DefaultPlaylistName = "Unknown Playlist"
	PlaylistSuffix      = " Playlist"
	MinPrefixLength     = 10
	MaxTitleLength      = 50
	TitleTruncateSuffix = "..."
)

// PlaylistItem is one video listed by a PlaylistLister
type PlaylistItem struct {
	VideoID string
	Title   string
}

// PlaylistLister lists the videos of a playlist by its ID
type PlaylistLister interface {
	ListPlaylist(ctx context.Context, playlistID string) ([]PlaylistItem, error)
}

// PlaylistParserService expands a playlist URL into a model.Playlist
type PlaylistParserService struct {
	timeout time.Duration
	lister  PlaylistLister
}

// NewPlaylistParserService creates a parser backed by lister. A nil lister
// selects the yt-dlp library lister.
func NewPlaylistParserService(lister PlaylistLister) *PlaylistParserService {
	if lister == nil {
		lister = NewYTDLPLister()
	}
	return &PlaylistParserService{
		timeout: DefaultPlaylistParseTimeout,
		lister:  lister,
	}
}

// SetTimeout sets the timeout for playlist parsing
func (p *PlaylistParserService) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// ParsePlaylist parses a playlist URL and returns a playlist ready for download
func (p *PlaylistParserService) ParsePlaylist(ctx context.Context, rawURL string) (*model.Playlist, error) {
	playlistID, err := ExtractPlaylistID(rawURL)
	if err != nil {
		return nil, model.NewError(model.KindInvalidLocator, "parse playlist", rawURL, err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	playlist := model.NewPlaylist(rawURL)
	playlist.ID = playlistID

	items, err := p.lister.ListPlaylist(ctx, playlistID)
	if err != nil {
		playlist.Error = err.Error()
		playlist.UpdateStatus(model.PlaylistStatusError)
		return playlist, model.NewError(model.KindResourceUnavailable, "parse playlist", rawURL, err)
	}

	now := time.Now()
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		playlist.AddEntry(&model.PlaylistEntry{
			ID:        it.VideoID,
			Title:     it.Title,
			URL:       fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
			Status:    model.EntryStatusPending,
			UpdatedAt: now,
		})
	}

	playlist.Title = extractPlaylistTitle(items)
	playlist.UpdateStatus(model.PlaylistStatusReady)
	return playlist, nil
}

// IsPlaylistURL reports whether rawURL carries a playlist parameter
func IsPlaylistURL(rawURL string) bool {
	id, err := ExtractPlaylistID(rawURL)
	return err == nil && id != ""
}

// ExtractPlaylistID extracts the playlist ID from URLs such as
// https://www.youtube.com/playlist?list=ID and watch?v=VIDEO&list=ID.
func ExtractPlaylistID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("could not parse URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("not an absolute URL: %q", rawURL)
	}
	id := u.Query().Get(PlaylistURLParam)
	if id == "" {
		return "", fmt.Errorf("URL does not contain playlist parameter")
	}
	return id, nil
}

// extractPlaylistTitle generates a title for the playlist based on its videos
func extractPlaylistTitle(items []PlaylistItem) string {
	if len(items) == 0 {
		return DefaultPlaylistName
	}
	if len(items) > 1 {
		prefix := strings.TrimSpace(findCommonPrefix(items[0].Title, items[1].Title))
		if len(prefix) > MinPrefixLength {
			return prefix + PlaylistSuffix
		}
	}
	title := items[0].Title
	if len(title) > MaxTitleLength {
		title = title[:MaxTitleLength] + TitleTruncateSuffix
	}
	return title + PlaylistSuffix
}

// findCommonPrefix finds the common prefix between two strings
func findCommonPrefix(s1, s2 string) string {
	minLen := min(len(s1), len(s2))
	for i := 0; i < minLen; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:minLen]
}
