package metadata

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kkdai/youtube/v2"

	"github.com/ytget/ytgrab/internal/model"
)

// YouTubeProviderName identifies the watch-page provider in logs
const YouTubeProviderName = "youtube"

// YouTubeProvider extracts metadata from the watch page without running
// any external executable. It is fast but breaks whenever the site changes.
type YouTubeProvider struct {
	client *youtube.Client
}

// NewYouTubeProvider creates the provider. A nil httpClient uses a plain
// client bounded by timeout.
func NewYouTubeProvider(httpClient *http.Client, timeout time.Duration) *YouTubeProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &YouTubeProvider{client: &youtube.Client{HTTPClient: httpClient}}
}

// Name implements Provider
func (p *YouTubeProvider) Name() string {
	return YouTubeProviderName
}

// Lookup implements Provider
func (p *YouTubeProvider) Lookup(ctx context.Context, locator string) (model.VideoMetadata, error) {
	video, err := p.client.GetVideoContext(ctx, locator)
	if err != nil {
		return model.VideoMetadata{}, classifyYouTubeError(locator, err)
	}
	return videoToMetadata(video), nil
}

// videoToMetadata maps the extractor's record onto VideoMetadata
func videoToMetadata(v *youtube.Video) model.VideoMetadata {
	m := model.VideoMetadata{
		Title:           v.Title,
		Author:          v.Author,
		Views:           model.KnownCount(int64(v.Views)),
		DurationSeconds: model.KnownCount(int64(v.Duration / time.Second)),
	}
	if m.Title == "" {
		m.Title = model.TitleUnavailable
	}
	if m.Author == "" {
		m.Author = model.AuthorUnavailable
	}

	var bestWidth uint
	for _, t := range v.Thumbnails {
		if t.URL != "" && (m.ThumbnailURL == "" || t.Width > bestWidth) {
			m.ThumbnailURL = t.URL
			bestWidth = t.Width
		}
	}
	return m
}

func classifyYouTubeError(locator string, err error) error {
	var playability *youtube.ErrPlayabiltyStatus

	switch {
	case errors.Is(err, youtube.ErrInvalidCharactersInVideoID),
		errors.Is(err, youtube.ErrVideoIDMinLength):
		return model.NewError(model.KindInvalidLocator, model.OpResolve, locator, err)
	case errors.Is(err, youtube.ErrVideoPrivate),
		errors.Is(err, youtube.ErrLoginRequired),
		errors.Is(err, youtube.ErrNotPlayableInEmbed),
		errors.As(err, &playability):
		return model.NewError(model.KindResourceUnavailable, model.OpResolve, locator, err)
	}
	return model.NewError(model.KindResolutionFailed, model.OpResolve, locator, err)
}
