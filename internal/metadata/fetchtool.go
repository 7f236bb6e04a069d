package metadata

import (
	"context"
	"math"

	"github.com/ytget/ytgrab/internal/fetch"
	"github.com/ytget/ytgrab/internal/model"
)

// FetchToolProviderName identifies the fetch tool provider in logs
const FetchToolProviderName = "yt-dlp"

// FetchToolProvider asks the media fetch tool for metadata without
// downloading. Slower than the watch-page provider but more robust.
type FetchToolProvider struct {
	tool fetch.Tool
}

// NewFetchToolProvider creates the provider around tool
func NewFetchToolProvider(tool fetch.Tool) *FetchToolProvider {
	return &FetchToolProvider{tool: tool}
}

// Name implements Provider
func (p *FetchToolProvider) Name() string {
	return FetchToolProviderName
}

// Lookup implements Provider
func (p *FetchToolProvider) Lookup(ctx context.Context, locator string) (model.VideoMetadata, error) {
	info, err := p.tool.ExtractInfo(ctx, locator, fetch.Query{Download: false})
	if err != nil {
		return model.VideoMetadata{}, err
	}
	return infoToMetadata(info), nil
}

// infoToMetadata maps the tool's info document onto VideoMetadata,
// substituting placeholders for absent fields.
func infoToMetadata(info *fetch.Info) model.VideoMetadata {
	m := model.VideoMetadata{
		Title:           info.Title,
		Author:          info.Author(),
		Views:           model.UnknownCount(),
		DurationSeconds: model.UnknownCount(),
		ThumbnailURL:    info.BestThumbnail(),
	}
	if m.Title == "" {
		m.Title = model.TitleUnavailable
	}
	if m.Author == "" {
		m.Author = model.AuthorUnavailable
	}
	if info.ViewCount != nil && *info.ViewCount >= 0 {
		m.Views = model.KnownCount(*info.ViewCount)
	}
	if info.Duration != nil && *info.Duration >= 0 {
		m.DurationSeconds = model.KnownCount(int64(math.Round(*info.Duration)))
	}
	return m
}
