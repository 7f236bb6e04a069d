package metadata

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/ytgrab/internal/fetch"
	"github.com/ytget/ytgrab/internal/model"
)

func TestVideoToMetadata(t *testing.T) {
	v := &youtube.Video{
		Title:    "Song",
		Author:   "Band",
		Views:    0,
		Duration: 3*time.Minute + 30*time.Second,
		Thumbnails: youtube.Thumbnails{
			{URL: "small.jpg", Width: 120},
			{URL: "large.jpg", Width: 1280},
			{URL: "medium.jpg", Width: 480},
		},
	}

	m := videoToMetadata(v)
	assert.Equal(t, "Song", m.Title)
	assert.Equal(t, "Band", m.Author)
	assert.Equal(t, model.KnownCount(0), m.Views)
	assert.Equal(t, model.KnownCount(210), m.DurationSeconds)
	assert.Equal(t, "large.jpg", m.ThumbnailURL)
}

func TestVideoToMetadata_Placeholders(t *testing.T) {
	m := videoToMetadata(&youtube.Video{})
	assert.Equal(t, model.TitleUnavailable, m.Title)
	assert.Equal(t, model.AuthorUnavailable, m.Author)
	assert.False(t, m.HasThumbnail())
}

func TestClassifyYouTubeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind model.Kind
	}{
		{"bad characters", youtube.ErrInvalidCharactersInVideoID, model.KindInvalidLocator},
		{"short id", fmt.Errorf("extract: %w", youtube.ErrVideoIDMinLength), model.KindInvalidLocator},
		{"private", youtube.ErrVideoPrivate, model.KindResourceUnavailable},
		{"age", youtube.ErrLoginRequired, model.KindResourceUnavailable},
		{"playability", &youtube.ErrPlayabiltyStatus{Status: "ERROR", Reason: "Video unavailable"}, model.KindResourceUnavailable},
		{"other", errors.New("unexpected status code: 500"), model.KindResolutionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyYouTubeError("loc", tt.err)
			assert.Equal(t, tt.kind, model.KindOf(err))
			assert.ErrorIs(t, err, model.ErrResolutionFailed)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestInfoToMetadata(t *testing.T) {
	views := int64(1500)
	duration := 61.6

	m := infoToMetadata(&fetch.Info{
		Title:     "Clip",
		Channel:   "Chan",
		ViewCount: &views,
		Duration:  &duration,
		Thumbnail: "t.jpg",
	})
	assert.Equal(t, "Clip", m.Title)
	assert.Equal(t, "Chan", m.Author)
	assert.Equal(t, model.KnownCount(1500), m.Views)
	assert.Equal(t, model.KnownCount(62), m.DurationSeconds)
	assert.Equal(t, "t.jpg", m.ThumbnailURL)
}

func TestInfoToMetadata_AbsentFields(t *testing.T) {
	m := infoToMetadata(&fetch.Info{})
	assert.Equal(t, model.TitleUnavailable, m.Title)
	assert.Equal(t, model.AuthorUnavailable, m.Author)
	assert.Equal(t, model.UnavailableMarker, m.Views.String())
	assert.Equal(t, model.UnavailableMarker, m.DurationSeconds.String())
	assert.Empty(t, m.ThumbnailURL)
}

type fakeTool struct {
	info  *fetch.Info
	err   error
	query fetch.Query
}

func (f *fakeTool) ExtractInfo(ctx context.Context, locator string, q fetch.Query) (*fetch.Info, error) {
	f.query = q
	return f.info, f.err
}

func TestFetchToolProvider_MetadataOnly(t *testing.T) {
	tool := &fakeTool{info: &fetch.Info{Title: "Clip", Uploader: "Up"}}
	p := NewFetchToolProvider(tool)

	m, err := p.Lookup(context.Background(), "https://youtu.be/abc")
	require.NoError(t, err)
	assert.False(t, tool.query.Download)
	assert.Equal(t, "Up", m.Author)
	assert.Equal(t, FetchToolProviderName, p.Name())
}
