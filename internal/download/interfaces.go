package download

import (
	"context"

	"github.com/ytget/ytgrab/internal/model"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(model.DownloadTask))
	Download(ctx context.Context, locator string, intent model.FormatIntent, dir string) (*model.DownloadResult, error)
	Submit(ctx context.Context, locator string, intent model.FormatIntent, dir string, onDone func(model.DownloadTask)) string
	Cancel(id string) error
	GetTask(id string) (model.DownloadTask, bool)
	GetAllTasks() []model.DownloadTask

	// DownloadPlaylist downloads every pending entry with bounded parallelism
	DownloadPlaylist(ctx context.Context, playlist *model.Playlist, intent model.FormatIntent, dir string) error
}

var _ Downloader = (*Service)(nil)
