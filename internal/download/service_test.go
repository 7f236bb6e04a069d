package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/ytgrab/internal/model"
	"github.com/ytget/ytgrab/internal/platform"
)

const testLocator = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func newTestService(tool *fakeTool, transcoder bool) *Service {
	return NewService(tool, Options{TranscoderAvailable: transcoder, MaxParallel: 2}, nil)
}

func TestNewService_Defaults(t *testing.T) {
	s := NewService(&fakeTool{}, Options{}, nil)
	assert.Equal(t, "%(title)s.%(ext)s", s.opts.FilenameTemplate)
	assert.Equal(t, DefaultMaxParallel, s.opts.MaxParallel)

	s = NewService(&fakeTool{}, Options{MaxParallel: 50}, nil)
	assert.Equal(t, MaxParallel, s.opts.MaxParallel)
}

func TestDownload_CreatesFile(t *testing.T) {
	tests := []struct {
		intent model.FormatIntent
		ext    string
		mime   string
	}{
		{model.AudioAndVideo, ".mp4", "video/mp4"},
		{model.VideoOnly, ".mp4", "video/mp4"},
		{model.AudioOnly, ".mp3", "audio/mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.intent.String(), func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "nested", "downloads")
			tool := &fakeTool{}
			s := newTestService(tool, true)

			res, err := s.Download(context.Background(), testLocator, tt.intent, dir)
			require.NoError(t, err)

			assert.Equal(t, tt.mime, res.MimeType)
			assert.Equal(t, filepath.Join(dir, "Test Video"+tt.ext), res.Path)
			assert.Equal(t, "Test Video", res.Title)
			assert.FileExists(t, res.Path)

			template := tool.lastQuery().OutputTemplate
			assert.Equal(t, "%(title)s.%(ext)s", filepath.Base(template))
			assert.Equal(t, dir, filepath.Dir(filepath.Dir(template)), "tool writes into a staging dir under the destination")
			assertNoStagingDirs(t, dir)
		})
	}
}

func TestDownload_MissingTranscoderNeverInvokesTool(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not-created")
	tool := &fakeTool{}
	s := newTestService(tool, false)

	_, err := s.Download(context.Background(), testLocator, model.AudioOnly, dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrMissingCapability)
	assert.Contains(t, model.HintFor(err), "FFmpeg")
	assert.Equal(t, int32(0), tool.calls.Load())
	assert.NoDirExists(t, dir)
}

func TestDownload_MissingTranscoderDoesNotAffectVideo(t *testing.T) {
	tool := &fakeTool{}
	s := newTestService(tool, false)

	_, err := s.Download(context.Background(), testLocator, model.AudioAndVideo, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, int32(1), tool.calls.Load())
}

func TestDownload_DirectoryIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	n := 0
	tool := &fakeTool{titleFor: func(string) string {
		n++
		return fmt.Sprintf("Clip %d", n)
	}}
	s := newTestService(tool, true)

	_, err := s.Download(context.Background(), testLocator, model.AudioAndVideo, dir)
	require.NoError(t, err)
	_, err = s.Download(context.Background(), testLocator, model.AudioAndVideo, dir)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestDownload_InvalidIntent(t *testing.T) {
	tool := &fakeTool{}
	s := newTestService(tool, true)

	_, err := s.Download(context.Background(), testLocator, model.FormatIntent("flac"), t.TempDir())
	assert.ErrorIs(t, err, model.ErrInvalidIntent)
	assert.Equal(t, int32(0), tool.calls.Load())
}

func TestDownload_MalformedLocator(t *testing.T) {
	t.Run("empty locator is rejected before the tool runs", func(t *testing.T) {
		tool := &fakeTool{}
		s := newTestService(tool, true)

		_, err := s.Download(context.Background(), "   ", model.AudioAndVideo, t.TempDir())
		assert.ErrorIs(t, err, model.ErrInvalidLocator)
		assert.Equal(t, int32(0), tool.calls.Load())
	})

	t.Run("tool classification is kept", func(t *testing.T) {
		toolErr := model.NewError(model.KindInvalidLocator, model.OpDownload, "not a url", errors.New("'not a url' is not a valid URL"))
		s := newTestService(&fakeTool{err: toolErr}, true)

		_, err := s.Download(context.Background(), "not a url", model.AudioAndVideo, t.TempDir())
		assert.ErrorIs(t, err, model.ErrInvalidLocator)
		assert.NotErrorIs(t, err, model.ErrResolutionFailed)
	})
}

func TestDownload_UnclassifiedToolErrorIsTransferFailed(t *testing.T) {
	s := newTestService(&fakeTool{err: errors.New("exit status 1")}, true)

	_, err := s.Download(context.Background(), testLocator, model.AudioAndVideo, t.TempDir())
	assert.ErrorIs(t, err, model.ErrTransferFailed)

	var e *model.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, model.OpDownload, e.Op)
}

func TestDownload_MissingOutputFileIsTransferFailed(t *testing.T) {
	s := newTestService(&fakeTool{noFile: true}, true)

	_, err := s.Download(context.Background(), testLocator, model.AudioAndVideo, t.TempDir())
	assert.ErrorIs(t, err, model.ErrTransferFailed)
}

func TestDownload_FailureRemovesPartialFiles(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "older.mp4.part")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0644))

	tool := &fakeTool{err: errors.New("HTTP Error 403"), partial: "Test Video.mp4.part"}
	s := newTestService(tool, true)

	_, err := s.Download(context.Background(), testLocator, model.AudioAndVideo, dir)
	require.Error(t, err)
	require.NotEmpty(t, tool.partialFor(testLocator))
	assert.NoFileExists(t, tool.partialFor(testLocator))
	assert.FileExists(t, old)
	assertNoStagingDirs(t, dir)
}

func TestDownload_FailureKeepsConcurrentTransferPartials(t *testing.T) {
	const (
		slowLocator   = "https://www.youtube.com/watch?v=slow0000000"
		failedLocator = "https://www.youtube.com/watch?v=fail0000000"
	)
	dir := t.TempDir()
	release := make(chan struct{})
	tool := &fakeTool{
		started: make(chan struct{}, 2),
		hold:    map[string]chan struct{}{slowLocator: release},
		errFor:  map[string]error{failedLocator: errors.New("HTTP Error 403: Forbidden")},
		partial: "in-flight.mp4.part",
		titleFor: func(locator string) string {
			return "Slow Video"
		},
	}
	s := newTestService(tool, true)

	type outcome struct {
		res *model.DownloadResult
		err error
	}
	slowDone := make(chan outcome, 1)
	go func() {
		res, err := s.Download(context.Background(), slowLocator, model.AudioAndVideo, dir)
		slowDone <- outcome{res, err}
	}()

	select {
	case <-tool.started:
	case <-time.After(5 * time.Second):
		t.Fatal("slow transfer did not start")
	}
	slowPartial := tool.partialFor(slowLocator)
	require.FileExists(t, slowPartial)

	_, err := s.Download(context.Background(), failedLocator, model.AudioAndVideo, dir)
	require.ErrorIs(t, err, model.ErrTransferFailed)
	assert.NoFileExists(t, tool.partialFor(failedLocator))
	assert.FileExists(t, slowPartial, "a failed transfer must not touch another transfer's partial file")

	close(release)
	select {
	case out := <-slowDone:
		require.NoError(t, out.err)
		assert.Equal(t, filepath.Join(dir, "Slow Video.mp4"), out.res.Path)
		assert.FileExists(t, out.res.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("slow transfer did not finish")
	}
	assertNoStagingDirs(t, dir)
}

func assertNoStagingDirs(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), platform.TransferDirPrefix), "leftover staging dir %s", e.Name())
	}
}

func TestSubmit_PublishesStatesAndSucceeds(t *testing.T) {
	s := newTestService(&fakeTool{}, true)

	var mu sync.Mutex
	var states []model.TransferState
	s.SetUpdateCallback(func(task model.DownloadTask) {
		mu.Lock()
		states = append(states, task.State)
		mu.Unlock()
	})

	done := make(chan model.DownloadTask, 1)
	id := s.Submit(context.Background(), testLocator, model.AudioOnly, t.TempDir(), func(task model.DownloadTask) {
		done <- task
	})
	assert.True(t, strings.HasPrefix(id, TaskIDPrefix))

	select {
	case task := <-done:
		assert.Equal(t, id, task.ID)
		assert.Equal(t, model.TransferStateSucceeded, task.State)
		require.NotNil(t, task.Result)
		assert.Equal(t, model.MimeTypeMP3, task.Result.MimeType)
		assert.NoError(t, task.Err)
		assert.False(t, task.FinishedAt.IsZero())
	case <-time.After(5 * time.Second):
		t.Fatal("download did not finish")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []model.TransferState{
		model.TransferStateIdle,
		model.TransferStateCapabilityChecked,
		model.TransferStateDirectoryEnsured,
		model.TransferStateTransferring,
		model.TransferStateSucceeded,
	}, states)

	_, exists := s.GetTask(id)
	assert.False(t, exists, "finished tasks are dropped from the registry")
	assert.Empty(t, s.GetAllTasks())
}

func TestSubmit_Cancel(t *testing.T) {
	tool := &fakeTool{block: true, started: make(chan struct{}, 1)}
	s := newTestService(tool, true)

	done := make(chan model.DownloadTask, 1)
	id := s.Submit(context.Background(), testLocator, model.AudioAndVideo, t.TempDir(), func(task model.DownloadTask) {
		done <- task
	})

	select {
	case <-tool.started:
	case <-time.After(5 * time.Second):
		t.Fatal("transfer did not start")
	}

	task, exists := s.GetTask(id)
	require.True(t, exists)
	assert.Equal(t, model.TransferStateTransferring, task.State)
	assert.Len(t, s.GetAllTasks(), 1)

	require.NoError(t, s.Cancel(id))

	select {
	case task := <-done:
		assert.Equal(t, model.TransferStateCancelled, task.State)
		assert.ErrorIs(t, task.Err, model.ErrTransferFailed)
		assert.ErrorIs(t, task.Err, context.Canceled)
		assert.Nil(t, task.Result)
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled download did not finish")
	}

	assert.Error(t, s.Cancel(id), "finished task can no longer be cancelled")
}

func TestSubmit_FailureSnapshot(t *testing.T) {
	s := newTestService(&fakeTool{}, false)

	done := make(chan model.DownloadTask, 1)
	s.Submit(context.Background(), testLocator, model.AudioOnly, t.TempDir(), func(task model.DownloadTask) {
		done <- task
	})

	select {
	case task := <-done:
		assert.Equal(t, model.TransferStateFailed, task.State)
		assert.ErrorIs(t, task.Err, model.ErrMissingCapability)
		assert.NotEmpty(t, task.LastError())
	case <-time.After(5 * time.Second):
		t.Fatal("download did not finish")
	}
}

func TestGenerateTaskID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := generateTaskID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
