package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/ytgrab/internal/fetch"
	"github.com/ytget/ytgrab/internal/model"
	"github.com/ytget/ytgrab/internal/platform"
)

// Task ID prefix
const (
	TaskIDPrefix = "dl-"
)

// Parallelism bounds for playlist downloads
const (
	DefaultMaxParallel = 2
	MinParallel        = 1
	MaxParallel        = 10
)

// Options configures a Service
type Options struct {
	// FilenameTemplate is relative to the destination directory. The tool
	// writes under a per-transfer staging dir and the result is moved into
	// place on success.
	FilenameTemplate string

	// TranscoderAvailable is the capability probe result for the audio
	// transcoder. Audio downloads fail fast when it is false.
	TranscoderAvailable bool

	// MaxParallel bounds concurrent transfers in DownloadPlaylist
	MaxParallel int
}

type taskEntry struct {
	task   model.DownloadTask
	cancel context.CancelFunc
}

// Service handles download operations
type Service struct {
	tool   fetch.Tool
	opts   Options
	logger *slog.Logger

	tasks      map[string]*taskEntry
	tasksMutex sync.RWMutex
	onUpdate   func(model.DownloadTask) // receives a snapshot on every state change
}

// NewService creates a new download service
func NewService(tool fetch.Tool, opts Options, logger *slog.Logger) *Service {
	if opts.FilenameTemplate == "" {
		opts.FilenameTemplate = fetch.DefaultFilenameTemplate
	}
	opts.MaxParallel = clampParallel(opts.MaxParallel)
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		tool:   tool,
		opts:   opts,
		logger: logger,
		tasks:  make(map[string]*taskEntry),
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(model.DownloadTask)) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.onUpdate = callback
}

// Download fetches locator into dir according to intent and blocks until
// the file is on disk or the download failed. Failures are *model.Error.
func (s *Service) Download(ctx context.Context, locator string, intent model.FormatIntent, dir string) (*model.DownloadResult, error) {
	log := s.logger.With("locator", locator, "intent", intent.String())
	return s.run(ctx, locator, intent, dir, func(state model.TransferState) {
		log.Debug("download state changed", "state", state.String())
	})
}

// Submit starts the download on a background goroutine and returns its
// task ID. Snapshots are published to the update callback on every state
// change; onDone, if set, receives the final snapshot. The task is removed
// from the registry once finished.
func (s *Service) Submit(ctx context.Context, locator string, intent model.FormatIntent, dir string, onDone func(model.DownloadTask)) string {
	ctx, cancel := context.WithCancel(ctx)
	entry := &taskEntry{
		task: model.DownloadTask{
			ID:        generateTaskID(),
			Locator:   locator,
			Intent:    intent,
			Dir:       dir,
			State:     model.TransferStateIdle,
			StartedAt: time.Now(),
		},
		cancel: cancel,
	}

	s.tasksMutex.Lock()
	s.tasks[entry.task.ID] = entry
	s.tasksMutex.Unlock()
	s.notifyUpdate(entry.task)

	log := s.logger.With("task", entry.task.ID, "locator", locator, "intent", intent.String())
	log.Info("download submitted")

	go func() {
		defer cancel()

		result, err := s.run(ctx, locator, intent, dir, func(state model.TransferState) {
			log.Debug("download state changed", "state", state.String())
			s.setState(entry, state, nil, nil)
		})

		final := terminalState(err)
		snapshot := s.setState(entry, final, result, err)

		s.tasksMutex.Lock()
		delete(s.tasks, entry.task.ID)
		s.tasksMutex.Unlock()

		if err != nil {
			log.Warn("download finished", "state", final.String(), "error", err)
		} else {
			log.Info("download finished", "state", final.String(), "path", result.Path)
		}
		if onDone != nil {
			onDone(snapshot)
		}
	}()

	return entry.task.ID
}

// Cancel cancels a submitted download that is still running
func (s *Service) Cancel(id string) error {
	s.tasksMutex.RLock()
	entry, exists := s.tasks[id]
	s.tasksMutex.RUnlock()

	if !exists {
		return fmt.Errorf("task not found: %s", id)
	}
	entry.cancel()
	return nil
}

// GetTask returns a snapshot of a running task by ID
func (s *Service) GetTask(id string) (model.DownloadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	entry, exists := s.tasks[id]
	if !exists {
		return model.DownloadTask{}, false
	}
	return entry.task, true
}

// GetAllTasks returns snapshots of all running tasks
func (s *Service) GetAllTasks() []model.DownloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]model.DownloadTask, 0, len(s.tasks))
	for _, entry := range s.tasks {
		tasks = append(tasks, entry.task)
	}
	return tasks
}

// run executes the pipeline, reporting each non-terminal state to transition
func (s *Service) run(ctx context.Context, locator string, intent model.FormatIntent, dir string, transition func(model.TransferState)) (*model.DownloadResult, error) {
	plan, err := PlanFor(intent)
	if err != nil {
		return nil, model.NewError(model.KindInvalidIntent, model.OpDownload, locator, fmt.Errorf("unknown format %q", intent.String()))
	}

	if plan.RequiresTranscoder {
		if !s.opts.TranscoderAvailable {
			return nil, model.NewError(model.KindMissingCapability, model.OpDownload, locator,
				fmt.Errorf("%s is required to convert audio to %s", platform.FFmpegCommand, plan.Ext))
		}
		transition(model.TransferStateCapabilityChecked)
	}

	if strings.TrimSpace(locator) == "" {
		return nil, model.NewError(model.KindInvalidLocator, model.OpDownload, locator, errors.New("empty locator"))
	}

	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return nil, model.NewError(model.KindTransferFailed, model.OpDownload, locator,
			fmt.Errorf("failed to create download directory: %w", err))
	}
	transition(model.TransferStateDirectoryEnsured)

	// Each transfer writes into its own staging dir so a failure can only
	// discard its own partial files.
	staging, err := platform.NewTransferDir(dir)
	if err != nil {
		return nil, model.NewError(model.KindTransferFailed, model.OpDownload, locator,
			fmt.Errorf("failed to create staging directory: %w", err))
	}
	defer s.removeStaging(staging)
	template := filepath.Join(staging, s.opts.FilenameTemplate)

	transition(model.TransferStateTransferring)
	info, err := s.tool.ExtractInfo(ctx, locator, plan.Query(template))
	if err != nil {
		return nil, downloadError(ctx, locator, err)
	}

	staged, err := platform.FindFileWithFallback(fetch.PrepareFilename(info, template, plan.Ext))
	if err != nil {
		return nil, model.NewError(model.KindTransferFailed, model.OpDownload, locator,
			fmt.Errorf("downloaded file not found: %w", err))
	}
	path, err := platform.MoveIntoDir(staged, staging, dir)
	if err != nil {
		return nil, model.NewError(model.KindTransferFailed, model.OpDownload, locator, err)
	}

	return &model.DownloadResult{
		Path:     path,
		MimeType: plan.MimeType,
		Title:    info.Title,
	}, nil
}

// removeStaging drops a transfer's staging dir along with any partial files
func (s *Service) removeStaging(staging string) {
	if err := os.RemoveAll(staging); err != nil {
		s.logger.Warn("failed to remove staging directory", "dir", staging, "error", err)
		return
	}
	s.logger.Debug("removed staging directory", "dir", staging)
}

// setState updates the live record and publishes a snapshot
func (s *Service) setState(entry *taskEntry, state model.TransferState, result *model.DownloadResult, err error) model.DownloadTask {
	s.tasksMutex.Lock()
	entry.task.State = state
	if state.IsFinished() {
		entry.task.Result = result
		entry.task.Err = err
		entry.task.FinishedAt = time.Now()
	}
	snapshot := entry.task
	s.tasksMutex.Unlock()

	s.notifyUpdate(snapshot)
	return snapshot
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task model.DownloadTask) {
	s.tasksMutex.RLock()
	callback := s.onUpdate
	s.tasksMutex.RUnlock()

	if callback != nil {
		callback(task)
	}
}

// downloadError tags a tool failure with the download operation. A
// cancelled context always yields TransferFailed wrapping context.Canceled.
func downloadError(ctx context.Context, locator string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = fmt.Errorf("%w: %v", ctxErr, err)
	}
	cancelled := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)

	var e *model.Error
	if errors.As(err, &e) {
		kind := e.Kind
		if cancelled {
			kind = model.KindTransferFailed
		}
		if kind == e.Kind && e.Op == model.OpDownload {
			return e
		}
		return model.NewError(kind, model.OpDownload, locator, e.Err)
	}
	return model.NewError(model.KindTransferFailed, model.OpDownload, locator, err)
}

func terminalState(err error) model.TransferState {
	switch {
	case err == nil:
		return model.TransferStateSucceeded
	case errors.Is(err, context.Canceled):
		return model.TransferStateCancelled
	}
	return model.TransferStateFailed
}

func clampParallel(n int) int {
	if n <= 0 {
		return DefaultMaxParallel
	}
	if n < MinParallel {
		return MinParallel
	}
	if n > MaxParallel {
		return MaxParallel
	}
	return n
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
