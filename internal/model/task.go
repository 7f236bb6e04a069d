package model

import (
	"path/filepath"
	"strings"
	"time"
)

// DownloadTask is a snapshot of one download request as it moves through
// its states. Snapshots are values; the orchestrator owns the live record.
type DownloadTask struct {
	ID         string
	Locator    string
	Intent     FormatIntent
	Dir        string
	State      TransferState
	Result     *DownloadResult // set when State is Succeeded
	Err        error           // set when State is Failed or Cancelled
	StartedAt  time.Time
	FinishedAt time.Time
}

// LastError returns the error message if any
func (dt *DownloadTask) LastError() string {
	if dt.Err == nil {
		return ""
	}
	return dt.Err.Error()
}

// Elapsed returns how long the task ran, or has been running so far
func (dt *DownloadTask) Elapsed() time.Duration {
	if dt.StartedAt.IsZero() {
		return 0
	}
	if dt.FinishedAt.IsZero() {
		return time.Since(dt.StartedAt)
	}
	return dt.FinishedAt.Sub(dt.StartedAt)
}

// GetDisplayTitle returns title, filename, or locator in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Result != nil {
		if dt.Result.Title != "" && !strings.HasPrefix(dt.Result.Title, "http") {
			return dt.Result.Title
		}
		if dt.Result.Path != "" {
			name := filepath.Base(dt.Result.Path)
			if idx := strings.LastIndex(name, "."); idx > 0 {
				name = name[:idx]
			}
			return name
		}
	}
	return dt.Locator
}
