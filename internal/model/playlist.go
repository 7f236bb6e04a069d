package model

import (
	"sync"
	"time"
)

// PlaylistStatus represents the current status of a playlist
type PlaylistStatus string

const (
	PlaylistStatusParsing     PlaylistStatus = "parsing"
	PlaylistStatusReady       PlaylistStatus = "ready"
	PlaylistStatusDownloading PlaylistStatus = "downloading"
	PlaylistStatusCompleted   PlaylistStatus = "completed"
	PlaylistStatusError       PlaylistStatus = "error"
)

// EntryStatus represents the status of a single entry in a playlist
type EntryStatus string

const (
	EntryStatusPending     EntryStatus = "pending"
	EntryStatusDownloading EntryStatus = "downloading"
	EntryStatusCompleted   EntryStatus = "completed"
	EntryStatusError       EntryStatus = "error"
)

// PlaylistEntry represents a single video in a playlist
type PlaylistEntry struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	URL        string      `json:"url"`
	Status     EntryStatus `json:"status"`
	Error      string      `json:"error,omitempty"`
	OutputPath string      `json:"output_path,omitempty"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Playlist represents a playlist and its entries. Entry updates are safe
// for concurrent use.
type Playlist struct {
	mu sync.Mutex

	ID        string           `json:"id"`
	Title     string           `json:"title"`
	URL       string           `json:"url"`
	Entries   []*PlaylistEntry `json:"entries"`
	Status    PlaylistStatus   `json:"status"`
	Error     string           `json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewPlaylist creates a new playlist instance
func NewPlaylist(url string) *Playlist {
	now := time.Now()
	return &Playlist{
		URL:       url,
		Status:    PlaylistStatusParsing,
		Entries:   make([]*PlaylistEntry, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddEntry adds an entry to the playlist
func (p *Playlist) AddEntry(entry *PlaylistEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Entries = append(p.Entries, entry)
	p.UpdatedAt = time.Now()
}

// UpdateStatus updates the playlist status
func (p *Playlist) UpdateStatus(status PlaylistStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = status
	p.UpdatedAt = time.Now()
}

// UpdateEntryStatus updates the status of a specific entry
func (p *Playlist) UpdateEntryStatus(entryID string, status EntryStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e := p.find(entryID); e != nil {
		e.Status = status
		e.UpdatedAt = time.Now()
		p.UpdatedAt = e.UpdatedAt
	}
}

// CompleteEntry marks an entry completed with the path of its file
func (p *Playlist) CompleteEntry(entryID, outputPath string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e := p.find(entryID); e != nil {
		e.Status = EntryStatusCompleted
		e.OutputPath = outputPath
		e.Error = ""
		e.UpdatedAt = time.Now()
		p.UpdatedAt = e.UpdatedAt
	}
}

// FailEntry marks an entry failed with err
func (p *Playlist) FailEntry(entryID string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e := p.find(entryID); e != nil {
		e.Status = EntryStatusError
		if err != nil {
			e.Error = err.Error()
		}
		e.UpdatedAt = time.Now()
		p.UpdatedAt = e.UpdatedAt
	}
}

// TotalEntries returns the number of entries
func (p *Playlist) TotalEntries() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Entries)
}

// GetPendingEntries returns all entries with pending status
func (p *Playlist) GetPendingEntries() []*PlaylistEntry {
	return p.filter(EntryStatusPending)
}

// GetCompletedEntries returns all completed entries
func (p *Playlist) GetCompletedEntries() []*PlaylistEntry {
	return p.filter(EntryStatusCompleted)
}

// GetDownloadProgress returns overall download progress as percentage
func (p *Playlist) GetDownloadProgress() float64 {
	total := p.TotalEntries()
	if total == 0 {
		return 0
	}
	completed := len(p.GetCompletedEntries())
	return float64(completed) / float64(total) * 100
}

// IsReadyForDownload checks if playlist is ready to start downloading
func (p *Playlist) IsReadyForDownload() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Status == PlaylistStatusReady && len(p.Entries) > 0
}

// HasErrors checks if any entry has errors
func (p *Playlist) HasErrors() bool {
	return len(p.filter(EntryStatusError)) > 0
}

func (p *Playlist) filter(status EntryStatus) []*PlaylistEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*PlaylistEntry
	for _, e := range p.Entries {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

func (p *Playlist) find(entryID string) *PlaylistEntry {
	for _, e := range p.Entries {
		if e.ID == entryID {
			return e
		}
	}
	return nil
}
