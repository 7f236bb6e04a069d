package download

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/ytget/ytgrab/internal/fetch"
)

// fakeTool stands in for yt-dlp. In download mode it writes the output
// file the real tool would produce.
type fakeTool struct {
	mu      sync.Mutex
	queries []fetch.Query

	calls    atomic.Int32
	active   atomic.Int32
	peak     atomic.Int32
	started  chan struct{}
	block    bool
	err      error
	errFor   map[string]error
	hold     map[string]chan struct{}
	partial  string
	partials map[string]string
	noFile   bool
	titleFor func(locator string) string
}

func (f *fakeTool) ExtractInfo(ctx context.Context, locator string, q fetch.Query) (*fetch.Info, error) {
	f.calls.Add(1)
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	// The partial file lands next to the output, as the real tool does
	var partialPath string
	if f.partial != "" {
		partialPath = filepath.Join(filepath.Dir(q.OutputTemplate), f.partial)
		_ = os.WriteFile(partialPath, []byte("partial"), 0644)
	}

	f.mu.Lock()
	f.queries = append(f.queries, q)
	if partialPath != "" {
		if f.partials == nil {
			f.partials = make(map[string]string)
		}
		f.partials[locator] = partialPath
	}
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if release, ok := f.hold[locator]; ok {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := f.errFor[locator]; ok {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}

	title := "Test Video"
	if f.titleFor != nil {
		title = f.titleFor(locator)
	}
	ext := "mp4"
	if q.Postprocessor != nil {
		ext = q.Postprocessor.Codec
	}
	info := &fetch.Info{ID: "abc", Title: title, Ext: ext}
	if q.Download {
		path := fetch.ExpandTemplate(q.OutputTemplate, info, ext)
		if !f.noFile {
			if err := os.WriteFile(path, []byte("media"), 0644); err != nil {
				return nil, err
			}
		}
		info.RequestedDownloads = []fetch.RequestedDownload{{Filepath: path, Ext: ext}}
	}
	return info, nil
}

func (f *fakeTool) lastQuery() fetch.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func (f *fakeTool) partialFor(locator string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.partials[locator]
}
