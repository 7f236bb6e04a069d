package download

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ytget/ytgrab/internal/model"
)

// DownloadPlaylist downloads the pending entries of playlist into dir with
// at most Options.MaxParallel concurrent transfers. A failed entry does not
// stop the others; the returned error reports how many failed.
func (s *Service) DownloadPlaylist(ctx context.Context, playlist *model.Playlist, intent model.FormatIntent, dir string) error {
	if _, err := PlanFor(intent); err != nil {
		return err
	}
	if !playlist.IsReadyForDownload() {
		return fmt.Errorf("playlist %s is not ready for download", playlist.ID)
	}

	entries := playlist.GetPendingEntries()
	playlist.UpdateStatus(model.PlaylistStatusDownloading)
	log := s.logger.With("playlist", playlist.ID, "entries", len(entries), "parallel", s.opts.MaxParallel)
	log.Info("playlist download started")

	var g errgroup.Group
	g.SetLimit(s.opts.MaxParallel)

	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			playlist.UpdateEntryStatus(entry.ID, model.EntryStatusDownloading)
			result, err := s.Download(ctx, entry.URL, intent, dir)
			if err != nil {
				log.Warn("playlist entry failed", "entry", entry.ID, "error", err)
				playlist.FailEntry(entry.ID, err)
				return nil
			}
			playlist.CompleteEntry(entry.ID, result.Path)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		playlist.UpdateStatus(model.PlaylistStatusError)
		return fmt.Errorf("playlist download interrupted: %w", err)
	}

	failed := len(entries) - countCompleted(playlist, entries)
	if failed > 0 {
		playlist.UpdateStatus(model.PlaylistStatusError)
		log.Warn("playlist download finished with errors", "failed", failed)
		return fmt.Errorf("%d of %d playlist entries failed", failed, len(entries))
	}

	playlist.UpdateStatus(model.PlaylistStatusCompleted)
	log.Info("playlist download completed")
	return nil
}

func countCompleted(playlist *model.Playlist, entries []*model.PlaylistEntry) int {
	done := make(map[string]bool)
	for _, e := range playlist.GetCompletedEntries() {
		done[e.ID] = true
	}
	n := 0
	for _, e := range entries {
		if done[e.ID] {
			n++
		}
	}
	return n
}
