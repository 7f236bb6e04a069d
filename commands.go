package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/ytgrab/internal/model"
	"github.com/ytget/ytgrab/internal/platform"
)

func (a *app) info(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.SetOutput(a.out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("info takes exactly one URL")
	}

	m, err := a.resolver.Resolve(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	a.printMetadata(m)
	return nil
}

func (a *app) download(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	fs.SetOutput(a.out)
	format := fs.String("format", a.cfg.DefaultIntent.String(), formatHelp())
	dir := fs.String("dir", a.cfg.DownloadDir, "destination directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("download takes exactly one URL")
	}
	locator := fs.Arg(0)

	intent, err := model.ParseFormatIntent(*format)
	if err != nil {
		return err
	}

	// Metadata is informative only; its failure never blocks the download.
	if m, err := a.resolver.Resolve(ctx, locator); err != nil {
		a.log.Warn("could not load video details", "error", err)
	} else {
		a.printMetadata(m)
	}

	a.service.SetUpdateCallback(func(task model.DownloadTask) {
		a.log.Debug("download update", "task", task.ID, "state", task.State.String())
	})

	fmt.Fprintf(a.out, "Downloading %s...\n", intent.Label())
	done := make(chan model.DownloadTask, 1)
	id := a.service.Submit(context.WithoutCancel(ctx), locator, intent, *dir, func(task model.DownloadTask) {
		done <- task
	})

	var task model.DownloadTask
	select {
	case task = <-done:
	case <-ctx.Done():
		if err := a.service.Cancel(id); err != nil {
			a.log.Debug("cancel after completion", "task", id, "error", err)
		}
		task = <-done
	}

	if task.Err != nil {
		return task.Err
	}
	fmt.Fprintf(a.out, "Saved:     %s\n", task.GetDisplayTitle())
	fmt.Fprintf(a.out, "Path:      %s\n", task.Result.Path)
	fmt.Fprintf(a.out, "MIME type: %s\n", task.Result.MimeType)
	fmt.Fprintf(a.out, "Took:      %s\n", task.Elapsed().Round(time.Millisecond))
	return nil
}

func (a *app) playlist(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("playlist", flag.ContinueOnError)
	fs.SetOutput(a.out)
	format := fs.String("format", a.cfg.DefaultIntent.String(), formatHelp())
	dir := fs.String("dir", a.cfg.DownloadDir, "destination directory")
	doDownload := fs.Bool("download", false, "download every entry")
	limit := fs.Int("limit", a.cfg.PlaylistLimit, "list at most this many entries, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("playlist takes exactly one URL")
	}
	if *limit < 0 {
		return errors.New("limit must not be negative")
	}

	intent, err := model.ParseFormatIntent(*format)
	if err != nil {
		return err
	}

	parser := platform.NewPlaylistParserService(platform.NewYTDLPLister().WithLimit(*limit))
	parser.SetTimeout(a.cfg.MetadataTimeout)
	pl, err := parser.ParsePlaylist(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (%d videos)\n", pl.Title, pl.TotalEntries())
	for i, e := range pl.Entries {
		fmt.Fprintf(a.out, "%3d. %s\n     %s\n", i+1, e.Title, e.URL)
	}
	if !*doDownload {
		return nil
	}

	err = a.service.DownloadPlaylist(ctx, pl, intent, *dir)
	for _, e := range pl.Entries {
		switch e.Status {
		case model.EntryStatusCompleted:
			fmt.Fprintf(a.out, "[ok]    %s -> %s\n", e.Title, e.OutputPath)
		case model.EntryStatusError:
			fmt.Fprintf(a.out, "[error] %s: %s\n", e.Title, e.Error)
		}
	}
	fmt.Fprintf(a.out, "Progress: %.0f%%\n", pl.GetDownloadProgress())
	return err
}

func formatHelp() string {
	names := make([]string, 0, len(model.FormatIntents()))
	for _, intent := range model.FormatIntents() {
		names = append(names, intent.String())
	}
	return "one of " + strings.Join(names, ", ")
}

func (a *app) printMetadata(m model.VideoMetadata) {
	fmt.Fprintf(a.out, "Title:     %s\n", m.Title)
	fmt.Fprintf(a.out, "Author:    %s\n", m.Author)
	fmt.Fprintf(a.out, "Views:     %s\n", m.Views)
	fmt.Fprintf(a.out, "Duration:  %s s\n", m.DurationSeconds)
	if m.HasThumbnail() {
		fmt.Fprintf(a.out, "Thumbnail: %s\n", m.ThumbnailURL)
	}
}

// printError shows the error and, for classified failures, a remediation hint
func (a *app) printError(err error) {
	fmt.Fprintf(a.out, "Error: %v\n", err)
	if hint := model.HintFor(err); hint != "" {
		fmt.Fprintf(a.out, "Hint:  %s\n", hint)
	}
}
