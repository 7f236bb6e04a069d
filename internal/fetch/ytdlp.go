package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// YTDLP runs the yt-dlp executable through go-ytdlp
type YTDLP struct {
	// Path of the yt-dlp executable. Empty resolves it from the managed
	// install or PATH.
	Path string

	// Timeout bounds a single invocation. Zero means no limit.
	Timeout time.Duration

	Logger *slog.Logger
}

// NewYTDLP creates a tool adapter for the executable at path
func NewYTDLP(path string, timeout time.Duration, logger *slog.Logger) *YTDLP {
	if logger == nil {
		logger = slog.Default()
	}
	return &YTDLP{Path: path, Timeout: timeout, Logger: logger}
}

// command builds the invocation for q
func (y *YTDLP) command(q Query) *ytdlp.Command {
	cmd := ytdlp.New().
		DumpSingleJSON().
		NoPlaylist().
		NoWarnings()

	if y.Path != "" {
		cmd = cmd.SetExecutable(y.Path)
	}

	if !q.Download {
		return cmd.SkipDownload()
	}

	cmd = cmd.NoSimulate().NoProgress()
	if q.Format != "" {
		cmd = cmd.Format(q.Format)
	}
	if q.OutputTemplate != "" {
		cmd = cmd.Output(q.OutputTemplate)
	}
	if pp := q.Postprocessor; pp != nil && pp.Key == ExtractAudioKey {
		cmd = cmd.ExtractAudio()
		if pp.Codec != "" {
			cmd = cmd.AudioFormat(pp.Codec)
		}
		if pp.Quality != "" {
			cmd = cmd.AudioQuality(pp.Quality + "K")
		}
	}
	return cmd
}

// ExtractInfo implements Tool
func (y *YTDLP) ExtractInfo(ctx context.Context, locator string, q Query) (*Info, error) {
	if y.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.Timeout)
		defer cancel()
	}

	y.logger().Debug("running fetch tool",
		"locator", locator,
		"download", q.Download,
		"format", q.Format,
	)

	res, err := y.command(q).Run(ctx, locator)
	var stdout, stderr string
	if res != nil {
		stdout, stderr = res.Stdout, res.Stderr
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %v", ctxErr, err)
		}
		return nil, Classify(locator, stderr, err)
	}

	info, perr := ParseInfo(stdout)
	if perr != nil {
		return nil, Classify(locator, stderr, perr)
	}
	return info, nil
}

func (y *YTDLP) logger() *slog.Logger {
	if y.Logger == nil {
		return slog.Default()
	}
	return y.Logger
}

// Install downloads or updates the managed yt-dlp binary and returns its path
func Install(ctx context.Context, logger *slog.Logger) (string, error) {
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	if logger != nil {
		logger.Info("yt-dlp ready", "path", resolved.Executable, "version", resolved.Version)
	}
	return resolved.Executable, nil
}
