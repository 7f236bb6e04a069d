package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ytget/ytgrab/internal/config"
	"github.com/ytget/ytgrab/internal/download"
	"github.com/ytget/ytgrab/internal/fetch"
	"github.com/ytget/ytgrab/internal/logger"
	"github.com/ytget/ytgrab/internal/metadata"
	"github.com/ytget/ytgrab/internal/platform"
)

const usage = `Usage: ytgrab [-config file] [-install-ytdlp] <command> [flags] <url>

Commands:
  info <url>                       show video title, author, views and duration
  download [-format f] [-dir d] <url>
                                   download a video (formats: video, audio, video_only)
  playlist [-format f] [-dir d] [-limit n] [-download] <url>
                                   list a playlist and optionally download it
`

// app holds the wired components shared by the commands
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	resolver *metadata.Resolver
	service  *download.Service
	out      io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	global := flag.NewFlagSet("ytgrab", flag.ContinueOnError)
	global.SetOutput(out)
	global.Usage = func() { fmt.Fprint(out, usage) }
	configPath := global.String("config", "", "path to YAML config file")
	install := global.Bool("install-ytdlp", false, "install or update the managed yt-dlp binary first")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return 1
	}
	log := logger.SetupGlobal(cfg.Debug, false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log, *install, out)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return 1
	}

	cmd, cmdArgs := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "info":
		err = a.info(ctx, cmdArgs)
	case "download":
		err = a.download(ctx, cmdArgs)
	case "playlist":
		err = a.playlist(ctx, cmdArgs)
	default:
		fmt.Fprintf(out, "unknown command %q\n\n", cmd)
		global.Usage()
		return 2
	}
	if err != nil {
		a.printError(err)
		return 1
	}
	return 0
}

// newApp wires configuration into the resolver and the download service
func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger, install bool, out io.Writer) (*app, error) {
	ytdlpPath := cfg.YtdlpPath
	missing := ytdlpPath == "" && !platform.ToolAvailable(platform.YTDLPCommand)
	switch {
	case install || (missing && cfg.AutoInstall):
		path, err := fetch.Install(ctx, log)
		if err != nil {
			return nil, err
		}
		ytdlpPath = path
	case missing:
		log.Warn("yt-dlp not found on PATH, downloads will fail", "hint", "run with -install-ytdlp")
	}

	ffmpeg := platform.NewCapabilityProbe(cfg.FFmpegName)
	if !ffmpeg.Available() {
		log.Info("transcoder not found, audio downloads are disabled", "tool", ffmpeg.Name())
	}

	primary := metadata.NewYouTubeProvider(nil, cfg.PrimaryTimeout)
	if cfg.BrowserTLS {
		client, err := platform.NewBrowserHTTPClient(cfg.PrimaryTimeout)
		if err != nil {
			log.Warn("browser TLS transport unavailable, using default client", "error", err)
		} else {
			primary = metadata.NewYouTubeProvider(client, cfg.PrimaryTimeout)
		}
	}

	metaTool := fetch.NewYTDLP(ytdlpPath, cfg.MetadataTimeout, log)
	resolver := metadata.NewResolver(primary, metadata.NewFetchToolProvider(metaTool), cfg.PrimaryTimeout, log)

	tool := fetch.NewYTDLP(ytdlpPath, cfg.DownloadTimeout, log)
	service := download.NewService(tool, download.Options{
		FilenameTemplate:    cfg.FilenameTemplate,
		TranscoderAvailable: ffmpeg.Available(),
		MaxParallel:         cfg.MaxParallel,
	}, log)

	return &app{cfg: cfg, log: log, resolver: resolver, service: service, out: out}, nil
}
