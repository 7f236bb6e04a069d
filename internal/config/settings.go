package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/ytget/ytgrab/internal/fetch"
	"github.com/ytget/ytgrab/internal/model"
	"github.com/ytget/ytgrab/internal/platform"
)

// EnvPrefix prefixes every environment variable, e.g. YTGRAB_DOWNLOAD_DIR
const EnvPrefix = "YTGRAB"

// Default values
const (
	DefaultMaxParallel      = 2
	MinParallel             = 1
	MaxParallel             = 10
	DefaultFilenameTemplate = fetch.DefaultFilenameTemplate
	DefaultIntent           = model.AudioAndVideo
	DefaultMetadataTimeout  = 60 * time.Second
	DefaultPrimaryTimeout   = 15 * time.Second
	DefaultDownloadTimeout  = 0 // unbounded, large files take long
	FallbackDownloadDir     = "downloads"
)

// Config holds application settings
type Config struct {
	DownloadDir      string             `yaml:"download_dir" envconfig:"DOWNLOAD_DIR"`
	FilenameTemplate string             `yaml:"filename_template" envconfig:"FILENAME_TEMPLATE"`
	DefaultIntent    model.FormatIntent `yaml:"default_format" envconfig:"DEFAULT_FORMAT"`
	MaxParallel      int                `yaml:"max_parallel" envconfig:"MAX_PARALLEL"`
	// PlaylistLimit caps how many playlist entries are listed; zero lists all
	PlaylistLimit int `yaml:"playlist_limit" envconfig:"PLAYLIST_LIMIT"`

	YtdlpPath  string `yaml:"ytdlp_path" envconfig:"YTDLP_PATH"`
	FFmpegName string `yaml:"ffmpeg_name" envconfig:"FFMPEG_NAME"`

	// MetadataTimeout bounds a metadata-only fetch tool run
	MetadataTimeout time.Duration `yaml:"metadata_timeout" envconfig:"METADATA_TIMEOUT"`
	// PrimaryTimeout bounds the watch-page metadata provider
	PrimaryTimeout time.Duration `yaml:"primary_timeout" envconfig:"PRIMARY_TIMEOUT"`
	// DownloadTimeout bounds a single download; zero means no limit
	DownloadTimeout time.Duration `yaml:"download_timeout" envconfig:"DOWNLOAD_TIMEOUT"`

	BrowserTLS  bool `yaml:"browser_tls" envconfig:"BROWSER_TLS"`
	AutoInstall bool `yaml:"auto_install" envconfig:"AUTO_INSTALL"`
	Debug       bool `yaml:"debug" envconfig:"DEBUG"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	dir, err := platform.GetHomeDownloadsDir()
	if err != nil {
		dir = FallbackDownloadDir
	}
	return &Config{
		DownloadDir:      dir,
		FilenameTemplate: DefaultFilenameTemplate,
		DefaultIntent:    DefaultIntent,
		MaxParallel:      DefaultMaxParallel,
		FFmpegName:       platform.FFmpegCommand,
		MetadataTimeout:  DefaultMetadataTimeout,
		PrimaryTimeout:   DefaultPrimaryTimeout,
		DownloadTimeout:  DefaultDownloadTimeout,
		BrowserTLS:       true,
	}
}

// Load reads configuration from configPath (optional), then .env, then
// the environment, and validates the result.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// A missing .env file is not an error
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// normalize clamps values the way the settings screen used to
func (c *Config) normalize() {
	if c.MaxParallel < MinParallel {
		c.MaxParallel = MinParallel
	}
	if c.MaxParallel > MaxParallel {
		c.MaxParallel = MaxParallel
	}
	if c.DownloadDir != "" {
		c.DownloadDir = filepath.Clean(expandHome(c.DownloadDir))
	}
	// Unknown values are left for Validate to reject
	if intent, err := model.ParseFormatIntent(string(c.DefaultIntent)); err == nil {
		c.DefaultIntent = intent
	}
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if c.DownloadDir == "" {
		return fmt.Errorf("download_dir is required")
	}
	if c.FilenameTemplate == "" {
		return fmt.Errorf("filename_template is required")
	}
	if filepath.IsAbs(c.FilenameTemplate) {
		return fmt.Errorf("filename_template must be relative to download_dir")
	}
	if !c.DefaultIntent.Valid() {
		return fmt.Errorf("default_format %q is not one of %s", c.DefaultIntent, intentNames())
	}
	if c.FFmpegName == "" {
		return fmt.Errorf("ffmpeg_name is required")
	}
	if c.MetadataTimeout < 0 || c.PrimaryTimeout < 0 || c.DownloadTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.PlaylistLimit < 0 {
		return fmt.Errorf("playlist_limit must not be negative")
	}
	return nil
}

func intentNames() string {
	names := make([]string, 0, len(model.FormatIntents()))
	for _, intent := range model.FormatIntents() {
		names = append(names, intent.String())
	}
	return strings.Join(names, ", ")
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
