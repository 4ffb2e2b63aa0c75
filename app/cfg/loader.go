package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/lysyi3m/channel-comb/app/feed"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Store configuration
	StoreDSN string `long:"store-dsn" env:"STORE_DSN" description:"SQLite database path for the persistent cache (store disabled when empty)"`

	// Application configuration
	Port            string `long:"port" env:"PORT" default:"3001" description:"HTTP server port"`
	StateFile       string `long:"state-file" env:"STATE_FILE" default:"./data/preferences.yaml" description:"File holding tracked channels"`
	StaticDir       string `long:"static-dir" env:"STATIC_DIR" description:"Directory with a built frontend to serve (optional)"`
	WorkerCount     int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for channel loading"`
	RefreshInterval int    `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"0" description:"Background refresh interval in seconds (0 disables)"`
	PageSize        int    `long:"page-size" env:"PAGE_SIZE" default:"30" description:"Videos per page read from the store"`
	DiscardStale    bool   `long:"discard-stale" env:"DISCARD_STALE" description:"Drop results of channel loads overtaken by newer ones"`

	// Upstream feed
	FeedURLTemplate string `long:"feed-url-template" env:"FEED_URL_TEMPLATE" default:"https://www.youtube.com/feeds/videos.xml?channel_id=%s" description:"Upstream feed URL, %s is replaced by the channel id"`
	UserAgent       string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (compatible; YouTubeAnalytics/1.0)" description:"User agent string for HTTP requests"`
	FetchTimeout    int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Upstream request timeout in seconds"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses flags and environment. It returns nil without error when help was requested.
func Load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		StoreDSN:        raw.StoreDSN,
		Port:            raw.Port,
		StateFile:       raw.StateFile,
		StaticDir:       raw.StaticDir,
		WorkerCount:     raw.WorkerCount,
		RefreshInterval: time.Duration(raw.RefreshInterval) * time.Second,
		PageSize:        raw.PageSize,
		DiscardStale:    raw.DiscardStale,
		FeedURLTemplate: raw.FeedURLTemplate,
		UserAgent:       raw.UserAgent,
		FetchTimeout:    time.Duration(raw.FetchTimeout) * time.Second,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	return cfg, nil
}

func (c *Cfg) validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("worker count must be positive, got %d", c.WorkerCount)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval must not be negative, got %s", c.RefreshInterval)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	if !feed.IsValidURLTemplate(c.FeedURLTemplate) {
		return fmt.Errorf("feed URL template must contain a single %%s: %q", c.FeedURLTemplate)
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			slog.Debug("Timezone configured", "timezone", timezone)
		}
	}
	return nil
}
