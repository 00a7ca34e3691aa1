package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/pflag"
)

// DefaultFeedURL is the AWS "What's New" RSS feed.
const DefaultFeedURL = "https://aws.amazon.com/about-aws/whats-new/recent/feed/"

// ErrHelp is returned by Parse when -h or --help was requested.
var ErrHelp = pflag.ErrHelp

// Config holds everything a single run needs. It is filled once from the command line
// and treated as read-only afterwards.
type Config struct {
	Feed        FeedConfig
	Display     DisplayConfig
	Logger      LoggerConfig
	Verbose     bool
	ShowVersion bool
}

// FeedConfig describes where the feed comes from.
type FeedConfig struct {
	URL string
}

// DisplayConfig controls selection and rendering.
type DisplayConfig struct {
	Limit           int
	Filter          string
	FullDescription bool
	ShowDescription bool
	JSON            bool
	NoColor         bool
}

// LoggerConfig sets the minimum log level (debug, info, warn, error, off).
type LoggerConfig struct {
	Level string
}

// New returns a Config with default values.
func New() *Config {
	return &Config{
		Feed: FeedConfig{
			URL: DefaultFeedURL,
		},
		Display: DisplayConfig{
			Limit: 10,
		},
		Logger: LoggerConfig{
			Level: "off",
		},
	}
}

func newFlagSet(cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("naws", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.StringVarP(&cfg.Feed.URL, "url", "u", cfg.Feed.URL, "RSS feed URL")
	fs.IntVarP(&cfg.Display.Limit, "limit", "l", cfg.Display.Limit, "maximum number of announcements to display")
	fs.StringVarP(&cfg.Display.Filter, "filter", "f", cfg.Display.Filter, "only show announcements containing this text (case-insensitive)")
	fs.BoolVarP(&cfg.Display.ShowDescription, "show-description", "d", cfg.Display.ShowDescription, "show announcement descriptions")
	fs.BoolVarP(&cfg.Display.FullDescription, "full-description", "F", cfg.Display.FullDescription, "show full descriptions instead of summaries")
	fs.BoolVarP(&cfg.Display.JSON, "json", "j", cfg.Display.JSON, "print announcements as JSON")
	fs.BoolVar(&cfg.Display.NoColor, "no-color", cfg.Display.NoColor, "disable colored output")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "log progress to stderr")
	fs.BoolVar(&cfg.ShowVersion, "version", cfg.ShowVersion, "print version and exit")
	fs.SetOutput(io.Discard)
	return fs
}

// Parse builds a Config from command line arguments (without the program name).
// It returns ErrHelp when help was requested and a descriptive error for unknown
// flags, bad values or stray positional arguments.
func Parse(args []string) (*Config, error) {
	cfg := New()
	fs := newFlagSet(cfg)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if cfg.Verbose {
		cfg.Logger.Level = "debug"
	}
	return cfg, nil
}

// Usage writes the flag help text to w.
func Usage(w io.Writer) {
	fs := newFlagSet(New())
	fmt.Fprintf(w, "Usage: naws [flags]\n\nShow the latest AWS announcements from an RSS feed.\n\nFlags:\n%s", fs.FlagUsages())
}

// Validate checks values that flag parsing alone cannot reject.
func (c *Config) Validate() error {
	if c.Display.Limit < 0 {
		return fmt.Errorf("limit must not be negative: %d", c.Display.Limit)
	}
	if _, err := url.ParseRequestURI(c.Feed.URL); err != nil {
		return fmt.Errorf("invalid feed url: %s", c.Feed.URL)
	}
	switch c.Logger.Level {
	case "debug", "info", "warn", "error", "off":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logger.Level)
	}
	return nil
}
