package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/toddlers/naws/internal/adapter/fetcher"
	"github.com/toddlers/naws/internal/adapter/parser"
	"github.com/toddlers/naws/internal/config"
	"github.com/toddlers/naws/internal/transport/terminal"
	"github.com/toddlers/naws/internal/usecase"
)

// Options carries the process level dependencies that are not part of Config.
// UserAgent, when set, replaces the default identification built from Version.
type Options struct {
	Logger     *slog.Logger
	Stdout     io.Writer
	Color      bool
	Version    string
	UserAgent  string
	HTTPClient *http.Client
}

// App runs one fetch, select and render cycle.
type App struct {
	config   *config.Config
	logger   *slog.Logger
	useCase  *usecase.AnnouncementsUseCase
	renderer *terminal.Renderer
}

// New wires the fetcher, parser, use case and renderer for cfg.
func New(cfg *config.Config, opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = fetcher.UserAgent(opts.Version)
	}

	var fetcherOpts []fetcher.Option
	if opts.HTTPClient != nil {
		fetcherOpts = append(fetcherOpts, fetcher.WithClient(opts.HTTPClient))
	}
	httpFetcher := fetcher.NewHTTPFetcher(log, userAgent, fetcherOpts...)
	xmlParser := parser.NewXMLParser(log)
	useCase := usecase.NewAnnouncementsUseCase(httpFetcher, xmlParser, log)
	renderer := terminal.NewRenderer(stdout, terminal.Options{
		Color:           opts.Color,
		ShowDescription: cfg.Display.ShowDescription,
		FullDescription: cfg.Display.FullDescription,
		JSON:            cfg.Display.JSON,
	})

	return &App{
		config:   cfg,
		logger:   log,
		useCase:  useCase,
		renderer: renderer,
	}
}

// Run loads the feed, applies the filter and limit, and renders the result.
// Nothing is written to stdout when loading fails.
func (a *App) Run(ctx context.Context) error {
	items, err := a.useCase.Load(ctx, a.config.Feed.URL)
	if err != nil {
		return err
	}
	sel := usecase.Select(items, a.config.Display.Filter, a.config.Display.Limit)
	a.logger.Info("Announcements selected",
		slog.String("component", "app"),
		slog.Int("count", len(sel.Items)),
		slog.Int("total", sel.Total),
		slog.Int("limit", a.config.Display.Limit),
	)
	if err := a.renderer.Render(sel.Items, sel.Total); err != nil {
		return fmt.Errorf("render announcements: %w", err)
	}
	return nil
}
