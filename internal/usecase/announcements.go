package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/toddlers/naws/internal/domain"
)

// AnnouncementsUseCase loads announcements from a feed: fetch, then parse.
type AnnouncementsUseCase struct {
	fetcher FeedFetcher
	parser  FeedParser
	log     *slog.Logger
}

// NewAnnouncementsUseCase wires a fetcher and a parser together.
func NewAnnouncementsUseCase(fetcher FeedFetcher, parser FeedParser, log *slog.Logger) *AnnouncementsUseCase {
	return &AnnouncementsUseCase{
		fetcher: fetcher,
		parser:  parser,
		log:     log,
	}
}

// Load fetches url and parses the body into announcements.
// Errors keep their original cause and are prefixed with the stage that failed,
// so callers can still match *domain.FetchError and *domain.ParseError.
func (uc *AnnouncementsUseCase) Load(ctx context.Context, url string) ([]domain.Announcement, error) {
	start := time.Now()
	log := uc.log.With(
		slog.String("component", "announcements"),
		slog.String("url", url),
	)

	log.Info("Loading feed")

	data, err := uc.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Error("Feed fetch failed",
			slog.String("stage", "fetch"),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	log.Info("Feed fetched", slog.String("stage", "fetch"), slog.Int("bytes", len(data)))

	items, err := uc.parser.Parse(ctx, data)
	if err != nil {
		log.Error("Feed parsing failed",
			slog.String("stage", "parse"),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	log.Info("Feed loaded",
		slog.Int("items_found", len(items)),
		slog.Duration("duration", time.Since(start)),
	)
	return items, nil
}
