package usecase

import (
	"context"

	"github.com/toddlers/naws/internal/domain"
)

// FeedFetcher downloads a raw feed document.
// The whole body is buffered before it is handed to the parser.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FeedParser turns a raw feed document into announcements in feed order.
type FeedParser interface {
	Parse(ctx context.Context, data []byte) ([]domain.Announcement, error)
}
