package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/toddlers/naws/internal/domain"
)

const acceptHeader = "application/rss+xml, application/xml, text/xml;q=0.9, */*;q=0.8"

// UserAgent builds the identifying client header sent with every feed request.
func UserAgent(version string) string {
	return fmt.Sprintf("Mozilla/5.0 (compatible; naws/%s; +https://github.com/toddlers/naws)", version)
}

// HTTPFetcher downloads a feed document over HTTP.
// It performs exactly one request per call: no retries, no timeout besides the context.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	log       *slog.Logger
}

// Option customizes an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithClient replaces http.DefaultClient.
func WithClient(c *http.Client) Option {
	return func(f *HTTPFetcher) {
		f.client = c
	}
}

// NewHTTPFetcher creates a fetcher that identifies itself with userAgent.
func NewHTTPFetcher(log *slog.Logger, userAgent string, opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:    http.DefaultClient,
		userAgent: userAgent,
		log:       log,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch issues a GET request for url and returns the complete response body.
// Any status outside the 2xx range yields a *domain.FetchError carrying the status code;
// transport and body read failures yield a *domain.FetchError wrapping the cause.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	log := f.log.With(
		slog.String("component", "fetcher"),
		slog.String("url", url),
	)
	log.Info("Fetching URL")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error("Failed to create HTTP request", slog.Any("error", err))
		return nil, &domain.FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		log.Error(
			"HTTP request failed",
			slog.Any("error", err),
		)
		return nil, &domain.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Error(
			"Unexpected status code",
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, &domain.FetchError{URL: url, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", slog.Any("error", err))
		return nil, &domain.FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	log.Info("Successfully fetched URL", slog.Int("bytes", len(body)))
	return body, nil
}
