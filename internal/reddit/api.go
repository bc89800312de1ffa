// Package reddit fetches random posts from Reddit's JSON endpoints and
// extracts the image link of the first post.
package reddit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lepinkainen/readme-rotator/pkg/api"
	"github.com/lepinkainen/readme-rotator/pkg/urlutils"
)

// Fetcher retrieves feed responses from a random post endpoint
type Fetcher struct {
	client    *api.EnhancedClient
	userAgent string
}

// FetcherConfig configures a Fetcher
type FetcherConfig struct {
	// HTTPClient is the underlying transport; an OAuth client can be passed here
	HTTPClient *http.Client
	UserAgent  string
	// Interval spaces consecutive requests made through this fetcher
	Interval time.Duration
}

// NewFetcher creates a Fetcher that sends every request with the configured User-Agent
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	return &Fetcher{
		client:    api.NewRedditClient(cfg.HTTPClient, cfg.UserAgent, cfg.Interval),
		userAgent: cfg.UserAgent,
	}
}

// Fetch performs exactly one GET against endpoint and validates the body as JSON.
// Every failure matches ErrFetchFailed and is a *FetchError describing the stage.
func (f *Fetcher) Fetch(ctx context.Context, endpoint string) (FeedResponse, error) {
	if err := validateEndpoint(endpoint); err != nil {
		return FeedResponse{}, &FetchError{Kind: FetchTransport, Err: err}
	}

	start := time.Now()
	body, err := f.client.Get(ctx, endpoint, map[string]string{"User-Agent": f.userAgent})
	if err != nil {
		if code, ok := api.StatusCode(err); ok {
			if api.IsRateLimitError(err) {
				slog.Warn("Feed endpoint is rate limiting requests", "url", endpoint)
			}
			return FeedResponse{}, &FetchError{Kind: FetchStatus, StatusCode: code, Err: err}
		}
		return FeedResponse{}, &FetchError{Kind: FetchTransport, Err: err}
	}

	resp, err := ParseFeedResponse(body)
	if err != nil {
		return FeedResponse{}, err
	}

	slog.Debug("Fetched feed response", "url", endpoint, "bytes", len(body), "duration", time.Since(start))
	return resp, nil
}

func validateEndpoint(endpoint string) error {
	if _, err := urlutils.ParseHTTPURL(endpoint); err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	return nil
}
