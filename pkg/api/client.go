// Package api provides the outbound HTTP client used to talk to feed endpoints.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	httputil "github.com/lepinkainen/readme-rotator/pkg/http"
)

// EnhancedClientConfig configures the enhanced HTTP client
type EnhancedClientConfig struct {
	BaseClient     *http.Client
	RateLimiter    RateLimiter
	RetryPolicy    *RetryPolicy
	UserAgent      string
	DefaultHeaders map[string]string
	Logger         *slog.Logger
}

// EnhancedClient provides HTTP client functionality with rate limiting, a retry policy and standard headers
type EnhancedClient struct {
	client         *http.Client
	rateLimiter    RateLimiter
	retryPolicy    *RetryPolicy
	userAgent      string
	defaultHeaders map[string]string
	logger         *slog.Logger
}

// NewEnhancedClient creates a new enhanced HTTP client with the provided configuration
func NewEnhancedClient(config *EnhancedClientConfig) *EnhancedClient {
	if config == nil {
		config = &EnhancedClientConfig{}
	}
	if config.BaseClient == nil {
		config.BaseClient = &http.Client{Timeout: 30 * time.Second}
	}
	if config.RateLimiter == nil {
		config.RateLimiter = NewNoOpRateLimiter()
	}
	if config.RetryPolicy == nil {
		config.RetryPolicy = SingleAttemptPolicy()
	}
	if config.UserAgent == "" {
		config.UserAgent = "readme-rotator/1.0"
	}
	if config.DefaultHeaders == nil {
		config.DefaultHeaders = make(map[string]string)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &EnhancedClient{
		client:         config.BaseClient,
		rateLimiter:    config.RateLimiter,
		retryPolicy:    config.RetryPolicy,
		userAgent:      config.UserAgent,
		defaultHeaders: config.DefaultHeaders,
		logger:         config.Logger,
	}
}

// Get performs an HTTP GET request and returns the body of a 2xx response.
// Non-2xx responses are returned as *HTTPError, transport failures are wrapped as-is.
func (ec *EnhancedClient) Get(ctx context.Context, url string, additionalHeaders map[string]string) ([]byte, error) {
	var body []byte

	operation := func() error {
		if err := ec.rateLimiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("User-Agent", ec.userAgent)

		for key, value := range ec.defaultHeaders {
			req.Header.Set(key, value)
		}

		// Additional headers override defaults
		for key, value := range additionalHeaders {
			req.Header.Set(key, value)
		}

		start := time.Now()
		res, err := ec.client.Do(req)
		duration := time.Since(start)

		if err != nil {
			ec.logAPICall(url, duration, false, err)
			return fmt.Errorf("failed to perform GET request: %w", err)
		}

		if err := httputil.EnsureSuccess(res); err != nil {
			ec.logAPICall(url, duration, false, err)
			_ = res.Body.Close()
			return &HTTPError{
				StatusCode: res.StatusCode,
				Message:    err.Error(),
			}
		}

		ec.logger.Debug("Response received", "url", url, "contentType", httputil.GetContentType(res))

		body, err = httputil.ReadResponseBody(res)
		if err != nil {
			ec.logAPICall(url, duration, false, err)
			return fmt.Errorf("failed to read response body: %w", err)
		}

		ec.logAPICall(url, duration, true, nil)
		return nil
	}

	if err := ExecuteWithRetry(ctx, operation, ec.retryPolicy, "GET "+url); err != nil {
		return nil, err
	}

	return body, nil
}

// SetUserAgent updates the User-Agent header for all requests
func (ec *EnhancedClient) SetUserAgent(userAgent string) {
	ec.userAgent = userAgent
}

// UserAgent returns the User-Agent sent with every request
func (ec *EnhancedClient) UserAgent() string {
	return ec.userAgent
}

// logAPICall logs API call statistics
func (ec *EnhancedClient) logAPICall(url string, duration time.Duration, success bool, err error) {
	status := "success"
	if !success {
		status = "failure"
	}

	fields := []any{
		"url", url,
		"duration", duration,
		"status", status,
	}

	if err != nil {
		fields = append(fields, "error", err)
	}

	if success {
		ec.logger.Debug("API call completed", fields...)
	} else {
		ec.logger.Warn("API call failed", fields...)
	}
}

// NewRedditClient creates an enhanced client configured for Reddit's JSON endpoints.
// Consecutive requests are spaced by interval; a nil base client gets a 30 second timeout.
func NewRedditClient(baseClient *http.Client, userAgent string, interval time.Duration) *EnhancedClient {
	var limiter RateLimiter = NewNoOpRateLimiter()
	if interval > 0 {
		limiter = NewSimpleRateLimiter(interval)
	}

	return NewEnhancedClient(&EnhancedClientConfig{
		BaseClient:  baseClient,
		RateLimiter: limiter,
		RetryPolicy: SingleAttemptPolicy(),
		UserAgent:   userAgent,
		DefaultHeaders: map[string]string{
			"Accept": "application/json",
		},
	})
}
