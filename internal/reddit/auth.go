package reddit

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultTokenURL is Reddit's OAuth2 token endpoint
const DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"

// OAuthConfig holds application-only credentials for Reddit's API
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// Enabled reports whether both credentials are present
func (c OAuthConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// NewOAuthHTTPClient returns an HTTP client that authenticates every request
// with an app-only (client credentials) bearer token. Tokens are fetched lazily
// on the first request and reused until they expire.
func NewOAuthHTTPClient(ctx context.Context, cfg OAuthConfig, timeout time.Duration) *http.Client {
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	ccConfig := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	// The token request itself goes through a client with the same timeout
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: timeout})

	client := ccConfig.Client(ctx)
	client.Timeout = timeout
	return client
}
