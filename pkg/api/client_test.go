package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewEnhancedClient(t *testing.T) {
	tests := []struct {
		name   string
		config *EnhancedClientConfig
		want   func(*EnhancedClient) bool
	}{
		{
			name:   "nil config gets defaults",
			config: nil,
			want: func(ec *EnhancedClient) bool {
				return ec.client.Timeout == 30*time.Second &&
					ec.userAgent == "readme-rotator/1.0" &&
					ec.rateLimiter != nil &&
					ec.retryPolicy.MaxAttempts == 1 &&
					ec.defaultHeaders != nil &&
					ec.logger != nil
			},
		},
		{
			name: "custom config preserved",
			config: &EnhancedClientConfig{
				BaseClient:  &http.Client{Timeout: 5 * time.Second},
				RateLimiter: NewSimpleRateLimiter(2 * time.Second),
				UserAgent:   "CustomAgent/1.0",
				DefaultHeaders: map[string]string{
					"Accept": "application/json",
				},
			},
			want: func(ec *EnhancedClient) bool {
				return ec.client.Timeout == 5*time.Second &&
					ec.userAgent == "CustomAgent/1.0" &&
					ec.defaultHeaders["Accept"] == "application/json"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewEnhancedClient(tt.config)
			if !tt.want(got) {
				t.Errorf("NewEnhancedClient() validation failed")
			}
		})
	}
}

func TestEnhancedClient_Get(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse func(w http.ResponseWriter, r *http.Request)
		headers        map[string]string
		wantErr        bool
		wantStatus     int
		wantBody       string
	}{
		{
			name: "successful GET request",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`[{"data":{}}]`))
			},
			wantBody: `[{"data":{}}]`,
		},
		{
			name: "user agent and accept header are set",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("User-Agent") != "Mozilla/5.0 test" || r.Header.Get("Accept") != "application/json" {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				_, _ = w.Write([]byte("ok"))
			},
			wantBody: "ok",
		},
		{
			name: "additional headers override defaults",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(r.Header.Get("Accept")))
			},
			headers:  map[string]string{"Accept": "text/plain"},
			wantBody: "text/plain",
		},
		{
			name: "accepted counts as success",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusAccepted)
				_, _ = w.Write([]byte("queued"))
			},
			wantBody: "queued",
		},
		{
			name: "forbidden returns HTTPError",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
			wantErr:    true,
			wantStatus: http.StatusForbidden,
		},
		{
			name: "server error is not retried",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr:    true,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				tt.serverResponse(w, r)
			}))
			defer server.Close()

			client := NewRedditClient(nil, "Mozilla/5.0 test", 0)

			body, err := client.Get(context.Background(), server.URL, tt.headers)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Get() error = %v, wantErr %v", err, tt.wantErr)
			}

			if calls != 1 {
				t.Errorf("Get() made %d requests, want exactly 1", calls)
			}

			if tt.wantErr {
				var httpErr *HTTPError
				if !errors.As(err, &httpErr) {
					t.Fatalf("Get() error = %T, want *HTTPError", err)
				}
				if httpErr.StatusCode != tt.wantStatus {
					t.Errorf("Get() status = %d, want %d", httpErr.StatusCode, tt.wantStatus)
				}
				return
			}

			if string(body) != tt.wantBody {
				t.Errorf("Get() body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestEnhancedClient_GetTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewRedditClient(nil, "test", 0)

	_, err := client.Get(context.Background(), url, nil)
	if err == nil {
		t.Fatal("Get() against a closed server should fail")
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		t.Errorf("Get() transport failure should not be an HTTPError, got %v", err)
	}
}
