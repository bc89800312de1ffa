package http

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestGetContentType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		expected    string
	}{
		{
			name:        "application/json",
			contentType: "application/json",
			expected:    "application/json",
		},
		{
			name:        "json with charset",
			contentType: "application/json; charset=UTF-8",
			expected:    "application/json; charset=UTF-8",
		},
		{
			name:        "html block page",
			contentType: "text/html; charset=utf-8",
			expected:    "text/html; charset=utf-8",
		},
		{
			name:        "empty content type",
			contentType: "",
			expected:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{
				Header: make(http.Header),
			}
			resp.Header.Set("Content-Type", tt.contentType)

			result := GetContentType(resp)
			if result != tt.expected {
				t.Errorf("GetContentType() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

func TestEnsureSuccess(t *testing.T) {
	tests := []struct {
		name        string
		statusCode  int
		expectError bool
	}{
		{name: "200 OK", statusCode: http.StatusOK, expectError: false},
		{name: "201 Created", statusCode: http.StatusCreated, expectError: false},
		{name: "204 No Content", statusCode: http.StatusNoContent, expectError: false},
		{name: "299 upper bound", statusCode: 299, expectError: false},
		{name: "199 below range", statusCode: 199, expectError: true},
		{name: "302 Found", statusCode: http.StatusFound, expectError: true},
		{name: "403 Forbidden", statusCode: http.StatusForbidden, expectError: true},
		{name: "404 Not Found", statusCode: http.StatusNotFound, expectError: true},
		{name: "429 Too Many Requests", statusCode: http.StatusTooManyRequests, expectError: true},
		{name: "500 Internal Server Error", statusCode: http.StatusInternalServerError, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{StatusCode: tt.statusCode}

			err := EnsureSuccess(resp)
			if (err != nil) != tt.expectError {
				t.Errorf("EnsureSuccess() error = %v, expectError = %v", err, tt.expectError)
			}

			if err != nil && !strings.Contains(err.Error(), "unexpected status code") {
				t.Errorf("EnsureSuccess() error should contain 'unexpected status code', got: %v", err)
			}
		})
	}
}

func TestReadResponseBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "empty body",
			body:     "",
			expected: "",
		},
		{
			name:     "listing JSON",
			body:     `[{"kind": "Listing", "data": {"children": []}}]`,
			expected: `[{"kind": "Listing", "data": {"children": []}}]`,
		},
		{
			name:     "unicode content",
			body:     "Hello 世界",
			expected: "Hello 世界",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{
				Body: io.NopCloser(strings.NewReader(tt.body)),
			}

			result, err := ReadResponseBody(resp)
			if err != nil {
				t.Errorf("ReadResponseBody() error = %v", err)
				return
			}

			if string(result) != tt.expected {
				t.Errorf("ReadResponseBody() = %q, expected %q", string(result), tt.expected)
			}
		})
	}
}

// trackingReadCloser is a custom ReadCloser to track if Close() was called
type trackingReadCloser struct {
	*bytes.Reader
	closed bool
}

func (trc *trackingReadCloser) Close() error {
	trc.closed = true
	return nil
}

func TestResponseBodyClosure(t *testing.T) {
	tracker := &trackingReadCloser{
		Reader: bytes.NewReader([]byte("test content")),
	}

	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       tracker,
	}

	if _, err := ReadResponseBody(resp); err != nil {
		t.Errorf("ReadResponseBody() error = %v", err)
	}

	if !tracker.closed {
		t.Error("ReadResponseBody() should close the response body")
	}
}
