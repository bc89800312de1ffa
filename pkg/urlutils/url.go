// Package urlutils provides URL helper functions.
package urlutils

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrNotHTTP is returned for URLs that are not absolute http or https URLs
var ErrNotHTTP = errors.New("must be an absolute http or https URL")

// IsValidURL checks if a URL has a scheme and a host
func IsValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// ParseHTTPURL parses urlStr and requires an http or https scheme and a host
func ParseHTTPURL(urlStr string) (*url.URL, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrNotHTTP, urlStr)
	}
	return u, nil
}

// IsHTTPURL reports whether urlStr is an absolute http or https URL
func IsHTTPURL(urlStr string) bool {
	_, err := ParseHTTPURL(urlStr)
	return err == nil
}
