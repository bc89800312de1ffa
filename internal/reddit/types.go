package reddit

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// DefaultUserAgent impersonates a desktop browser; Reddit blocks obvious bot agents
// on the unauthenticated JSON endpoints.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/111.0.0.0 Safari/537.36"

// DisplaySizeQuery is appended to every extracted image link as a display hint.
const DisplaySizeQuery = "?width=100&height=100"

// Failure classes surfaced to callers. Use errors.Is to branch on them.
var (
	ErrFetchFailed       = errors.New("fetch failed")
	ErrMalformedResponse = errors.New("malformed feed response")
	ErrNoImageLink       = errors.New("no image link found")
)

// FeedResponse is a validated JSON body returned by a feed endpoint
type FeedResponse struct {
	root gjson.Result
}

// ParseFeedResponse validates body as JSON and wraps it.
// Invalid JSON is reported as a decode FetchError.
func ParseFeedResponse(body []byte) (FeedResponse, error) {
	if !gjson.ValidBytes(body) {
		return FeedResponse{}, &FetchError{Kind: FetchDecode, Err: errors.New("response body is not valid JSON")}
	}
	return FeedResponse{root: gjson.ParseBytes(body)}, nil
}

// Raw returns the JSON text of the response
func (f FeedResponse) Raw() string {
	return f.root.Raw
}

// ImageLink is a validated image URL carrying the display size query.
// It can only be produced by Extract.
type ImageLink string

func (l ImageLink) String() string {
	return string(l)
}

// FetchErrorKind tags the stage of a fetch failure
type FetchErrorKind string

// Fetch failure kinds
const (
	FetchTransport FetchErrorKind = "transport"
	FetchStatus    FetchErrorKind = "status"
	FetchDecode    FetchErrorKind = "decode"
)

// FetchError describes why a feed could not be fetched
type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == FetchStatus {
		return fmt.Sprintf("fetch failed: %s %d: %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch failed: %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches ErrFetchFailed so every kind shares one failure class
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

// MalformedError records where navigation of a feed response stopped
type MalformedError struct {
	Step   string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrMalformedResponse, e.Step, e.Reason)
}

// Is matches ErrMalformedResponse
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedResponse
}
