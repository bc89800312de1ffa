package reddit

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

// pathStep is one accessor on the way from the response root to the post URL.
// Exactly one of key or index is meaningful; index is used when key is empty.
type pathStep struct {
	key   string
	index int
}

func (s pathStep) String() string {
	if s.key != "" {
		return s.key
	}
	return "[" + strconv.Itoa(s.index) + "]"
}

// postURLPath leads from a random.json response to the first post's link:
// [0].data.children[0].data.url
var postURLPath = []pathStep{
	{index: 0},
	{key: "data"},
	{key: "children"},
	{index: 0},
	{key: "data"},
	{key: "url"},
}

// imageExtensions are matched case-insensitively against the end of the URL
var imageExtensions = []string{".jpg", ".jpeg", ".png"}

// Extract returns the first post's image link from a feed response with the
// display size query appended.
func Extract(resp FeedResponse) (ImageLink, error) {
	value, err := navigate(resp.root, postURLPath)
	if err != nil {
		slog.Debug("Feed response did not match expected shape", "error", err)
		return "", err
	}

	rawURL := value.String()
	if !IsImageURL(rawURL) {
		return "", fmt.Errorf("%w: %q", ErrNoImageLink, rawURL)
	}

	return ImageLink(rawURL + DisplaySizeQuery), nil
}

// IsImageURL reports whether rawURL ends with a supported image extension
func IsImageURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	return lo.SomeBy(imageExtensions, func(ext string) bool {
		return strings.HasSuffix(lower, ext)
	})
}

// navigate walks path from root and returns the string at its end
func navigate(root gjson.Result, path []pathStep) (gjson.Result, error) {
	current := root
	walked := make([]string, 0, len(path))

	for _, step := range path {
		walked = append(walked, step.String())
		location := strings.Join(walked, ".")

		if step.key == "" {
			if !current.IsArray() {
				return gjson.Result{}, &MalformedError{Step: location, Reason: "expected a sequence, got " + current.Type.String()}
			}
			items := current.Array()
			if step.index >= len(items) {
				return gjson.Result{}, &MalformedError{Step: location, Reason: fmt.Sprintf("sequence has %d elements", len(items))}
			}
			current = items[step.index]
			continue
		}

		if !current.IsObject() {
			return gjson.Result{}, &MalformedError{Step: location, Reason: "expected a mapping, got " + current.Type.String()}
		}
		next := current.Get(step.key)
		if !next.Exists() {
			return gjson.Result{}, &MalformedError{Step: location, Reason: "field is missing"}
		}
		current = next
	}

	if current.Type != gjson.String {
		return gjson.Result{}, &MalformedError{Step: strings.Join(walked, "."), Reason: "expected a string, got " + current.Type.String()}
	}

	return current, nil
}
