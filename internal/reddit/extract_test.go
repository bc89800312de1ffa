package reddit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, body string) FeedResponse {
	t.Helper()
	resp, err := ParseFeedResponse([]byte(body))
	require.NoError(t, err)
	return resp
}

func TestExtract_ImageLinks(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "png", url: "https://i.redd.it/abc123.png"},
		{name: "jpg", url: "https://i.redd.it/abc123.jpg"},
		{name: "jpeg", url: "https://i.redd.it/abc123.jpeg"},
		{name: "uppercase extension", url: "https://i.imgur.com/XYZ.PNG"},
		{name: "mixed case extension", url: "https://i.imgur.com/xyz.JpEg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `[{"data":{"children":[{"data":{"url":"` + tt.url + `"}}]}}]`

			link, err := Extract(mustParse(t, body))

			require.NoError(t, err)
			assert.Equal(t, ImageLink(tt.url+"?width=100&height=100"), link)
		})
	}
}

func TestExtract_UsesFirstPostOnly(t *testing.T) {
	body := `[
		{"kind":"Listing","data":{"children":[
			{"kind":"t3","data":{"title":"first","url":"https://i.redd.it/first.jpg"}},
			{"kind":"t3","data":{"title":"second","url":"https://i.redd.it/second.png"}}
		]}},
		{"kind":"Listing","data":{"children":[]}}
	]`

	link, err := Extract(mustParse(t, body))

	require.NoError(t, err)
	assert.Equal(t, "https://i.redd.it/first.jpg?width=100&height=100", link.String())
}

func TestExtract_NoImageLink(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "gif", url: "https://i.redd.it/anim.gif"},
		{name: "video", url: "https://v.redd.it/clip.mp4"},
		{name: "no extension", url: "https://v.redd.it/abc123"},
		{name: "gallery page", url: "https://www.reddit.com/gallery/xyz"},
		{name: "query after extension", url: "https://i.redd.it/abc.png?s=1"},
		{name: "extension inside path", url: "https://example.com/x.png/view"},
		{name: "empty string", url: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `[{"data":{"children":[{"data":{"url":"` + tt.url + `"}}]}}]`

			link, err := Extract(mustParse(t, body))

			assert.Empty(t, link)
			assert.ErrorIs(t, err, ErrNoImageLink)
			assert.NotErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestExtract_MalformedResponse(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantStep string
	}{
		{name: "object instead of sequence", body: `{"data":{}}`, wantStep: "[0]"},
		{name: "empty outer sequence", body: `[]`, wantStep: "[0]"},
		{name: "null body", body: `null`, wantStep: "[0]"},
		{name: "element is not a mapping", body: `["listing"]`, wantStep: "[0].data"},
		{name: "missing data", body: `[{"kind":"Listing"}]`, wantStep: "[0].data"},
		{name: "data is a string", body: `[{"data":"oops"}]`, wantStep: "[0].data.children"},
		{name: "missing children", body: `[{"data":{}}]`, wantStep: "[0].data.children"},
		{name: "children is a mapping", body: `[{"data":{"children":{}}}]`, wantStep: "[0].data.children.[0]"},
		{name: "empty children", body: `[{"data":{"children":[]}}]`, wantStep: "[0].data.children.[0]"},
		{name: "child without data", body: `[{"data":{"children":[{"kind":"t3"}]}}]`, wantStep: "[0].data.children.[0].data"},
		{name: "child data is null", body: `[{"data":{"children":[{"data":null}]}}]`, wantStep: "[0].data.children.[0].data.url"},
		{name: "missing url", body: `[{"data":{"children":[{"data":{"title":"x"}}]}}]`, wantStep: "[0].data.children.[0].data.url"},
		{name: "url is a number", body: `[{"data":{"children":[{"data":{"url":42}}]}}]`, wantStep: "[0].data.children.[0].data.url"},
		{name: "url is null", body: `[{"data":{"children":[{"data":{"url":null}}]}}]`, wantStep: "[0].data.children.[0].data.url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := Extract(mustParse(t, tt.body))

			assert.Empty(t, link)
			require.ErrorIs(t, err, ErrMalformedResponse)
			assert.NotErrorIs(t, err, ErrNoImageLink)

			var malformed *MalformedError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.wantStep, malformed.Step)
			assert.NotEmpty(t, malformed.Reason)
		})
	}
}

func TestExtract_ZeroResponse(t *testing.T) {
	_, err := Extract(FeedResponse{})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseFeedResponse_InvalidJSON(t *testing.T) {
	for _, body := range []string{"", "<html>blocked</html>", `[{"data":`} {
		_, err := ParseFeedResponse([]byte(body))

		require.ErrorIs(t, err, ErrFetchFailed, "body %q", body)
		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, FetchDecode, fetchErr.Kind)
	}
}

func TestIsImageURL(t *testing.T) {
	assert.True(t, IsImageURL("https://i.redd.it/a.png"))
	assert.True(t, IsImageURL("A.JPG"))
	assert.False(t, IsImageURL("https://i.redd.it/a.webp"))
	assert.False(t, IsImageURL("png"))
}
