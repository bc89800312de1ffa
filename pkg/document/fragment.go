package document

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

// ErrInvalidFragment is returned when a fragment would not render as an image
var ErrInvalidFragment = errors.New("fragment does not render as an image")

var markdown = goldmark.New()

// Fragment builds the Markdown image embed for label and link.
func Fragment(label, link string) string {
	return "![" + label + "](" + link + ")"
}

// VerifyFragment renders fragment and checks that it produces exactly one
// image whose alt text is label and whose source is not empty.
func VerifyFragment(fragment, label string) error {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(fragment), &buf); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFragment, err)
	}

	doc, err := html.Parse(&buf)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFragment, err)
	}

	images := findImages(doc)
	if len(images) != 1 {
		return fmt.Errorf("%w: rendered %d images", ErrInvalidFragment, len(images))
	}

	img := images[0]
	if alt := attr(img, "alt"); alt != label {
		return fmt.Errorf("%w: alt text %q, want %q", ErrInvalidFragment, alt, label)
	}
	if attr(img, "src") == "" {
		return fmt.Errorf("%w: empty image source", ErrInvalidFragment)
	}

	return nil
}

func findImages(n *html.Node) []*html.Node {
	var images []*html.Node
	if n.Type == html.ElementNode && n.Data == "img" {
		images = append(images, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		images = append(images, findImages(c)...)
	}
	return images
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
