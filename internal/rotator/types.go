// Package rotator replaces placeholder images in a document with fresh images
// from Reddit feeds.
package rotator

import (
	"context"
	"time"

	"github.com/lepinkainen/readme-rotator/internal/reddit"
	"github.com/lepinkainen/readme-rotator/pkg/database"
)

// Feed is one configured image source and the placeholder it fills
type Feed struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	Label    string `mapstructure:"label" yaml:"label"`
	Marker   string `mapstructure:"marker" yaml:"marker"`
}

// Status is the result of one rotation
type Status string

const (
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
	StatusFailed    Status = "failed"
)

// Stage names the step a rotation failed in
type Stage string

const (
	StageFetch    Stage = "fetch"
	StageExtract  Stage = "extract"
	StageFragment Stage = "fragment"
	StagePatch    Stage = "patch"
)

// Outcome describes what a rotation did for one feed
type Outcome struct {
	Feed     string
	Status   Status
	Link     reddit.ImageLink
	Fragment string
	// Stage and Err are set when Status is StatusFailed
	Stage    Stage
	Err      error
	Duration time.Duration
}

// Fetcher retrieves a feed response from an endpoint
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) (reddit.FeedResponse, error)
}

// Patcher replaces the first line containing marker in the document at path
type Patcher interface {
	Patch(path, marker, replacement string) (bool, error)
}

// PatchFunc adapts a function to the Patcher interface
type PatchFunc func(path, marker, replacement string) (bool, error)

// Patch calls f
func (f PatchFunc) Patch(path, marker, replacement string) (bool, error) {
	return f(path, marker, replacement)
}

// Recorder stores successful rotations
type Recorder interface {
	Record(ctx context.Context, feed, link, document string) (database.Rotation, error)
}
