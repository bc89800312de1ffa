package rotator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lepinkainen/readme-rotator/internal/reddit"
	"github.com/lepinkainen/readme-rotator/pkg/document"
)

// Rotator runs the fetch, extract and patch pipeline against one document
type Rotator struct {
	fetcher  Fetcher
	patcher  Patcher
	recorder Recorder
	document string
	logger   *slog.Logger
}

// Option configures a Rotator
type Option func(*Rotator)

// WithPatcher replaces the document patcher
func WithPatcher(p Patcher) Option {
	return func(r *Rotator) { r.patcher = p }
}

// WithRecorder enables rotation history
func WithRecorder(rec Recorder) Option {
	return func(r *Rotator) { r.recorder = rec }
}

// WithLogger sets the logger that receives rotation diagnostics
func WithLogger(l *slog.Logger) Option {
	return func(r *Rotator) { r.logger = l }
}

// New creates a Rotator that patches documentPath with images from fetcher
func New(fetcher Fetcher, documentPath string, opts ...Option) *Rotator {
	r := &Rotator{
		fetcher:  fetcher,
		patcher:  PatchFunc(document.Patch),
		document: documentPath,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Document returns the path of the document being rotated
func (r *Rotator) Document() string {
	return r.document
}

// StageError wraps the error a rotation stopped on
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Candidate fetches a new image for feed and returns its link together with
// the Markdown fragment that would be written. The document is not touched.
func (r *Rotator) Candidate(ctx context.Context, feed Feed) (reddit.ImageLink, string, error) {
	resp, err := r.fetcher.Fetch(ctx, feed.Endpoint)
	if err != nil {
		return "", "", &StageError{Stage: StageFetch, Err: err}
	}

	link, err := reddit.Extract(resp)
	if err != nil {
		return "", "", &StageError{Stage: StageExtract, Err: err}
	}

	fragment := document.Fragment(feed.Label, link.String())
	if err := document.VerifyFragment(fragment, feed.Label); err != nil {
		return link, "", &StageError{Stage: StageFragment, Err: err}
	}

	return link, fragment, nil
}

// Apply writes fragment over the marker line of feed. It reports whether the
// document changed. A successful change is recorded when history is enabled;
// recording failures are only logged.
func (r *Rotator) Apply(ctx context.Context, feed Feed, link reddit.ImageLink, fragment string) (bool, error) {
	replaced, err := r.patcher.Patch(r.document, feed.Marker, fragment)
	if err != nil {
		return false, &StageError{Stage: StagePatch, Err: err}
	}
	if !replaced || r.recorder == nil {
		return replaced, nil
	}

	if _, err := r.recorder.Record(ctx, feed.Name, link.String(), r.document); err != nil {
		r.logger.Warn("Failed to record rotation", "feed", feed.Name, "error", err)
	}
	return true, nil
}

// Rotate replaces the placeholder of feed with a freshly fetched image.
// It stops at the first failing stage; the document is only opened once a
// verified fragment exists.
func (r *Rotator) Rotate(ctx context.Context, feed Feed) (Outcome, error) {
	start := time.Now()
	outcome := Outcome{Feed: feed.Name}

	fail := func(err error) (Outcome, error) {
		outcome.Status = StatusFailed
		outcome.Err = err
		var se *StageError
		if errors.As(err, &se) {
			outcome.Stage = se.Stage
		}
		outcome.Duration = time.Since(start)
		return outcome, err
	}

	link, fragment, err := r.Candidate(ctx, feed)
	outcome.Link = link
	if err != nil {
		return fail(err)
	}
	outcome.Fragment = fragment

	replaced, err := r.Apply(ctx, feed, link, fragment)
	if err != nil {
		return fail(err)
	}

	outcome.Status = StatusUnchanged
	if replaced {
		outcome.Status = StatusUpdated
	}
	outcome.Duration = time.Since(start)
	return outcome, nil
}

// Run rotates every feed in order. Failures are logged and never stop the
// remaining feeds.
func (r *Rotator) Run(ctx context.Context, feeds []Feed) []Outcome {
	outcomes := make([]Outcome, 0, len(feeds))

	for _, feed := range feeds {
		outcome, err := r.Rotate(ctx, feed)
		outcomes = append(outcomes, outcome)

		switch {
		case err != nil:
			r.logger.Error("Rotation failed",
				"feed", feed.Name,
				"stage", outcome.Stage,
				"error", err)
		case outcome.Status == StatusUnchanged:
			r.logger.Info("Marker not found, document left unchanged",
				"feed", feed.Name,
				"marker", feed.Marker,
				"document", r.document)
		default:
			r.logger.Info("Document updated",
				"feed", feed.Name,
				"link", outcome.Link.String(),
				"duration", outcome.Duration)
		}
	}

	return outcomes
}
