package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/readme-rotator/internal/config"
	"github.com/lepinkainen/readme-rotator/internal/reddit"
	"github.com/lepinkainen/readme-rotator/internal/rotator"
	"github.com/lepinkainen/readme-rotator/pkg/database"
	"github.com/lepinkainen/readme-rotator/pkg/document"
	"github.com/lepinkainen/readme-rotator/pkg/preview"
)

var titleStyle = lipgloss.NewStyle().Bold(true)

// newFetcher builds the feed fetcher, authenticated when OAuth credentials are set
func newFetcher(ctx context.Context, cfg *config.Config) *reddit.Fetcher {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	if oauth := cfg.OAuth.Reddit(); oauth.Enabled() {
		slog.Debug("Using app-only OAuth for feed requests", "token_url", oauth.TokenURL)
		httpClient = reddit.NewOAuthHTTPClient(ctx, oauth, cfg.Timeout)
	}

	return reddit.NewFetcher(reddit.FetcherConfig{
		HTTPClient: httpClient,
		UserAgent:  cfg.UserAgent,
		Interval:   cfg.RequestInterval,
	})
}

// newRotator wires the fetcher and optional history into a Rotator. The
// returned function releases the history database.
func newRotator(ctx context.Context, cfg *config.Config) (*rotator.Rotator, func()) {
	opts := []rotator.Option{rotator.WithLogger(slog.Default())}
	cleanup := func() {}

	if cfg.History.Enabled {
		history, db, err := openHistory(ctx, cfg)
		if err != nil {
			slog.Warn("Rotation history disabled", "error", err)
		} else {
			opts = append(opts, rotator.WithRecorder(history))
			cleanup = func() {
				if err := db.Close(); err != nil {
					slog.Warn("Failed to close history database", "error", err)
				}
			}
		}
	}

	return rotator.New(newFetcher(ctx, cfg), cfg.Document, opts...), cleanup
}

func openHistory(ctx context.Context, cfg *config.Config) (*database.History, *database.Database, error) {
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Open(ctx, database.Config{Path: path})
	if err != nil {
		return nil, nil, err
	}

	history, err := database.NewHistory(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return history, db, nil
}

// runFeeds rotates the named feeds, or every feed when names is empty.
// Every failure is logged and suppressed.
func runFeeds(ctx context.Context, cfg *config.Config, names []string) []rotator.Outcome {
	feeds, unknown := cfg.SelectFeeds(names...)
	for _, name := range unknown {
		slog.Error("Unknown feed", "feed", name, "available", cfg.FeedNames())
	}

	r, cleanup := newRotator(ctx, cfg)
	defer cleanup()

	outcomes := r.Run(ctx, feeds)
	slog.Debug("Rotation finished", "document", cfg.Document, "feeds", len(outcomes))
	return outcomes
}

// checkFeeds reports, per feed, whether the document contains its marker.
// It returns false when the document cannot be read.
func checkFeeds(w io.Writer, cfg *config.Config) bool {
	fmt.Fprintln(w, titleStyle.Render("Document: "+cfg.Document))

	for _, feed := range cfg.Feeds {
		_, line, err := document.FindMarker(cfg.Document, feed.Marker)
		if err != nil {
			slog.Error("Failed to read document", "document", cfg.Document, "error", err)
			return false
		}

		status := "missing (rotation will leave the document unchanged)"
		if line > 0 {
			status = fmt.Sprintf("found on line %d", line)
		}
		fmt.Fprintf(w, "  %-16s %-20s %s\n", feed.Name, feed.Marker, status)
	}

	return true
}

// printFeeds writes the effective feed configuration as YAML
func printFeeds(w io.Writer, cfg *config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	out := struct {
		Document string         `yaml:"document"`
		Feeds    []rotator.Feed `yaml:"feeds"`
	}{
		Document: cfg.Document,
		Feeds:    cfg.Feeds,
	}

	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode feeds: %w", err)
	}
	return enc.Close()
}

// printHistory lists the most recent rotations
func printHistory(ctx context.Context, w io.Writer, cfg *config.Config, feed string, limit int) error {
	path, err := cfg.HistoryPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(w, "No rotation history recorded (enable history.enabled in the config)")
		return nil
	}

	db, err := database.Open(ctx, database.Config{Path: path})
	if err != nil {
		return err
	}
	defer db.Close()

	history, err := database.NewHistory(ctx, db)
	if err != nil {
		return err
	}

	rotations, err := history.Recent(ctx, feed, limit)
	if err != nil {
		return err
	}
	if len(rotations) == 0 {
		fmt.Fprintln(w, "No rotations found")
		return nil
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%-20s  %-16s  %s", "TIME", "FEED", "LINK")))
	for _, r := range rotations {
		fmt.Fprintf(w, "%-20s  %-16s  %s\n", r.At.Local().Format("2006-01-02 15:04:05"), r.Feed, r.Link)
	}
	return nil
}

// previewFeed opens the interactive preview for one feed
func previewFeed(ctx context.Context, cfg *config.Config, name string) error {
	feed, ok := cfg.Feed(name)
	if !ok {
		return fmt.Errorf("unknown feed %q (available: %s)", name, strings.Join(cfg.FeedNames(), ", "))
	}

	current, line, err := document.FindMarker(cfg.Document, feed.Marker)
	if err != nil {
		return err
	}

	r, cleanup := newRotator(ctx, cfg)
	defer cleanup()

	return preview.Run(ctx, preview.Config{
		FeedName:    feed.Name,
		Marker:      feed.Marker,
		Document:    cfg.Document,
		CurrentLine: current,
		LineNumber:  line,
		Fetch: func(ctx context.Context) (preview.Candidate, error) {
			link, fragment, err := r.Candidate(ctx, feed)
			if err != nil {
				return preview.Candidate{}, err
			}
			return preview.Candidate{Link: link.String(), Fragment: fragment}, nil
		},
		Apply: func(ctx context.Context, c preview.Candidate) (bool, error) {
			return r.Apply(ctx, feed, reddit.ImageLink(c.Link), c.Fragment)
		},
	})
}
