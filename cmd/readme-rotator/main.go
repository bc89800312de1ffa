// Package main provides the CLI entry point for readme-rotator.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/lepinkainen/readme-rotator/internal/config"
)

// CLI structure
var CLI struct {
	Config    string        `help:"Application configuration file (default: config.yaml in the working or executable directory)"`
	Debug     bool          `help:"Enable debug logging" default:"false"`
	Document  string        `help:"Document to rotate images in (overrides config)"`
	UserAgent string        `help:"User-Agent sent with feed requests (overrides config)"`
	Timeout   time.Duration `help:"HTTP timeout (overrides config)"`

	Run struct {
		Feeds []string `arg:"" optional:"" help:"Feeds to rotate (default: all configured feeds)"`
	} `cmd:"" default:"withargs" help:"Replace placeholder images with fresh ones."`

	Check struct{} `cmd:"" help:"Validate configuration and report which markers the document contains."`

	Feeds struct{} `cmd:"" help:"Print the effective feed configuration as YAML."`

	History struct {
		Feed  string `help:"Only show rotations of this feed"`
		Limit int    `help:"Maximum number of rotations to show" default:"10"`
	} `cmd:"" help:"List recent rotations."`

	Preview struct {
		Feed string `arg:"" help:"Feed to preview"`
	} `cmd:"" help:"Preview and apply a rotation interactively."`
}

func main() {
	// Parse CLI with Kong YAML configuration file loading
	kctx := kong.Parse(&CLI,
		kong.Name("readme-rotator"),
		kong.Description("Rotates placeholder images in a Markdown document with random Reddit posts."),
		kong.UsageOnError(),
		kong.Configuration(kongyaml.Loader, "readme-rotator.yaml", "~/.readme-rotator/config.yaml"),
	)

	// Configure logging level based on debug flag
	if CLI.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelWarn)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()

	switch kctx.Command() {
	case "run", "run <feeds>":
		// Rotation failures never change the exit status
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			return
		}
		runFeeds(ctx, cfg, CLI.Run.Feeds)

	case "check":
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if !checkFeeds(os.Stdout, cfg) {
			os.Exit(1)
		}

	case "feeds":
		exitOnError("Failed to load configuration", err)
		exitOnError("Failed to print feeds", printFeeds(os.Stdout, cfg))

	case "history":
		exitOnError("Failed to load configuration", err)
		exitOnError("Failed to read history", printHistory(ctx, os.Stdout, cfg, CLI.History.Feed, CLI.History.Limit))

	case "preview <feed>":
		exitOnError("Failed to load configuration", err)
		exitOnError("Preview failed", previewFeed(ctx, cfg, CLI.Preview.Feed))

	default:
		panic(kctx.Command())
	}
}

// loadConfig reads the application config and applies CLI overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(CLI.Config)
	if err != nil {
		return nil, err
	}

	applyOverrides(cfg, CLI.Document, CLI.UserAgent, CLI.Timeout)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config, document, userAgent string, timeout time.Duration) {
	if document != "" {
		cfg.Document = document
	}
	if userAgent != "" {
		cfg.UserAgent = userAgent
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}
}

func exitOnError(msg string, err error) {
	if err != nil {
		slog.Error(msg, "error", err)
		os.Exit(1)
	}
}
