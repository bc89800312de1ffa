// Package config loads and validates the readme-rotator configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/lepinkainen/readme-rotator/configs"
	"github.com/lepinkainen/readme-rotator/internal/reddit"
	"github.com/lepinkainen/readme-rotator/internal/rotator"
	"github.com/lepinkainen/readme-rotator/pkg/filesystem"
	"github.com/lepinkainen/readme-rotator/pkg/urlutils"
)

// DefaultConfigFile is looked up when no config path is given
const DefaultConfigFile = "config.yaml"

// DefaultHistoryFile is the history database name used when history.path is empty
const DefaultHistoryFile = "rotations.db"

// EnvPrefix prefixes environment variable overrides, e.g. README_ROTATOR_OAUTH_CLIENT_ID
const EnvPrefix = "README_ROTATOR"

// ErrInvalidConfig is returned when the loaded configuration fails validation
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the central application configuration
type Config struct {
	Document        string         `mapstructure:"document" yaml:"document"`
	UserAgent       string         `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout         time.Duration  `mapstructure:"timeout" yaml:"timeout"`
	RequestInterval time.Duration  `mapstructure:"request_interval" yaml:"request_interval"`
	History         HistoryConfig  `mapstructure:"history" yaml:"history"`
	OAuth           OAuthConfig    `mapstructure:"oauth" yaml:"oauth"`
	Feeds           []rotator.Feed `mapstructure:"feeds" yaml:"feeds"`
}

// HistoryConfig controls rotation history recording
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// OAuthConfig holds optional app-only credentials
type OAuthConfig struct {
	ClientID     string `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret string `mapstructure:"client_secret" yaml:"-"`
	TokenURL     string `mapstructure:"token_url" yaml:"token_url"`
}

// Reddit converts the credentials for the reddit package
func (o OAuthConfig) Reddit() reddit.OAuthConfig {
	return reddit.OAuthConfig{
		ClientID:     o.ClientID,
		ClientSecret: o.ClientSecret,
		TokenURL:     o.TokenURL,
	}
}

// LoadConfig reads the embedded defaults and merges the config file at path
// over them. Environment variables prefixed with EnvPrefix override both.
// An empty path looks for DefaultConfigFile in the working directory and then
// next to the executable; a missing default file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults, err := configs.Defaults()
	if err != nil {
		return nil, fmt.Errorf("error reading embedded defaults: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("error parsing embedded defaults: %w", err)
	}

	configPath, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// resolvePath returns the config file to merge, or "" when only the defaults apply
func resolvePath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("error reading config file: %w", err)
		}
		return path, nil
	}

	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile, nil
	}
	if execPath, err := filesystem.GetDefaultPath(DefaultConfigFile); err == nil {
		if _, err := os.Stat(execPath); err == nil {
			return execPath, nil
		}
	}

	return "", nil
}

// Validate checks the configuration and wraps every problem in ErrInvalidConfig
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Document, validation.Required),
		validation.Field(&c.UserAgent, validation.Required),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Duration(0)).Exclusive()),
		validation.Field(&c.RequestInterval, validation.Min(time.Duration(0))),
		validation.Field(&c.OAuth, validation.By(validateOAuth)),
		validation.Field(&c.Feeds,
			validation.Required,
			validation.By(uniqueFeedNames),
			validation.Each(validation.By(validateFeed)),
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func validateFeed(value interface{}) error {
	feed, ok := value.(rotator.Feed)
	if !ok {
		return errors.New("must be a feed")
	}

	return validation.ValidateStruct(&feed,
		validation.Field(&feed.Name, validation.Required),
		validation.Field(&feed.Endpoint, validation.Required, is.URL, validation.By(httpURL)),
		validation.Field(&feed.Label, validation.Required),
		validation.Field(&feed.Marker, validation.Required),
	)
}

func validateOAuth(value interface{}) error {
	oauth, ok := value.(OAuthConfig)
	if !ok {
		return errors.New("must be an oauth config")
	}

	return validation.ValidateStruct(&oauth,
		validation.Field(&oauth.ClientID, validation.When(oauth.ClientSecret != "", validation.Required)),
		validation.Field(&oauth.ClientSecret, validation.When(oauth.ClientID != "", validation.Required)),
		validation.Field(&oauth.TokenURL, validation.When(oauth.ClientID != "", validation.Required, is.URL)),
	)
}

func httpURL(value interface{}) error {
	raw, _ := value.(string)
	if !urlutils.IsHTTPURL(raw) {
		return urlutils.ErrNotHTTP
	}
	return nil
}

func uniqueFeedNames(value interface{}) error {
	feeds, _ := value.([]rotator.Feed)
	names := lo.Map(feeds, func(f rotator.Feed, _ int) string { return f.Name })
	if dups := lo.FindDuplicates(names); len(dups) > 0 {
		return fmt.Errorf("duplicate feed names: %s", strings.Join(dups, ", "))
	}
	return nil
}

// FeedNames returns the configured feed names in order
func (c *Config) FeedNames() []string {
	return lo.Map(c.Feeds, func(f rotator.Feed, _ int) string { return f.Name })
}

// SelectFeeds returns the feeds with the given names in the order requested,
// and the names that match no feed. No names selects every feed.
func (c *Config) SelectFeeds(names ...string) ([]rotator.Feed, []string) {
	if len(names) == 0 {
		return c.Feeds, nil
	}

	byName := lo.KeyBy(c.Feeds, func(f rotator.Feed) string { return f.Name })
	names = lo.Uniq(names)

	selected := lo.FilterMap(names, func(name string, _ int) (rotator.Feed, bool) {
		feed, ok := byName[name]
		return feed, ok
	})
	unknown := lo.Reject(names, func(name string, _ int) bool {
		_, ok := byName[name]
		return ok
	})

	return selected, unknown
}

// Feed returns the feed with the given name
func (c *Config) Feed(name string) (rotator.Feed, bool) {
	return lo.Find(c.Feeds, func(f rotator.Feed) bool { return f.Name == name })
}

// HistoryPath returns the history database path, defaulting to a file next
// to the executable.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	return filesystem.GetDefaultPath(DefaultHistoryFile)
}
