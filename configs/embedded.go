// Package configs provides embedded configuration files for readme-rotator.
package configs

import "embed"

// DefaultsFile is the name of the built-in configuration
const DefaultsFile = "defaults.yaml"

// EmbeddedConfigs exposes embedded configuration files for read-only access.
//
//go:embed *.yaml
var EmbeddedConfigs embed.FS

// Defaults returns the built-in configuration
func Defaults() ([]byte, error) {
	return EmbeddedConfigs.ReadFile(DefaultsFile)
}
