// Package config provides configuration management for the blockgraph CLI.
//
// Values are layered with koanf: defaults, then the config file, then
// BLOCKGRAPH_ environment variables, then explicitly set flags.
package config

import (
	"github.com/leapstack-labs/blockgraph/internal/layout"
)

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int    `koanf:"port"`
	Watch         bool   `koanf:"watch"`
	AutoOpen      bool   `koanf:"auto_open"`
	SessionSecret string `koanf:"session_secret"`
}

// Config holds all CLI configuration options.
type Config struct {
	OutputFormat string         `koanf:"output"`
	Verbose      bool           `koanf:"verbose"`
	Theme        string         `koanf:"theme"`
	Layout       layout.Options `koanf:"layout"`
	UI           UIConfig       `koanf:"ui"`
}
