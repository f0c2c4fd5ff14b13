// Package flags provides shared flag accessors for CLI commands.
// This package exists to avoid import cycles between the root command
// and noun subpackages (backup).
package flags

import "github.com/thoreinstein/mcsync/internal/config"

// configPath holds the value of the --config flag.
var configPath string

// loaded is the configuration read by the root command before any
// subcommand runs.
var loaded *config.Config

// ConfigPath returns the value of the --config flag.
func ConfigPath() string {
	return configPath
}

// SetConfigPath sets the config path. The root command calls it after
// flag parsing.
func SetConfigPath(path string) {
	configPath = path
}

// Config returns the loaded configuration, or the defaults if nothing has
// been loaded.
func Config() *config.Config {
	if loaded == nil {
		return config.Default()
	}
	return loaded
}

// SetConfig records the loaded configuration.
// It is also used by tests to inject a configuration.
func SetConfig(cfg *config.Config) {
	loaded = cfg
}
