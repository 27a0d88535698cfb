// Package config loads the gspace configuration from a TOML file in the
// user config directory, applying defaults for anything not set and
// environment overrides for the account and data directory.
package config
