// Package config loads, normalizes, and validates obitcheck's TOML
// configuration. Defaults mirror the shipped sample config; Load layers a
// user config file over them and expands all path fields.
package config
