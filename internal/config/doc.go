// Package config loads, normalizes, and validates bakeset's TOML
// configuration. Defaults live in defaults.go; normalization expands ~ paths,
// folds in environment fallbacks (HIFI_OVEN), and canonicalizes extension
// lists so the rest of the program never re-checks them.
package config
