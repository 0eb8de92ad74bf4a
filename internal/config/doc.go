// Package config loads, normalizes, and validates assetbridge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// ASSETBRIDGE_PORT. The Config type centralizes every knob the bridge daemon
// and CLI need so the listen address, the fallback destination directory, and
// the clipboard backend are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
