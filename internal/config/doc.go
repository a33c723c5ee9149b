// Package config loads, normalizes, and validates job composer configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MODERNIZE_PASSWORD. The Config type centralizes every knob the CLI and the
// composer session need, so the repository endpoints, wizard limits, and
// journal location are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized URLs, canonical log formats, and clear validation errors.
package config
