// Package config loads, normalizes, and validates regbet configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SLICER_EXE. The Config type centralizes every knob the CLI needs, so batch
// locations, stage parameters, and logging settings are resolved in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
