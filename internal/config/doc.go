// Package config loads, normalizes, and validates Hitchcock configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads optional .env files, and honours
// environment fallbacks such as OPENROUTER_API_KEY. The Config type
// centralizes the storage location, LLM credentials and pipeline policy the
// CLI needs.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
