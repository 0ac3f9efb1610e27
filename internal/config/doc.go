// Package config loads, normalizes, and validates szurutool configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SZURUBOORU_API_TOKEN (optionally sourced from a .env file). Site credential
// tables keep the placeholder value "none" verbatim; the import pipeline
// treats it as absent when assembling downloader arguments.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
