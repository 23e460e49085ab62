// Package config loads, normalizes, and validates bleeper configuration data.
//
// It supplies repository defaults (the blocklist, 50 ms padding, a 16 kHz
// working rate and a 1 kHz masking tone), expands user paths including tilde
// shortcuts, reads TOML files, and honours environment fallbacks such as
// HF_TOKEN for WhisperX's pyannote VAD.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
