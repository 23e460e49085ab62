// Package services defines shared utilities consumed by the redaction pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and stage names for logging.
//   - Structured error markers plus the Wrap helper so callers can tell a
//     malformed input file from a failed transcription or a bad config.
//
// Use these helpers when wiring new pipeline code so error classification and
// observability stay uniform.
package services
