// Package redact wires the redaction pipeline together.
//
// A run decodes the input clip, asks the injected Transcriber for word
// timings, matches the words against the blocklist, converts matches into
// padded sample spans at the working rate, resamples the clip, overwrites the
// spans with a tone and writes the result. Format and transcription failures
// abort the run without touching the output path; inverted word timings are
// dropped, counted and logged.
//
// Process holds the pure part of the pipeline so it can be exercised without
// files or a speech-to-text engine.
package redact
