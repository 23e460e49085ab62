// Package whisperx runs WhisperX to produce word-aligned transcripts.
//
// The service launches WhisperX through uvx with JSON output, reads the
// per-word timings from the result, and returns them as transcript tokens.
// Timestamps are parsed as decimals and rounded to whole milliseconds so the
// same JSON always yields the same sample indices.
//
// Configuration options (model, CUDA, VAD method) are passed via Config.
package whisperx
