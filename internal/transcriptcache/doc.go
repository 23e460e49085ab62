// Package transcriptcache remembers word-level transcripts so re-running a
// redaction with a different blocklist, padding or tone skips the expensive
// speech-to-text pass.
//
// Entries live in a SQLite database and are keyed by a BLAKE3 digest of the
// audio bytes, the model name and the language hints, so any change to the
// clip or to the transcription settings misses the cache.
package transcriptcache
