// Package preflight provides readiness checks for the external tools and
// filesystem paths bleeper depends on.
//
// The CLI "bleeper check" command runs RunAll and prints each result; the
// redact command runs the same checks quietly and refuses to start when a
// required one fails, so a long transcription is never wasted on a run that
// cannot write its output.
package preflight
