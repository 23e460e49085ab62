// Package dsp resamples decoded audio and overwrites redacted ranges with a
// sine tone.
package dsp
