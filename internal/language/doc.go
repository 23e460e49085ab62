// Package language normalizes the language hints handed to WhisperX.
//
// Hints may be written as ISO 639-1 codes, ISO 639-2/3 codes, BCP 47 tags or
// English language names; every form collapses to the two-letter code
// WhisperX's --language flag expects.
package language
