// Package transcript defines the word-level transcript contract shared by
// speech-to-text collaborators and the redaction pipeline.
package transcript

// WordToken is one recognized word with its position in the source audio.
// Start and End are seconds from the beginning of the clip. Tokens arrive in
// chronological order; Start <= End is not guaranteed and is checked when
// spans are resolved.
type WordToken struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}
