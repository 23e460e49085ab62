package redact

import (
	"bleeper/internal/lexicon"
	"bleeper/internal/media/dsp"
	"bleeper/internal/media/wav"
	"bleeper/internal/spans"
	"bleeper/internal/transcript"
)

// Outcome describes what Process did to a clip.
type Outcome struct {
	Words      int
	Matches    []lexicon.MatchSpan
	Spans      []spans.SampleSpan
	Dropped    int
	Invalid    int
	Redacted   int
	SampleRate int
	Samples    int
}

// Clean reports whether nothing was redacted.
func (o Outcome) Clean() bool {
	return len(o.Spans) == 0
}

// Process matches words against the lexicon and returns the resampled, masked
// clip. It never modifies buf.
func Process(buf wav.Buffer, words []transcript.WordToken, opts Options) (wav.Buffer, Outcome) {
	matches := lexicon.FindMatches(words, opts.Lexicon)
	resampled := dsp.Resample(buf, opts.TargetSampleRate)
	resolved := spans.Resolve(matches, opts.PadMS, resampled.SampleRate, resampled.Len())
	masked := dsp.Mask(resampled, resolved.Spans, opts.Tone)
	return masked, Outcome{
		Words:      len(words),
		Matches:    matches,
		Spans:      resolved.Spans,
		Dropped:    resolved.Dropped,
		Invalid:    resolved.Invalid,
		Redacted:   spans.Total(resolved.Spans),
		SampleRate: masked.SampleRate,
		Samples:    masked.Len(),
	}
}
