package dsp

import (
	"errors"
	"math"

	"bleeper/internal/media/wav"
	"bleeper/internal/spans"
)

// Tone describes the masking signal.
type Tone struct {
	FrequencyHz float64
	// Amplitude is the peak as a fraction of full scale, in (0, 1].
	Amplitude float64
}

// Validate reports whether the tone can be synthesized.
func (t Tone) Validate() error {
	if !(t.FrequencyHz > 0) || math.IsInf(t.FrequencyHz, 0) {
		return errors.New("tone frequency must be positive")
	}
	if !(t.Amplitude > 0 && t.Amplitude <= 1) {
		return errors.New("tone amplitude must be in (0, 1]")
	}
	return nil
}

// Peak returns the integer peak amplitude, floor(Amplitude * 32767).
func (t Tone) Peak() int {
	return int(math.Floor(t.Amplitude * math.MaxInt16))
}

// Mask returns a copy of b with every span replaced by the tone. Each span
// starts at phase zero. Spans are clamped to the buffer and skipped when
// empty. Masking is idempotent: applying the same spans to the result
// changes nothing.
func Mask(b wav.Buffer, ranges []spans.SampleSpan, tone Tone) wav.Buffer {
	out := b.Clone()
	if len(out.Samples) == 0 || out.SampleRate <= 0 {
		return out
	}
	peak := float64(tone.Peak())
	omega := 2 * math.Pi * tone.FrequencyHz / float64(out.SampleRate)
	for _, span := range ranges {
		start := max(0, span.Start)
		end := min(len(out.Samples), span.End)
		if end <= start {
			continue
		}
		region := out.Samples[start:end]
		for i := range region {
			region[i] = int16(math.Round(peak * math.Sin(omega*float64(i))))
		}
	}
	return out
}
