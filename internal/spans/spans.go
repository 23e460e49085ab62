// Package spans converts matched word times into sample ranges of an audio
// buffer.
package spans

import (
	"cmp"
	"math"
	"slices"

	"bleeper/internal/lexicon"
)

// SampleSpan is the half-open range [Start, End) of sample indices.
type SampleSpan struct {
	Start int
	End   int
}

// Len returns the number of samples covered.
func (s SampleSpan) Len() int {
	if s.End <= s.Start {
		return 0
	}
	return s.End - s.Start
}

// Result holds the spans produced by Resolve. Dropped counts matches whose
// padded range fell entirely outside the buffer; Invalid counts matches whose
// end preceded their start.
type Result struct {
	Spans   []SampleSpan
	Dropped int
	Invalid int
}

// Resolve pads each match by padMS on both sides, converts it to sample
// indices at sampleRate and clamps it to [0, bufferLength]. Conversions round
// half away from zero. Spans that end up empty are dropped, and overlapping
// spans are returned as-is in match order.
func Resolve(matches []lexicon.MatchSpan, padMS, sampleRate, bufferLength int) Result {
	var res Result
	if padMS < 0 {
		padMS = 0
	}
	pad := float64(padMS)
	for _, m := range matches {
		if math.IsNaN(m.Start) || math.IsNaN(m.End) || m.End < m.Start {
			res.Invalid++
			continue
		}
		startMS := math.Max(0, m.Start*1000-pad)
		endMS := m.End*1000 + pad
		start := clamp(toSample(startMS, sampleRate), bufferLength)
		end := clamp(toSample(endMS, sampleRate), bufferLength)
		if end <= start {
			res.Dropped++
			continue
		}
		res.Spans = append(res.Spans, SampleSpan{Start: start, End: end})
	}
	return res
}

func toSample(ms float64, sampleRate int) int {
	v := math.Round(ms * float64(sampleRate) / 1000)
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int(v)
}

func clamp(v, length int) int {
	if length < 0 {
		length = 0
	}
	return max(0, min(v, length))
}

// Merge returns the spans sorted by start with overlapping or touching spans
// coalesced. The input is not modified.
func Merge(spans []SampleSpan) []SampleSpan {
	if len(spans) == 0 {
		return nil
	}
	sorted := slices.Clone(spans)
	slices.SortFunc(sorted, func(a, b SampleSpan) int {
		return cmp.Or(cmp.Compare(a.Start, b.Start), cmp.Compare(a.End, b.End))
	})
	merged := []SampleSpan{}
	for _, s := range sorted {
		if s.Len() == 0 {
			continue
		}
		if n := len(merged); n > 0 && s.Start <= merged[n-1].End {
			merged[n-1].End = max(merged[n-1].End, s.End)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// Total returns the number of distinct samples covered by spans.
func Total(spans []SampleSpan) int {
	total := 0
	for _, s := range Merge(spans) {
		total += s.Len()
	}
	return total
}
