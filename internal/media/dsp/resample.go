package dsp

import (
	"math"

	"bleeper/internal/media/wav"
)

// Resample converts b to target Hz by linear interpolation. The output holds
// floor(len*target/rate) samples; output sample j is read at input position
// j*rate/target, and positions past the final input sample hold its value.
// When the rates already match, a copy of b is returned.
func Resample(b wav.Buffer, target int) wav.Buffer {
	if target <= 0 || b.SampleRate <= 0 || b.SampleRate == target {
		return b.Clone()
	}
	n := int(int64(len(b.Samples)) * int64(target) / int64(b.SampleRate))
	out := wav.Buffer{
		Samples:    make([]int16, n),
		SampleRate: target,
		Channels:   b.Channels,
	}
	last := len(b.Samples) - 1
	step := float64(b.SampleRate) / float64(target)
	for j := range out.Samples {
		pos := float64(j) * step
		i := int(pos)
		if i >= last {
			out.Samples[j] = b.Samples[last]
			continue
		}
		frac := pos - float64(i)
		a := float64(b.Samples[i])
		v := a + (float64(b.Samples[i+1])-a)*frac
		out.Samples[j] = saturate(math.Round(v))
	}
	return out
}

func saturate(v float64) int16 {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	default:
		return int16(v)
	}
}
