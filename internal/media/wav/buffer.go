package wav

import (
	"slices"
	"time"
)

// Buffer is a decoded clip. After Decode, Channels is always 1.
type Buffer struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// Len returns the number of samples.
func (b Buffer) Len() int {
	return len(b.Samples)
}

// Duration returns the playback length at SampleRate.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 || b.Channels <= 0 {
		return 0
	}
	frames := len(b.Samples) / b.Channels
	return time.Duration(frames) * time.Second / time.Duration(b.SampleRate)
}

// Clone returns a copy that shares no memory with b.
func (b Buffer) Clone() Buffer {
	b.Samples = slices.Clone(b.Samples)
	return b
}
