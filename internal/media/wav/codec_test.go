package wav

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"bleeper/internal/services"
	"bleeper/internal/testsupport"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := Buffer{
		Samples:    []int16{0, 1, -1, 32767, -32768, 12345, -12345, 7},
		SampleRate: 22050,
		Channels:   1,
	}
	data, err := EncodeBytes(in)
	if err != nil {
		t.Fatalf("EncodeBytes: %v", err)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("unexpected header %q", data[:12])
	}
	if len(data) != 44+2*len(in.Samples) {
		t.Fatalf("unexpected file size %d", len(data))
	}
	out, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", out, in)
	}
}

func TestDecodeDownmixesStereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	testsupport.WriteWAV(t, path, 8000, 2, []int{
		3, -4,
		32767, 32767,
		-32768, -32767,
		100, 200,
	})
	buf, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := Buffer{Samples: []int16{0, 32767, -32767, 150}, SampleRate: 8000, Channels: 1}
	if !reflect.DeepEqual(buf, want) {
		t.Fatalf("downmix mismatch: got %+v want %+v", buf, want)
	}
}

func TestDecodeDownmixesManyChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surround.wav")
	testsupport.WriteWAV(t, path, 48000, 3, []int{
		1, 2, 3,
		-1, -1, -2,
	})
	buf, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !reflect.DeepEqual(buf.Samples, []int16{2, -1}) {
		t.Fatalf("unexpected samples %v", buf.Samples)
	}
}

func TestDecodeRejectsUnsupportedInput(t *testing.T) {
	dir := t.TempDir()
	eightBit := filepath.Join(dir, "8bit.wav")
	testsupport.WriteWAVDepth(t, eightBit, 8000, 1, 8, []int{1, 2, 3, 4})
	wide := filepath.Join(dir, "24bit.wav")
	testsupport.WriteWAVDepth(t, wide, 8000, 1, 24, []int{1, 2, 3, 4})
	garbage := filepath.Join(dir, "garbage.wav")
	testsupport.WriteFile(t, garbage, 512)

	for _, path := range []string{eightBit, wide, garbage} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, err := ReadFile(path)
			if err == nil {
				t.Fatal("expected format error")
			}
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("expected ErrFormat, got %v", err)
			}
			if !errors.Is(err, services.ErrFormat) {
				t.Fatalf("expected services.ErrFormat, got %v", err)
			}
		})
	}

	if _, err := DecodeBytes(nil); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat for empty input, got %v", err)
	}
}

func TestEmptyBufferRoundTrip(t *testing.T) {
	data, err := EncodeBytes(Buffer{SampleRate: 16000, Channels: 1})
	if err != nil {
		t.Fatalf("EncodeBytes: %v", err)
	}
	got, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}
	if got.Len() != 0 || got.SampleRate != 16000 || got.Channels != 1 {
		t.Fatalf("unexpected buffer %+v", got)
	}
}

func TestEncodeRejectsInvalidBuffers(t *testing.T) {
	if _, err := EncodeBytes(Buffer{Samples: []int16{1}, SampleRate: 0, Channels: 1}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for zero rate, got %v", err)
	}
	if _, err := EncodeBytes(Buffer{Samples: []int16{1, 2}, SampleRate: 8000, Channels: 2}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for stereo buffer, got %v", err)
	}
}

func TestWriteFileReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	first := Buffer{Samples: []int16{1, 2, 3}, SampleRate: 16000, Channels: 1}
	second := Buffer{Samples: []int16{9, 8}, SampleRate: 16000, Channels: 1}
	if err := WriteFile(path, first); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := WriteFile(path, second); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Fatalf("got %+v want %+v", got, second)
	}
}

func TestBufferHelpers(t *testing.T) {
	b := Buffer{Samples: make([]int16, 8000), SampleRate: 16000, Channels: 1}
	if b.Duration() != 500*time.Millisecond {
		t.Fatalf("Duration = %v", b.Duration())
	}
	clone := b.Clone()
	clone.Samples[0] = 42
	if b.Samples[0] != 0 {
		t.Fatal("Clone shares memory with the original")
	}
	if (Buffer{}).Duration() != 0 {
		t.Fatal("expected zero duration for empty buffer")
	}
}
