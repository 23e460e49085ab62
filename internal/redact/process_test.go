package redact

import (
	"reflect"
	"testing"

	"bleeper/internal/media/wav"
	"bleeper/internal/transcript"
)

func TestProcessDoesNotModifyInput(t *testing.T) {
	buf := wav.Buffer{Samples: make([]int16, 16000), SampleRate: 16000, Channels: 1}
	for i := range buf.Samples {
		buf.Samples[i] = 77
	}
	original := buf.Clone()
	words := []transcript.WordToken{{Text: "idiot", Start: 0.1, End: 0.2}}

	out, outcome := Process(buf, words, testOptions())
	if !reflect.DeepEqual(buf, original) {
		t.Fatal("Process modified its input buffer")
	}
	if outcome.Clean() || len(outcome.Spans) != 1 {
		t.Fatalf("expected one span, got %+v", outcome)
	}
	if out.Samples[800] != 0 || out.Samples[4000] != 77 {
		t.Fatalf("unexpected samples: span start %d, after span %d", out.Samples[800], out.Samples[4000])
	}
}

func TestProcessWithoutMatchesReturnsResampledCopy(t *testing.T) {
	buf := wav.Buffer{Samples: []int16{10, 20, 30, 40}, SampleRate: 32000, Channels: 1}
	out, outcome := Process(buf, []transcript.WordToken{{Text: "hello", Start: 0, End: 0.1}}, testOptions())
	if !outcome.Clean() || outcome.Redacted != 0 || len(outcome.Matches) != 0 {
		t.Fatalf("expected clean outcome, got %+v", outcome)
	}
	if !reflect.DeepEqual(out.Samples, []int16{10, 30}) || out.SampleRate != 16000 {
		t.Fatalf("unexpected output %+v", out)
	}
}
