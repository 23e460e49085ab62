package transcriptcache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"bleeper/internal/transcript"
)

type countingTranscriber struct {
	calls int
	words []transcript.WordToken
	err   error
}

func (c *countingTranscriber) Transcribe(context.Context, string, []string) ([]transcript.WordToken, error) {
	c.calls++
	return c.words, c.err
}

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache", "transcripts.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func writeAudio(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func TestCacheHitSkipsTranscriber(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	inner := &countingTranscriber{words: []transcript.WordToken{{Text: "idiot", Start: 1, End: 1.4}}}
	cache := New(store, inner, Settings{Model: "small"}, nil)
	audio := writeAudio(t, "RIFF-audio")

	first, err := cache.Transcribe(ctx, audio, []string{"ar", "en"})
	if err != nil {
		t.Fatalf("first Transcribe: %v", err)
	}
	second, err := cache.Transcribe(ctx, audio, []string{"Arabic", "eng"})
	if err != nil {
		t.Fatalf("second Transcribe: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected one transcriber call, got %d", inner.calls)
	}
	if !reflect.DeepEqual(first, second) || !reflect.DeepEqual(second, inner.words) {
		t.Fatalf("cached words differ: %+v vs %+v", first, second)
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	got := entries[0]
	if got.Model != "small" || got.WordCount != 1 || got.SourcePath != audio {
		t.Fatalf("unexpected entry %+v", got)
	}
	if !reflect.DeepEqual(got.Languages, []string{"ar", "en"}) {
		t.Fatalf("unexpected languages %v", got.Languages)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("expected creation time")
	}
}

func TestCacheMissesOnChangedInputs(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	inner := &countingTranscriber{words: []transcript.WordToken{}}
	audio := writeAudio(t, "one")

	if _, err := New(store, inner, Settings{Model: "small"}, nil).Transcribe(ctx, audio, []string{"ar"}); err != nil {
		t.Fatal(err)
	}
	if _, err := New(store, inner, Settings{Model: "medium"}, nil).Transcribe(ctx, audio, []string{"ar"}); err != nil {
		t.Fatal(err)
	}
	if _, err := New(store, inner, Settings{Model: "small"}, nil).Transcribe(ctx, audio, []string{"en"}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(audio, []byte("two"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(store, inner, Settings{Model: "small"}, nil).Transcribe(ctx, audio, []string{"ar"}); err != nil {
		t.Fatal(err)
	}
	if _, err := New(store, inner, Settings{Model: "small", VADMethod: "pyannote"}, nil).Transcribe(ctx, audio, []string{"ar"}); err != nil {
		t.Fatal(err)
	}
	if _, err := New(store, inner, Settings{Model: "small", CUDA: true}, nil).Transcribe(ctx, audio, []string{"ar"}); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 6 {
		t.Fatalf("expected 6 transcriber calls, got %d", inner.calls)
	}

	// Empty transcripts are cached too.
	words, err := New(store, inner, Settings{Model: "small"}, nil).Transcribe(ctx, audio, []string{"ar"})
	if err != nil {
		t.Fatal(err)
	}
	if inner.calls != 6 || len(words) != 0 {
		t.Fatalf("expected cached empty transcript, calls=%d words=%v", inner.calls, words)
	}

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 6 {
		t.Fatalf("expected 6 removed entries, got %d", removed)
	}
	entries, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty cache, got %d", len(entries))
	}
}

func TestCacheDoesNotStoreFailures(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	boom := errors.New("whisperx exploded")
	inner := &countingTranscriber{err: boom}
	cache := New(store, inner, Settings{Model: "small"}, nil)
	audio := writeAudio(t, "clip")

	if _, err := cache.Transcribe(ctx, audio, nil); !errors.Is(err, boom) {
		t.Fatalf("expected transcriber error, got %v", err)
	}
	entries, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("failure was cached: %+v", entries)
	}
	if _, err := cache.Transcribe(ctx, filepath.Join(t.TempDir(), "missing.wav"), nil); err == nil {
		t.Fatal("expected error for missing audio")
	}
}

func TestOpenReusesAndChecksSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestKeyIsStable(t *testing.T) {
	a := Key("abc", Settings{Model: "small"}, []string{"ar", "en"})
	b := Key("abc", Settings{Model: "small"}, []string{"Arabic", "english"})
	if a != b {
		t.Fatal("equivalent language hints produced different keys")
	}
	if a != Key("abc", Settings{Model: "small"}, []string{"en", "ar"}) {
		t.Fatal("hint order changed the key")
	}
	if a == Key("abc", Settings{Model: "medium"}, []string{"ar", "en"}) {
		t.Fatal("model is not part of the key")
	}
	if a == Key("abc", Settings{Model: "small", VADMethod: "pyannote"}, []string{"ar", "en"}) {
		t.Fatal("VAD method is not part of the key")
	}
	if a == Key("abc", Settings{Model: "small", CUDA: true}, []string{"ar", "en"}) {
		t.Fatal("CUDA flag is not part of the key")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}
