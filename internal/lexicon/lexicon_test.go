package lexicon

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"bleeper/internal/services"
	"bleeper/internal/textnorm"
	"bleeper/internal/transcript"
)

func TestMatchesWholeWords(t *testing.T) {
	lex := New([]string{"cat", "Idiot", "غبي", "حيوان", "shut up"})
	tests := []struct {
		token string
		want  bool
	}{
		{"cat", true},
		{"CAT", true},
		{"category", false},
		{"concatenate", false},
		{"idiot!", true},
		{"\"idiot,\"", true},
		{"idiots", false},
		{"غَبِيّ", true},
		{"الغبي", false},
		{"حيوانٌ؟", true},
		{"shut up", true},
		{"shut", false},
		{"up", false},
		{"please shut up now", true},
		{"shut-up", true},
		{"", false},
		{"   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := lex.Matches(textnorm.Normalize(tt.token)); got != tt.want {
				t.Fatalf("Matches(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestNewNormalizesAndDeduplicates(t *testing.T) {
	lex := New([]string{"Idiot", "idiot", " IDIOT ", "", "   ", "غَبِي", "غبي"})
	if lex.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d (%v)", lex.Len(), lex.Entries())
	}
	want := []string{"idiot", "غبي"}
	if got := lex.Entries(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}
}

func TestEmptyLexiconMatchesNothing(t *testing.T) {
	var nilLex *Lexicon
	if nilLex.Matches("idiot") {
		t.Fatal("nil lexicon must not match")
	}
	if New(nil).Matches("idiot") {
		t.Fatal("empty lexicon must not match")
	}
}

func TestFindMatchesKeepsOrderAndDuplicates(t *testing.T) {
	tokens := []transcript.WordToken{
		{Text: "you", Start: 0.0, End: 0.2},
		{Text: "Idiot", Start: 0.3, End: 0.7},
		{Text: "category", Start: 0.8, End: 1.2},
		{Text: "idiot.", Start: 1.3, End: 1.6},
		{Text: "idiot", Start: 1.3, End: 1.6},
		{Text: "غَبِيّ", Start: 2.0, End: 2.5},
	}
	got := FindMatches(tokens, New([]string{"idiot", "غبي"}))
	want := []MatchSpan{
		{Start: 0.3, End: 0.7, Word: "Idiot"},
		{Start: 1.3, End: 1.6, Word: "idiot."},
		{Start: 1.3, End: 1.6, Word: "idiot"},
		{Start: 2.0, End: 2.5, Word: "غَبِيّ"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FindMatches = %+v, want %+v", got, want)
	}
	if FindMatches(nil, New([]string{"idiot"})) != nil {
		t.Fatal("expected no matches for empty transcript")
	}
}

func TestWordsSplitsOnNonWordRunes(t *testing.T) {
	got := Words("hello, world_1 ... مرحبا-بك")
	want := []string{"hello", "world_1", "مرحبا", "بك"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Words = %v, want %v", got, want)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blocklist.txt")
	content := "\ufeff# comment\nidiot\n\n  stupid  \n# another\nغبي\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write blocklist: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"idiot", "stupid", "غبي"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Load = %v, want %v", got, want)
	}

	_, err = Load(filepath.Join(dir, "missing.txt"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
