package lexicon

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"unicode"

	"bleeper/internal/services"
	"bleeper/internal/textnorm"
	"bleeper/internal/transcript"
)

// MatchSpan is the time range of a token that matched the blocklist.
type MatchSpan struct {
	Start float64
	End   float64
	// Word is the token text as transcribed.
	Word string
}

// Lexicon is a normalized blocklist. It is immutable after New and safe for
// concurrent use.
type Lexicon struct {
	single map[string]struct{}
	multi  [][]string
	size   int
}

// New normalizes entries and builds a Lexicon. Blank entries and entries that
// normalize to the same word sequence are dropped.
func New(entries []string) *Lexicon {
	lex := &Lexicon{single: make(map[string]struct{}, len(entries))}
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		words := Words(textnorm.Normalize(entry))
		if len(words) == 0 {
			continue
		}
		key := strings.Join(words, " ")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		lex.size++
		if len(words) == 1 {
			lex.single[words[0]] = struct{}{}
			continue
		}
		lex.multi = append(lex.multi, words)
	}
	return lex
}

// Len reports the number of distinct entries.
func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return l.size
}

// Entries returns the normalized entries in a stable order.
func (l *Lexicon) Entries() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, l.size)
	for word := range l.single {
		out = append(out, word)
	}
	for _, words := range l.multi {
		out = append(out, strings.Join(words, " "))
	}
	slices.Sort(out)
	return out
}

// Matches reports whether normalized, an already normalized token, contains
// a blocklist entry as whole words.
func (l *Lexicon) Matches(normalized string) bool {
	if l == nil || l.size == 0 {
		return false
	}
	words := Words(normalized)
	for _, w := range words {
		if _, ok := l.single[w]; ok {
			return true
		}
	}
	for _, entry := range l.multi {
		if containsRun(words, entry) {
			return true
		}
	}
	return false
}

// FindMatches returns one MatchSpan per token whose normalized text matches
// lex, in token order. Duplicate or overlapping spans are kept.
func FindMatches(tokens []transcript.WordToken, lex *Lexicon) []MatchSpan {
	var matches []MatchSpan
	for _, token := range tokens {
		if lex.Matches(textnorm.Normalize(token.Text)) {
			matches = append(matches, MatchSpan{Start: token.Start, End: token.End, Word: token.Text})
		}
	}
	return matches
}

// Words splits text into maximal runs of word runes.
func Words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool { return !isWordRune(r) })
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func containsRun(words, run []string) bool {
	if len(run) == 0 || len(run) > len(words) {
		return false
	}
	for i := 0; i+len(run) <= len(words); i++ {
		if slices.Equal(words[i:i+len(run)], run) {
			return true
		}
	}
	return false
}

// Load reads a newline separated blocklist. Blank lines and lines starting
// with # are ignored.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "lexicon", "load", "Blocklist file not found", err)
		}
		return nil, fmt.Errorf("open blocklist: %w", err)
	}
	defer file.Close()

	var entries []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read blocklist: %w", err)
	}
	return entries, nil
}
