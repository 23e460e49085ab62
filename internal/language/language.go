package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// whisperLanguages lists languages WhisperX ships alignment models for.
var whisperLanguages = []string{
	"ar", "ca", "cs", "da", "de", "el", "en", "es", "fa", "fi", "fr", "he",
	"hi", "hu", "it", "ja", "ko", "nl", "pl", "pt", "ru", "sv", "tr", "uk",
	"ur", "vi", "zh",
}

var byName map[string]string

func init() {
	namer := display.English.Languages()
	byName = make(map[string]string, len(whisperLanguages))
	for _, code := range whisperLanguages {
		name := strings.ToLower(namer.Name(language.MustParseBase(code)))
		if name != "" {
			byName[name] = code
		}
	}
}

// ToISO2 converts a language code, tag or English name to ISO 639-1.
// Unrecognized input yields an empty string; unknown two-letter codes pass
// through untouched.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if mapped, ok := byName[code]; ok {
		return mapped
	}
	if tag, err := language.Parse(code); err == nil {
		base, confidence := tag.Base()
		if confidence != language.No {
			if s := base.String(); len(s) == 2 {
				return s
			}
		}
	}
	if base, err := language.ParseBase(code); err == nil {
		if s := base.String(); len(s) == 2 {
			return s
		}
	}
	if len(code) == 2 && isASCIILetters(code) {
		return code
	}
	return ""
}

// DisplayName returns the English name for a language code.
// Returns "Unknown" for empty input and the uppercased code when no name exists.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	if iso := ToISO2(trimmed); iso != "" {
		if base, err := language.ParseBase(iso); err == nil {
			if name := display.English.Languages().Name(base); name != "" {
				return name
			}
		}
	}
	return strings.ToUpper(trimmed)
}

// NormalizeList deduplicates and normalizes a list of hints to ISO 639-1.
// Entries that cannot be mapped are dropped.
func NormalizeList(languages []string) []string {
	if len(languages) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(languages))
	seen := make(map[string]struct{}, len(languages))
	for _, value := range languages {
		code := ToISO2(value)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		normalized = append(normalized, code)
	}
	return normalized
}

func isASCIILetters(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
