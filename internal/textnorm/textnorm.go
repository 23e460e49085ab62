package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// marks are the combining ranges stripped after decomposition.
var marks = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0300, Hi: 0x036f, Stride: 1},
		{Lo: 0x0610, Hi: 0x061a, Stride: 1},
		{Lo: 0x0640, Hi: 0x0640, Stride: 1}, // tatweel
		{Lo: 0x064b, Hi: 0x065f, Stride: 1},
		{Lo: 0x0670, Hi: 0x0670, Stride: 1},
		{Lo: 0x06d6, Hi: 0x06ed, Stride: 1},
		{Lo: 0x1ab0, Hi: 0x1aff, Stride: 1},
		{Lo: 0x1dc0, Hi: 0x1dff, Stride: 1},
		{Lo: 0x20d0, Hi: 0x20ff, Stride: 1},
		{Lo: 0xfe20, Hi: 0xfe2f, Stride: 1},
	},
}

func foldLetter(r rune) rune {
	switch r {
	case 'ى': // alef maksura
		return 'ي'
	case 'ة': // teh marbuta
		return 'ه'
	}
	return r
}

func stripper() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(marks)), runes.Map(foldLetter), norm.NFC)
}

// Normalize returns the matching form of text. It never fails and is
// idempotent. Invalid UTF-8 is replaced with U+FFFD first.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	out := strip(strings.ToValidUTF8(text, "\uFFFD"))
	out = strings.TrimSpace(out)
	// Cherokee folds to uppercase, so lowering after the fold is needed to
	// reach a fixed point. Folding can emit a combining mark (U+0130 becomes
	// i + U+0307), so marks are stripped a second time.
	out = cases.Fold().String(out)
	out = cases.Lower(language.Und).String(out)
	out = strip(out)
	return strings.TrimSpace(out)
}

func strip(text string) string {
	out, _, err := transform.String(stripper(), text)
	if err != nil {
		return text
	}
	return out
}
