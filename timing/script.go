package timing

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-text/typesetting/language"
	"golang.org/x/text/width"
)

// Emphasis eligibility thresholds.
const (
	// MinEmphasisDurationMs is the shortest word that may be emphasized.
	MinEmphasisDurationMs = 1000

	// maxEmphasisRunes bounds the length of an emphasized non-CJK word.
	maxEmphasisRunes = 7
)

// IsCJKRune reports whether r belongs to a CJK script or renders as an
// East Asian wide character.
func IsCJKRune(r rune) bool {
	switch language.LookupScript(r) {
	case language.Han, language.Hiragana, language.Katakana, language.Hangul, language.Bopomofo:
		return true
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

// IsCJK reports whether text consists only of CJK runes, ignoring white
// space. Empty or all-space text is not CJK.
func IsCJK(text string) bool {
	seen := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		if !IsCJKRune(r) {
			return false
		}
		seen = true
	}
	return seen
}

// ShouldEmphasize reports whether a word with the given text and duration
// qualifies for emphasis animation: it must be held for at least one second,
// and non-CJK words must be between 2 and 7 runes long.
func ShouldEmphasize(text string, durationMs float64) bool {
	if !(durationMs >= MinEmphasisDurationMs) {
		return false
	}
	trimmed := strings.TrimSpace(text)
	if IsCJK(trimmed) {
		return true
	}
	n := utf8.RuneCountInString(trimmed)
	return n > 1 && n <= maxEmphasisRunes
}

// isBlank reports whether s is empty or only white space.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
