package timing

import "strings"

// Flags is a compact bitset describing how a line, word or glyph takes part
// in animation. The same bit layout is uploaded to the GPU unchanged, so the
// numeric values are part of the vertex format.
type Flags uint32

const (
	// FlagActive marks a line as eligible for the active (sung) state.
	FlagActive Flags = 1 << iota
	// FlagEmphasis marks a line or word as eligible for emphasis animation.
	FlagEmphasis
	// FlagBackground marks background vocals.
	FlagBackground
	// FlagDuet marks a duet line (right-aligned, second singer).
	FlagDuet
	// FlagTranslation marks a translation sub-line.
	FlagTranslation
	// FlagRomanized marks a romanization sub-line.
	FlagRomanized
	// FlagLastWord marks the final word of a line.
	FlagLastWord
	// FlagPlaceholder marks a glyph whose atlas entry was missing.
	FlagPlaceholder
	// FlagDot marks an interlude dot instead of a glyph.
	FlagDot
)

// flagNames is ordered by bit position.
var flagNames = [...]string{
	"active", "emphasis", "background", "duet",
	"translation", "romanized", "last-word", "placeholder", "dot",
}

// Has reports whether all bits of f2 are set in f.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// With returns f with the bits of f2 set.
func (f Flags) With(f2 Flags) Flags { return f | f2 }

// Without returns f with the bits of f2 cleared.
func (f Flags) Without(f2 Flags) Flags { return f &^ f2 }

// IsActive reports whether the active bit is set.
func (f Flags) IsActive() bool { return f.Has(FlagActive) }

// IsEmphasis reports whether the emphasis bit is set.
func (f Flags) IsEmphasis() bool { return f.Has(FlagEmphasis) }

// IsBackground reports whether the background bit is set.
func (f Flags) IsBackground() bool { return f.Has(FlagBackground) }

// IsDuet reports whether the duet bit is set.
func (f Flags) IsDuet() bool { return f.Has(FlagDuet) }

// IsTranslation reports whether the translation bit is set.
func (f Flags) IsTranslation() bool { return f.Has(FlagTranslation) }

// IsRomanized reports whether the romanization bit is set.
func (f Flags) IsRomanized() bool { return f.Has(FlagRomanized) }

// IsLastWord reports whether the last-word bit is set.
func (f Flags) IsLastWord() bool { return f.Has(FlagLastWord) }

// IsSubLine reports whether f describes a translation or romanization line.
// Sub-lines render dimmed and never take part in highlight.
func (f Flags) IsSubLine() bool { return f&(FlagTranslation|FlagRomanized) != 0 }

// String returns the set flag names joined by '|', or "none".
func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var sb strings.Builder
	for i, name := range flagNames {
		if f&(1<<i) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(name)
	}
	return sb.String()
}

// ParseFlag returns the flag named name, as printed by String.
func ParseFlag(name string) (Flags, bool) {
	for i, n := range flagNames {
		if n == name {
			return 1 << i, true
		}
	}
	return 0, false
}
