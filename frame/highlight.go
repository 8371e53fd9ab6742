package frame

import (
	"fmt"

	"github.com/gogpu/karaoke/timing"
)

// Phase is the playback state of a line relative to now.
type Phase uint8

const (
	// Upcoming lines start after now.
	Upcoming Phase = iota
	// Active lines contain now in [start, end).
	Active
	// Past lines ended at or before now.
	Past
)

func (p Phase) String() string {
	switch p {
	case Upcoming:
		return "upcoming"
	case Active:
		return "active"
	case Past:
		return "past"
	}
	return fmt.Sprintf("Phase(%d)", p)
}

// PhaseAt returns the phase of the range [startMs, endMs) at now.
func PhaseAt(startMs, endMs, now float64) Phase {
	switch {
	case now < startMs:
		return Upcoming
	case now < endMs:
		return Active
	}
	return Past
}

// ActiveLine returns the index of the line the display centers on at now:
// the latest-starting foreground main line that has started, the first
// main line before any has started, or -1 for a document without main
// lines. Between lines the previous line stays active; after the last line
// the last one does.
func ActiveLine(doc *timing.Document, now float64) int {
	first, best := -1, -1
	bestStart := 0.0
	for _, i := range doc.MainLines() {
		l := doc.Line(i)
		if l.Flags.IsBackground() {
			continue
		}
		if first < 0 {
			first = i
		}
		if l.StartMs <= now && (best < 0 || l.StartMs >= bestStart) {
			best, bestStart = i, l.StartMs
		}
	}
	if best < 0 {
		return first
	}
	return best
}

// WordProgress returns the highlight fraction of a word at now: 0 before
// its start, 1 at or after its end and linear in between.
func WordProgress(w timing.Word, now float64) float64 {
	if now < w.StartMs {
		return 0
	}
	du := w.DurationMs()
	if now >= w.EndMs || du == 0 {
		return 1
	}
	return clamp01((now - w.StartMs) / du)
}

// Mask returns the highlight coverage at position x (a fraction of the word
// width) for word progress p. The edge is a linear ramp of width fade, so
// the mask is a trapezoid that reaches 0 everywhere at p = 0 and 1
// everywhere at p = 1. A non-positive fade yields a hard edge.
func Mask(p, x, fade float64) float64 {
	switch {
	case p <= 0:
		return 0
	case p >= 1:
		return 1
	case !(fade > 0):
		if x < p {
			return 1
		}
		return 0
	}
	return clamp01((p*(1+fade) - x) / fade)
}

// Brightness returns the dim and bright alpha of a line at the given
// animated scale. Lines shrunk to the inactive scale use the lowest values.
func Brightness(scale float64) (dark, bright float64) {
	s := clamp01((scale - 0.97) / 0.03)
	return s*0.2 + 0.2, s*0.8 + 0.2
}

// HighlightGlow returns the glow strength of a character with highlight h
// on a line that is active or not.
func HighlightGlow(h float64, active bool) float64 {
	if !active || h <= 0.3 {
		return 0
	}
	return clamp01((h - 0.3) / 0.7)
}

// GlowColor brightens c by a glow of the given strength.
func GlowColor(c Color, strength float64) Color {
	if strength <= 0 {
		return c
	}
	k := strength * 0.5
	return Color{
		R: clamp01(c.R + 0.15*k),
		G: clamp01(c.G + 0.15*k),
		B: clamp01(c.B + 0.2*k),
		A: c.A,
	}
}
