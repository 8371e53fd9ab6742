package layout

import (
	"math"
	"unicode"

	"github.com/gogpu/karaoke/timing"
)

// VisualLine is a contiguous character range [Start, End) of one lyric line
// after width-constrained wrapping. The visual lines of a line partition its
// characters in order.
type VisualLine struct {
	// Index is the position of this visual line within its line; Count is
	// the total number of visual lines of that line.
	Index, Count int

	// Start and End are line-global character indices.
	Start, End int

	// Width is the advance of the visual line without trailing white space.
	Width float64

	// X is the horizontal offset of the visual line relative to the line
	// origin, set by alignment.
	X float64
}

// Len returns the number of characters in the visual line.
func (v VisualLine) Len() int { return v.End - v.Start }

// FractionRange returns the global highlight range [Index/Count,
// (Index+1)/Count) owned by this visual line.
func (v VisualLine) FractionRange() (lo, hi float64) {
	if v.Count <= 0 {
		return 0, 1
	}
	n := float64(v.Count)
	return float64(v.Index) / n, float64(v.Index+1) / n
}

// Global rescales a local fraction within the visual line into the line's
// global highlight fraction.
func (v VisualLine) Global(local float64) float64 {
	lo, hi := v.FractionRange()
	return lo + clamp01(local)*(hi-lo)
}

// Placement locates one character of a wrapped line.
type Placement struct {
	// Word and Char index the character in the timing model.
	Word, Char int

	// Visual is the index of the visual line holding the character.
	Visual int

	// X is the left edge relative to the visual line start; Y is the top of
	// the visual line relative to the line origin.
	X, Y    float64
	Advance float64

	// Local is the character's center as a fraction of its visual line
	// width; Global is Local rescaled into the visual line's fraction range.
	Local, Global float64
}

// Layout is the wrapped form of one lyric line.
type Layout struct {
	Visual []VisualLine
	Glyphs []Placement

	// Size is the font size the line was measured at.
	Size float64

	// LineHeight is the distance between consecutive visual lines.
	LineHeight float64
}

// Empty reports whether the line produced no visual lines.
func (l *Layout) Empty() bool { return len(l.Visual) == 0 }

// Height returns the total height of the wrapped line.
func (l *Layout) Height() float64 { return float64(len(l.Visual)) * l.LineHeight }

// Width returns the widest visual line.
func (l *Layout) Width() float64 {
	w := 0.0
	for _, v := range l.Visual {
		w = math.Max(w, v.Width)
	}
	return w
}

// GlyphX returns the horizontal position of glyph i relative to the line
// origin, alignment included.
func (l *Layout) GlyphX(i int) float64 {
	g := l.Glyphs[i]
	return l.Visual[g.Visual].X + g.X
}

// GlyphSpan returns the global highlight fractions at the left and right
// edges of glyph i. Hanging white space past the visual line width maps to
// the end of its range.
func (l *Layout) GlyphSpan(i int) (left, right float64) {
	g := l.Glyphs[i]
	v := l.Visual[g.Visual]
	if v.Width > 0 {
		return v.Global(g.X / v.Width), v.Global((g.X + g.Advance) / v.Width)
	}
	n := float64(v.Len())
	if n == 0 {
		return v.Global(0), v.Global(1)
	}
	k := float64(i - v.Start)
	return v.Global(k / n), v.Global((k + 1) / n)
}

// Resolver wraps lyric lines into visual lines using glyph advances from a
// Metrics source.
type Resolver struct {
	metrics Metrics
}

// NewResolver returns a Resolver measuring with m.
func NewResolver(m Metrics) *Resolver {
	return &Resolver{metrics: m}
}

// Wrap greedily wraps words into visual lines no wider than maxWidth at the
// given font size. A word that would overflow a non-empty visual line starts
// a new one; a word wider than maxWidth on its own is broken between
// characters. White space never starts a visual line unless the space alone
// is wider than maxWidth: when maxWidth is smaller than every glyph, each
// visual line holds exactly one character, spaces included. Empty text
// yields an empty Layout.
func (r *Resolver) Wrap(words []timing.Word, maxWidth, size float64) Layout {
	out := Layout{Size: size}
	if !(maxWidth > 0) {
		maxWidth = 0
	}

	b := wrapBuilder{maxWidth: maxWidth}
	for wi, w := range words {
		adv := make([]float64, len(w.Chars))
		total, trimmed, widest := 0.0, 0.0, 0.0
		for ci, c := range w.Chars {
			adv[ci] = r.advance(c.Rune, size)
			total += adv[ci]
			widest = math.Max(widest, adv[ci])
			if !unicode.IsSpace(c.Rune) {
				trimmed = total
			}
		}

		switch {
		case trimmed > maxWidth, widest > maxWidth:
			b.placeChars(wi, w.Chars, adv)
			continue
		case trimmed == 0:
			// White space hangs on the current visual line.
		case !b.fits(trimmed):
			b.breakLine()
		}
		for ci, c := range w.Chars {
			b.place(wi, ci, c.Rune, adv[ci])
		}
	}
	b.finish()

	out.Visual = b.visual
	out.Glyphs = b.glyphs
	assignFractions(&out)
	return out
}

func (r *Resolver) advance(c rune, size float64) float64 {
	if r.metrics == nil {
		return 0
	}
	a := r.metrics.Advance(c, size)
	if !(a > 0) || math.IsInf(a, 0) {
		return 0
	}
	return a
}

// wrapBuilder accumulates placements and closes visual lines.
type wrapBuilder struct {
	maxWidth float64
	visual   []VisualLine
	glyphs   []Placement

	lineStart int
	lineWidth float64 // including trailing white space
	trimWidth float64 // excluding trailing white space
}

func (b *wrapBuilder) empty() bool { return len(b.glyphs) == b.lineStart }

func (b *wrapBuilder) fits(w float64) bool {
	return b.empty() || b.lineWidth+w <= b.maxWidth
}

func (b *wrapBuilder) place(wi, ci int, c rune, adv float64) {
	b.glyphs = append(b.glyphs, Placement{
		Word:    wi,
		Char:    ci,
		Visual:  len(b.visual),
		X:       b.lineWidth,
		Advance: adv,
	})
	b.lineWidth += adv
	if !unicode.IsSpace(c) {
		b.trimWidth = b.lineWidth
	}
}

// placeChars lays out an over-long word one character at a time. A space
// wider than maxWidth breaks like any other glyph.
func (b *wrapBuilder) placeChars(wi int, chars []timing.Char, adv []float64) {
	for ci, c := range chars {
		breakable := !unicode.IsSpace(c.Rune) || adv[ci] > b.maxWidth
		if breakable && !b.fits(adv[ci]) {
			b.breakLine()
		}
		b.place(wi, ci, c.Rune, adv[ci])
	}
}

func (b *wrapBuilder) breakLine() {
	if b.empty() {
		return
	}
	b.visual = append(b.visual, VisualLine{
		Index: len(b.visual),
		Start: b.lineStart,
		End:   len(b.glyphs),
		Width: b.trimWidth,
	})
	b.lineStart = len(b.glyphs)
	b.lineWidth, b.trimWidth = 0, 0
}

func (b *wrapBuilder) finish() {
	b.breakLine()
	for i := range b.visual {
		b.visual[i].Count = len(b.visual)
	}
}

// assignFractions computes local and global highlight fractions.
func assignFractions(l *Layout) {
	for i := range l.Glyphs {
		g := &l.Glyphs[i]
		v := l.Visual[g.Visual]
		if v.Width > 0 {
			g.Local = clamp01((g.X + g.Advance/2) / v.Width)
		} else if n := v.Len(); n > 0 {
			g.Local = (float64(i-v.Start) + 0.5) / float64(n)
		}
		// Keep Global inside [lo, hi) for the last glyph of a visual line.
		lo, hi := v.FractionRange()
		g.Global = math.Min(v.Global(g.Local), math.Nextafter(hi, lo))
	}
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
