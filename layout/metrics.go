package layout

import (
	"fmt"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/width"

	"github.com/gogpu/karaoke/internal/cache"
)

// advanceCacheSize bounds the number of (rune, size) advances kept per font.
const advanceCacheSize = 4096

// Metrics supplies glyph advances to the resolver.
// Implementations must be safe for concurrent use.
type Metrics interface {
	// Advance returns the horizontal advance of r at the given font size in
	// pixels. Zero is a valid result for combining or unknown glyphs.
	Advance(r rune, size float64) float64
}

// FontMetrics measures advances from a parsed OpenType font.
type FontMetrics struct {
	font     *opentype.Font
	buf      sfnt.Buffer
	advances *cache.Cache[cache.AdvanceKey, float64]
}

// ParseFont parses TrueType or OpenType data into FontMetrics.
func ParseFont(data []byte) (*FontMetrics, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("layout: failed to parse font: %w", err)
	}
	return &FontMetrics{
		font:     f,
		advances: cache.New[cache.AdvanceKey, float64](advanceCacheSize),
	}, nil
}

// GoFont returns FontMetrics for the bundled Go Regular font.
func GoFont() (*FontMetrics, error) {
	return ParseFont(goregular.TTF)
}

// Advance implements Metrics.
func (m *FontMetrics) Advance(r rune, size float64) float64 {
	if !(size > 0) {
		return 0
	}
	// The create func runs under the cache lock, which also guards m.buf.
	return m.advances.GetOrCreate(cache.AdvanceKey{Rune: r, Size: size}, func() float64 {
		idx, err := m.font.GlyphIndex(&m.buf, r)
		if err != nil || idx == 0 {
			return fallbackAdvance(r, size)
		}
		adv, err := m.font.GlyphAdvance(&m.buf, idx, fixed.Int26_6(math.Round(size*64)), font.HintingNone)
		if err != nil {
			return fallbackAdvance(r, size)
		}
		return fixedToFloat64(adv)
	})
}

// CacheStats reports advance cache statistics.
func (m *FontMetrics) CacheStats() cache.Stats { return m.advances.Stats() }

// FaceMetrics adapts a fixed-size font.Face, scaling its advances linearly
// to the requested size. It is meant for bitmap faces such as
// basicfont.Face7x13.
type FaceMetrics struct {
	face   font.Face
	native float64
}

// NewFaceMetrics wraps face. The native size is taken from the face height.
func NewFaceMetrics(face font.Face) *FaceMetrics {
	native := fixedToFloat64(face.Metrics().Height)
	if native <= 0 {
		native = 1
	}
	return &FaceMetrics{face: face, native: native}
}

// Advance implements Metrics.
func (m *FaceMetrics) Advance(r rune, size float64) float64 {
	if !(size > 0) {
		return 0
	}
	adv, ok := m.face.GlyphAdvance(r)
	if !ok {
		return fallbackAdvance(r, size)
	}
	return fixedToFloat64(adv) * size / m.native
}

// Monospace gives every rune the same advance, expressed as a fraction of the
// font size. East Asian wide runes take twice that.
type Monospace float64

// Advance implements Metrics.
func (m Monospace) Advance(r rune, size float64) float64 {
	if !(size > 0) {
		return 0
	}
	if isWide(r) {
		return 2 * float64(m) * size
	}
	return float64(m) * size
}

// fallbackAdvance estimates the advance of a glyph the font cannot map:
// full width for wide runes, half an em otherwise.
func fallbackAdvance(r rune, size float64) float64 {
	if isWide(r) {
		return size
	}
	return size / 2
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

func fixedToFloat64(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
