package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/karaoke/timing"
)

// ErrInvalidFontSize is returned by FontSizeConfig.Validate.
var ErrInvalidFontSize = errors.New("layout: invalid font size config")

// Sub-line size ratios are kept within this range.
const (
	minSubRatio = 0.3
	maxSubRatio = 0.8
)

// FontSizeConfig derives font sizes from the viewport height.
type FontSizeConfig struct {
	// ViewportRatio is the main font size as a fraction of viewport height.
	ViewportRatio float64 `yaml:"viewport_ratio"`

	// Min and Max clamp the size derived from ViewportRatio.
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`

	// Scale multiplies the clamped size.
	Scale float64 `yaml:"scale"`

	// TranslationRatio and RomanizedRatio size sub-lines relative to the
	// main size. Values outside [0.3, 0.8] are clamped.
	TranslationRatio float64 `yaml:"translation_ratio"`
	RomanizedRatio   float64 `yaml:"romanized_ratio"`
}

// DefaultFontSizeConfig returns the stock sizing.
func DefaultFontSizeConfig() FontSizeConfig {
	return FontSizeConfig{
		ViewportRatio:    0.055,
		Min:              48,
		Max:              96,
		Scale:            1.5,
		TranslationRatio: 0.55,
		RomanizedRatio:   0.45,
	}
}

// Validate checks the configuration.
func (c FontSizeConfig) Validate() error {
	switch {
	case !(c.ViewportRatio > 0):
		return fmt.Errorf("%w: viewport ratio must be positive", ErrInvalidFontSize)
	case !(c.Min > 0) || c.Max < c.Min:
		return fmt.Errorf("%w: need 0 < min <= max, got [%v, %v]", ErrInvalidFontSize, c.Min, c.Max)
	case !(c.Scale > 0):
		return fmt.Errorf("%w: scale must be positive", ErrInvalidFontSize)
	case !(c.TranslationRatio > 0) || !(c.RomanizedRatio > 0):
		return fmt.Errorf("%w: sub-line ratios must be positive", ErrInvalidFontSize)
	}
	return nil
}

// Sizes holds the font size for each kind of line.
type Sizes struct {
	Main, Translation, Romanized float64
}

// Sizes computes the font sizes for a viewport of the given height.
func (c FontSizeConfig) Sizes(viewportHeight float64) Sizes {
	derived := viewportHeight * c.ViewportRatio
	if !(derived > 0) {
		derived = 0
	}
	base := math.Max(c.Min, math.Min(c.Max, derived)) * c.Scale
	return Sizes{
		Main:        base,
		Translation: base * clampRatio(c.TranslationRatio),
		Romanized:   base * clampRatio(c.RomanizedRatio),
	}
}

func clampRatio(r float64) float64 {
	return math.Max(minSubRatio, math.Min(maxSubRatio, r))
}

// LineMetrics holds the viewport-derived geometry shared by all lines.
type LineMetrics struct {
	ViewportWidth, ViewportHeight float64
	Sizes                         Sizes

	// ContentWidth is the width lines wrap at.
	ContentWidth float64

	// PaddingX and PaddingY inset the content from the viewport edges.
	PaddingX, PaddingY float64
}

// NewLineMetrics computes LineMetrics for a viewport.
func NewLineMetrics(cfg FontSizeConfig, viewportWidth, viewportHeight float64) LineMetrics {
	return LineMetrics{
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
		Sizes:          cfg.Sizes(viewportHeight),
		ContentWidth:   viewportWidth * 0.8,
		PaddingX:       viewportWidth * 0.05,
		PaddingY:       viewportHeight * 0.05,
	}
}

// SizeFor returns the font size for a line with the given flags.
func (m LineMetrics) SizeFor(f timing.Flags) float64 {
	switch {
	case f.IsTranslation():
		return m.Sizes.Translation
	case f.IsRomanized():
		return m.Sizes.Romanized
	default:
		return m.Sizes.Main
	}
}

// LineHeightFor returns the visual line advance for a line with the given
// flags.
func (m LineMetrics) LineHeightFor(f timing.Flags) float64 {
	switch {
	case f.IsTranslation():
		return m.Sizes.Translation * 1.3
	case f.IsRomanized():
		return m.Sizes.Romanized * 1.2
	default:
		return m.Sizes.Main * 1.4
	}
}

// Spacing returns the vertical gap between consecutive main lines.
func (m LineMetrics) Spacing() float64 { return m.Sizes.Main * 0.5 }

// LineX returns the left edge of a visual line of the given width. Duet lines
// are right-aligned within the content area.
func (m LineMetrics) LineX(f timing.Flags, width float64) float64 {
	if f.IsDuet() {
		return m.PaddingX + math.Max(0, m.ContentWidth-width)
	}
	return m.PaddingX
}
