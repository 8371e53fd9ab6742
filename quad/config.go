package quad

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("quad: invalid config")

// Config controls canvas expansion.
type Config struct {
	// ExpansionFactor multiplies the blur radius to get the margin added
	// around a blurred glyph.
	ExpansionFactor float64 `yaml:"expansion_factor"`

	// SafetyPadding is added to every expanded margin, in pixels.
	SafetyPadding float64 `yaml:"safety_padding"`

	// BlurEpsilon is the radius below which a glyph is drawn unexpanded.
	BlurEpsilon float64 `yaml:"blur_epsilon"`
}

// DefaultConfig returns the default expansion settings.
func DefaultConfig() Config {
	return Config{
		ExpansionFactor: 3,
		SafetyPadding:   2,
		BlurEpsilon:     0.01,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case !(c.ExpansionFactor >= 1) || math.IsInf(c.ExpansionFactor, 0):
		return fmt.Errorf("%w: expansion_factor = %v, want >= 1", ErrInvalidConfig, c.ExpansionFactor)
	case !(c.SafetyPadding >= 0) || math.IsInf(c.SafetyPadding, 0):
		return fmt.Errorf("%w: safety_padding = %v, want >= 0", ErrInvalidConfig, c.SafetyPadding)
	case !(c.BlurEpsilon >= 0):
		return fmt.Errorf("%w: blur_epsilon = %v, want >= 0", ErrInvalidConfig, c.BlurEpsilon)
	}
	return nil
}

// Margin returns the expansion margin for a blur or glow radius, or zero
// when the radius is below BlurEpsilon.
func (c Config) Margin(radius float64) float64 {
	if !(radius >= c.BlurEpsilon) || radius <= 0 {
		return 0
	}
	return radius*c.ExpansionFactor + c.SafetyPadding
}

// Expand grows a glyph's screen rectangle and its UV rectangle by the same
// margin, measured in screen pixels, so the UV-to-pixel ratio is kept. A
// zero margin returns both unchanged.
func Expand(bounds, uv Rect, margin float64) (Rect, Rect) {
	if margin <= 0 {
		return bounds, uv
	}
	du, dv := 0.0, 0.0
	if w := bounds.Width(); w > 0 {
		du = margin * uv.Width() / w
	}
	if h := bounds.Height(); h > 0 {
		dv = margin * uv.Height() / h
	}
	return bounds.Outset(margin, margin), uv.Outset(du, dv)
}
