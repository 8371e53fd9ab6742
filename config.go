package karaoke

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/karaoke/frame"
	"github.com/gogpu/karaoke/layout"
	"github.com/gogpu/karaoke/quad"
	"github.com/gogpu/karaoke/spring"
)

// ErrInvalidConfig is matched by every *ConfigError.
var ErrInvalidConfig = errors.New("karaoke: invalid config")

// MaxPyramidLevels is the largest accepted Config.PyramidLevels.
const MaxPyramidLevels = 10

// Strategy selects how glyphs are composited.
type Strategy uint8

const (
	// StrategyEdgeFade draws every glyph in one pass, sampling the
	// distance field directly and fading the expanded quad margin.
	StrategyEdgeFade Strategy = iota

	// StrategyPyramid renders glyphs sharp, builds a blur pyramid and
	// composites each pixel from the level matching its blur radius.
	StrategyPyramid
)

var strategyNames = [...]string{"edge-fade", "pyramid"}

// String returns the strategy name.
func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if int(s) >= len(strategyNames) {
		return nil, fmt.Errorf("karaoke: unknown strategy %d", s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	for i, name := range strategyNames {
		if string(text) == name {
			*s = Strategy(i)
			return nil
		}
	}
	return fmt.Errorf("karaoke: unknown strategy %q", text)
}

// ConfigError reports an invalid Config field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("karaoke: invalid config %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// Config holds every tunable of the engine. The yaml tags define the file
// format read by cmd/lyricsdemo.
type Config struct {
	Strategy Strategy `yaml:"strategy"`

	Frame    frame.Config          `yaml:"frame"`
	FontSize layout.FontSizeConfig `yaml:"font_size"`
	Quad     quad.Config           `yaml:"quad"`
	Springs  spring.Presets        `yaml:"springs"`

	// PyramidLevels is the number of blurred levels built by the pyramid
	// strategy; small targets use fewer. GlowLevelOffset is how many
	// levels wider the emphasis glow samples.
	PyramidLevels   int `yaml:"pyramid_levels"`
	GlowLevelOffset int `yaml:"glow_level_offset"`

	// GlowColor is added per unit of highlight glow strength.
	GlowColor frame.Color `yaml:"glow_color"`

	// SDFRange is the distance-field range in atlas pixels, used for
	// atlases built by the engine's tools.
	SDFRange float64 `yaml:"sdf_range"`

	// RingSize is the number of per-frame buffer sets rotated on the GPU.
	RingSize int `yaml:"ring_size"`

	// SPIRV compiles shaders to SPIR-V up front instead of handing WGSL
	// to the backend.
	SPIRV bool `yaml:"spirv"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Strategy:        StrategyEdgeFade,
		Frame:           frame.DefaultConfig(),
		FontSize:        layout.DefaultFontSizeConfig(),
		Quad:            quad.DefaultConfig(),
		Springs:         spring.DefaultPresets(),
		PyramidLevels:   6,
		GlowLevelOffset: 2,
		GlowColor:       frame.Color{R: 0.075, G: 0.075, B: 0.1},
		SDFRange:        4,
		RingSize:        3,
	}
}

// Validate returns a *ConfigError for the first invalid field.
func (c Config) Validate() error {
	nested := []struct {
		field string
		err   error
	}{
		{"frame", c.Frame.Validate()},
		{"font_size", c.FontSize.Validate()},
		{"quad", c.Quad.Validate()},
		{"springs", c.Springs.Validate()},
	}
	for _, n := range nested {
		if n.err != nil {
			return &ConfigError{Field: n.field, Reason: n.err.Error()}
		}
	}
	switch {
	case int(c.Strategy) >= len(strategyNames):
		return &ConfigError{Field: "strategy", Reason: fmt.Sprintf("unknown strategy %d", c.Strategy)}
	case c.PyramidLevels < 1 || c.PyramidLevels > MaxPyramidLevels:
		return &ConfigError{Field: "pyramid_levels", Reason: fmt.Sprintf("%d, want 1..%d", c.PyramidLevels, MaxPyramidLevels)}
	case c.GlowLevelOffset < 0:
		return &ConfigError{Field: "glow_level_offset", Reason: fmt.Sprintf("%d, want >= 0", c.GlowLevelOffset)}
	case !(c.SDFRange > 0) || math.IsInf(c.SDFRange, 0):
		return &ConfigError{Field: "sdf_range", Reason: fmt.Sprintf("%v, want > 0", c.SDFRange)}
	case c.RingSize < 1:
		return &ConfigError{Field: "ring_size", Reason: fmt.Sprintf("%d, want >= 1", c.RingSize)}
	}
	for _, v := range [...]float64{c.GlowColor.R, c.GlowColor.G, c.GlowColor.B, c.GlowColor.A} {
		if !(v >= 0 && v <= 1) {
			return &ConfigError{Field: "glow_color", Reason: fmt.Sprintf("component %v outside [0, 1]", v)}
		}
	}
	return nil
}
