package frame

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("frame: invalid config")

// Anchor selects which edge of the scroll line sits at the align position.
type Anchor uint8

const (
	AnchorCenter Anchor = iota
	AnchorTop
	AnchorBottom
)

var anchorNames = [...]string{"center", "top", "bottom"}

// String returns the anchor name.
func (a Anchor) String() string {
	if int(a) < len(anchorNames) {
		return anchorNames[a]
	}
	return fmt.Sprintf("Anchor(%d)", a)
}

// MarshalText implements encoding.TextMarshaler.
func (a Anchor) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Anchor) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range anchorNames {
		if s == name {
			*a = Anchor(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown anchor %q", ErrInvalidConfig, s)
}

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
	A float64 `yaml:"a"`
}

// White is the default lyric color.
var White = Color{R: 1, G: 1, B: 1, A: 1}

// Config tunes the frame state builder and the scroll targets.
type Config struct {
	// FadeWidth is the width of the soft highlight edge in em.
	FadeWidth float64 `yaml:"fade_width"`

	// AlignPosition is the viewport height fraction the scroll line is
	// aligned to, and AlignAnchor the edge of that line placed there.
	AlignPosition float64 `yaml:"align_position"`
	AlignAnchor   Anchor  `yaml:"align_anchor"`

	EnableScale     bool    `yaml:"enable_scale"`
	EnableBlur      bool    `yaml:"enable_blur"`
	HidePassedLines bool    `yaml:"hide_passed_lines"`
	InactiveScale   float64 `yaml:"inactive_scale"`
	BackgroundScale float64 `yaml:"background_scale"`

	// MaxBlur caps the per-line blur radius in pixels.
	MaxBlur float64 `yaml:"max_blur"`

	// Overscan is how far outside the viewport, in pixels, a line still
	// counts as visible.
	Overscan float64 `yaml:"overscan"`

	// StaggerDelay is the delay in seconds between consecutive line
	// movements; it is divided by StaggerReduction for every line after
	// the scroll line.
	StaggerDelay     float64 `yaml:"stagger_delay"`
	StaggerReduction float64 `yaml:"stagger_reduction"`

	// SubLineAlpha is the fixed alpha of translation and romanization lines.
	SubLineAlpha float64 `yaml:"sub_line_alpha"`

	Color Color `yaml:"color"`

	// FloatAmplitude is the upward drift of a sung word in em;
	// BackgroundFloat applies to background and duet lines.
	FloatAmplitude  float64 `yaml:"float_amplitude"`
	BackgroundFloat float64 `yaml:"background_float"`

	// EmphasisScale and EmphasisLift scale the per-character emphasis zoom
	// and lift (in em) at full emphasis.
	EmphasisScale float64 `yaml:"emphasis_scale"`
	EmphasisLift  float64 `yaml:"emphasis_lift"`
}

// DefaultConfig returns the default builder configuration.
func DefaultConfig() Config {
	return Config{
		FadeWidth:        0.5,
		AlignPosition:    0.35,
		AlignAnchor:      AnchorCenter,
		EnableScale:      true,
		EnableBlur:       true,
		InactiveScale:    0.97,
		BackgroundScale:  0.75,
		MaxBlur:          32,
		Overscan:         300,
		StaggerDelay:     0.05,
		StaggerReduction: 1.05,
		SubLineAlpha:     0.3,
		Color:            White,
		FloatAmplitude:   0.05,
		BackgroundFloat:  0.1,
		EmphasisScale:    0.1,
		EmphasisLift:     0.05,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	check := func(name string, v, lo, hi float64) error {
		if math.IsNaN(v) || v < lo || v > hi {
			return fmt.Errorf("%w: %s = %v, want [%v, %v]", ErrInvalidConfig, name, v, lo, hi)
		}
		return nil
	}
	inf := math.Inf(1)
	for _, err := range []error{
		check("fade_width", c.FadeWidth, 0, 16),
		check("align_position", c.AlignPosition, 0, 1),
		check("inactive_scale", c.InactiveScale, 0.1, 1),
		check("background_scale", c.BackgroundScale, 0.1, 1),
		check("max_blur", c.MaxBlur, 0, 256),
		check("overscan", c.Overscan, 0, inf),
		check("stagger_delay", c.StaggerDelay, 0, 10),
		check("stagger_reduction", c.StaggerReduction, 1, 100),
		check("sub_line_alpha", c.SubLineAlpha, 0, 1),
		check("color.r", c.Color.R, 0, 1),
		check("color.g", c.Color.G, 0, 1),
		check("color.b", c.Color.B, 0, 1),
		check("color.a", c.Color.A, 0, 1),
		check("float_amplitude", c.FloatAmplitude, 0, 1),
		check("background_float", c.BackgroundFloat, 0, 1),
		check("emphasis_scale", c.EmphasisScale, 0, 1),
		check("emphasis_lift", c.EmphasisLift, 0, 1),
	} {
		if err != nil {
			return err
		}
	}
	if c.AlignAnchor > AnchorBottom {
		return fmt.Errorf("%w: align_anchor = %v", ErrInvalidConfig, c.AlignAnchor)
	}
	return nil
}
