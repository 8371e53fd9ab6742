package spring

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidPreset is returned by Preset.Validate.
var ErrInvalidPreset = errors.New("spring: invalid preset")

// Preset holds the physical constants of a damped oscillator.
type Preset struct {
	Mass      float64 `yaml:"mass"`
	Damping   float64 `yaml:"damping"`
	Stiffness float64 `yaml:"stiffness"`
}

// Stock presets.
var (
	// PositionY moves a line vertically. Slightly underdamped.
	PositionY = Preset{Mass: 0.9, Damping: 15, Stiffness: 90}

	// Scale grows and shrinks main lines.
	Scale = Preset{Mass: 2, Damping: 25, Stiffness: 100}

	// ScaleBackground scales background vocal lines. Overdamped.
	ScaleBackground = Preset{Mass: 1, Damping: 20, Stiffness: 50}
)

// Critical returns the critically damped preset for the given stiffness and
// mass.
func Critical(stiffness, mass float64) Preset {
	return Preset{Mass: mass, Damping: 2 * math.Sqrt(stiffness*mass), Stiffness: stiffness}
}

// Validate checks that every constant is positive and finite.
func (p Preset) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"mass", p.Mass}, {"damping", p.Damping}, {"stiffness", p.Stiffness}} {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidPreset, f.name, f.v)
		}
	}
	return nil
}

// DampingRatio returns damping / (2*sqrt(stiffness*mass)).
func (p Preset) DampingRatio() float64 {
	c := 2 * math.Sqrt(p.Stiffness*p.Mass)
	if c == 0 {
		return math.Inf(1)
	}
	return p.Damping / c
}

// IsOverdamped reports whether the damping ratio is at least 1, in which
// case the spring never crosses its target from rest.
func (p Preset) IsOverdamped() bool { return p.DampingRatio() >= 1 }

// Presets groups the presets of the quantities animated per line.
type Presets struct {
	PositionY       Preset `yaml:"position_y"`
	Scale           Preset `yaml:"scale"`
	ScaleBackground Preset `yaml:"scale_background"`
}

// DefaultPresets returns the stock presets.
func DefaultPresets() Presets {
	return Presets{PositionY: PositionY, Scale: Scale, ScaleBackground: ScaleBackground}
}

// Validate validates every preset.
func (p Presets) Validate() error {
	if err := p.PositionY.Validate(); err != nil {
		return fmt.Errorf("position_y: %w", err)
	}
	if err := p.Scale.Validate(); err != nil {
		return fmt.Errorf("scale: %w", err)
	}
	if err := p.ScaleBackground.Validate(); err != nil {
		return fmt.Errorf("scale_background: %w", err)
	}
	return nil
}
