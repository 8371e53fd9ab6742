package spring

import (
	"math"
	"time"
)

// Smoothing speeds for the per-line quantities that ease exponentially
// instead of oscillating.
const (
	BlurSpeed    = 3.0
	OpacitySpeed = 5.0
)

// Smoother approaches its target exponentially: each step closes the
// fraction 1-exp(-Speed*dt) of the remaining distance. It never overshoots.
type Smoother struct {
	Speed  float64
	value  float64
	target float64
}

// NewSmoother returns a smoother resting at value.
func NewSmoother(value, speed float64) Smoother {
	return Smoother{Speed: speed, value: value, target: value}
}

// Value returns the current value.
func (s *Smoother) Value() float64 { return s.value }

// Target returns the target.
func (s *Smoother) Target() float64 { return s.target }

// SetTarget changes the target.
func (s *Smoother) SetTarget(target float64) {
	if !math.IsNaN(target) {
		s.target = target
	}
}

// Snap jumps to target.
func (s *Smoother) Snap(target float64) {
	if !math.IsNaN(target) {
		s.value, s.target = target, target
	}
}

// Step advances the smoother by dt.
func (s *Smoother) Step(dt time.Duration) {
	sec := dt.Seconds()
	if !(sec > 0) || s.value == s.target {
		return
	}
	s.value += (s.target - s.value) * (1 - math.Exp(-s.Speed*sec))
	if math.Abs(s.target-s.value) < Epsilon {
		s.value = s.target
	}
}
