package spring

import (
	"math"
	"time"
)

// Integration limits.
const (
	// MaxSubstep is the longest integration step in seconds. Longer frame
	// deltas are split into equal substeps no longer than this.
	MaxSubstep = 1.0 / 30

	// maxSubsteps bounds the work of a single Step. A delta needing more
	// substeps than this settles the spring at its target.
	maxSubsteps = 240

	// Epsilon is the distance and speed below which a spring snaps to its
	// target and reports Settled.
	Epsilon = 1e-3
)

// Spring is a damped harmonic oscillator driving one animated quantity.
//
// Changing the target keeps the current value and velocity, so motion stays
// continuous. Step is deterministic: the same sequence of targets and deltas
// always yields the same trajectory.
//
// A Spring is not safe for concurrent use.
type Spring struct {
	preset   Preset
	value    float64
	velocity float64
	target   float64

	// pending is a delayed target applied once delay seconds have elapsed.
	pending    float64
	delay      float64
	hasPending bool
}

// New returns a spring at rest at value.
func New(value float64, p Preset) Spring {
	return Spring{preset: p, value: value, target: value}
}

// Value returns the current value.
func (s *Spring) Value() float64 { return s.value }

// Velocity returns the current velocity in units per second.
func (s *Spring) Velocity() float64 { return s.velocity }

// Target returns the active target. A delayed target is not reported until
// it takes effect.
func (s *Spring) Target() float64 { return s.target }

// Preset returns the spring constants.
func (s *Spring) Preset() Preset { return s.preset }

// SetPreset replaces the spring constants, keeping value and velocity.
func (s *Spring) SetPreset(p Preset) { s.preset = p }

// Delay returns the seconds left before a pending target takes effect.
func (s *Spring) Delay() float64 {
	if !s.hasPending {
		return 0
	}
	return s.delay
}

// SetTarget retargets the spring immediately and cancels any pending target.
func (s *Spring) SetTarget(target float64) {
	if math.IsNaN(target) {
		return
	}
	s.hasPending = false
	s.target = target
}

// SetTargetAfter retargets the spring once delay seconds of Step time have
// elapsed. A non-positive delay behaves like SetTarget. A later call
// replaces an earlier pending target.
func (s *Spring) SetTargetAfter(target, delay float64) {
	if !(delay > 0) {
		s.SetTarget(target)
		return
	}
	if math.IsNaN(target) {
		return
	}
	s.pending, s.delay, s.hasPending = target, delay, true
}

// Snap places the spring at rest on target, discarding momentum and any
// pending target.
func (s *Spring) Snap(target float64) {
	if math.IsNaN(target) {
		return
	}
	s.value, s.velocity, s.target = target, 0, target
	s.hasPending = false
}

// Settled reports whether the spring rests on its target with nothing
// pending.
func (s *Spring) Settled() bool {
	return !s.hasPending && s.value == s.target && s.velocity == 0
}

// Step advances the spring by dt.
func (s *Spring) Step(dt time.Duration) {
	s.StepSeconds(dt.Seconds())
}

// StepSeconds advances the spring by dt seconds. Non-positive or NaN deltas
// are ignored.
func (s *Spring) StepSeconds(dt float64) {
	if !(dt > 0) {
		return
	}
	if s.hasPending {
		if dt < s.delay {
			s.delay -= dt
			s.integrate(dt)
			return
		}
		head := s.delay
		s.integrate(head)
		s.hasPending = false
		s.target = s.pending
		dt -= head
	}
	s.integrate(dt)
}

func (s *Spring) integrate(dt float64) {
	if !(dt > 0) || s.Settled() {
		return
	}
	n := int(math.Ceil(dt / MaxSubstep))
	if n > maxSubsteps || math.IsInf(dt, 1) {
		s.Snap(s.target)
		return
	}
	h := dt / float64(n)
	for range n {
		s.rk4(h)
	}
	if math.Abs(s.target-s.value) < Epsilon && math.Abs(s.velocity) < Epsilon {
		s.value, s.velocity = s.target, 0
	}
	if math.IsNaN(s.value) || math.IsNaN(s.velocity) {
		s.value, s.velocity = s.target, 0
	}
}

// accel returns (stiffness*(target-x) - damping*v) / mass.
func (s *Spring) accel(x, v float64) float64 {
	m := s.preset.Mass
	if !(m > 0) {
		m = 1
	}
	return (s.preset.Stiffness*(s.target-x) - s.preset.Damping*v) / m
}

// rk4 performs one classical Runge-Kutta step of length h.
func (s *Spring) rk4(h float64) {
	x, v := s.value, s.velocity

	k1x, k1v := v, s.accel(x, v)
	k2x, k2v := v+0.5*h*k1v, s.accel(x+0.5*h*k1x, v+0.5*h*k1v)
	k3x, k3v := v+0.5*h*k2v, s.accel(x+0.5*h*k2x, v+0.5*h*k2v)
	k4x, k4v := v+h*k3v, s.accel(x+h*k3x, v+h*k3v)

	s.value = x + h/6*(k1x+2*k2x+2*k3x+k4x)
	s.velocity = v + h/6*(k1v+2*k2v+2*k3v+k4v)
}
