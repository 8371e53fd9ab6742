// Package spring integrates the damped oscillators that animate lyric lines.
//
// Each [Spring] follows
//
//	acceleration = (stiffness*(target-value) - damping*velocity) / mass
//
// integrated with fixed Runge-Kutta substeps no longer than [MaxSubstep], so
// a frame hitch cannot destabilize it. A [Bank] keeps one position spring,
// one scale spring and two exponential [Smoother] values per line.
package spring
