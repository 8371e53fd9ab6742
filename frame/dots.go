package frame

import (
	"math"

	"github.com/gogpu/karaoke/timing"
)

// Interlude dot animation timings in milliseconds.
const (
	dotsBreathe  = 1500.0
	dotsGrow     = 2000.0
	dotsFadeIn   = 500.0
	dotsShrink   = 750.0
	dotsFadeOut  = 375.0
	dotsMaxScale = 0.7
)

// Dots is the state of the three interlude dots.
type Dots struct {
	Interlude timing.Interlude

	// X and Y locate the center of the first dot; Size is the diameter of
	// one dot and Spacing the distance between dot centers, before Scale.
	X, Y, Size, Spacing float64

	Scale   float64
	Opacity [3]float64
}

// Visible reports whether any dot would be drawn.
func (d Dots) Visible() bool {
	return d.Scale > 0 && (d.Opacity[0] > 0 || d.Opacity[1] > 0 || d.Opacity[2] > 0)
}

// DotsAt animates the dots of iv at now. The dots breathe with a period
// close to 1.5 s that divides the interlude evenly, grow in over the first
// two seconds, shrink out over the last 750 ms and light up one after the
// other. Outside the interlude every value is zero.
func DotsAt(iv timing.Interlude, now float64) Dots {
	d := Dots{Interlude: iv}
	total := iv.DurationMs()
	t := now - iv.StartMs
	if total <= 0 || t < 0 || t > total {
		return d
	}

	period := total / math.Ceil(total/dotsBreathe)
	scale := math.Sin(1.5*math.Pi-t/period*2)/20 + 1
	if t < dotsGrow {
		scale *= EaseOutExpo(t / dotsGrow)
	}
	alpha := 1.0
	switch {
	case t < dotsFadeIn:
		alpha = 0
	case t < 2*dotsFadeIn:
		alpha = (t - dotsFadeIn) / dotsFadeIn
	}
	left := total - t
	if left < dotsShrink {
		scale *= 1 - EaseInOutBack((dotsShrink-left)/dotsShrink/2)
	}
	if left < dotsFadeOut {
		alpha *= clamp01(left / dotsFadeOut)
	}
	d.Scale = math.Max(scale, 0) * dotsMaxScale

	span := math.Max(total-dotsShrink, 0)
	for i := range d.Opacity {
		lit := 1.0
		if span > 0 {
			lit = (t - span/3*float64(i)) * 3 / span * 0.75
		}
		d.Opacity[i] = clamp(lit, 0.25, 1) * alpha
	}
	return d
}
