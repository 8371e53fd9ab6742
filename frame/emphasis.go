package frame

import "math"

// Caps of the emphasis curves.
const (
	MaxEmphasisAmount = 1.2
	MaxEmphasisBlur   = 0.8
)

// lastWordStretch lengthens the emphasis of the final word of a line.
const lastWordStretch = 1.2

// EmphasisAmount returns the emphasis strength for a word of the given
// duration. It grows with the cube of the duration up to 2 s and with the
// square root after, is boosted for the last word and capped at
// MaxEmphasisAmount.
func EmphasisAmount(durationMs float64, last bool) float64 {
	a := saturate(durationMs/2000) * 0.6
	if last {
		a *= 1.6
	}
	return math.Min(a, MaxEmphasisAmount)
}

// EmphasisBlur returns the glow spread for a word of the given duration,
// shaped like EmphasisAmount and capped at MaxEmphasisBlur.
func EmphasisBlur(durationMs float64, last bool) float64 {
	b := saturate(durationMs/3000) * 0.5
	if last {
		b *= 1.5
	}
	return math.Min(b, MaxEmphasisBlur)
}

func saturate(x float64) float64 {
	switch {
	case !(x > 0):
		return 0
	case x > 1:
		return math.Sqrt(x)
	}
	return x * x * x
}

// EmphasisDuration returns the span over which an emphasized word animates.
func EmphasisDuration(durationMs float64, last bool) float64 {
	if last {
		return durationMs * lastWordStretch
	}
	return durationMs
}

// CharProgress returns clamp((now-startMs)/durationMs, 0, 1). A zero
// duration jumps from 0 to 1 at startMs.
func CharProgress(now, startMs, durationMs float64) float64 {
	if !(durationMs > 0) {
		if now >= startMs {
			return 1
		}
		return 0
	}
	return clamp01((now - startMs) / durationMs)
}

// CharXOffset returns the horizontal emphasis offset in em of character i
// of n: characters spread away from the centroid in proportion to their
// distance from it.
func CharXOffset(ease, amount float64, i, n int) float64 {
	return -ease * 0.03 * amount * (float64(n)/2 - float64(i))
}

// Float returns the vertical drift in em of a word at now: a squared
// ease-out toward -amplitude over at least one second from the word start.
func Float(now, startMs, durationMs, amplitude float64) float64 {
	if now <= startMs {
		return 0
	}
	t := (now - startMs) / math.Max(durationMs, 1000)
	return -amplitude * EaseOutQuad(t)
}
