package frame

import "math"

// emphasisMid splits the emphasis curve into its rising and falling halves.
const emphasisMid = 0.5

// EmphasisEase maps character progress x in [0, 1] to an emphasis level
// that rises from 0 to 1 over the first half and falls back to 0 over the
// second.
func EmphasisEase(x float64) float64 {
	x = clamp01(x)
	if x < emphasisMid {
		return CubicBezier(x/emphasisMid, 0.2, 0.4, 0.58, 1)
	}
	return 1 - CubicBezier((x-emphasisMid)/(1-emphasisMid), 0.3, 0, 0.58, 1)
}

// CubicBezier evaluates the CSS timing function cubic-bezier(x1, y1, x2, y2)
// at x. The curve parameter is found with a few Newton steps.
func CubicBezier(x, x1, y1, x2, y2 float64) float64 {
	x = clamp01(x)
	t := x
	for range 8 {
		err := bezier(t, x1, x2) - x
		if math.Abs(err) < 1e-4 {
			break
		}
		d := bezierSlope(t, x1, x2)
		if math.Abs(d) < 1e-4 {
			break
		}
		t = clamp01(t - err/d)
	}
	return bezier(t, y1, y2)
}

// bezier evaluates one coordinate of a cubic Bezier from 0 to 1 with inner
// control points p1 and p2.
func bezier(t, p1, p2 float64) float64 {
	mt := 1 - t
	return 3*mt*mt*t*p1 + 3*mt*t*t*p2 + t*t*t
}

func bezierSlope(t, p1, p2 float64) float64 {
	mt := 1 - t
	return 3*mt*mt*p1 + 6*mt*t*(p2-p1) + 3*t*t*(1-p2)
}

// EaseOutExpo is the exponential ease-out curve.
func EaseOutExpo(x float64) float64 {
	if x >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*x)
}

// EaseInOutBack is the ease-in-out curve with overshoot on both ends.
func EaseInOutBack(x float64) float64 {
	const c1 = 1.70158
	const c2 = c1 * 1.525
	if x < 0.5 {
		return (2 * x) * (2 * x) * ((c2+1)*2*x - c2) / 2
	}
	return ((2*x-2)*(2*x-2)*((c2+1)*(x*2-2)+c2) + 2) / 2
}

// EaseOutQuad is the squared ease-out curve.
func EaseOutQuad(x float64) float64 {
	x = clamp01(x)
	return 1 - (1-x)*(1-x)
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
