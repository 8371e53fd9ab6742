package filter

import "math"

// DefaultLevels is the default number of blurred pyramid levels.
const DefaultLevels = 6

// LevelFor maps a blur radius in pixels to a fractional pyramid level
// log2(1+radius), clamped to [0, maxLevel], and returns the bracketing
// levels and the blend factor between them.
func LevelFor(radius float64, maxLevel int) (lo, hi int, t float64) {
	if !(radius > 0) || maxLevel <= 0 {
		return 0, 0, 0
	}
	f := math.Min(math.Log2(1+radius), float64(maxLevel))
	lo = int(math.Floor(f))
	hi = min(lo+1, maxLevel)
	return lo, hi, f - float64(lo)
}

// GlowLevelOffset is how many levels wider the emphasis glow samples than
// the glyph's own blur.
const GlowLevelOffset = 2
