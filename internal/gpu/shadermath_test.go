package gpu

import (
	"math"

	"github.com/gogpu/karaoke/internal/filter"
	"github.com/gogpu/karaoke/quad"
)

// CPU models of the shader math, kept in step with the WGSL sources. The
// tests below check them against the expected fade and level behaviour.

// smoothstep matches the WGSL builtin.
func smoothstep(e0, e1, x float64) float64 {
	if e1 == e0 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := math.Max(0, math.Min(1, (x-e0)/(e1-e0)))
	return t * t * (3 - 2*t)
}

// EdgeFade is the radial fade applied to an expanded quad at outside pixels
// from the glyph rectangle: 1 on the rectangle, 0 at the margin.
func EdgeFade(outside, margin float64) float64 {
	if margin <= 0 {
		return 1
	}
	return 1 - smoothstep(0, margin, outside)
}

// SignedDistanceFunc returns the glyph's signed distance in pixels at a
// normalized atlas coordinate, positive inside.
type SignedDistanceFunc func(u, v float64) float64

// EdgeFadeCoverage evaluates the edge-fade coverage of g at screen point
// (x, y). sd samples the glyph's distance field; aa is the antialiasing
// width in pixels.
func EdgeFadeCoverage(g *quad.GlyphInstance, sd SignedDistanceFunc, x, y, aa float64) float64 {
	b, uv := g.Bounds, g.UV
	if !b.Contains(x, y) || b.Width() <= 0 || b.Height() <= 0 {
		return 0
	}
	u := uv.X0 + (x-b.X0)/b.Width()*uv.Width()
	v := uv.Y0 + (y-b.Y0)/b.Height()*uv.Height()

	ub := g.UVBounds
	nu := math.Max(ub.X0, math.Min(ub.X1, u))
	nv := math.Max(ub.Y0, math.Min(ub.Y1, v))
	pxU := b.Width() / uv.Width()
	pxV := b.Height() / uv.Height()
	outside := math.Hypot((u-nu)*pxU, (v-nv)*pxV)

	d := sd(nu, nv) - outside
	soft := math.Max(aa, 0.5) + g.Blur
	return smoothstep(-soft, soft, d) * EdgeFade(outside, g.Margin)
}

// CompositeLevel is the fractional pyramid level the composite shader
// samples for a blur radius, capped at levels.
func CompositeLevel(radius float64, levels int) float64 {
	lo, _, t := filter.LevelFor(radius, levels)
	return float64(lo) + t
}

// GlowLevel is the level emphasis glow samples.
func GlowLevel(radius float64, levels, offset int) float64 {
	return math.Min(CompositeLevel(radius, levels)+float64(offset), float64(levels))
}
