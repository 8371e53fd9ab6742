//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/karaoke/internal/filter"
)

// Uniform buffer sizes in bytes.
const (
	globalsSize = 48
	levelSize   = 32
)

// Globals is the per-frame uniform block shared by every shader.
type Globals struct {
	ViewportWidth, ViewportHeight float32
	NowMs                         float32
	FadeWidth                     float32
	GlowColor                     [4]float32
	Levels                        float32
	GlowLevelOffset               float32
	MinAlpha                      float32
}

// DefaultGlowColor is the highlight glow added per unit of glow strength.
var DefaultGlowColor = [4]float32{0.075, 0.075, 0.1, 0}

// bytes serializes g in the std140 layout of the WGSL Globals struct.
func (g *Globals) bytes() []byte {
	b := make([]byte, globalsSize)
	le := binary.LittleEndian
	f := func(off int, v float32) { le.PutUint32(b[off:], math.Float32bits(v)) }
	f(0, g.ViewportWidth)
	f(4, g.ViewportHeight)
	f(8, g.NowMs)
	f(12, g.FadeWidth)
	for i, c := range g.GlowColor {
		f(16+4*i, c)
	}
	f(32, g.Levels)
	f(36, g.GlowLevelOffset)
	f(40, g.MinAlpha)
	return b
}

// levelUniform serializes the Level block of blur_down.wgsl for a source
// of the given size in texels.
func levelUniform(srcWidth, srcHeight uint32) []byte {
	b := make([]byte, levelSize)
	le := binary.LittleEndian
	f := func(off int, v float32) { le.PutUint32(b[off:], math.Float32bits(v)) }
	for i, w := range filter.DownsampleWeights() {
		f(4*i, w)
	}
	f(16, 1/float32(max(srcWidth, 1)))
	f(20, 1/float32(max(srcHeight, 1)))
	return b
}
