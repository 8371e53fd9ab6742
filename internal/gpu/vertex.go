//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/karaoke/quad"
)

// Glyph vertex format. Every instance is four vertices drawn with indices
// 0,1,2,2,3,0.
const (
	VertexStride    = 92
	VerticesPerQuad = 4
	IndicesPerQuad  = 6
	IndexSize       = 4
)

// glyphVertexLayout matches VertexInput in edge_fade.wgsl and glyph_mrt.wgsl.
func glyphVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},   // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},   // uv
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},  // uv bounds
				{Format: gputypes.VertexFormatUint32, Offset: 32, ShaderLocation: 3},     // color
				{Format: gputypes.VertexFormatUint32, Offset: 36, ShaderLocation: 4},     // flags
				{Format: gputypes.VertexFormatUint32, Offset: 40, ShaderLocation: 5},     // char pack
				{Format: gputypes.VertexFormatUint32, Offset: 44, ShaderLocation: 6},     // visual pack
				{Format: gputypes.VertexFormatFloat32x2, Offset: 48, ShaderLocation: 7},  // start, duration ms
				{Format: gputypes.VertexFormatFloat32, Offset: 56, ShaderLocation: 8},    // highlight mask
				{Format: gputypes.VertexFormatFloat32x2, Offset: 60, ShaderLocation: 9},  // dark, bright
				{Format: gputypes.VertexFormatFloat32x4, Offset: 68, ShaderLocation: 10}, // blur, glow, emphasis, opacity
				{Format: gputypes.VertexFormatFloat32x2, Offset: 84, ShaderLocation: 11}, // margin, sdf range
			},
		},
	}
}

// Vertex is the CPU view of one glyph vertex.
type Vertex struct {
	X, Y           float32
	U, V           float32
	UVBounds       [4]float32
	Color, Flags   uint32
	Char, Visual   uint32
	StartMs, DurMs float32
	Mask           float32
	Dark, Bright   float32
	Blur, Glow     float32
	Emphasis       float32
	Opacity        float32
	Margin, Range  float32
}

// QuadVertices expands g into its four corners in the order top-left,
// top-right, bottom-right, bottom-left.
//
// The highlight mask is given at the glyph's own left and right edges. On
// expanded quads it is extrapolated linearly to the outer corners so the
// interpolated value inside the glyph is unchanged; the shader clamps it.
func QuadVertices(g *quad.GlyphInstance) [VerticesPerQuad]Vertex {
	left, right := g.MaskLeft, g.MaskRight
	if g.Margin > 0 {
		if w := g.Bounds.Width() - 2*g.Margin; w > 0 {
			slope := (g.MaskRight - g.MaskLeft) / w
			left -= slope * g.Margin
			right += slope * g.Margin
		}
	}

	base := Vertex{
		UVBounds: [4]float32{float32(g.UVBounds.X0), float32(g.UVBounds.Y0), float32(g.UVBounds.X1), float32(g.UVBounds.Y1)},
		Color:    g.Color,
		Flags:    uint32(g.Flags),
		Char:     g.Char,
		Visual:   g.Visual,
		StartMs:  float32(g.StartMs),
		DurMs:    float32(g.DurationMs),
		Dark:     float32(g.Dark),
		Bright:   float32(g.Bright),
		Blur:     float32(g.Blur),
		Glow:     float32(g.Glow),
		Emphasis: float32(g.Emphasis),
		Opacity:  float32(g.Opacity),
		Margin:   float32(g.Margin),
		Range:    float32(g.Range),
	}
	corner := func(x, y, u, v, mask float64) Vertex {
		c := base
		c.X, c.Y = float32(x), float32(y)
		c.U, c.V = float32(u), float32(v)
		c.Mask = float32(mask)
		return c
	}
	b, uv := g.Bounds, g.UV
	return [VerticesPerQuad]Vertex{
		corner(b.X0, b.Y0, uv.X0, uv.Y0, left),
		corner(b.X1, b.Y0, uv.X1, uv.Y0, right),
		corner(b.X1, b.Y1, uv.X1, uv.Y1, right),
		corner(b.X0, b.Y1, uv.X0, uv.Y1, left),
	}
}

// put writes v at the start of dst, which must hold VertexStride bytes.
func (v *Vertex) put(dst []byte) {
	le := binary.LittleEndian
	f := func(off int, x float32) { le.PutUint32(dst[off:], math.Float32bits(x)) }
	f(0, v.X)
	f(4, v.Y)
	f(8, v.U)
	f(12, v.V)
	for i, b := range v.UVBounds {
		f(16+4*i, b)
	}
	le.PutUint32(dst[32:], v.Color)
	le.PutUint32(dst[36:], v.Flags)
	le.PutUint32(dst[40:], v.Char)
	le.PutUint32(dst[44:], v.Visual)
	f(48, v.StartMs)
	f(52, v.DurMs)
	f(56, v.Mask)
	f(60, v.Dark)
	f(64, v.Bright)
	f(68, v.Blur)
	f(72, v.Glow)
	f(76, v.Emphasis)
	f(80, v.Opacity)
	f(84, v.Margin)
	f(88, v.Range)
}

// DecodeVertex reads a vertex written by WriteVertices.
func DecodeVertex(src []byte) Vertex {
	le := binary.LittleEndian
	f := func(off int) float32 { return math.Float32frombits(le.Uint32(src[off:])) }
	v := Vertex{
		X: f(0), Y: f(4), U: f(8), V: f(12),
		Color: le.Uint32(src[32:]), Flags: le.Uint32(src[36:]),
		Char: le.Uint32(src[40:]), Visual: le.Uint32(src[44:]),
		StartMs: f(48), DurMs: f(52),
		Mask: f(56),
		Dark: f(60), Bright: f(64),
		Blur: f(68), Glow: f(72), Emphasis: f(76), Opacity: f(80),
		Margin: f(84), Range: f(88),
	}
	for i := range v.UVBounds {
		v.UVBounds[i] = f(16 + 4*i)
	}
	return v
}

// WriteVertices appends the vertex bytes of instances to dst.
func WriteVertices(dst []byte, instances []quad.GlyphInstance) []byte {
	need := len(instances) * VerticesPerQuad * VertexStride
	dst = grow(dst, need)
	off := len(dst) - need
	for i := range instances {
		for _, v := range QuadVertices(&instances[i]) {
			v.put(dst[off:])
			off += VertexStride
		}
	}
	return dst
}

// WriteQuadIndices appends the uint32 indices of n quads to dst.
func WriteQuadIndices(dst []byte, n int) []byte {
	need := n * IndicesPerQuad * IndexSize
	dst = grow(dst, need)
	off := len(dst) - need
	for i := range n {
		base := uint32(i * VerticesPerQuad)
		for _, k := range [IndicesPerQuad]uint32{0, 1, 2, 2, 3, 0} {
			binary.LittleEndian.PutUint32(dst[off:], base+k)
			off += IndexSize
		}
	}
	return dst
}

// grow extends b by n bytes, reusing capacity.
func grow(b []byte, n int) []byte {
	if cap(b)-len(b) >= n {
		return b[:len(b)+n]
	}
	nb := make([]byte, len(b)+n, 2*len(b)+n)
	copy(nb, b)
	return nb
}
