package quad

import (
	"unicode"

	"github.com/gogpu/karaoke/frame"
	"github.com/gogpu/karaoke/timing"
)

// GlyphInstance is one drawable quad.
type GlyphInstance struct {
	// Bounds is the screen rectangle, expanded when Margin > 0.
	Bounds Rect

	// UV is the sampled texture rectangle, expanded along with Bounds.
	// UVBounds is the glyph's own rectangle, which the shader uses to
	// tell real distance-field texels from the expansion margin. For dots
	// both are the unit square in quad-local coordinates.
	UV, UVBounds Rect

	Color uint32
	Flags timing.Flags

	// Char packs the character index and count of its emphasis group,
	// Visual the visual line index and count; see Pack16.
	Char, Visual uint32

	StartMs, DurationMs float64

	// MaskLeft and MaskRight are the highlight coverage at the glyph's
	// left and right edges.
	MaskLeft, MaskRight float64
	Dark, Bright        float64

	Blur, Glow, Emphasis, Opacity float64

	// Margin is the expansion in pixels and Range the distance-field
	// range in screen pixels.
	Margin, Range float64
}

// Stats summarizes one Emit call.
type Stats struct {
	Glyphs       int
	Placeholders int
	Expanded     int
	Dots         int
}

// Emitter converts frame state into glyph instances.
type Emitter struct {
	cfg   Config
	atlas Atlas
}

// NewEmitter returns an Emitter looking glyphs up in atlas.
func NewEmitter(cfg Config, atlas Atlas) *Emitter {
	return &Emitter{cfg: cfg, atlas: atlas}
}

// Config returns the configuration in use.
func (e *Emitter) Config() Config { return e.cfg }

// SetConfig replaces the configuration.
func (e *Emitter) SetConfig(cfg Config) { e.cfg = cfg }

// SetAtlas replaces the atlas.
func (e *Emitter) SetAtlas(a Atlas) { e.atlas = a }

// Emit appends the instances of every visible character of st, followed by
// the interlude dots, to dst. White space produces nothing. A character
// missing from the atlas is reported and replaced by a transparent
// placeholder flagged FlagPlaceholder.
func (e *Emitter) Emit(dst []GlyphInstance, st *frame.State) ([]GlyphInstance, Stats) {
	var s Stats
	for i := range st.Chars {
		c := &st.Chars[i]
		if unicode.IsSpace(c.Rune) {
			continue
		}
		g, ok := e.Glyph(c)
		if !ok {
			s.Placeholders++
		}
		if g.Margin > 0 {
			s.Expanded++
		}
		s.Glyphs++
		dst = append(dst, g)
	}
	if st.Dots.Visible() {
		n := len(dst)
		dst = AppendDots(dst, st.Dots)
		s.Dots = len(dst) - n
	}
	return dst, s
}

// Glyph builds the instance of one character. It reports false when the
// atlas had no entry and a placeholder was returned.
func (e *Emitter) Glyph(c *frame.CharState) (GlyphInstance, bool) {
	g := GlyphInstance{
		Color:      PackColor(c.Color),
		Flags:      c.Flags,
		Char:       Pack16(c.Index, c.Count),
		Visual:     Pack16(c.VisualIndex, c.VisualCount),
		StartMs:    c.StartMs,
		DurationMs: c.DurationMs,
		MaskLeft:   c.MaskLeft,
		MaskRight:  c.MaskRight,
		Dark:       c.Dark,
		Bright:     c.Bright,
		Blur:       c.Blur,
		Glow:       c.Glow,
		Emphasis:   c.Emphasis,
		Opacity:    c.Opacity,
	}

	var entry AtlasEntry
	ok := false
	if e.atlas != nil {
		entry, ok = e.atlas.Lookup(c.Rune)
		if !ok {
			e.atlas.ReportMiss(c.Rune)
		}
	}
	if !ok {
		g.Flags = g.Flags.With(timing.FlagPlaceholder)
		g.Color &^= 0xff << 24
		g.Opacity = 0
		g.Bounds = Rect{X0: c.X, Y0: c.Y, X1: c.X + c.Em/2, Y1: c.Y + c.Em}
		return g, false
	}

	scale := 1.0
	if entry.Size > 0 {
		scale = c.Em / entry.Size
	}
	x0, y0 := c.X+entry.BearingX*scale, c.Y+entry.BearingY*scale
	bounds := Rect{X0: x0, Y0: y0, X1: x0 + entry.Width*scale, Y1: y0 + entry.Height*scale}
	if c.Zoom > 0 && c.Zoom != 1 {
		bounds = bounds.ScaleAbout(c.Zoom)
		scale *= c.Zoom
	}
	g.Range = entry.Range * scale
	g.UVBounds = entry.UV
	g.Margin = e.cfg.Margin(c.Radius())
	g.Bounds, g.UV = Expand(bounds, entry.UV, g.Margin)
	return g, true
}

// AppendDots appends the three interlude dots of d. Dots are drawn by the
// shaders as circles inside their quad.
func AppendDots(dst []GlyphInstance, d frame.Dots) []GlyphInstance {
	size := d.Size * d.Scale
	unit := Rect{X1: 1, Y1: 1}
	for i, op := range d.Opacity {
		cx := d.X + float64(i)*d.Spacing
		dst = append(dst, GlyphInstance{
			Bounds:    Rect{X0: cx - size/2, Y0: d.Y - size/2, X1: cx + size/2, Y1: d.Y + size/2},
			UV:        unit,
			UVBounds:  unit,
			Color:     PackColor(frame.White),
			Flags:     timing.FlagDot,
			Char:      Pack16(i, len(d.Opacity)),
			MaskLeft:  1,
			MaskRight: 1,
			Dark:      1,
			Bright:    1,
			Opacity:   op,
		})
	}
	return dst
}
