package frame

import (
	"math"

	"github.com/gogpu/karaoke/layout"
	"github.com/gogpu/karaoke/timing"
)

// Motion is the sampled spring state of one line block.
type Motion struct {
	Y, Scale, Blur, Opacity float64
}

// Input is everything a frame depends on.
type Input struct {
	Doc    *timing.Document
	Layout *layout.DocumentLayout

	// Motion is indexed by main-line ordinal. Blocks without an entry rest
	// at their seek targets.
	Motion []Motion

	Now     float64
	Playing bool
}

// Builder turns an Input into a State. It holds no per-frame state.
type Builder struct {
	cfg Config
}

// NewBuilder returns a Builder using cfg.
func NewBuilder(cfg Config) *Builder {
	return &Builder{cfg: cfg}
}

// Config returns the configuration in use.
func (b *Builder) Config() Config { return b.cfg }

// SetConfig replaces the configuration.
func (b *Builder) SetConfig(cfg Config) { b.cfg = cfg }

// Build computes the frame state for in.
func (b *Builder) Build(in Input) *State {
	doc, dl := in.Doc, in.Layout
	st := &State{
		Now:    in.Now,
		Active: ActiveLine(doc, in.Now),
		Scroll: ScrollAt(doc, in.Now, in.Playing),
	}
	if dl == nil || dl.Len() != doc.Len() {
		return st
	}
	m := dl.Metrics
	st.ViewportWidth, st.ViewportHeight = m.ViewportWidth, m.ViewportHeight

	mains := doc.MainLines()
	motion := b.motion(in, st.Scroll, len(mains))
	ordinal := make([]int, doc.Len())
	for k, i := range mains {
		ordinal[i] = k
	}

	st.Lines = make([]LineState, doc.Len())
	ranges := make([][2]int, doc.Len())
	for i, line := range doc.All() {
		block := i
		if line.Parent >= 0 {
			block = line.Parent
			ordinal[i] = ordinal[block]
		}
		if !line.IsMain() && line.Parent < 0 {
			// A sub-line before any main line has no block to follow.
			st.Lines[i] = LineState{Index: i, Flags: line.Flags, Scale: 1}
			continue
		}
		mo := motion[ordinal[i]]
		ls := b.line(i, line, dl, mo, in.Now)
		top, h := mo.Y, dl.BlockHeight[block]
		ls.InSight = InSight(top, h, m.ViewportHeight, b.cfg.Overscan)

		start := len(st.Chars)
		if ls.InSight {
			ox := m.PaddingX
			if doc.Line(block).Flags.IsDuet() {
				ox += m.ContentWidth
			}
			st.Chars = b.chars(st.Chars, line, &ls, dl.Line(i), ox, top+h/2, in.Now)
		}
		ranges[i] = [2]int{start, len(st.Chars)}
		st.Lines[i] = ls
	}
	for i := range st.Lines {
		r := ranges[i]
		st.Lines[i].Chars = st.Chars[r[0]:r[1]:r[1]]
	}

	if iv, ok := doc.InterludeAt(in.Now, timing.MinInterludeMs); ok {
		st.Dots = b.dots(iv, doc, dl, motion[ordinal[iv.Next]], in.Now)
	}
	return st
}

// motion returns one Motion per main line, filling gaps from the seek
// targets of the current scroll position.
func (b *Builder) motion(in Input, s Scroll, n int) []Motion {
	if len(in.Motion) >= n {
		return in.Motion
	}
	out := make([]Motion, n)
	copy(out, in.Motion)
	targets := Targets(in.Doc, in.Layout, s, b.cfg, true)
	for k := len(in.Motion); k < n; k++ {
		if k < len(targets) {
			t := targets[k]
			out[k] = Motion{Y: t.Y, Scale: t.Scale, Blur: t.Blur, Opacity: t.Opacity}
		} else {
			out[k] = Motion{Scale: 1, Opacity: 1}
		}
	}
	return out
}

func (b *Builder) line(i int, line timing.Line, dl *layout.DocumentLayout, mo Motion, now float64) LineState {
	ls := LineState{
		Index:   i,
		Phase:   PhaseAt(line.StartMs, line.EndMs, now),
		Flags:   line.Flags.Without(timing.FlagActive),
		Y:       mo.Y + dl.Inset[i],
		Height:  dl.Line(i).Height(),
		Scale:   mo.Scale,
		Opacity: clamp01(mo.Opacity),
	}
	if b.cfg.EnableBlur {
		ls.Blur = clamp(mo.Blur, 0, b.cfg.MaxBlur)
	}
	if line.IsMain() {
		if line.Flags.IsActive() && ls.Phase == Active {
			ls.Flags = ls.Flags.With(timing.FlagActive)
		}
		ls.Progress = CharProgress(now, line.StartMs, line.DurationMs())
	}
	return ls
}

// emphasisGroup describes the emphasis animation shared by the words of one
// chunk.
type emphasisGroup struct {
	on             bool
	amount, spread float64
	durMs          float64
	base, count    int
}

func emphasisGroups(words []timing.Word) []emphasisGroup {
	out := make([]emphasisGroup, len(words))
	for _, ch := range timing.Chunks(words) {
		emphasized, last, count := false, false, 0
		for _, w := range words[ch.Start:ch.End] {
			emphasized = emphasized || w.Flags.IsEmphasis()
			last = last || w.Flags.IsLastWord()
			count += len(w.Chars)
		}
		if !emphasized {
			continue
		}
		start, end := ch.Span(words)
		du := end - start
		base := 0
		for wi := ch.Start; wi < ch.End; wi++ {
			out[wi] = emphasisGroup{
				on:     words[wi].Flags.IsEmphasis(),
				amount: EmphasisAmount(du, last),
				spread: EmphasisBlur(du, last),
				durMs:  EmphasisDuration(du, last),
				base:   base,
				count:  count,
			}
			base += len(words[wi].Chars)
		}
	}
	return out
}

func (b *Builder) chars(dst []CharState, line timing.Line, ls *LineState, l *layout.Layout, ox, oy, now float64) []CharState {
	main := line.IsMain()
	size := l.Size

	// Offset of every glyph inside its word, for the highlight mask. Words
	// wrapped over several visual lines are masked along the line's global
	// fractions instead, so the sweep follows the visual lines in order.
	inWord := make([]float64, len(l.Glyphs))
	wordWidth := make([]float64, len(line.Words))
	spans := make([]wordSpan, len(line.Words))
	for gi, p := range l.Glyphs {
		inWord[gi] = wordWidth[p.Word]
		wordWidth[p.Word] += p.Advance
		sp := &spans[p.Word]
		lo, hi := l.GlyphSpan(gi)
		if sp.glyphs == 0 {
			sp.first, sp.lo = p.Visual, lo
		}
		sp.glyphs++
		sp.last, sp.hi = p.Visual, hi
	}

	var groups []emphasisGroup
	if main {
		groups = emphasisGroups(line.Words)
	}
	amp := b.cfg.FloatAmplitude
	if line.Flags.IsBackground() || line.Flags.IsDuet() {
		amp = b.cfg.BackgroundFloat
	}
	dark, bright := Brightness(ls.Scale)
	if !main {
		dark, bright = b.cfg.SubLineAlpha, b.cfg.SubLineAlpha
	}
	lineFlags := ls.Flags.Without(timing.FlagEmphasis | timing.FlagLastWord)

	for gi, p := range l.Glyphs {
		w := line.Words[p.Word]
		vl := l.Visual[p.Visual]
		cs := CharState{
			Line:        ls.Index,
			Word:        p.Word,
			Char:        p.Char,
			Rune:        w.Chars[p.Char].Rune,
			Zoom:        1,
			Index:       p.Char,
			Count:       len(w.Chars),
			StartMs:     w.CharStartMs(p.Char),
			DurationMs:  w.DurationMs(),
			VisualIndex: vl.Index,
			VisualCount: vl.Count,
			Global:      p.Global,
			Dark:        dark,
			Bright:      bright,
			Color:       b.cfg.Color,
			Blur:        ls.Blur,
			Opacity:     ls.Opacity,
			Flags:       lineFlags | w.Flags&(timing.FlagEmphasis|timing.FlagLastWord),
		}

		x, y := vl.X+p.X, ls.Y+p.Y
		if main {
			cs.Progress = WordProgress(w, now)
			ww := wordWidth[p.Word]
			left, right, fade := 0.0, 1.0, 0.0
			if ww > 0 {
				fade = b.cfg.FadeWidth * size / ww
			}
			switch sp := spans[p.Word]; {
			case sp.wrapped():
				lo, hi := l.GlyphSpan(gi)
				left, right = sp.fraction(lo), sp.fraction(hi)
			case ww > 0:
				left, right = inWord[gi]/ww, (inWord[gi]+p.Advance)/ww
			case len(w.Chars) > 0:
				n := float64(len(w.Chars))
				left, right = float64(p.Char)/n, float64(p.Char+1)/n
			}
			cs.MaskLeft = Mask(cs.Progress, left, fade)
			cs.MaskRight = Mask(cs.Progress, right, fade)
			cs.Glow = HighlightGlow(cs.Progress, ls.Flags.IsActive())
			cs.Color = GlowColor(b.cfg.Color, cs.Glow)

			y += Float(now, w.StartMs, w.DurationMs(), amp) * size

			if g := groups[p.Word]; g.on {
				cs.Index, cs.Count = g.base+p.Char, g.count
				cs.DurationMs = g.durMs
				ease := EmphasisEase(CharProgress(now, cs.StartMs, g.durMs))
				cs.Emphasis = ease * g.amount
				cs.Zoom = 1 + b.cfg.EmphasisScale*cs.Emphasis
				cs.GlowRadius = g.spread * 0.3 * ease * size
				x += CharXOffset(ease, g.amount, cs.Index, cs.Count) * size
				y -= b.cfg.EmphasisLift * cs.Emphasis * size
			}
		}

		cs.X = ox + (x-ox)*ls.Scale
		cs.Y = oy + (y-oy)*ls.Scale
		cs.Em = size * ls.Scale
		dst = append(dst, cs)
	}
	return dst
}

// wordSpan is the extent of one word in the line's global highlight
// fractions.
type wordSpan struct {
	first, last int // visual lines
	lo, hi      float64
	glyphs      int
}

func (s wordSpan) wrapped() bool { return s.glyphs > 0 && s.last > s.first && s.hi > s.lo }

// fraction maps a global fraction into the word's own [0, 1] range.
func (s wordSpan) fraction(g float64) float64 {
	return math.Max(0, math.Min(1, (g-s.lo)/(s.hi-s.lo)))
}

// dotSize and dotGap size the interlude dots relative to the main font size.
const (
	dotSize = 0.35
	dotGap  = 0.6
)

func (b *Builder) dots(iv timing.Interlude, doc *timing.Document, dl *layout.DocumentLayout, next Motion, now float64) Dots {
	d := DotsAt(iv, now)
	m := dl.Metrics
	main := m.Sizes.Main
	d.Size, d.Spacing = main*dotSize, main*dotGap
	d.X = m.PaddingX + d.Size/2
	if doc.Line(iv.Next).Flags.IsDuet() {
		d.X = m.PaddingX + m.ContentWidth - 2*d.Spacing - d.Size/2
	}
	d.Y = next.Y - m.Spacing()/2
	if math.IsNaN(d.Y) {
		d.Y = 0
	}
	return d
}
