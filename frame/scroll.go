package frame

import (
	"math"
	"slices"

	"github.com/gogpu/karaoke/layout"
	"github.com/gogpu/karaoke/timing"
)

// Opacity targets. Hidden lines keep a tiny non-zero opacity so they stay
// in the draw list and fade back smoothly.
const (
	hiddenOpacity       = 1e-5
	backgroundOpacity   = 0.4
	idleBackgroundAlpha = 1e-4
	bufferedOpacity     = 0.85
	nonDynamicOpacity   = 0.2
)

// Scroll is the scroll position of a document at one instant. Indices are
// main-line ordinals (positions in Document.MainLines), not line indices.
type Scroll struct {
	// Index is the main line aligned to the align position, or -1.
	Index int

	// Latest is the last main line currently sounding, or Index.
	Latest int

	// Buffered lists the main lines whose range contains now, in order.
	Buffered []int

	Playing bool
}

// ScrollAt returns the scroll position of doc at now.
func ScrollAt(doc *timing.Document, now float64, playing bool) Scroll {
	s := Scroll{Index: -1, Latest: -1, Playing: playing}
	active := ActiveLine(doc, now)
	for k, i := range doc.MainLines() {
		if doc.Line(i).Contains(now) {
			s.Buffered = append(s.Buffered, k)
		}
		if i == active && s.Index < 0 {
			s.Index = k
		}
	}
	if len(s.Buffered) > 0 {
		s.Index = s.Buffered[0]
		s.Latest = s.Buffered[len(s.Buffered)-1]
	} else {
		s.Latest = s.Index
	}
	return s
}

// Equal reports whether s and o would produce the same targets.
func (s Scroll) Equal(o Scroll) bool {
	return s.Index == o.Index && s.Latest == o.Latest &&
		s.Playing == o.Playing && slices.Equal(s.Buffered, o.Buffered)
}

// IsBuffered reports whether main line k is sounding.
func (s Scroll) IsBuffered(k int) bool {
	_, ok := slices.BinarySearch(s.Buffered, k)
	return ok
}

// Target is the resting state a line block animates toward.
type Target struct {
	// Y is the top of the block in viewport pixels.
	Y       float64
	Scale   float64
	Blur    float64
	Opacity float64

	// Delay is how long, in seconds, the block waits before moving to Y.
	Delay float64

	// Active reports whether the block is in focus.
	Active bool
}

// Targets computes one Target per main line of doc for scroll position s.
// On seek every delay is zero and the caller is expected to snap instead
// of animating. Background lines take no space while inactive during
// playback, so the foreground closes up around them.
func Targets(doc *timing.Document, dl *layout.DocumentLayout, s Scroll, cfg Config, seek bool) []Target {
	mains := doc.MainLines()
	if len(mains) == 0 || dl == nil || s.Index < 0 {
		return nil
	}
	m := dl.Metrics
	spacing := m.Spacing()
	height := func(k int) float64 { return dl.BlockHeight[mains[k]] }
	background := func(k int) bool { return doc.Line(mains[k]).Flags.IsBackground() }

	blurScale := 1.0
	if m.ViewportWidth <= 1024 {
		blurScale = 0.8
	}

	offset := 0.0
	for k := range min(s.Index, len(mains)) {
		if background(k) && s.Playing {
			continue
		}
		offset += height(k) + spacing
	}
	pos := -offset + m.ViewportHeight*cfg.AlignPosition
	switch cfg.AlignAnchor {
	case AnchorBottom:
		pos -= height(s.Index)
	case AnchorCenter:
		pos -= height(s.Index) / 2
	}

	nonDynamic := isNonDynamic(doc, mains)
	delay, step := 0.0, cfg.StaggerDelay
	if seek {
		step = 0
	}
	out := make([]Target, len(mains))
	for k := range mains {
		bg := background(k)
		buffered := s.IsBuffered(k)
		active := buffered ||
			(k >= s.Index && k < s.Latest) ||
			(len(s.Buffered) == 0 && k == s.Index)

		t := Target{Y: pos, Scale: 1, Delay: delay, Active: active}
		if !active && s.Playing {
			switch {
			case bg:
				t.Scale = cfg.BackgroundScale
			case cfg.EnableScale:
				t.Scale = cfg.InactiveScale
			}
		}

		if !active && cfg.EnableBlur {
			level := 1.0
			if k < s.Index {
				level += float64(s.Index-k) + 1
			} else {
				level += math.Abs(float64(k - max(s.Latest, s.Index)))
			}
			t.Blur = math.Min(level*blurScale, cfg.MaxBlur)
		}

		switch {
		case cfg.HidePassedLines && k < s.Index && s.Playing:
			t.Opacity = hiddenOpacity
		case bg && (active || !s.Playing):
			t.Opacity = backgroundOpacity
		case bg:
			t.Opacity = idleBackgroundAlpha
		case buffered:
			t.Opacity = bufferedOpacity
		case nonDynamic:
			t.Opacity = nonDynamicOpacity
		default:
			t.Opacity = 1
		}
		out[k] = t

		if !bg || active || !s.Playing {
			pos += height(k) + spacing
		}
		if pos >= 0 && !seek {
			if !bg {
				delay += step
			}
			if k >= s.Index {
				step /= cfg.StaggerReduction
			}
		}
	}
	return out
}

// isNonDynamic reports whether no main line has more than one timed word,
// which is the case for line-synchronized lyrics.
func isNonDynamic(doc *timing.Document, mains []int) bool {
	for _, i := range mains {
		n := 0
		for _, w := range doc.Line(i).Words {
			if !w.IsBlank() {
				n++
			}
		}
		if n > 1 {
			return false
		}
	}
	return true
}

// InSight reports whether a block at y with height h is close enough to a
// viewport of height vh to be drawn.
func InSight(y, h, vh, overscan float64) bool {
	return !(y > vh+h+overscan || y+h < -h-overscan)
}
