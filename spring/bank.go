package spring

import "time"

// Line holds the animated state of one lyric line.
type Line struct {
	Y       Spring
	Scale   Spring
	Blur    Smoother
	Opacity Smoother

	background bool
}

// Background reports whether the line scales with the background preset.
func (l *Line) Background() bool { return l.background }

// Settled reports whether every quantity of the line is at rest.
func (l *Line) Settled() bool {
	return l.Y.Settled() && l.Scale.Settled() &&
		l.Blur.Value() == l.Blur.Target() && l.Opacity.Value() == l.Opacity.Target()
}

// Bank owns the per-line animation state of one document. It is the only
// state of the engine that depends on frame history.
//
// A Bank is not safe for concurrent use.
type Bank struct {
	presets Presets
	lines   []Line
}

// NewBank returns an empty bank using presets.
func NewBank(p Presets) *Bank {
	return &Bank{presets: p}
}

// Reset discards all state and allocates one resting Line per entry of
// background, which selects the scale preset of each line. Lines start at
// Y 0, scale 1, blur 0 and opacity 1.
func (b *Bank) Reset(background []bool) {
	b.lines = make([]Line, len(background))
	for i, bg := range background {
		scale := b.presets.Scale
		if bg {
			scale = b.presets.ScaleBackground
		}
		b.lines[i] = Line{
			Y:          New(0, b.presets.PositionY),
			Scale:      New(1, scale),
			Blur:       NewSmoother(0, BlurSpeed),
			Opacity:    NewSmoother(1, OpacitySpeed),
			background: bg,
		}
	}
}

// Presets returns the presets in use.
func (b *Bank) Presets() Presets { return b.presets }

// SetPresets swaps the presets of every line, keeping values and velocities.
func (b *Bank) SetPresets(p Presets) {
	b.presets = p
	for i := range b.lines {
		l := &b.lines[i]
		l.Y.SetPreset(p.PositionY)
		if l.background {
			l.Scale.SetPreset(p.ScaleBackground)
		} else {
			l.Scale.SetPreset(p.Scale)
		}
	}
}

// Len returns the number of lines.
func (b *Bank) Len() int { return len(b.lines) }

// Line returns the state of line i.
func (b *Bank) Line(i int) *Line { return &b.lines[i] }

// Step advances every line by dt.
func (b *Bank) Step(dt time.Duration) {
	for i := range b.lines {
		l := &b.lines[i]
		l.Y.Step(dt)
		l.Scale.Step(dt)
		l.Blur.Step(dt)
		l.Opacity.Step(dt)
	}
}

// Settled reports whether every line is at rest.
func (b *Bank) Settled() bool {
	for i := range b.lines {
		if !b.lines[i].Settled() {
			return false
		}
	}
	return true
}
