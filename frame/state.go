package frame

import "github.com/gogpu/karaoke/timing"

// State is the immutable animation snapshot of one frame.
type State struct {
	// Now is the playback time the state was built for.
	Now float64

	// Active is the line index of the active line, or -1.
	Active int

	Scroll Scroll

	ViewportWidth, ViewportHeight float64

	// Lines holds one entry per document line, in order.
	Lines []LineState

	// Chars holds the characters of every visible line; each LineState
	// slices into it.
	Chars []CharState

	// Dots is the interlude indicator; see Dots.Visible.
	Dots Dots
}

// CharCount returns the number of visible characters.
func (s *State) CharCount() int { return len(s.Chars) }

// LineState is the animated state of one line.
type LineState struct {
	Index int
	Phase Phase

	// Flags are the line flags with FlagActive set only while an
	// active-eligible main line is sounding.
	Flags timing.Flags

	// Y is the top of the line in viewport pixels, Height its unscaled
	// height.
	Y, Height float64

	Scale   float64
	Blur    float64
	Opacity float64

	// Progress is the fraction of the line duration elapsed.
	Progress float64

	InSight bool

	Chars []CharState
}

// CharState is the animated state of one character.
type CharState struct {
	// Line, Word and Char locate the character in the document.
	Line, Word, Char int
	Rune             rune

	// X and Y are the top-left of the character's em box in viewport
	// pixels, Em the em size; all include the line scale. Zoom is the
	// emphasis scale about the box center.
	X, Y, Em float64
	Zoom     float64

	// Index and Count locate the character in its emphasis group (the
	// word, or the chunk of an emphasized word).
	Index, Count int

	// StartMs and DurationMs time the character's emphasis animation.
	StartMs, DurationMs float64

	// VisualIndex and VisualCount locate the visual line; Global is the
	// wrap-aware highlight fraction of the character center.
	VisualIndex, VisualCount int
	Global                   float64

	// Progress is the word highlight; MaskLeft and MaskRight are the
	// highlight coverage at the left and right edge of the character.
	Progress            float64
	MaskLeft, MaskRight float64

	// Dark and Bright are the alpha of unhighlighted and highlighted
	// pixels.
	Dark, Bright float64

	Color Color

	// Emphasis is the eased emphasis level, Glow the highlight glow.
	Emphasis float64
	Glow     float64

	// Blur is the line blur radius and GlowRadius the emphasis glow
	// spread, both in pixels.
	Blur       float64
	GlowRadius float64

	Opacity float64
	Flags   timing.Flags
}

// Radius returns the largest blur or glow radius of the character.
func (c *CharState) Radius() float64 {
	return max(c.Blur, c.GlowRadius)
}
