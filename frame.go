package karaoke

import (
	"github.com/gogpu/karaoke/frame"
	"github.com/gogpu/karaoke/quad"
)

// Uniforms are the per-frame shader constants.
type Uniforms struct {
	// ViewportWidth and ViewportHeight are the target size in pixels.
	ViewportWidth, ViewportHeight float32
	NowMs                         float32

	// FadeWidth is the soft highlight edge in pixels.
	FadeWidth float32
	GlowColor [4]float32
}

// Frame is everything Advance produced for one instant. It is not modified
// after Advance returns and may be rendered or inspected from any goroutine.
type Frame struct {
	// Index increases by one per Advance and selects the GPU buffer slot.
	Index uint64
	Now   float64

	State     *frame.State
	Instances []quad.GlyphInstance
	Stats     quad.Stats
	Uniforms  Uniforms
}

// Empty reports whether the frame draws nothing.
func (f *Frame) Empty() bool { return len(f.Instances) == 0 }

// Width returns the target width in whole pixels.
func (f *Frame) Width() uint32 { return uint32(max(f.Uniforms.ViewportWidth, 0)) }

// Height returns the target height in whole pixels.
func (f *Frame) Height() uint32 { return uint32(max(f.Uniforms.ViewportHeight, 0)) }
