// Package gpu composites glyph instances onto a render target through
// gogpu/wgpu's HAL.
//
// Two strategies implement [Compositor]:
//
//   - [EdgeFadeCompositor] draws every glyph in one pass. Expanded quads
//     sample the nearest texel of the glyph's own atlas rectangle and
//     extrapolate the distance field outward, fading to zero at the margin.
//   - [PyramidCompositor] draws glyphs sharp into a base target plus a
//     blur-info target, builds a mip pyramid of progressively blurred copies
//     and composites by selecting a fractional level per pixel.
//
// Per-frame vertex, index and uniform buffers come from a rotated ring of
// slots. A slot whose last submission the queue has not completed is never
// written; fresh buffers are allocated for that frame instead.
//
// The pyramid's passes are declared as a [PassGraph], validated and ordered
// before any GPU object is created.
package gpu
