// Package quad turns frame state into per-glyph draw instances.
//
// Each visible character becomes one [GlyphInstance]: a screen rectangle,
// the atlas UV rectangle it samples, and the packed animation inputs the
// compositor shaders read. Characters with a blur or glow radius get a
// larger quad and UV rectangle so the effect is not clipped at the glyph
// bounds; see [Expand].
package quad
