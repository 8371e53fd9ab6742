package layout

import "github.com/gogpu/karaoke/timing"

// DocumentLayout is the wrapped form of a whole document for one viewport.
// It is immutable and rebuilt when the document, viewport or font sizes
// change.
//
// A main line and the translation or romanization lines attached to it form
// a block that scrolls as one unit.
type DocumentLayout struct {
	Metrics LineMetrics
	Lines   []Layout

	// BlockHeight is the height of the block started by line i, or zero
	// for a sub-line that belongs to a block.
	BlockHeight []float64

	// Inset is the Y of line i inside its block.
	Inset []float64
}

// Resolve wraps every line of doc for the viewport described by m.
func (r *Resolver) Resolve(doc *timing.Document, m LineMetrics) *DocumentLayout {
	n := doc.Len()
	dl := &DocumentLayout{
		Metrics:     m,
		Lines:       make([]Layout, n),
		BlockHeight: make([]float64, n),
		Inset:       make([]float64, n),
	}
	for i, line := range doc.All() {
		l := r.Wrap(line.Words, m.ContentWidth, m.SizeFor(line.Flags))
		l.LineHeight = m.LineHeightFor(line.Flags)
		for vi := range l.Visual {
			l.Visual[vi].X = m.LineX(line.Flags, l.Visual[vi].Width)
		}
		for gi := range l.Glyphs {
			l.Glyphs[gi].Y = float64(l.Glyphs[gi].Visual) * l.LineHeight
		}
		dl.Lines[i] = l

		if p := line.Parent; p >= 0 {
			dl.Inset[i] = dl.BlockHeight[p]
			dl.BlockHeight[p] += l.Height()
			continue
		}
		dl.BlockHeight[i] = l.Height()
	}
	return dl
}

// Len returns the number of lines.
func (dl *DocumentLayout) Len() int { return len(dl.Lines) }

// Line returns the layout of line i.
func (dl *DocumentLayout) Line(i int) *Layout { return &dl.Lines[i] }

// GlyphCount returns the number of placed glyphs over all lines.
func (dl *DocumentLayout) GlyphCount() int {
	n := 0
	for i := range dl.Lines {
		n += len(dl.Lines[i].Glyphs)
	}
	return n
}
