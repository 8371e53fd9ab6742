// Package layout wraps lyric lines into width-constrained visual lines.
//
// Wrapping is greedy over whole words, falling back to character breaks for
// words wider than the available width. Each visual line owns an equal slice
// of the line's highlight progress, so a sweep traverses a wrapped line one
// visual line after another:
//
//	r := layout.NewResolver(metrics)
//	l := r.Wrap(line.Words, 800, 72)
//	for _, v := range l.Visual {
//	    lo, hi := v.FractionRange() // [i/N, (i+1)/N)
//	}
//
// Glyph advances come from a [Metrics] source: [FontMetrics] for OpenType
// fonts ([GoFont] bundles Go Regular), [FaceMetrics] for fixed-size faces and
// [Monospace] for tests.
package layout
