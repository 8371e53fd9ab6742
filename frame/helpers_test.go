package frame

import (
	"math"

	"github.com/gogpu/karaoke/layout"
	"github.com/gogpu/karaoke/timing"
)

const eps = 1e-9

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func testLayout(doc *timing.Document, width, height float64) *layout.DocumentLayout {
	m := layout.NewLineMetrics(layout.DefaultFontSizeConfig(), width, height)
	return layout.NewResolver(layout.Monospace(0.5)).Resolve(doc, m)
}

// threeWords is one active-eligible line with words sung over
// [0,1000), [1000,3000) and [3000,4000).
func threeWords() *timing.Document {
	return timing.NewDocument([]timing.Line{{
		StartMs: 0, EndMs: 4000,
		Flags: timing.FlagActive,
		Words: []timing.Word{
			{StartMs: 0, EndMs: 1000, Text: "W1 "},
			{StartMs: 1000, EndMs: 3000, Text: "W2 "},
			{StartMs: 3000, EndMs: 4000, Text: "W3"},
		},
	}})
}

func line(start, end float64, flags timing.Flags, texts ...string) timing.Line {
	l := timing.Line{StartMs: start, EndMs: end, Flags: flags}
	step := (end - start) / float64(max(len(texts), 1))
	for i, s := range texts {
		ws := start + step*float64(i)
		l.Words = append(l.Words, timing.Word{StartMs: ws, EndMs: ws + step, Text: s})
	}
	return l
}
