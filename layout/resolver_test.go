package layout

import (
	"math"
	"testing"

	"github.com/gogpu/karaoke/timing"
)

// Monospace(0.5) at size 20 gives 10px per character.
const testSize = 20

func lineWords(texts ...string) []timing.Word {
	lines := make([]timing.Word, len(texts))
	for i, s := range texts {
		lines[i] = timing.Word{StartMs: float64(i * 1000), EndMs: float64(i*1000 + 1000), Text: s}
	}
	doc := timing.NewDocument([]timing.Line{{Words: lines}})
	return doc.Line(0).Words
}

func TestWrapSixWordsTwoPerLine(t *testing.T) {
	words := lineWords("ab ", "ab ", "ab ", "ab ", "ab ", "ab")
	l := NewResolver(Monospace(0.5)).Wrap(words, 50, testSize)

	if len(l.Visual) != 3 {
		t.Fatalf("len(Visual) = %d, want 3", len(l.Visual))
	}
	want := [][2]float64{{0, 1.0 / 3}, {1.0 / 3, 2.0 / 3}, {2.0 / 3, 1}}
	for i, v := range l.Visual {
		if v.Index != i || v.Count != 3 {
			t.Errorf("Visual[%d] index/count = %d/%d", i, v.Index, v.Count)
		}
		lo, hi := v.FractionRange()
		if math.Abs(lo-want[i][0]) > 1e-12 || math.Abs(hi-want[i][1]) > 1e-12 {
			t.Errorf("Visual[%d].FractionRange() = [%v, %v), want [%v, %v)", i, lo, hi, want[i][0], want[i][1])
		}
	}
	if got := l.Visual[0].Width; got != 50 {
		t.Errorf("Visual[0].Width = %v, want 50 (trailing space excluded)", got)
	}
	// Words 0,1 on the first visual line, 2,3 on the second, 4,5 on the third.
	for _, g := range l.Glyphs {
		if want := g.Word / 2; g.Visual != want {
			t.Errorf("glyph word %d char %d on visual %d, want %d", g.Word, g.Char, g.Visual, want)
		}
	}
}

func checkPartition(t *testing.T, l Layout, chars int) {
	t.Helper()
	if len(l.Visual) == 0 {
		if chars != 0 {
			t.Fatalf("no visual lines for %d chars", chars)
		}
		return
	}
	next := 0
	for i, v := range l.Visual {
		if v.Start != next {
			t.Fatalf("Visual[%d].Start = %d, want %d", i, v.Start, next)
		}
		if v.Len() <= 0 {
			t.Fatalf("Visual[%d] is empty", i)
		}
		next = v.End
	}
	if next != chars {
		t.Fatalf("visual lines cover %d chars, want %d", next, chars)
	}

	prev := -1.0
	for i, g := range l.Glyphs {
		lo, hi := l.Visual[g.Visual].FractionRange()
		if g.Global < lo || g.Global >= hi {
			t.Errorf("glyph %d Global %v outside [%v, %v)", i, g.Global, lo, hi)
		}
		if g.Global < prev {
			t.Errorf("glyph %d Global %v decreased from %v", i, g.Global, prev)
		}
		prev = g.Global
	}
}

func TestWrapPartition(t *testing.T) {
	tests := []struct {
		name  string
		words []string
		width float64
	}{
		{"single line", []string{"hello ", "world"}, 1000},
		{"many lines", []string{"the ", "quick ", "brown ", "fox ", "jumps ", "over"}, 60},
		{"long word", []string{"a ", "extraordinarily ", "b"}, 45},
		{"cjk", []string{"你", "好", "世", "界"}, 45},
		{"zero width", []string{"ab ", "cd"}, 0},
		{"negative width", []string{"ab"}, -10},
		{"nan width", []string{"ab"}, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words := lineWords(tt.words...)
			chars := 0
			for _, w := range words {
				chars += len(w.Chars)
			}
			l := NewResolver(Monospace(0.5)).Wrap(words, tt.width, testSize)
			checkPartition(t, l, chars)
		})
	}
}

func TestWrapNarrowerThanGlyph(t *testing.T) {
	l := NewResolver(Monospace(0.5)).Wrap(lineWords("abc"), 5, testSize)
	if len(l.Visual) != 3 {
		t.Fatalf("len(Visual) = %d, want 3", len(l.Visual))
	}
	for i, v := range l.Visual {
		if v.Len() != 1 {
			t.Errorf("Visual[%d].Len() = %d, want 1", i, v.Len())
		}
	}
}

func TestWrapTinyWidthIncludesSpaces(t *testing.T) {
	for _, width := range []float64{0, 1, 9} {
		l := NewResolver(Monospace(0.5)).Wrap(lineWords("ab ", " ", "cd"), width, testSize)
		if len(l.Visual) != 6 {
			t.Fatalf("width %v: len(Visual) = %d, want 6", width, len(l.Visual))
		}
		for i, v := range l.Visual {
			if v.Len() != 1 || v.Start != i {
				t.Errorf("width %v: Visual[%d] = [%d, %d), want [%d, %d)", width, i, v.Start, v.End, i, i+1)
			}
		}
		checkPartition(t, l, 6)
	}
}

func TestWrapPrefersSpacesInsideWord(t *testing.T) {
	// "aaaa bbbb cccc" arrives as one timed word.
	doc := timing.NewDocument([]timing.Line{{Words: []timing.Word{{StartMs: 0, EndMs: 1200, Text: "aaaa bbbb cccc"}}}})
	l := NewResolver(Monospace(0.5)).Wrap(doc.Line(0).Words, 60, testSize)
	want := [][2]int{{0, 5}, {5, 10}, {10, 14}}
	if len(l.Visual) != len(want) {
		t.Fatalf("len(Visual) = %d, want %d", len(l.Visual), len(want))
	}
	for i, v := range l.Visual {
		if v.Start != want[i][0] || v.End != want[i][1] {
			t.Errorf("Visual[%d] = [%d, %d), want [%d, %d)", i, v.Start, v.End, want[i][0], want[i][1])
		}
	}
}

func TestWrapBreaksLongWord(t *testing.T) {
	l := NewResolver(Monospace(0.5)).Wrap(lineWords("abcdefgh"), 35, testSize)
	want := []int{3, 3, 2}
	if len(l.Visual) != len(want) {
		t.Fatalf("len(Visual) = %d, want %d", len(l.Visual), len(want))
	}
	for i, v := range l.Visual {
		if v.Len() != want[i] {
			t.Errorf("Visual[%d].Len() = %d, want %d", i, v.Len(), want[i])
		}
	}
}

func TestWrapEmpty(t *testing.T) {
	r := NewResolver(Monospace(0.5))
	if l := r.Wrap(nil, 100, testSize); !l.Empty() {
		t.Errorf("Wrap(nil) produced %d visual lines", len(l.Visual))
	}
	if l := r.Wrap(lineWords(""), 100, testSize); !l.Empty() {
		t.Errorf("Wrap(empty word) produced %d visual lines", len(l.Visual))
	}
}

func TestWrapSpaceDoesNotStartLine(t *testing.T) {
	l := NewResolver(Monospace(0.5)).Wrap(lineWords("ab", " ", "cd"), 20, testSize)
	if len(l.Visual) != 2 {
		t.Fatalf("len(Visual) = %d, want 2", len(l.Visual))
	}
	if l.Visual[0].End != 3 {
		t.Errorf("Visual[0].End = %d, want 3 (space hangs)", l.Visual[0].End)
	}
}

func TestWrapNilMetrics(t *testing.T) {
	l := NewResolver(nil).Wrap(lineWords("ab ", "cd"), 10, testSize)
	checkPartition(t, l, 5)
	if l.Width() != 0 {
		t.Errorf("Width() = %v, want 0", l.Width())
	}
}

func TestLayoutGlyphX(t *testing.T) {
	l := NewResolver(Monospace(0.5)).Wrap(lineWords("ab ", "cd"), 30, testSize)
	l.Visual[1].X = 100
	// 'c' is the first glyph of the second visual line.
	if got := l.GlyphX(3); got != 100 {
		t.Errorf("GlyphX(3) = %v, want 100", got)
	}
	if got := l.GlyphX(1); got != 10 {
		t.Errorf("GlyphX(1) = %v, want 10", got)
	}
}

func TestVisualLineGlobal(t *testing.T) {
	v := VisualLine{Index: 1, Count: 4}
	tests := []struct{ local, want float64 }{
		{0, 0.25},
		{0.5, 0.375},
		{1, 0.5},
		{-1, 0.25},
		{math.NaN(), 0.25},
	}
	for _, tt := range tests {
		if got := v.Global(tt.local); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Global(%v) = %v, want %v", tt.local, got, tt.want)
		}
	}
}
