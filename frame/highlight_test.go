package frame

import (
	"testing"

	"github.com/gogpu/karaoke/timing"
)

func TestWordProgressThreeWords(t *testing.T) {
	doc := threeWords()
	words := doc.Line(0).Words
	want := []float64{1, 0.5, 0}
	for i, w := range words {
		if got := WordProgress(w, 2000); !near(got, want[i], eps) {
			t.Errorf("WordProgress(word %d, 2000) = %v, want %v", i, got, want[i])
		}
	}
}

func TestWordProgressMonotonic(t *testing.T) {
	w := timing.Word{StartMs: 500, EndMs: 1700, Text: "x"}
	prev := -1.0
	for now := -100.0; now <= 2500; now += 7 {
		p := WordProgress(w, now)
		if p < 0 || p > 1 {
			t.Fatalf("WordProgress(%v) = %v out of [0, 1]", now, p)
		}
		if p < prev {
			t.Fatalf("WordProgress decreased at %v: %v < %v", now, p, prev)
		}
		prev = p
	}
	if WordProgress(w, 499.9) != 0 || WordProgress(w, 1700) != 1 {
		t.Error("WordProgress bounds wrong")
	}
	if got := WordProgress(timing.Word{StartMs: 10, EndMs: 10}, 10); got != 1 {
		t.Errorf("zero-length word at its start = %v, want 1", got)
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		name       string
		p, x, fade float64
		want       float64
	}{
		{"before", 0, 0, 0.3, 0},
		{"after", 1, 1, 0.3, 1},
		{"behind edge", 0.5, 0.1, 0.3, 1},
		{"ahead of edge", 0.5, 0.9, 0.3, 0},
		{"on ramp", 0.5, 0.5, 0.5, 0.5},
		{"hard edge behind", 0.5, 0.4, 0, 1},
		{"hard edge ahead", 0.5, 0.6, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mask(tt.p, tt.x, tt.fade); !near(got, tt.want, eps) {
				t.Errorf("Mask(%v, %v, %v) = %v, want %v", tt.p, tt.x, tt.fade, got, tt.want)
			}
		})
	}

	for _, x := range []float64{0, 0.25, 0.5, 0.75, 1} {
		prev := 0.0
		for p := 0.0; p <= 1; p += 0.01 {
			m := Mask(p, x, 0.2)
			if m < prev-eps {
				t.Fatalf("Mask not monotonic in p at x=%v p=%v", x, p)
			}
			prev = m
		}
	}
}

func TestPhaseAt(t *testing.T) {
	tests := []struct {
		now  float64
		want Phase
	}{
		{999, Upcoming},
		{1000, Active},
		{1999, Active},
		{2000, Past},
	}
	for _, tt := range tests {
		if got := PhaseAt(1000, 2000, tt.now); got != tt.want {
			t.Errorf("PhaseAt(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
	if Active.String() != "active" {
		t.Errorf("Active.String() = %q", Active.String())
	}
}

func TestActiveLine(t *testing.T) {
	doc := timing.NewDocument([]timing.Line{
		line(1000, 2000, 0, "a"),
		line(3000, 4000, 0, "b"),
		line(3500, 5000, timing.FlagBackground, "bg"),
		line(3000, 4000, timing.FlagTranslation, "tr"),
		line(6000, 7000, 0, "c"),
	})
	tests := []struct {
		now  float64
		want int
	}{
		{0, 0},
		{1500, 0},
		{2500, 0},
		{3600, 1},
		{4500, 1},
		{6500, 4},
		{99999, 4},
	}
	for _, tt := range tests {
		if got := ActiveLine(doc, tt.now); got != tt.want {
			t.Errorf("ActiveLine(%v) = %d, want %d", tt.now, got, tt.want)
		}
	}
	if got := ActiveLine(timing.NewDocument(nil), 0); got != -1 {
		t.Errorf("ActiveLine(empty) = %d, want -1", got)
	}
}

func TestBrightness(t *testing.T) {
	tests := []struct {
		scale        float64
		dark, bright float64
	}{
		{1, 0.4, 1},
		{0.97, 0.2, 0.2},
		{0.75, 0.2, 0.2},
		{0.985, 0.3, 0.6},
	}
	for _, tt := range tests {
		d, b := Brightness(tt.scale)
		if !near(d, tt.dark, 1e-9) || !near(b, tt.bright, 1e-9) {
			t.Errorf("Brightness(%v) = (%v, %v), want (%v, %v)", tt.scale, d, b, tt.dark, tt.bright)
		}
	}
}

func TestHighlightGlow(t *testing.T) {
	if HighlightGlow(0.3, true) != 0 || HighlightGlow(1, false) != 0 {
		t.Error("glow should be off at h <= 0.3 or on inactive lines")
	}
	if got := HighlightGlow(1, true); got != 1 {
		t.Errorf("HighlightGlow(1, true) = %v, want 1", got)
	}
	if got := HighlightGlow(0.65, true); !near(got, 0.5, eps) {
		t.Errorf("HighlightGlow(0.65, true) = %v, want 0.5", got)
	}

	if got := GlowColor(White, 1); got != White {
		t.Errorf("GlowColor(White) = %+v, want clamped white", got)
	}
	got := GlowColor(Color{A: 1}, 1)
	if !near(got.R, 0.075, eps) || !near(got.G, 0.075, eps) || !near(got.B, 0.1, eps) || got.A != 1 {
		t.Errorf("GlowColor(black, 1) = %+v", got)
	}
}
