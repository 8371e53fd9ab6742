package frame

import (
	"reflect"
	"testing"

	"github.com/gogpu/karaoke/timing"
)

func TestBuildThreeWords(t *testing.T) {
	doc := threeWords()
	st := NewBuilder(DefaultConfig()).Build(Input{
		Doc:     doc,
		Layout:  testLayout(doc, 1920, 1080),
		Now:     2000,
		Playing: true,
	})

	if st.Active != 0 {
		t.Fatalf("Active = %d, want 0", st.Active)
	}
	ls := st.Lines[0]
	if ls.Phase != Active || !ls.Flags.IsActive() || !ls.InSight {
		t.Fatalf("line state = %+v", ls)
	}
	if len(ls.Chars) != 8 || st.CharCount() != 8 {
		t.Fatalf("len(Chars) = %d, want 8", len(ls.Chars))
	}

	wantProgress := []float64{1, 1, 1, 0.5, 0.5, 0.5, 0, 0}
	for i, c := range ls.Chars {
		if c.Progress != wantProgress[i] {
			t.Errorf("char %d progress = %v, want %v", i, c.Progress, wantProgress[i])
		}
		if c.Dark != 0.4 || c.Bright != 1 {
			t.Errorf("char %d brightness = (%v, %v)", i, c.Dark, c.Bright)
		}
	}
	for i := range 3 {
		if c := ls.Chars[i]; c.MaskLeft != 1 || c.MaskRight != 1 || c.Glow != 1 {
			t.Errorf("sung char %d = %+v", i, c)
		}
	}
	if c := ls.Chars[3]; c.MaskLeft != 1 || !near(c.MaskRight, 1, 1e-9) {
		t.Errorf("first char of W2 masks = %v, %v", c.MaskLeft, c.MaskRight)
	}
	if c := ls.Chars[5]; c.MaskLeft > 1e-9 || c.MaskRight != 0 {
		t.Errorf("last char of W2 masks = %v, %v", c.MaskLeft, c.MaskRight)
	}
	for i := 6; i < 8; i++ {
		if c := ls.Chars[i]; c.MaskLeft != 0 || c.MaskRight != 0 || c.Glow != 0 {
			t.Errorf("unsung char %d = %+v", i, c)
		}
	}
	if ls.Chars[0].Rune != 'W' || ls.Chars[7].Rune != '3' {
		t.Error("runes out of order")
	}
	if !(ls.Chars[1].X > ls.Chars[0].X) {
		t.Error("characters should advance to the right")
	}
}

func TestBuildHighlightFollowsWrappedLines(t *testing.T) {
	// One long word wrapped over several visual lines of a narrow viewport.
	doc := timing.NewDocument([]timing.Line{{
		StartMs: 0, EndMs: 3000,
		Flags: timing.FlagActive,
		Words: []timing.Word{{StartMs: 0, EndMs: 3000, Text: "abcdefghijklmnopqrstuvwxyzabc"}},
	}})
	in := Input{Doc: doc, Layout: testLayout(doc, 400, 600), Playing: true}
	b := NewBuilder(DefaultConfig())
	for _, now := range []float64{600, 1500, 2380, 2900} {
		in.Now = now
		chars := b.Build(in).Lines[0].Chars
		if chars[0].VisualCount < 2 {
			t.Fatalf("VisualCount = %d, want a wrapped word", chars[0].VisualCount)
		}
		for i, c := range chars {
			if c.Global < c.Progress && !(c.MaskLeft > 0) {
				t.Errorf("now %v: char %d (visual %d, global %.3f) unlit at progress %.3f", now, i, c.VisualIndex, c.Global, c.Progress)
			}
			if c.Global > c.Progress && !(c.MaskRight < 1) {
				t.Errorf("now %v: char %d (visual %d, global %.3f) lit ahead of progress %.3f", now, i, c.VisualIndex, c.Global, c.Progress)
			}
			if i > 0 && c.MaskLeft > chars[i-1].MaskLeft+1e-12 {
				t.Errorf("now %v: char %d mask %v exceeds char %d mask %v", now, i, c.MaskLeft, i-1, chars[i-1].MaskLeft)
			}
		}
	}
}

func TestBuildHighlightMonotonic(t *testing.T) {
	doc := threeWords()
	in := Input{Doc: doc, Layout: testLayout(doc, 1920, 1080), Playing: true}
	b := NewBuilder(DefaultConfig())
	prev := b.Build(in)
	for now := 0.0; now <= 4500; now += 50 {
		in.Now = now
		st := b.Build(in)
		for i, c := range st.Chars {
			p := prev.Chars[i]
			if c.MaskLeft < p.MaskLeft-1e-12 || c.MaskRight < p.MaskRight-1e-12 {
				t.Fatalf("char %d mask decreased at %v", i, now)
			}
		}
		prev = st
	}
}

func TestBuildSeekReproducible(t *testing.T) {
	doc := scrollDoc()
	dl := testLayout(doc, 1920, 1080)
	b := NewBuilder(DefaultConfig())
	motion := []Motion{{Y: 10, Scale: 0.97, Blur: 3, Opacity: 1}, {Y: 200, Scale: 1, Opacity: 0.85}}

	in := Input{Doc: doc, Layout: dl, Motion: motion, Now: 3100, Playing: true}
	first := b.Build(in)
	in.Now = 500
	back := b.Build(in)
	in.Now = 3100
	again := b.Build(in)

	if !reflect.DeepEqual(first, again) {
		t.Error("state at 3100 differs after seeking back and forth")
	}
	in.Now = 500
	if !reflect.DeepEqual(back, b.Build(in)) {
		t.Error("state at 500 not reproducible")
	}
}

func TestBuildSubLine(t *testing.T) {
	doc := timing.NewDocument([]timing.Line{
		line(0, 2000, timing.FlagActive, "sing ", "along"),
		{Flags: timing.FlagTranslation, Words: []timing.Word{{Text: "translated"}}},
	})
	dl := testLayout(doc, 1920, 1080)
	st := NewBuilder(DefaultConfig()).Build(Input{Doc: doc, Layout: dl, Now: 1900, Playing: true})

	sub := st.Lines[1]
	if sub.Flags.IsActive() || !sub.Flags.IsTranslation() {
		t.Errorf("sub-line flags = %v", sub.Flags)
	}
	if want := st.Lines[0].Y + dl.Inset[1]; sub.Y != want || dl.Inset[1] == 0 {
		t.Errorf("sub-line Y = %v, want %v", sub.Y, want)
	}
	for _, c := range sub.Chars {
		if c.Progress != 0 || c.MaskRight != 0 || c.Dark != 0.3 || c.Bright != 0.3 {
			t.Fatalf("sub-line char highlighted: %+v", c)
		}
	}
	if len(sub.Chars) != len("translated") {
		t.Errorf("len(sub.Chars) = %d", len(sub.Chars))
	}
}

func TestBuildMotion(t *testing.T) {
	doc := threeWords()
	dl := testLayout(doc, 1920, 1080)
	b := NewBuilder(DefaultConfig())

	st := b.Build(Input{Doc: doc, Layout: dl, Now: 500, Motion: []Motion{{Y: 1e5, Scale: 1, Opacity: 1}}})
	if st.Lines[0].InSight || st.CharCount() != 0 {
		t.Errorf("off-screen line emitted %d chars", st.CharCount())
	}

	st = b.Build(Input{Doc: doc, Layout: dl, Now: 500, Motion: []Motion{{Y: 100, Scale: 0.5, Blur: 99, Opacity: 2}}})
	ls := st.Lines[0]
	if ls.Blur != 32 || ls.Opacity != 1 {
		t.Errorf("blur/opacity not clamped: %v %v", ls.Blur, ls.Opacity)
	}
	if want := dl.Line(0).Size * 0.5; ls.Chars[0].Em != want {
		t.Errorf("Em = %v, want %v", ls.Chars[0].Em, want)
	}
	if d, _ := Brightness(0.5); ls.Chars[0].Dark != d {
		t.Error("brightness should follow the animated scale")
	}

	cfg := DefaultConfig()
	cfg.EnableBlur = false
	b.SetConfig(cfg)
	st = b.Build(Input{Doc: doc, Layout: dl, Now: 500, Motion: []Motion{{Y: 100, Scale: 1, Blur: 5, Opacity: 1}}})
	if st.Lines[0].Blur != 0 {
		t.Errorf("blur with EnableBlur=false = %v", st.Lines[0].Blur)
	}
}

func TestBuildEmphasis(t *testing.T) {
	doc := timing.NewDocument([]timing.Line{{
		Flags: timing.FlagActive | timing.FlagEmphasis,
		Words: []timing.Word{{StartMs: 0, EndMs: 3000, Text: "hello"}},
	}})
	dl := testLayout(doc, 1920, 1080)
	b := NewBuilder(DefaultConfig())

	st := b.Build(Input{Doc: doc, Layout: dl, Now: 1800, Playing: true})
	peak := st.Chars[0]
	if !peak.Flags.IsEmphasis() || peak.Count != 5 {
		t.Fatalf("emphasis char = %+v", peak)
	}
	if peak.Zoom <= 1 || peak.Emphasis <= 0 || peak.GlowRadius <= 0 || peak.Radius() != peak.GlowRadius {
		t.Errorf("char 0 at its emphasis peak = %+v", peak)
	}
	if peak.DurationMs != 3600 {
		t.Errorf("last-word emphasis duration = %v, want 3600", peak.DurationMs)
	}

	st = b.Build(Input{Doc: doc, Layout: dl, Now: 10000, Playing: true})
	for i, c := range st.Chars {
		if c.Zoom != 1 || c.Emphasis != 0 {
			t.Errorf("char %d still emphasized after the line: %+v", i, c)
		}
	}
}

func TestBuildDots(t *testing.T) {
	doc := timing.NewDocument([]timing.Line{line(6000, 8000, timing.FlagActive, "x ", "y")})
	dl := testLayout(doc, 1920, 1080)
	st := NewBuilder(DefaultConfig()).Build(Input{Doc: doc, Layout: dl, Now: 1000, Playing: true})

	if !st.Dots.Visible() || st.Dots.Interlude.Next != 0 {
		t.Fatalf("Dots = %+v", st.Dots)
	}
	if st.Dots.Size <= 0 || st.Dots.X <= 0 {
		t.Errorf("dots not placed: %+v", st.Dots)
	}
	if want := st.Lines[0].Y - dl.Metrics.Spacing()/2; st.Dots.Y != want {
		t.Errorf("Dots.Y = %v, want %v", st.Dots.Y, want)
	}

	st = NewBuilder(DefaultConfig()).Build(Input{Doc: doc, Layout: dl, Now: 7000, Playing: true})
	if st.Dots.Visible() {
		t.Error("dots visible while a line plays")
	}
}

func TestBuildWithoutLayout(t *testing.T) {
	st := NewBuilder(DefaultConfig()).Build(Input{Doc: threeWords(), Now: 100})
	if st.Active != 0 || len(st.Lines) != 0 {
		t.Errorf("state without layout = %+v", st)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	cfg := DefaultConfig()
	cfg.StaggerReduction = 0.5
	if err := cfg.Validate(); err == nil {
		t.Error("stagger reduction below 1 accepted")
	}

	var a Anchor
	if err := a.UnmarshalText([]byte("Bottom")); err != nil || a != AnchorBottom {
		t.Errorf("UnmarshalText(Bottom) = %v, %v", a, err)
	}
	if err := a.UnmarshalText([]byte("left")); err == nil {
		t.Error("unknown anchor accepted")
	}
	if b, _ := AnchorTop.MarshalText(); string(b) != "top" {
		t.Errorf("MarshalText = %q", b)
	}
}
