package spring

import (
	"math"
	"testing"
	"time"
)

func TestSmoother(t *testing.T) {
	s := NewSmoother(0, OpacitySpeed)
	s.SetTarget(1)
	for range 60 {
		s.Step(frame)
	}
	want := 1 - math.Exp(-5)
	if math.Abs(s.Value()-want) > 1e-9 {
		t.Errorf("Value() after 1s = %v, want %v", s.Value(), want)
	}

	for range 600 {
		s.Step(frame)
	}
	if s.Value() != 1 {
		t.Errorf("Value() = %v, want snapped to 1", s.Value())
	}

	s.Snap(0.25)
	if s.Value() != 0.25 || s.Target() != 0.25 {
		t.Errorf("Snap: value %v target %v", s.Value(), s.Target())
	}
}

func TestSmootherNeverOvershoots(t *testing.T) {
	s := NewSmoother(10, BlurSpeed)
	s.SetTarget(0)
	s.Step(10 * time.Second)
	if s.Value() < 0 {
		t.Errorf("Value() = %v, overshot 0", s.Value())
	}
}

func TestBank(t *testing.T) {
	b := NewBank(DefaultPresets())
	b.Reset([]bool{false, true})

	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
	if !b.Settled() {
		t.Error("fresh bank should be settled")
	}
	if got := b.Line(1).Scale.Preset(); got != ScaleBackground {
		t.Errorf("background scale preset = %+v", got)
	}
	if !b.Line(1).Background() || b.Line(0).Background() {
		t.Error("Background() flags wrong")
	}
	if b.Line(0).Scale.Value() != 1 || b.Line(0).Opacity.Value() != 1 {
		t.Error("lines should start at scale 1 and opacity 1")
	}

	b.Line(0).Y.SetTarget(100)
	b.Line(0).Blur.SetTarget(4)
	b.Step(frame)
	if b.Settled() {
		t.Error("bank settled right after retarget")
	}
	if b.Line(0).Y.Value() <= 0 || b.Line(0).Blur.Value() <= 0 {
		t.Error("Step did not advance line 0")
	}

	p := DefaultPresets()
	p.PositionY = Critical(200, 1)
	y := b.Line(0).Y.Value()
	b.SetPresets(p)
	if b.Line(0).Y.Preset() != p.PositionY || b.Line(0).Y.Value() != y {
		t.Error("SetPresets should swap constants and keep values")
	}
	if b.Line(1).Scale.Preset() != p.ScaleBackground {
		t.Error("SetPresets lost the background preset")
	}

	b.Reset(nil)
	if b.Len() != 0 {
		t.Errorf("Len() after Reset(nil) = %d", b.Len())
	}
}
