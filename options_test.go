package karaoke

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/gogpu/karaoke/layout"
	"github.com/gogpu/karaoke/quad"
)

func TestNewDefaultOptions(t *testing.T) {
	eng, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer eng.Close()
	if eng.metrics == nil {
		t.Fatal("default metrics not set")
	}
	if eng.atlas != nil {
		t.Error("default atlas should be nil")
	}
	if adv := eng.metrics.Advance('a', 48); !(adv > 0) {
		t.Errorf("default metrics Advance('a') = %v", adv)
	}
}

func TestWithOptions(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	atlas := quad.NewMapAtlas()
	metrics := layout.Monospace(0.7)
	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	eng, err := New(DefaultConfig(), WithAtlas(atlas), WithMetrics(metrics), WithLogger(l))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer eng.Close()

	if eng.atlas != atlas {
		t.Error("WithAtlas not applied")
	}
	if eng.metrics != metrics {
		t.Error("WithMetrics not applied")
	}
	if Logger() != l {
		t.Error("WithLogger not applied")
	}
}
