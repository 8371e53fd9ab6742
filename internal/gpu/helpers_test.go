//go:build !nogpu

package gpu

import (
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/karaoke/quad"
	"github.com/gogpu/karaoke/timing"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// newNoopDevice creates a noop device and queue for testing.
func newNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		t.Fatal("no noop adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

// lagQueue reports submissions as completed only up to completed, so tests
// can hold ring slots in flight on the synchronous noop backend.
type lagQueue struct {
	hal.Queue
	completed uint64
}

func (q *lagQueue) PollCompleted() uint64 { return q.completed }

// newView creates a w x h texture view on device.
func newView(t *testing.T, device hal.Device, w, h uint32) hal.TextureView {
	t.Helper()
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "test_texture",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: "test_view"})
	if err != nil {
		t.Fatalf("CreateTextureView: %v", err)
	}
	return view
}

// testInstances returns n glyph instances, the odd ones blurred and
// expanded.
func testInstances(n int) []quad.GlyphInstance {
	out := make([]quad.GlyphInstance, n)
	for i := range out {
		g := quad.GlyphInstance{
			Bounds:    quad.Rect{X0: float64(10 + 30*i), Y0: 20, X1: float64(30 + 30*i), Y1: 60},
			UV:        quad.Rect{X0: 0.1, Y0: 0.2, X1: 0.2, Y1: 0.4},
			UVBounds:  quad.Rect{X0: 0.1, Y0: 0.2, X1: 0.2, Y1: 0.4},
			Color:     0xffffffff,
			Flags:     timing.FlagActive,
			Char:      quad.Pack16(i, n),
			Visual:    quad.Pack16(0, 1),
			StartMs:   float64(1000 + 100*i),
			MaskLeft:  1,
			MaskRight: 0.5,
			Dark:      0.2,
			Bright:    1,
			Opacity:   1,
			Range:     4,
		}
		if i%2 == 1 {
			g.Blur = 2
			g.Margin = quad.DefaultConfig().Margin(2)
			g.Bounds, g.UV = quad.Expand(g.Bounds, g.UVBounds, g.Margin)
		}
		out[i] = g
	}
	return out
}

// skipUnsupported skips t when naga reports a feature it does not
// implement yet.
func skipUnsupported(t *testing.T, err error) {
	t.Helper()
	msg := err.Error()
	if strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") ||
		strings.Contains(msg, "lowering error") {
		t.Skipf("Skipping: naga feature not yet implemented: %v", err)
	}
}
