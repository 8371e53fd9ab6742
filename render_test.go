//go:build !nogpu

package karaoke

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/karaoke/internal/gpu"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

func createNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
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

func createView(t *testing.T, device hal.Device, w, h uint32) hal.TextureView {
	t.Helper()
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "test_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "test_target_view",
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.Fatalf("CreateTextureView: %v", err)
	}
	return view
}

func TestRenderRequiresGPU(t *testing.T) {
	eng := newTestEngine(t, threeWords())
	f := eng.Advance(2000, tick)
	if err := eng.Render(f, nil, nil); !errors.Is(err, ErrNoRenderer) {
		t.Errorf("Render before AttachGPU = %v, want ErrNoRenderer", err)
	}
}

func TestRenderStrategies(t *testing.T) {
	device, queue := createNoopDevice(t)
	eng := newTestEngine(t, song())
	if err := eng.AttachGPU(device, queue, gputypes.TextureFormatBGRA8Unorm); err != nil {
		t.Fatalf("AttachGPU() = %v", err)
	}
	if got := eng.r.compositor.Strategy(); got != gpu.StrategyEdgeFade {
		t.Errorf("default compositor = %v", got)
	}

	atlas := createView(t, device, 256, 256)
	target := createView(t, device, 1280, 720)
	for i := range 4 {
		f := eng.Advance(float64(i)*700, tick)
		if err := eng.Render(f, atlas, target); err != nil {
			t.Fatalf("edge-fade frame %d: %v", i, err)
		}
	}

	cfg := eng.Config()
	cfg.Strategy = StrategyPyramid
	cfg.PyramidLevels = 4
	if err := eng.SetConfig(cfg); err != nil {
		t.Fatalf("SetConfig(pyramid) = %v", err)
	}
	pc, ok := eng.r.compositor.(*gpu.PyramidCompositor)
	if !ok {
		t.Fatalf("compositor = %T, want *gpu.PyramidCompositor", eng.r.compositor)
	}
	f := eng.Advance(3000, tick)
	if err := eng.Render(f, atlas, target); err != nil {
		t.Fatalf("pyramid frame: %v", err)
	}
	if pc.Levels() != 4 {
		t.Errorf("Levels() = %d, want 4", pc.Levels())
	}

	// A frame without a viewport has no target size.
	if err := eng.Render(&Frame{}, atlas, target); !errors.Is(err, gpu.ErrNoTarget) {
		t.Errorf("Render(empty frame) = %v, want ErrNoTarget", err)
	}

	eng.Close()
	if err := eng.Render(f, atlas, target); !errors.Is(err, ErrClosed) {
		t.Errorf("Render after Close = %v, want ErrClosed", err)
	}
	if err := eng.AttachGPU(device, queue, gputypes.TextureFormatBGRA8Unorm); !errors.Is(err, ErrClosed) {
		t.Errorf("AttachGPU after Close = %v, want ErrClosed", err)
	}
}

func TestAttachGPUNilDevice(t *testing.T) {
	eng := newTestEngine(t, threeWords())
	if err := eng.AttachGPU(nil, nil, gputypes.TextureFormatBGRA8Unorm); !errors.Is(err, gpu.ErrNilDevice) {
		t.Errorf("AttachGPU(nil) = %v, want ErrNilDevice", err)
	}
	if eng.r != nil {
		t.Error("failed attach left a renderer")
	}
}

// testProvider is a headless gpucontext.DeviceProvider over a noop device.
type testProvider struct {
	device hal.Device
	queue  hal.Queue
}

func (p *testProvider) Device() gpucontext.Device             { return p.device }
func (p *testProvider) Queue() gpucontext.Queue               { return p.queue }
func (p *testProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatUndefined }
func (p *testProvider) Adapter() gpucontext.Adapter           { return nil }
func (p *testProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{Name: "noop"} }

// halOnlyProvider exposes the device only through HalDevice and HalQueue.
type halOnlyProvider struct{ testProvider }

func (p *halOnlyProvider) Device() gpucontext.Device { return nil }
func (p *halOnlyProvider) Queue() gpucontext.Queue   { return nil }
func (p *halOnlyProvider) HalDevice() any            { return p.device }
func (p *halOnlyProvider) HalQueue() any             { return p.queue }

func TestNewRendererFromProvider(t *testing.T) {
	device, queue := createNoopDevice(t)
	providers := map[string]gpucontext.DeviceProvider{
		"direct":   &testProvider{device: device, queue: queue},
		"hal-only": &halOnlyProvider{testProvider{device: device, queue: queue}},
	}
	for name, p := range providers {
		t.Run(name, func(t *testing.T) {
			eng, err := NewRendererFromProvider(p, DefaultConfig())
			if err != nil {
				t.Fatalf("NewRendererFromProvider() = %v", err)
			}
			defer eng.Close()
			if eng.r == nil || eng.r.format != gputypes.TextureFormatBGRA8Unorm {
				t.Errorf("renderer = %+v, want BGRA8Unorm fallback", eng.r)
			}
		})
	}

	if _, err := NewRendererFromProvider(&testProvider{}, DefaultConfig()); err == nil {
		t.Error("provider without HAL types accepted")
	}
	if _, err := NewRendererFromProvider(nil, DefaultConfig()); err == nil {
		t.Error("nil provider accepted")
	}
}

func TestSetLoggerReachesCompositor(t *testing.T) {
	buf := captureLogs(t)
	device, queue := createNoopDevice(t)
	eng := newTestEngine(t, threeWords())
	if err := eng.AttachGPU(device, queue, gputypes.TextureFormatBGRA8Unorm); err != nil {
		t.Fatalf("AttachGPU() = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "edge-fade compositor created") || !strings.Contains(out, "component=gpu") {
		t.Errorf("compositor did not log through karaoke.SetLogger:\n%s", out)
	}
}
