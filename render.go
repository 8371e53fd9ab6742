//go:build !nogpu

package karaoke

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/karaoke/internal/gpu"
	"github.com/gogpu/wgpu/hal"
)

// renderer owns the compositor of an Engine. The device and queue belong
// to the host.
type renderer struct {
	device     hal.Device
	queue      hal.Queue
	format     gputypes.TextureFormat
	compositor gpu.Compositor
}

func newRenderer(device hal.Device, queue hal.Queue, format gputypes.TextureFormat, cfg Config) (*renderer, error) {
	r := &renderer{device: device, queue: queue, format: format}
	if err := r.rebuild(cfg); err != nil {
		return nil, err
	}
	return r, nil
}

// rebuild replaces the compositor with one built for cfg. The old one is
// kept if the new one cannot be created.
func (r *renderer) rebuild(cfg Config) error {
	pc := gpu.DefaultPipelineConfig(r.format)
	pc.PyramidLevels = cfg.PyramidLevels
	pc.GlowLevelOffset = cfg.GlowLevelOffset
	pc.RingSize = cfg.RingSize
	pc.SPIRV = cfg.SPIRV

	c, err := gpu.NewCompositor(gpuStrategy(cfg.Strategy), r.device, r.queue, pc)
	if err != nil {
		return fmt.Errorf("karaoke: create %v compositor: %w", cfg.Strategy, err)
	}
	if r.compositor != nil {
		if err := r.device.WaitIdle(); err != nil {
			Logger().Warn("karaoke: wait idle before compositor swap", "err", err)
		}
		r.compositor.Destroy()
	}
	r.compositor = c
	return nil
}

func (r *renderer) destroy() {
	if r.compositor != nil {
		if err := r.device.WaitIdle(); err != nil {
			Logger().Warn("karaoke: wait idle on close", "err", err)
		}
		r.compositor.Destroy()
		r.compositor = nil
	}
}

func gpuStrategy(s Strategy) gpu.Strategy {
	if s == StrategyPyramid {
		return gpu.StrategyPyramid
	}
	return gpu.StrategyEdgeFade
}

func propagateLogger(l *slog.Logger) {
	gpu.SetLogger(l)
}

// AttachGPU creates the configured compositor on device for targets of
// format. Attaching again replaces the previous compositor.
func (e *Engine) AttachGPU(device hal.Device, queue hal.Queue, format gputypes.TextureFormat) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	r, err := newRenderer(device, queue, format, e.cfg)
	if err != nil {
		return err
	}
	if e.r != nil {
		e.r.destroy()
	}
	e.r = r
	Logger().Info("karaoke: GPU attached", "strategy", e.cfg.Strategy.String(), "format", format.String())
	return nil
}

// NewRendererFromProvider returns an Engine rendering on the device of
// provider, such as a gogpu application. Headless providers without a
// surface get BGRA8Unorm targets.
func NewRendererFromProvider(provider gpucontext.DeviceProvider, cfg Config, opts ...Option) (*Engine, error) {
	if provider == nil {
		return nil, fmt.Errorf("karaoke: nil device provider")
	}
	device, queue, err := halFromProvider(provider)
	if err != nil {
		return nil, err
	}
	format := provider.SurfaceFormat()
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}

	e, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := e.AttachGPU(device, queue, format); err != nil {
		e.Close()
		return nil, err
	}
	info := provider.AdapterInfo()
	Logger().Info("karaoke: using provider device", "adapter", info.Name, "type", info.Type.String())
	return e, nil
}

// halFromProvider extracts the HAL device and queue of provider, either
// directly or through HalDevice and HalQueue accessors.
func halFromProvider(provider gpucontext.DeviceProvider) (hal.Device, hal.Queue, error) {
	device, dok := provider.Device().(hal.Device)
	queue, qok := provider.Queue().(hal.Queue)
	if dok && qok && device != nil && queue != nil {
		return device, queue, nil
	}

	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, fmt.Errorf("karaoke: provider does not expose HAL types")
	}
	device, ok = hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("karaoke: provider HalDevice is not hal.Device")
	}
	queue, ok = hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("karaoke: provider HalQueue is not hal.Queue")
	}
	return device, queue, nil
}

// Render composites f onto target, sampling glyphs from atlas. The target
// is cleared first and must be f.Width() x f.Height().
func (e *Engine) Render(f *Frame, atlas, target hal.TextureView) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case e.closed:
		return ErrClosed
	case e.r == nil:
		return ErrNoRenderer
	case f == nil:
		return fmt.Errorf("karaoke: nil frame")
	}

	u := f.Uniforms
	stats, err := e.r.compositor.Render(f.Index, &gpu.FrameInput{
		Instances: f.Instances,
		Globals: gpu.Globals{
			ViewportWidth:  u.ViewportWidth,
			ViewportHeight: u.ViewportHeight,
			NowMs:          u.NowMs,
			FadeWidth:      u.FadeWidth,
			GlowColor:      u.GlowColor,
		},
		Atlas:  atlas,
		Target: target,
		Width:  f.Width(),
		Height: f.Height(),
	})
	if err != nil {
		return fmt.Errorf("karaoke: render frame %d: %w", f.Index, err)
	}
	Logger().Debug("karaoke: rendered", "frame", f.Index, "quads", stats.Quads, "passes", stats.Passes)
	return nil
}
