//go:build nogpu

package karaoke

import (
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

type renderer struct{}

func (*renderer) rebuild(Config) error { return ErrNoGPU }
func (*renderer) destroy()             {}

func propagateLogger(*slog.Logger) {}

// AttachGPU returns ErrNoGPU in builds tagged nogpu.
func (e *Engine) AttachGPU(hal.Device, hal.Queue, gputypes.TextureFormat) error {
	return ErrNoGPU
}

// NewRendererFromProvider returns ErrNoGPU in builds tagged nogpu.
func NewRendererFromProvider(gpucontext.DeviceProvider, Config, ...Option) (*Engine, error) {
	return nil, ErrNoGPU
}

// Render returns ErrNoGPU in builds tagged nogpu.
func (e *Engine) Render(*Frame, hal.TextureView, hal.TextureView) error {
	return ErrNoGPU
}
