package main

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// device is a headless noop device. It records every command without
// touching a GPU, so the demo runs anywhere.
type device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	textures []hal.Texture
	views    []hal.TextureView
}

func openDevice() (*device, error) {
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, errors.New("no adapters")
	}
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open adapter: %w", err)
	}
	return &device{instance: instance, device: open.Device, queue: open.Queue}, nil
}

func (d *device) view(label string, w, h uint32, format gputypes.TextureFormat) (hal.TextureView, error) {
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: max(w, 1), Height: max(h, 1), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s texture: %w", label, err)
	}
	d.textures = append(d.textures, tex)
	v, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s view: %w", label, err)
	}
	d.views = append(d.views, v)
	return v, nil
}

func (d *device) close() {
	for i := len(d.views) - 1; i >= 0; i-- {
		d.device.DestroyTextureView(d.views[i])
	}
	for i := len(d.textures) - 1; i >= 0; i-- {
		d.device.DestroyTexture(d.textures[i])
	}
	d.device.Destroy()
	d.instance.Destroy()
}
