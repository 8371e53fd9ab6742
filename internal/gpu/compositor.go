//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/karaoke/quad"
	"github.com/gogpu/wgpu/hal"
)

// FrameInput is everything a compositor needs to draw one frame.
type FrameInput struct {
	Instances []quad.GlyphInstance
	Globals   Globals

	// Atlas is the distance-field glyph atlas.
	Atlas hal.TextureView

	// Target is the caller's color target of Width x Height pixels in the
	// configured format.
	Target        hal.TextureView
	Width, Height uint32

	// Load keeps the target's contents instead of clearing it.
	Load bool
}

// RenderStats describes one Render call.
type RenderStats struct {
	Quads      int
	Passes     int
	Submission uint64
}

// Compositor draws glyph instances onto a target.
//
// A Compositor is not safe for concurrent use.
type Compositor interface {
	// Strategy reports which implementation this is.
	Strategy() Strategy

	// Render uploads in through the buffer ring slot of frame, encodes
	// every pass and submits them.
	Render(frame uint64, in *FrameInput) (RenderStats, error)

	// Destroy releases every GPU resource. The caller must make sure the
	// device is idle.
	Destroy()
}

// NewCompositor creates the compositor selected by s.
func NewCompositor(s Strategy, device hal.Device, queue hal.Queue, cfg PipelineConfig) (Compositor, error) {
	switch s {
	case StrategyEdgeFade:
		return NewEdgeFadeCompositor(device, queue, cfg)
	case StrategyPyramid:
		return NewPyramidCompositor(device, queue, cfg)
	default:
		return nil, fmt.Errorf("%w: unknown strategy %v", ErrInvalidConfig, s)
	}
}

func checkDevice(device hal.Device, queue hal.Queue, cfg PipelineConfig) error {
	if device == nil || queue == nil {
		return ErrNilDevice
	}
	return cfg.Validate()
}

func checkInput(in *FrameInput) error {
	if in == nil || in.Atlas == nil || in.Target == nil || in.Width == 0 || in.Height == 0 {
		return ErrNoTarget
	}
	return nil
}

// glyphUpload is the scratch space for serializing instances.
type glyphUpload struct {
	vertices []byte
	indices  []byte
}

// upload writes the instances and globals of in into the ring slot of
// frame and returns the slot.
func (u *glyphUpload) upload(ring *frameRing, frame uint64, in *FrameInput, globals *Globals) (*ringSlot, error) {
	u.vertices = WriteVertices(u.vertices[:0], in.Instances)
	u.indices = WriteQuadIndices(u.indices[:0], len(in.Instances))

	slot, err := ring.acquire(frame, uint64(len(u.vertices)), uint64(len(u.indices)))
	if err != nil {
		return nil, err
	}
	if len(u.vertices) > 0 {
		if err := ring.queue.WriteBuffer(slot.vertex, 0, u.vertices); err != nil {
			return nil, fmt.Errorf("write vertices: %w", err)
		}
		if err := ring.queue.WriteBuffer(slot.index, 0, u.indices); err != nil {
			return nil, fmt.Errorf("write indices: %w", err)
		}
	}
	if err := ring.queue.WriteBuffer(slot.uniform, 0, globals.bytes()); err != nil {
		return nil, fmt.Errorf("write globals: %w", err)
	}
	return slot, nil
}

// drawGlyphs records the indexed draw of n quads from slot.
func drawGlyphs(rp hal.RenderPassEncoder, pipeline hal.RenderPipeline, group hal.BindGroup, slot *ringSlot, n int) {
	if n == 0 {
		return
	}
	rp.SetPipeline(pipeline)
	rp.SetBindGroup(0, group, nil)
	rp.SetVertexBuffer(0, slot.vertex, 0)
	rp.SetIndexBuffer(slot.index, gputypes.IndexFormatUint32, 0)
	rp.DrawIndexed(uint32(n*IndicesPerQuad), 1, 0, 0, 0)
}

// submit ends enc, submits it and ties the command buffer to slot.
func submit(ring *frameRing, slot *ringSlot, enc hal.CommandEncoder) (uint64, error) {
	cb, err := enc.EndEncoding()
	if err != nil {
		return 0, fmt.Errorf("end encoding: %w", err)
	}
	idx, err := ring.queue.Submit([]hal.CommandBuffer{cb})
	if err != nil {
		ring.device.FreeCommandBuffer(cb)
		return 0, fmt.Errorf("submit: %w", err)
	}
	ring.trackCommands(slot, cb)
	ring.commit(slot, idx)
	return idx, nil
}

func loadOp(load bool) gputypes.LoadOp {
	if load {
		return gputypes.LoadOpLoad
	}
	return gputypes.LoadOpClear
}

// linearClampSampler creates the sampler every pass uses.
func linearClampSampler(device hal.Device, label string) (hal.Sampler, error) {
	return device.CreateSampler(&hal.SamplerDescriptor{
		Label:        label,
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
		LodMaxClamp:  32,
	})
}
