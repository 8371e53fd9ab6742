//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// EdgeFadeCompositor draws every glyph in a single pass with edge-faded
// canvas expansion (shaders/edge_fade.wgsl).
type EdgeFadeCompositor struct {
	device hal.Device
	queue  hal.Queue
	cfg    PipelineConfig

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	sampler    hal.Sampler
	pipeline   hal.RenderPipeline

	ring   *frameRing
	upload glyphUpload

	destroyed bool
}

var _ Compositor = (*EdgeFadeCompositor)(nil)

// NewEdgeFadeCompositor creates the pipeline and its buffer ring.
func NewEdgeFadeCompositor(device hal.Device, queue hal.Queue, cfg PipelineConfig) (*EdgeFadeCompositor, error) {
	if err := checkDevice(device, queue, cfg); err != nil {
		return nil, err
	}
	c := &EdgeFadeCompositor{
		device: device,
		queue:  queue,
		cfg:    cfg,
		ring:   newFrameRing(device, queue, "edge_fade", cfg.RingSize, cfg.InitialQuadCapacity),
	}
	if err := c.createPipeline(); err != nil {
		c.Destroy()
		return nil, err
	}
	slogger().Info("gpu: edge-fade compositor created", "format", cfg.Format.String(), "spirv", cfg.SPIRV)
	return c, nil
}

// Strategy returns StrategyEdgeFade.
func (c *EdgeFadeCompositor) Strategy() Strategy { return StrategyEdgeFade }

func (c *EdgeFadeCompositor) createPipeline() error {
	shader, err := createShader(c.device, "edge_fade", edgeFadeShaderSource, c.cfg.SPIRV)
	if err != nil {
		return err
	}
	c.shader = shader

	// Binding 0: Globals (uniform, vertex+fragment)
	// Binding 1: glyph atlas (texture_2d)
	// Binding 2: sampler
	bindLayout, err := c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "edge_fade_bind_layout",
		Entries: atlasBindLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("create edge_fade bind layout: %w", err)
	}
	c.bindLayout = bindLayout

	pipeLayout, err := c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "edge_fade_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{c.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create edge_fade pipeline layout: %w", err)
	}
	c.pipeLayout = pipeLayout

	sampler, err := linearClampSampler(c.device, "edge_fade_sampler")
	if err != nil {
		return fmt.Errorf("create edge_fade sampler: %w", err)
	}
	c.sampler = sampler

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := c.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "edge_fade_pipeline",
		Layout: c.pipeLayout,
		Vertex: hal.VertexState{
			Module:     c.shader,
			EntryPoint: "vs_main",
			Buffers:    glyphVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     c.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    c.cfg.Format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create edge_fade pipeline: %w", err)
	}
	c.pipeline = pipeline
	return nil
}

// atlasBindLayoutEntries is the layout of the glyph passes: globals, atlas
// texture and sampler.
func atlasBindLayoutEntries() []gputypes.BindGroupLayoutEntry {
	return []gputypes.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
		{
			Binding:    1,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		},
		{
			Binding:    2,
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		},
	}
}

// atlasBindGroup binds the slot's globals, the atlas and sampler.
func atlasBindGroup(device hal.Device, label string, layout hal.BindGroupLayout, slot *ringSlot, atlas hal.TextureView, sampler hal.Sampler) (hal.BindGroup, error) {
	return device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label,
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: slot.uniform.NativeHandle(), Size: globalsSize}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: atlas.NativeHandle()}},
			{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: sampler.NativeHandle()}},
		},
	})
}

// Render draws in.Instances onto in.Target in one render pass.
func (c *EdgeFadeCompositor) Render(frame uint64, in *FrameInput) (RenderStats, error) {
	if c.destroyed {
		return RenderStats{}, ErrDestroyed
	}
	if err := checkInput(in); err != nil {
		return RenderStats{}, err
	}

	globals := in.Globals
	globals.MinAlpha = c.cfg.MinAlpha
	slot, err := c.upload.upload(c.ring, frame, in, &globals)
	if err != nil {
		return RenderStats{}, err
	}
	group, err := atlasBindGroup(c.device, "edge_fade_bind", c.bindLayout, slot, in.Atlas, c.sampler)
	if err != nil {
		return RenderStats{}, fmt.Errorf("create edge_fade bind group: %w", err)
	}
	c.ring.track(slot, group)

	enc, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "edge_fade_encoder"})
	if err != nil {
		return RenderStats{}, fmt.Errorf("create command encoder: %w", err)
	}
	if err := enc.BeginEncoding("edge_fade"); err != nil {
		return RenderStats{}, fmt.Errorf("begin encoding: %w", err)
	}
	rp := enc.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "edge_fade_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       in.Target,
			LoadOp:     loadOp(in.Load),
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	})
	drawGlyphs(rp, c.pipeline, group, slot, len(in.Instances))
	rp.End()

	idx, err := submit(c.ring, slot, enc)
	if err != nil {
		return RenderStats{}, err
	}
	slogger().Debug("gpu: edge-fade frame", "frame", frame, "quads", len(in.Instances), "submission", idx)
	return RenderStats{Quads: len(in.Instances), Passes: 1, Submission: idx}, nil
}

// Destroy releases all GPU resources in reverse creation order.
func (c *EdgeFadeCompositor) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	if c.ring != nil {
		c.ring.destroy()
	}
	if c.pipeline != nil {
		c.device.DestroyRenderPipeline(c.pipeline)
		c.pipeline = nil
	}
	if c.sampler != nil {
		c.device.DestroySampler(c.sampler)
		c.sampler = nil
	}
	if c.pipeLayout != nil {
		c.device.DestroyPipelineLayout(c.pipeLayout)
		c.pipeLayout = nil
	}
	if c.bindLayout != nil {
		c.device.DestroyBindGroupLayout(c.bindLayout)
		c.bindLayout = nil
	}
	if c.shader != nil {
		c.device.DestroyShaderModule(c.shader)
		c.shader = nil
	}
}
