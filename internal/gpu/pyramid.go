//go:build !nogpu

package gpu

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// pyramidFormat is the format of the pyramid and blur-info targets.
const pyramidFormat = gputypes.TextureFormatRGBA16Float

// PyramidCompositor blurs glyphs through a mip pyramid.
//
// The base pass draws sharp glyphs into mip 0 of the pyramid texture and
// their blur radius, glow and emphasis into the info texture. Each
// following pass renders mip L from mip L-1 with a Gaussian gather. The
// composite pass reads the info texture per pixel and samples the pyramid
// at the fractional level log2(1+radius).
type PyramidCompositor struct {
	device hal.Device
	queue  hal.Queue
	cfg    PipelineConfig

	order []Pass

	sampler hal.Sampler

	glyphShader, downShader, compShader       hal.ShaderModule
	glyphLayout, downLayout, compLayout       hal.BindGroupLayout
	glyphPipeLayout, downPipeLayout           hal.PipelineLayout
	compPipeLayout                            hal.PipelineLayout
	glyphPipeline, downPipeline, compPipeline hal.RenderPipeline

	targets *pyramidTargets

	ring   *frameRing
	upload glyphUpload

	destroyed bool
}

var _ Compositor = (*PyramidCompositor)(nil)

// pyramidTargets are the size-dependent textures of the compositor.
type pyramidTargets struct {
	width, height uint32
	levels        int

	pyramid    hal.Texture
	full       hal.TextureView
	levelViews []hal.TextureView

	info     hal.Texture
	infoView hal.TextureView

	levelUniforms []hal.Buffer
	downGroups    []hal.BindGroup
}

// NewPyramidCompositor creates the three pipelines and validates the pass
// graph. Targets are created on the first Render.
func NewPyramidCompositor(device hal.Device, queue hal.Queue, cfg PipelineConfig) (*PyramidCompositor, error) {
	if err := checkDevice(device, queue, cfg); err != nil {
		return nil, err
	}
	order, err := PyramidGraph(cfg.PyramidLevels).Order()
	if err != nil {
		return nil, err
	}
	c := &PyramidCompositor{
		device: device,
		queue:  queue,
		cfg:    cfg,
		order:  order,
		ring:   newFrameRing(device, queue, "pyramid", cfg.RingSize, cfg.InitialQuadCapacity),
	}
	if err := c.createPipelines(); err != nil {
		c.Destroy()
		return nil, err
	}
	slogger().Info("gpu: pyramid compositor created",
		"format", cfg.Format.String(), "levels", cfg.PyramidLevels, "passes", len(order))
	return c, nil
}

// Strategy returns StrategyPyramid.
func (c *PyramidCompositor) Strategy() Strategy { return StrategyPyramid }

// Levels returns the number of blurred levels of the current targets, which
// small targets may cap below the configured count.
func (c *PyramidCompositor) Levels() int {
	if c.targets == nil {
		return 0
	}
	return c.targets.levels
}

func (c *PyramidCompositor) createPipelines() error {
	var err error
	if c.sampler, err = linearClampSampler(c.device, "pyramid_sampler"); err != nil {
		return fmt.Errorf("create pyramid sampler: %w", err)
	}

	if c.glyphShader, err = createShader(c.device, "glyph_mrt", glyphMRTShaderSource, c.cfg.SPIRV); err != nil {
		return err
	}
	if c.downShader, err = createShader(c.device, "blur_down", blurDownShaderSource, c.cfg.SPIRV); err != nil {
		return err
	}
	if c.compShader, err = createShader(c.device, "composite", compositeShaderSource, c.cfg.SPIRV); err != nil {
		return err
	}

	if c.glyphLayout, c.glyphPipeLayout, err = c.layouts("glyph_mrt", atlasBindLayoutEntries()); err != nil {
		return err
	}
	if c.downLayout, c.downPipeLayout, err = c.layouts("blur_down", atlasBindLayoutEntries()); err != nil {
		return err
	}
	// Binding 0: Globals, 1: pyramid (all mips), 2: blur info, 3: sampler
	compEntries := []gputypes.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: gputypes.ShaderStageFragment,
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
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeUnfilterableFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		},
		{
			Binding:    3,
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		},
	}
	if c.compLayout, c.compPipeLayout, err = c.layouts("composite", compEntries); err != nil {
		return err
	}

	premul := gputypes.BlendStatePremultiplied()
	maxBlend := gputypes.BlendState{
		Color: gputypes.BlendComponent{SrcFactor: gputypes.BlendFactorOne, DstFactor: gputypes.BlendFactorOne, Operation: gputypes.BlendOperationMax},
		Alpha: gputypes.BlendComponent{SrcFactor: gputypes.BlendFactorOne, DstFactor: gputypes.BlendFactorOne, Operation: gputypes.BlendOperationMax},
	}

	if c.glyphPipeline, err = c.pipeline("glyph_mrt", c.glyphShader, c.glyphPipeLayout, glyphVertexLayout(),
		[]gputypes.ColorTargetState{
			{Format: pyramidFormat, Blend: &premul, WriteMask: gputypes.ColorWriteMaskAll},
			{Format: pyramidFormat, Blend: &maxBlend, WriteMask: gputypes.ColorWriteMaskAll},
		}); err != nil {
		return err
	}
	if c.downPipeline, err = c.pipeline("blur_down", c.downShader, c.downPipeLayout, nil,
		[]gputypes.ColorTargetState{
			{Format: pyramidFormat, WriteMask: gputypes.ColorWriteMaskAll},
		}); err != nil {
		return err
	}
	if c.compPipeline, err = c.pipeline("composite", c.compShader, c.compPipeLayout, nil,
		[]gputypes.ColorTargetState{
			{Format: c.cfg.Format, Blend: &premul, WriteMask: gputypes.ColorWriteMaskAll},
		}); err != nil {
		return err
	}
	return nil
}

func (c *PyramidCompositor) layouts(label string, entries []gputypes.BindGroupLayoutEntry) (hal.BindGroupLayout, hal.PipelineLayout, error) {
	bl, err := c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   label + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create %s bind layout: %w", label, err)
	}
	pl, err := c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bl},
	})
	if err != nil {
		c.device.DestroyBindGroupLayout(bl)
		return nil, nil, fmt.Errorf("create %s pipeline layout: %w", label, err)
	}
	return bl, pl, nil
}

func (c *PyramidCompositor) pipeline(label string, shader hal.ShaderModule, layout hal.PipelineLayout,
	buffers []gputypes.VertexBufferLayout, targets []gputypes.ColorTargetState,
) (hal.RenderPipeline, error) {
	p, err := c.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label + "_pipeline",
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets:    targets,
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
		return nil, fmt.Errorf("create %s pipeline: %w", label, err)
	}
	return p, nil
}

// pyramidLevelsFor caps levels so the smallest mip is at least 1x1.
func pyramidLevelsFor(width, height uint32, levels int) int {
	longest := max(width, height, 1)
	return min(levels, bits.Len32(longest)-1)
}

// ensureTargets (re)creates the size-dependent textures for width x height.
func (c *PyramidCompositor) ensureTargets(width, height uint32) error {
	if t := c.targets; t != nil && t.width == width && t.height == height {
		return nil
	}
	// Old targets were read by submissions that may still be in flight.
	if c.targets != nil {
		if err := c.device.WaitIdle(); err != nil {
			return fmt.Errorf("wait idle before resize: %w", err)
		}
		c.destroyTargets()
	}

	t := &pyramidTargets{width: width, height: height, levels: pyramidLevelsFor(width, height, c.cfg.PyramidLevels)}
	c.targets = t
	mips := uint32(t.levels + 1)

	var err error
	t.pyramid, err = c.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "pyramid",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: mips,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        pyramidFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("create pyramid texture: %w", err)
	}
	if t.full, err = c.device.CreateTextureView(t.pyramid, &hal.TextureViewDescriptor{
		Label:         "pyramid_full",
		Format:        pyramidFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: mips,
	}); err != nil {
		return fmt.Errorf("create pyramid view: %w", err)
	}
	for l := range mips {
		v, err := c.device.CreateTextureView(t.pyramid, &hal.TextureViewDescriptor{
			Label:         "pyramid_" + strconv.Itoa(int(l)),
			Format:        pyramidFormat,
			Dimension:     gputypes.TextureViewDimension2D,
			Aspect:        gputypes.TextureAspectAll,
			BaseMipLevel:  l,
			MipLevelCount: 1,
		})
		if err != nil {
			return fmt.Errorf("create pyramid level %d view: %w", l, err)
		}
		t.levelViews = append(t.levelViews, v)
	}

	t.info, err = c.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "blur_info",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        pyramidFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("create blur info texture: %w", err)
	}
	if t.infoView, err = c.device.CreateTextureView(t.info, &hal.TextureViewDescriptor{
		Label:         "blur_info_view",
		Format:        pyramidFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	}); err != nil {
		return fmt.Errorf("create blur info view: %w", err)
	}

	// One uniform and bind group per blurred level, reading the level below.
	for l := 1; l <= t.levels; l++ {
		srcW, srcH := max(width>>(l-1), 1), max(height>>(l-1), 1)
		buf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "blur_level_" + strconv.Itoa(l),
			Size:  levelSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create level %d uniform: %w", l, err)
		}
		t.levelUniforms = append(t.levelUniforms, buf)
		if err := c.queue.WriteBuffer(buf, 0, levelUniform(srcW, srcH)); err != nil {
			return fmt.Errorf("write level %d uniform: %w", l, err)
		}
		g, err := c.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  "blur_down_bind_" + strconv.Itoa(l),
			Layout: c.downLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Size: levelSize}},
				{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: t.levelViews[l-1].NativeHandle()}},
				{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: c.sampler.NativeHandle()}},
			},
		})
		if err != nil {
			return fmt.Errorf("create level %d bind group: %w", l, err)
		}
		t.downGroups = append(t.downGroups, g)
	}
	slogger().Debug("gpu: pyramid targets", "width", width, "height", height, "levels", t.levels)
	return nil
}

// Render draws in.Instances through the pyramid onto in.Target.
func (c *PyramidCompositor) Render(frame uint64, in *FrameInput) (RenderStats, error) {
	if c.destroyed {
		return RenderStats{}, ErrDestroyed
	}
	if err := checkInput(in); err != nil {
		return RenderStats{}, err
	}
	if err := c.ensureTargets(in.Width, in.Height); err != nil {
		return RenderStats{}, err
	}
	t := c.targets

	globals := in.Globals
	globals.Levels = float32(t.levels)
	globals.GlowLevelOffset = float32(c.cfg.GlowLevelOffset)
	globals.MinAlpha = c.cfg.MinAlpha
	slot, err := c.upload.upload(c.ring, frame, in, &globals)
	if err != nil {
		return RenderStats{}, err
	}

	glyphGroup, err := atlasBindGroup(c.device, "glyph_mrt_bind", c.glyphLayout, slot, in.Atlas, c.sampler)
	if err != nil {
		return RenderStats{}, fmt.Errorf("create glyph_mrt bind group: %w", err)
	}
	c.ring.track(slot, glyphGroup)
	compGroup, err := c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "composite_bind",
		Layout: c.compLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: slot.uniform.NativeHandle(), Size: globalsSize}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: t.full.NativeHandle()}},
			{Binding: 2, Resource: gputypes.TextureViewBinding{TextureView: t.infoView.NativeHandle()}},
			{Binding: 3, Resource: gputypes.SamplerBinding{Sampler: c.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		return RenderStats{}, fmt.Errorf("create composite bind group: %w", err)
	}
	c.ring.track(slot, compGroup)

	enc, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "pyramid_encoder"})
	if err != nil {
		return RenderStats{}, fmt.Errorf("create command encoder: %w", err)
	}
	if err := enc.BeginEncoding("pyramid"); err != nil {
		return RenderStats{}, fmt.Errorf("begin encoding: %w", err)
	}

	passes := 0
	for _, p := range c.order {
		switch {
		case p.Name == "base":
			c.encodeBase(enc, glyphGroup, slot, len(in.Instances))
		case strings.HasPrefix(p.Name, "down/"):
			l, _ := strconv.Atoi(strings.TrimPrefix(p.Name, "down/"))
			if l > t.levels {
				continue
			}
			c.encodeDown(enc, l)
		case p.Name == "composite":
			c.encodeComposite(enc, compGroup, in)
		default:
			enc.DiscardEncoding()
			return RenderStats{}, fmt.Errorf("gpu: no encoder for pass %q", p.Name)
		}
		passes++
	}

	idx, err := submit(c.ring, slot, enc)
	if err != nil {
		return RenderStats{}, err
	}
	slogger().Debug("gpu: pyramid frame", "frame", frame, "quads", len(in.Instances), "passes", passes, "submission", idx)
	return RenderStats{Quads: len(in.Instances), Passes: passes, Submission: idx}, nil
}

func (c *PyramidCompositor) encodeBase(enc hal.CommandEncoder, group hal.BindGroup, slot *ringSlot, n int) {
	transparent := gputypes.Color{R: 0, G: 0, B: 0, A: 0}
	rp := enc.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "pyramid_base",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{View: c.targets.levelViews[0], LoadOp: gputypes.LoadOpClear, StoreOp: gputypes.StoreOpStore, ClearValue: transparent},
			{View: c.targets.infoView, LoadOp: gputypes.LoadOpClear, StoreOp: gputypes.StoreOpStore, ClearValue: transparent},
		},
	})
	drawGlyphs(rp, c.glyphPipeline, group, slot, n)
	rp.End()
}

func (c *PyramidCompositor) encodeDown(enc hal.CommandEncoder, level int) {
	rp := enc.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "pyramid_down_" + strconv.Itoa(level),
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    c.targets.levelViews[level],
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
		}},
	})
	rp.SetPipeline(c.downPipeline)
	rp.SetBindGroup(0, c.targets.downGroups[level-1], nil)
	rp.Draw(3, 1, 0, 0)
	rp.End()
}

func (c *PyramidCompositor) encodeComposite(enc hal.CommandEncoder, group hal.BindGroup, in *FrameInput) {
	rp := enc.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "pyramid_composite",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       in.Target,
			LoadOp:     loadOp(in.Load),
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	})
	rp.SetPipeline(c.compPipeline)
	rp.SetBindGroup(0, group, nil)
	rp.Draw(3, 1, 0, 0)
	rp.End()
}

func (c *PyramidCompositor) destroyTargets() {
	t := c.targets
	if t == nil {
		return
	}
	for _, g := range t.downGroups {
		c.device.DestroyBindGroup(g)
	}
	for _, b := range t.levelUniforms {
		c.device.DestroyBuffer(b)
	}
	if t.infoView != nil {
		c.device.DestroyTextureView(t.infoView)
	}
	if t.info != nil {
		c.device.DestroyTexture(t.info)
	}
	for _, v := range t.levelViews {
		c.device.DestroyTextureView(v)
	}
	if t.full != nil {
		c.device.DestroyTextureView(t.full)
	}
	if t.pyramid != nil {
		c.device.DestroyTexture(t.pyramid)
	}
	c.targets = nil
}

// Destroy releases all GPU resources in reverse creation order.
func (c *PyramidCompositor) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	if c.ring != nil {
		c.ring.destroy()
	}
	c.destroyTargets()
	for _, p := range []hal.RenderPipeline{c.compPipeline, c.downPipeline, c.glyphPipeline} {
		if p != nil {
			c.device.DestroyRenderPipeline(p)
		}
	}
	for _, l := range []hal.PipelineLayout{c.compPipeLayout, c.downPipeLayout, c.glyphPipeLayout} {
		if l != nil {
			c.device.DestroyPipelineLayout(l)
		}
	}
	for _, l := range []hal.BindGroupLayout{c.compLayout, c.downLayout, c.glyphLayout} {
		if l != nil {
			c.device.DestroyBindGroupLayout(l)
		}
	}
	for _, s := range []hal.ShaderModule{c.compShader, c.downShader, c.glyphShader} {
		if s != nil {
			c.device.DestroyShaderModule(s)
		}
	}
	if c.sampler != nil {
		c.device.DestroySampler(c.sampler)
	}
	c.compPipeline, c.downPipeline, c.glyphPipeline = nil, nil, nil
	c.compPipeLayout, c.downPipeLayout, c.glyphPipeLayout = nil, nil, nil
	c.compLayout, c.downLayout, c.glyphLayout = nil, nil, nil
	c.compShader, c.downShader, c.glyphShader = nil, nil, nil
	c.sampler = nil
}
