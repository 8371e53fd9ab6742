package karaoke

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/gogpu/karaoke/frame"
	"github.com/gogpu/karaoke/layout"
	"github.com/gogpu/karaoke/quad"
	"github.com/gogpu/karaoke/spring"
	"github.com/gogpu/karaoke/timing"
)

// Errors returned by Engine.
var (
	// ErrClosed is returned by operations on a closed Engine.
	ErrClosed = errors.New("karaoke: engine closed")

	// ErrNoRenderer is returned by Render before AttachGPU.
	ErrNoRenderer = errors.New("karaoke: no GPU renderer attached")

	// ErrNoGPU is returned by the GPU methods in builds tagged nogpu.
	ErrNoGPU = errors.New("karaoke: built without GPU support")
)

// Engine sequences the per-frame lyric pipeline: scroll targets drive the
// line springs, the springs and the clock drive the frame state, and the
// frame state becomes glyph instances for the compositor.
//
// Engine methods are safe for concurrent use; they serialize on one mutex.
// Advance and Render are meant to be called from the render loop.
type Engine struct {
	mu sync.Mutex

	cfg     Config
	doc     *timing.Document
	atlas   quad.Atlas
	metrics layout.Metrics

	resolver *layout.Resolver
	layout   *layout.DocumentLayout
	builder  *frame.Builder
	emitter  *quad.Emitter
	bank     *spring.Bank

	width, height, scale float64
	playing              bool

	// scroll is the position the springs were last retargeted for.
	scroll    frame.Scroll
	hasScroll bool
	seek      bool
	retarget  bool

	frames    uint64
	lastCount int

	r      *renderer
	closed bool
}

// New returns an Engine using cfg. The engine draws nothing until a
// document and a viewport are set.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		SetLogger(o.logger)
	}
	if o.metrics == nil {
		m, err := layout.GoFont()
		if err != nil {
			Logger().Warn("karaoke: Go font unavailable, using monospace metrics", "err", err)
			o.metrics = layout.Monospace(0.6)
		} else {
			o.metrics = m
		}
	}

	e := &Engine{
		cfg:      cfg,
		atlas:    o.atlas,
		metrics:  o.metrics,
		resolver: layout.NewResolver(o.metrics),
		builder:  frame.NewBuilder(cfg.Frame),
		emitter:  quad.NewEmitter(cfg.Quad, o.atlas),
		bank:     spring.NewBank(cfg.Springs),
		scale:    1,
		playing:  true,
	}
	return e, nil
}

// Config returns the configuration in use.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Document returns the current document, or nil.
func (e *Engine) Document() *timing.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

// SetDocument replaces the document. Layout is rebuilt and every line
// spring restarts at rest; the next frame snaps to its targets. A nil
// document clears the engine.
func (e *Engine) SetDocument(doc *timing.Document) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.doc = doc
	e.layout = nil
	e.hasScroll = false
	e.seek = true
	if doc == nil {
		e.bank.Reset(nil)
		Logger().Info("karaoke: document cleared")
		return
	}

	mains := doc.MainLines()
	background := make([]bool, len(mains))
	for k, i := range mains {
		background[k] = doc.Line(i).Flags.IsBackground()
	}
	e.bank.Reset(background)

	if n := doc.Repairs(); n > 0 {
		Logger().Warn("karaoke: repaired malformed timing", "values", n)
	}
	Logger().Info("karaoke: document set", "lines", doc.Len(), "main", len(mains))
}

// SetAtlas replaces the glyph atlas.
func (e *Engine) SetAtlas(a quad.Atlas) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.atlas = a
	e.emitter.SetAtlas(a)
}

// SetViewport sets the target size in logical pixels and the scale to
// physical pixels. Layout is rebuilt and lines animate to their new
// positions.
func (e *Engine) SetViewport(width, height, scale float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !(scale > 0) || math.IsInf(scale, 0) {
		scale = 1
	}
	width, height = finiteNonNegative(width), finiteNonNegative(height)
	if width == e.width && height == e.height && scale == e.scale {
		return
	}
	e.width, e.height, e.scale = width, height, scale
	e.layout = nil
	e.retarget = true
}

func finiteNonNegative(v float64) float64 {
	if !(v > 0) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// SetConfig replaces the configuration. Springs keep their state and take
// the new presets; layout is rebuilt if font sizing changed. A new
// compositing strategy takes effect on the attached renderer immediately.
func (e *Engine) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	old := e.cfg
	e.cfg = cfg
	e.builder.SetConfig(cfg.Frame)
	e.emitter.SetConfig(cfg.Quad)
	e.bank.SetPresets(cfg.Springs)
	if cfg.FontSize != old.FontSize {
		e.layout = nil
	}
	e.retarget = true

	if e.r != nil && rendererChanged(old, cfg) {
		if err := e.r.rebuild(cfg); err != nil {
			return err
		}
	}
	Logger().Info("karaoke: config updated", "strategy", cfg.Strategy.String())
	return nil
}

func rendererChanged(old, cfg Config) bool {
	return old.Strategy != cfg.Strategy || old.PyramidLevels != cfg.PyramidLevels ||
		old.GlowLevelOffset != cfg.GlowLevelOffset || old.RingSize != cfg.RingSize ||
		old.SPIRV != cfg.SPIRV
}

// SetPlaying records whether playback is running. Paused documents keep
// background lines in the scroll offset.
func (e *Engine) SetPlaying(playing bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playing = playing
}

// Seek snaps every line to its resting state at now, so the next frame
// shows no motion left over from the previous position.
func (e *Engine) Seek(now float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ensureLayout() {
		e.seek = true
		return
	}
	e.updateTargets(frame.ScrollAt(e.doc, now, e.playing), true)
}

// Advance moves the animation to now after dt of wall time and returns the
// frame to draw. It never fails: without a document or viewport the frame
// is empty.
func (e *Engine) Advance(now float64, dt time.Duration) *Frame {
	e.mu.Lock()
	defer e.mu.Unlock()

	f := &Frame{Index: e.frames, Now: now}
	e.frames++
	if e.doc == nil || !e.ensureLayout() {
		f.State = &frame.State{Now: now, Active: -1}
		return f
	}

	s := frame.ScrollAt(e.doc, now, e.playing)
	if e.seek || e.retarget || !e.hasScroll || !s.Equal(e.scroll) {
		e.updateTargets(s, e.seek || !e.hasScroll)
	}
	e.bank.Step(dt)

	motion := make([]frame.Motion, e.bank.Len())
	for k := range motion {
		l := e.bank.Line(k)
		motion[k] = frame.Motion{
			Y:       l.Y.Value(),
			Scale:   l.Scale.Value(),
			Blur:    l.Blur.Value(),
			Opacity: l.Opacity.Value(),
		}
	}
	f.State = e.builder.Build(frame.Input{
		Doc:     e.doc,
		Layout:  e.layout,
		Motion:  motion,
		Now:     now,
		Playing: e.playing,
	})
	f.Instances, f.Stats = e.emitter.Emit(make([]quad.GlyphInstance, 0, e.lastCount), f.State)
	e.lastCount = len(f.Instances)
	f.Uniforms = e.uniforms(now)

	if f.Stats.Placeholders > 0 {
		Logger().Warn("karaoke: atlas misses", "frame", f.Index, "glyphs", f.Stats.Placeholders)
	}
	Logger().Debug("karaoke: frame",
		"frame", f.Index, "now", now, "instances", len(f.Instances),
		"expanded", f.Stats.Expanded, "dots", f.Stats.Dots, "settled", e.bank.Settled())
	return f
}

// ensureLayout builds the document layout if needed and reports whether
// one is available.
func (e *Engine) ensureLayout() bool {
	if e.doc == nil || e.width <= 0 || e.height <= 0 {
		return false
	}
	if e.layout == nil {
		m := layout.NewLineMetrics(e.cfg.FontSize, e.width*e.scale, e.height*e.scale)
		e.layout = e.resolver.Resolve(e.doc, m)
		Logger().Debug("karaoke: layout resolved",
			"width", m.ViewportWidth, "height", m.ViewportHeight,
			"font", m.Sizes.Main, "glyphs", e.layout.GlyphCount())
	}
	return true
}

// updateTargets points the line springs at the targets of s. Seeking
// snaps them; otherwise position moves after the staggered delay.
func (e *Engine) updateTargets(s frame.Scroll, snap bool) {
	targets := frame.Targets(e.doc, e.layout, s, e.cfg.Frame, snap)
	for k := range min(len(targets), e.bank.Len()) {
		t, l := targets[k], e.bank.Line(k)
		if snap {
			l.Y.Snap(t.Y)
			l.Scale.Snap(t.Scale)
			l.Blur.Snap(t.Blur)
			l.Opacity.Snap(t.Opacity)
			continue
		}
		if t.Delay > 0 {
			l.Y.SetTargetAfter(t.Y, t.Delay)
		} else {
			l.Y.SetTarget(t.Y)
		}
		l.Scale.SetTarget(t.Scale)
		l.Blur.SetTarget(t.Blur)
		l.Opacity.SetTarget(t.Opacity)
	}
	e.scroll, e.hasScroll = s, true
	e.seek, e.retarget = false, false
}

func (e *Engine) uniforms(now float64) Uniforms {
	m := e.layout.Metrics
	c := e.cfg.GlowColor
	return Uniforms{
		ViewportWidth:  float32(m.ViewportWidth),
		ViewportHeight: float32(m.ViewportHeight),
		NowMs:          float32(now),
		FadeWidth:      float32(e.cfg.Frame.FadeWidth * m.Sizes.Main),
		GlowColor:      [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)},
	}
}

// Settled reports whether every line has come to rest.
func (e *Engine) Settled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bank.Settled()
}

// Close releases GPU resources. The engine cannot render afterwards; the
// device and queue stay owned by the caller.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	if e.r != nil {
		e.r.destroy()
		e.r = nil
	}
}
