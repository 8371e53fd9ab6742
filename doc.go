// Package karaoke renders time-synchronized lyrics on the GPU.
//
// # Overview
//
// An [Engine] turns a parsed timing document and a playback clock into a
// frame of glyph instances, then composites them onto a host-owned render
// target. Highlight, emphasis and line motion are recomputed every frame
// from the playback position, so seeking backward reproduces the same
// image as playing forward to the same time.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/karaoke"
//		"github.com/gogpu/karaoke/timing"
//	)
//
//	eng, err := karaoke.New(karaoke.DefaultConfig(), karaoke.WithAtlas(atlas))
//	if err != nil {
//		return err
//	}
//	defer eng.Close()
//
//	eng.SetDocument(timing.NewDocument(lines))
//	eng.SetViewport(1280, 720, 1)
//	if err := eng.AttachGPU(device, queue, gputypes.TextureFormatBGRA8Unorm); err != nil {
//		return err
//	}
//
//	// Per frame:
//	f := eng.Advance(playbackMs, dt)
//	if err := eng.Render(f, atlasView, targetView); err != nil {
//		return err
//	}
//
// # Pipeline
//
// Each frame flows through the sub-packages in order:
//
//   - [timing]: the immutable document of lines, words and characters
//   - [layout]: greedy wrapping into visual lines, rebuilt on viewport or
//     document change
//   - [spring]: per-line position, scale, blur and opacity animation
//   - [frame]: the pure per-frame animation state
//   - [quad]: glyph instances with blur-driven canvas expansion
//
// The GPU side lives in an internal package and offers two compositing
// strategies selected by [Config.Strategy]: a single edge-fade pass that
// samples the distance field directly, and a blur pyramid followed by a
// composite pass.
//
// # Build Tags
//
// Building with -tags nogpu drops the GPU compositors. The CPU frame path
// keeps working and the GPU methods return [ErrNoGPU].
//
// # Logging
//
// The engine is silent by default. See [SetLogger].
package karaoke
