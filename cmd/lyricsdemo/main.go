// Command lyricsdemo drives the karaoke engine on a headless device and
// prints a summary of the frames it produces.
//
// Usage:
//
//	lyricsdemo [-lyrics song.yaml] [-config engine.yaml] [-watch] [flags]
//
// Without -lyrics a built-in sample song is played. With -watch the demo
// runs in real time, loops the song and reloads -config when it changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/font/basicfont"

	"github.com/gogpu/karaoke"
	"github.com/gogpu/karaoke/layout"
	"github.com/gogpu/karaoke/quad"
	"github.com/gogpu/karaoke/timing"
)

type options struct {
	lyrics, config, dumpConfig string
	strategy                   string

	width, height, scale float64
	fps                  float64
	from, to             float64
	every                int

	watch, basicFont, verbose bool
}

func main() {
	var o options
	flag.StringVar(&o.lyrics, "lyrics", "", "YAML lyrics file (default: built-in sample)")
	flag.StringVar(&o.config, "config", "", "YAML engine config")
	flag.StringVar(&o.dumpConfig, "dump-config", "", "write the default config to this file and exit")
	flag.StringVar(&o.strategy, "strategy", "", "compositing strategy: edge-fade or pyramid")
	flag.Float64Var(&o.width, "width", 1280, "viewport width")
	flag.Float64Var(&o.height, "height", 720, "viewport height")
	flag.Float64Var(&o.scale, "scale", 1, "device pixel ratio")
	flag.Float64Var(&o.fps, "fps", 60, "frames per second")
	flag.Float64Var(&o.from, "from", 0, "start time in ms")
	flag.Float64Var(&o.to, "to", 0, "end time in ms (default: end of song)")
	flag.IntVar(&o.every, "every", 30, "print every n-th frame")
	flag.BoolVar(&o.watch, "watch", false, "run in real time and reload -config on change")
	flag.BoolVar(&o.basicFont, "basicfont", false, "wrap with the 7x13 bitmap font instead of Go regular")
	flag.BoolVar(&o.verbose, "v", false, "debug logging")
	flag.Parse()

	if o.dumpConfig != "" {
		if err := writeConfig(o.dumpConfig, karaoke.DefaultConfig()); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		log.Printf("Default config written to %s", o.dumpConfig)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, o, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, o options, w io.Writer) error {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	karaoke.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := karaoke.DefaultConfig()
	if o.config != "" {
		var err error
		if cfg, err = readConfig(o.config); err != nil {
			return err
		}
	}
	if o.strategy != "" {
		if err := cfg.Strategy.UnmarshalText([]byte(o.strategy)); err != nil {
			return err
		}
	}

	doc := sampleDocument()
	if o.lyrics != "" {
		var err error
		if doc, err = readLyrics(o.lyrics); err != nil {
			return err
		}
	}

	var metrics layout.Metrics
	if o.basicFont {
		metrics = layout.NewFaceMetrics(basicfont.Face7x13)
	} else {
		m, err := layout.GoFont()
		if err != nil {
			return fmt.Errorf("load Go font: %w", err)
		}
		metrics = m
	}
	atlas := quad.GridAtlas(doc, 64, cfg.SDFRange, 32, metrics.Advance)

	eng, err := karaoke.New(cfg, karaoke.WithAtlas(atlas), karaoke.WithMetrics(metrics))
	if err != nil {
		return err
	}
	defer eng.Close()
	eng.SetDocument(doc)
	eng.SetViewport(o.width, o.height, o.scale)

	dev, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.close()
	if err := eng.AttachGPU(dev.device, dev.queue, gputypes.TextureFormatBGRA8Unorm); err != nil {
		return err
	}
	pw, ph := uint32(o.width*o.scale), uint32(o.height*o.scale)
	atlasView, err := dev.view("atlas", 2048, 2048, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		return err
	}
	target, err := dev.view("target", pw, ph, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		return err
	}

	reload := make(chan karaoke.Config, 1)
	if o.watch && o.config != "" {
		if err := watchConfig(ctx, o.config, reload); err != nil {
			return fmt.Errorf("watch %s: %w", o.config, err)
		}
	}

	end := o.to
	if end <= 0 {
		end = songEnd(doc) + 1000
	}
	fps := o.fps
	if !(fps > 0) {
		fps = 60
	}
	dt := time.Duration(float64(time.Second) / fps)
	step := 1000 / fps

	var ticker *time.Ticker
	if o.watch {
		ticker = time.NewTicker(dt)
		defer ticker.Stop()
	}

	eng.Seek(o.from)
	var total stats
	for n, now := 0, o.from; ; n++ {
		if now >= end {
			if !o.watch {
				break
			}
			now = o.from
			eng.Seek(now)
		}
		select {
		case <-ctx.Done():
			return total.print(w)
		case c := <-reload:
			if err := eng.SetConfig(c); err != nil {
				slog.Warn("lyricsdemo: config rejected", "err", err)
			} else {
				fmt.Fprintf(w, "config reloaded: strategy %v\n", c.Strategy)
			}
		default:
		}

		f := eng.Advance(now, dt)
		if err := eng.Render(f, atlasView, target); err != nil {
			return err
		}
		total.add(f)
		if o.every > 0 && n%o.every == 0 {
			printFrame(w, doc, f)
		}

		now += step
		if ticker != nil {
			select {
			case <-ctx.Done():
				return total.print(w)
			case <-ticker.C:
			}
		}
	}
	return total.print(w)
}

func songEnd(doc *timing.Document) float64 {
	end := 0.0
	for _, l := range doc.All() {
		end = max(end, l.EndMs)
	}
	return end
}

func printFrame(w io.Writer, doc *timing.Document, f *karaoke.Frame) {
	text := ""
	if a := f.State.Active; a >= 0 {
		text = doc.Line(a).Text()
	}
	fmt.Fprintf(w, "%8.0fms frame %5d active %2d instances %3d expanded %3d dots %d  %q\n",
		f.Now, f.Index, f.State.Active, len(f.Instances), f.Stats.Expanded, f.Stats.Dots, text)
}

// stats accumulates totals over a run.
type stats struct {
	frames, instances, expanded, placeholders int
}

func (s *stats) add(f *karaoke.Frame) {
	s.frames++
	s.instances += len(f.Instances)
	s.expanded += f.Stats.Expanded
	s.placeholders += f.Stats.Placeholders
}

func (s *stats) print(w io.Writer) error {
	avg := 0.0
	if s.frames > 0 {
		avg = float64(s.instances) / float64(s.frames)
	}
	_, err := fmt.Fprintf(w, "%d frames, %.1f instances/frame, %d expanded, %d placeholders\n",
		s.frames, avg, s.expanded, s.placeholders)
	return err
}
