package karaoke

import (
	"log/slog"

	"github.com/gogpu/karaoke/layout"
	"github.com/gogpu/karaoke/quad"
)

// Option configures an Engine during creation.
//
// Example:
//
//	eng, err := karaoke.New(cfg,
//	    karaoke.WithAtlas(atlas),
//	    karaoke.WithMetrics(layout.Monospace(0.6)),
//	)
type Option func(*engineOptions)

type engineOptions struct {
	atlas   quad.Atlas
	metrics layout.Metrics
	logger  *slog.Logger
}

// WithAtlas sets the glyph atlas instances are looked up in. Without an
// atlas every glyph is emitted as a transparent placeholder.
func WithAtlas(a quad.Atlas) Option {
	return func(o *engineOptions) {
		o.atlas = a
	}
}

// WithMetrics sets the advance metrics used for line wrapping. The default
// is the Go regular font, or a monospace estimate if it cannot be parsed.
func WithMetrics(m layout.Metrics) Option {
	return func(o *engineOptions) {
		o.metrics = m
	}
}

// WithLogger installs l as the package logger; see SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = l
	}
}
