//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/karaoke/internal/filter"
)

// Strategy selects a compositing implementation.
type Strategy uint8

const (
	// StrategyEdgeFade draws glyphs in a single pass.
	StrategyEdgeFade Strategy = iota
	// StrategyPyramid blurs through a multi-pass mip pyramid.
	StrategyPyramid
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyEdgeFade:
		return "edge-fade"
	case StrategyPyramid:
		return "pyramid"
	default:
		return fmt.Sprintf("Strategy(%d)", s)
	}
}

// Errors returned by compositors.
var (
	// ErrInvalidConfig is returned when a PipelineConfig fails validation.
	ErrInvalidConfig = errors.New("gpu: invalid pipeline config")

	// ErrNilDevice is returned when a compositor is created without a device
	// or queue.
	ErrNilDevice = errors.New("gpu: nil device or queue")

	// ErrDestroyed is returned when rendering with a destroyed compositor.
	ErrDestroyed = errors.New("gpu: compositor destroyed")

	// ErrNoTarget is returned when Render is called without an atlas or
	// target view, or with a zero-sized target.
	ErrNoTarget = errors.New("gpu: missing atlas or target")
)

// Pyramid level limits.
const (
	DefaultPyramidLevels = filter.DefaultLevels
	MaxPyramidLevels     = 10
)

// PipelineConfig configures a compositor.
type PipelineConfig struct {
	// Format is the color format of the render target.
	Format gputypes.TextureFormat

	// PyramidLevels is the number of blurred levels above the base image.
	PyramidLevels int

	// GlowLevelOffset is how many levels wider emphasis glow samples.
	GlowLevelOffset int

	// SPIRV compiles WGSL to SPIR-V with naga before handing it to the
	// device, for backends without a WGSL front end.
	SPIRV bool

	// RingSize is the number of per-frame buffer slots.
	RingSize int

	// InitialQuadCapacity is the first vertex buffer capacity in quads.
	InitialQuadCapacity int

	// MinAlpha is the opacity below which fragments are discarded.
	MinAlpha float32
}

// DefaultPipelineConfig returns the default configuration for format.
func DefaultPipelineConfig(format gputypes.TextureFormat) PipelineConfig {
	return PipelineConfig{
		Format:              format,
		PyramidLevels:       DefaultPyramidLevels,
		GlowLevelOffset:     filter.GlowLevelOffset,
		RingSize:            3,
		InitialQuadCapacity: 256,
		MinAlpha:            1.0 / 255,
	}
}

// Validate reports the first invalid field.
func (c PipelineConfig) Validate() error {
	switch {
	case c.Format == gputypes.TextureFormatUndefined:
		return fmt.Errorf("%w: format undefined", ErrInvalidConfig)
	case c.PyramidLevels < 1 || c.PyramidLevels > MaxPyramidLevels:
		return fmt.Errorf("%w: pyramid levels %d, want 1..%d", ErrInvalidConfig, c.PyramidLevels, MaxPyramidLevels)
	case c.GlowLevelOffset < 0:
		return fmt.Errorf("%w: glow level offset %d", ErrInvalidConfig, c.GlowLevelOffset)
	case c.RingSize < 1:
		return fmt.Errorf("%w: ring size %d", ErrInvalidConfig, c.RingSize)
	case c.InitialQuadCapacity < 1:
		return fmt.Errorf("%w: initial quad capacity %d", ErrInvalidConfig, c.InitialQuadCapacity)
	case !(c.MinAlpha >= 0 && c.MinAlpha < 1):
		return fmt.Errorf("%w: min alpha %v", ErrInvalidConfig, c.MinAlpha)
	}
	return nil
}
