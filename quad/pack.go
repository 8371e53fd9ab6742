package quad

import (
	"math"

	"github.com/gogpu/karaoke/frame"
)

// PackColor packs c into RGBA8 with red in the low byte, the layout WGSL's
// unpack4x8unorm reads.
func PackColor(c frame.Color) uint32 {
	return uint32(unorm8(c.R)) |
		uint32(unorm8(c.G))<<8 |
		uint32(unorm8(c.B))<<16 |
		uint32(unorm8(c.A))<<24
}

// UnpackColor reverses PackColor.
func UnpackColor(v uint32) frame.Color {
	return frame.Color{
		R: float64(v&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v>>16&0xff) / 255,
		A: float64(v>>24) / 255,
	}
}

func unorm8(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// Pack16 packs an index and a count into one word: index in the low 16
// bits, count in the high 16 bits. Both saturate at 0xffff.
func Pack16(index, count int) uint32 {
	return uint32(sat16(index)) | uint32(sat16(count))<<16
}

// Unpack16 reverses Pack16.
func Unpack16(v uint32) (index, count int) {
	return int(v & 0xffff), int(v >> 16)
}

func sat16(v int) uint16 {
	switch {
	case v < 0:
		return 0
	case v > math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(v)
}
