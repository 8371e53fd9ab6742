package filter

import "math"

// A float RGBA model of the blur pyramid the compositor builds on the GPU.
// The tests in this package exercise the kernels through it.

// Image is a float RGBA image with premultiplied alpha, row-major.
type Image struct {
	Width, Height int
	Pix           []float32
}

// NewImage returns a transparent image.
func NewImage(w, h int) *Image {
	w, h = max(w, 0), max(h, 0)
	return &Image{Width: w, Height: h, Pix: make([]float32, w*h*4)}
}

// At returns the pixel at (x, y), clamping coordinates to the edge.
func (m *Image) At(x, y int) [4]float32 {
	if m.Width == 0 || m.Height == 0 {
		return [4]float32{}
	}
	x = min(max(x, 0), m.Width-1)
	y = min(max(y, 0), m.Height-1)
	i := (y*m.Width + x) * 4
	return [4]float32{m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3]}
}

// Set stores p at (x, y). Out-of-range writes are ignored.
func (m *Image) Set(x, y int, p [4]float32) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	i := (y*m.Width + x) * 4
	copy(m.Pix[i:i+4], p[:])
}

// Sample bilinearly samples the image at normalized coordinates (u, v) with
// clamp-to-edge addressing, matching a linear GPU sampler.
func (m *Image) Sample(u, v float64) [4]float32 {
	fx := u*float64(m.Width) - 0.5
	fy := v*float64(m.Height) - 0.5
	x0, y0 := int(math.Floor(fx)), int(math.Floor(fy))
	tx, ty := float32(fx-float64(x0)), float32(fy-float64(y0))
	a, b := m.At(x0, y0), m.At(x0+1, y0)
	c, d := m.At(x0, y0+1), m.At(x0+1, y0+1)
	var out [4]float32
	for i := range out {
		top := a[i] + (b[i]-a[i])*tx
		bot := c[i] + (d[i]-c[i])*tx
		out[i] = top + (bot-top)*ty
	}
	return out
}

// Sum returns the sum of each channel over the image.
func (m *Image) Sum() [4]float64 {
	var s [4]float64
	for i, v := range m.Pix {
		s[i%4] += float64(v)
	}
	return s
}

// Blur returns src convolved with a separable Gaussian of standard
// deviation sigma. Edges are clamped.
func Blur(src *Image, sigma float64) *Image {
	if !(sigma > 0) {
		out := NewImage(src.Width, src.Height)
		copy(out.Pix, src.Pix)
		return out
	}
	k := CachedGaussianKernel(sigma)
	tmp := convolve(src, k, 1, 0)
	return convolve(tmp, k, 0, 1)
}

// convolve applies kernel k along direction (dx, dy).
func convolve(src *Image, k []float32, dx, dy int) *Image {
	out := NewImage(src.Width, src.Height)
	half := KernelCenter(len(k))
	for y := range src.Height {
		for x := range src.Width {
			var acc [4]float32
			for i, w := range k {
				o := i - half
				p := src.At(x+o*dx, y+o*dy)
				for c := range acc {
					acc[c] += p[c] * w
				}
			}
			out.Set(x, y, acc)
		}
	}
	return out
}

// Downsample blurs src with DownsampleSigma and halves each dimension by
// averaging 2x2 blocks. Odd sizes round up.
func Downsample(src *Image) *Image {
	b := Blur(src, DownsampleSigma)
	out := NewImage((src.Width+1)/2, (src.Height+1)/2)
	for y := range out.Height {
		for x := range out.Width {
			var acc [4]float32
			for _, p := range [4][4]float32{
				b.At(2*x, 2*y), b.At(2*x+1, 2*y),
				b.At(2*x, 2*y+1), b.At(2*x+1, 2*y+1),
			} {
				for c := range acc {
					acc[c] += p[c] / 4
				}
			}
			out.Set(x, y, acc)
		}
	}
	return out
}

// Pyramid holds the base image (level 0) followed by progressively
// blurred half-resolution copies. Level L approximates a blur radius of
// 2^L-1 pixels of the base image.
type Pyramid struct {
	Levels []*Image
}

// BuildPyramid builds base plus n downsampled levels.
func BuildPyramid(base *Image, n int) *Pyramid {
	p := &Pyramid{Levels: []*Image{base}}
	for range max(n, 0) {
		prev := p.Levels[len(p.Levels)-1]
		if prev.Width <= 1 && prev.Height <= 1 {
			break
		}
		p.Levels = append(p.Levels, Downsample(prev))
	}
	return p
}

// Sample returns the pyramid color at normalized (u, v) for a blur radius,
// lerping the two bracketing levels.
func (p *Pyramid) Sample(u, v, radius float64) [4]float32 {
	lo, hi, t := LevelFor(radius, len(p.Levels)-1)
	a := p.Levels[lo].Sample(u, v)
	if hi == lo {
		return a
	}
	b := p.Levels[hi].Sample(u, v)
	var out [4]float32
	for i := range out {
		out[i] = a[i] + (b[i]-a[i])*float32(t)
	}
	return out
}
