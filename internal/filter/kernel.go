package filter

import (
	"math"

	"github.com/gogpu/karaoke/internal/cache"
)

// GaussianKernel generates a 1D Gaussian kernel with standard deviation
// sigma. The kernel has 2*ceil(3*sigma)+1 taps and sums to 1.
//
// For sigma <= 0, returns the identity kernel [1].
func GaussianKernel(sigma float64) []float32 {
	if !(sigma > 0) {
		return []float32{1.0}
	}

	half := int(math.Ceil(sigma * 3))
	kernel := make([]float32, half*2+1)

	twoSigmaSq := 2 * sigma * sigma
	sum := 0.0
	vals := make([]float64, len(kernel))
	for i := range vals {
		x := float64(i - half)
		vals[i] = math.Exp(-(x * x) / twoSigmaSq)
		sum += vals[i]
	}
	for i, v := range vals {
		kernel[i] = float32(v / sum)
	}
	return kernel
}

// kernels caches Gaussian kernels keyed by sigma in hundredths.
var kernels = cache.New[int, []float32](64)

// CachedGaussianKernel returns a shared Gaussian kernel for sigma, quantized
// to 0.01. The returned slice must not be modified.
func CachedGaussianKernel(sigma float64) []float32 {
	key := int(math.Round(sigma * 100))
	return kernels.GetOrCreate(key, func() []float32 {
		return GaussianKernel(float64(key) / 100)
	})
}

// KernelCacheStats reports the kernel cache statistics.
func KernelCacheStats() cache.Stats { return kernels.Stats() }

// OptimalKernelSize returns the number of taps of GaussianKernel(sigma).
func OptimalKernelSize(sigma float64) int {
	if !(sigma > 0) {
		return 1
	}
	return int(math.Ceil(sigma*3))*2 + 1
}

// KernelCenter returns the center index of a kernel of the given size.
func KernelCenter(kernelSize int) int {
	return kernelSize / 2
}

// DownsampleSigma is the blur applied before each 2x reduction of the
// pyramid.
const DownsampleSigma = 1.0

// DownsampleWeights returns the center and the first three side taps of the
// pre-downsample kernel, the four weights the downsample shader reads.
func DownsampleWeights() [4]float32 {
	k := CachedGaussianKernel(DownsampleSigma)
	c := KernelCenter(len(k))
	var w [4]float32
	for i := range w {
		if c+i < len(k) {
			w[i] = k[c+i]
		}
	}
	return w
}
