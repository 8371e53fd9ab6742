// Package filter holds the blur math shared by the pyramid compositor and
// its shaders.
//
// It provides:
//   - normalized Gaussian kernels, cached per radius
//   - [DownsampleWeights], the weights the downsample pass uploads
//   - [LevelFor], the radius to fractional level mapping the composite
//     shader implements
package filter
