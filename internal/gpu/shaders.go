//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/edge_fade.wgsl
var edgeFadeShaderSource string

//go:embed shaders/glyph_mrt.wgsl
var glyphMRTShaderSource string

//go:embed shaders/blur_down.wgsl
var blurDownShaderSource string

//go:embed shaders/composite.wgsl
var compositeShaderSource string

// ShaderSources returns the WGSL source of every shader keyed by label.
func ShaderSources() map[string]string {
	return map[string]string{
		"edge_fade": edgeFadeShaderSource,
		"glyph_mrt": glyphMRTShaderSource,
		"blur_down": blurDownShaderSource,
		"composite": compositeShaderSource,
	}
}

// CompileSPIRV compiles WGSL source to SPIR-V words.
func CompileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d not a multiple of 4", len(spirvBytes))
	}
	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return code, nil
}

// createShader creates a shader module from WGSL, compiling to SPIR-V
// first when spirv is set.
func createShader(device hal.Device, label, wgsl string, spirv bool) (hal.ShaderModule, error) {
	if wgsl == "" {
		return nil, fmt.Errorf("%s shader source is empty", label)
	}
	src := hal.ShaderSource{WGSL: wgsl}
	if spirv {
		code, err := CompileSPIRV(wgsl)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		src = hal.ShaderSource{SPIRV: code}
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label + "_shader",
		Source: src,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s shader: %w", label, err)
	}
	return module, nil
}
