package native

import (
	"fmt"

	"github.com/gogpu/naga"

	"github.com/quillgfx/quill"
)

// compileToSPIRV compiles WGSL source to SPIR-V words. Vulkan consumes
// SPIR-V natively, so shaders are compiled ahead of time instead of
// handing WGSL to the driver.
func compileToSPIRV(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("compile wgsl: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("spirv output length %d not word aligned", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// shaderSource builds the HAL shader source for a WGSL string, preferring
// precompiled SPIR-V and falling back to driver-side WGSL when the
// compiler rejects the source.
func shaderSource(label, source string) (spirv []uint32, wgsl string) {
	words, err := compileToSPIRV(source)
	if err != nil {
		quill.Logger().Warn("spirv precompile failed, passing wgsl through", "shader", label, "err", err)
		return nil, source
	}
	return words, ""
}
