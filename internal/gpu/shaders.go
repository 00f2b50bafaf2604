package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed shaders/disk.wgsl
var diskShaderSource string

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// compileDiskShader compiles the disk shader from WGSL to SPIR-V words.
func compileDiskShader() ([]uint32, error) {
	if diskShaderSource == "" {
		return nil, fmt.Errorf("disk shader source is empty")
	}
	spirvBytes, err := naga.Compile(diskShaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile disk shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile disk shader: SPIR-V size %d is not a multiple of 4", len(spirvBytes))
	}

	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	if len(code) == 0 || code[0] != spirvMagic {
		return nil, fmt.Errorf("compile disk shader: output is not SPIR-V")
	}
	return code, nil
}
