package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/quillgfx/quill/gpu"
)

// Config controls renderer creation. The zero value targets a
// single-sampled BGRA8 surface.
type Config struct {
	// Format is the render target texture format.
	// Defaults to BGRA8Unorm.
	Format gputypes.TextureFormat

	// SampleCount is the MSAA sample count. Defaults to 1.
	SampleCount uint32
}

// Renderer owns the native backend's GPU-side state: the buffer adapter,
// the three render pipelines, and the per-frame uniform ring. One renderer
// serves one render target format.
type Renderer struct {
	adapter  *Adapter
	pipes    *Pipelines
	uniforms *uniformRing
}

// NewRenderer builds pipelines for the device and target format.
func NewRenderer(device hal.Device, queue hal.Queue, cfg Config) (*Renderer, error) {
	var zeroFormat gputypes.TextureFormat
	if cfg.Format == zeroFormat {
		cfg.Format = gputypes.TextureFormatBGRA8Unorm
	}
	if cfg.SampleCount == 0 {
		cfg.SampleCount = 1
	}

	pipes, err := NewPipelines(device, cfg.Format, cfg.SampleCount)
	if err != nil {
		return nil, fmt.Errorf("native: %w", err)
	}
	return &Renderer{
		adapter:  NewAdapter(device, queue),
		pipes:    pipes,
		uniforms: newUniformRing(device, queue, pipes.uniformLayout),
	}, nil
}

// Backend returns the buffer interface the gpu pipelines allocate through.
func (r *Renderer) Backend() gpu.Backend { return r.adapter }

// NextFrame advances the uniform ring to the next frame slot, recycling
// the slot's previous bind groups. Call once per frame together with the
// pipelines' NextFrame.
func (r *Renderer) NextFrame() { r.uniforms.nextFrame() }

// BeginPass wraps a HAL render pass encoder for draw recording. The
// encoder's lifecycle (begin, end, submit) stays with the caller.
func (r *Renderer) BeginPass(rp hal.RenderPassEncoder) *Pass {
	return &Pass{
		adapter:  r.adapter,
		pipes:    r.pipes,
		uniforms: r.uniforms,
		rp:       rp,
	}
}

// Release destroys the pipelines and the uniform ring. Buffers created
// through the adapter are owned by their creators and stay alive.
func (r *Renderer) Release() {
	r.uniforms.destroy()
	r.pipes.Destroy()
}
