package native

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/quillgfx/quill"
	"github.com/quillgfx/quill/gpu"
)

// Pass implements gpu.RenderPass over a HAL render pass encoder. The
// encoder is owned by the caller; Pass only records into it. Failures
// while staging uniforms drop the affected draw with a warning instead of
// aborting the pass.
type Pass struct {
	adapter  *Adapter
	pipes    *Pipelines
	uniforms *uniformRing
	rp       hal.RenderPassEncoder

	// uniformsBound gates draws until a uniform block is staged.
	uniformsBound bool
}

// SetPipeline binds the render pipeline for the given kind.
func (p *Pass) SetPipeline(kind gpu.PipelineKind) {
	pipeline := p.pipes.pipeline(kind)
	if pipeline == nil {
		quill.Logger().Warn("unknown pipeline kind", "kind", kind)
		return
	}
	p.rp.SetPipeline(pipeline)
}

// SetVertexBuffer binds a vertex buffer at the given slot and byte offset.
func (p *Pass) SetVertexBuffer(slot int, id gpu.BufferID, offset int) {
	buffer, ok := p.adapter.halBuffer(id)
	if !ok {
		quill.Logger().Warn("vertex buffer not found", "id", id)
		return
	}
	p.rp.SetVertexBuffer(uint32(slot), buffer, uint64(offset))
}

// SetIndexBuffer binds an index buffer with the given element format.
func (p *Pass) SetIndexBuffer(id gpu.BufferID, format gpu.IndexFormat, offset int) {
	buffer, ok := p.adapter.halBuffer(id)
	if !ok {
		quill.Logger().Warn("index buffer not found", "id", id)
		return
	}
	halFormat := gputypes.IndexFormatUint32
	if format == gpu.IndexFormatUint16 {
		halFormat = gputypes.IndexFormatUint16
	}
	p.rp.SetIndexBuffer(buffer, halFormat, uint64(offset))
}

// SetUniformBytes stages the uniform block in the frame's uniform ring and
// binds it at group 0.
func (p *Pass) SetUniformBytes(data []byte) {
	bindGroup, err := p.uniforms.push(data)
	if err != nil {
		quill.Logger().Warn("staging draw uniforms failed, dropping draw", "err", err)
		p.uniformsBound = false
		return
	}
	p.rp.SetBindGroup(0, bindGroup, nil)
	p.uniformsBound = true
}

// DrawIndexed issues an indexed draw. Draws without staged uniforms are
// dropped; they would render with a stale bind group.
func (p *Pass) DrawIndexed(indexCount, firstIndex uint32) {
	if !p.uniformsBound {
		return
	}
	p.rp.DrawIndexed(indexCount, 1, firstIndex, 0, 0)
}
