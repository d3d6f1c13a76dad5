package gpu

import (
	"github.com/quillgfx/quill"
	"github.com/quillgfx/quill/mesh"
	"github.com/quillgfx/quill/scene"
)

// MeshPipeline draws tessellated path instances. All meshes of one upload
// pack into a shared vertex/index buffer region with CPU-side index
// rebasing, then draw in record order with consecutive same-clip solid
// instances coalesced into single draw calls.
type MeshPipeline struct {
	buffers *FrameBuffers
}

// NewMeshPipeline creates the pipeline with its own triple-buffered
// geometry storage.
func NewMeshPipeline(backend Backend, maxBufferSize int) *MeshPipeline {
	return &MeshPipeline{buffers: NewFrameBuffers(backend, maxBufferSize)}
}

// NextFrame rotates the pipeline's buffer slot. Call once per frame.
func (p *MeshPipeline) NextFrame() { p.buffers.NextFrame() }

// Buffers exposes the underlying frame buffers, mainly for inspection.
func (p *MeshPipeline) Buffers() *FrameBuffers { return p.buffers }

// Release destroys all GPU buffers.
func (p *MeshPipeline) Release() { p.buffers.Release() }

// UploadAndDraw packs the records' meshes into the current frame slot and
// records their draw calls. May be called multiple times per frame; each
// call appends after the previous one.
//
// A record whose mesh ref does not resolve is skipped with a warning; the
// rest of the batch still draws.
func (p *MeshPipeline) UploadAndDraw(pass RenderPass, vp Viewport, records []scene.Path, meshes MeshSource) error {
	type item struct {
		rec        *scene.Path
		mesh       *mesh.Mesh
		indexCount uint32
	}

	items := make([]item, 0, len(records))
	totalVerts, totalIndices := 0, 0
	for i := range records {
		m, err := meshes.Get(records[i].Mesh)
		if err != nil {
			quill.Logger().Warn("skipping path with unresolvable mesh ref", "err", err)
			continue
		}
		if m.IsEmpty() {
			continue
		}
		items = append(items, item{rec: &records[i], mesh: m, indexCount: uint32(len(m.Indices))})
		totalVerts += len(m.Vertices)
		totalIndices += len(m.Indices)
	}
	if totalIndices == 0 {
		return nil
	}

	// Rebase indices against the slot's current vertex position so the
	// whole frame shares one vertex buffer binding at offset zero.
	baseVertex := uint32(p.buffers.VertexCursor() / MeshVertexSize)
	firstIndex := uint32(p.buffers.IndexCursor() / 4)

	vw := newByteWriter(totalVerts * MeshVertexSize)
	iw := newByteWriter(totalIndices * 4)
	packedVerts := uint32(0)
	for _, it := range items {
		rec := it.rec
		// Gradient fills sample the gradient in the shader; their vertex
		// color stays white so the uniform colors pass through.
		tint := rec.Color
		if !rec.Gradient.IsZero() {
			tint = quill.Color{R: 1, G: 1, B: 1, A: 1}
		}
		for _, v := range it.mesh.Vertices {
			vw.point(v.Pos.Add(rec.Offset))
			vw.point(v.UV)
			vw.color(tint)
		}
		base := baseVertex + packedVerts
		for _, idx := range it.mesh.Indices {
			iw.u32(base + idx)
		}
		packedVerts += uint32(len(it.mesh.Vertices))
	}

	if _, _, err := p.buffers.Append(vw.buf, iw.buf); err != nil {
		return err
	}

	pass.SetPipeline(PipelineMesh)
	pass.SetVertexBuffer(0, p.buffers.VertexBuffer(), 0)
	pass.SetIndexBuffer(p.buffers.IndexBuffer(), IndexFormatUint32, 0)

	// Group consecutive solid instances sharing identical clip bounds into
	// one draw. Grouping never reorders; gradient instances draw alone
	// because their gradient lives in the uniforms.
	for i := 0; i < len(items); {
		rec := items[i].rec
		count := items[i].indexCount
		j := i + 1
		if rec.Gradient.IsZero() {
			for j < len(items) && items[j].rec.Gradient.IsZero() && items[j].rec.Clip == rec.Clip {
				count += items[j].indexCount
				j++
			}
		}
		pass.SetUniformBytes(uniformBytes(vp, rec.Clip, rec.Gradient))
		pass.DrawIndexed(count, firstIndex)
		firstIndex += count
		i = j
	}
	return nil
}
