package gpu

import (
	"github.com/quillgfx/quill"
	"github.com/quillgfx/quill/scene"
)

// PolylinePipeline draws connected line strips. Each segment expands
// CPU-side into a screen-space quad of the strip's width; joins are left
// to segment overlap, which is adequate for data plots and debug overlays
// where polylines dominate. Strips needing exact joins go through the
// path pipeline as stroked meshes instead.
type PolylinePipeline struct {
	buffers *FrameBuffers
}

// NewPolylinePipeline creates the pipeline with its own triple-buffered
// geometry storage.
func NewPolylinePipeline(backend Backend, maxBufferSize int) *PolylinePipeline {
	return &PolylinePipeline{buffers: NewFrameBuffers(backend, maxBufferSize)}
}

// NextFrame rotates the pipeline's buffer slot. Call once per frame.
func (p *PolylinePipeline) NextFrame() { p.buffers.NextFrame() }

// Buffers exposes the underlying frame buffers, mainly for inspection.
func (p *PolylinePipeline) Buffers() *FrameBuffers { return p.buffers }

// Release destroys all GPU buffers.
func (p *PolylinePipeline) Release() { p.buffers.Release() }

// UploadAndDraw expands the records into segment quads, uploads them, and
// records draw calls with consecutive same-clip records coalesced.
func (p *PolylinePipeline) UploadAndDraw(pass RenderPass, vp Viewport, records []scene.Polyline) error {
	type item struct {
		rec        *scene.Polyline
		indexCount uint32
	}

	items := make([]item, 0, len(records))
	totalSegs := 0
	for i := range records {
		rec := &records[i]
		if len(rec.Points) < 2 || rec.Width <= 0 {
			continue
		}
		segs := len(rec.Points) - 1
		items = append(items, item{rec: rec, indexCount: uint32(6 * segs)})
		totalSegs += segs
	}
	if totalSegs == 0 {
		return nil
	}

	baseVertex := uint32(p.buffers.VertexCursor() / LineVertexSize)
	firstIndex := uint32(p.buffers.IndexCursor() / 4)

	vw := newByteWriter(totalSegs * 4 * LineVertexSize)
	iw := newByteWriter(totalSegs * 6 * 4)
	packedVerts := baseVertex
	for _, it := range items {
		rec := it.rec
		half := rec.Width / 2
		for s := 0; s+1 < len(rec.Points); s++ {
			a := rec.Points[s]
			b := rec.Points[s+1]
			n := b.Sub(a).Perp().Normalize().Mul(half)

			for _, pos := range [4]quill.Point{a.Add(n), a.Sub(n), b.Add(n), b.Sub(n)} {
				vw.point(pos)
				vw.color(rec.Color)
			}
			iw.u32(packedVerts)
			iw.u32(packedVerts + 2)
			iw.u32(packedVerts + 1)
			iw.u32(packedVerts + 1)
			iw.u32(packedVerts + 2)
			iw.u32(packedVerts + 3)
			packedVerts += 4
		}
	}

	if _, _, err := p.buffers.Append(vw.buf, iw.buf); err != nil {
		return err
	}

	pass.SetPipeline(PipelinePolyline)
	pass.SetVertexBuffer(0, p.buffers.VertexBuffer(), 0)
	pass.SetIndexBuffer(p.buffers.IndexBuffer(), IndexFormatUint32, 0)

	for i := 0; i < len(items); {
		clip := items[i].rec.Clip
		count := items[i].indexCount
		j := i + 1
		for j < len(items) && items[j].rec.Clip == clip {
			count += items[j].indexCount
			j++
		}
		pass.SetUniformBytes(uniformBytes(vp, clip, quill.LinearGradient{}))
		pass.DrawIndexed(count, firstIndex)
		firstIndex += count
		i = j
	}
	return nil
}
