package gpu

import (
	"github.com/quillgfx/quill"
	"github.com/quillgfx/quill/scene"
)

// PointPipeline draws uniformly colored point clouds. Each point expands
// into a size-by-size quad carrying its center and size, which the
// fragment shader uses to discard corners and render round points.
type PointPipeline struct {
	buffers *FrameBuffers
}

// NewPointPipeline creates the pipeline with its own triple-buffered
// geometry storage.
func NewPointPipeline(backend Backend, maxBufferSize int) *PointPipeline {
	return &PointPipeline{buffers: NewFrameBuffers(backend, maxBufferSize)}
}

// NextFrame rotates the pipeline's buffer slot. Call once per frame.
func (p *PointPipeline) NextFrame() { p.buffers.NextFrame() }

// Buffers exposes the underlying frame buffers, mainly for inspection.
func (p *PointPipeline) Buffers() *FrameBuffers { return p.buffers }

// Release destroys all GPU buffers.
func (p *PointPipeline) Release() { p.buffers.Release() }

// writePointQuad packs one point as four PointVertex corners and six
// rebased indices.
func writePointQuad(vw, iw *byteWriter, center quill.Point, size float32, color quill.Color, base uint32) {
	half := size / 2
	corners := [4]quill.Point{
		{X: center.X - half, Y: center.Y - half},
		{X: center.X + half, Y: center.Y - half},
		{X: center.X - half, Y: center.Y + half},
		{X: center.X + half, Y: center.Y + half},
	}
	for _, pos := range corners {
		vw.point(pos)
		vw.point(center)
		vw.f32(size)
		vw.f32(0)
		vw.color(color)
	}
	iw.u32(base)
	iw.u32(base + 2)
	iw.u32(base + 1)
	iw.u32(base + 1)
	iw.u32(base + 2)
	iw.u32(base + 3)
}

// UploadAndDraw expands the records into point quads, uploads them, and
// records draw calls with consecutive same-clip records coalesced.
func (p *PointPipeline) UploadAndDraw(pass RenderPass, vp Viewport, records []scene.PointCloud) error {
	type item struct {
		rec        *scene.PointCloud
		indexCount uint32
	}

	items := make([]item, 0, len(records))
	totalPoints := 0
	for i := range records {
		rec := &records[i]
		if len(rec.Points) == 0 || rec.Size <= 0 {
			continue
		}
		items = append(items, item{rec: rec, indexCount: uint32(6 * len(rec.Points))})
		totalPoints += len(rec.Points)
	}
	if totalPoints == 0 {
		return nil
	}

	base := uint32(p.buffers.VertexCursor() / PointVertexSize)
	firstIndex := uint32(p.buffers.IndexCursor() / 4)

	vw := newByteWriter(totalPoints * 4 * PointVertexSize)
	iw := newByteWriter(totalPoints * 6 * 4)
	for _, it := range items {
		rec := it.rec
		for _, pt := range rec.Points {
			writePointQuad(vw, iw, pt, rec.Size, rec.Color, base)
			base += 4
		}
	}

	if _, _, err := p.buffers.Append(vw.buf, iw.buf); err != nil {
		return err
	}

	pass.SetPipeline(PipelinePoint)
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

// ColoredPointPipeline draws per-point colored point clouds. It shares the
// point pipeline's vertex layout and shader; only the color packing
// differs.
type ColoredPointPipeline struct {
	buffers *FrameBuffers
}

// NewColoredPointPipeline creates the pipeline with its own
// triple-buffered geometry storage.
func NewColoredPointPipeline(backend Backend, maxBufferSize int) *ColoredPointPipeline {
	return &ColoredPointPipeline{buffers: NewFrameBuffers(backend, maxBufferSize)}
}

// NextFrame rotates the pipeline's buffer slot. Call once per frame.
func (p *ColoredPointPipeline) NextFrame() { p.buffers.NextFrame() }

// Buffers exposes the underlying frame buffers, mainly for inspection.
func (p *ColoredPointPipeline) Buffers() *FrameBuffers { return p.buffers }

// Release destroys all GPU buffers.
func (p *ColoredPointPipeline) Release() { p.buffers.Release() }

// UploadAndDraw expands the records into point quads with per-point
// colors. A record with fewer colors than points draws only the colored
// prefix.
func (p *ColoredPointPipeline) UploadAndDraw(pass RenderPass, vp Viewport, records []scene.ColoredPointCloud) error {
	type item struct {
		rec        *scene.ColoredPointCloud
		count      int
		indexCount uint32
	}

	items := make([]item, 0, len(records))
	totalPoints := 0
	for i := range records {
		rec := &records[i]
		n := min(len(rec.Points), len(rec.Colors))
		if n == 0 || rec.Size <= 0 {
			continue
		}
		if n < len(rec.Points) {
			quill.Logger().Warn("colored point cloud has fewer colors than points",
				"points", len(rec.Points), "colors", len(rec.Colors))
		}
		items = append(items, item{rec: rec, count: n, indexCount: uint32(6 * n)})
		totalPoints += n
	}
	if totalPoints == 0 {
		return nil
	}

	base := uint32(p.buffers.VertexCursor() / PointVertexSize)
	firstIndex := uint32(p.buffers.IndexCursor() / 4)

	vw := newByteWriter(totalPoints * 4 * PointVertexSize)
	iw := newByteWriter(totalPoints * 6 * 4)
	for _, it := range items {
		rec := it.rec
		for i := 0; i < it.count; i++ {
			writePointQuad(vw, iw, rec.Points[i], rec.Size, rec.Colors[i], base)
			base += 4
		}
	}

	if _, _, err := p.buffers.Append(vw.buf, iw.buf); err != nil {
		return err
	}

	pass.SetPipeline(PipelinePoint)
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
