package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/quillgfx/quill"
)

// GPU-mirroring structs. Layouts must match the shader structs exactly,
// including padding, so sizes and offsets are asserted at init.

// MeshVertex is the vertex layout of the mesh pipeline. Color is baked per
// vertex so differently colored solid meshes can share one draw call.
type MeshVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [4]float32
}

// LineVertex is the vertex layout of the polyline pipeline.
type LineVertex struct {
	Pos   [2]float32
	Color [4]float32
}

// PointVertex is the vertex layout of the point pipeline. Each point is a
// quad of four vertices; Center and Size let the fragment shader round the
// corners off into a circle.
type PointVertex struct {
	Pos    [2]float32
	Center [2]float32
	Size   float32
	Pad    float32
	Color  [4]float32
}

// DrawUniforms is the per-draw uniform block shared by all pipelines.
// Position mapping is pos*ViewportScale + ViewportOffset; ClipBounds is
// min x/y, max x/y in pixels; the gradient fields are ignored when
// UseGradient is zero.
type DrawUniforms struct {
	ViewportScale  [2]float32
	ViewportOffset [2]float32
	ClipBounds     [4]float32
	GradientFrom   [2]float32
	GradientTo     [2]float32
	FromColor      [4]float32
	ToColor        [4]float32
	UseGradient    uint32
	Pad            [3]uint32
}

const (
	MeshVertexSize   = 32
	LineVertexSize   = 24
	PointVertexSize  = 40
	DrawUniformsSize = 96
)

func init() {
	assertSize := func(name string, got, want uintptr) {
		if got != want {
			panic(fmt.Sprintf("gpu: %s is %d bytes, shader expects %d", name, got, want))
		}
	}
	assertOffset := func(name string, got, want uintptr) {
		if got != want {
			panic(fmt.Sprintf("gpu: %s is at offset %d, shader expects %d", name, got, want))
		}
	}
	assertSize("MeshVertex", unsafe.Sizeof(MeshVertex{}), MeshVertexSize)
	assertSize("LineVertex", unsafe.Sizeof(LineVertex{}), LineVertexSize)
	assertSize("PointVertex", unsafe.Sizeof(PointVertex{}), PointVertexSize)
	assertSize("DrawUniforms", unsafe.Sizeof(DrawUniforms{}), DrawUniformsSize)

	var mv MeshVertex
	assertOffset("MeshVertex.UV", unsafe.Offsetof(mv.UV), 8)
	assertOffset("MeshVertex.Color", unsafe.Offsetof(mv.Color), 16)
	var pv PointVertex
	assertOffset("PointVertex.Size", unsafe.Offsetof(pv.Size), 16)
	assertOffset("PointVertex.Color", unsafe.Offsetof(pv.Color), 24)
	var du DrawUniforms
	assertOffset("DrawUniforms.ClipBounds", unsafe.Offsetof(du.ClipBounds), 16)
	assertOffset("DrawUniforms.FromColor", unsafe.Offsetof(du.FromColor), 48)
	assertOffset("DrawUniforms.UseGradient", unsafe.Offsetof(du.UseGradient), 80)
}

// byteWriter packs little-endian scalars into a preallocated buffer,
// matching the layouts above field by field.
type byteWriter struct {
	buf []byte
}

func newByteWriter(size int) *byteWriter {
	return &byteWriter{buf: make([]byte, 0, size)}
}

func (w *byteWriter) u32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *byteWriter) f32(v float32) {
	w.u32(math.Float32bits(v))
}

func (w *byteWriter) point(p quill.Point) {
	w.f32(p.X)
	w.f32(p.Y)
}

func (w *byteWriter) color(c quill.Color) {
	w.f32(c.R)
	w.f32(c.G)
	w.f32(c.B)
	w.f32(c.A)
}

// uniformBytes packs a DrawUniforms block for the given viewport, clip and
// optional gradient.
func uniformBytes(vp Viewport, clip quill.Rect, gradient quill.LinearGradient) []byte {
	w := newByteWriter(DrawUniformsSize)

	// Pixel to clip space: x right, y down maps to NDC y up.
	w.f32(2 / vp.Width)
	w.f32(-2 / vp.Height)
	w.f32(-1)
	w.f32(1)

	w.f32(clip.Min.X)
	w.f32(clip.Min.Y)
	w.f32(clip.Max.X)
	w.f32(clip.Max.Y)

	w.point(gradient.From)
	w.point(gradient.To)
	w.color(gradient.FromColor)
	w.color(gradient.ToColor)

	if gradient.IsZero() {
		w.u32(0)
	} else {
		w.u32(1)
	}
	w.u32(0)
	w.u32(0)
	w.u32(0)

	return w.buf
}
