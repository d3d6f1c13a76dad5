// Package gpu turns scene batches into GPU buffer writes and draw calls.
//
// It owns the four geometry-producing pipelines (paths, polylines, point
// clouds, colored point clouds), each with its own triple-buffered
// vertex/index buffer pair, and speaks to the graphics API only through
// the narrow Backend and RenderPass interfaces. Backends assume CPU
// writable buffers and byte-offset indexed draws; everything else
// (encoders, shader modules, bind groups) stays behind the interface.
package gpu

import "github.com/quillgfx/quill/mesh"

// BufferID is an opaque handle to a backend buffer.
type BufferID uint64

// BufferUsage selects what a buffer binds as.
type BufferUsage uint8

const (
	BufferUsageVertex BufferUsage = iota
	BufferUsageIndex
	BufferUsageUniform
)

// IndexFormat is the element width of an index buffer.
type IndexFormat uint8

const (
	IndexFormatUint16 IndexFormat = iota
	IndexFormatUint32
)

// PipelineKind selects a render pipeline. Point clouds and colored point
// clouds share one GPU pipeline; they differ only in how vertex colors are
// packed.
type PipelineKind uint8

const (
	PipelineMesh PipelineKind = iota
	PipelinePolyline
	PipelinePoint
)

// Backend is the buffer side of the rendering backend.
type Backend interface {
	// CreateBuffer allocates a CPU-writable buffer of the given byte size.
	CreateBuffer(size int, usage BufferUsage) (BufferID, error)
	// WriteBuffer copies data into the buffer at a byte offset.
	WriteBuffer(id BufferID, offset int, data []byte) error
	// DestroyBuffer releases a buffer. Destroying the zero ID is a no-op.
	DestroyBuffer(id BufferID)
}

// RenderPass is the draw-submission side of the rendering backend,
// recording into the current frame's pass.
type RenderPass interface {
	SetPipeline(kind PipelineKind)
	SetVertexBuffer(slot int, id BufferID, offset int)
	SetIndexBuffer(id BufferID, format IndexFormat, offset int)
	// SetUniformBytes supplies the per-draw uniform block for subsequent
	// draws. The backend owns staging (typically a per-frame uniform ring).
	SetUniformBytes(data []byte)
	// DrawIndexed issues an indexed draw of indexCount indices starting at
	// firstIndex elements into the bound index buffer.
	DrawIndexed(indexCount, firstIndex uint32)
}

// MeshSource resolves mesh references during upload. *mesh.Pool satisfies
// it.
type MeshSource interface {
	Get(ref mesh.Ref) (*mesh.Mesh, error)
}

// Viewport is the render target size in pixels, used to map pixel
// coordinates to clip space.
type Viewport struct {
	Width  float32
	Height float32
}
