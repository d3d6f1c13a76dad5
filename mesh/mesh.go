// Package mesh provides triangle meshes built from vector paths and a
// two-tier pool that caches them across frames.
package mesh

import (
	"hash/fnv"
	"math"

	"github.com/quillgfx/quill"
)

// Vertex is one triangle mesh vertex. UV coordinates are normalized to the
// mesh bounds, (0, 0) at Bounds.Min and (1, 1) at Bounds.Max, so gradients
// and textures stretch with the shape.
type Vertex struct {
	Pos quill.Point
	UV  quill.Point
}

// Mesh is an indexed triangle mesh in local coordinates.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   quill.Rect
}

// IsEmpty reports whether the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return len(m.Indices) == 0
}

// Hash returns a content hash of the mesh geometry, suitable as a
// persistent pool key. The hash is FNV-1a over the vertex and index data;
// a computed value of zero is remapped so zero never collides with the
// pool's unset sentinel.
func (m *Mesh) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	put32 := func(v uint32) {
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v >> 16)
		buf[3] = byte(v >> 24)
		h.Write(buf[:4])
	}
	putf := func(f float32) { put32(math.Float32bits(f)) }

	for _, v := range m.Vertices {
		putf(v.Pos.X)
		putf(v.Pos.Y)
		putf(v.UV.X)
		putf(v.UV.Y)
	}
	for _, i := range m.Indices {
		put32(i)
	}

	sum := h.Sum64()
	if sum == 0 {
		sum = 1
	}
	return sum
}
