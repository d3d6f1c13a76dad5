package scene

import (
	"github.com/quillgfx/quill"
	"github.com/quillgfx/quill/mesh"
)

// Primitive records are fixed-layout values owned by the Scene for one
// frame. Order and Clip are stamped at insertion; callers leave them zero.
// Slice fields (polyline and point cloud data) are borrowed, not copied:
// the caller's backing array must stay untouched until the next Reset.

// Shadow is a blurred drop shadow behind a rounded rectangle.
type Shadow struct {
	Rect   quill.Rect
	Radius float32
	Blur   float32
	Color  quill.Color

	Order uint32
	Clip  quill.Rect
}

// Quad is a solid or gradient-filled rounded rectangle with an optional
// border. Radii are the corner radii clockwise from the top left.
type Quad struct {
	Rect        quill.Rect
	Radii       [4]float32
	Color       quill.Color
	Gradient    quill.LinearGradient
	BorderWidth float32
	BorderColor quill.Color

	Order uint32
	Clip  quill.Rect
}

// Glyph is one pre-shaped glyph quad sampling a texture atlas. Shaping and
// atlas packing happen upstream; the record only carries the placement
// rectangle and the atlas UV window.
type Glyph struct {
	Rect  quill.Rect
	UV    quill.Rect
	Color quill.Color

	Order uint32
	Clip  quill.Rect
}

// Svg places a pre-tessellated vector graphic. The mesh is stretched to
// Rect via its bounds-normalized UVs and tinted by Color.
type Svg struct {
	Mesh  mesh.Ref
	Rect  quill.Rect
	Color quill.Color

	Order uint32
	Clip  quill.Rect
}

// Image places a texture region. Texture is an opaque handle from the
// rendering backend; UV selects the sampled sub-region.
type Image struct {
	Rect    quill.Rect
	UV      quill.Rect
	Texture uint64
	Tint    quill.Color

	Order uint32
	Clip  quill.Rect
}

// Path is one tessellated vector path instance: a mesh reference, a
// placement offset, and either a solid color or a linear gradient
// (Gradient.IsZero() selects solid).
type Path struct {
	Mesh     mesh.Ref
	Offset   quill.Point
	Color    quill.Color
	Gradient quill.LinearGradient

	Order uint32
	Clip  quill.Rect
}

// Polyline is a connected line strip of uniform width and color.
type Polyline struct {
	Points []quill.Point
	Width  float32
	Color  quill.Color

	Order uint32
	Clip  quill.Rect
}

// PointCloud is a scatter of uniformly sized and colored points.
type PointCloud struct {
	Points []quill.Point
	Size   float32
	Color  quill.Color

	Order uint32
	Clip  quill.Rect
}

// ColoredPointCloud is a scatter of uniformly sized, per-point colored
// points. Colors runs parallel to Points.
type ColoredPointCloud struct {
	Points []quill.Point
	Colors []quill.Color
	Size   float32

	Order uint32
	Clip  quill.Rect
}
