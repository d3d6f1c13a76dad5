package mesh

import (
	"errors"

	"github.com/quillgfx/quill"
	"github.com/quillgfx/quill/internal/path"
	"github.com/quillgfx/quill/internal/stroke"
)

// ErrDegenerate reports a path that produced no triangles: too few distinct
// points, zero area, or a non-positive stroke width. Callers typically skip
// the one shape and keep rendering.
var ErrDegenerate = errors.New("mesh: degenerate path")

// LineCap specifies the shape of open stroke endpoints.
type LineCap uint8

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

// LineJoin specifies the corner treatment where two stroke segments meet.
type LineJoin uint8

const (
	LineJoinMiter LineJoin = iota
	LineJoinBevel
	LineJoinRound
)

// StrokeStyle describes how a stroked path is expanded. CloseEpsilon is the
// distance under which a closed subpath's end point is treated as a
// duplicate of its start; zero selects the default.
type StrokeStyle struct {
	Width        float32
	Cap          LineCap
	Join         LineJoin
	MiterLimit   float32
	CloseEpsilon float32
}

// DefaultStrokeStyle returns a 1px butt/miter stroke.
func DefaultStrokeStyle() StrokeStyle {
	return StrokeStyle{Width: 1, MiterLimit: 4}
}

// FillPath flattens and triangulates a path into a filled mesh. Subpaths
// wound opposite the first contour become holes. tolerance is the maximum
// curve flattening error in pixels; non-positive selects the default.
func FillPath(elements []quill.PathElement, tolerance float32) (*Mesh, error) {
	pts, subs := path.Flatten(elements, float64(tolerance))
	indices, err := path.TriangulateFill(pts, subs)
	if err != nil {
		return nil, ErrDegenerate
	}

	// Triangulation indexes the flattened points; compact to the vertices
	// actually referenced so closing duplicates do not inflate the mesh.
	remap := make(map[uint32]uint32, len(pts))
	verts := make([]quill.Point, 0, len(pts))
	compacted := make([]uint32, len(indices))
	for i, old := range indices {
		n, ok := remap[old]
		if !ok {
			n = uint32(len(verts))
			remap[old] = n
			verts = append(verts, quill.Pt(float32(pts[old].X), float32(pts[old].Y)))
		}
		compacted[i] = n
	}

	return finishMesh(verts, compacted), nil
}

// StrokePath flattens a path and expands each subpath into stroke geometry.
// A subpath too degenerate to stroke is skipped; the error is returned only
// if no subpath produced triangles.
func StrokePath(elements []quill.PathElement, style StrokeStyle, tolerance float32) (*Mesh, error) {
	pts, subs := path.Flatten(elements, float64(tolerance))

	st := stroke.Style{
		Width:        float64(style.Width),
		Cap:          stroke.Cap(style.Cap),
		Join:         stroke.Join(style.Join),
		MiterLimit:   float64(style.MiterLimit),
		CloseEpsilon: float64(style.CloseEpsilon),
	}

	var verts []quill.Point
	var indices []uint32
	for _, sub := range subs {
		sv, si, err := stroke.Expand(pts, sub, st, float64(tolerance))
		if err != nil {
			continue
		}
		base := uint32(len(verts))
		for _, p := range sv {
			verts = append(verts, quill.Pt(float32(p.X), float32(p.Y)))
		}
		for _, i := range si {
			indices = append(indices, base+i)
		}
	}
	if len(indices) == 0 {
		return nil, ErrDegenerate
	}

	return finishMesh(verts, indices), nil
}

// finishMesh computes bounds and bounds-normalized UVs for the vertex
// positions.
func finishMesh(verts []quill.Point, indices []uint32) *Mesh {
	bounds := quill.EmptyRect()
	for _, p := range verts {
		bounds = bounds.UnionPoint(p)
	}

	w := bounds.Width()
	h := bounds.Height()
	out := make([]Vertex, len(verts))
	for i, p := range verts {
		var uv quill.Point
		if w > 0 {
			uv.X = (p.X - bounds.Min.X) / w
		}
		if h > 0 {
			uv.Y = (p.Y - bounds.Min.Y) / h
		}
		out[i] = Vertex{Pos: p, UV: uv}
	}

	return &Mesh{Vertices: out, Indices: indices, Bounds: bounds}
}
