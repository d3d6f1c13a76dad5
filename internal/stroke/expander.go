// Package stroke expands stroked polylines into filled triangle geometry.
//
// Unlike general fills, the expanded outline of a stroke is routinely
// self-overlapping at joins, which breaks ear clipping. The expander
// therefore emits triangles directly: one quad per segment plus join fans
// and cap fans, producing individually valid triangles whose union is the
// stroked region.
package stroke

import (
	"errors"
	"math"

	"github.com/quillgfx/quill/internal/path"
)

// Cap specifies the shape of open line endpoints.
type Cap uint8

const (
	// CapButt ends the stroke flat at the endpoint.
	CapButt Cap = iota
	// CapRound ends the stroke with a half circle.
	CapRound
	// CapSquare extends the stroke by half the width past the endpoint.
	CapSquare
)

// Join specifies the corner treatment where two segments meet.
type Join uint8

const (
	// JoinMiter extends the outer edges to their intersection, bounded by
	// the miter limit.
	JoinMiter Join = iota
	// JoinBevel connects the outer offset points directly.
	JoinBevel
	// JoinRound inserts a circular arc between the outer offset points.
	JoinRound
)

// DefaultCloseEpsilon is the distance under which a closed subpath's final
// point is treated as a duplicate of its first and dropped before join
// processing. Kept configurable in Style for very small shapes.
const DefaultCloseEpsilon = 1e-4

// Style describes stroke expansion parameters.
type Style struct {
	Width        float64
	Cap          Cap
	Join         Join
	MiterLimit   float64
	CloseEpsilon float64
}

// DefaultStyle returns a 1px butt/miter stroke.
func DefaultStyle() Style {
	return Style{
		Width:        1,
		Cap:          CapButt,
		Join:         JoinMiter,
		MiterLimit:   4,
		CloseEpsilon: DefaultCloseEpsilon,
	}
}

// ErrDegenerateStroke reports a subpath that cannot be stroked: fewer than
// two distinct points, or a non-positive width. Local to the one subpath.
var ErrDegenerateStroke = errors.New("stroke: degenerate subpath")

// maxRoundSteps bounds the triangle count of a single round join or cap.
const maxRoundSteps = 64

// Expand converts one flattened subpath into stroke geometry: triangle
// vertices and indices covering the stroked region. tolerance controls how
// finely round joins and caps are subdivided.
func Expand(points []path.Point, sub path.Subpath, style Style, tolerance float64) ([]path.Point, []uint32, error) {
	if style.Width <= 0 {
		return nil, nil, ErrDegenerateStroke
	}
	if style.MiterLimit <= 0 {
		style.MiterLimit = 4
	}
	closeEps := style.CloseEpsilon
	if closeEps <= 0 {
		closeEps = DefaultCloseEpsilon
	}
	if tolerance <= 0 {
		tolerance = path.DefaultTolerance
	}

	// Collapse zero-length segments; they have no direction to offset.
	pts := make([]path.Point, 0, sub.Len())
	for i := sub.Start; i < sub.End; i++ {
		if len(pts) > 0 && points[i].Distance(pts[len(pts)-1]) < 1e-12 {
			continue
		}
		pts = append(pts, points[i])
	}

	closed := sub.Closed
	if closed && len(pts) > 1 && pts[len(pts)-1].Distance(pts[0]) < closeEps {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 2 || (closed && len(pts) < 3) {
		return nil, nil, ErrDegenerateStroke
	}

	e := &expander{
		style: style,
		half:  style.Width / 2,
		tol:   tolerance,
	}

	m := len(pts)
	segs := m - 1
	if closed {
		segs = m
	}

	// Segment quads.
	for k := 0; k < segs; k++ {
		a := pts[k]
		b := pts[(k+1)%m]
		n := b.Sub(a).Perp().Normalize().Mul(e.half)
		e.emitQuad(a.Add(n), a.Sub(n), b.Add(n), b.Sub(n))
	}

	// Joins at interior vertices; every vertex is interior when closed.
	for k := 0; k < m; k++ {
		if !closed && (k == 0 || k == m-1) {
			continue
		}
		prev := pts[(k+m-1)%m]
		next := pts[(k+1)%m]
		e.emitJoin(pts[k], pts[k].Sub(prev).Normalize(), next.Sub(pts[k]).Normalize())
	}

	// Caps at open ends.
	if !closed {
		d0 := pts[1].Sub(pts[0]).Normalize()
		dn := pts[m-1].Sub(pts[m-2]).Normalize()
		e.emitCap(pts[0], d0.Mul(-1))
		e.emitCap(pts[m-1], dn)
	}

	return e.verts, e.idx, nil
}

type expander struct {
	style Style
	half  float64
	tol   float64
	verts []path.Point
	idx   []uint32
}

func (e *expander) vertex(p path.Point) uint32 {
	e.verts = append(e.verts, p)
	return uint32(len(e.verts) - 1)
}

func (e *expander) tri(a, b, c path.Point) {
	e.idx = append(e.idx, e.vertex(a), e.vertex(b), e.vertex(c))
}

func (e *expander) emitQuad(la, ra, lb, rb path.Point) {
	i0 := e.vertex(la)
	i1 := e.vertex(ra)
	i2 := e.vertex(lb)
	i3 := e.vertex(rb)
	e.idx = append(e.idx, i0, i2, i1, i1, i2, i3)
}

// emitJoin fills the wedge that opens on the outer side of the corner at p,
// where dPrev and dNext are the unit directions of the adjoining segments.
func (e *expander) emitJoin(p, dPrev, dNext path.Point) {
	turn := dPrev.Cross(dNext)
	dot := dPrev.Dot(dNext)
	if math.Abs(turn) < 1e-9 && dot > 0 {
		return // straight through, segment quads already meet
	}

	nPrev := dPrev.Perp().Mul(e.half)
	nNext := dNext.Perp().Mul(e.half)

	// The gap opens opposite the turn direction.
	var o1, o2 path.Point
	if turn > 0 {
		o1 = p.Sub(nPrev)
		o2 = p.Sub(nNext)
	} else {
		o1 = p.Add(nPrev)
		o2 = p.Add(nNext)
	}

	switch e.style.Join {
	case JoinBevel:
		e.tri(p, o1, o2)

	case JoinMiter:
		denom := dPrev.Cross(dNext)
		if math.Abs(denom) < 1e-12 {
			e.tri(p, o1, o2)
			return
		}
		t := o2.Sub(o1).Cross(dNext) / denom
		miter := o1.Add(dPrev.Mul(t))
		if miter.Distance(p) > e.style.MiterLimit*e.half {
			e.tri(p, o1, o2)
			return
		}
		e.tri(p, o1, miter)
		e.tri(p, miter, o2)

	case JoinRound:
		e.emitArcFan(p, o1, o2)
	}
}

// emitCap closes an open end at p, with outward the unit direction pointing
// away from the stroke body.
func (e *expander) emitCap(p, outward path.Point) {
	n := outward.Perp().Mul(e.half)
	l := p.Add(n)
	r := p.Sub(n)

	switch e.style.Cap {
	case CapButt:
		// The segment quad's edge is the cap.

	case CapSquare:
		ext := outward.Mul(e.half)
		e.emitQuad(l, r, l.Add(ext), r.Add(ext))

	case CapRound:
		// Sweeping clockwise from l to r passes through the outward
		// direction, so the half disc bulges away from the stroke body.
		e.emitArcSweep(p, l, r, -math.Pi)
	}
}

// emitArcFan fans triangles from center over the circular arc between the
// two offset points a and b, both at distance half from center, taking the
// short way around. Joins never span a half circle or more, so the short
// way is always the side the wedge opens on.
func (e *expander) emitArcFan(center, a, b path.Point) {
	a0 := math.Atan2(a.Y-center.Y, a.X-center.X)
	a1 := math.Atan2(b.Y-center.Y, b.X-center.X)
	sweep := a1 - a0
	if sweep > math.Pi {
		sweep -= 2 * math.Pi
	} else if sweep < -math.Pi {
		sweep += 2 * math.Pi
	}
	e.emitArcSweep(center, a, b, sweep)
}

// emitArcSweep fans triangles from center over the arc from a to b covering
// the given signed sweep angle.
func (e *expander) emitArcSweep(center, a, b path.Point, sweep float64) {
	a0 := math.Atan2(a.Y-center.Y, a.X-center.X)

	steps := 1
	if e.half > e.tol {
		maxStep := 2 * math.Acos(1-e.tol/e.half)
		steps = int(math.Ceil(math.Abs(sweep) / maxStep))
		if steps < 1 {
			steps = 1
		}
		if steps > maxRoundSteps {
			steps = maxRoundSteps
		}
	}

	prev := a
	for i := 1; i <= steps; i++ {
		theta := a0 + sweep*float64(i)/float64(steps)
		next := path.Point{
			X: center.X + e.half*math.Cos(theta),
			Y: center.Y + e.half*math.Sin(theta),
		}
		if i == steps {
			next = b
		}
		e.tri(center, prev, next)
		prev = next
	}
}
