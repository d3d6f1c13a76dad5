package scene

import "math"

// Batch is a maximal contiguous run of same-kind primitives in global draw
// order. Exactly the slice field matching Kind is populated; the slices
// view the Scene's arrays and are valid until the next Reset.
type Batch struct {
	Kind Kind

	Shadows            []Shadow
	Quads              []Quad
	Glyphs             []Glyph
	Svgs               []Svg
	Images             []Image
	Paths              []Path
	Polylines          []Polyline
	PointClouds        []PointCloud
	ColoredPointClouds []ColoredPointCloud
}

// Len returns the number of records in the batch.
func (b Batch) Len() int {
	switch b.Kind {
	case KindShadow:
		return len(b.Shadows)
	case KindQuad:
		return len(b.Quads)
	case KindGlyph:
		return len(b.Glyphs)
	case KindSvg:
		return len(b.Svgs)
	case KindImage:
		return len(b.Images)
	case KindPath:
		return len(b.Paths)
	case KindPolyline:
		return len(b.Polylines)
	case KindPointCloud:
		return len(b.PointClouds)
	case KindColoredPointCloud:
		return len(b.ColoredPointClouds)
	}
	return 0
}

// BatchIterator merges the Scene's per-kind arrays back into global draw
// order, yielding maximal contiguous same-kind runs. The merge is a k-way
// peek across at most nine cursors; every record is visited exactly once,
// so a full iteration is O(total records).
//
// The iterator reads the Scene without copying; the Scene must not be
// mutated while iteration is in progress.
type BatchIterator struct {
	scene   *Scene
	cursors [numKinds]int
}

// Batches returns an iterator over the scene's primitives in draw order.
func (s *Scene) Batches() *BatchIterator {
	return &BatchIterator{scene: s}
}

// peek returns the draw order of the next unread record of the kind.
func (it *BatchIterator) peek(k Kind) (uint32, bool) {
	s := it.scene
	c := it.cursors[k]
	switch k {
	case KindShadow:
		if c < len(s.shadows) {
			return s.shadows[c].Order, true
		}
	case KindQuad:
		if c < len(s.quads) {
			return s.quads[c].Order, true
		}
	case KindGlyph:
		if c < len(s.glyphs) {
			return s.glyphs[c].Order, true
		}
	case KindSvg:
		if c < len(s.svgs) {
			return s.svgs[c].Order, true
		}
	case KindImage:
		if c < len(s.images) {
			return s.images[c].Order, true
		}
	case KindPath:
		if c < len(s.paths) {
			return s.paths[c].Order, true
		}
	case KindPolyline:
		if c < len(s.polylines) {
			return s.polylines[c].Order, true
		}
	case KindPointCloud:
		if c < len(s.pointClouds) {
			return s.pointClouds[c].Order, true
		}
	case KindColoredPointCloud:
		if c < len(s.coloredPointClouds) {
			return s.coloredPointClouds[c].Order, true
		}
	}
	return 0, false
}

// Done reports whether every record has been yielded.
func (it *BatchIterator) Done() bool {
	for k := Kind(0); k < numKinds; k++ {
		if _, ok := it.peek(k); ok {
			return false
		}
	}
	return true
}

// Next yields the next batch in global draw order, or false when the scene
// is exhausted. Each call consumes at least one record.
func (it *BatchIterator) Next() (Batch, bool) {
	// The kind holding the globally smallest unread order starts the run.
	var run Kind
	minOrder := uint32(math.MaxUint32)
	found := false
	for k := Kind(0); k < numKinds; k++ {
		if o, ok := it.peek(k); ok && (!found || o < minOrder) {
			run = k
			minOrder = o
			found = true
		}
	}
	if !found {
		return Batch{}, false
	}

	// The run extends while the next record of this kind still precedes
	// every other kind's next record. Orders within one kind are strictly
	// increasing, so the other kinds' minimum is fixed for the whole run.
	minOther := uint32(math.MaxUint32)
	hasOther := false
	for k := Kind(0); k < numKinds; k++ {
		if k == run {
			continue
		}
		if o, ok := it.peek(k); ok && (!hasOther || o < minOther) {
			minOther = o
			hasOther = true
		}
	}

	start := it.cursors[run]
	it.cursors[run]++
	for {
		o, ok := it.peek(run)
		if !ok || (hasOther && o > minOther) {
			break
		}
		it.cursors[run]++
	}

	return it.slice(run, start, it.cursors[run]), true
}

// slice builds the batch viewing records [start, end) of the kind's array.
func (it *BatchIterator) slice(k Kind, start, end int) Batch {
	s := it.scene
	b := Batch{Kind: k}
	switch k {
	case KindShadow:
		b.Shadows = s.shadows[start:end]
	case KindQuad:
		b.Quads = s.quads[start:end]
	case KindGlyph:
		b.Glyphs = s.glyphs[start:end]
	case KindSvg:
		b.Svgs = s.svgs[start:end]
	case KindImage:
		b.Images = s.images[start:end]
	case KindPath:
		b.Paths = s.paths[start:end]
	case KindPolyline:
		b.Polylines = s.polylines[start:end]
	case KindPointCloud:
		b.PointClouds = s.pointClouds[start:end]
	case KindColoredPointCloud:
		b.ColoredPointClouds = s.coloredPointClouds[start:end]
	}
	return b
}
