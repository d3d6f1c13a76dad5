// Package scene collects drawing primitives for one frame in painter's
// algorithm order and merges them back into GPU-friendly same-kind batches.
//
// A Scene holds one append-only array per primitive kind. Every insertion
// stamps the record with the next value of a single global draw-order
// counter, so the interleaving across kinds is recoverable even though each
// kind is stored contiguously. BatchIterator performs that recovery,
// yielding maximal same-kind runs in global order.
package scene

import (
	"errors"
	"fmt"

	"github.com/quillgfx/quill"
)

// ErrSceneFull reports that a kind's fixed per-frame capacity is exhausted.
// The insertion is rejected and the frame continues without the primitive;
// rejection is surfaced rather than dropping silently.
var ErrSceneFull = errors.New("scene: primitive capacity exceeded")

// DefaultMaxPerKind is the per-kind record capacity when Config leaves it
// zero.
const DefaultMaxPerKind = 4096

// Config sets per-kind record capacities. Zero values select
// DefaultMaxPerKind.
type Config struct {
	MaxShadows            int
	MaxQuads              int
	MaxGlyphs             int
	MaxSvgs               int
	MaxImages             int
	MaxPaths              int
	MaxPolylines          int
	MaxPointClouds        int
	MaxColoredPointClouds int
}

func (c *Config) applyDefaults() {
	for _, p := range []*int{
		&c.MaxShadows, &c.MaxQuads, &c.MaxGlyphs, &c.MaxSvgs, &c.MaxImages,
		&c.MaxPaths, &c.MaxPolylines, &c.MaxPointClouds, &c.MaxColoredPointClouds,
	} {
		if *p <= 0 {
			*p = DefaultMaxPerKind
		}
	}
}

// Stats is a snapshot of per-kind record counts.
type Stats struct {
	Shadows            int
	Quads              int
	Glyphs             int
	Svgs               int
	Images             int
	Paths              int
	Polylines          int
	PointClouds        int
	ColoredPointClouds int
}

// Total returns the number of records across all kinds.
func (s Stats) Total() int {
	return s.Shadows + s.Quads + s.Glyphs + s.Svgs + s.Images +
		s.Paths + s.Polylines + s.PointClouds + s.ColoredPointClouds
}

// Scene is the per-frame primitive collection. Not safe for concurrent
// use; the whole build phase is single threaded.
type Scene struct {
	cfg   Config
	order uint32

	// clips holds the running intersection of the pushed clip stack, so
	// the current clip is always the last element.
	clips []quill.Rect

	shadows            []Shadow
	quads              []Quad
	glyphs             []Glyph
	svgs               []Svg
	images             []Image
	paths              []Path
	polylines          []Polyline
	pointClouds        []PointCloud
	coloredPointClouds []ColoredPointCloud
}

// New creates a Scene with the given capacities.
func New(cfg Config) *Scene {
	cfg.applyDefaults()
	return &Scene{cfg: cfg}
}

// Reset clears all records, the order counter, and the clip stack for the
// next frame. Backing arrays are kept.
func (s *Scene) Reset() {
	s.order = 0
	s.clips = s.clips[:0]
	s.shadows = s.shadows[:0]
	s.quads = s.quads[:0]
	s.glyphs = s.glyphs[:0]
	s.svgs = s.svgs[:0]
	s.images = s.images[:0]
	s.paths = s.paths[:0]
	s.polylines = s.polylines[:0]
	s.pointClouds = s.pointClouds[:0]
	s.coloredPointClouds = s.coloredPointClouds[:0]
}

// PushClip restricts subsequent insertions to r intersected with the
// current clip. The intersection is computed once here and baked into each
// record at insertion, never re-evaluated.
func (s *Scene) PushClip(r quill.Rect) {
	s.clips = append(s.clips, s.CurrentClip().Intersect(r))
}

// PopClip removes the innermost clip. Popping an empty stack is a no-op.
func (s *Scene) PopClip() {
	if len(s.clips) > 0 {
		s.clips = s.clips[:len(s.clips)-1]
	}
}

// CurrentClip returns the intersection of the active clip stack, or the
// infinite rectangle when no clip is pushed.
func (s *Scene) CurrentClip() quill.Rect {
	if len(s.clips) == 0 {
		return quill.InfiniteRect()
	}
	return s.clips[len(s.clips)-1]
}

func (s *Scene) nextOrder() uint32 {
	o := s.order
	s.order++
	return o
}

// InsertShadow appends a shadow record, stamping its draw order and clip.
func (s *Scene) InsertShadow(rec Shadow) error {
	if len(s.shadows) >= s.cfg.MaxShadows {
		return fmt.Errorf("shadow: %w", ErrSceneFull)
	}
	rec.Order = s.nextOrder()
	rec.Clip = s.CurrentClip()
	s.shadows = append(s.shadows, rec)
	return nil
}

// InsertQuad appends a quad record, stamping its draw order and clip.
func (s *Scene) InsertQuad(rec Quad) error {
	if len(s.quads) >= s.cfg.MaxQuads {
		return fmt.Errorf("quad: %w", ErrSceneFull)
	}
	rec.Order = s.nextOrder()
	rec.Clip = s.CurrentClip()
	s.quads = append(s.quads, rec)
	return nil
}

// InsertGlyph appends a glyph record, stamping its draw order and clip.
func (s *Scene) InsertGlyph(rec Glyph) error {
	if len(s.glyphs) >= s.cfg.MaxGlyphs {
		return fmt.Errorf("glyph: %w", ErrSceneFull)
	}
	rec.Order = s.nextOrder()
	rec.Clip = s.CurrentClip()
	s.glyphs = append(s.glyphs, rec)
	return nil
}

// InsertSvg appends an svg record, stamping its draw order and clip.
func (s *Scene) InsertSvg(rec Svg) error {
	if len(s.svgs) >= s.cfg.MaxSvgs {
		return fmt.Errorf("svg: %w", ErrSceneFull)
	}
	rec.Order = s.nextOrder()
	rec.Clip = s.CurrentClip()
	s.svgs = append(s.svgs, rec)
	return nil
}

// InsertImage appends an image record, stamping its draw order and clip.
func (s *Scene) InsertImage(rec Image) error {
	if len(s.images) >= s.cfg.MaxImages {
		return fmt.Errorf("image: %w", ErrSceneFull)
	}
	rec.Order = s.nextOrder()
	rec.Clip = s.CurrentClip()
	s.images = append(s.images, rec)
	return nil
}

// InsertPath appends a path instance, stamping its draw order and clip.
func (s *Scene) InsertPath(rec Path) error {
	if len(s.paths) >= s.cfg.MaxPaths {
		return fmt.Errorf("path: %w", ErrSceneFull)
	}
	rec.Order = s.nextOrder()
	rec.Clip = s.CurrentClip()
	s.paths = append(s.paths, rec)
	return nil
}

// InsertPolyline appends a polyline record, stamping its draw order and
// clip. The points slice is borrowed until Reset.
func (s *Scene) InsertPolyline(rec Polyline) error {
	if len(s.polylines) >= s.cfg.MaxPolylines {
		return fmt.Errorf("polyline: %w", ErrSceneFull)
	}
	rec.Order = s.nextOrder()
	rec.Clip = s.CurrentClip()
	s.polylines = append(s.polylines, rec)
	return nil
}

// InsertPointCloud appends a point cloud record, stamping its draw order
// and clip. The points slice is borrowed until Reset.
func (s *Scene) InsertPointCloud(rec PointCloud) error {
	if len(s.pointClouds) >= s.cfg.MaxPointClouds {
		return fmt.Errorf("pointcloud: %w", ErrSceneFull)
	}
	rec.Order = s.nextOrder()
	rec.Clip = s.CurrentClip()
	s.pointClouds = append(s.pointClouds, rec)
	return nil
}

// InsertColoredPointCloud appends a colored point cloud record, stamping
// its draw order and clip. Both slices are borrowed until Reset.
func (s *Scene) InsertColoredPointCloud(rec ColoredPointCloud) error {
	if len(s.coloredPointClouds) >= s.cfg.MaxColoredPointClouds {
		return fmt.Errorf("coloredpointcloud: %w", ErrSceneFull)
	}
	rec.Order = s.nextOrder()
	rec.Clip = s.CurrentClip()
	s.coloredPointClouds = append(s.coloredPointClouds, rec)
	return nil
}

// Stats returns a snapshot of per-kind record counts.
func (s *Scene) Stats() Stats {
	return Stats{
		Shadows:            len(s.shadows),
		Quads:              len(s.quads),
		Glyphs:             len(s.glyphs),
		Svgs:               len(s.svgs),
		Images:             len(s.images),
		Paths:              len(s.paths),
		Polylines:          len(s.polylines),
		PointClouds:        len(s.pointClouds),
		ColoredPointClouds: len(s.coloredPointClouds),
	}
}
