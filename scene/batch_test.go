package scene

import (
	"testing"

	"github.com/quillgfx/quill"
)

// batchOrders flattens one batch back to its records' draw orders.
func batchOrders(b Batch) []uint32 {
	var out []uint32
	switch b.Kind {
	case KindShadow:
		for _, r := range b.Shadows {
			out = append(out, r.Order)
		}
	case KindQuad:
		for _, r := range b.Quads {
			out = append(out, r.Order)
		}
	case KindGlyph:
		for _, r := range b.Glyphs {
			out = append(out, r.Order)
		}
	case KindSvg:
		for _, r := range b.Svgs {
			out = append(out, r.Order)
		}
	case KindImage:
		for _, r := range b.Images {
			out = append(out, r.Order)
		}
	case KindPath:
		for _, r := range b.Paths {
			out = append(out, r.Order)
		}
	case KindPolyline:
		for _, r := range b.Polylines {
			out = append(out, r.Order)
		}
	case KindPointCloud:
		for _, r := range b.PointClouds {
			out = append(out, r.Order)
		}
	case KindColoredPointCloud:
		for _, r := range b.ColoredPointClouds {
			out = append(out, r.Order)
		}
	}
	return out
}

func TestBatchCoalescing(t *testing.T) {
	// 3 quads, 1 glyph, 2 quads must yield runs of sizes [3, 1, 2].
	s := New(Config{})
	for i := 0; i < 3; i++ {
		if err := s.InsertQuad(Quad{}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.InsertGlyph(Glyph{}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := s.InsertQuad(Quad{}); err != nil {
			t.Fatal(err)
		}
	}

	it := s.Batches()
	wantKinds := []Kind{KindQuad, KindGlyph, KindQuad}
	wantSizes := []int{3, 1, 2}
	for i := range wantKinds {
		b, ok := it.Next()
		if !ok {
			t.Fatalf("iterator exhausted at batch %d", i)
		}
		if b.Kind != wantKinds[i] || b.Len() != wantSizes[i] {
			t.Errorf("batch %d = %v x%d, want %v x%d", i, b.Kind, b.Len(), wantKinds[i], wantSizes[i])
		}
	}
	if _, ok := it.Next(); ok {
		t.Error("iterator yielded more than 3 batches")
	}
	if !it.Done() {
		t.Error("Done() = false after exhaustion")
	}
}

func TestBatchOrderPreservation(t *testing.T) {
	// A deterministic pseudo-random interleaving across several kinds;
	// concatenated batches must reproduce insertion order exactly.
	s := New(Config{})
	state := uint32(0x9e3779b9)
	const n = 500
	for i := 0; i < n; i++ {
		state = state*1664525 + 1013904223
		var err error
		switch state % 5 {
		case 0:
			err = s.InsertQuad(Quad{})
		case 1:
			err = s.InsertGlyph(Glyph{})
		case 2:
			err = s.InsertPath(Path{})
		case 3:
			err = s.InsertPolyline(Polyline{Points: []quill.Point{{X: 1}, {X: 2}}})
		case 4:
			err = s.InsertPointCloud(PointCloud{})
		}
		if err != nil {
			t.Fatal(err)
		}
	}

	var orders []uint32
	it := s.Batches()
	for {
		b, ok := it.Next()
		if !ok {
			break
		}
		if b.Len() == 0 {
			t.Fatal("iterator yielded an empty batch")
		}
		orders = append(orders, batchOrders(b)...)
	}

	if len(orders) != n {
		t.Fatalf("yielded %d records, want %d", len(orders), n)
	}
	for i, o := range orders {
		if o != uint32(i) {
			t.Fatalf("record %d has order %d, insertion order not preserved", i, o)
		}
	}
}

func TestBatchSingleKind(t *testing.T) {
	s := New(Config{})
	for i := 0; i < 7; i++ {
		if err := s.InsertShadow(Shadow{}); err != nil {
			t.Fatal(err)
		}
	}

	it := s.Batches()
	b, ok := it.Next()
	if !ok || b.Kind != KindShadow || b.Len() != 7 {
		t.Fatalf("batch = %v x%d ok=%v, want shadow x7", b.Kind, b.Len(), ok)
	}
	if _, ok := it.Next(); ok {
		t.Error("single-kind scene yielded a second batch")
	}
}

func TestBatchEmptyScene(t *testing.T) {
	s := New(Config{})
	it := s.Batches()
	if !it.Done() {
		t.Error("Done() = false on empty scene")
	}
	if _, ok := it.Next(); ok {
		t.Error("Next() yielded a batch from an empty scene")
	}
}

func TestBatchAllKindsRoundRobin(t *testing.T) {
	// One record of each kind in enum order: nine singleton batches.
	s := New(Config{})
	inserts := []func() error{
		func() error { return s.InsertShadow(Shadow{}) },
		func() error { return s.InsertQuad(Quad{}) },
		func() error { return s.InsertGlyph(Glyph{}) },
		func() error { return s.InsertSvg(Svg{}) },
		func() error { return s.InsertImage(Image{}) },
		func() error { return s.InsertPath(Path{}) },
		func() error { return s.InsertPolyline(Polyline{}) },
		func() error { return s.InsertPointCloud(PointCloud{}) },
		func() error { return s.InsertColoredPointCloud(ColoredPointCloud{}) },
	}
	for _, ins := range inserts {
		if err := ins(); err != nil {
			t.Fatal(err)
		}
	}

	it := s.Batches()
	for k := Kind(0); k < numKinds; k++ {
		b, ok := it.Next()
		if !ok {
			t.Fatalf("exhausted before kind %v", k)
		}
		if b.Kind != k || b.Len() != 1 {
			t.Errorf("batch = %v x%d, want %v x1", b.Kind, b.Len(), k)
		}
	}
	if !it.Done() {
		t.Error("records left after nine batches")
	}
}
