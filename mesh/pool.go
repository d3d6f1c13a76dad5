package mesh

import "errors"

var (
	// ErrPoolFull reports that the persistent tier is at capacity.
	ErrPoolFull = errors.New("mesh: persistent pool full")
	// ErrFrameFull reports that the per-frame tier is at capacity.
	ErrFrameFull = errors.New("mesh: frame pool full")
	// ErrInvalidRef reports a zero Ref or one that no longer resolves,
	// such as a frame ref held across ResetFrame.
	ErrInvalidRef = errors.New("mesh: invalid mesh ref")
)

// Default tier capacities. Persistent meshes are deduplicated by hash and
// survive frames; frame meshes are cheap one-frame allocations.
const (
	DefaultMaxPersistent = 512
	DefaultMaxFrame      = 4096
)

type refKind uint8

const (
	refNone refKind = iota
	refPersistent
	refFrame
)

// Ref is a handle to a pooled mesh. The zero Ref resolves to nothing.
// Frame refs are valid only until the next ResetFrame; holding one across
// frames is a caller error that Get reports as ErrInvalidRef at best and
// silently aliases a new mesh at worst.
type Ref struct {
	kind  refKind
	index uint32
}

// IsZero reports whether the ref is the zero handle.
func (r Ref) IsZero() bool { return r.kind == refNone }

// Persistent reports whether the ref points into the persistent tier.
func (r Ref) Persistent() bool { return r.kind == refPersistent }

// Config sets pool tier capacities. Zero values select the defaults.
type Config struct {
	MaxPersistent int
	MaxFrame      int
}

// Stats is a snapshot of pool occupancy.
type Stats struct {
	PersistentCount    int
	PersistentVertices int
	PersistentIndices  int
	FrameCount         int
	FrameVertices      int
	FrameIndices       int
}

// Pool caches meshes across frames in two tiers: a persistent tier addressed
// by content hash, and a frame tier cleared wholesale each frame. The zero
// value is not ready; use NewPool. Pool is not safe for concurrent use.
type Pool struct {
	cfg Config

	persistent []*Mesh
	byHash     map[uint64]uint32

	frame []*Mesh
}

// NewPool creates a pool with the given capacities. Backing storage is
// allocated lazily on first insert.
func NewPool(cfg Config) *Pool {
	if cfg.MaxPersistent <= 0 {
		cfg.MaxPersistent = DefaultMaxPersistent
	}
	if cfg.MaxFrame <= 0 {
		cfg.MaxFrame = DefaultMaxFrame
	}
	return &Pool{cfg: cfg}
}

// GetOrCreatePersistent returns the ref for the mesh with the given content
// hash, invoking build only on the first request for that hash. The call is
// idempotent: repeated requests with the same hash return the same ref
// without rebuilding. A zero hash is remapped so it never collides with the
// unset sentinel.
func (p *Pool) GetOrCreatePersistent(hash uint64, build func() (*Mesh, error)) (Ref, error) {
	if hash == 0 {
		hash = 1
	}
	if idx, ok := p.byHash[hash]; ok {
		return Ref{kind: refPersistent, index: idx}, nil
	}
	if len(p.persistent) >= p.cfg.MaxPersistent {
		return Ref{}, ErrPoolFull
	}

	m, err := build()
	if err != nil {
		return Ref{}, err
	}

	if p.byHash == nil {
		p.byHash = make(map[uint64]uint32)
	}
	idx := uint32(len(p.persistent))
	p.persistent = append(p.persistent, m)
	p.byHash[hash] = idx
	return Ref{kind: refPersistent, index: idx}, nil
}

// AllocFrame places a mesh in the frame tier. The returned ref is valid
// until the next ResetFrame.
func (p *Pool) AllocFrame(m *Mesh) (Ref, error) {
	if len(p.frame) >= p.cfg.MaxFrame {
		return Ref{}, ErrFrameFull
	}
	idx := uint32(len(p.frame))
	p.frame = append(p.frame, m)
	return Ref{kind: refFrame, index: idx}, nil
}

// Get resolves a ref to its mesh.
func (p *Pool) Get(r Ref) (*Mesh, error) {
	switch r.kind {
	case refPersistent:
		if int(r.index) < len(p.persistent) {
			return p.persistent[r.index], nil
		}
	case refFrame:
		if int(r.index) < len(p.frame) {
			return p.frame[r.index], nil
		}
	}
	return nil, ErrInvalidRef
}

// ResetFrame invalidates all frame refs and reclaims the frame tier for the
// next frame. Constant time: slots are truncated, not zeroed, so mesh
// memory lingers until the slot is overwritten next frame.
func (p *Pool) ResetFrame() {
	p.frame = p.frame[:0]
}

// ClearPersistent drops every persistent mesh, for example when the GPU
// device is lost and all uploads must be redone.
func (p *Pool) ClearPersistent() {
	p.persistent = nil
	p.byHash = nil
}

// Stats returns a snapshot of pool occupancy.
func (p *Pool) Stats() Stats {
	var s Stats
	s.PersistentCount = len(p.persistent)
	for _, m := range p.persistent {
		s.PersistentVertices += len(m.Vertices)
		s.PersistentIndices += len(m.Indices)
	}
	s.FrameCount = len(p.frame)
	for _, m := range p.frame {
		s.FrameVertices += len(m.Vertices)
		s.FrameIndices += len(m.Indices)
	}
	return s
}
