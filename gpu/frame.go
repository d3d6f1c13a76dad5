package gpu

import (
	"errors"
	"fmt"
)

// NumFrames is the number of rotating buffer slots. Three lets the CPU
// write frame N+1 while the GPU may still be reading frame N-1.
const NumFrames = 3

// DefaultMaxBufferSize caps a single buffer's growth when Config leaves it
// zero.
const DefaultMaxBufferSize = 128 << 20

// ErrBufferLimit reports that a requested upload cannot fit even after
// growing the buffer to its maximum size.
var ErrBufferLimit = errors.New("gpu: buffer growth beyond maximum size")

type bufferSlot struct {
	id       BufferID
	capacity int
	cursor   int

	// retired holds outgrown buffers still referenced by draws recorded
	// earlier this frame. They are destroyed when the slot next rotates
	// in, after the GPU has consumed the frame.
	retired []BufferID
}

// FrameBuffers manages one pipeline's triple-buffered vertex/index buffer
// pair. Each of the three slots has an independent capacity that only
// grows and an independent write cursor reset when the slot is reused.
// Frame pacing is the caller's job: a slot must not be written until the
// GPU has finished reading it from NumFrames frames prior.
type FrameBuffers struct {
	backend Backend
	maxSize int

	slot   int
	vertex [NumFrames]bufferSlot
	index  [NumFrames]bufferSlot
}

// NewFrameBuffers creates the manager. Buffers allocate lazily on first
// append. maxSize caps a single buffer's byte size; non-positive selects
// DefaultMaxBufferSize.
func NewFrameBuffers(backend Backend, maxSize int) *FrameBuffers {
	if maxSize <= 0 {
		maxSize = DefaultMaxBufferSize
	}
	return &FrameBuffers{backend: backend, maxSize: maxSize}
}

// NextFrame rotates to the next slot, resets its write cursors, and
// destroys buffers the slot outgrew last time around. Call once per frame
// before the pipeline's first upload.
func (f *FrameBuffers) NextFrame() {
	f.slot = (f.slot + 1) % NumFrames
	f.recycle(&f.vertex[f.slot])
	f.recycle(&f.index[f.slot])
}

func (f *FrameBuffers) recycle(s *bufferSlot) {
	for _, id := range s.retired {
		f.backend.DestroyBuffer(id)
	}
	s.retired = s.retired[:0]
	s.cursor = 0
}

// VertexBuffer returns the current slot's vertex buffer, zero before the
// first append.
func (f *FrameBuffers) VertexBuffer() BufferID { return f.vertex[f.slot].id }

// IndexBuffer returns the current slot's index buffer, zero before the
// first append.
func (f *FrameBuffers) IndexBuffer() BufferID { return f.index[f.slot].id }

// VertexCursor returns the current slot's vertex write position in bytes.
func (f *FrameBuffers) VertexCursor() int { return f.vertex[f.slot].cursor }

// IndexCursor returns the current slot's index write position in bytes.
func (f *FrameBuffers) IndexCursor() int { return f.index[f.slot].cursor }

// VertexCapacity returns the current slot's vertex buffer capacity in
// bytes.
func (f *FrameBuffers) VertexCapacity() int { return f.vertex[f.slot].capacity }

// IndexCapacity returns the current slot's index buffer capacity in bytes.
func (f *FrameBuffers) IndexCapacity() int { return f.index[f.slot].capacity }

// AppendVertices writes data at the current slot's vertex cursor, growing
// the buffer if needed, and returns the byte offset the data landed at.
func (f *FrameBuffers) AppendVertices(data []byte) (int, error) {
	return f.append(&f.vertex[f.slot], BufferUsageVertex, data)
}

// AppendIndices writes data at the current slot's index cursor, growing
// the buffer if needed, and returns the byte offset the data landed at.
func (f *FrameBuffers) AppendIndices(data []byte) (int, error) {
	return f.append(&f.index[f.slot], BufferUsageIndex, data)
}

// Append commits one upload's vertex and index data as a unit: both
// cursors advance or neither does. Returns the byte offsets the two
// payloads landed at. Pipelines use this so a rejected upload never
// leaves one buffer holding committed bytes of a draw that will not run.
func (f *FrameBuffers) Append(verts, indices []byte) (vertexOffset, indexOffset int, err error) {
	vs := &f.vertex[f.slot]
	is := &f.index[f.slot]

	// Secure capacity in both buffers before writing either.
	if needed := vs.cursor + len(verts); needed > vs.capacity {
		if err := f.grow(vs, BufferUsageVertex, needed); err != nil {
			return 0, 0, err
		}
	}
	if needed := is.cursor + len(indices); needed > is.capacity {
		if err := f.grow(is, BufferUsageIndex, needed); err != nil {
			return 0, 0, err
		}
	}

	// The cursors are the commit point: bytes written before a failure
	// sit above them and the next upload overwrites them.
	if len(verts) > 0 {
		if err := f.backend.WriteBuffer(vs.id, vs.cursor, verts); err != nil {
			return 0, 0, err
		}
	}
	if len(indices) > 0 {
		if err := f.backend.WriteBuffer(is.id, is.cursor, indices); err != nil {
			return 0, 0, err
		}
	}

	vertexOffset, indexOffset = vs.cursor, is.cursor
	vs.cursor += len(verts)
	is.cursor += len(indices)
	return vertexOffset, indexOffset, nil
}

func (f *FrameBuffers) append(s *bufferSlot, usage BufferUsage, data []byte) (int, error) {
	needed := s.cursor + len(data)
	if needed > s.capacity {
		if err := f.grow(s, usage, needed); err != nil {
			return 0, err
		}
	}
	if len(data) > 0 {
		if err := f.backend.WriteBuffer(s.id, s.cursor, data); err != nil {
			return 0, err
		}
	}
	offset := s.cursor
	s.cursor = needed
	return offset, nil
}

// grow allocates a replacement buffer at max(needed, 2x current capacity),
// capped at maxSize. The outgrown buffer is retired, not destroyed: draws
// recorded earlier this frame still read from it, so it stays alive until
// the slot's next rotation. Bytes below the cursor are not copied into the
// new buffer; earlier uploads keep drawing from the buffer they were
// recorded against, and later uploads bind the new one.
func (f *FrameBuffers) grow(s *bufferSlot, usage BufferUsage, needed int) error {
	if needed > f.maxSize {
		return fmt.Errorf("%w: need %d bytes, maximum %d", ErrBufferLimit, needed, f.maxSize)
	}
	newCap := 2 * s.capacity
	if newCap < needed {
		newCap = needed
	}
	if newCap > f.maxSize {
		newCap = f.maxSize
	}

	id, err := f.backend.CreateBuffer(newCap, usage)
	if err != nil {
		return err
	}
	if s.id != 0 {
		s.retired = append(s.retired, s.id)
	}
	s.id = id
	s.capacity = newCap
	return nil
}

// Release destroys all buffers across all slots, retired ones included,
// for device teardown.
func (f *FrameBuffers) Release() {
	for i := range f.vertex {
		f.releaseSlot(&f.vertex[i])
		f.releaseSlot(&f.index[i])
	}
}

func (f *FrameBuffers) releaseSlot(s *bufferSlot) {
	for _, id := range s.retired {
		f.backend.DestroyBuffer(id)
	}
	if s.id != 0 {
		f.backend.DestroyBuffer(s.id)
	}
	*s = bufferSlot{}
}
