// Package native renders draw batches through gogpu/wgpu's HAL layer.
//
// It implements the gpu.Backend and gpu.RenderPass interfaces on top of
// hal.Device and hal.Queue, owning the render pipelines, the per-frame
// uniform ring, and the BufferID-to-hal.Buffer mapping. The device itself
// can come from a shared gpucontext provider or from a standalone Vulkan
// bootstrap.
package native

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/quillgfx/quill/gpu"
)

// Adapter implements gpu.Backend over a HAL device and queue.
//
// Adapter is safe for concurrent use. Buffer lookups take a read lock;
// creation and destruction take the write lock.
type Adapter struct {
	device hal.Device
	queue  hal.Queue

	mu      sync.RWMutex
	buffers map[gpu.BufferID]hal.Buffer

	nextID atomic.Uint64
}

// NewAdapter wraps a HAL device and queue. The adapter does not own them;
// closing the device is the caller's concern.
func NewAdapter(device hal.Device, queue hal.Queue) *Adapter {
	a := &Adapter{
		device:  device,
		queue:   queue,
		buffers: make(map[gpu.BufferID]hal.Buffer),
	}
	// 0 is the invalid ID.
	a.nextID.Store(1)
	return a
}

// CreateBuffer allocates a GPU buffer writable through WriteBuffer.
func (a *Adapter) CreateBuffer(size int, usage gpu.BufferUsage) (gpu.BufferID, error) {
	if size <= 0 {
		return 0, fmt.Errorf("buffer size must be positive, got %d", size)
	}

	buffer, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: bufferLabel(usage),
		Size:  uint64(size),
		Usage: convertUsage(usage),
	})
	if err != nil {
		return 0, fmt.Errorf("create buffer: %w", err)
	}

	id := gpu.BufferID(a.nextID.Add(1) - 1)

	a.mu.Lock()
	a.buffers[id] = buffer
	a.mu.Unlock()

	return id, nil
}

// WriteBuffer copies data into a buffer at a byte offset.
func (a *Adapter) WriteBuffer(id gpu.BufferID, offset int, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	a.mu.RLock()
	buffer, ok := a.buffers[id]
	a.mu.RUnlock()

	if !ok {
		return fmt.Errorf("buffer %d not found", id)
	}
	a.queue.WriteBuffer(buffer, uint64(offset), data)
	return nil
}

// DestroyBuffer releases a buffer. Unknown IDs, including zero, are
// ignored.
func (a *Adapter) DestroyBuffer(id gpu.BufferID) {
	a.mu.Lock()
	buffer, ok := a.buffers[id]
	if ok {
		delete(a.buffers, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyBuffer(buffer)
	}
}

// halBuffer resolves a BufferID for pass recording.
func (a *Adapter) halBuffer(id gpu.BufferID) (hal.Buffer, bool) {
	a.mu.RLock()
	buffer, ok := a.buffers[id]
	a.mu.RUnlock()
	return buffer, ok
}

// convertUsage maps a gpu.BufferUsage to HAL usage flags. Every buffer
// carries CopyDst so WriteBuffer can fill it.
func convertUsage(usage gpu.BufferUsage) gputypes.BufferUsage {
	switch usage {
	case gpu.BufferUsageVertex:
		return gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst
	case gpu.BufferUsageIndex:
		return gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst
	case gpu.BufferUsageUniform:
		return gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst
	default:
		return gputypes.BufferUsageCopyDst
	}
}

func bufferLabel(usage gpu.BufferUsage) string {
	switch usage {
	case gpu.BufferUsageVertex:
		return "quill_vertex"
	case gpu.BufferUsageIndex:
		return "quill_index"
	case gpu.BufferUsageUniform:
		return "quill_uniform"
	default:
		return "quill_buffer"
	}
}
