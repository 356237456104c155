// Package pool provides reusable chunk buffers for relayed file bytes.
//
// Relayed chunks are copied out of the producer's slice so the producer can
// reuse it; pooling those copies keeps a busy relay from allocating per chunk.
package pool

import (
	"sync"
)

const (
	// SmallBufferSize is the chunk class for small writes (4KB)
	SmallBufferSize = 4 * 1024
	// MediumBufferSize is the chunk class for typical relay segments (32KB)
	MediumBufferSize = 32 * 1024
	// LargeBufferSize is the largest pooled chunk class (256KB)
	LargeBufferSize = 256 * 1024
)

var classSizes = [...]int{SmallBufferSize, MediumBufferSize, LargeBufferSize}

// BufferPool manages reusable buffers grouped by size class.
// It is safe for concurrent use.
type BufferPool struct {
	classes [len(classSizes)]*sync.Pool
}

// NewBufferPool creates a new buffer pool with the default size classes.
func NewBufferPool() *BufferPool {
	bp := &BufferPool{}
	for i, size := range classSizes {
		bp.classes[i] = &sync.Pool{
			New: func() any {
				buf := make([]byte, 0, size)
				return &buf
			},
		}
	}
	return bp
}

// Get returns a zero-length buffer with capacity for at least size bytes.
// Requests above LargeBufferSize are allocated and never pooled.
// The caller is responsible for calling Put once the buffer is no longer referenced.
func (bp *BufferPool) Get(size int) []byte {
	for i, classSize := range classSizes {
		if size <= classSize {
			bufPtr := bp.classes[i].Get().(*[]byte)
			return (*bufPtr)[:0]
		}
	}
	return make([]byte, 0, size)
}

// Put returns a buffer to the class matching its capacity.
// Buffers that do not match a class exactly are dropped.
func (bp *BufferPool) Put(buf []byte) {
	for i, classSize := range classSizes {
		if cap(buf) == classSize {
			buf = buf[:0]
			bp.classes[i].Put(&buf)
			return
		}
	}
}

// Global buffer pool instance for use throughout the module.
var globalBufferPool = NewBufferPool()

// GetBuffer returns a buffer from the global pool for the specified size.
func GetBuffer(size int) []byte {
	return globalBufferPool.Get(size)
}

// PutBuffer returns a buffer to the global pool.
func PutBuffer(buf []byte) {
	globalBufferPool.Put(buf)
}
