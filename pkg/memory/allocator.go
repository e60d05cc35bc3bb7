// Package memory provides the allocators that back heap-resident string
// suffixes. An Allocator hands out byte buffers of an exact length and takes
// them back exactly once.
package memory

import "errors"

var (
	ErrBudgetExceeded = errors.New("memory budget exceeded")
	ErrInvalidSize    = errors.New("invalid allocation size")
	ErrUnknownBuffer  = errors.New("buffer was not allocated by this allocator")
	ErrSizeMismatch   = errors.New("freed size does not match allocated size")
)

// Allocator allocates and releases byte buffers.
//
// Alloc returns a buffer with len == size. Free must receive the full buffer
// returned by Alloc (same pointer, same length) and must be called once per
// buffer.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(buf []byte)
}

// StatsSource is implemented by allocators that keep counters.
type StatsSource interface {
	Stats() Stats
}

// Stats is a snapshot of allocator activity.
type Stats struct {
	Allocs     uint64
	Frees      uint64
	Failures   uint64
	Faults     uint64
	LiveBytes  int64
	LiveBufs   int64
	TotalBytes uint64
}

var _ Allocator = Heap{}

// Heap allocates from the Go heap and leaves reclamation to the garbage
// collector.
type Heap struct{}

func (Heap) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}
	return make([]byte, size), nil
}

func (Heap) Free([]byte) {}
