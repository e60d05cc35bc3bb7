package faststr

import "github.com/zeusync/faststr/pkg/memory"

var allocator memory.Allocator = memory.Heap{}

// SetAllocator installs a as the allocator for suffix buffers and returns a
// func restoring the previous one. A nil a restores the Go heap allocator.
//
// It is meant for process start-up and tests: it must not run concurrently
// with other operations, and every Str must be released under the allocator
// that created it.
func SetAllocator(a memory.Allocator) (restore func()) {
	if a == nil {
		a = memory.Heap{}
	}
	prev := allocator
	allocator = a
	return func() { allocator = prev }
}

// Allocator returns the allocator currently used for suffix buffers.
func Allocator() memory.Allocator {
	return allocator
}
