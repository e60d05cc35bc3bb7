package memory

import (
	"math/bits"
	"sync"
	"sync/atomic"
)

const (
	minClassShift = 4  // 16 bytes
	maxClassShift = 16 // 64 KiB
	numClasses    = maxClassShift - minClassShift + 1
)

var (
	_ Allocator   = (*Pool)(nil)
	_ StatsSource = (*Pool)(nil)
)

// Pool recycles buffers in power-of-two size classes. Requests above the
// largest class go straight to the Go heap and are not recycled.
type Pool struct {
	classes [numClasses]bufferPool

	allocs atomic.Uint64
	frees  atomic.Uint64
	live   atomic.Int64
	total  atomic.Uint64
}

type bufferPool struct {
	pool sync.Pool
}

func newBufferPool(size int) bufferPool {
	return bufferPool{
		pool: sync.Pool{
			New: func() any {
				b := make([]byte, size)
				return &b
			},
		},
	}
}

func (p *bufferPool) Get() *[]byte {
	return p.pool.Get().(*[]byte)
}

func (p *bufferPool) Put(b *[]byte) {
	p.pool.Put(b)
}

func NewPool() *Pool {
	p := &Pool{}
	for i := range p.classes {
		p.classes[i] = newBufferPool(1 << (i + minClassShift))
	}
	return p
}

// classOf returns the class index for size, or -1 when size is too large.
func classOf(size int) int {
	if size <= 1<<minClassShift {
		return 0
	}
	shift := bits.Len(uint(size - 1))
	if shift > maxClassShift {
		return -1
	}
	return shift - minClassShift
}

func (p *Pool) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}

	p.allocs.Add(1)
	p.live.Add(int64(size))
	p.total.Add(uint64(size))

	c := classOf(size)
	if c < 0 {
		return make([]byte, size), nil
	}
	b := *p.classes[c].Get()
	b = b[:size]
	clear(b)
	return b, nil
}

func (p *Pool) Free(buf []byte) {
	if buf == nil {
		return
	}
	p.frees.Add(1)
	p.live.Add(-int64(len(buf)))

	c := classOf(cap(buf))
	if c < 0 || cap(buf) != 1<<(c+minClassShift) {
		return
	}
	full := buf[:cap(buf)]
	p.classes[c].Put(&full)
}

func (p *Pool) Stats() Stats {
	allocs, frees := p.allocs.Load(), p.frees.Load()
	return Stats{
		Allocs:     allocs,
		Frees:      frees,
		LiveBytes:  p.live.Load(),
		LiveBufs:   int64(allocs) - int64(frees),
		TotalBytes: p.total.Load(),
	}
}
