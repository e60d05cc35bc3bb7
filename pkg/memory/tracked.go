package memory

import (
	"fmt"
	"sync"

	"github.com/zeusync/faststr/pkg/log"
)

var (
	_ Allocator   = (*Tracked)(nil)
	_ StatsSource = (*Tracked)(nil)
)

// Tracked wraps another allocator, enforces an optional byte budget and
// checks that every buffer is freed exactly once with its allocated length.
type Tracked struct {
	inner  Allocator
	budget int64
	logger log.Log

	mu    sync.Mutex
	live  map[*byte]int
	stats Stats
}

// NewTracked returns a tracking allocator over inner. A budget of zero means
// unlimited. A nil logger logs nothing.
func NewTracked(inner Allocator, budget int64, logger log.Log) *Tracked {
	if inner == nil {
		inner = Heap{}
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Tracked{
		inner:  inner,
		budget: budget,
		logger: logger.With(log.String("component", "memory.tracked")),
		live:   make(map[*byte]int),
	}
}

func (t *Tracked) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}
	if size == 0 {
		return []byte{}, nil
	}

	t.mu.Lock()
	if t.budget > 0 && t.stats.LiveBytes+int64(size) > t.budget {
		t.stats.Failures++
		live := t.stats.LiveBytes
		t.mu.Unlock()
		t.logger.Warn("allocation refused",
			log.Int("size", size),
			log.Int64("live_bytes", live),
			log.Int64("budget", t.budget),
		)
		return nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use", ErrBudgetExceeded, size, live, t.budget)
	}
	// Reserve the bytes before calling into inner so concurrent callers
	// cannot overshoot the budget.
	t.stats.LiveBytes += int64(size)
	t.mu.Unlock()

	buf, err := t.inner.Alloc(size)
	if err != nil {
		t.mu.Lock()
		t.stats.LiveBytes -= int64(size)
		t.stats.Failures++
		t.mu.Unlock()
		t.logger.Warn("inner allocation failed", log.Int("size", size), log.Error(err))
		return nil, err
	}

	t.mu.Lock()
	t.live[&buf[0]] = size
	t.stats.Allocs++
	t.stats.LiveBufs++
	t.stats.TotalBytes += uint64(size)
	t.mu.Unlock()

	t.logger.Debug("alloc", log.Int("size", size))
	return buf, nil
}

func (t *Tracked) Free(buf []byte) {
	if len(buf) == 0 {
		return
	}

	key := &buf[0]
	t.mu.Lock()
	size, ok := t.live[key]
	if !ok {
		t.stats.Faults++
		t.mu.Unlock()
		t.logger.Error("free of unknown buffer", log.Int("size", len(buf)), log.Error(ErrUnknownBuffer))
		return
	}
	delete(t.live, key)
	t.stats.Frees++
	t.stats.LiveBufs--
	t.stats.LiveBytes -= int64(size)
	mismatch := size != len(buf)
	if mismatch {
		t.stats.Faults++
	}
	t.mu.Unlock()

	if mismatch {
		t.logger.Error("free with wrong size",
			log.Int("allocated", size),
			log.Int("freed", len(buf)),
			log.Error(ErrSizeMismatch),
		)
	} else {
		t.logger.Debug("free", log.Int("size", size))
	}
	t.inner.Free(buf)
}

func (t *Tracked) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Budget returns the configured byte budget, zero when unlimited.
func (t *Tracked) Budget() int64 {
	return t.budget
}
