package segdeque

import (
	"fmt"
	"sync"
)

var (
	_ Allocator = HeapAllocator{}
	_ Allocator = (*LimitAllocator)(nil)
)

// Allocator accounts for the storage a Deque asks for. Memory itself comes
// from the Go heap; an Allocator decides whether a request may proceed.
//
// Allocate must either succeed completely or return an error wrapping
// ErrOutOfMemory. Free is called with exactly the byte counts previously
// allocated.
type Allocator interface {
	Allocate(bytes int) error
	Free(bytes int)
}

// HeapAllocator never refuses a request.
type HeapAllocator struct{}

func (HeapAllocator) Allocate(int) error { return nil }
func (HeapAllocator) Free(int)           {}

// LimitAllocator refuses requests once the bytes in use would exceed a fixed
// budget. It is safe for concurrent use, so a single budget can be shared by
// several Deques.
type LimitAllocator struct {
	lock  sync.Mutex
	limit int
	inUse int
}

// NewLimitAllocator returns an Allocator with a budget of limit bytes.
func NewLimitAllocator(limit int) *LimitAllocator {
	return &LimitAllocator{limit: limit}
}

func (a *LimitAllocator) Allocate(bytes int) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.inUse+bytes > a.limit {
		return fmt.Errorf("%w: %d bytes requested, %d of %d in use",
			ErrOutOfMemory, bytes, a.inUse, a.limit)
	}
	a.inUse += bytes
	return nil
}

func (a *LimitAllocator) Free(bytes int) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.inUse -= bytes
}

// InUse returns the bytes currently accounted to live blocks and slot arrays.
func (a *LimitAllocator) InUse() int {
	a.lock.Lock()
	defer a.lock.Unlock()

	return a.inUse
}

// SetLimit changes the budget. Lowering it below InUse does not reclaim
// anything; it only makes further requests fail.
func (a *LimitAllocator) SetLimit(limit int) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.limit = limit
}
