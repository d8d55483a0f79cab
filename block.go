package segdeque

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
)

// blockStore hands out fixed-size blocks and slot arrays, charging each one
// to the Allocator. It never touches the elements inside a block.
type blockStore[T any] struct {
	size      int // elements per block
	elemBytes int
	slotBytes int
	alloc     Allocator
	log       *zap.Logger
}

func newBlockStore[T any](size int, alloc Allocator, log *zap.Logger) *blockStore[T] {
	var (
		zero T
		slot []T
	)
	return &blockStore[T]{
		size:      size,
		elemBytes: int(unsafe.Sizeof(zero)),
		slotBytes: int(unsafe.Sizeof(slot)),
		alloc:     alloc,
		log:       log,
	}
}

func (s *blockStore[T]) blockBytes() int { return s.size * s.elemBytes }

func (s *blockStore[T]) allocateBlock() ([]T, error) {
	bytes := s.blockBytes()
	if err := s.alloc.Allocate(bytes); err != nil {
		s.log.Debug("block allocation refused",
			zap.Int("blockSize", s.size),
			zap.Int("bytes", bytes),
			zap.Error(err),
		)
		return nil, fmt.Errorf("allocating block: %w", err)
	}
	return make([]T, s.size), nil
}

// freeBlock gives the block back. Live elements must already be destroyed.
func (s *blockStore[T]) freeBlock(b []T) {
	if b == nil {
		return
	}
	s.alloc.Free(s.blockBytes())
}

func (s *blockStore[T]) allocateSlots(n int) ([][]T, error) {
	bytes := n * s.slotBytes
	if err := s.alloc.Allocate(bytes); err != nil {
		s.log.Debug("index array allocation refused",
			zap.Int("slots", n),
			zap.Int("bytes", bytes),
			zap.Error(err),
		)
		return nil, fmt.Errorf("allocating %d slots: %w", n, err)
	}
	return make([][]T, n), nil
}

// freeSlots gives the slot array back, not the blocks it references.
func (s *blockStore[T]) freeSlots(slots [][]T) {
	if slots == nil {
		return
	}
	s.alloc.Free(len(slots) * s.slotBytes)
}
