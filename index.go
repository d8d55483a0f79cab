package segdeque

import "go.uber.org/zap"

// minSlots is the spare room ShrinkToFit leaves around the live blocks.
const minSlots = 8

// indexArray owns the slot array and every block reachable from it. Slots
// outside the live range [lo, hi] handed in by the Deque are always nil.
type indexArray[T any] struct {
	store *blockStore[T]
	slots [][]T
}

// newIndexArray builds an index array of n slots with a single block at the
// center, returning the center slot.
func newIndexArray[T any](store *blockStore[T], n int) (*indexArray[T], int, error) {
	slots, err := store.allocateSlots(n)
	if err != nil {
		return nil, 0, err
	}
	b, err := store.allocateBlock()
	if err != nil {
		store.freeSlots(slots)
		return nil, 0, err
	}
	center := (n - 1) / 2
	slots[center] = b
	return &indexArray[T]{store: store, slots: slots}, center, nil
}

// block returns the storage a cursor seated on slot addresses.
func (m *indexArray[T]) block(slot int) []T { return m.slots[slot] }

func (m *indexArray[T]) len() int { return len(m.slots) }

// liveBlocks counts the allocated slots.
func (m *indexArray[T]) liveBlocks() int {
	n := 0
	for _, b := range m.slots {
		if b != nil {
			n++
		}
	}
	return n
}

// release frees the block at slot and empties the slot.
func (m *indexArray[T]) release(slot int) {
	m.store.freeBlock(m.slots[slot])
	m.slots[slot] = nil
}

// releaseAll frees every block and the slot array itself.
func (m *indexArray[T]) releaseAll() {
	for slot := range m.slots {
		m.release(slot)
	}
	m.store.freeSlots(m.slots)
	m.slots = nil
}

// requireAfter returns the slot following the live range [lo, hi] with a
// block installed in it. shift is how far the live range moved if the slot
// array had to be reorganized; the returned slot is already shifted. On
// error nothing has changed.
func (m *indexArray[T]) requireAfter(lo, hi int) (slot, shift int, err error) {
	if hi+1 < len(m.slots) && m.slots[hi+1] != nil {
		return hi + 1, 0, nil
	}
	b, err := m.store.allocateBlock()
	if err != nil {
		return 0, 0, err
	}
	shift, err = m.reserve(lo, hi, 1, false)
	if err != nil {
		m.store.freeBlock(b)
		return 0, 0, err
	}
	slot = hi + shift + 1
	m.slots[slot] = b
	return slot, shift, nil
}

// requireBefore is the mirror image of requireAfter.
func (m *indexArray[T]) requireBefore(lo, hi int) (slot, shift int, err error) {
	if lo > 0 && m.slots[lo-1] != nil {
		return lo - 1, 0, nil
	}
	b, err := m.store.allocateBlock()
	if err != nil {
		return 0, 0, err
	}
	shift, err = m.reserve(lo, hi, 1, true)
	if err != nil {
		m.store.freeBlock(b)
		return 0, 0, err
	}
	slot = lo + shift - 1
	m.slots[slot] = b
	return slot, shift, nil
}

// reserve makes sure n free slots exist before lo (front) or after hi. When
// the array is mostly empty the live range is recentered in place, which
// cannot fail; otherwise the array is regrown. It returns the shift applied
// to the live range.
func (m *indexArray[T]) reserve(lo, hi, n int, front bool) (int, error) {
	if front && lo >= n || !front && hi+n < len(m.slots) {
		return 0, nil
	}

	live := hi - lo + 1
	want := live + n
	if len(m.slots) > 2*want {
		newLo := (len(m.slots) - want) / 2
		if front {
			newLo += n
		}
		copy(m.slots[newLo:], m.slots[lo:hi+1])
		clear(m.slots[:newLo])
		clear(m.slots[newLo+live:])

		m.store.log.Debug("recentered index array",
			zap.Int("slots", len(m.slots)),
			zap.Int("liveBlocks", live),
			zap.Int("shift", newLo-lo),
		)
		return newLo - lo, nil
	}
	return m.grow(lo, hi, n, front)
}

// grow moves the live range into a new, larger slot array:
// max(2*size, size+n+2) slots with the live range centered and n slots of
// bias toward the growing side.
func (m *indexArray[T]) grow(lo, hi, n int, front bool) (int, error) {
	live := hi - lo + 1
	oldSize := len(m.slots)
	newSize := max(2*oldSize, oldSize+n+2)
	slots, err := m.store.allocateSlots(newSize)
	if err != nil {
		return 0, err
	}

	newLo := (newSize - live - n) / 2
	if front {
		newLo += n
	}
	copy(slots[newLo:], m.slots[lo:hi+1])
	m.store.freeSlots(m.slots)
	m.slots = slots

	m.store.log.Debug("grew index array",
		zap.Int("oldSlots", oldSize),
		zap.Int("newSlots", newSize),
		zap.Int("liveBlocks", live),
		zap.Bool("front", front),
	)
	return newLo - lo, nil
}

// shrink moves the live range into an array of live+minSlots slots. It is a
// no-op when the array is already that small.
func (m *indexArray[T]) shrink(lo, hi int) (int, error) {
	live := hi - lo + 1
	newSize := live + minSlots
	if newSize >= len(m.slots) {
		return 0, nil
	}
	slots, err := m.store.allocateSlots(newSize)
	if err != nil {
		return 0, err
	}

	newLo := (newSize - live) / 2
	copy(slots[newLo:], m.slots[lo:hi+1])
	m.store.freeSlots(m.slots)
	oldSize := len(m.slots)
	m.slots = slots

	m.store.log.Debug("shrank index array",
		zap.Int("oldSlots", oldSize),
		zap.Int("newSlots", newSize),
		zap.Int("liveBlocks", live),
	)
	return newLo - lo, nil
}
