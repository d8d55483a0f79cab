package segdeque

// Iterator is a random-access position inside a Deque. It caches the block
// of the slot it sits on, so dereferencing never consults the index array;
// arithmetic re-seats it whenever it crosses a block boundary.
//
// An Iterator is a value: Next, Prev and Add return moved copies. Iterators
// are invalidated by any operation that inserts or removes elements, except
// that Begin and End always return fresh ones.
type Iterator[T any] struct {
	m     *indexArray[T]
	slot  int
	block []T
	cur   int
}

// seat points the iterator at slot and refreshes the cached block. cur is
// left for the caller to set.
func (it *Iterator[T]) seat(slot int) {
	it.slot = slot
	it.block = it.m.block(slot)
}

func (it *Iterator[T]) blockSize() int { return it.m.store.size }

func (it *Iterator[T]) increment() {
	it.cur++
	if it.cur == it.blockSize() {
		it.seat(it.slot + 1)
		it.cur = 0
	}
}

func (it *Iterator[T]) decrement() {
	if it.cur == 0 {
		it.seat(it.slot - 1)
		it.cur = it.blockSize()
	}
	it.cur--
}

func (it *Iterator[T]) advance(n int) {
	size := it.blockSize()
	offset := it.cur + n
	if offset >= 0 && offset < size {
		it.cur = offset
		return
	}
	node := floorDiv(offset, size)
	it.seat(it.slot + node)
	it.cur = offset - node*size
}

func (it *Iterator[T]) distance(from *Iterator[T]) int {
	if it.slot == from.slot {
		return it.cur - from.cur
	}
	return (it.slot-from.slot)*it.blockSize() + it.cur - from.cur
}

// Value returns the element the iterator points at.
func (it Iterator[T]) Value() T { return it.block[it.cur] }

// Pointer returns the address of the element. Elements never move while the
// Deque grows or shrinks at the ends, so the pointer stays valid until the
// element is removed or shifted by a middle insert or erase.
func (it Iterator[T]) Pointer() *T { return &it.block[it.cur] }

// Set overwrites the element the iterator points at.
func (it Iterator[T]) Set(t T) { it.block[it.cur] = t }

// At returns the element n positions away, like it[n].
func (it Iterator[T]) At(n int) T { return it.Add(n).Value() }

// Next returns an iterator to the following position.
func (it Iterator[T]) Next() Iterator[T] {
	it.increment()
	return it
}

// Prev returns an iterator to the preceding position.
func (it Iterator[T]) Prev() Iterator[T] {
	it.decrement()
	return it
}

// Add returns an iterator moved by n positions, which may be negative.
func (it Iterator[T]) Add(n int) Iterator[T] {
	it.advance(n)
	return it
}

// Distance returns the number of positions from `from` to it, so that
// from.Add(it.Distance(from)) equals it.
func (it Iterator[T]) Distance(from Iterator[T]) int { return it.distance(&from) }

// Compare orders iterators by block, then by position inside the block.
func (it Iterator[T]) Compare(o Iterator[T]) int {
	switch {
	case it.slot < o.slot:
		return -1
	case it.slot > o.slot:
		return 1
	case it.cur < o.cur:
		return -1
	case it.cur > o.cur:
		return 1
	}
	return 0
}

// Equal reports whether both iterators point at the same position.
func (it Iterator[T]) Equal(o Iterator[T]) bool { return it.slot == o.slot && it.cur == o.cur }

// Less reports whether it comes before o.
func (it Iterator[T]) Less(o Iterator[T]) bool { return it.Compare(o) < 0 }

// floorDiv divides rounding toward negative infinity. b must be positive.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}
