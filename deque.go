package segdeque

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"go.uber.org/zap"
)

// Deque is a double-ended queue with O(1) random access, built from fixed
// size blocks referenced by an index array. Pushing at either end never
// moves stored elements: new blocks are hung off the index array, and only
// the index array is ever reallocated.
//
// To create a Deque instance, you must use one of the available constructors,
// MakeDeque(), NewDeque(opts...), CopySliceToDeque(s) or Collect(seq). nil
// Deques panic when called, except for Len. Creating a Deque in the following
// way is wrong:
//
//	var deque Deque[int] // wrong
//
// A Deque is not safe for concurrent use.
type Deque[T any] struct {
	m             *indexArray[T]
	start, finish Iterator[T]
	size          int
	cfg           Config
}

/*****************************************************************************
 * CONSTRUCTORS
 *****************************************************************************/

// MakeDeque builds a Deque with the default configuration: blocks of 512
// bytes, 8 index slots and no allocation budget.
func MakeDeque[T any]() *Deque[T] {
	// The heap allocator never refuses, so this cannot fail.
	d, _ := NewDeque[T]()
	return d
}

// NewDeque builds an empty Deque. It allocates the index array and one
// block, so it fails with ErrOutOfMemory if the Allocator refuses either.
func NewDeque[T any](opts ...Option) (*Deque[T], error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newDeque[T](cfg)
}

func newDeque[T any](cfg Config) (*Deque[T], error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	if cfg.Allocator == nil {
		cfg.Allocator = HeapAllocator{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	store := newBlockStore[T](blockSizeOf[T](&cfg), cfg.Allocator, cfg.Logger)
	m, center, err := newIndexArray(store, cfg.MapSize)
	if err != nil {
		return nil, err
	}
	d := &Deque[T]{m: m, cfg: cfg}
	d.start = Iterator[T]{m: m}
	d.start.seat(center)
	d.finish = d.start
	return d, nil
}

// CopySliceToDeque builds a default Deque holding a copy of s.
func CopySliceToDeque[T any](s []T) *Deque[T] {
	d := MakeDeque[T]()
	_ = d.PushBack(s...)
	return d
}

// Collect collects values from seq into a new default Deque.
func Collect[T any](seq iter.Seq[T]) *Deque[T] {
	d := MakeDeque[T]()
	for t := range seq {
		_ = d.pushBack(t)
	}
	return d
}

/*****************************************************************************
 * DEQUE API
 *****************************************************************************/

// Len returns the number of elements in the Deque or 0 if nil.
func (d *Deque[T]) Len() int {
	if d == nil {
		return 0
	}
	return d.size
}

// Empty returns whether the Deque is empty.
func (d *Deque[T]) Empty() bool { return d.size == 0 }

// BlockSize returns the number of elements each block holds.
func (d *Deque[T]) BlockSize() int { return d.m.store.size }

// PushBack puts ts at the back of the Deque, the last argument becoming the
// new back. Either every element is pushed or, on ErrOutOfMemory, none is.
func (d *Deque[T]) PushBack(ts ...T) error {
	for i, t := range ts {
		if err := d.pushBack(t); err != nil {
			d.DropBack(i)
			return err
		}
	}
	return nil
}

// PushFront puts ts at the front of the Deque. The last argument is the new
// front of the list. Either every element is pushed or, on ErrOutOfMemory,
// none is.
func (d *Deque[T]) PushFront(ts ...T) error {
	for i, t := range ts {
		if err := d.pushFront(t); err != nil {
			d.DropFront(i)
			return err
		}
	}
	return nil
}

// pushBack keeps finish on a writable cell: once the back block fills up,
// the next block is required before returning.
func (d *Deque[T]) pushBack(t T) error {
	if d.finish.cur != d.BlockSize()-1 {
		d.finish.block[d.finish.cur] = t
		d.finish.cur++
		d.size++
		return nil
	}

	slot, shift, err := d.m.requireAfter(d.start.slot, d.finish.slot)
	if err != nil {
		return err
	}
	d.rebind(shift)
	d.finish.block[d.finish.cur] = t
	d.finish.seat(slot)
	d.finish.cur = 0
	d.size++
	return nil
}

func (d *Deque[T]) pushFront(t T) error {
	if d.start.cur != 0 {
		d.start.cur--
		d.start.block[d.start.cur] = t
		d.size++
		return nil
	}

	slot, shift, err := d.m.requireBefore(d.start.slot, d.finish.slot)
	if err != nil {
		return err
	}
	d.rebind(shift)
	d.start.seat(slot)
	d.start.cur = d.BlockSize() - 1
	d.start.block[d.start.cur] = t
	d.size++
	return nil
}

// rebind reseats start and finish after the live range moved by shift slots.
func (d *Deque[T]) rebind(shift int) {
	d.start.seat(d.start.slot + shift)
	d.finish.seat(d.finish.slot + shift)
}

// PeekBack returns the last element in the Deque. If the Deque is empty, it
// returns false.
func (d *Deque[T]) PeekBack() (t T, ok bool) {
	if d.Empty() {
		return
	}
	return d.finish.Prev().Value(), true
}

// PeekFront returns the first element in the Deque. If the Deque is empty, it
// returns false.
func (d *Deque[T]) PeekFront() (t T, ok bool) {
	if d.Empty() {
		return
	}
	return d.start.Value(), true
}

// PopBack removes the last element in the Deque and returns it. If it's empty,
// returns false. The vacated cell is zeroed so the garbage collector can
// reclaim whatever the element referenced, and a block left empty is freed.
func (d *Deque[T]) PopBack() (t T, ok bool) {
	if d.Empty() {
		return
	}
	if d.finish.cur != 0 {
		d.finish.cur--
	} else {
		d.m.release(d.finish.slot)
		d.finish.seat(d.finish.slot - 1)
		d.finish.cur = d.BlockSize() - 1
	}

	var zero T
	t = d.finish.block[d.finish.cur]
	d.finish.block[d.finish.cur] = zero
	d.size--
	return t, true
}

// PopFront removes the first element in the Deque and returns it. If it's
// empty, returns false. Like PopBack, it zeroes the cell and frees a block
// left empty.
func (d *Deque[T]) PopFront() (t T, ok bool) {
	if d.Empty() {
		return
	}

	var zero T
	t = d.start.block[d.start.cur]
	d.start.block[d.start.cur] = zero
	d.size--

	if d.start.cur != d.BlockSize()-1 {
		d.start.cur++
	} else {
		d.m.release(d.start.slot)
		d.start.seat(d.start.slot + 1)
		d.start.cur = 0
	}
	return t, true
}

// DropFront removes the n first elements of the Deque. If the Deque has fewer
// than n elements, it drops every element. If n is negative, no element is
// dropped.
func (d *Deque[T]) DropFront(n int) {
	for range min(max(n, 0), d.size) {
		d.PopFront()
	}
}

// DropBack removes the n last elements of the Deque. If the Deque has fewer
// than n elements, it drops every element. If n is negative, no element is
// dropped.
func (d *Deque[T]) DropBack(n int) {
	for range min(max(n, 0), d.size) {
		d.PopBack()
	}
}

// Clear empties the Deque, freeing every block except the one the front sits
// on. The index array keeps its size; call ShrinkToFit to give it back.
func (d *Deque[T]) Clear() {
	for slot := d.start.slot + 1; slot <= d.finish.slot; slot++ {
		d.m.release(slot)
	}
	clear(d.start.block)
	d.finish = d.start
	d.size = 0
}

// ShrinkToFit reallocates the index array to the live blocks plus a small
// margin. On ErrOutOfMemory the Deque is left untouched.
func (d *Deque[T]) ShrinkToFit() error {
	shift, err := d.m.shrink(d.start.slot, d.finish.slot)
	if err != nil {
		return err
	}
	d.rebind(shift)
	return nil
}

// Release hands every block and the index array back to the Allocator. It
// only matters when the Allocator enforces a budget; the Deque must not be
// used afterwards.
func (d *Deque[T]) Release() {
	d.m.releaseAll()
	d.start, d.finish = Iterator[T]{}, Iterator[T]{}
	d.size = 0
}

/*****************************************************************************
 * RANDOM ACCESS API
 *****************************************************************************/

// Begin returns an iterator to the first element.
func (d *Deque[T]) Begin() Iterator[T] { return d.start }

// End returns an iterator one past the last element.
func (d *Deque[T]) End() Iterator[T] { return d.finish }

// At returns the i-th element, or ErrOutOfRange.
func (d *Deque[T]) At(i int) (t T, err error) {
	if err = d.checkBounds(i); err != nil {
		return
	}
	return d.AtUnsafe(i), nil
}

// AtUnsafe returns the i-th element without checking i against Len. An index
// outside the Deque either panics or returns garbage from a spare cell.
func (d *Deque[T]) AtUnsafe(i int) T { return d.start.Add(i).Value() }

// Set writes t to the i-th position, or returns ErrOutOfRange.
func (d *Deque[T]) Set(i int, t T) error {
	if err := d.checkBounds(i); err != nil {
		return err
	}
	d.SetUnsafe(i, t)
	return nil
}

// SetUnsafe writes t to the i-th position without checking i.
func (d *Deque[T]) SetUnsafe(i int, t T) { d.start.Add(i).Set(t) }

// SwapAt swaps the elements at indexes i and j.
func (d *Deque[T]) SwapAt(i, j int) error {
	if err := d.checkBounds(i); err != nil {
		return err
	}
	if err := d.checkBounds(j); err != nil {
		return err
	}
	a, b := d.start.Add(i), d.start.Add(j)
	ta, tb := a.Value(), b.Value()
	a.Set(tb)
	b.Set(ta)
	return nil
}

/*****************************************************************************
 * INSERT / ERASE API
 *****************************************************************************/

// Insert puts ts at index i, shifting the elements from i onward. i may equal
// Len. Each element moves whichever half of the Deque is shorter. Either
// every element is inserted or, on ErrOutOfMemory, the Deque is unchanged.
func (d *Deque[T]) Insert(i int, ts ...T) error {
	if i < 0 || i > d.size {
		return fmt.Errorf("%w: insert at %d with length %d", ErrOutOfRange, i, d.size)
	}
	for k, t := range ts {
		if err := d.insert(i+k, t); err != nil {
			for range k {
				d.erase(i)
			}
			return err
		}
	}
	return nil
}

// InsertAt inserts t before pos and returns an iterator to it.
func (d *Deque[T]) InsertAt(pos Iterator[T], t T) (Iterator[T], error) {
	i := pos.Distance(d.start)
	if err := d.Insert(i, t); err != nil {
		return pos, err
	}
	return d.start.Add(i), nil
}

// Erase removes the element at index i.
func (d *Deque[T]) Erase(i int) error {
	if err := d.checkBounds(i); err != nil {
		return err
	}
	d.erase(i)
	return nil
}

// EraseRange removes the elements at indexes [i, j).
func (d *Deque[T]) EraseRange(i, j int) error {
	if i < 0 || j < i || j > d.size {
		return fmt.Errorf("%w: erase [%d, %d) with length %d", ErrOutOfRange, i, j, d.size)
	}
	for range j - i {
		d.erase(i)
	}
	return nil
}

// EraseAt removes the element at pos and returns an iterator to the element
// that followed it.
func (d *Deque[T]) EraseAt(pos Iterator[T]) (Iterator[T], error) {
	i := pos.Distance(d.start)
	if err := d.Erase(i); err != nil {
		return pos, err
	}
	return d.start.Add(i), nil
}

// frontSide reports whether index i is closer to the front, ties going to
// the front.
func (d *Deque[T]) frontSide(i int) bool { return 2*i < d.size }

// insert places t at index i, 0 <= i <= Len. The only fallible step is the
// push that makes room, so a failure leaves the Deque as it was.
func (d *Deque[T]) insert(i int, t T) error {
	switch {
	case i == 0:
		return d.pushFront(t)
	case i == d.size:
		return d.pushBack(t)
	case d.frontSide(i):
		if err := d.pushFront(d.start.Value()); err != nil {
			return err
		}
		// [1, i] move one step toward the front.
		dst := d.start.Next()
		for range i - 1 {
			src := dst.Next()
			dst.Set(src.Value())
			dst = src
		}
		dst.Set(t)
	default:
		n := d.size
		if err := d.pushBack(d.finish.Prev().Value()); err != nil {
			return err
		}
		// [i, n-1) move one step toward the back.
		dst := d.start.Add(n - 1)
		for range n - 1 - i {
			src := dst.Prev()
			dst.Set(src.Value())
			dst = src
		}
		dst.Set(t)
	}
	return nil
}

// erase removes index i, 0 <= i < Len, shifting the shorter half over it.
func (d *Deque[T]) erase(i int) {
	if d.frontSide(i) {
		dst := d.start.Add(i)
		for range i {
			src := dst.Prev()
			dst.Set(src.Value())
			dst = src
		}
		d.PopFront()
		return
	}
	dst := d.start.Add(i)
	for range d.size - 1 - i {
		src := dst.Next()
		dst.Set(src.Value())
		dst = src
	}
	d.PopBack()
}

/*****************************************************************************
 * VALUE SEMANTICS
 *****************************************************************************/

// Clone returns a copy of the Deque sharing its configuration, Allocator
// included.
func (d *Deque[T]) Clone() (*Deque[T], error) {
	c, err := newDeque[T](d.cfg)
	if err != nil {
		return nil, err
	}
	for t := range d.Iter() {
		if err := c.pushBack(t); err != nil {
			c.Release()
			return nil, err
		}
	}
	return c, nil
}

// Assign replaces the contents of d with a copy of src, keeping d's
// configuration. The copy is fully built before d is touched, so on
// ErrOutOfMemory d is unchanged.
func (d *Deque[T]) Assign(src *Deque[T]) error {
	if d == src {
		return nil
	}
	c, err := newDeque[T](d.cfg)
	if err != nil {
		return err
	}
	for t := range src.Iter() {
		if err := c.pushBack(t); err != nil {
			c.Release()
			return err
		}
	}
	d.Release()
	*d = *c
	return nil
}

// Swap exchanges the contents of two Deques in O(1). Iterators keep pointing
// at the same elements, which now belong to the other Deque.
func (d *Deque[T]) Swap(other *Deque[T]) {
	*d, *other = *other, *d
}

// Equal returns whether both Deques have the same length and the same elements
// in the same order. Two nil Deques are equal, but an empty Deque and nil are
// not. This must not be a method, otherwise Deque would be constrained to
// comparable elements.
func Equal[T comparable](d1, d2 *Deque[T]) bool {
	if d1 == nil || d2 == nil {
		return d1 == d2
	}
	return d1.EqualFunc(d2, func(a, b T) bool { return a == b })
}

// EqualFunc is Equal with a custom element comparison.
func (d1 *Deque[T]) EqualFunc(d2 *Deque[T], f func(T, T) bool) bool {
	if d1 == nil || d2 == nil {
		return d1 == d2
	}
	if d1.size != d2.size {
		return false
	}
	a, b := d1.start, d2.start
	for range d1.size {
		if !f(a.Value(), b.Value()) {
			return false
		}
		a.increment()
		b.increment()
	}
	return true
}

// Compare compares two Deques lexicographically, with the semantics of
// slices.Compare. A nil Deque compares as empty.
func Compare[T cmp.Ordered](d1, d2 *Deque[T]) int {
	return d1.CompareFunc(d2, cmp.Compare[T])
}

// CompareFunc is Compare with a custom element comparison.
func (d1 *Deque[T]) CompareFunc(d2 *Deque[T], f func(T, T) int) int {
	n1, n2 := d1.Len(), d2.Len()
	if n := min(n1, n2); n > 0 {
		a, b := d1.start, d2.start
		for range n {
			if c := f(a.Value(), b.Value()); c != 0 {
				return c
			}
			a.increment()
			b.increment()
		}
	}
	return cmp.Compare(n1, n2)
}

/*****************************************************************************
 * SLICE API
 *****************************************************************************/

// segments yields the live part of every block, front to back. No segment is
// empty.
func (d *Deque[T]) segments() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		if d == nil || d.Empty() {
			return
		}
		if d.start.slot == d.finish.slot {
			yield(d.start.block[d.start.cur:d.finish.cur])
			return
		}
		if !yield(d.start.block[d.start.cur:]) {
			return
		}
		for slot := d.start.slot + 1; slot < d.finish.slot; slot++ {
			if !yield(d.m.block(slot)) {
				return
			}
		}
		if d.finish.cur > 0 {
			yield(d.finish.block[:d.finish.cur])
		}
	}
}

// MakeSliceCopy allocates a slice to hold every Deque element and copies them.
// Prefer passing a buffer to CopySlice for memory reuse.
func (d *Deque[T]) MakeSliceCopy() []T {
	s := make([]T, d.Len())
	_ = d.CopySlice(0, s)
	return s
}

// CopySlice has the same semantics as the copy() built-in function. It copies
// elements in the Deque starting at the start index up until the buffer is
// full or the Deque is over, whichever happens first. It panics if start is
// outside [0, Len()].
//
// CopySlice returns the number of elements copied.
func (d *Deque[T]) CopySlice(start int, buf []T) int {
	if start < 0 || start > d.size {
		panic(fmt.Sprintf("segdeque: index %d out of bounds with length %d", start, d.size))
	}
	n := min(len(buf), d.size-start)
	it := d.start.Add(start)
	for copied := 0; copied < n; {
		k := copy(buf[copied:n], it.block[it.cur:])
		copied += k
		it.advance(k)
	}
	return n
}

// Contains returns whether the element is in the Deque. It has the same
// semantics as slices.Contains.
func Contains[T comparable](d *Deque[T], t T) bool {
	return Index(d, t) != -1
}

// ContainsFunc returns whether an element satisfying f is in the Deque. It has
// the same semantics as slices.ContainsFunc.
func (d *Deque[T]) ContainsFunc(f func(T) bool) bool {
	return d.IndexFunc(f) != -1
}

// Index returns the index of the first occurrence of t in the Deque or -1 if
// absent. Index has the same semantics as slices.Index.
func Index[T comparable](d *Deque[T], t T) int {
	return d.IndexFunc(func(e T) bool { return e == t })
}

// IndexFunc returns the index of the first element that satisfies f in the
// Deque or -1 if none do.
func (d *Deque[T]) IndexFunc(f func(T) bool) int {
	offset := 0
	for s := range d.segments() {
		if i := slices.IndexFunc(s, f); i != -1 {
			return offset + i
		}
		offset += len(s)
	}
	return -1
}

// Max returns the maximum element in the Deque. It has the same semantics as
// slices.Max, so it panics on an empty Deque.
func Max[T cmp.Ordered](d *Deque[T]) T {
	return d.MaxFunc(cmp.Compare[T])
}

// MaxFunc returns the maximal element according to cmp, the first one if
// several are maximal. It panics on an empty Deque.
func (d *Deque[T]) MaxFunc(cmp func(T, T) int) T {
	if d.Empty() {
		panic("segdeque: MaxFunc of empty Deque")
	}
	result := d.start.Value()
	for s := range d.segments() {
		if m := slices.MaxFunc(s, cmp); cmp(m, result) > 0 {
			result = m
		}
	}
	return result
}

// Min returns the minimum element in the Deque. It has the same semantics as
// slices.Min, so it panics on an empty Deque.
func Min[T cmp.Ordered](d *Deque[T]) T {
	return d.MinFunc(cmp.Compare[T])
}

// MinFunc returns the minimal element according to cmp, the first one if
// several are minimal. It panics on an empty Deque.
func (d *Deque[T]) MinFunc(cmp func(T, T) int) T {
	if d.Empty() {
		panic("segdeque: MinFunc of empty Deque")
	}
	result := d.start.Value()
	for s := range d.segments() {
		if m := slices.MinFunc(s, cmp); cmp(m, result) < 0 {
			result = m
		}
	}
	return result
}

/*****************************************************************************
 * ITER API
 *****************************************************************************/

// ForEach takes in a function that returns a bool and calls it in order for
// every element in the Deque, or until the first call that returns false.
func (d *Deque[T]) ForEach(f func(T) bool) {
	for t := range d.Iter() {
		if !f(t) {
			return
		}
	}
}

// All returns an iterator over index-value pairs in order. It has the same
// semantics as slices.All. If you don't need indexes, use Iter instead.
func (d *Deque[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		i := 0
		for s := range d.segments() {
			for _, t := range s {
				if !yield(i, t) {
					return
				}
				i++
			}
		}
	}
}

// Iter returns an iterator over values only in order. If you need indexes,
// use All instead.
func (d *Deque[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for s := range d.segments() {
			for _, t := range s {
				if !yield(t) {
					return
				}
			}
		}
	}
}

// Backward returns an iterator over index-value pairs from back to front. It
// has the same semantics as slices.Backward.
func (d *Deque[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if d == nil {
			return
		}
		it := d.finish
		for i := d.size - 1; i >= 0; i-- {
			it.decrement()
			if !yield(i, it.Value()) {
				return
			}
		}
	}
}

/*****************************************************************************
 * HELPERS
 *****************************************************************************/

func (d *Deque[T]) checkBounds(i int) error {
	if i < 0 || i >= d.size {
		return fmt.Errorf("%w: index %d with length %d", ErrOutOfRange, i, d.size)
	}
	return nil
}
