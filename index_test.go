package segdeque

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestStore(alloc Allocator) *blockStore[int] {
	return newBlockStore[int](4, alloc, zap.NewNop())
}

func TestNewIndexArray(t *testing.T) {
	require := require.New(t)

	m, center, err := newIndexArray(newTestStore(HeapAllocator{}), 8)
	require.NoError(err)
	require.Equal(3, center)
	require.Equal(8, m.len())
	require.Equal(1, m.liveBlocks())
	require.Len(m.block(center), 4)
}

func TestIndexArrayRequireWithRoom(t *testing.T) {
	require := require.New(t)

	m, center, err := newIndexArray(newTestStore(HeapAllocator{}), 8)
	require.NoError(err)

	slot, shift, err := m.requireAfter(center, center)
	require.NoError(err)
	require.Equal(center+1, slot)
	require.Zero(shift)

	slot, shift, err = m.requireBefore(center, center+1)
	require.NoError(err)
	require.Equal(center-1, slot)
	require.Zero(shift)

	require.Equal(8, m.len())
	require.Equal(3, m.liveBlocks())
}

func TestIndexArrayGrowBack(t *testing.T) {
	require := require.New(t)

	m, center, err := newIndexArray(newTestStore(HeapAllocator{}), 1)
	require.NoError(err)
	require.Zero(center)
	first := m.block(0)

	slot, shift, err := m.requireAfter(0, 0)
	require.NoError(err)
	require.Equal(4, m.len())
	require.Equal(1, shift)
	require.Equal(2, slot)
	// blocks are moved by reference, never copied
	require.Same(&first[0], &m.block(1)[0])
	require.Nil(m.block(0))
	require.Nil(m.block(3))
}

func TestIndexArrayGrowFront(t *testing.T) {
	require := require.New(t)

	m, _, err := newIndexArray(newTestStore(HeapAllocator{}), 1)
	require.NoError(err)
	first := m.block(0)

	slot, shift, err := m.requireBefore(0, 0)
	require.NoError(err)
	require.Equal(4, m.len())
	require.Equal(2, shift)
	require.Equal(1, slot)
	require.Same(&first[0], &m.block(2)[0])
	require.Equal(2, m.liveBlocks())
}

func TestIndexArrayGrowLargeRequest(t *testing.T) {
	require := require.New(t)

	m, center, err := newIndexArray(newTestStore(HeapAllocator{}), 2)
	require.NoError(err)

	shift, err := m.reserve(center, center, 10, false)
	require.NoError(err)
	require.Equal(14, m.len())
	newSlot := center + shift
	require.NotNil(m.block(newSlot))
	require.GreaterOrEqual(m.len()-1-newSlot, 10)

	shift, err = m.reserve(newSlot, newSlot, 20, true)
	require.NoError(err)
	newSlot += shift
	require.GreaterOrEqual(newSlot, 20)
	require.NotNil(m.block(newSlot))
}

func TestIndexArrayRecenterInPlace(t *testing.T) {
	require := require.New(t)

	m, center, err := newIndexArray(newTestStore(HeapAllocator{}), 16)
	require.NoError(err)
	m.slots[15], m.slots[center] = m.slots[center], nil

	slot, shift, err := m.requireAfter(15, 15)
	require.NoError(err)
	require.Equal(16, m.len())
	require.Equal(-8, shift)
	require.Equal(8, slot)
	require.NotNil(m.block(7))
	require.Nil(m.block(15))
	require.Equal(2, m.liveBlocks())
}

func TestIndexArrayShrink(t *testing.T) {
	require := require.New(t)

	m, center, err := newIndexArray(newTestStore(HeapAllocator{}), 64)
	require.NoError(err)

	shift, err := m.shrink(center, center)
	require.NoError(err)
	require.Equal(1+minSlots, m.len())
	require.NotNil(m.block(center + shift))

	center += shift
	shift, err = m.shrink(center, center)
	require.NoError(err)
	require.Zero(shift)
	require.Equal(1+minSlots, m.len())
}

func TestIndexArrayOutOfMemory(t *testing.T) {
	require := require.New(t)

	alloc := NewLimitAllocator(1 << 20)
	store := newTestStore(alloc)
	m, _, err := newIndexArray(store, 1)
	require.NoError(err)
	inUse := alloc.InUse()
	slots := m.slots

	// room for the block but not for a bigger slot array
	alloc.SetLimit(inUse + store.blockBytes())
	_, _, err = m.requireAfter(0, 0)
	require.ErrorIs(err, ErrOutOfMemory)
	require.Equal(inUse, alloc.InUse())
	require.Equal(1, m.len())
	require.Same(&slots[0], &m.slots[0])

	// no room for the block either
	alloc.SetLimit(inUse)
	_, _, err = m.requireBefore(0, 0)
	require.ErrorIs(err, ErrOutOfMemory)
	require.Equal(inUse, alloc.InUse())

	_, err = m.shrink(0, 0)
	require.NoError(err)
}

func TestNewIndexArrayOutOfMemory(t *testing.T) {
	require := require.New(t)

	alloc := NewLimitAllocator(0)
	_, _, err := newIndexArray(newTestStore(alloc), 8)
	require.ErrorIs(err, ErrOutOfMemory)

	store := newTestStore(alloc)
	alloc.SetLimit(8 * store.slotBytes)
	_, _, err = newIndexArray(store, 8)
	require.ErrorIs(err, ErrOutOfMemory)
	require.Zero(alloc.InUse())
}

func TestIndexArrayReleaseAll(t *testing.T) {
	require := require.New(t)

	alloc := NewLimitAllocator(1 << 20)
	m, center, err := newIndexArray(newTestStore(alloc), 8)
	require.NoError(err)
	_, _, err = m.requireAfter(center, center)
	require.NoError(err)

	m.releaseAll()
	require.Zero(alloc.InUse())
}

func TestIndexArrayLogsReorganization(t *testing.T) {
	require := require.New(t)

	core, logs := observer.New(zapcore.DebugLevel)
	d, err := NewDeque[int](WithBlockSize(2), WithMapSize(1), WithLogger(zap.New(core)))
	require.NoError(err)
	require.NoError(d.PushBack(1, 2, 3))

	grew := logs.FilterMessage("grew index array").All()
	require.NotEmpty(grew)
	require.Equal(int64(1), grew[0].ContextMap()["oldSlots"])
	require.Equal(int64(4), grew[0].ContextMap()["newSlots"])

	require.NoError(d.ShrinkToFit())
	require.Empty(logs.FilterMessage("shrank index array").All())

	for i := range 100 {
		require.NoError(d.PushBack(i))
	}
	d.DropFront(100)
	require.NoError(d.ShrinkToFit())
	require.Len(logs.FilterMessage("shrank index array").All(), 1)
}
