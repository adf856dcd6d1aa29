package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elvnh/arpgcore/entity"
)

func id(slot, gen int32) entity.EntityID {
	return entity.EntityID{Slot: slot, Generation: gen}
}

func TestFrameTable_SymmetryAndSwap(t *testing.T) {
	ft := NewFrameTable()
	a, b := id(1, 1), id(2, 1)

	ft.Record(a, b)
	assert.True(t, ft.IntersectedThisFrame(b, a), "symmetric lookup")

	ft.SwapFrame()
	assert.False(t, ft.IntersectedThisFrame(a, b), "new current frame starts cleared")
	assert.True(t, ft.IntersectedPreviousFrame(a, b), "previous view survives the swap")
}

func TestEventTable_DuplicateInsertPanics(t *testing.T) {
	et := NewEventTable()
	a, b := id(1, 1), id(2, 1)
	et.Insert(a, b)
	assert.Panics(t, func() { et.Insert(b, a) })
}

func TestEventTable_BloomNeverFalseNegatives(t *testing.T) {
	et := NewEventTable()
	pairs := make([]Pair, 0, 200)
	for i := int32(0); i < 200; i++ {
		a, b := id(i, 1), id(i+1000, 1)
		et.Insert(a, b)
		pairs = append(pairs, CanonicalPair(a, b))
	}
	for _, p := range pairs {
		_, found := et.Find(p.A, p.B)
		require.True(t, found)
	}
}

func TestEventTable_ClearResetsEverything(t *testing.T) {
	et := NewEventTable()
	a, b := id(1, 1), id(2, 1)
	et.Insert(a, b)
	et.Clear()
	_, found := et.Find(a, b)
	assert.False(t, found)
	assert.Equal(t, 0, et.Count())
}
