package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elvnh/arpgcore/entity"
	"github.com/elvnh/arpgcore/geom"
)

func rect(x, y, w, h float32) geom.AABB {
	return geom.AABB{Position: geom.Vec2{X: x, Y: y}, Size: geom.Vec2{X: w, Y: h}}
}

func ids(results []QueryResult) []entity.EntityID {
	out := make([]entity.EntityID, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

func TestTree_InsertAndQuery(t *testing.T) {
	tree := NewTree(rect(0, 0, 1024, 1024))

	a := entity.EntityID{Slot: 1, Generation: 1}
	b := entity.EntityID{Slot: 2, Generation: 1}

	locA := tree.Insert(a, rect(10, 10, 6, 6))
	tree.Insert(b, rect(500, 500, 20, 20))

	res := tree.QueryArea(rect(0, 0, 100, 100), nil)
	assert.ElementsMatch(t, []entity.EntityID{a}, ids(res))

	res = tree.QueryArea(rect(400, 400, 200, 200), nil)
	assert.ElementsMatch(t, []entity.EntityID{b}, ids(res))

	tree.Move(a, locA, geom.Vec2{X: 600, Y: 600})

	res = tree.QueryArea(rect(400, 400, 200, 200), nil)
	assert.ElementsMatch(t, []entity.EntityID{a, b}, ids(res))
}

func TestTree_RemoveStopsMatching(t *testing.T) {
	tree := NewTree(rect(0, 0, 256, 256))
	a := entity.EntityID{Slot: 1, Generation: 1}
	loc := tree.Insert(a, rect(10, 10, 4, 4))

	require.Len(t, tree.QueryArea(rect(0, 0, 256, 256), nil), 1)

	tree.Remove(loc)
	assert.Empty(t, tree.QueryArea(rect(0, 0, 256, 256), nil))
}

func TestTree_ElementsAreRecycled(t *testing.T) {
	tree := NewTree(rect(0, 0, 256, 256))
	a := entity.EntityID{Slot: 1, Generation: 1}
	loc := tree.Insert(a, rect(1, 1, 1, 1))
	freed := loc.element
	tree.Remove(loc)
	require.Same(t, freed, tree.freeHead)

	b := entity.EntityID{Slot: 2, Generation: 1}
	loc2 := tree.Insert(b, rect(2, 2, 1, 1))
	assert.Same(t, freed, loc2.element)
	assert.Nil(t, tree.freeHead)
}

func TestTree_NonContainingAABBLivesAtAncestor(t *testing.T) {
	tree := NewTree(rect(0, 0, 16, 16))
	straddler := entity.EntityID{Slot: 3, Generation: 1}
	// Straddles the tl/tr boundary of the root's first subdivision; cannot
	// fully fit in any single quadrant, so it must live at the root.
	loc := tree.Insert(straddler, rect(7, 0, 2, 2))
	assert.Same(t, tree.root, loc.node)

	res := tree.QueryArea(rect(0, 0, 16, 16), nil)
	assert.Len(t, res, 1)
}

func TestTree_ZeroExtentPanics(t *testing.T) {
	tree := NewTree(rect(0, 0, 16, 16))
	assert.Panics(t, func() {
		tree.Insert(entity.EntityID{Slot: 1, Generation: 1}, rect(0, 0, 0, 0))
	})
}
