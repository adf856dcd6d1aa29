package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Lifecycle(t *testing.T) {
	s := NewStore(32)

	ids := make([]EntityID, 32)
	for i := 0; i < 32; i++ {
		id, e := s.CreateEntity(int32(i % 3))
		require.NotNil(t, e)
		ids[i] = id
	}

	for _, id := range ids {
		require.True(t, s.RemoveEntity(id))
	}
	for _, id := range ids {
		_, ok := s.GetEntity(id)
		assert.False(t, ok)
	}

	newIDs := make([]EntityID, 32)
	for i := 0; i < 32; i++ {
		id, _ := s.CreateEntity(0)
		newIDs[i] = id
	}

	for i := range ids {
		assert.NotEqual(t, ids[i].Generation, newIDsGenerationFor(newIDs, ids[i].Slot))
	}
}

func newIDsGenerationFor(ids []EntityID, slot int32) int32 {
	for _, id := range ids {
		if id.Slot == slot {
			return id.Generation
		}
	}
	return -1
}

func TestStore_ExhaustionPanics(t *testing.T) {
	s := NewStore(1)
	s.CreateEntity(0)
	assert.Panics(t, func() {
		s.CreateEntity(0)
	})
}

func TestStore_ComponentBitsetAndAccessors(t *testing.T) {
	s := NewStore(4)
	_, e := s.CreateEntity(0)

	assert.False(t, e.HasComponent(KindTransform))
	e.AddComponent(KindTransform)
	assert.True(t, e.HasComponent(KindTransform))

	tr, ok := e.GetTransform()
	require.True(t, ok)
	tr.Position.X = 5

	assert.Panics(t, func() { e.AddComponent(KindTransform) })

	e.RemoveComponent(KindTransform)
	_, ok = e.GetTransform()
	assert.False(t, ok)
}

func TestStore_ZeroValueIDIsAlwaysInvalid(t *testing.T) {
	s := NewStore(4)
	var zero EntityID
	assert.True(t, zero.IsZero())
	_, ok := s.GetEntity(zero)
	assert.False(t, ok)
}

func TestStore_StaleGenerationIsReportedAsAbsent(t *testing.T) {
	s := NewStore(4)
	id, _ := s.CreateEntity(0)
	require.True(t, s.RemoveEntity(id))

	id2, _ := s.CreateEntity(0)
	assert.Equal(t, id.Slot, id2.Slot)
	assert.NotEqual(t, id.Generation, id2.Generation)

	_, ok := s.GetEntity(id)
	assert.False(t, ok)
	_, ok = s.GetEntity(id2)
	assert.True(t, ok)
}
