package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elvnh/arpgcore/entity"
	"github.com/elvnh/arpgcore/geom"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.EntityCapacity = 16
	cfg.Region = geom.NewAABB(geom.Vec2{}, geom.Vec2{X: 1024, Y: 1024})
	return cfg
}

func TestWorld_SpawnIndexQuery(t *testing.T) {
	w := New(testConfig())

	a, ea := w.SpawnEntity(0)
	ea.AddComponent(entity.KindCollider)
	w.IndexEntity(a, geom.NewAABB(geom.Vec2{X: 10, Y: 10}, geom.Vec2{X: 6, Y: 6}))

	b, eb := w.SpawnEntity(1)
	eb.AddComponent(entity.KindCollider)
	w.IndexEntity(b, geom.NewAABB(geom.Vec2{X: 500, Y: 500}, geom.Vec2{X: 20, Y: 20}))

	near := w.QueryArea(geom.NewAABB(geom.Vec2{}, geom.Vec2{X: 100, Y: 100}), nil)
	require.Len(t, near, 1)
	assert.Equal(t, a, near[0].ID)

	w.MoveEntity(a, geom.Vec2{X: 600, Y: 600})
	near = w.QueryArea(geom.NewAABB(geom.Vec2{X: 400, Y: 400}, geom.Vec2{X: 300, Y: 300}), nil)
	assert.Len(t, near, 2)
}

func TestWorld_TickSweepsInactiveAndClearsLocation(t *testing.T) {
	w := New(testConfig())

	id, e := w.SpawnEntity(0)
	e.AddComponent(entity.KindCollider)
	w.IndexEntity(id, geom.NewAABB(geom.Vec2{X: 1, Y: 1}, geom.Vec2{X: 2, Y: 2}))
	w.ScheduleRemoval(id)

	stats := w.Tick(1.0/60.0, nil, nil, nil)
	assert.Equal(t, 1, stats.EntitiesRemoved)

	_, ok := w.Entities().GetEntity(id)
	assert.False(t, ok)

	results := w.QueryArea(w.Region(), nil)
	assert.Empty(t, results)
}

func TestWorld_TriggerFiresOnceThenCooldown(t *testing.T) {
	w := New(testConfig())

	owner, eo := w.SpawnEntity(0)
	eo.AddComponent(entity.KindTrigger)
	eo.Trigger = entity.TriggerComponent{
		OwningComponentKind: entity.KindCollider,
		Behaviour:           entity.Never(),
	}
	other, _ := w.SpawnEntity(1)

	fired := 0
	detect := func(w *World) []CollisionInfo {
		return []CollisionInfo{{A: owner, B: other}}
	}
	onTrigger := func(w *World, o, ot entity.EntityID, kind entity.ComponentKind) {
		fired++
	}

	w.Tick(1.0/60.0, nil, detect, onTrigger)
	assert.Equal(t, 1, fired)
	assert.True(t, w.Cooldowns().IsOnCooldown(owner, other, entity.KindCollider))

	w.Tick(1.0/60.0, nil, detect, onTrigger)
	assert.Equal(t, 1, fired, "Never policy keeps the trigger suppressed while both entities live")
}

func TestWorld_CollisionRecordedOnceEvenIfReportedBothDirections(t *testing.T) {
	w := New(testConfig())
	a, _ := w.SpawnEntity(0)
	b, _ := w.SpawnEntity(0)

	detect := func(w *World) []CollisionInfo {
		return []CollisionInfo{{A: a, B: b}, {A: b, B: a}}
	}

	stats := w.Tick(1.0/60.0, nil, detect, nil)
	assert.Equal(t, 1, stats.CollisionPairsRecorded)
	assert.True(t, w.Events().IntersectedThisFrame(a, b))
}
