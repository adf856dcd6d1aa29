// Package world implements the World binding (C7): a thin composition
// that wires the entity store, quadtree, collision-event table, and
// trigger-cooldown table together and owns a dedicated free-list arena
// for the structures that live as long as the world does (spec §4.7).
package world

import (
	"github.com/elvnh/arpgcore/arena"
	"github.com/elvnh/arpgcore/collision"
	"github.com/elvnh/arpgcore/entity"
	"github.com/elvnh/arpgcore/geom"
	"github.com/elvnh/arpgcore/spatial"
	"github.com/elvnh/arpgcore/trigger"
	"github.com/elvnh/arpgcore/utils"
)

// Config is the construction-time configuration for a World. There is no
// flag/env parsing inside the core (spec §10.1) -- a host binary such as
// cmd/enginebench is responsible for turning CLI input into a Config.
type Config struct {
	// EntityCapacity is the fixed slot count the entity store is created
	// with (spec §4.3 MAX_ENTITIES).
	EntityCapacity int

	// Region is the root AABB the quadtree covers.
	Region geom.AABB

	// WorldArenaCapacity is the minimum usable capacity of the world's own
	// free-list arena (C2). If Parent is non-nil the effective capacity is
	// raised to at least one quarter of Parent's current total capacity,
	// per spec §4.7 ("sized >= 1/4 of its parent C2").
	WorldArenaCapacity int

	// FrameArenaCapacity is the initial capacity of the per-tick scratch
	// linear arena.
	FrameArenaCapacity int

	// EntityScratchCapacity sizes a per-entity scratch arena the first
	// time EnsureScratchArena is called for that entity.
	EntityScratchCapacity int

	// Parent, if set, is the allocator the world's own C2 is sized
	// against (spec §4.7). It is not otherwise used by World.
	Parent *arena.FreeListArena

	// Logger receives one Debug line per tick (spec §10.1). Nil disables
	// per-tick logging.
	Logger *utils.Logger
}

// DefaultConfig returns reasonable defaults for a small-to-medium scene.
func DefaultConfig() Config {
	return Config{
		EntityCapacity:        4096,
		Region:                geom.NewAABB(geom.Vec2{}, geom.Vec2{X: 4096, Y: 4096}),
		WorldArenaCapacity:    1 << 20,
		FrameArenaCapacity:    1 << 16,
		EntityScratchCapacity: 256,
	}
}

func parentQuarterCapacity(parent *arena.FreeListArena) int {
	if parent == nil {
		return 0
	}
	stats := parent.GetStats()
	return (stats.Allocated + stats.Free) / 4
}

// CollisionInfo is one candidate collision the external collision pass
// reports to World.Tick for a single frame (spec §4.7 step 3).
type CollisionInfo struct {
	A, B entity.EntityID
}

// System is one external game-system update (physics, animation, status
// effects, AI, ...). World only orders these calls; it never inspects
// their internals (spec §4.7 steps 1-2, §9 "global mutable state").
type System func(w *World, dt float32)

// CollisionDetector runs the external broadphase/narrowphase pass for this
// frame and reports every candidate colliding pair. It is expected to use
// World.QueryArea against the quadtree to find candidates.
type CollisionDetector func(w *World) []CollisionInfo

// TriggerHandler is invoked the first time, in a given frame, that owner's
// Trigger component is allowed to fire against other (i.e. the pair is not
// already on cooldown). World records the cooldown row immediately after
// calling this.
type TriggerHandler func(w *World, owner, other entity.EntityID, kind entity.ComponentKind)

// TickStats summarizes one call to World.Tick, mirroring the GetStats()
// idiom the free-list arena exposes (spec §10.3).
type TickStats struct {
	EntitiesCreated        int
	EntitiesRemoved        int
	CollisionPairsRecorded int
	CooldownsExpired       int
	QuadTreeNodeCount      int
}

// World composes the entity store (C3), quadtree (C4), collision-event
// table (C5), and trigger-cooldown table (C6), plus a dedicated free-list
// arena (C2) for any long-lived allocation a host wants to carve from the
// world rather than the Go heap directly.
type World struct {
	cfg Config

	entities  *entity.Store
	tree      *spatial.Tree
	events    *collision.FrameTable
	cooldowns *trigger.Table
	arena     *arena.FreeListArena
	frame     *arena.LinearArena

	// locations is indexed by EntityID.Slot; the zero Location means "not
	// currently indexed in the quadtree".
	locations []spatial.Location

	logger *utils.Logger

	createdThisTick int
}

// New creates a World per cfg. cfg.Region becomes the quadtree's root
// region; cfg.EntityCapacity becomes the entity store's fixed slot count.
func New(cfg Config) *World {
	if cfg.EntityCapacity <= 0 {
		panic("world: EntityCapacity must be > 0")
	}
	worldArenaCap := cfg.WorldArenaCapacity
	if q := parentQuarterCapacity(cfg.Parent); q > worldArenaCap {
		worldArenaCap = q
	}
	if worldArenaCap <= 0 {
		worldArenaCap = 1 << 16
	}
	frameArenaCap := cfg.FrameArenaCapacity
	if frameArenaCap <= 0 {
		frameArenaCap = 1 << 14
	}

	return &World{
		cfg:       cfg,
		entities:  entity.NewStore(cfg.EntityCapacity),
		tree:      spatial.NewTree(cfg.Region),
		events:    collision.NewFrameTable(),
		cooldowns: trigger.NewTable(),
		arena:     arena.NewFreeListArena(worldArenaCap),
		frame:     arena.NewLinearArena(frameArenaCap),
		locations: make([]spatial.Location, cfg.EntityCapacity),
		logger:    cfg.Logger,
	}
}

// Entities exposes the underlying entity store for direct queries.
func (w *World) Entities() *entity.Store { return w.entities }

// Tree exposes the underlying quadtree for direct queries.
func (w *World) Tree() *spatial.Tree { return w.tree }

// Events exposes the collision-event table so external systems can call
// IntersectedThisFrame/IntersectedPreviousFrame.
func (w *World) Events() *collision.FrameTable { return w.events }

// Cooldowns exposes the trigger-cooldown table for IsOnCooldown queries
// from systems that want to check before World.Tick decides to fire.
func (w *World) Cooldowns() *trigger.Table { return w.cooldowns }

// WorldArena returns the world's own free-list arena (C2).
func (w *World) WorldArena() *arena.FreeListArena { return w.arena }

// FrameArena returns the per-tick scratch linear arena. It is reset at the
// start of every Tick; nothing stored in it survives past one frame.
func (w *World) FrameArena() *arena.LinearArena { return w.frame }

// Region returns the quadtree's root region.
func (w *World) Region() geom.AABB { return w.tree.Region() }

// SpawnEntity creates a new entity with the given faction tag. It does not
// index the entity in the quadtree; call IndexEntity once the caller knows
// the entity's initial area (spec §4.7: C3 creates, C4 indexes).
func (w *World) SpawnEntity(faction int32) (entity.EntityID, *entity.Entity) {
	id, e := w.entities.CreateEntity(faction)
	w.createdThisTick++
	return id, e
}

// EnsureScratchArena lazily creates id's per-entity scratch arena sized
// per cfg.EntityScratchCapacity and returns it. Returns nil if id is not a
// live entity.
func (w *World) EnsureScratchArena(id entity.EntityID) *arena.LinearArena {
	e, ok := w.entities.GetEntity(id)
	if !ok {
		return nil
	}
	if e.ScratchArena == nil {
		capacity := w.cfg.EntityScratchCapacity
		if capacity <= 0 {
			capacity = 256
		}
		e.ScratchArena = arena.NewLinearArena(capacity)
	}
	return e.ScratchArena
}

// IndexEntity inserts id into the quadtree at area, replacing any prior
// location it held. This is the normal path for an entity's first
// insertion (spec §4.7: C4 indexes entities C3 creates).
func (w *World) IndexEntity(id entity.EntityID, area geom.AABB) {
	prior := w.locationFor(id)
	w.locations[id.Slot] = w.tree.SetArea(id, prior, area)
}

// MoveEntity re-inserts id at newPosition, keeping its current area's
// size. id must already have been indexed via IndexEntity.
func (w *World) MoveEntity(id entity.EntityID, newPosition geom.Vec2) {
	loc := w.locationFor(id)
	w.locations[id.Slot] = w.tree.Move(id, loc, newPosition)
}

// SetEntityArea re-inserts id with newArea, replacing its prior location.
func (w *World) SetEntityArea(id entity.EntityID, newArea geom.AABB) {
	loc := w.locationFor(id)
	w.locations[id.Slot] = w.tree.SetArea(id, loc, newArea)
}

func (w *World) locationFor(id entity.EntityID) spatial.Location {
	if int(id.Slot) >= len(w.locations) {
		return spatial.Location{}
	}
	return w.locations[id.Slot]
}

// QueryArea appends every quadtree entry intersecting area to out and
// returns the extended slice. Intended for use inside a CollisionDetector.
func (w *World) QueryArea(area geom.AABB, out []spatial.QueryResult) []spatial.QueryResult {
	return w.tree.QueryArea(area, out)
}

// ScheduleRemoval marks id inactive; it is actually removed at the end of
// the next Tick (spec §4.3, §4.7 step 5).
func (w *World) ScheduleRemoval(id entity.EntityID) {
	if e, ok := w.entities.GetEntity(id); ok {
		e.ScheduleForRemoval()
	}
}

// Tick advances the world by one frame of dt seconds, in the order spec
// §4.7 lists:
//
//  1. run systems (external game-system updates)
//  2. (folded into 1: component updates are themselves systems)
//  3. run the collision pass and record pairs / fire triggers
//  4. tick the trigger-cooldown table
//  5. sweep inactive entities
//  6. swap the collision-event table
func (w *World) Tick(dt float32, systems []System, detect CollisionDetector, onTrigger TriggerHandler) TickStats {
	w.frame.Reset()
	w.createdThisTick = 0

	for _, sys := range systems {
		sys(w, dt)
	}

	var stats TickStats
	if detect != nil {
		for _, c := range detect(w) {
			if !w.recordCollision(c, &stats) {
				continue
			}
			if onTrigger != nil {
				w.considerTrigger(c.A, c.B, onTrigger)
				w.considerTrigger(c.B, c.A, onTrigger)
			}
		}
	}

	stats.CooldownsExpired = w.cooldowns.Tick(dt, w.entities, w.events)
	stats.EntitiesRemoved = w.sweepInactive()
	stats.EntitiesCreated = w.createdThisTick
	stats.QuadTreeNodeCount = w.tree.NodeCount()

	w.events.SwapFrame()

	if w.logger != nil {
		w.logger.Debug("tick",
			utils.Int("entities", w.entities.LiveCount()),
			utils.Int("collisionPairs", stats.CollisionPairsRecorded),
			utils.Int("cooldownsExpired", stats.CooldownsExpired),
			utils.Int("removed", stats.EntitiesRemoved),
		)
	}
	return stats
}

// recordCollision records c's canonical pair into the current frame's
// event table and reports whether the pair was new this frame. When the
// external collision pass reports the same unordered pair again within one
// frame (from either direction), nothing is recorded and false is returned,
// so Tick skips that report's triggers (spec §5 ordering guarantee:
// execute_vs fires twice, the pair records once).
func (w *World) recordCollision(c CollisionInfo, stats *TickStats) bool {
	if w.events.IntersectedThisFrame(c.A, c.B) {
		return false
	}
	w.events.Record(c.A, c.B)
	stats.CollisionPairsRecorded++
	return true
}

// considerTrigger checks whether owner carries a Trigger component whose
// interaction against other is not currently on cooldown, invokes
// onTrigger if so, then records the cooldown row under the trigger's
// configured retrigger policy (spec §4.7 step 3, §4.6).
func (w *World) considerTrigger(owner, other entity.EntityID, onTrigger TriggerHandler) {
	e, ok := w.entities.GetEntity(owner)
	if !ok {
		return
	}
	trig, ok := e.GetTrigger()
	if !ok {
		return
	}
	if w.cooldowns.IsOnCooldown(owner, other, trig.OwningComponentKind) {
		return
	}
	onTrigger(w, owner, other, trig.OwningComponentKind)
	w.cooldowns.Add(owner, other, trig.OwningComponentKind, trig.Behaviour)
}

// sweepInactive removes every entity whose IsInactive flag is set,
// clearing its quadtree location and resetting its per-entity scratch
// arena before releasing its slot (spec §4.7 step 5).
func (w *World) sweepInactive() int {
	var toRemove []entity.EntityID
	w.entities.ForEachLive(func(id entity.EntityID, e *entity.Entity) {
		if e.IsInactive {
			toRemove = append(toRemove, id)
		}
	})

	for _, id := range toRemove {
		if loc := w.locationFor(id); !loc.IsZero() {
			w.tree.Remove(loc)
			w.locations[id.Slot] = spatial.Location{}
		}
		if e, ok := w.entities.GetEntity(id); ok && e.ScratchArena != nil {
			e.ScratchArena.Reset()
		}
		w.entities.RemoveEntity(id)
	}
	return len(toRemove)
}
