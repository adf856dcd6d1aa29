package entity

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/elvnh/arpgcore/arena"
)

// FirstGeneration is the sentinel generation every slot starts at and
// wraps back to after saturating. A zero-valued EntityID's generation is
// therefore always invalid (spec §4.3).
const FirstGeneration int32 = 1

// LastGeneration is the generation value at which the next removal wraps
// back to FirstGeneration instead of incrementing further.
const LastGeneration int32 = 1<<31 - 1

// EntityID addresses one entity as (slot index, generation). A generation
// mismatch against the slot table means "this id no longer refers to a
// live entity" -- indistinguishable from "never existed" (spec §9).
type EntityID struct {
	Slot       int32
	Generation int32
}

// IsZero reports whether id is the default, always-invalid zero value.
func (id EntityID) IsZero() bool { return id.Generation == 0 }

// Entity is the inline, fixed-shape record every slot holds: a component
// bitset, one field per component kind, and bookkeeping the world uses for
// end-of-frame cleanup.
type Entity struct {
	bits *bitset.BitSet

	Faction    int32
	IsInactive bool

	// ScratchArena is an optional per-entity allocator with lifetime tied
	// to the entity; reset (not destroyed) on removal so the slot can be
	// reused without growing a fresh arena every time (spec §9 "scoped
	// acquisition with guaranteed release").
	ScratchArena *arena.LinearArena

	Transform     TransformComponent
	Velocity      VelocityComponent
	Collider      ColliderComponent
	Health        HealthComponent
	FactionTag    FactionComponent
	Trigger       TriggerComponent
	Lifetime      LifetimeComponent
	StatusEffects StatusEffectsComponent
}

func newEntity() Entity {
	return Entity{bits: bitset.New(uint(KindCount))}
}

// reset clears an entity back to its post-create_entity state: no
// components, no inactive flag, faction cleared. The scratch arena is
// reset (if present) rather than dropped.
func (e *Entity) reset() {
	e.bits.ClearAll()
	e.Faction = 0
	e.IsInactive = false
	if e.ScratchArena != nil {
		e.ScratchArena.Reset()
	}
	e.Transform = TransformComponent{}
	e.Velocity = VelocityComponent{}
	e.Collider = ColliderComponent{}
	e.Health = HealthComponent{}
	e.FactionTag = FactionComponent{}
	e.Trigger = TriggerComponent{}
	e.Lifetime = LifetimeComponent{}
	e.StatusEffects = StatusEffectsComponent{}
}

// HasComponent reports whether kind's bit is set.
func (e *Entity) HasComponent(kind ComponentKind) bool {
	return e.bits.Test(uint(kind))
}

// HasComponents reports whether every kind in mask is set.
func (e *Entity) HasComponents(mask []ComponentKind) bool {
	for _, k := range mask {
		if !e.HasComponent(k) {
			return false
		}
	}
	return true
}

// AddComponent sets kind's presence bit and zeroes its storage. Adding a
// component that is already present is a caller programming error (spec
// §4.3) and panics rather than silently overwriting live data.
func (e *Entity) AddComponent(kind ComponentKind) {
	if e.HasComponent(kind) {
		panic("entity: component already present: " + kind.String())
	}
	e.bits.Set(uint(kind))
	e.zeroComponent(kind)
}

// RemoveComponent clears kind's presence bit. The underlying storage is
// left as-is until the next AddComponent zeroes it again; the bitset
// alone is authoritative for presence (spec §3).
func (e *Entity) RemoveComponent(kind ComponentKind) {
	e.bits.Clear(uint(kind))
}

func (e *Entity) zeroComponent(kind ComponentKind) {
	switch kind {
	case KindTransform:
		e.Transform = TransformComponent{}
	case KindVelocity:
		e.Velocity = VelocityComponent{}
	case KindCollider:
		e.Collider = ColliderComponent{}
	case KindHealth:
		e.Health = HealthComponent{}
	case KindFaction:
		e.FactionTag = FactionComponent{}
	case KindTrigger:
		e.Trigger = TriggerComponent{}
	case KindLifetime:
		e.Lifetime = LifetimeComponent{}
	case KindStatusEffects:
		e.StatusEffects = StatusEffectsComponent{}
	default:
		panic("entity: unknown component kind")
	}
}

// GetTransform returns a pointer to the transform component iff present.
func (e *Entity) GetTransform() (*TransformComponent, bool) {
	if !e.HasComponent(KindTransform) {
		return nil, false
	}
	return &e.Transform, true
}

// GetVelocity returns a pointer to the velocity component iff present.
func (e *Entity) GetVelocity() (*VelocityComponent, bool) {
	if !e.HasComponent(KindVelocity) {
		return nil, false
	}
	return &e.Velocity, true
}

// GetCollider returns a pointer to the collider component iff present.
func (e *Entity) GetCollider() (*ColliderComponent, bool) {
	if !e.HasComponent(KindCollider) {
		return nil, false
	}
	return &e.Collider, true
}

// GetHealth returns a pointer to the health component iff present.
func (e *Entity) GetHealth() (*HealthComponent, bool) {
	if !e.HasComponent(KindHealth) {
		return nil, false
	}
	return &e.Health, true
}

// GetTrigger returns a pointer to the trigger component iff present.
func (e *Entity) GetTrigger() (*TriggerComponent, bool) {
	if !e.HasComponent(KindTrigger) {
		return nil, false
	}
	return &e.Trigger, true
}

// GetLifetime returns a pointer to the lifetime component iff present.
func (e *Entity) GetLifetime() (*LifetimeComponent, bool) {
	if !e.HasComponent(KindLifetime) {
		return nil, false
	}
	return &e.Lifetime, true
}

// GetStatusEffects returns a pointer to the status-effects component iff
// present.
func (e *Entity) GetStatusEffects() (*StatusEffectsComponent, bool) {
	if !e.HasComponent(KindStatusEffects) {
		return nil, false
	}
	return &e.StatusEffects, true
}

// ScheduleForRemoval sets is_inactive; the store itself never removes on
// this flag (spec §4.3) -- the world sweeps inactive entities at the end
// of its tick (spec §4.7 step 5).
func (e *Entity) ScheduleForRemoval() {
	e.IsInactive = true
}
