package entity

import "github.com/elvnh/arpgcore/geom"

// The component set below supplements the distilled spec's "an implementer
// provides this list" registry (§6) with a concrete one, grounded in what
// original_source/src/game's surrounding systems (physics, collision,
// triggers, status effects) imply the entity system was built to carry.

// TransformComponent is an entity's position and facing in world space.
type TransformComponent struct {
	Position geom.Vec2
	RotationRadians float32
}

// VelocityComponent is an entity's linear and angular velocity.
type VelocityComponent struct {
	Linear  geom.Vec2
	Angular float32
}

// ColliderComponent is an entity's collision footprint plus its layer/mask
// pair used to decide which other colliders it interacts with.
type ColliderComponent struct {
	HalfExtent geom.Vec2
	Layer      uint32
	Mask       uint32
}

// HealthComponent tracks hit points and passive regeneration.
type HealthComponent struct {
	Current float32
	Max     float32
	Regen   float32
}

// FactionComponent mirrors the entity's faction tag as an addressable
// component for symmetry with the rest of the offset-addressed set; the
// authoritative faction value lives on the Entity itself (spec §3).
type FactionComponent struct {
	Faction int32
}

// RetriggerBehaviourKind selects how a TriggerCooldown entry expires.
type RetriggerBehaviourKind uint8

const (
	RetriggerWhenever RetriggerBehaviourKind = iota
	RetriggerNever
	RetriggerAfterNonContact
	RetriggerAfterDuration
)

// RetriggerBehaviour is a small tagged union: Kind selects which field of
// the payload (currently just DurationSeconds) is meaningful.
type RetriggerBehaviour struct {
	Kind            RetriggerBehaviourKind
	DurationSeconds float32
}

func Whenever() RetriggerBehaviour { return RetriggerBehaviour{Kind: RetriggerWhenever} }
func Never() RetriggerBehaviour    { return RetriggerBehaviour{Kind: RetriggerNever} }
func AfterNonContact() RetriggerBehaviour {
	return RetriggerBehaviour{Kind: RetriggerAfterNonContact}
}
func AfterDuration(seconds float32) RetriggerBehaviour {
	return RetriggerBehaviour{Kind: RetriggerAfterDuration, DurationSeconds: seconds}
}

// TriggerComponent marks an entity as able to fire a triggerable
// interaction through the named owning component kind, subject to a
// retrigger policy.
type TriggerComponent struct {
	OwningComponentKind ComponentKind
	Behaviour           RetriggerBehaviour
}

// LifetimeComponent counts down to zero, at which point an external system
// schedules the entity for removal (projectiles, particles).
type LifetimeComponent struct {
	RemainingSeconds float32
}

const maxStatusEffects = 4

// StatusEffectEntry is one active status effect slot.
type StatusEffectEntry struct {
	EffectID         int32
	RemainingSeconds float32
}

// StatusEffectsComponent holds a small fixed-size array of active effects.
type StatusEffectsComponent struct {
	Entries [maxStatusEffects]StatusEffectEntry
	Count   int
}
