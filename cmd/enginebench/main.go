// Command enginebench is a small, non-interactive host binary that
// exercises every core operation end to end: it builds a world.World,
// scatters entities with Transform/Collider/Trigger components across the
// quadtree's region, then drives N ticks of synthetic random-walk
// movement and quadtree-backed collision detection, logging
// world.TickStats every tick (spec §10.4).
package main

import (
	"flag"
	"math/rand"

	"github.com/elvnh/arpgcore/entity"
	"github.com/elvnh/arpgcore/geom"
	"github.com/elvnh/arpgcore/spatial"
	"github.com/elvnh/arpgcore/utils"
	"github.com/elvnh/arpgcore/world"
)

func main() {
	entityCount := flag.Int("entities", 512, "number of entities to spawn")
	ticks := flag.Int("ticks", 200, "number of ticks to run")
	seed := flag.Int64("seed", 1, "random seed for the synthetic random walk")
	worldSize := flag.Float64("world-size", 4096, "side length of the square world region")
	logLevel := flag.Int("log-level", int(utils.INFO), "log level (0=DEBUG .. 4=FATAL)")
	flag.Parse()

	logger := utils.NewLogger(utils.LoggerConfig{
		Level:     utils.LogLevel(*logLevel),
		Component: "enginebench",
		Colorize:  true,
	})

	if err := validateFlags(*entityCount, *ticks, *worldSize); err != nil {
		logger.Fatal("invalid flags", utils.Err(err))
	}

	cfg := world.DefaultConfig()
	cfg.EntityCapacity = *entityCount
	cfg.Region = geom.NewAABB(geom.Vec2{}, geom.Vec2{X: float32(*worldSize), Y: float32(*worldSize)})
	cfg.Logger = logger.With("world")
	w := world.New(cfg)

	rng := rand.New(rand.NewSource(*seed))
	spawnEntities(w, rng, *entityCount, float32(*worldSize))

	logger.Info("starting benchmark", utils.Int("entities", *entityCount), utils.Int("ticks", *ticks))

	const dt = float32(1.0 / 60.0)
	systems := []world.System{randomWalkSystem(rng)}

	for i := 0; i < *ticks; i++ {
		stats := w.Tick(dt, systems, detectCollisions, fireTrigger(logger))
		logger.Info("tick complete",
			utils.Int("tick", i),
			utils.Int("live", w.Entities().LiveCount()),
			utils.Int("collisionPairs", stats.CollisionPairsRecorded),
			utils.Int("cooldownsExpired", stats.CooldownsExpired),
			utils.Int("quadtreeNodes", stats.QuadTreeNodeCount),
		)
	}

	logger.Info("benchmark complete", utils.Int("finalLiveEntities", w.Entities().LiveCount()))
}

// validateFlags reports a data-dependent configuration error (spec §7: not
// a programming error, since it depends entirely on what the caller passed
// on the command line) using the same fmt.Errorf/%w-based helpers the core
// reserves for reportable, non-panic failures.
func validateFlags(entityCount, ticks int, worldSize float64) error {
	if entityCount <= 0 {
		return utils.NewError("entities must be > 0")
	}
	if ticks <= 0 {
		return utils.WrapError(utils.NewError("must be > 0"), "ticks")
	}
	if worldSize <= 0 {
		return utils.WrapError(utils.NewError("must be > 0"), "world-size")
	}
	return nil
}

// spawnEntities scatters count entities uniformly across the world's
// region, keeping each collider box fully inside it, each carrying Transform, Velocity, and Collider components, plus
// a Trigger on roughly one in four so the cooldown table sees exercise.
func spawnEntities(w *world.World, rng *rand.Rand, count int, worldSize float32) {
	const halfExtent = 8

	for i := 0; i < count; i++ {
		faction := int32(i % 3)
		id, e := w.SpawnEntity(faction)

		pos := geom.Vec2{
			X: halfExtent + rng.Float32()*(worldSize-2*halfExtent),
			Y: halfExtent + rng.Float32()*(worldSize-2*halfExtent),
		}
		e.AddComponent(entity.KindTransform)
		e.Transform.Position = pos

		e.AddComponent(entity.KindVelocity)
		e.Velocity.Linear = geom.Vec2{
			X: (rng.Float32()*2 - 1) * 20,
			Y: (rng.Float32()*2 - 1) * 20,
		}

		e.AddComponent(entity.KindCollider)
		e.Collider.HalfExtent = geom.Vec2{X: halfExtent, Y: halfExtent}

		if i%4 == 0 {
			e.AddComponent(entity.KindTrigger)
			e.Trigger.OwningComponentKind = entity.KindCollider
			e.Trigger.Behaviour = entity.AfterNonContact()
		}

		area := geom.AABB{
			Position: geom.Vec2{X: pos.X - halfExtent, Y: pos.Y - halfExtent},
			Size:     geom.Vec2{X: 2 * halfExtent, Y: 2 * halfExtent},
		}
		w.IndexEntity(id, area)
	}
}

// randomWalkSystem returns a world.System that integrates every entity's
// velocity into its position, clamps it so the entity's collider box stays
// inside the world region, and re-indexes its quadtree location.
func randomWalkSystem(rng *rand.Rand) world.System {
	return func(w *world.World, dt float32) {
		region := w.Region()
		regionMax := region.Max()

		w.Entities().ForEachLive(func(id entity.EntityID, e *entity.Entity) {
			vel, ok := e.GetVelocity()
			if !ok {
				return
			}
			transform, ok := e.GetTransform()
			if !ok {
				return
			}

			lo, hi := region.Position, regionMax
			if collider, ok := e.GetCollider(); ok {
				lo, hi = lo.Add(collider.HalfExtent), hi.Sub(collider.HalfExtent)
			}
			next := transform.Position.Add(vel.Linear.Scale(dt))
			next = next.Max(lo).Min(hi)
			transform.Position = next

			if rng.Float32() < 0.02 {
				vel.Linear = geom.Vec2{
					X: (rng.Float32()*2 - 1) * 20,
					Y: (rng.Float32()*2 - 1) * 20,
				}
			}

			// The quadtree's AABB.Position is the min-corner, not the
			// entity's center -- spawnEntities indexes each entity at
			// pos-halfExtent, so moves must offset by the same
			// half-extent or the box drifts off-center every tick.
			minCorner := next
			if collider, ok := e.GetCollider(); ok {
				minCorner = next.Sub(collider.HalfExtent)
			}
			w.MoveEntity(id, minCorner)
		})
	}
}

// detectCollisions is the synthetic broadphase+narrowphase collision
// pass: for every entity with a Collider, query the quadtree around it and
// report every other overlapping collider as a candidate pair. The world
// is responsible for deduplicating the two directions a symmetric overlap
// gets reported in.
func detectCollisions(w *world.World) []world.CollisionInfo {
	var out []world.CollisionInfo
	var scratch []spatial.QueryResult

	w.Entities().ForEachLive(func(id entity.EntityID, e *entity.Entity) {
		collider, ok := e.GetCollider()
		if !ok {
			return
		}
		transform, ok := e.GetTransform()
		if !ok {
			return
		}
		area := geom.AABB{
			Position: transform.Position.Sub(collider.HalfExtent),
			Size:     collider.HalfExtent.Scale(2),
		}

		scratch = scratch[:0]
		scratch = w.QueryArea(area, scratch)
		for _, hit := range scratch {
			if hit.ID == id {
				continue
			}
			out = append(out, world.CollisionInfo{A: id, B: hit.ID})
		}
	})
	return out
}

// fireTrigger logs a line whenever a trigger fires, standing in for the
// real game-specific handler (spell damage, pickup, door-open, ...) an
// actual host would wire here.
func fireTrigger(logger *utils.Logger) world.TriggerHandler {
	return func(w *world.World, owner, other entity.EntityID, kind entity.ComponentKind) {
		logger.Debug("trigger fired",
			utils.Int32("ownerSlot", owner.Slot),
			utils.Int32("otherSlot", other.Slot),
		)
	}
}
