// Package trigger implements the trigger-cooldown hash table (C6): an
// ordered-triple (owner, other, component kind) hash set with configurable
// retrigger policies, ticked once per frame.
package trigger

import (
	"encoding/binary"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/elvnh/arpgcore/collision"
	"github.com/elvnh/arpgcore/entity"
)

// BucketCount is the fixed bucket array size (spec §3).
const BucketCount = 512

// Key identifies one triple. Unlike collision.Pair, this key is *ordered*:
// an interaction recorded from owner's perspective is independent of one
// recorded from other's perspective (spec §4.6).
type Key struct {
	Owner, Other entity.EntityID
	Kind         entity.ComponentKind
}

func hashKey(k Key) uint32 {
	return entity.HashID(k.Owner) ^ entity.HashID(k.Other)
}

func keyBytes(k Key) []byte {
	var buf [20]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(k.Owner.Slot))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(k.Owner.Generation))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(k.Other.Slot))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(k.Other.Generation))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(k.Kind))
	return buf[:]
}

type cooldownEntry struct {
	key       Key
	behaviour entity.RetriggerBehaviour
	remaining float32
	next      *cooldownEntry
}

// Table is the world's trigger-cooldown table.
type Table struct {
	buckets  []*cooldownEntry
	pool     []cooldownEntry
	used     int
	freeHead *cooldownEntry
	bloom    *bloom.BloomFilter
}

// NewTable creates an empty cooldown table.
func NewTable() *Table {
	return &Table{
		buckets: make([]*cooldownEntry, BucketCount),
		bloom:   bloom.NewWithEstimates(BucketCount*8, 0.01),
	}
}

func (t *Table) allocEntry() *cooldownEntry {
	if t.freeHead != nil {
		e := t.freeHead
		t.freeHead = e.next
		*e = cooldownEntry{}
		return e
	}
	if t.used >= len(t.pool) {
		newCap := len(t.pool) * 2
		if newCap == 0 {
			newCap = BucketCount
		}
		grown := make([]cooldownEntry, newCap)
		copy(grown, t.pool)
		t.pool = grown
	}
	e := &t.pool[t.used]
	*e = cooldownEntry{}
	t.used++
	return e
}

func (t *Table) releaseEntry(e *cooldownEntry) {
	*e = cooldownEntry{next: t.freeHead}
	t.freeHead = e
}

// find locates the bucket slot and (if present) the matching entry plus
// its predecessor in that bucket's singly linked list, for O(1) unlink.
func (t *Table) find(owner, other entity.EntityID, kind entity.ComponentKind) (bucket int, prev, match *cooldownEntry) {
	if owner == other {
		panic("trigger: owner and other must differ")
	}
	key := Key{Owner: owner, Other: other, Kind: kind}
	bucket = int(hashKey(key) % uint32(len(t.buckets)))
	if !t.bloom.Test(keyBytes(key)) {
		return bucket, nil, nil
	}
	var p *cooldownEntry
	for e := t.buckets[bucket]; e != nil; e = e.next {
		if e.key == key {
			return bucket, p, e
		}
		p = e
	}
	return bucket, nil, nil
}

// Find reports the recorded entry for (owner, other, kind), if any.
func (t *Table) Find(owner, other entity.EntityID, kind entity.ComponentKind) bool {
	_, _, match := t.find(owner, other, kind)
	return match != nil
}

// IsOnCooldown is an alias for Find matching the source's naming.
func (t *Table) IsOnCooldown(owner, other entity.EntityID, kind entity.ComponentKind) bool {
	return t.Find(owner, other, kind)
}

// Add records (owner, other, kind) under behaviour. A Whenever policy is
// never recorded (it always permits retriggering); if an entry already
// exists, Add is a no-op (spec §4.6).
func (t *Table) Add(owner, other entity.EntityID, kind entity.ComponentKind, behaviour entity.RetriggerBehaviour) {
	if behaviour.Kind == entity.RetriggerWhenever {
		return
	}
	bucket, _, match := t.find(owner, other, kind)
	if match != nil {
		return
	}
	key := Key{Owner: owner, Other: other, Kind: kind}
	e := t.allocEntry()
	e.key = key
	e.behaviour = behaviour
	if behaviour.Kind == entity.RetriggerAfterDuration {
		e.remaining = behaviour.DurationSeconds
	}
	e.next = t.buckets[bucket]
	t.buckets[bucket] = e
	t.bloom.Add(keyBytes(key))
}

// Tick advances every entry's duration (if applicable) by dt, then removes
// entries whose removal predicate now holds (spec §3): either participant
// inactive or gone, AfterNonContact with no intersection this frame, or
// AfterDuration with remaining <= 0. Removed entries return to the free
// list for reuse by a future Add.
func (t *Table) Tick(dt float32, store *entity.Store, events *collision.FrameTable) int {
	removed := 0
	for bi := range t.buckets {
		var prev *cooldownEntry
		e := t.buckets[bi]
		for e != nil {
			next := e.next

			if e.behaviour.Kind == entity.RetriggerAfterDuration {
				e.remaining -= dt
			}

			if shouldRemove(e, store, events) {
				if prev != nil {
					prev.next = next
				} else {
					t.buckets[bi] = next
				}
				t.releaseEntry(e)
				removed++
			} else {
				prev = e
			}
			e = next
		}
	}
	return removed
}

func shouldRemove(e *cooldownEntry, store *entity.Store, events *collision.FrameTable) bool {
	owner, ownerOK := store.GetEntity(e.key.Owner)
	other, otherOK := store.GetEntity(e.key.Other)
	if !ownerOK || !otherOK || owner.IsInactive || other.IsInactive {
		return true
	}
	switch e.behaviour.Kind {
	case entity.RetriggerAfterNonContact:
		return !events.IntersectedThisFrame(e.key.Owner, e.key.Other)
	case entity.RetriggerAfterDuration:
		return e.remaining <= 0
	default:
		return false
	}
}

// Count returns the number of entries currently recorded, for diagnostics.
func (t *Table) Count() int {
	count := 0
	for _, head := range t.buckets {
		for e := head; e != nil; e = e.next {
			count++
		}
	}
	return count
}
