// Package collision implements the frame-scoped collision-event hash table
// (C5): an unordered-pair hash set flipped each frame to expose "this
// frame" and "previous frame" views.
package collision

import (
	"encoding/binary"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/elvnh/arpgcore/entity"
)

// BucketCount is the fixed bucket array size (spec §3).
const BucketCount = 512

// Pair is a canonicalized unordered entity pair: A is always the lexically
// smaller (slot, generation) of the two.
type Pair struct {
	A, B entity.EntityID
}

// CanonicalPair orders a and b by (slot, generation) so the same logical
// pair always hashes and compares the same way regardless of call order.
func CanonicalPair(a, b entity.EntityID) Pair {
	if idLess(a, b) {
		return Pair{A: a, B: b}
	}
	return Pair{A: b, B: a}
}

func idLess(a, b entity.EntityID) bool {
	if a.Slot != b.Slot {
		return a.Slot < b.Slot
	}
	return a.Generation < b.Generation
}

func hashPair(p Pair) uint32 {
	return entity.HashID(p.A) ^ entity.HashID(p.B)
}

func pairKeyBytes(p Pair) []byte {
	var buf [16]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(p.A.Slot))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(p.A.Generation))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(p.B.Slot))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(p.B.Generation))
	return buf[:]
}

type pairEntry struct {
	pair Pair
	next *pairEntry
}

// EventTable is one frame's worth of recorded collision pairs.
type EventTable struct {
	buckets []*pairEntry
	pool    []pairEntry
	used    int
	bloom   *bloom.BloomFilter
}

// NewEventTable creates an empty table with the fixed bucket count and a
// Bloom pre-filter sized for a few thousand pairs per frame.
func NewEventTable() *EventTable {
	return &EventTable{
		buckets: make([]*pairEntry, BucketCount),
		bloom:   bloom.NewWithEstimates(BucketCount*8, 0.01),
	}
}

func (t *EventTable) allocEntry() *pairEntry {
	if t.used >= len(t.pool) {
		newCap := len(t.pool) * 2
		if newCap == 0 {
			newCap = BucketCount
		}
		grown := make([]pairEntry, newCap)
		copy(grown, t.pool)
		t.pool = grown
	}
	e := &t.pool[t.used]
	*e = pairEntry{}
	t.used++
	return e
}

// Find reports the recorded entry for the unordered pair (a, b), if any.
// A Bloom-filter miss short-circuits the bucket scan entirely; the filter
// is advisory (§10.2) and can never produce a false negative.
func (t *EventTable) Find(a, b entity.EntityID) (Pair, bool) {
	p := CanonicalPair(a, b)
	if !t.bloom.Test(pairKeyBytes(p)) {
		return Pair{}, false
	}
	idx := hashPair(p) % uint32(len(t.buckets))
	for e := t.buckets[idx]; e != nil; e = e.next {
		if e.pair == p {
			return e.pair, true
		}
	}
	return Pair{}, false
}

// Insert records (a, b). Precondition: Find(a, b) must currently return
// false -- a duplicate insert is a caller programming error (spec §4.5)
// and panics.
func (t *EventTable) Insert(a, b entity.EntityID) {
	p := CanonicalPair(a, b)
	if _, found := t.Find(a, b); found {
		panic("collision: duplicate pair insert")
	}
	idx := hashPair(p) % uint32(len(t.buckets))
	e := t.allocEntry()
	e.pair = p
	e.next = t.buckets[idx]
	t.buckets[idx] = e
	t.bloom.Add(pairKeyBytes(p))
}

// Clear empties the table and its pre-filter.
func (t *EventTable) Clear() {
	for i := range t.buckets {
		t.buckets[i] = nil
	}
	t.used = 0
	t.bloom.ClearAll()
}

// Count returns the number of pairs currently recorded, for diagnostics.
func (t *EventTable) Count() int { return t.used }

// FrameTable holds the current and previous frame's EventTable and
// implements the flip-and-clear semantics the world drives once per tick.
type FrameTable struct {
	current  *EventTable
	previous *EventTable
}

// NewFrameTable creates an empty pair of tables.
func NewFrameTable() *FrameTable {
	return &FrameTable{current: NewEventTable(), previous: NewEventTable()}
}

// Record inserts (a, b) into the current frame's table.
func (f *FrameTable) Record(a, b entity.EntityID) {
	f.current.Insert(a, b)
}

// IntersectedThisFrame reports whether (a, b) was recorded this frame.
func (f *FrameTable) IntersectedThisFrame(a, b entity.EntityID) bool {
	_, ok := f.current.Find(a, b)
	return ok
}

// IntersectedPreviousFrame reports whether (a, b) was recorded last frame.
// The previous-frame view is immutable through the whole tick (spec §5).
func (f *FrameTable) IntersectedPreviousFrame(a, b entity.EntityID) bool {
	_, ok := f.previous.Find(a, b)
	return ok
}

// SwapFrame swaps current and previous, then clears the new current --
// exactly the source's collision_event_table flip at end of frame.
func (f *FrameTable) SwapFrame() {
	f.current, f.previous = f.previous, f.current
	f.current.Clear()
}
