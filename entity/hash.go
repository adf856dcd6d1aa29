package entity

// HashID produces a hash for an EntityID, used by the collision and
// trigger-cooldown tables to bucket pairs/triples. Any function symmetric
// in its use (via XOR combination at the call site) is acceptable per
// spec §4.5; this one is a simple FNV-1a-style mix over the two int32
// fields.
func HashID(id EntityID) uint32 {
	h := uint32(2166136261)
	h = (h ^ uint32(id.Slot)) * 16777619
	h = (h ^ uint32(id.Generation)) * 16777619
	return h
}
