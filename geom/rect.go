package geom

// AABB is an axis-aligned bounding box described by its min corner (position)
// and its size. A zero or negative-extent box is a caller bug (spec §4.4
// edge cases); operations here do not defend against it.
type AABB struct {
	Position Vec2
	Size     Vec2
}

// NewAABB builds a box from a position and a size.
func NewAABB(position, size Vec2) AABB {
	return AABB{Position: position, Size: size}
}

func (a AABB) Max() Vec2 {
	return Vec2{a.Position.X + a.Size.X, a.Position.Y + a.Size.Y}
}

// Contains reports whether a fully contains b (b's extent lies entirely
// within a's extent, inclusive of the boundary).
func (a AABB) Contains(b AABB) bool {
	aMax := a.Max()
	bMax := b.Max()
	return b.Position.X >= a.Position.X &&
		b.Position.Y >= a.Position.Y &&
		bMax.X <= aMax.X &&
		bMax.Y <= aMax.Y
}

// Intersects reports whether a and b overlap (touching edges count as
// overlap, matching the original's inclusive comparison).
func (a AABB) Intersects(b AABB) bool {
	aMax := a.Max()
	bMax := b.Max()
	return a.Position.X <= bMax.X &&
		aMax.X >= b.Position.X &&
		a.Position.Y <= bMax.Y &&
		aMax.Y >= b.Position.Y
}

// Quadrants splits a into its four child quadrants in fixed tl, tr, br, bl
// order, matching the quadtree's required tie-break order.
func (a AABB) Quadrants() (tl, tr, br, bl AABB) {
	half := Vec2{a.Size.X / 2, a.Size.Y / 2}
	tl = AABB{Position: a.Position, Size: half}
	tr = AABB{Position: Vec2{a.Position.X + half.X, a.Position.Y}, Size: half}
	bl = AABB{Position: Vec2{a.Position.X, a.Position.Y + half.Y}, Size: half}
	br = AABB{Position: Vec2{a.Position.X + half.X, a.Position.Y + half.Y}, Size: half}
	return tl, tr, br, bl
}
