// Package spatial implements the point-region quadtree broadphase index
// (C4): bounded-depth lazy subdivision, smallest-fully-containing-
// descendant insertion, and handle-based move/remove.
package spatial

import (
	"github.com/elvnh/arpgcore/entity"
	"github.com/elvnh/arpgcore/geom"
)

// MaxDepth bounds subdivision: a node only subdivides and descends while
// its depth is less than MaxDepth-1 (spec §4.4).
const MaxDepth = 4

// Element is one (entity, area) entry living in a node's element list.
// Elements are recycled through the tree's free list rather than garbage
// collected individually, matching the source's arena-backed element
// pooling -- see DESIGN.md for why the pool holds plain Go pointers
// instead of literal byte-arena slots.
type Element struct {
	ID   entity.EntityID
	Area geom.AABB

	prev, next *Element
}

// node owns a region and, once subdivided, exactly four children in
// top-left, top-right, bottom-right, bottom-left order -- the tree's fixed
// tie-break order wherever more than one quadrant could apply.
type node struct {
	Region   geom.AABB
	depth    int
	children [4]*node
	head     *Element
	tail     *Element
}

func (n *node) pushBack(el *Element) {
	el.prev = n.tail
	el.next = nil
	if n.tail != nil {
		n.tail.next = el
	} else {
		n.head = el
	}
	n.tail = el
}

func (n *node) remove(el *Element) {
	if el.prev != nil {
		el.prev.next = el.next
	} else {
		n.head = el.next
	}
	if el.next != nil {
		el.next.prev = el.prev
	} else {
		n.tail = el.prev
	}
	el.prev, el.next = nil, nil
}

// Location is the opaque handle returned by Insert, required by Move,
// SetArea, and Remove. It is invalidated by the next Move/SetArea/Remove
// issued against the same entity (spec §5).
type Location struct {
	node    *node
	element *Element
}

// IsZero reports whether loc is the zero value (never returned by Insert).
func (loc Location) IsZero() bool { return loc.node == nil }

// Tree is a point-region quadtree over entity AABBs.
type Tree struct {
	root     *node
	freeHead *Element
}

// NewTree creates a tree whose root covers region.
func NewTree(region geom.AABB) *Tree {
	return &Tree{root: &node{Region: region}}
}

// Region returns the tree's root region.
func (t *Tree) Region() geom.AABB { return t.root.Region }

func (t *Tree) allocElement() *Element {
	if t.freeHead != nil {
		el := t.freeHead
		t.freeHead = el.next
		el.next = nil
		return el
	}
	return &Element{}
}

func (t *Tree) releaseElement(el *Element) {
	*el = Element{next: t.freeHead}
	t.freeHead = el
}

func (n *node) subdivideIfNeeded() {
	if n.children[0] != nil {
		return
	}
	tl, tr, br, bl := n.Region.Quadrants()
	n.children[0] = &node{Region: tl, depth: n.depth + 1}
	n.children[1] = &node{Region: tr, depth: n.depth + 1}
	n.children[2] = &node{Region: br, depth: n.depth + 1}
	n.children[3] = &node{Region: bl, depth: n.depth + 1}
}

// Insert places id with the given area into the smallest descendant whose
// region fully contains area, starting from the root. area must have
// strictly positive extent and must fit within the tree's root region;
// violating either is a caller bug (spec §4.4 edge cases) and panics.
func (t *Tree) Insert(id entity.EntityID, area geom.AABB) Location {
	if area.Size.X <= 0 || area.Size.Y <= 0 {
		panic("spatial: AABB must have positive extent")
	}
	if !t.root.Region.Contains(area) {
		panic("spatial: area is not contained by the tree's root region")
	}
	return t.insertAt(t.root, id, area)
}

func (t *Tree) insertAt(n *node, id entity.EntityID, area geom.AABB) Location {
	if n.depth < MaxDepth-1 {
		n.subdivideIfNeeded()
		for _, child := range n.children {
			if child.Region.Contains(area) {
				return t.insertAt(child, id, area)
			}
		}
	}
	el := t.allocElement()
	el.ID = id
	el.Area = area
	n.pushBack(el)
	return Location{node: n, element: el}
}

// Remove removes loc's entry from its node and returns the element to the
// tree's free list. loc must be a location this tree produced and not yet
// invalidated; anything else is a caller programming error and panics
// (spec §7).
func (t *Tree) Remove(loc Location) {
	if loc.IsZero() {
		panic("spatial: invalid (zero) location")
	}
	loc.node.remove(loc.element)
	t.releaseElement(loc.element)
}

// SetArea removes the entry at loc (if any) and re-inserts id with
// newArea from the root, matching the source's qt_set_entity_area: a
// relocation is always a fresh top-down insert, never an in-place resize
// of the existing node (spec §4.4).
func (t *Tree) SetArea(id entity.EntityID, loc Location, newArea geom.AABB) Location {
	if !loc.IsZero() {
		t.Remove(loc)
	}
	return t.Insert(id, newArea)
}

// Move re-inserts id at newPosition, keeping its current area's size.
func (t *Tree) Move(id entity.EntityID, loc Location, newPosition geom.Vec2) Location {
	size := loc.element.Area.Size
	return t.SetArea(id, loc, geom.AABB{Position: newPosition, Size: size})
}

// QueryResult is one hit from QueryArea.
type QueryResult struct {
	ID   entity.EntityID
	Area geom.AABB
}

// QueryArea appends every entry whose area intersects area to out and
// returns the extended slice, pruning any subtree whose region does not
// intersect area at all.
func (t *Tree) QueryArea(area geom.AABB, out []QueryResult) []QueryResult {
	return queryNode(t.root, area, out)
}

func queryNode(n *node, area geom.AABB, out []QueryResult) []QueryResult {
	if !n.Region.Intersects(area) {
		return out
	}
	for el := n.head; el != nil; el = el.next {
		if el.Area.Intersects(area) {
			out = append(out, QueryResult{ID: el.ID, Area: el.Area})
		}
	}
	for _, c := range n.children {
		if c != nil {
			out = queryNode(c, area, out)
		}
	}
	return out
}

// NodeCount returns the total number of nodes (root + all descendants
// created so far) in the tree, for diagnostics (spec §10.3).
func (t *Tree) NodeCount() int {
	return countNode(t.root)
}

func countNode(n *node) int {
	count := 1
	for _, c := range n.children {
		if c != nil {
			count += countNode(c)
		}
	}
	return count
}
