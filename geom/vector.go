// Package geom provides the float32 vector and axis-aligned bounding box
// math shared by the spatial index and collision passes.
package geom

import "github.com/chewxy/math32"

// Vec2 is a two-dimensional float32 vector.
type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) Min(o Vec2) Vec2 {
	return Vec2{math32.Min(v.X, o.X), math32.Min(v.Y, o.Y)}
}

func (v Vec2) Max(o Vec2) Vec2 {
	return Vec2{math32.Max(v.X, o.X), math32.Max(v.Y, o.Y)}
}
