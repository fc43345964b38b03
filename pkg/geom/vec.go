// Package geom holds the small amount of planar geometry the simulation needs.
package geom

import "math"

// Vec2 is a point or direction in world units (one grid cell is one unit).
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2       { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2       { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(k float64) Vec2  { return Vec2{v.X * k, v.Y * k} }
func (v Vec2) Dot(o Vec2) float64    { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64          { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64   { return math.Hypot(v.X-o.X, v.Y-o.Y) }
func (v Vec2) DistSq(o Vec2) float64 { dx, dy := v.X-o.X, v.Y-o.Y; return dx*dx + dy*dy }

// Normalize returns the unit vector in the direction of v, or the zero vector
// when v has no length.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l <= 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Lerp interpolates between a and b.
func Lerp(a, b Vec2, t float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Angle returns the direction from -> to in radians.
func Angle(from, to Vec2) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// FromAngle returns the unit vector pointing at angle a.
func FromAngle(a float64) Vec2 {
	return Vec2{math.Cos(a), math.Sin(a)}
}

// RayProjection projects p onto the ray starting at origin with unit
// direction dir. It returns the distance along the ray and the perpendicular
// distance from it. along is negative for points behind the origin.
func RayProjection(origin, dir, p Vec2) (along, perp float64) {
	rel := p.Sub(origin)
	along = rel.Dot(dir)
	perp = math.Abs(rel.X*dir.Y - rel.Y*dir.X)
	return along, perp
}

// MoveTowards steps from towards to by at most step. It reports whether the
// target was reached.
func MoveTowards(from, to Vec2, step float64) (Vec2, bool) {
	d := from.Dist(to)
	if d <= step || d <= 0 {
		return to, true
	}
	return from.Add(to.Sub(from).Scale(step / d)), false
}
