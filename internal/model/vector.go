package model

import "math"

// Vec3 — точка или направление в мировых координатах.
// Value type, передаётся по значению (immutable).
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// V3 создаёт Vec3 с указанными координатами.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v multiplied by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Len returns the Euclidean length.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns the unit vector in the direction of v.
// A zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// DistanceSquared возвращает квадрат расстояния до другой точки (без sqrt для hot path).
func (v Vec3) DistanceSquared(o Vec3) float64 {
	d := v.Sub(o)
	return d.Dot(d)
}

// Distance returns the straight-line distance to o.
func (v Vec3) Distance(o Vec3) float64 {
	return math.Sqrt(v.DistanceSquared(o))
}

// Raised returns v lifted by h along the Y (up) axis.
func (v Vec3) Raised(h float64) Vec3 {
	v.Y += h
	return v
}

// MoveTowards moves v toward target by at most maxStep and never overshoots.
func (v Vec3) MoveTowards(target Vec3, maxStep float64) Vec3 {
	d := target.Sub(v)
	dist := d.Len()
	if dist <= maxStep || dist == 0 {
		return target
	}
	return v.Add(d.Scale(maxStep / dist))
}
