package world

import (
	"math"

	"github.com/udisondev/fpscore/internal/model"
)

// Box is an axis-aligned obstacle (wall, crate, door) that blocks sight and shots.
type Box struct {
	Min model.Vec3
	Max model.Vec3
}

// NewBox builds a box from any two opposite corners.
func NewBox(a, b model.Vec3) Box {
	return Box{
		Min: model.V3(math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)),
		Max: model.V3(math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)),
	}
}

// Contains reports whether p lies inside or on the box.
func (b Box) Contains(p model.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// intersectRay returns the distance along unit dir at which the ray enters the
// box (slab test). Rays starting inside the box hit at 0.
func (b Box) intersectRay(origin, dir model.Vec3, maxDist float64) (float64, bool) {
	tMin, tMax := 0.0, maxDist

	axes := [3][4]float64{
		{origin.X, dir.X, b.Min.X, b.Max.X},
		{origin.Y, dir.Y, b.Min.Y, b.Max.Y},
		{origin.Z, dir.Z, b.Min.Z, b.Max.Z},
	}
	for _, ax := range axes {
		o, d, lo, hi := ax[0], ax[1], ax[2], ax[3]
		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// intersectSphere returns the entry distance of a unit-dir ray into a sphere.
func intersectSphere(origin, dir, center model.Vec3, radius, maxDist float64) (float64, bool) {
	oc := origin.Sub(center)
	c := oc.Dot(oc) - radius*radius
	if c <= 0 {
		return 0, true // origin inside the sphere
	}
	b := oc.Dot(dir)
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	t := -b - math.Sqrt(disc)
	if t < 0 || t > maxDist {
		return 0, false
	}
	return t, true
}
