package model

// RayHit describes the first thing a ray or sight line struck.
type RayHit struct {
	Point    Vec3
	Distance float64
	Entity   EntityID // NoEntity when an obstacle was hit
}

// HitEntity reports whether the ray stopped on an entity rather than on static geometry.
func (h RayHit) HitEntity() bool {
	return h.Entity != NoEntity
}
