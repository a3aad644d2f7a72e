package ai

import (
	"time"

	"github.com/udisondev/fpscore/internal/model"
)

// Default behavior constants.
const (
	defaultWalkSpeed        = 2.0
	defaultChaseSpeed       = 5.0
	defaultSightDistance    = 15.0
	defaultIdleDuration     = 2 * time.Second
	defaultStoppingDistance = 0.1
	defaultEyeHeight        = 1.5
)

// Profile is the static per-agent configuration, fixed at creation.
type Profile struct {
	WalkSpeed        float64
	ChaseSpeed       float64
	SightDistance    float64
	IdleDuration     time.Duration
	StoppingDistance float64 // arrival tolerance for waypoints
	EyeHeight        float64 // sight line origin above the feet
	Waypoints        []model.Vec3
}

// DefaultProfile returns a patrol profile without waypoints.
func DefaultProfile() Profile {
	return Profile{
		WalkSpeed:        defaultWalkSpeed,
		ChaseSpeed:       defaultChaseSpeed,
		SightDistance:    defaultSightDistance,
		IdleDuration:     defaultIdleDuration,
		StoppingDistance: defaultStoppingDistance,
		EyeHeight:        defaultEyeHeight,
	}
}

// withDefaults fills zero or negative fields from DefaultProfile.
func (p Profile) withDefaults() Profile {
	d := DefaultProfile()
	if p.WalkSpeed <= 0 {
		p.WalkSpeed = d.WalkSpeed
	}
	if p.ChaseSpeed <= 0 {
		p.ChaseSpeed = d.ChaseSpeed
	}
	if p.SightDistance <= 0 {
		p.SightDistance = d.SightDistance
	}
	if p.IdleDuration < 0 {
		p.IdleDuration = 0
	}
	if p.StoppingDistance <= 0 {
		p.StoppingDistance = d.StoppingDistance
	}
	if p.EyeHeight < 0 {
		p.EyeHeight = 0
	}
	p.Waypoints = append([]model.Vec3(nil), p.Waypoints...)
	return p
}
