package combat

import (
	"log/slog"
	"time"

	"github.com/udisondev/fpscore/internal/model"
)

// MeleeSpec configures a close-range attack.
type MeleeSpec struct {
	Damage   float64
	Range    float64
	Interval time.Duration
}

// DefaultMelee returns the stock enemy claw attack.
func DefaultMelee() MeleeSpec {
	return MeleeSpec{Damage: 10, Range: 1.5, Interval: time.Second}
}

// Melee is a repeating close-range attack with an accumulator cooldown.
type Melee struct {
	spec  MeleeSpec
	owner *model.Entity
	cool  time.Duration
}

// NewMelee creates a ready melee attack.
func NewMelee(spec MeleeSpec, owner *model.Entity) *Melee {
	return &Melee{spec: spec, owner: owner}
}

// Reset makes the attack ready again (respawn).
func (m *Melee) Reset() { m.cool = 0 }

// Update advances the cooldown by dt and, if ready and target is within Range,
// hits it. Returns the outcome and whether a hit was attempted.
func (m *Melee) Update(dt time.Duration, target *model.Entity) (model.DamageOutcome, bool) {
	if dt > 0 {
		m.cool = max(m.cool-dt, 0)
	}
	if m.cool > 0 || target == nil || target.Health() == nil || !m.owner.IsAlive() || !target.IsAlive() {
		return 0, false
	}
	if m.owner.Position().Distance(target.Position()) > m.spec.Range {
		return 0, false
	}

	m.cool = m.spec.Interval
	outcome := target.Health().ApplyDamage(m.spec.Damage, m.owner.ID())

	slog.Debug("melee hit",
		"attacker", m.owner.ID(),
		"target", target.ID(),
		"damage", m.spec.Damage,
		"outcome", outcome)

	return outcome, true
}
