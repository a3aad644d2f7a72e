package spawn

import (
	"time"

	"github.com/udisondev/fpscore/internal/ai"
	"github.com/udisondev/fpscore/internal/config"
	"github.com/udisondev/fpscore/internal/game/combat"
	"github.com/udisondev/fpscore/internal/model"
	"github.com/udisondev/fpscore/internal/schedule"
	"github.com/udisondev/fpscore/internal/world"
)

// Definition describes where and how an enemy is spawned.
type Definition struct {
	Name         string
	Profile      string
	Position     model.Vec3
	Respawn      bool
	RespawnDelay time.Duration
	CorpseDelay  time.Duration // time the body stays in the world after death
}

// DefinitionFromConfig converts a spawn entry.
func DefinitionFromConfig(c config.SpawnConfig) Definition {
	return Definition{
		Name:         c.Name,
		Profile:      c.Profile,
		Position:     c.Position.Vec(),
		Respawn:      c.Respawn,
		RespawnDelay: c.RespawnDelay,
		CorpseDelay:  c.CorpseDelay,
	}
}

// Enemy bundles everything owned by one spawned enemy.
type Enemy struct {
	Def    Definition
	Entity *model.Entity
	Agent  *ai.Agent
	Mover  *world.Mover
	Melee  *combat.Melee

	listener  model.ListenerID
	corpseID  schedule.ID
	respawnID schedule.ID
	deaths    int
}

// ID returns the enemy entity ID.
func (e *Enemy) ID() model.EntityID { return e.Entity.ID() }

// Deaths returns how many times this enemy died.
func (e *Enemy) Deaths() int { return e.deaths }

// aiProfile converts a config profile into the AI profile.
func aiProfile(p config.AgentProfile) ai.Profile {
	wps := make([]model.Vec3, len(p.Waypoints))
	for i, wp := range p.Waypoints {
		wps[i] = wp.Vec()
	}
	return ai.Profile{
		WalkSpeed:        p.WalkSpeed,
		ChaseSpeed:       p.ChaseSpeed,
		SightDistance:    p.SightDistance,
		IdleDuration:     p.IdleDuration,
		StoppingDistance: p.StoppingDistance,
		EyeHeight:        p.EyeHeight,
		Waypoints:        wps,
	}
}

func meleeSpec(p config.AgentProfile) combat.MeleeSpec {
	return combat.MeleeSpec{
		Damage:   p.Melee.Damage,
		Range:    p.Melee.Range,
		Interval: p.Melee.Interval,
	}
}
