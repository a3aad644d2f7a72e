// Package sim hosts the game loop: world movement, the player controller,
// enemy AI and deadline-driven lifecycle events.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/udisondev/fpscore/internal/ai"
	"github.com/udisondev/fpscore/internal/config"
	"github.com/udisondev/fpscore/internal/game/combat"
	"github.com/udisondev/fpscore/internal/model"
	"github.com/udisondev/fpscore/internal/schedule"
	"github.com/udisondev/fpscore/internal/spawn"
	"github.com/udisondev/fpscore/internal/world"
)

const (
	playerRadius = 0.5
	turretRadius = 0.5
)

// ErrPlayerDead is returned by player actions after the player died.
var ErrPlayerDead = errors.New("player is dead")

// maxStepFactor caps a single measured dt at this many tick intervals,
// so a stalled process does not teleport agents across the map.
const maxStepFactor = 4

// Simulation owns the scene and advances it one tick at a time.
// Step is not safe for concurrent use; Run calls it from a single goroutine.
type Simulation struct {
	cfg       config.Simulation
	world     *world.World
	ai        *ai.TickManager
	deadlines *schedule.Deadlines
	spawns    *spawn.Manager
	events    spawn.EventSink

	player    *model.Entity
	weapon    *combat.Weapon
	eyeHeight float64

	ticks   atomic.Uint64
	elapsed time.Duration
}

// New builds the scene from cfg and spawns all configured enemies.
// events may be nil.
func New(cfg config.Simulation, events spawn.EventSink) (*Simulation, error) {
	s := &Simulation{
		cfg:       cfg,
		world:     world.New(),
		ai:        ai.NewTickManager(),
		deadlines: schedule.NewDeadlines(),
		events:    events,
		eyeHeight: cfg.Player.EyeHeight,
	}

	for _, o := range cfg.Obstacles {
		s.world.AddObstacle(world.NewBox(o.Min.Vec(), o.Max.Vec()))
	}
	for _, d := range cfg.Doors {
		s.world.AddDoor(world.NewBox(d.Min.Vec(), d.Max.Vec()), d.Open)
	}

	if err := s.spawnPlayer(cfg.Player); err != nil {
		return nil, err
	}
	if err := s.spawnTurrets(cfg.Turrets); err != nil {
		return nil, err
	}

	s.spawns = spawn.NewManager(s.world, s.ai, s.deadlines, cfg.Profiles, events)
	defs := make([]spawn.Definition, len(cfg.Spawns))
	for i, sc := range cfg.Spawns {
		defs[i] = spawn.DefinitionFromConfig(sc)
	}
	if err := s.spawns.SpawnAll(defs); err != nil {
		return nil, fmt.Errorf("spawning enemies: %w", err)
	}

	slog.Info("simulation initialized",
		"entities", s.world.Count(),
		"obstacles", len(cfg.Obstacles),
		"doors", len(cfg.Doors),
		"turrets", len(cfg.Turrets),
		"agents", s.ai.Count())

	return s, nil
}

func (s *Simulation) spawnPlayer(pc config.PlayerConfig) error {
	id := s.world.NextID(model.RolePlayer)
	name := pc.Name
	if name == "" {
		name = "Player"
	}

	s.player = model.NewEntity(id, name, model.RolePlayer, pc.Position.Vec(), playerRadius, model.NewHealthPool(pc.MaxHealth))
	if err := s.world.Add(s.player); err != nil {
		return fmt.Errorf("adding player: %w", err)
	}

	s.player.Health().AddListener(model.HealthListenerFuncs{
		Damaged: func(ev model.DamageEvent) {
			s.publish(model.EventDamage, ev.Source, ev.Amount, ev.Remaining)
		},
		Died: func(ev model.DeathEvent) {
			s.publish(model.EventDeath, ev.Source, ev.Amount, 0)
			slog.Info("player died", "id", id, "killer", ev.Source, "overkill", ev.Overkill)
		},
	})

	s.weapon = combat.NewWeapon(combat.WeaponSpec{
		Damage:       pc.Weapon.Damage,
		Range:        pc.Weapon.Range,
		FireInterval: pc.Weapon.FireInterval,
		MagazineSize: pc.Weapon.MagazineSize,
		ReloadTime:   pc.Weapon.ReloadTime,
		FireDelay:    pc.Weapon.FireDelay,
	}, s.player, s.world)
	s.weapon.OnShot(func(res combat.FireResult) {
		if res.Damaged && res.Outcome == model.DamageDied {
			slog.Info("enemy killed", "target", res.Target, "shots", s.weapon.ShotsFired())
		}
	})

	return nil
}

// spawnTurrets adds patrolling props. They stop shots but cannot be damaged.
func (s *Simulation) spawnTurrets(turrets []config.TurretConfig) error {
	for i, tc := range turrets {
		name := tc.Name
		if name == "" {
			name = fmt.Sprintf("turret-%d", i+1)
		}
		axis := tc.Axis.Vec()
		if axis == (model.Vec3{}) {
			axis = model.V3(1, 0, 0)
		}

		e := model.NewEntity(s.world.NextID(model.RoleProp), name, model.RoleProp, tc.Position.Vec(), turretRadius, nil)
		if err := s.world.Add(e); err != nil {
			return fmt.Errorf("adding turret %q: %w", name, err)
		}
		s.world.NewPatrol(e, axis, tc.Distance, tc.Speed, tc.Reverse)
	}
	return nil
}

// Step advances the simulation by dt: movers, player, enemy attacks,
// AI, then global deadlines. Negative dt is treated as zero.
func (s *Simulation) Step(dt time.Duration) {
	dt = max(dt, 0)

	s.world.Step(dt)
	s.stepPlayer(dt)
	s.stepEnemyAttacks(dt)
	s.ai.TickAll(dt)
	s.deadlines.Advance(dt)

	s.ticks.Add(1)
	s.elapsed += dt
}

// stepPlayer fires at the nearest visible enemy when auto-fire is enabled.
func (s *Simulation) stepPlayer(dt time.Duration) {
	s.weapon.Update(dt)
	if !s.cfg.Player.AutoFire || !s.player.IsAlive() || !s.weapon.Ready() {
		return
	}

	target, ok := s.NearestVisibleEnemy()
	if !ok {
		return
	}

	if _, err := s.weapon.FireAt(s.eyeHeight, target.Position()); err != nil {
		slog.Debug("player shot rejected", "error", err)
	}
}

// Interact toggles the door the player is looking at along dir, if it is
// within the interact range and nothing stands in front of it.
func (s *Simulation) Interact(dir model.Vec3) (world.DoorID, bool, error) {
	if !s.player.IsAlive() {
		return world.NoDoor, false, ErrPlayerDead
	}
	eye := s.player.Position().Raised(s.eyeHeight)
	id, ok := s.world.DoorInSight(eye, dir, s.cfg.Player.InteractRange, s.player.ID())
	if !ok {
		return world.NoDoor, false, nil
	}
	open, err := s.world.ToggleDoor(id)
	if err != nil {
		return id, false, fmt.Errorf("interacting: %w", err)
	}
	slog.Info("door toggled", "door", id, "open", open)
	return id, open, nil
}

// stepEnemyAttacks lets chasing enemies hit the player in melee range.
// Cooldowns of all living enemies advance every tick.
func (s *Simulation) stepEnemyAttacks(dt time.Duration) {
	for _, e := range s.spawns.Enemies() {
		if !e.Entity.IsAlive() {
			continue
		}
		var target *model.Entity
		if e.Agent.State() == model.StateChase {
			target = s.player
		}
		e.Melee.Update(dt, target)
	}
}

// NearestVisibleEnemy returns the closest live enemy within weapon range
// with a clear line of sight from the player's eye to the enemy's eye.
func (s *Simulation) NearestVisibleEnemy() (*model.Entity, bool) {
	eye := s.player.Position().Raised(s.eyeHeight)
	maxDist := s.weapon.Spec().Range

	var (
		best     *model.Entity
		bestDist = math.Inf(1)
	)
	for _, e := range s.world.EntitiesByRole(model.RoleEnemy) {
		d := eye.Distance(e.Position())
		if d > maxDist || d >= bestDist {
			continue
		}
		if _, blocked := s.world.LineOfSight(eye, e.Position().Raised(s.eyeHeight)); blocked {
			continue
		}
		best, bestDist = e, d
	}
	return best, best != nil
}

// Run steps the simulation on a ticker until ctx is cancelled.
// dt is the measured wall time between ticks.
func (s *Simulation) Run(ctx context.Context) error {
	interval := s.cfg.TickInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("simulation started", "interval", interval)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation stopping",
				"ticks", s.ticks.Load(),
				"elapsed", s.elapsed,
				"playerHP", s.player.Health().Current())
			return nil

		case now := <-ticker.C:
			dt := min(now.Sub(last), maxStepFactor*interval)
			last = now
			s.Step(dt)
		}
	}
}

// SetProfiles forwards reloaded agent profiles to the spawn manager.
func (s *Simulation) SetProfiles(profiles map[string]config.AgentProfile) {
	s.spawns.SetProfiles(profiles)
}

// World returns the scene.
func (s *Simulation) World() *world.World { return s.world }

// Player returns the player entity.
func (s *Simulation) Player() *model.Entity { return s.player }

// Weapon returns the player's weapon.
func (s *Simulation) Weapon() *combat.Weapon { return s.weapon }

// Spawns returns the enemy spawn manager.
func (s *Simulation) Spawns() *spawn.Manager { return s.spawns }

// Agents returns the AI tick manager.
func (s *Simulation) Agents() *ai.TickManager { return s.ai }

// Deadlines returns the global lifecycle scheduler.
func (s *Simulation) Deadlines() *schedule.Deadlines { return s.deadlines }

// Ticks returns the number of completed steps.
func (s *Simulation) Ticks() uint64 { return s.ticks.Load() }

// Elapsed returns total simulated time.
func (s *Simulation) Elapsed() time.Duration { return s.elapsed }

func (s *Simulation) publish(kind model.CombatEventKind, source model.EntityID, amount, remaining float64) {
	if s.events == nil {
		return
	}
	s.events.Publish(model.NewCombatEvent(kind, s.player.ID(), source, amount, remaining, time.Now()))
}
