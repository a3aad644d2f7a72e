package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/fpscore/internal/config"
	"github.com/udisondev/fpscore/internal/model"
	"github.com/udisondev/fpscore/internal/testutil"
)

const tick = 50 * time.Millisecond

func oneGrunt(x float64) config.Simulation {
	cfg := config.DefaultSimulation()
	cfg.Spawns = []config.SpawnConfig{{
		Name:        "grunt-1",
		Profile:     "grunt",
		Position:    config.Point{X: x},
		CorpseDelay: time.Second,
	}}
	return cfg
}

func stepFor(s *Simulation, d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += tick {
		s.Step(tick)
	}
}

func TestNew(t *testing.T) {
	s, err := New(oneGrunt(5), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, s.World().Count())
	assert.Equal(t, 1, s.Agents().Count())
	assert.Equal(t, model.RolePlayer, s.Player().Role())
	assert.Equal(t, 100.0, s.Player().Health().Current())
	assert.Equal(t, 12, s.Weapon().Rounds())
}

func TestNew_UnknownProfile(t *testing.T) {
	cfg := oneGrunt(5)
	cfg.Spawns[0].Profile = "boss"

	_, err := New(cfg, nil)
	require.Error(t, err)
}

func TestSimulation_PlayerKillsEnemy(t *testing.T) {
	events := &testutil.EventRecorder{}
	s, err := New(oneGrunt(5), events)
	require.NoError(t, err)
	enemy := s.Spawns().Enemies()[0]

	for i := 0; i < 100 && enemy.Entity.IsAlive(); i++ {
		s.Step(tick)
	}
	require.False(t, enemy.Entity.IsAlive(), "auto-fire must kill the enemy")
	assert.Equal(t, 4, s.Weapon().ShotsFired(), "100 HP / 25 damage")
	assert.Equal(t, 0, s.Agents().Count())

	var deaths int
	for _, ev := range events.Events() {
		if ev.Kind == model.EventDeath && ev.Victim == enemy.ID() {
			deaths++
		}
	}
	assert.Equal(t, 1, deaths)

	stepFor(s, 2*time.Second)
	assert.False(t, s.World().Has(enemy.ID()), "corpse removed")
	assert.Equal(t, 0, s.Spawns().Count())
}

func TestSimulation_EnemyChasesAndHitsPlayer(t *testing.T) {
	cfg := oneGrunt(3)
	cfg.Player.AutoFire = false
	s, err := New(cfg, nil)
	require.NoError(t, err)
	enemy := s.Spawns().Enemies()[0]

	stepFor(s, 3*time.Second)

	assert.Equal(t, model.StateChase, enemy.Agent.State())
	assert.Less(t, enemy.Entity.Position().Distance(s.Player().Position()), 1.5)
	assert.Less(t, s.Player().Health().Current(), 100.0)
}

func TestSimulation_ObstacleBlocksSight(t *testing.T) {
	cfg := oneGrunt(6)
	cfg.Obstacles = []config.ObstacleConfig{{
		Min: config.Point{X: 2, Y: -1, Z: -2},
		Max: config.Point{X: 3, Y: 5, Z: 2},
	}}
	s, err := New(cfg, nil)
	require.NoError(t, err)
	enemy := s.Spawns().Enemies()[0]

	_, visible := s.NearestVisibleEnemy()
	assert.False(t, visible)

	stepFor(s, time.Second)

	assert.Equal(t, model.StateIdle, enemy.Agent.State())
	assert.Zero(t, s.Weapon().ShotsFired())
	assert.Equal(t, 100.0, enemy.Entity.Health().Current())
	assert.Equal(t, 100.0, s.Player().Health().Current())
}

func TestSimulation_SeesOverLowCover(t *testing.T) {
	cfg := oneGrunt(6)
	cfg.Player.AutoFire = false
	cfg.Obstacles = []config.ObstacleConfig{{
		Min: config.Point{X: 2, Y: -1, Z: -2},
		Max: config.Point{X: 3, Y: 1, Z: 2},
	}}
	s, err := New(cfg, nil)
	require.NoError(t, err)
	enemy := s.Spawns().Enemies()[0]

	got, visible := s.NearestVisibleEnemy()
	require.True(t, visible, "eye-to-eye sight clears a waist-high wall")
	assert.Equal(t, enemy.ID(), got.ID())

	s.Step(tick)
	assert.Equal(t, model.StateChase, enemy.Agent.State(), "sight is symmetric")
}

func TestSimulation_DelayedShot(t *testing.T) {
	cfg := oneGrunt(5)
	cfg.Player.Weapon.FireDelay = 100 * time.Millisecond
	s, err := New(cfg, nil)
	require.NoError(t, err)
	enemy := s.Spawns().Enemies()[0]

	s.Step(tick)
	assert.Equal(t, 1, s.Weapon().ShotsFired())
	assert.Equal(t, 1, s.Weapon().PendingShots())
	assert.Equal(t, 100.0, enemy.Entity.Health().Current())

	s.Step(tick)
	assert.Equal(t, 100.0, enemy.Entity.Health().Current(), "impact not due yet")

	s.Step(tick)
	assert.Zero(t, s.Weapon().PendingShots())
	assert.Equal(t, 75.0, enemy.Entity.Health().Current())
}

func TestSimulation_InteractOpensDoor(t *testing.T) {
	cfg := oneGrunt(6)
	cfg.Player.AutoFire = false
	cfg.Doors = []config.DoorConfig{{
		Min: config.Point{X: 2, Y: 0, Z: -1},
		Max: config.Point{X: 2.5, Y: 3, Z: 1},
	}}
	s, err := New(cfg, nil)
	require.NoError(t, err)

	_, visible := s.NearestVisibleEnemy()
	assert.False(t, visible, "closed door hides the enemy")

	_, ok, err := s.Interact(model.V3(-1, 0, 0))
	require.NoError(t, err)
	assert.False(t, ok, "no door behind the player")

	id, open, err := s.Interact(model.V3(1, 0, 0))
	require.NoError(t, err)
	assert.True(t, open)
	state, known := s.World().IsDoorOpen(id)
	require.True(t, known)
	assert.True(t, state)

	_, visible = s.NearestVisibleEnemy()
	assert.True(t, visible)

	_, open, err = s.Interact(model.V3(1, 0, 0))
	require.NoError(t, err)
	assert.False(t, open, "second use closes it")
}

func TestSimulation_InteractOutOfReach(t *testing.T) {
	cfg := oneGrunt(30)
	cfg.Doors = []config.DoorConfig{{
		Min: config.Point{X: 5, Y: 0, Z: -1},
		Max: config.Point{X: 5.5, Y: 3, Z: 1},
	}}
	s, err := New(cfg, nil)
	require.NoError(t, err)

	_, ok, err := s.Interact(model.V3(1, 0, 0))
	require.NoError(t, err)
	assert.False(t, ok)

	s.Player().Health().ApplyDamage(1000, model.NoEntity)
	_, _, err = s.Interact(model.V3(1, 0, 0))
	assert.ErrorIs(t, err, ErrPlayerDead)
}

func TestSimulation_TurretsPatrol(t *testing.T) {
	cfg := oneGrunt(30)
	cfg.Player.AutoFire = false
	cfg.Turrets = []config.TurretConfig{
		{Name: "t1", Position: config.Point{Z: 20}, Distance: 6, Speed: 3},
		{Position: config.Point{X: 4, Z: 20}, Axis: config.Point{Z: 1}, Distance: 6, Speed: 3, Reverse: true},
	}
	s, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, s.World().Count())

	props := s.World().EntitiesByRole(model.RoleProp)
	require.Len(t, props, 2)
	assert.Equal(t, "t1", props[0].Name())
	assert.Equal(t, "turret-2", props[1].Name())

	stepFor(s, time.Second)
	assert.InDelta(t, 3.0, props[0].Position().X, 1e-9)
	assert.InDelta(t, 17.0, props[1].Position().Z, 1e-9)
	assert.True(t, props[0].IsAlive(), "turrets have no health")
}

func TestSimulation_OutOfRangeEnemyIgnored(t *testing.T) {
	s, err := New(oneGrunt(80), nil)
	require.NoError(t, err)

	_, ok := s.NearestVisibleEnemy()
	assert.False(t, ok)

	s.Step(tick)
	assert.Zero(t, s.Weapon().ShotsFired())
}

func TestSimulation_StepNegativeDt(t *testing.T) {
	s, err := New(oneGrunt(5), nil)
	require.NoError(t, err)

	s.Step(-time.Second)

	assert.Equal(t, uint64(1), s.Ticks())
	assert.Zero(t, s.Elapsed())
}

func TestSimulation_Run(t *testing.T) {
	cfg := oneGrunt(30)
	cfg.TickInterval = time.Millisecond
	s, err := New(cfg, nil)
	require.NoError(t, err)

	ctx, cancel := testutil.ContextWithCancel(t)
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return s.Ticks() >= 5 }, 5*time.Second, time.Millisecond)
	cancel()

	require.NoError(t, testutil.WaitDone(t, done, 5*time.Second))
}

func TestSimulation_SetProfiles(t *testing.T) {
	s, err := New(oneGrunt(5), nil)
	require.NoError(t, err)

	p := config.DefaultAgentProfile()
	p.SightDistance = 1
	s.SetProfiles(map[string]config.AgentProfile{"sniper": p})

	got, ok := s.Spawns().Profile("sniper")
	require.True(t, ok)
	assert.Equal(t, 1.0, got.SightDistance)
	_, ok = s.Spawns().Profile("grunt")
	assert.False(t, ok)
}
