package combat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/fpscore/internal/model"
	"github.com/udisondev/fpscore/internal/world"
)

type shootingRange struct {
	w       *world.World
	shooter *model.Entity
	enemy   *model.Entity
}

func newShootingRange(t *testing.T) shootingRange {
	t.Helper()
	w := world.New()
	shooter := model.NewEntity(w.NextID(model.RolePlayer), "Player", model.RolePlayer, model.V3(0, 0, 0), 0.5, model.NewHealthPool(100))
	enemy := model.NewEntity(w.NextID(model.RoleEnemy), "Grunt", model.RoleEnemy, model.V3(10, 0, 0), 0.5, model.NewHealthPool(100))
	require.NoError(t, w.Add(shooter))
	require.NoError(t, w.Add(enemy))
	return shootingRange{w: w, shooter: shooter, enemy: enemy}
}

var east = model.V3(1, 0, 0)

func TestWeapon_FireHitsAndDamages(t *testing.T) {
	r := newShootingRange(t)
	gun := NewWeapon(WeaponSpec{Damage: 30, Range: 50, FireInterval: 100 * time.Millisecond}, r.shooter, r.w)

	res, err := gun.Fire(model.Vec3{}, east)
	require.NoError(t, err)
	assert.True(t, res.Hit)
	assert.True(t, res.Damaged)
	assert.Equal(t, r.enemy.ID(), res.Target)
	assert.Equal(t, model.DamageDamaged, res.Outcome)
	assert.Equal(t, 70.0, r.enemy.Health().Current())
	assert.Equal(t, 1, gun.ShotsFired())
}

func TestWeapon_Cooldown(t *testing.T) {
	r := newShootingRange(t)
	gun := NewWeapon(WeaponSpec{Damage: 1, Range: 50, FireInterval: 250 * time.Millisecond}, r.shooter, r.w)

	_, err := gun.Fire(model.Vec3{}, east)
	require.NoError(t, err)

	_, err = gun.Fire(model.Vec3{}, east)
	assert.ErrorIs(t, err, ErrCoolingDown)
	assert.False(t, gun.Ready())

	gun.Update(200 * time.Millisecond)
	_, err = gun.Fire(model.Vec3{}, east)
	assert.ErrorIs(t, err, ErrCoolingDown)

	gun.Update(50 * time.Millisecond)
	assert.True(t, gun.Ready())
	_, err = gun.Fire(model.Vec3{}, east)
	assert.NoError(t, err)
	assert.Equal(t, 98.0, r.enemy.Health().Current())
}

func TestWeapon_MagazineAndReload(t *testing.T) {
	r := newShootingRange(t)
	spec := WeaponSpec{Damage: 1, Range: 50, MagazineSize: 2, ReloadTime: time.Second}
	gun := NewWeapon(spec, r.shooter, r.w)

	for range 2 {
		_, err := gun.Fire(model.Vec3{}, east)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, gun.Rounds())
	assert.True(t, gun.IsReloading(), "empty magazine starts reload")

	_, err := gun.Fire(model.Vec3{}, east)
	assert.ErrorIs(t, err, ErrReloading)

	gun.Update(999 * time.Millisecond)
	assert.True(t, gun.IsReloading())
	gun.Update(time.Millisecond)
	assert.False(t, gun.IsReloading())
	assert.Equal(t, 2, gun.Rounds())

	_, err = gun.Fire(model.Vec3{}, east)
	assert.NoError(t, err)

	assert.True(t, gun.Reload(), "partial magazine can reload")
	assert.False(t, gun.Reload(), "already reloading")
}

func TestWeapon_MissAndWallHit(t *testing.T) {
	r := newShootingRange(t)
	gun := NewWeapon(WeaponSpec{Damage: 50, Range: 50}, r.shooter, r.w)

	res, err := gun.Fire(model.Vec3{}, model.V3(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, res.Hit)

	r.w.AddObstacle(world.NewBox(model.V3(4, -1, -1), model.V3(5, 2, 1)))
	res, err = gun.Fire(model.Vec3{}, east)
	require.NoError(t, err)
	assert.True(t, res.Hit)
	assert.False(t, res.Damaged)
	assert.Equal(t, model.NoEntity, res.Target)
	assert.Equal(t, 100.0, r.enemy.Health().Current())
}

func TestWeapon_KillThenIgnored(t *testing.T) {
	r := newShootingRange(t)
	gun := NewWeapon(WeaponSpec{Damage: 60, Range: 50}, r.shooter, r.w)

	res, err := gun.FireAt(0, r.enemy.Position())
	require.NoError(t, err)
	assert.Equal(t, model.DamageDamaged, res.Outcome)

	res, err = gun.FireAt(0, r.enemy.Position())
	require.NoError(t, err)
	assert.Equal(t, model.DamageDied, res.Outcome)

	// dead entities no longer stop rays
	res, err = gun.FireAt(0, r.enemy.Position())
	require.NoError(t, err)
	assert.False(t, res.Hit)
}

func TestWeapon_DeadShooterCannotFire(t *testing.T) {
	r := newShootingRange(t)
	gun := NewWeapon(DefaultPistol(), r.shooter, r.w)
	r.shooter.Health().ApplyDamage(1000, r.enemy.ID())

	_, err := gun.Fire(model.Vec3{}, east)
	assert.ErrorIs(t, err, ErrShooterDead)
}

func TestWeapon_FireDelay(t *testing.T) {
	r := newShootingRange(t)
	gun := NewWeapon(WeaponSpec{Damage: 40, Range: 50, FireDelay: 200 * time.Millisecond}, r.shooter, r.w)

	var resolved []FireResult
	gun.OnShot(func(res FireResult) { resolved = append(resolved, res) })

	res, err := gun.Fire(model.Vec3{}, east)
	require.NoError(t, err)
	assert.True(t, res.Pending)
	assert.False(t, res.Hit, "ray is not cast on the trigger pull")
	assert.Equal(t, 1, gun.ShotsFired())
	assert.Equal(t, 1, gun.PendingShots())
	assert.InDelta(t, 100.0, r.enemy.Health().Current(), 1e-9)

	gun.Update(150 * time.Millisecond)
	assert.InDelta(t, 100.0, r.enemy.Health().Current(), 1e-9, "damage before the delay elapsed")
	assert.Empty(t, resolved)

	gun.Update(50 * time.Millisecond)
	assert.InDelta(t, 60.0, r.enemy.Health().Current(), 1e-9)
	assert.Zero(t, gun.PendingShots())
	require.Len(t, resolved, 1)
	assert.True(t, resolved[0].Hit)
	assert.Equal(t, r.enemy.ID(), resolved[0].Target)
	assert.Equal(t, model.DamageDamaged, resolved[0].Outcome)
}

func TestWeapon_FireDelayCancelledOnOwnerDeath(t *testing.T) {
	r := newShootingRange(t)
	gun := NewWeapon(WeaponSpec{Damage: 40, Range: 50, FireDelay: 200 * time.Millisecond}, r.shooter, r.w)

	var resolved int
	gun.OnShot(func(FireResult) { resolved++ })

	_, err := gun.Fire(model.Vec3{}, east)
	require.NoError(t, err)
	require.Equal(t, 1, gun.PendingShots())

	r.shooter.Health().ApplyDamage(1000, r.enemy.ID())
	assert.Zero(t, gun.PendingShots())

	gun.Update(time.Second)
	assert.InDelta(t, 100.0, r.enemy.Health().Current(), 1e-9)
	assert.Zero(t, resolved)
}

func TestWeapon_OnShotInstant(t *testing.T) {
	r := newShootingRange(t)
	gun := NewWeapon(WeaponSpec{Damage: 10, Range: 50}, r.shooter, r.w)

	var resolved []FireResult
	gun.OnShot(func(res FireResult) { resolved = append(resolved, res) })

	res, err := gun.Fire(model.Vec3{}, east)
	require.NoError(t, err)
	assert.False(t, res.Pending)
	require.Len(t, resolved, 1)
	assert.Equal(t, res, resolved[0])
}

func TestMelee_Update(t *testing.T) {
	r := newShootingRange(t)
	claw := NewMelee(MeleeSpec{Damage: 10, Range: 1.5, Interval: time.Second}, r.enemy)

	_, attempted := claw.Update(0, r.shooter)
	assert.False(t, attempted, "out of range")

	r.enemy.SetPosition(model.V3(1, 0, 0))
	outcome, attempted := claw.Update(0, r.shooter)
	require.True(t, attempted)
	assert.Equal(t, model.DamageDamaged, outcome)
	assert.Equal(t, 90.0, r.shooter.Health().Current())

	_, attempted = claw.Update(500*time.Millisecond, r.shooter)
	assert.False(t, attempted, "cooling down")

	_, attempted = claw.Update(500*time.Millisecond, r.shooter)
	assert.True(t, attempted)
	assert.Equal(t, 80.0, r.shooter.Health().Current())

	claw.Reset()
	_, attempted = claw.Update(0, nil)
	assert.False(t, attempted)
}
