package combat

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/fpscore/internal/model"
	"github.com/udisondev/fpscore/internal/schedule"
)

// Shot rejection reasons.
var (
	ErrCoolingDown = errors.New("weapon cooling down")
	ErrReloading   = errors.New("weapon reloading")
	ErrShooterDead = errors.New("shooter is dead")
)

// Raycaster resolves hitscan shots against the scene.
type Raycaster interface {
	Raycast(origin, dir model.Vec3, maxDist float64, exclude model.EntityID) (model.RayHit, bool)
	Get(id model.EntityID) (*model.Entity, bool)
}

// WeaponSpec is the static configuration of a hitscan weapon.
type WeaponSpec struct {
	Damage       float64
	Range        float64
	FireInterval time.Duration // minimum time between shots
	MagazineSize int           // 0 = unlimited
	ReloadTime   time.Duration
	FireDelay    time.Duration // trigger-to-impact delay, 0 = instant
}

// DefaultPistol returns the stock sidearm.
func DefaultPistol() WeaponSpec {
	return WeaponSpec{
		Damage:       25,
		Range:        50,
		FireInterval: 250 * time.Millisecond,
		MagazineSize: 12,
		ReloadTime:   1500 * time.Millisecond,
		FireDelay:    150 * time.Millisecond,
	}
}

// FireResult describes one shot.
type FireResult struct {
	Hit     bool
	Point   model.Vec3
	Target  model.EntityID      // NoEntity for geometry hits and misses
	Outcome model.DamageOutcome // valid only when Target is set and has health
	Damaged bool                // Outcome is meaningful
	Pending bool                // shot scheduled after FireDelay, resolved later
}

// ShotFunc receives every resolved shot, instant or delayed.
type ShotFunc func(res FireResult)

// Weapon is a hitscan weapon owned by one shooter.
// Cooldown and reload are accumulators advanced by Update, not timers.
// Delayed shots are deadlines on the same Update clock and are dropped when
// the owner dies.
type Weapon struct {
	spec    WeaponSpec
	owner   *model.Entity
	scene   Raycaster
	cool    time.Duration // time left until the next shot is allowed
	reload  time.Duration // time left in the current reload, 0 = not reloading
	rounds  int
	fired   int
	delayed *schedule.Deadlines
	onShot  ShotFunc
}

// NewWeapon creates a loaded weapon.
func NewWeapon(spec WeaponSpec, owner *model.Entity, scene Raycaster) *Weapon {
	w := &Weapon{
		spec:    spec,
		owner:   owner,
		scene:   scene,
		rounds:  spec.MagazineSize,
		delayed: schedule.NewDeadlines(),
	}
	if owner.Health() != nil {
		owner.Health().AddListener(model.HealthListenerFuncs{
			Died: func(model.DeathEvent) { w.CancelPending() },
		})
	}
	return w
}

// OnShot registers fn to receive every resolved shot.
func (w *Weapon) OnShot(fn ShotFunc) { w.onShot = fn }

// PendingShots returns the number of delayed shots not yet resolved.
func (w *Weapon) PendingShots() int { return w.delayed.Pending() }

// CancelPending drops all delayed shots.
func (w *Weapon) CancelPending() {
	if n := w.delayed.Pending(); n > 0 {
		w.delayed.Clear()
		slog.Debug("delayed shots cancelled", "owner", w.owner.ID(), "count", n)
	}
}

// Spec returns the weapon configuration.
func (w *Weapon) Spec() WeaponSpec { return w.spec }

// Rounds returns rounds left in the magazine.
func (w *Weapon) Rounds() int { return w.rounds }

// ShotsFired returns the number of successful trigger pulls.
func (w *Weapon) ShotsFired() int { return w.fired }

// IsReloading reports whether a reload is in progress.
func (w *Weapon) IsReloading() bool { return w.reload > 0 }

// Ready reports whether Fire would be accepted now.
func (w *Weapon) Ready() bool {
	return w.cool <= 0 && w.reload <= 0 && (w.spec.MagazineSize == 0 || w.rounds > 0)
}

// Update advances cooldown, reload and delayed shots by dt.
func (w *Weapon) Update(dt time.Duration) {
	if dt <= 0 {
		return
	}
	w.cool = max(w.cool-dt, 0)

	if w.reload > 0 {
		w.reload -= dt
		if w.reload <= 0 {
			w.reload = 0
			w.rounds = w.spec.MagazineSize
			slog.Debug("weapon reloaded", "owner", w.owner.ID(), "rounds", w.rounds)
		}
	}

	w.delayed.Advance(dt)
}

// Reload starts a reload unless one is running or the magazine is full.
func (w *Weapon) Reload() bool {
	if w.spec.MagazineSize == 0 || w.reload > 0 || w.rounds == w.spec.MagazineSize {
		return false
	}
	w.reload = max(w.spec.ReloadTime, time.Nanosecond)
	return true
}

// Fire shoots from origin along dir. The first thing hit takes Damage if it
// has a HealthPool. Emptying the magazine starts an automatic reload, so an
// empty weapon always reports ErrReloading.
//
// With a positive FireDelay the trigger pull consumes the round and starts
// the cooldown now, but the ray is cast FireDelay later; the returned result
// has Pending set and the outcome goes to the OnShot handler.
func (w *Weapon) Fire(origin, dir model.Vec3) (FireResult, error) {
	if !w.owner.IsAlive() {
		return FireResult{}, ErrShooterDead
	}
	if w.reload > 0 {
		return FireResult{}, ErrReloading
	}
	if w.cool > 0 {
		return FireResult{}, fmt.Errorf("%w: %v left", ErrCoolingDown, w.cool)
	}

	w.cool = w.spec.FireInterval
	w.fired++
	if w.spec.MagazineSize > 0 {
		w.rounds--
		if w.rounds == 0 {
			w.Reload()
		}
	}

	if w.spec.FireDelay > 0 {
		w.delayed.AfterNamed("shot", w.spec.FireDelay, func() {
			if !w.owner.IsAlive() {
				return
			}
			w.notify(w.resolve(origin, dir))
		})
		return FireResult{Pending: true}, nil
	}

	res := w.resolve(origin, dir)
	w.notify(res)
	return res, nil
}

func (w *Weapon) notify(res FireResult) {
	if w.onShot != nil {
		w.onShot(res)
	}
}

// resolve casts the ray and applies damage to whatever it hits first.
func (w *Weapon) resolve(origin, dir model.Vec3) FireResult {
	hit, ok := w.scene.Raycast(origin, dir, w.spec.Range, w.owner.ID())
	if !ok {
		return FireResult{}
	}

	res := FireResult{Hit: true, Point: hit.Point, Target: hit.Entity}
	if !hit.HitEntity() {
		return res
	}

	target, found := w.scene.Get(hit.Entity)
	if !found || target.Health() == nil {
		return res
	}

	res.Outcome = target.Health().ApplyDamage(w.spec.Damage, w.owner.ID())
	res.Damaged = true

	slog.Debug("shot hit",
		"shooter", w.owner.ID(),
		"target", target.ID(),
		"damage", w.spec.Damage,
		"outcome", res.Outcome,
		"remaining", target.Health().Current())

	return res
}

// FireAt aims from the owner's eye at target's center.
func (w *Weapon) FireAt(eyeHeight float64, target model.Vec3) (FireResult, error) {
	origin := w.owner.Position().Raised(eyeHeight)
	return w.Fire(origin, target.Sub(origin))
}
