package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/fpscore/internal/model"
	"github.com/udisondev/fpscore/internal/testutil"
)

func TestWorldSensor_Sense(t *testing.T) {
	w := testutil.NewFakeWorld()
	player := model.NewEntity(7, "Player", model.RolePlayer, model.V3(3, 0, 4), 0.5, model.NewHealthPool(100))
	w.Add(player)

	s := NewWorldSensor(w, model.RolePlayer)
	p := s.Sense(model.V3(0, 0, 0), 1.5)

	assert.True(t, p.Present)
	assert.True(t, p.HasLineOfSight)
	assert.Equal(t, model.EntityID(7), p.Target)
	assert.Equal(t, 5.0, p.Distance)
	assert.Equal(t, player.Position(), p.TargetPosition)

	w.Blocked = true
	p = s.Sense(model.V3(0, 0, 0), 1.5)
	assert.True(t, p.Present)
	assert.False(t, p.HasLineOfSight)
}

func TestWorldSensor_CachesTargetReference(t *testing.T) {
	w := testutil.NewFakeWorld()
	w.Add(model.NewEntity(7, "Player", model.RolePlayer, model.V3(1, 0, 0), 0.5, nil))

	s := NewWorldSensor(w, model.RolePlayer)
	for range 5 {
		s.Sense(model.Vec3{}, 0)
	}
	assert.Equal(t, 1, w.Lookups, "role lookup happens once while the target stays available")
}

func TestWorldSensor_TargetUnavailable(t *testing.T) {
	w := testutil.NewFakeWorld()
	hp := model.NewHealthPool(10)
	first := model.NewEntity(7, "Player", model.RolePlayer, model.V3(1, 0, 0), 0.5, hp)
	w.Add(first)

	s := NewWorldSensorFor(w, first)
	assert.True(t, s.Sense(model.Vec3{}, 0).Present)

	hp.ApplyDamage(10, 1)
	assert.False(t, s.Sense(model.Vec3{}, 0).Present, "dead target is not perceived")
	assert.Nil(t, s.Target())

	second := model.NewEntity(8, "Player2", model.RolePlayer, model.V3(2, 0, 0), 0.5, nil)
	w.Add(second)
	p := s.Sense(model.Vec3{}, 0)
	assert.True(t, p.Present)
	assert.Equal(t, model.EntityID(8), p.Target)

	w.Remove(8)
	assert.False(t, s.Sense(model.Vec3{}, 0).Present, "removed target is not perceived")
}

func TestPerception_Qualifies(t *testing.T) {
	assert.True(t, Perception{Present: true, HasLineOfSight: true, Distance: 10}.qualifies(10))
	assert.False(t, Perception{Present: true, HasLineOfSight: true, Distance: 10.5}.qualifies(10))
	assert.False(t, Perception{Present: true, Distance: 1}.qualifies(10))
	assert.False(t, Perception{HasLineOfSight: true, Distance: 1}.qualifies(10))
}
