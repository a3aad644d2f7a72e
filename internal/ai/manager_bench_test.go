package ai

import (
	"fmt"
	"testing"
	"time"

	"github.com/udisondev/fpscore/internal/model"
	"github.com/udisondev/fpscore/internal/testutil"
)

// BenchmarkTickManager_TickAll measures one frame over N patrolling agents
// that all see the player.
func BenchmarkTickManager_TickAll(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("agents=%d", n), func(b *testing.B) {
			world := testutil.NewFakeWorld()
			player := model.NewEntity(1, "Player", model.RolePlayer, model.V3(0, 0, 0), 0.5, model.NewHealthPool(100))
			world.Add(player)

			mgr := NewTickManager()
			profile := DefaultProfile()
			profile.Waypoints = []model.Vec3{model.V3(5, 0, 0), model.V3(-5, 0, 0)}
			for i := range n {
				id := model.EntityID(0x20000001 + i)
				body := model.NewEntity(id, "grunt", model.RoleEnemy, model.V3(float64(i%10), 0, 0), 0.5, model.NewHealthPool(100))
				mgr.Register(id, NewAgent(body, profile, testutil.NewFakeNavigator(), WithSensor(NewWorldSensor(world, model.RolePlayer))))
			}

			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				mgr.TickAll(16 * time.Millisecond)
			}
		})
	}
}
