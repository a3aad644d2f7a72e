package world

import (
	"testing"

	"github.com/udisondev/fpscore/internal/model"
)

// BenchmarkWorld_Raycast measures a hitscan shot through a populated scene.
func BenchmarkWorld_Raycast(b *testing.B) {
	w := New()
	for i := range 50 {
		x := float64(i%10) * 4
		z := float64(i/10) * 4
		w.AddObstacle(NewBox(model.V3(x, 0, z+20), model.V3(x+1, 3, z+21)))
	}
	for i := range 200 {
		e := newEntity(w, model.RoleEnemy, model.V3(float64(i%20)*2, 0, float64(i/20)*2+5), 100)
		if err := w.Add(e); err != nil {
			b.Fatal(err)
		}
	}

	origin := model.V3(0, 1.6, 0)
	dir := model.V3(1, -0.05, 1)

	b.ReportAllocs()
	for b.Loop() {
		w.Raycast(origin, dir, 100, model.NoEntity)
	}
}

// BenchmarkWorld_LineOfSight measures the obstacle-only sight check used by every agent per tick.
func BenchmarkWorld_LineOfSight(b *testing.B) {
	w := New()
	for i := range 50 {
		x := float64(i) * 3
		w.AddObstacle(NewBox(model.V3(x, 0, 10), model.V3(x+1, 3, 11)))
	}
	from := model.V3(0, 1.5, 0)
	to := model.V3(40, 1.5, 40)

	b.ReportAllocs()
	for b.Loop() {
		w.LineOfSight(from, to)
	}
}
