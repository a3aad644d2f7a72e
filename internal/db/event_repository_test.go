package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/fpscore/internal/db"
	"github.com/udisondev/fpscore/internal/model"
	"github.com/udisondev/fpscore/internal/testutil"
)

func TestEventRepository(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := db.NewEventRepository(pool)

	const victim = model.EntityID(0x20000001)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	damage := model.NewCombatEvent(model.EventDamage, victim, 7, 30, 70, base)
	death := model.NewCombatEvent(model.EventDeath, victim, 7, 80, 0, base.Add(time.Second))
	other := model.NewCombatEvent(model.EventDeath, victim+1, 7, 100, 0, base)

	require.NoError(t, repo.Insert(ctx, damage))
	require.NoError(t, repo.InsertBatch(ctx, []model.CombatEvent{death, other}))

	t.Run("duplicate insert is ignored", func(t *testing.T) {
		require.NoError(t, repo.Insert(ctx, damage))
	})

	t.Run("list newest first", func(t *testing.T) {
		events, err := repo.ListByVictim(ctx, victim, 10)
		require.NoError(t, err)
		require.Len(t, events, 2)

		assert.Equal(t, death.ID, events[0].ID)
		assert.Equal(t, model.EventDeath, events[0].Kind)
		assert.Equal(t, damage.ID, events[1].ID)
		assert.Equal(t, victim, events[1].Victim)
		assert.Equal(t, model.EntityID(7), events[1].Source)
		assert.Equal(t, 30.0, events[1].Amount)
		assert.Equal(t, 70.0, events[1].Remaining)
		assert.True(t, base.Equal(events[1].At))
	})

	t.Run("limit", func(t *testing.T) {
		events, err := repo.ListByVictim(ctx, victim, 1)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})

	t.Run("count deaths", func(t *testing.T) {
		n, err := repo.CountDeaths(ctx, victim)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = repo.CountDeaths(ctx, model.EntityID(1))
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("migrate is idempotent", func(t *testing.T) {
		require.NoError(t, db.Migrate(ctx, pool))
	})
}

func TestEventRepository_EventWriter(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := db.NewEventRepository(pool)
	w := db.NewEventWriter(repo, 16)

	ctx, cancel := testutil.ContextWithCancel(t)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	const victim = model.EntityID(0x20000009)
	for range 3 {
		w.Publish(model.NewCombatEvent(model.EventDeath, victim, 1, 100, 0, time.Now()))
	}
	cancel()
	require.NoError(t, testutil.WaitDone(t, done, 10*time.Second))

	n, err := repo.CountDeaths(context.Background(), victim)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
