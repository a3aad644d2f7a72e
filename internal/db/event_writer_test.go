package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/fpscore/internal/model"
	"github.com/udisondev/fpscore/internal/testutil"
)

type fakeStore struct {
	mu     sync.Mutex
	events []model.CombatEvent
	calls  int
	err    error
}

func (s *fakeStore) InsertBatch(_ context.Context, events []model.CombatEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, events...)
	return nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func deathEvent(victim model.EntityID) model.CombatEvent {
	return model.NewCombatEvent(model.EventDeath, victim, 0, 100, 0, time.Now())
}

func TestEventWriter_FlushesOnTicker(t *testing.T) {
	store := &fakeStore{}
	w := NewEventWriter(store, 8)

	ctx, _ := testutil.ContextWithCancel(t)
	go func() { _ = w.Run(ctx) }()

	w.Publish(deathEvent(1))
	w.Publish(deathEvent(2))

	require.Eventually(t, func() bool { return store.count() == 2 },
		5*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(2), w.Written())
}

func TestEventWriter_FlushesOnShutdown(t *testing.T) {
	store := &fakeStore{}
	w := NewEventWriter(store, 8)

	for i := range 5 {
		w.Publish(deathEvent(model.EntityID(i + 1)))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))

	assert.Equal(t, 5, store.count())
	assert.Equal(t, int64(5), w.Written())
}

func TestEventWriter_DropsWhenFull(t *testing.T) {
	store := &fakeStore{}
	w := NewEventWriter(store, 2)

	for i := range 5 {
		w.Publish(deathEvent(model.EntityID(i + 1)))
	}

	assert.Equal(t, int64(3), w.Dropped())
}

func TestEventWriter_StoreErrorIsNotFatal(t *testing.T) {
	store := &fakeStore{err: testutil.ErrSimulated}
	w := NewEventWriter(store, 4)
	w.Publish(deathEvent(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))

	assert.Equal(t, 1, store.calls)
	assert.Zero(t, w.Written())
}

func TestNewEventWriter_DefaultBuffer(t *testing.T) {
	w := NewEventWriter(&fakeStore{}, 0)
	assert.Equal(t, defaultWriterBuffer, cap(w.events))
}
