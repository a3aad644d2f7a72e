package db

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/udisondev/fpscore/internal/model"
)

const (
	defaultWriterBuffer = 256
	writerBatchSize     = 64
	writerFlushInterval = 500 * time.Millisecond
	writerFinalTimeout  = 5 * time.Second
)

// EventStore is the persistence side of EventWriter.
type EventStore interface {
	InsertBatch(ctx context.Context, events []model.CombatEvent) error
}

// EventWriter buffers combat events off the simulation goroutine and writes
// them in batches. Publish never blocks: when the buffer is full the event
// is dropped and counted.
type EventWriter struct {
	store   EventStore
	events  chan model.CombatEvent
	dropped atomic.Int64
	written atomic.Int64
}

// NewEventWriter creates a writer with a buffer of size events (<=0 uses the default).
func NewEventWriter(store EventStore, size int) *EventWriter {
	if size <= 0 {
		size = defaultWriterBuffer
	}
	return &EventWriter{
		store:  store,
		events: make(chan model.CombatEvent, size),
	}
}

// Publish enqueues ev.
func (w *EventWriter) Publish(ev model.CombatEvent) {
	select {
	case w.events <- ev:
	default:
		n := w.dropped.Add(1)
		slog.Warn("combat event dropped, writer buffer full",
			"kind", ev.Kind,
			"victim", ev.Victim,
			"dropped", n)
	}
}

// Dropped returns the number of events lost to a full buffer.
func (w *EventWriter) Dropped() int64 { return w.dropped.Load() }

// Written returns the number of events stored successfully.
func (w *EventWriter) Written() int64 { return w.written.Load() }

// Run drains the buffer until ctx is cancelled, then flushes what is left.
func (w *EventWriter) Run(ctx context.Context) error {
	ticker := time.NewTicker(writerFlushInterval)
	defer ticker.Stop()

	batch := make([]model.CombatEvent, 0, writerBatchSize)
	for {
		select {
		case <-ctx.Done():
		drain:
			for {
				select {
				case ev := <-w.events:
					batch = append(batch, ev)
				default:
					break drain
				}
			}
			finalCtx, cancel := context.WithTimeout(context.Background(), writerFinalTimeout)
			w.flush(finalCtx, batch)
			cancel()
			return nil

		case ev := <-w.events:
			batch = append(batch, ev)
			if len(batch) >= writerBatchSize {
				w.flush(ctx, batch)
				batch = batch[:0]
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(ctx, batch)
				batch = batch[:0]
			}
		}
	}
}

func (w *EventWriter) flush(ctx context.Context, batch []model.CombatEvent) {
	if len(batch) == 0 {
		return
	}
	if err := w.store.InsertBatch(ctx, batch); err != nil {
		slog.Error("failed to write combat events", "count", len(batch), "error", err)
		return
	}
	w.written.Add(int64(len(batch)))
}
