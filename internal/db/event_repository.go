package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/fpscore/internal/model"
)

// EventRepository хранит боевые события (урон, смерть, респаун).
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository создаёт новый EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

const insertEventSQL = `
	INSERT INTO combat_events (event_id, kind, victim_id, source_id, amount, remaining, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (event_id) DO NOTHING
`

// Insert сохраняет одно событие. Повторная вставка того же ID игнорируется.
func (r *EventRepository) Insert(ctx context.Context, ev model.CombatEvent) error {
	_, err := r.db.Exec(ctx, insertEventSQL, eventArgs(ev)...)
	if err != nil {
		return fmt.Errorf("inserting combat event %s: %w", ev.ID, err)
	}
	return nil
}

// InsertBatch сохраняет события одним batch-запросом.
func (r *EventRepository) InsertBatch(ctx context.Context, events []model.CombatEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, ev := range events {
		batch.Queue(insertEventSQL, eventArgs(ev)...)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	for range events {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("inserting %d combat events: %w", len(events), err)
		}
	}
	return nil
}

// ListByVictim возвращает последние события для victim, новые первыми.
func (r *EventRepository) ListByVictim(ctx context.Context, victim model.EntityID, limit int) ([]model.CombatEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT event_id, kind, victim_id, source_id, amount, remaining, created_at
		FROM combat_events
		WHERE victim_id = $1
		ORDER BY created_at DESC, event_id
		LIMIT $2
	`, int64(victim), limit)
	if err != nil {
		return nil, fmt.Errorf("querying events for victim %d: %w", victim, err)
	}
	defer rows.Close()

	var out []model.CombatEvent
	for rows.Next() {
		var (
			ev             model.CombatEvent
			id             uuid.UUID
			kind           string
			victimID, src int64
		)
		if err := rows.Scan(&id, &kind, &victimID, &src, &ev.Amount, &ev.Remaining, &ev.At); err != nil {
			return nil, fmt.Errorf("scanning combat event: %w", err)
		}
		ev.ID = id
		ev.Kind = model.CombatEventKind(kind)
		ev.Victim = model.EntityID(victimID)
		ev.Source = model.EntityID(src)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating combat events: %w", err)
	}
	return out, nil
}

// CountDeaths возвращает количество смертей victim.
func (r *EventRepository) CountDeaths(ctx context.Context, victim model.EntityID) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM combat_events WHERE victim_id = $1 AND kind = $2`,
		int64(victim), string(model.EventDeath),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting deaths for victim %d: %w", victim, err)
	}
	return n, nil
}

func eventArgs(ev model.CombatEvent) []any {
	return []any{ev.ID, string(ev.Kind), int64(ev.Victim), int64(ev.Source), ev.Amount, ev.Remaining, ev.At}
}
