package sqliterepo

import (
	"context"
	"fmt"
	"time"

	"idlerpg/internal/domain/idle"

	"github.com/google/uuid"
)

type EventRepo struct {
	db *DB
}

func NewEventRepo(db *DB) EventRepo {
	return EventRepo{db: db}
}

// Append skips entries already stored for the player.
func (r EventRepo) Append(ctx context.Context, playerID string, entries []idle.LogEntry) error {
	q := r.db.conn(ctx)
	for _, e := range entries {
		_, err := q.ExecContext(ctx,
			`INSERT INTO log_entries(id, player_id, seq, message, occurred_at_ms) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(player_id, seq) DO NOTHING`,
			uuid.NewString(), playerID, e.Seq, e.Message, e.At.UnixMilli())
		if err != nil {
			return fmt.Errorf("append log entry %d: %w", e.Seq, err)
		}
	}
	return nil
}

// ListByPlayerID returns newest entries first. A non-positive limit returns
// everything.
func (r EventRepo) ListByPlayerID(ctx context.Context, playerID string, limit int) ([]idle.LogEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.conn(ctx).QueryContext(ctx,
		`SELECT seq, message, occurred_at_ms FROM log_entries WHERE player_id = ? ORDER BY seq DESC LIMIT ?`,
		playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []idle.LogEntry{}
	for rows.Next() {
		var (
			e  idle.LogEntry
			ms int64
		)
		if err := rows.Scan(&e.Seq, &e.Message, &ms); err != nil {
			return nil, err
		}
		e.At = time.UnixMilli(ms).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
