package ports

import (
	"context"
	"time"

	"idlerpg/internal/domain/idle"
)

// SaveRecord is one player's persisted snapshot. Data holds idle.Snapshot
// output.
type SaveRecord struct {
	PlayerID string
	Version  int64
	Data     []byte
	SavedAt  time.Time
}

type SaveRepository interface {
	GetByPlayerID(ctx context.Context, playerID string) (SaveRecord, error)
	SaveWithVersion(ctx context.Context, save SaveRecord, expectedVersion int64) error
}

// EventRepository keeps the action log beyond the in-state window.
type EventRepository interface {
	Append(ctx context.Context, playerID string, entries []idle.LogEntry) error
	ListByPlayerID(ctx context.Context, playerID string, limit int) ([]idle.LogEntry, error)
}

// SaveCodec turns a snapshot into a portable export string and back.
type SaveCodec interface {
	Encode(data []byte) (string, error)
	Decode(code string) ([]byte, error)
}
