package replay

import "idlerpg/internal/domain/idle"

type Request struct {
	Limit int
	// Persisted reads from the event repository instead of the live log.
	Persisted    bool
	OccurredFrom int64
	OccurredTo   int64
}

type Response struct {
	PlayerID string          `json:"player_id"`
	Entries  []idle.LogEntry `json:"entries"`
}
