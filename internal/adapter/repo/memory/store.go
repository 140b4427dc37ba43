package memory

import (
	"sync"

	"idlerpg/internal/app/ports"
	"idlerpg/internal/domain/idle"
)

// Store backs the in-memory repositories. Writes are expected to run inside
// TxManager.RunInTx, which holds the store lock.
type Store struct {
	mu     sync.RWMutex
	saves  map[string]ports.SaveRecord
	events map[string][]idle.LogEntry
}

func NewStore() *Store {
	return &Store{
		saves:  make(map[string]ports.SaveRecord),
		events: make(map[string][]idle.LogEntry),
	}
}

func (s *Store) SeedSave(save ports.SaveRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves[save.PlayerID] = save
}
