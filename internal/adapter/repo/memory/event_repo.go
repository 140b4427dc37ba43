package memory

import (
	"cmp"
	"context"
	"slices"

	"idlerpg/internal/domain/idle"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

// Append keeps entries ordered by seq and skips seqs already stored.
func (r EventRepo) Append(_ context.Context, playerID string, entries []idle.LogEntry) error {
	if playerID == "" {
		playerID = "global"
	}
	all := r.store.events[playerID]
	for _, e := range entries {
		i, found := slices.BinarySearchFunc(all, e.Seq, func(x idle.LogEntry, seq int64) int {
			return cmp.Compare(x.Seq, seq)
		})
		if found {
			continue
		}
		all = slices.Insert(all, i, e)
	}
	r.store.events[playerID] = all
	return nil
}

// ListByPlayerID returns newest entries first. It takes the read lock and must
// not be called inside a transaction.
func (r EventRepo) ListByPlayerID(_ context.Context, playerID string, limit int) ([]idle.LogEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	all := r.store.events[playerID]
	n := len(all)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]idle.LogEntry, 0, n)
	for i := len(all) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, all[i])
	}
	return out, nil
}
