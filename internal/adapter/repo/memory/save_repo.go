package memory

import (
	"context"
	"slices"

	"idlerpg/internal/app/ports"
)

type SaveRepo struct {
	store *Store
}

func NewSaveRepo(store *Store) SaveRepo {
	return SaveRepo{store: store}
}

func (r SaveRepo) GetByPlayerID(_ context.Context, playerID string) (ports.SaveRecord, error) {
	save, ok := r.store.saves[playerID]
	if !ok {
		return ports.SaveRecord{}, ports.ErrNotFound
	}
	save.Data = slices.Clone(save.Data)
	return save, nil
}

func (r SaveRepo) SaveWithVersion(_ context.Context, save ports.SaveRecord, expectedVersion int64) error {
	save.Data = slices.Clone(save.Data)
	current, ok := r.store.saves[save.PlayerID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.saves[save.PlayerID] = save
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.saves[save.PlayerID] = save
	return nil
}
