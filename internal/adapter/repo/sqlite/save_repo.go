package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"idlerpg/internal/app/ports"
)

type SaveRepo struct {
	db *DB
}

func NewSaveRepo(db *DB) SaveRepo {
	return SaveRepo{db: db}
}

func (r SaveRepo) GetByPlayerID(ctx context.Context, playerID string) (ports.SaveRecord, error) {
	var (
		rec     ports.SaveRecord
		savedMS int64
	)
	row := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT player_id, version, data, saved_at_ms FROM player_saves WHERE player_id = ?`, playerID)
	if err := row.Scan(&rec.PlayerID, &rec.Version, &rec.Data, &savedMS); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.SaveRecord{}, ports.ErrNotFound
		}
		return ports.SaveRecord{}, err
	}
	rec.SavedAt = time.UnixMilli(savedMS).UTC()
	return rec, nil
}

func (r SaveRepo) SaveWithVersion(ctx context.Context, save ports.SaveRecord, expectedVersion int64) error {
	q := r.db.conn(ctx)
	var (
		res sql.Result
		err error
	)
	if expectedVersion == 0 {
		res, err = q.ExecContext(ctx,
			`INSERT INTO player_saves(player_id, version, data, saved_at_ms) VALUES (?, ?, ?, ?)
			 ON CONFLICT(player_id) DO NOTHING`,
			save.PlayerID, save.Version, save.Data, save.SavedAt.UnixMilli())
	} else {
		res, err = q.ExecContext(ctx,
			`UPDATE player_saves SET version = ?, data = ?, saved_at_ms = ? WHERE player_id = ? AND version = ?`,
			save.Version, save.Data, save.SavedAt.UnixMilli(), save.PlayerID, expectedVersion)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrConflict
	}
	return nil
}
