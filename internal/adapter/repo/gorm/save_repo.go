package gormrepo

import (
	"context"
	"errors"

	"idlerpg/internal/adapter/repo/gorm/model"
	"idlerpg/internal/app/ports"

	"gorm.io/gorm"
)

type SaveRepo struct {
	db *gorm.DB
}

func NewSaveRepo(db *gorm.DB) SaveRepo {
	return SaveRepo{db: db}
}

func (r SaveRepo) GetByPlayerID(ctx context.Context, playerID string) (ports.SaveRecord, error) {
	var m model.PlayerSave
	if err := getDBFromCtx(ctx, r.db).Where("player_id = ?", playerID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.SaveRecord{}, ports.ErrNotFound
		}
		return ports.SaveRecord{}, err
	}
	return ports.SaveRecord{
		PlayerID: m.PlayerID,
		Version:  m.Version,
		Data:     m.Data,
		SavedAt:  m.SavedAt,
	}, nil
}

func (r SaveRepo) SaveWithVersion(ctx context.Context, save ports.SaveRecord, expectedVersion int64) error {
	db := getDBFromCtx(ctx, r.db)
	if expectedVersion == 0 {
		m := model.PlayerSave{
			PlayerID: save.PlayerID,
			Version:  save.Version,
			Data:     save.Data,
			SavedAt:  save.SavedAt,
		}
		if err := db.Create(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	res := db.Model(&model.PlayerSave{}).
		Where("player_id = ? AND version = ?", save.PlayerID, expectedVersion).
		Updates(map[string]any{
			"version":  save.Version,
			"data":     save.Data,
			"saved_at": save.SavedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}
