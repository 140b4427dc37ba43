package gormrepo

import (
	"context"

	"idlerpg/internal/adapter/repo/gorm/model"
	"idlerpg/internal/domain/idle"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

// Append ignores entries whose (player_id, seq) pair is already stored, so a
// retried save does not duplicate narration.
func (r EventRepo) Append(ctx context.Context, playerID string, entries []idle.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]model.LogEntry, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, model.LogEntry{
			ID:         uuid.NewString(),
			PlayerID:   playerID,
			Seq:        e.Seq,
			Message:    e.Message,
			OccurredAt: e.At,
		})
	}
	return getDBFromCtx(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}, {Name: "seq"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}

func (r EventRepo) ListByPlayerID(ctx context.Context, playerID string, limit int) ([]idle.LogEntry, error) {
	rows := []model.LogEntry{}
	query := getDBFromCtx(ctx, r.db).
		Where(&model.LogEntry{PlayerID: playerID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "seq"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]idle.LogEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, idle.LogEntry{
			Seq:     row.Seq,
			Message: row.Message,
			At:      row.OccurredAt,
		})
	}
	return out, nil
}

