package model

import "time"

const TableNamePlayerSave = "player_saves"

// PlayerSave mapped from table <player_saves>
type PlayerSave struct {
	PlayerID string    `gorm:"column:player_id;primaryKey" json:"player_id"`
	Version  int64     `gorm:"column:version;not null" json:"version"`
	Data     []byte    `gorm:"column:data;not null" json:"data"`
	SavedAt  time.Time `gorm:"column:saved_at;not null" json:"saved_at"`
}

// TableName PlayerSave's table name
func (*PlayerSave) TableName() string {
	return TableNamePlayerSave
}
