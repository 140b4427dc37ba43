package model

import "time"

const TableNameLogEntry = "log_entries"

// LogEntry mapped from table <log_entries>
type LogEntry struct {
	ID         string    `gorm:"column:id;primaryKey" json:"id"`
	PlayerID   string    `gorm:"column:player_id;not null" json:"player_id"`
	Seq        int64     `gorm:"column:seq;not null" json:"seq"`
	Message    string    `gorm:"column:message;not null" json:"message"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null" json:"occurred_at"`
}

// TableName LogEntry's table name
func (*LogEntry) TableName() string {
	return TableNameLogEntry
}
