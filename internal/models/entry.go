package models

import "time"

// Entry is one row of the key-value table backing the task list.
// Key is the task id and Value the JSON encoded Task.
type Entry struct {
	Key       string    `gorm:"primaryKey"`
	Value     string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName pins the table name so nothing else shares it.
func (Entry) TableName() string {
	return "entries"
}
