package models

import (
	"time"
)

// BaseModel gives serial identity and timestamps. Records in this
// system are hard-deleted (playlist membership cleanup depends on rows
// actually going away), so there is no soft-delete column.
type BaseModel struct {
	ID        int       `gorm:"type:int;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime"                    json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"                    json:"updatedAt"`
}
