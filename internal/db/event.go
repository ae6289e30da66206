package db

import (
	"time"

	"gorm.io/datatypes"
)

// Event is an audit row attached to a finished match.
type Event struct {
	ID        uint           `gorm:"primaryKey"`
	MatchID   uint           `gorm:"index;not null"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
