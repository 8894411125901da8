package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/anuverse/teamops-backend/pkg/enums"
)

// CodePost is a thread on the coder board.
type CodePost struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title        string           `gorm:"column:title;not null"`
	Description  *string          `gorm:"column:description"`
	Status       enums.PostStatus `gorm:"column:status;type:text;not null;default:open"`
	CreatedBy    uuid.UUID        `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	LastUpdateBy *uuid.UUID       `gorm:"column:last_update_by;type:uuid"`
	LastUpdateAt time.Time        `gorm:"column:last_update_at;autoUpdateTime"`
}
