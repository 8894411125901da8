package models

import (
	"time"

	"github.com/google/uuid"
)

// Upload records a stored file and the user who produced it.
type Upload struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	FileName     string     `gorm:"column:file_name;not null"`
	FileURL      string     `gorm:"column:file_url;not null"`
	Description  *string    `gorm:"column:description"`
	LinkedTaskID *uuid.UUID `gorm:"column:linked_task_id;type:uuid"`
	Timestamp    time.Time  `gorm:"column:timestamp;autoCreateTime"`
}
