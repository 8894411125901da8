package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/anuverse/teamops-backend/pkg/enums"
)

// Attendance is one check-in event. Rows are insert-only: the ledger is
// never mutated or deleted after a successful check-in.
type Attendance struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	PhotoURL     *string             `gorm:"column:photo_url"`
	Location     *string             `gorm:"column:location"`
	TimestampUTC time.Time           `gorm:"column:timestamp_utc;not null"`
	Method       enums.CheckinMethod `gorm:"column:method;type:text;not null;default:web"`
}

// TableName keeps the singular table name used by the schema.
func (Attendance) TableName() string {
	return "attendance"
}
