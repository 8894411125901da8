package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is a best-effort trail of admin-visible actions.
type AuditLog struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    *uuid.UUID `gorm:"column:user_id;type:uuid"`
	Action    string     `gorm:"column:action;not null"`
	Target    *string    `gorm:"column:target"`
	Details   *string    `gorm:"column:details;type:jsonb"`
	Timestamp time.Time  `gorm:"column:timestamp;autoCreateTime"`
}

// TableName keeps the singular table name used by the schema.
func (AuditLog) TableName() string {
	return "audit_log"
}
