package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the roster-facing record for a team member.
type Profile struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID   uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Name     string    `gorm:"column:name;not null"`
	Phone    *string   `gorm:"column:phone"`
	Active   bool      `gorm:"column:active;not null;default:true"`
	JoinedAt time.Time `gorm:"column:joined_at;autoCreateTime"`
}
