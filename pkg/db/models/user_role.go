package models

import (
	"github.com/google/uuid"

	"github.com/anuverse/teamops-backend/pkg/enums"
)

// UserRole binds a user to exactly one portal role.
type UserRole struct {
	ID     uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID     `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Role   enums.AppRole `gorm:"column:role;type:text;not null"`
}
