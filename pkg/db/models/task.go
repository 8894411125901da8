package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/anuverse/teamops-backend/pkg/enums"
)

// Task is a unit of scheduled work assigned to a team member.
type Task struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TaskType      string           `gorm:"column:task_type;not null"`
	ShopName      *string          `gorm:"column:shop_name"`
	Address       *string          `gorm:"column:address"`
	Notes         *string          `gorm:"column:notes"`
	AssignedTo    *uuid.UUID       `gorm:"column:assigned_to;type:uuid;index"`
	CreatedBy     *uuid.UUID       `gorm:"column:created_by;type:uuid"`
	ScheduledDate *time.Time       `gorm:"column:scheduled_date"`
	Status        enums.TaskStatus `gorm:"column:status;type:text;not null;default:pending"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
