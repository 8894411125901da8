package tasks

import (
	"time"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/enums"
	pkgpagination "github.com/anuverse/teamops-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Task types understood by the board. Dev tasks go to coders, visit
// tasks to marketing.
const (
	TaskTypeDev   = "dev"
	TaskTypeVisit = "visit"
)

// CreateTaskRequest is the task creation payload.
type CreateTaskRequest struct {
	TaskType      string     `json:"task_type" validate:"required,oneof=dev visit"`
	ShopName      *string    `json:"shop_name,omitempty"`
	Address       *string    `json:"address,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	AssignedTo    *uuid.UUID `json:"assigned_to,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
}

// UpdateStatusRequest moves a task along its lifecycle.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
}

// TaskDTO is the API shape of one task.
type TaskDTO struct {
	ID            uuid.UUID        `json:"id"`
	TaskType      string           `json:"task_type"`
	ShopName      *string          `json:"shop_name"`
	Address       *string          `json:"address"`
	Notes         *string          `json:"notes"`
	AssignedTo    *uuid.UUID       `json:"assigned_to"`
	CreatedBy     *uuid.UUID       `json:"created_by"`
	ScheduledDate *time.Time       `json:"scheduled_date"`
	Status        enums.TaskStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ListParams scopes a task listing to one user and role.
type ListParams struct {
	UserID uuid.UUID
	Role   enums.AppRole
	Status *enums.TaskStatus
	pkgpagination.Params
}

// ListResult is one page of tasks plus the cursor for the next page.
type ListResult struct {
	Items  []TaskDTO `json:"items"`
	Cursor string    `json:"cursor"`
}

type listQuery struct {
	assignedTo *uuid.UUID
	taskType   string
	status     *enums.TaskStatus
	limit      int
	cursor     *pkgpagination.Cursor
}

// FromModel converts a persistence row into the API shape.
func FromModel(m *models.Task) *TaskDTO {
	if m == nil {
		return nil
	}
	return &TaskDTO{
		ID:            m.ID,
		TaskType:      m.TaskType,
		ShopName:      m.ShopName,
		Address:       m.Address,
		Notes:         m.Notes,
		AssignedTo:    m.AssignedTo,
		CreatedBy:     m.CreatedBy,
		ScheduledDate: m.ScheduledDate,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
