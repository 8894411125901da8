package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/enums"
	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
	pkgpagination "github.com/anuverse/teamops-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type tasksRepository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, opts listQuery) ([]models.Task, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.TaskStatus) error
}

// Service manages the role-scoped task board.
type Service interface {
	Create(ctx context.Context, createdBy uuid.UUID, req CreateTaskRequest) (*TaskDTO, error)
	ListForRole(ctx context.Context, params ListParams) (*ListResult, error)
	UpdateStatus(ctx context.Context, actorID uuid.UUID, actorRole enums.AppRole, taskID uuid.UUID, req UpdateStatusRequest) (*TaskDTO, error)
}

type service struct {
	repo tasksRepository
}

// NewService builds a task service backed by the provided repository.
func NewService(repo tasksRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tasks repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, createdBy uuid.UUID, req CreateTaskRequest) (*TaskDTO, error) {
	if req.TaskType != TaskTypeDev && req.TaskType != TaskTypeVisit {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid task type")
	}

	task, err := s.repo.Create(ctx, &models.Task{
		TaskType:      req.TaskType,
		ShopName:      req.ShopName,
		Address:       req.Address,
		Notes:         req.Notes,
		AssignedTo:    req.AssignedTo,
		CreatedBy:     &createdBy,
		ScheduledDate: req.ScheduledDate,
		Status:        enums.TaskStatusPending,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create task")
	}
	return FromModel(task), nil
}

// ListForRole scopes the board by the caller's role: coders see their
// assigned dev tasks, marketing sees their visit tasks, admins see
// everything.
func (s *service) ListForRole(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	cursor, err := pkgpagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := listQuery{
		status: params.Status,
		limit:  pkgpagination.LimitWithBuffer(params.Limit),
		cursor: cursor,
	}
	switch params.Role {
	case enums.AppRoleCoder:
		userID := params.UserID
		query.assignedTo = &userID
		query.taskType = TaskTypeDev
	case enums.AppRoleMarketingManager:
		userID := params.UserID
		query.assignedTo = &userID
		query.taskType = TaskTypeVisit
	case enums.AppRoleAdmin:
		// Unscoped.
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list tasks")
	}

	limit := pkgpagination.NormalizeLimit(params.Limit)
	result := &ListResult{Items: make([]TaskDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Items = append(result.Items, *FromModel(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		result.Cursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

func (s *service) UpdateStatus(ctx context.Context, actorID uuid.UUID, actorRole enums.AppRole, taskID uuid.UUID, req UpdateStatusRequest) (*TaskDTO, error) {
	next, err := enums.ParseTaskStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load task")
	}

	if actorRole != enums.AppRoleAdmin {
		if task.AssignedTo == nil || *task.AssignedTo != actorID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
		}
	}
	if !task.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move task from %s to %s", task.Status, next))
	}

	if err := s.repo.UpdateStatus(ctx, taskID, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update task status")
	}
	task.Status = next
	return FromModel(task), nil
}
