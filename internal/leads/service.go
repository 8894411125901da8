package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anuverse/teamops-backend/internal/audit"
	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/enums"
	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
	pkgpagination "github.com/anuverse/teamops-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type leadsRepository interface {
	Create(ctx context.Context, lead *models.Lead) (*models.Lead, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	List(ctx context.Context, opts listQuery) ([]models.Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.LeadStatus) error
}

type auditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// Service captures and manages sales leads.
type Service interface {
	Create(ctx context.Context, capturedBy uuid.UUID, req CreateLeadRequest) (*LeadDTO, error)
	ListOwn(ctx context.Context, params ListParams) (*ListResult, error)
	UpdateStatus(ctx context.Context, actorID, leadID uuid.UUID, req UpdateStatusRequest) (*LeadDTO, error)
}

type service struct {
	repo  leadsRepository
	audit auditRecorder
}

// NewService builds a lead service backed by the provided repository.
func NewService(repo leadsRepository, recorder auditRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("leads repository required")
	}
	return &service{repo: repo, audit: recorder}, nil
}

func (s *service) Create(ctx context.Context, capturedBy uuid.UUID, req CreateLeadRequest) (*LeadDTO, error) {
	shopName := strings.TrimSpace(req.ShopName)
	if shopName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop_name is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}

	lead, err := s.repo.Create(ctx, &models.Lead{
		CapturedBy:      capturedBy,
		ShopName:        shopName,
		Name:            name,
		Phone:           phone,
		Email:           req.Email,
		Address:         req.Address,
		ProductInterest: req.ProductInterest,
		Notes:           req.Notes,
		ImageURL:        req.ImageURL,
		FollowUpDate:    req.FollowUpDate,
		Status:          enums.LeadStatusNew,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create lead")
	}

	s.recordAudit(ctx, capturedBy, "lead.captured", lead.ID, map[string]any{
		"shop_name": lead.ShopName,
	})
	return FromModel(lead), nil
}

func (s *service) ListOwn(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	cursor, err := pkgpagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pkgpagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.List(ctx, listQuery{
		capturedBy: params.CapturedBy,
		status:     params.Status,
		limit:      pkgpagination.LimitWithBuffer(params.Limit),
		cursor:     cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list leads")
	}

	result := &ListResult{Items: make([]LeadDTO, 0, len(rows))}
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
			CreatedAt: last.CapturedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

func (s *service) UpdateStatus(ctx context.Context, actorID, leadID uuid.UUID, req UpdateStatusRequest) (*LeadDTO, error) {
	status, err := enums.ParseLeadStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	lead, err := s.repo.FindByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "lead not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load lead")
	}
	if lead.CapturedBy != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}

	previous := lead.Status
	if err := s.repo.UpdateStatus(ctx, leadID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update lead status")
	}
	lead.Status = status

	s.recordAudit(ctx, actorID, "lead.status_changed", leadID, map[string]any{
		"from": previous.String(),
		"to":   status.String(),
	})
	return FromModel(lead), nil
}

func (s *service) recordAudit(ctx context.Context, actorID uuid.UUID, action string, leadID uuid.UUID, details map[string]any) {
	if s.audit == nil {
		return
	}
	target := fmt.Sprintf("lead:%s", leadID)
	s.audit.Record(ctx, audit.Entry{
		UserID:  &actorID,
		Action:  action,
		Target:  &target,
		Details: details,
	})
}
