package commissions

import (
	"context"
	"fmt"
	"time"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type commissionsRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Commission, error)
}

// CommissionDTO is the API shape of one commission row.
type CommissionDTO struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	SaleID            *uuid.UUID      `json:"sale_id"`
	Product           string          `json:"product"`
	Amount            decimal.Decimal `json:"amount"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	PaidStatus        bool            `json:"paid_status"`
	CalculatedAt      time.Time       `json:"calculated_at"`
}

// Summary totals one user's commissions.
type Summary struct {
	Total  decimal.Decimal `json:"total"`
	Unpaid decimal.Decimal `json:"unpaid"`
	Count  int             `json:"count"`
}

// ListResult is the commission statement for one user.
type ListResult struct {
	Items   []CommissionDTO `json:"items"`
	Summary Summary         `json:"summary"`
}

// Service reads a user's commission statement.
type Service interface {
	ListOwn(ctx context.Context, userID uuid.UUID) (*ListResult, error)
}

type service struct {
	repo commissionsRepository
}

// NewService builds a commission service backed by the provided repository.
func NewService(repo commissionsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("commissions repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListOwn(ctx context.Context, userID uuid.UUID) (*ListResult, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list commissions")
	}

	result := &ListResult{
		Items: make([]CommissionDTO, 0, len(rows)),
		Summary: Summary{
			Total:  decimal.Zero,
			Unpaid: decimal.Zero,
			Count:  len(rows),
		},
	}
	for _, row := range rows {
		result.Items = append(result.Items, CommissionDTO{
			ID:                row.ID,
			UserID:            row.UserID,
			SaleID:            row.SaleID,
			Product:           row.Product,
			Amount:            row.Amount,
			CommissionPercent: row.CommissionPercent,
			PaidStatus:        row.PaidStatus,
			CalculatedAt:      row.CalculatedAt,
		})
		result.Summary.Total = result.Summary.Total.Add(row.Amount)
		if !row.PaidStatus {
			result.Summary.Unpaid = result.Summary.Unpaid.Add(row.Amount)
		}
	}
	return result, nil
}
