package commissions

import (
	"context"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes commission persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a commission repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new commission row.
func (r *Repository) Create(ctx context.Context, commission *models.Commission) (*models.Commission, error) {
	if err := r.db.WithContext(ctx).Create(commission).Error; err != nil {
		return nil, err
	}
	return commission, nil
}

// ListByUser returns one user's commissions, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Commission, error) {
	var rows []models.Commission
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("calculated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkPaid flips the paid flag on one commission.
func (r *Repository) MarkPaid(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Commission{}).
		Where("id = ?", id).
		UpdateColumn("paid_status", true).Error
}
