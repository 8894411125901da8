package uploads

import (
	"context"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes upload record persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an upload repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new upload row.
func (r *Repository) Create(ctx context.Context, upload *models.Upload) (*models.Upload, error) {
	if err := r.db.WithContext(ctx).Create(upload).Error; err != nil {
		return nil, err
	}
	return upload, nil
}

// ListByUser returns one user's uploads, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Upload, error) {
	var rows []models.Upload
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
