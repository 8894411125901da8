package roles

import (
	"context"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes role assignment persistence operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the provided transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, role *models.UserRole) (*models.UserRole, error) {
	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		return nil, err
	}
	return role, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.UserRole, error) {
	var role models.UserRole
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// ListAll returns every role assignment.
func (r *Repository) ListAll(ctx context.Context) ([]models.UserRole, error) {
	var assignments []models.UserRole
	if err := r.db.WithContext(ctx).Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}
