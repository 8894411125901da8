package audit

import (
	"context"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes audit log persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an audit repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new audit row.
func (r *Repository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListRecent returns the newest audit rows up to limit.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var rows []models.AuditLog
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
