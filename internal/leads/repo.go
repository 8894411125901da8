package leads

import (
	"context"
	"time"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes lead persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a lead repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new lead row.
func (r *Repository) Create(ctx context.Context, lead *models.Lead) (*models.Lead, error) {
	if err := r.db.WithContext(ctx).Create(lead).Error; err != nil {
		return nil, err
	}
	return lead, nil
}

// FindByID loads one lead.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := r.db.WithContext(ctx).First(&lead, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// List returns user-scoped leads using cursor pagination, newest first.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.Lead, error) {
	query := r.db.WithContext(ctx).Model(&models.Lead{}).Where("captured_by = ?", opts.capturedBy)

	if opts.status != nil {
		query = query.Where("status = ?", *opts.status)
	}
	if opts.cursor != nil {
		query = query.Where("(captured_at < ?) OR (captured_at = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("captured_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.Lead
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus writes the new funnel status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.LeadStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Lead{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// ListOverdueFollowUps returns leads whose follow-up date has passed and
// that are still early in the funnel.
func (r *Repository) ListOverdueFollowUps(ctx context.Context, asOf time.Time) ([]models.Lead, error) {
	var rows []models.Lead
	err := r.db.WithContext(ctx).
		Where("follow_up_date IS NOT NULL AND follow_up_date < ?", asOf).
		Where("status IN ?", []enums.LeadStatus{enums.LeadStatusNew, enums.LeadStatusContacted}).
		Order("follow_up_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
