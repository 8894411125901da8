package attendance

import (
	"context"
	"time"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes attendance ledger persistence. Rows are insert-only.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an attendance repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new check-in row.
func (r *Repository) Create(ctx context.Context, row *models.Attendance) (*models.Attendance, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// ListByUser returns one user's check-ins using cursor pagination,
// newest first.
func (r *Repository) ListByUser(ctx context.Context, opts listQuery) ([]models.Attendance, error) {
	query := r.db.WithContext(ctx).Model(&models.Attendance{}).Where("user_id = ?", opts.userID)

	if opts.cursor != nil {
		query = query.Where("(timestamp_utc < ?) OR (timestamp_utc = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("timestamp_utc DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.Attendance
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListBetween returns check-ins in [from, to), oldest first.
func (r *Repository) ListBetween(ctx context.Context, from, to time.Time) ([]models.Attendance, error) {
	var rows []models.Attendance
	err := r.db.WithContext(ctx).
		Where("timestamp_utc >= ? AND timestamp_utc < ?", from, to).
		Order("timestamp_utc ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll returns every check-in, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Attendance, error) {
	var rows []models.Attendance
	err := r.db.WithContext(ctx).
		Order("timestamp_utc DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
