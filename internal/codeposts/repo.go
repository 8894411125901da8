package codeposts

import (
	"context"
	"time"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes code post and comment persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a code post repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreatePost inserts a new board thread.
func (r *Repository) CreatePost(ctx context.Context, post *models.CodePost) (*models.CodePost, error) {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// FindPostByID loads one thread.
func (r *Repository) FindPostByID(ctx context.Context, id uuid.UUID) (*models.CodePost, error) {
	var post models.CodePost
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts returns board threads using cursor pagination, newest first.
func (r *Repository) ListPosts(ctx context.Context, opts listQuery) ([]models.CodePost, error) {
	query := r.db.WithContext(ctx).Model(&models.CodePost{})

	if opts.status != nil {
		query = query.Where("status = ?", *opts.status)
	}
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.CodePost
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdatePostStatus writes the new status and stamps who changed it.
func (r *Repository) UpdatePostStatus(ctx context.Context, id uuid.UUID, status enums.PostStatus, updatedBy uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.CodePost{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"status":         status,
			"last_update_by": updatedBy,
			"last_update_at": at,
		}).Error
}

// CreateComment inserts a reply on a thread.
func (r *Repository) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a thread's replies, oldest first.
func (r *Repository) ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	var rows []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("timestamp ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
