package codeposts

import (
	"time"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/enums"
	pkgpagination "github.com/anuverse/teamops-backend/pkg/pagination"
	"github.com/google/uuid"
)

// CreatePostRequest opens a thread on the coder board.
type CreatePostRequest struct {
	Title       string  `json:"title" validate:"required,min=3"`
	Description *string `json:"description,omitempty"`
}

// UpdateStatusRequest moves a post along its lifecycle.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_progress resolved closed"`
}

// CreateCommentRequest replies to a post.
type CreateCommentRequest struct {
	Text          string  `json:"text" validate:"required"`
	AttachmentURL *string `json:"attachment_url,omitempty"`
}

// PostDTO is the API shape of one board thread.
type PostDTO struct {
	ID           uuid.UUID        `json:"id"`
	Title        string           `json:"title"`
	Description  *string          `json:"description"`
	Status       enums.PostStatus `json:"status"`
	CreatedBy    uuid.UUID        `json:"created_by"`
	CreatedAt    time.Time        `json:"created_at"`
	LastUpdateBy *uuid.UUID       `json:"last_update_by"`
	LastUpdateAt time.Time        `json:"last_update_at"`
}

// CommentDTO is the API shape of one reply.
type CommentDTO struct {
	ID            uuid.UUID `json:"id"`
	PostID        uuid.UUID `json:"post_id"`
	UserID        uuid.UUID `json:"user_id"`
	Text          string    `json:"text"`
	AttachmentURL *string   `json:"attachment_url"`
	Timestamp     time.Time `json:"timestamp"`
}

// ListParams pages through the board.
type ListParams struct {
	Status *enums.PostStatus
	pkgpagination.Params
}

// ListResult is one page of posts plus the cursor for the next page.
type ListResult struct {
	Items  []PostDTO `json:"items"`
	Cursor string    `json:"cursor"`
}

type listQuery struct {
	status *enums.PostStatus
	limit  int
	cursor *pkgpagination.Cursor
}

// FromPostModel converts a persistence row into the API shape.
func FromPostModel(m *models.CodePost) *PostDTO {
	if m == nil {
		return nil
	}
	return &PostDTO{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		Status:       m.Status,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
		LastUpdateBy: m.LastUpdateBy,
		LastUpdateAt: m.LastUpdateAt,
	}
}

// FromCommentModel converts a persistence row into the API shape.
func FromCommentModel(m *models.Comment) *CommentDTO {
	if m == nil {
		return nil
	}
	return &CommentDTO{
		ID:            m.ID,
		PostID:        m.PostID,
		UserID:        m.UserID,
		Text:          m.Text,
		AttachmentURL: m.AttachmentURL,
		Timestamp:     m.Timestamp,
	}
}
