package codeposts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/enums"
	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
	pkgpagination "github.com/anuverse/teamops-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type postsRepository interface {
	CreatePost(ctx context.Context, post *models.CodePost) (*models.CodePost, error)
	FindPostByID(ctx context.Context, id uuid.UUID) (*models.CodePost, error)
	ListPosts(ctx context.Context, opts listQuery) ([]models.CodePost, error)
	UpdatePostStatus(ctx context.Context, id uuid.UUID, status enums.PostStatus, updatedBy uuid.UUID, at time.Time) error
	CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error)
}

// Service runs the coder board: threads, statuses, comments.
type Service interface {
	CreatePost(ctx context.Context, createdBy uuid.UUID, req CreatePostRequest) (*PostDTO, error)
	ListPosts(ctx context.Context, params ListParams) (*ListResult, error)
	UpdateStatus(ctx context.Context, actorID, postID uuid.UUID, req UpdateStatusRequest) (*PostDTO, error)
	AddComment(ctx context.Context, actorID, postID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]CommentDTO, error)
}

type service struct {
	repo postsRepository
	now  func() time.Time
}

// NewService builds a board service backed by the provided repository.
func NewService(repo postsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("code posts repository required")
	}
	return &service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) CreatePost(ctx context.Context, createdBy uuid.UUID, req CreatePostRequest) (*PostDTO, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	post, err := s.repo.CreatePost(ctx, &models.CodePost{
		Title:       title,
		Description: req.Description,
		Status:      enums.PostStatusOpen,
		CreatedBy:   createdBy,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create post")
	}
	return FromPostModel(post), nil
}

func (s *service) ListPosts(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	cursor, err := pkgpagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pkgpagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListPosts(ctx, listQuery{
		status: params.Status,
		limit:  pkgpagination.LimitWithBuffer(params.Limit),
		cursor: cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list posts")
	}

	result := &ListResult{Items: make([]PostDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Items = append(result.Items, *FromPostModel(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		result.Cursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

// UpdateStatus writes the new status and stamps the actor as the last
// updater.
func (s *service) UpdateStatus(ctx context.Context, actorID, postID uuid.UUID, req UpdateStatusRequest) (*PostDTO, error) {
	status, err := enums.ParsePostStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	post, err := s.repo.FindPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load post")
	}

	at := s.now()
	if err := s.repo.UpdatePostStatus(ctx, postID, status, actorID, at); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update post status")
	}
	post.Status = status
	post.LastUpdateBy = &actorID
	post.LastUpdateAt = at
	return FromPostModel(post), nil
}

func (s *service) AddComment(ctx context.Context, actorID, postID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "text is required")
	}

	if _, err := s.repo.FindPostByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load post")
	}

	comment, err := s.repo.CreateComment(ctx, &models.Comment{
		PostID:        postID,
		UserID:        actorID,
		Text:          text,
		AttachmentURL: req.AttachmentURL,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create comment")
	}
	return FromCommentModel(comment), nil
}

func (s *service) ListComments(ctx context.Context, postID uuid.UUID) ([]CommentDTO, error) {
	rows, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list comments")
	}
	comments := make([]CommentDTO, 0, len(rows))
	for i := range rows {
		comments = append(comments, *FromCommentModel(&rows[i]))
	}
	return comments, nil
}
