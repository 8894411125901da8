package codeposts

import (
	"context"
	"testing"
	"time"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/enums"
	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubPostsRepo struct {
	posts     map[uuid.UUID]*models.CodePost
	comments  []*models.Comment
	rows      []models.CodePost
	lastQuery listQuery
	statusSet struct {
		id        uuid.UUID
		status    enums.PostStatus
		updatedBy uuid.UUID
		at        time.Time
	}
}

func newStubPostsRepo() *stubPostsRepo {
	return &stubPostsRepo{posts: map[uuid.UUID]*models.CodePost{}}
}

func (s *stubPostsRepo) CreatePost(ctx context.Context, post *models.CodePost) (*models.CodePost, error) {
	post.ID = uuid.New()
	post.CreatedAt = time.Now().UTC()
	s.posts[post.ID] = post
	return post, nil
}

func (s *stubPostsRepo) FindPostByID(ctx context.Context, id uuid.UUID) (*models.CodePost, error) {
	if post, ok := s.posts[id]; ok {
		return post, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPostsRepo) ListPosts(ctx context.Context, opts listQuery) ([]models.CodePost, error) {
	s.lastQuery = opts
	return s.rows, nil
}

func (s *stubPostsRepo) UpdatePostStatus(ctx context.Context, id uuid.UUID, status enums.PostStatus, updatedBy uuid.UUID, at time.Time) error {
	s.statusSet.id = id
	s.statusSet.status = status
	s.statusSet.updatedBy = updatedBy
	s.statusSet.at = at
	return nil
}

func (s *stubPostsRepo) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	comment.ID = uuid.New()
	comment.Timestamp = time.Now().UTC()
	s.comments = append(s.comments, comment)
	return comment, nil
}

func (s *stubPostsRepo) ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	var rows []models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			rows = append(rows, *c)
		}
	}
	return rows, nil
}

func TestCreatePostOpensThread(t *testing.T) {
	repo := newStubPostsRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	createdBy := uuid.New()
	dto, err := svc.CreatePost(context.Background(), createdBy, CreatePostRequest{Title: "panic in worker pool"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if dto.Status != enums.PostStatusOpen {
		t.Fatalf("expected open status, got %s", dto.Status)
	}
	if dto.CreatedBy != createdBy {
		t.Fatalf("expected creator to be recorded")
	}
}

func TestCreatePostRequiresTitle(t *testing.T) {
	svc, _ := NewService(newStubPostsRepo())

	_, err := svc.CreatePost(context.Background(), uuid.New(), CreatePostRequest{Title: "   "})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatusStampsActor(t *testing.T) {
	repo := newStubPostsRepo()
	svc, _ := NewService(repo)

	post := &models.CodePost{ID: uuid.New(), Title: "bug", Status: enums.PostStatusOpen, CreatedBy: uuid.New()}
	repo.posts[post.ID] = post
	actor := uuid.New()

	dto, err := svc.UpdateStatus(context.Background(), actor, post.ID, UpdateStatusRequest{Status: "resolved"})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if dto.Status != enums.PostStatusResolved {
		t.Fatalf("expected resolved, got %s", dto.Status)
	}
	if dto.LastUpdateBy == nil || *dto.LastUpdateBy != actor {
		t.Fatalf("expected actor stamped as last updater")
	}
	if repo.statusSet.updatedBy != actor || repo.statusSet.at.IsZero() {
		t.Fatalf("expected stamp persisted")
	}
}

func TestAddCommentRequiresExistingPost(t *testing.T) {
	repo := newStubPostsRepo()
	svc, _ := NewService(repo)

	_, err := svc.AddComment(context.Background(), uuid.New(), uuid.New(), CreateCommentRequest{Text: "same here"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	post := &models.CodePost{ID: uuid.New(), Title: "bug", CreatedBy: uuid.New()}
	repo.posts[post.ID] = post
	attachment := "https://storage.googleapis.com/teamops/trace.txt"

	comment, err := svc.AddComment(context.Background(), uuid.New(), post.ID, CreateCommentRequest{
		Text:          "stack trace attached",
		AttachmentURL: &attachment,
	})
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if comment.AttachmentURL == nil || *comment.AttachmentURL != attachment {
		t.Fatalf("expected attachment url carried")
	}

	comments, err := svc.ListComments(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected one comment, got %d", len(comments))
	}
}
