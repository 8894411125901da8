package uploads

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
	"github.com/google/uuid"
)

type uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type uploadsRepository interface {
	Create(ctx context.Context, upload *models.Upload) (*models.Upload, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Upload, error)
}

// UploadInput carries one file plus its metadata.
type UploadInput struct {
	UserID       uuid.UUID
	FileName     string
	ContentType  string
	Body         io.Reader
	Description  *string
	LinkedTaskID *uuid.UUID
}

// UploadDTO is the API shape of one stored file.
type UploadDTO struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	FileName     string     `json:"file_name"`
	FileURL      string     `json:"file_url"`
	Description  *string    `json:"description"`
	LinkedTaskID *uuid.UUID `json:"linked_task_id"`
	Timestamp    time.Time  `json:"timestamp"`
}

// Service stores files and records who uploaded them.
type Service interface {
	Upload(ctx context.Context, input UploadInput) (*UploadDTO, error)
	ListOwn(ctx context.Context, userID uuid.UUID) ([]UploadDTO, error)
}

type service struct {
	repo    uploadsRepository
	storage uploader
}

// NewService builds an upload service backed by the provided repository
// and object storage.
func NewService(repo uploadsRepository, storage uploader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("uploads repository required")
	}
	if storage == nil {
		return nil, fmt.Errorf("storage uploader required")
	}
	return &service{repo: repo, storage: storage}, nil
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*UploadDTO, error) {
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if input.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file body is required")
	}

	key := objectKey(input.UserID, fileName)
	fileURL, err := s.storage.Upload(ctx, key, input.ContentType, input.Body)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload file")
	}

	upload, err := s.repo.Create(ctx, &models.Upload{
		UserID:       input.UserID,
		FileName:     fileName,
		FileURL:      fileURL,
		Description:  input.Description,
		LinkedTaskID: input.LinkedTaskID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert upload row")
	}
	return fromModel(upload), nil
}

func (s *service) ListOwn(ctx context.Context, userID uuid.UUID) ([]UploadDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list uploads")
	}
	items := make([]UploadDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *fromModel(&rows[i]))
	}
	return items, nil
}

// objectKey namespaces upload keys by user and timestamp so same-named
// files never collide.
func objectKey(userID uuid.UUID, fileName string) string {
	base := strings.ReplaceAll(path.Base(fileName), " ", "_")
	return fmt.Sprintf("uploads/%s/%d_%s", userID, time.Now().UTC().UnixMilli(), base)
}

func fromModel(m *models.Upload) *UploadDTO {
	return &UploadDTO{
		ID:           m.ID,
		UserID:       m.UserID,
		FileName:     m.FileName,
		FileURL:      m.FileURL,
		Description:  m.Description,
		LinkedTaskID: m.LinkedTaskID,
		Timestamp:    m.Timestamp,
	}
}
