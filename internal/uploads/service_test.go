package uploads

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubUploader struct {
	url  string
	err  error
	keys []string
}

func (s *stubUploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, key)
	return s.url, nil
}

type stubUploadsRepo struct {
	created []*models.Upload
	rows    []models.Upload
	err     error
}

func (s *stubUploadsRepo) Create(ctx context.Context, upload *models.Upload) (*models.Upload, error) {
	if s.err != nil {
		return nil, s.err
	}
	upload.ID = uuid.New()
	s.created = append(s.created, upload)
	return upload, nil
}

func (s *stubUploadsRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Upload, error) {
	return s.rows, nil
}

func TestUploadStoresFileAndRecord(t *testing.T) {
	repo := &stubUploadsRepo{}
	storage := &stubUploader{url: "https://storage.googleapis.com/teamops/uploads/x/1_report.pdf"}
	svc, err := NewService(repo, storage)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	userID := uuid.New()
	taskID := uuid.New()
	dto, err := svc.Upload(context.Background(), UploadInput{
		UserID:       userID,
		FileName:     "site report.pdf",
		ContentType:  "application/pdf",
		Body:         strings.NewReader("pdf-bytes"),
		LinkedTaskID: &taskID,
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if dto.FileURL != storage.url {
		t.Fatalf("expected stored url, got %q", dto.FileURL)
	}
	if dto.LinkedTaskID == nil || *dto.LinkedTaskID != taskID {
		t.Fatalf("expected task link carried")
	}
	if len(storage.keys) != 1 {
		t.Fatalf("expected one storage write")
	}
	key := storage.keys[0]
	if !strings.HasPrefix(key, fmt.Sprintf("uploads/%s/", userID)) {
		t.Fatalf("expected user-namespaced key, got %q", key)
	}
	if !strings.HasSuffix(key, "_site_report.pdf") {
		t.Fatalf("expected sanitized file name in key, got %q", key)
	}
}

func TestUploadFailureSkipsRecord(t *testing.T) {
	repo := &stubUploadsRepo{}
	storage := &stubUploader{err: fmt.Errorf("storage down")}
	svc, _ := NewService(repo, storage)

	_, err := svc.Upload(context.Background(), UploadInput{
		UserID:   uuid.New(),
		FileName: "a.txt",
		Body:     strings.NewReader("x"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no record on storage failure")
	}
}

func TestUploadRequiresFileName(t *testing.T) {
	svc, _ := NewService(&stubUploadsRepo{}, &stubUploader{})

	_, err := svc.Upload(context.Background(), UploadInput{
		UserID: uuid.New(),
		Body:   strings.NewReader("x"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
