package attendance

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/anuverse/teamops-backend/internal/audit"
	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/enums"
	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
	pkgpagination "github.com/anuverse/teamops-backend/pkg/pagination"
)

const defaultPhotoContentType = "image/jpeg"

type uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type attendanceRepository interface {
	Create(ctx context.Context, row *models.Attendance) (*models.Attendance, error)
	ListByUser(ctx context.Context, opts listQuery) ([]models.Attendance, error)
}

type auditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// Service persists photo-evidenced check-ins and lists a user's ledger.
type Service interface {
	CheckIn(ctx context.Context, input CheckinInput) (*AttendanceDTO, error)
	ListOwn(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	repo    attendanceRepository
	storage uploader
	audit   auditRecorder
}

// NewService builds an attendance service backed by the provided
// repository and object storage.
func NewService(repo attendanceRepository, storage uploader, recorder auditRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("attendance repository required")
	}
	if storage == nil {
		return nil, fmt.Errorf("storage uploader required")
	}
	return &service{repo: repo, storage: storage, audit: recorder}, nil
}

// CheckIn uploads the photo evidence first and inserts the ledger row only
// after the upload succeeds. A failed insert leaves the uploaded object
// orphaned; the orphan key is recorded in the audit trail.
func (s *service) CheckIn(ctx context.Context, input CheckinInput) (*AttendanceDTO, error) {
	if input.Photo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Photo required")
	}

	ts := input.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	ts = ts.UTC()

	method := input.Method
	if method == "" {
		method = enums.CheckinMethodWeb
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid checkin method")
	}

	contentType := input.ContentType
	if contentType == "" {
		contentType = defaultPhotoContentType
	}

	key := ObjectKey(input.UserID.String(), ts)
	photoURL, err := s.storage.Upload(ctx, key, contentType, input.Photo)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload check-in photo")
	}

	row := &models.Attendance{
		UserID:       input.UserID,
		PhotoURL:     &photoURL,
		TimestampUTC: ts,
		Method:       method,
	}
	if input.Location != "" {
		location := input.Location
		row.Location = &location
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		if s.audit != nil {
			userID := input.UserID
			target := key
			s.audit.Record(ctx, audit.Entry{
				UserID: &userID,
				Action: "attendance.orphan_upload",
				Target: &target,
				Details: map[string]any{
					"photo_url": photoURL,
				},
			})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert attendance row")
	}

	return FromModel(created), nil
}

// ListOwn returns one page of the caller's check-ins.
func (s *service) ListOwn(ctx context.Context, params ListParams) (*ListResult, error) {
	cursor, err := pkgpagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pkgpagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListByUser(ctx, listQuery{
		userID: params.UserID,
		limit:  pkgpagination.LimitWithBuffer(params.Limit),
		cursor: cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list attendance")
	}

	result := &ListResult{Items: make([]AttendanceDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Items = append(result.Items, *FromModel(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		result.Cursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: last.TimestampUTC,
			ID:        last.ID,
		})
	}
	return result, nil
}

// ObjectKey builds the storage key for one check-in photo.
func ObjectKey(ownerID string, ts time.Time) string {
	return fmt.Sprintf("%s_%d.jpg", ownerID, ts.UnixMilli())
}
