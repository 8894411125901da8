package attendance

import (
	"io"
	"time"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/enums"
	pkgpagination "github.com/anuverse/teamops-backend/pkg/pagination"
	"github.com/google/uuid"
)

// CheckinInput carries everything the service needs to record one check-in.
type CheckinInput struct {
	UserID      uuid.UUID
	Photo       io.Reader
	ContentType string
	Location    string
	Timestamp   time.Time
	Method      enums.CheckinMethod
}

// AttendanceDTO is the API shape of one check-in row.
type AttendanceDTO struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	PhotoURL  *string             `json:"photo_url"`
	Location  *string             `json:"location"`
	Timestamp time.Time           `json:"timestamp_utc"`
	Method    enums.CheckinMethod `json:"method"`
}

// ListParams scopes a cursor-paginated listing to one user.
type ListParams struct {
	UserID uuid.UUID
	pkgpagination.Params
}

// ListResult is one page of check-ins plus the cursor for the next page.
type ListResult struct {
	Items  []AttendanceDTO `json:"items"`
	Cursor string          `json:"cursor"`
}

type listQuery struct {
	userID uuid.UUID
	limit  int
	cursor *pkgpagination.Cursor
}

// FromModel converts a persistence row into the API shape.
func FromModel(m *models.Attendance) *AttendanceDTO {
	if m == nil {
		return nil
	}
	return &AttendanceDTO{
		ID:        m.ID,
		UserID:    m.UserID,
		PhotoURL:  m.PhotoURL,
		Location:  m.Location,
		Timestamp: m.TimestampUTC,
		Method:    m.Method,
	}
}
