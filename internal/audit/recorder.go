package audit

import (
	"context"
	"encoding/json"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/logger"
	"github.com/google/uuid"
)

// Entry describes one auditable action.
type Entry struct {
	UserID  *uuid.UUID
	Action  string
	Target  *string
	Details map[string]any
}

type entryRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

// Recorder writes audit entries without ever failing the caller. Insert
// errors are logged and dropped.
type Recorder struct {
	repo entryRepository
	logg *logger.Logger
}

// NewRecorder builds a best-effort audit recorder.
func NewRecorder(repo entryRepository, logg *logger.Logger) *Recorder {
	return &Recorder{repo: repo, logg: logg}
}

// Record persists one audit entry. Failures are logged, never returned.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if r == nil || r.repo == nil {
		return
	}

	row := &models.AuditLog{
		UserID: entry.UserID,
		Action: entry.Action,
		Target: entry.Target,
	}
	if len(entry.Details) > 0 {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			if r.logg != nil {
				r.logg.Warn(ctx, "audit.details_marshal_failed")
			}
		} else {
			details := string(raw)
			row.Details = &details
		}
	}

	if err := r.repo.Create(ctx, row); err != nil && r.logg != nil {
		r.logg.Error(ctx, "audit.record_failed", err)
	}
}
