package audit

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/google/uuid"
)

type stubEntryRepo struct {
	created []*models.AuditLog
	err     error
}

func (s *stubEntryRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, entry)
	return nil
}

func TestRecorderPersistsEntry(t *testing.T) {
	repo := &stubEntryRepo{}
	recorder := NewRecorder(repo, nil)
	userID := uuid.New()
	target := "lead:123"

	recorder.Record(context.Background(), Entry{
		UserID: &userID,
		Action: "lead.status_changed",
		Target: &target,
		Details: map[string]any{
			"from": "new",
			"to":   "contacted",
		},
	})

	if len(repo.created) != 1 {
		t.Fatalf("expected one audit row, got %d", len(repo.created))
	}
	row := repo.created[0]
	if row.Action != "lead.status_changed" {
		t.Fatalf("unexpected action %q", row.Action)
	}
	if row.UserID == nil || *row.UserID != userID {
		t.Fatalf("expected user id to be carried")
	}
	if row.Details == nil || !strings.Contains(*row.Details, `"to":"contacted"`) {
		t.Fatalf("expected details json, got %v", row.Details)
	}
}

func TestRecorderSwallowsInsertFailure(t *testing.T) {
	repo := &stubEntryRepo{err: fmt.Errorf("connection refused")}
	recorder := NewRecorder(repo, nil)

	recorder.Record(context.Background(), Entry{Action: "attendance.orphan_upload"})
	// No panic, no error returned. A nil recorder is also a no-op.
	var nilRecorder *Recorder
	nilRecorder.Record(context.Background(), Entry{Action: "noop"})
}
