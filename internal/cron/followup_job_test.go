package cron

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/enums"
	"github.com/anuverse/teamops-backend/pkg/logger"
	"github.com/google/uuid"
)

type stubOverdueLeadsRepo struct {
	rows []models.Lead
	err  error
	asOf time.Time
}

func (s *stubOverdueLeadsRepo) ListOverdueFollowUps(ctx context.Context, asOf time.Time) ([]models.Lead, error) {
	s.asOf = asOf
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

type stubAuditRepo struct {
	created []*models.AuditLog
	failFor string
}

func (s *stubAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	if s.failFor != "" && entry.Target != nil && strings.Contains(*entry.Target, s.failFor) {
		return fmt.Errorf("insert refused")
	}
	s.created = append(s.created, entry)
	return nil
}

func overdueLead(capturedBy uuid.UUID, daysAgo int) models.Lead {
	followUp := time.Now().UTC().AddDate(0, 0, -daysAgo)
	return models.Lead{
		ID:           uuid.New(),
		CapturedBy:   capturedBy,
		ShopName:     "Toko Maju",
		Status:       enums.LeadStatusNew,
		FollowUpDate: &followUp,
	}
}

func TestFollowUpSweepRecordsOverdueLeads(t *testing.T) {
	capturedBy := uuid.New()
	leadsRepo := &stubOverdueLeadsRepo{rows: []models.Lead{
		overdueLead(capturedBy, 3),
		overdueLead(capturedBy, 10),
	}}
	auditRepo := &stubAuditRepo{}
	job, err := NewFollowUpSweepJob(FollowUpSweepJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		LeadsRepo: leadsRepo,
		AuditRepo: auditRepo,
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if job.Name() != "lead-followup-sweep" {
		t.Fatalf("unexpected job name %q", job.Name())
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(auditRepo.created) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(auditRepo.created))
	}
	entry := auditRepo.created[0]
	if entry.Action != "lead.follow_up_overdue" {
		t.Fatalf("unexpected action %q", entry.Action)
	}
	if entry.UserID == nil || *entry.UserID != capturedBy {
		t.Fatalf("expected entry tied to capturing user")
	}
	if entry.Details == nil || !strings.Contains(*entry.Details, `"shop_name":"Toko Maju"`) {
		t.Fatalf("expected details json, got %v", entry.Details)
	}
}

func TestFollowUpSweepAggregatesRowErrors(t *testing.T) {
	capturedBy := uuid.New()
	first := overdueLead(capturedBy, 1)
	second := overdueLead(capturedBy, 2)
	leadsRepo := &stubOverdueLeadsRepo{rows: []models.Lead{first, second}}
	auditRepo := &stubAuditRepo{failFor: first.ID.String()}
	job, _ := NewFollowUpSweepJob(FollowUpSweepJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		LeadsRepo: leadsRepo,
		AuditRepo: auditRepo,
	})

	err := job.Run(context.Background())
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if !strings.Contains(err.Error(), first.ID.String()) {
		t.Fatalf("expected failing lead in error, got %v", err)
	}
	// The other row is still processed.
	if len(auditRepo.created) != 1 {
		t.Fatalf("expected surviving entry, got %d", len(auditRepo.created))
	}
}

func TestFollowUpSweepNoOverdueLeads(t *testing.T) {
	auditRepo := &stubAuditRepo{}
	job, _ := NewFollowUpSweepJob(FollowUpSweepJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		LeadsRepo: &stubOverdueLeadsRepo{},
		AuditRepo: auditRepo,
	})

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(auditRepo.created) != 0 {
		t.Fatalf("expected no entries, got %d", len(auditRepo.created))
	}
}
