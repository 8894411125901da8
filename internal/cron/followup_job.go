package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/logger"
	"go.uber.org/multierr"
)

// FollowUpSweepJobParams configures the overdue-lead sweep.
type FollowUpSweepJobParams struct {
	Logger    *logger.Logger
	LeadsRepo overdueLeadsRepository
	AuditRepo auditEntryRepository
}

type overdueLeadsRepository interface {
	ListOverdueFollowUps(ctx context.Context, asOf time.Time) ([]models.Lead, error)
}

type auditEntryRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

// NewFollowUpSweepJob constructs the lead follow-up sweep.
func NewFollowUpSweepJob(params FollowUpSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.LeadsRepo == nil {
		return nil, fmt.Errorf("leads repository required")
	}
	if params.AuditRepo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	return &followUpSweepJob{
		logg:      params.Logger,
		leadsRepo: params.LeadsRepo,
		auditRepo: params.AuditRepo,
		now:       time.Now,
	}, nil
}

type followUpSweepJob struct {
	logg      *logger.Logger
	leadsRepo overdueLeadsRepository
	auditRepo auditEntryRepository
	now       func() time.Time
}

func (j *followUpSweepJob) Name() string { return "lead-followup-sweep" }

// Run flags every lead whose follow-up date has passed with an audit
// entry. Individual insert failures are aggregated, not fatal to the
// rest of the sweep.
func (j *followUpSweepJob) Run(ctx context.Context) error {
	asOf := j.now().UTC()
	overdue, err := j.leadsRepo.ListOverdueFollowUps(ctx, asOf)
	if err != nil {
		return fmt.Errorf("list overdue leads: %w", err)
	}
	if len(overdue) == 0 {
		j.logg.Info(ctx, "no overdue follow-ups")
		return nil
	}

	var errs []error
	for i := range overdue {
		lead := overdue[i]
		target := fmt.Sprintf("lead:%s", lead.ID)
		details := fmt.Sprintf(`{"shop_name":%q,"follow_up_date":%q,"status":%q}`,
			lead.ShopName, lead.FollowUpDate.UTC().Format(time.RFC3339), lead.Status)
		entry := &models.AuditLog{
			UserID:  &lead.CapturedBy,
			Action:  "lead.follow_up_overdue",
			Target:  &target,
			Details: &details,
		}
		if err := j.auditRepo.Create(ctx, entry); err != nil {
			errs = append(errs, fmt.Errorf("audit lead %s: %w", lead.ID, err))
		}
	}

	ctx = j.logg.WithField(ctx, "overdue", len(overdue))
	j.logg.Info(ctx, "follow-up sweep complete")
	return multierr.Combine(errs...)
}
