package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/logger"
	"github.com/google/uuid"
)

// AttendanceDigestJobParams configures the daily attendance digest.
type AttendanceDigestJobParams struct {
	Logger         *logger.Logger
	AttendanceRepo rangedAttendanceRepository
	AuditRepo      auditEntryRepository
}

type rangedAttendanceRepository interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]models.Attendance, error)
}

// NewAttendanceDigestJob constructs the attendance digest job. Each run
// summarizes the previous UTC day.
func NewAttendanceDigestJob(params AttendanceDigestJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.AttendanceRepo == nil {
		return nil, fmt.Errorf("attendance repository required")
	}
	if params.AuditRepo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	return &attendanceDigestJob{
		logg:           params.Logger,
		attendanceRepo: params.AttendanceRepo,
		auditRepo:      params.AuditRepo,
		now:            time.Now,
	}, nil
}

type attendanceDigestJob struct {
	logg           *logger.Logger
	attendanceRepo rangedAttendanceRepository
	auditRepo      auditEntryRepository
	now            func() time.Time
}

func (j *attendanceDigestJob) Name() string { return "attendance-digest" }

func (j *attendanceDigestJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayStart := dayEnd.Add(-24 * time.Hour)

	rows, err := j.attendanceRepo.ListBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("list attendance: %w", err)
	}

	members := map[uuid.UUID]struct{}{}
	for _, row := range rows {
		members[row.UserID] = struct{}{}
	}

	date := dayStart.Format("2006-01-02")
	details := fmt.Sprintf(`{"date":%q,"checkins":%d,"members":%d}`, date, len(rows), len(members))
	target := fmt.Sprintf("attendance:%s", date)
	entry := &models.AuditLog{
		Action:  "attendance.daily_digest",
		Target:  &target,
		Details: &details,
	}
	if err := j.auditRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("record digest: %w", err)
	}

	ctx = j.logg.WithFields(ctx, map[string]any{
		"date":     date,
		"checkins": len(rows),
		"members":  len(members),
	})
	j.logg.Info(ctx, "attendance digest recorded")
	return nil
}
