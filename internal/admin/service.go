package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/enums"
	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
)

type profileLister interface {
	ListAll(ctx context.Context) ([]models.Profile, error)
}

type roleLister interface {
	ListAll(ctx context.Context) ([]models.UserRole, error)
}

type attendanceLister interface {
	ListAll(ctx context.Context) ([]models.Attendance, error)
}

// Overview is the admin dashboard payload: the joined roster, the
// team-wide attendance feed, and the headline stats.
type Overview struct {
	Members    []TeamMember      `json:"members"`
	Attendance []AttendanceEntry `json:"attendance"`
	Stats      Stats             `json:"stats"`
}

// Service builds the admin overview.
type Service interface {
	LoadOverview(ctx context.Context, actorRole enums.AppRole) (*Overview, error)
}

type service struct {
	profiles   profileLister
	roles      roleLister
	attendance attendanceLister
	now        func() time.Time
}

// NewService wires the three roster fetches behind the admin gate.
func NewService(profiles profileLister, roles roleLister, attendance attendanceLister) (Service, error) {
	if profiles == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	if roles == nil {
		return nil, fmt.Errorf("role repository required")
	}
	if attendance == nil {
		return nil, fmt.Errorf("attendance repository required")
	}
	return &service{
		profiles:   profiles,
		roles:      roles,
		attendance: attendance,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

// LoadOverview fetches profiles, roles, and attendance and joins them in
// memory. Callers without the admin role are rejected before any fetch.
func (s *service) LoadOverview(ctx context.Context, actorRole enums.AppRole) (*Overview, error) {
	if actorRole != enums.AppRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}

	profiles, err := s.profiles.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load roster")
	}
	roles, err := s.roles.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load roster")
	}
	rows, err := s.attendance.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load roster")
	}

	return &Overview{
		Members:    Join(profiles, roles, rows),
		Attendance: DecorateAttendance(rows, profiles),
		Stats:      ComputeStats(profiles, rows, s.now()),
	}, nil
}
