package admin

import (
	"context"
	"fmt"
	"testing"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/enums"
	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubProfileLister struct {
	rows  []models.Profile
	err   error
	calls int
}

func (s *stubProfileLister) ListAll(ctx context.Context) ([]models.Profile, error) {
	s.calls++
	return s.rows, s.err
}

type stubRoleLister struct {
	rows  []models.UserRole
	err   error
	calls int
}

func (s *stubRoleLister) ListAll(ctx context.Context) ([]models.UserRole, error) {
	s.calls++
	return s.rows, s.err
}

type stubAttendanceLister struct {
	rows  []models.Attendance
	err   error
	calls int
}

func (s *stubAttendanceLister) ListAll(ctx context.Context) ([]models.Attendance, error) {
	s.calls++
	return s.rows, s.err
}

func TestLoadOverviewRejectsNonAdminWithoutFetching(t *testing.T) {
	profiles := &stubProfileLister{}
	roles := &stubRoleLister{}
	rows := &stubAttendanceLister{}
	svc, err := NewService(profiles, roles, rows)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.LoadOverview(context.Background(), enums.AppRoleCoder)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	if profiles.calls+roles.calls+rows.calls != 0 {
		t.Fatalf("expected zero fetches for non-admin")
	}
}

func TestLoadOverviewJoinsAllThreeFetches(t *testing.T) {
	userID := uuid.New()
	profiles := &stubProfileLister{rows: []models.Profile{{UserID: userID, Name: "Rina", Active: true}}}
	roles := &stubRoleLister{rows: []models.UserRole{{UserID: userID, Role: enums.AppRoleMarketingManager}}}
	rows := &stubAttendanceLister{rows: []models.Attendance{{ID: uuid.New(), UserID: userID}}}
	svc, _ := NewService(profiles, roles, rows)

	overview, err := svc.LoadOverview(context.Background(), enums.AppRoleAdmin)
	if err != nil {
		t.Fatalf("load overview: %v", err)
	}
	if len(overview.Members) != 1 || overview.Members[0].Role != "marketing_manager" {
		t.Fatalf("unexpected members %+v", overview.Members)
	}
	if len(overview.Attendance) != 1 || overview.Attendance[0].Name != "Rina" {
		t.Fatalf("unexpected attendance feed %+v", overview.Attendance)
	}
	if overview.Stats.TotalMembers != 1 || overview.Stats.ActiveMembers != 1 {
		t.Fatalf("unexpected stats %+v", overview.Stats)
	}
}

func TestLoadOverviewDiscardsPartialDataOnFetchError(t *testing.T) {
	profiles := &stubProfileLister{rows: []models.Profile{{UserID: uuid.New(), Name: "Rina"}}}
	roles := &stubRoleLister{err: fmt.Errorf("connection reset")}
	rows := &stubAttendanceLister{}
	svc, _ := NewService(profiles, roles, rows)

	overview, err := svc.LoadOverview(context.Background(), enums.AppRoleAdmin)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if overview != nil {
		t.Fatalf("expected no partial overview, got %+v", overview)
	}
}
