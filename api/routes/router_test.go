package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/anuverse/teamops-backend/internal/admin"
	"github.com/anuverse/teamops-backend/internal/attendance"
	"github.com/anuverse/teamops-backend/internal/auth"
	"github.com/anuverse/teamops-backend/internal/codeposts"
	"github.com/anuverse/teamops-backend/internal/commissions"
	"github.com/anuverse/teamops-backend/internal/leads"
	"github.com/anuverse/teamops-backend/internal/tasks"
	"github.com/anuverse/teamops-backend/internal/uploads"
	"github.com/anuverse/teamops-backend/internal/users"
	pkgAuth "github.com/anuverse/teamops-backend/pkg/auth"
	"github.com/anuverse/teamops-backend/pkg/auth/session"
	"github.com/anuverse/teamops-backend/pkg/config"
	"github.com/anuverse/teamops-backend/pkg/enums"
	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
	"github.com/anuverse/teamops-backend/pkg/logger"
	"github.com/anuverse/teamops-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) { return true, nil }

type stubAuthService struct{}

func (stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

func (stubAuthService) Refresh(context.Context, auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
}

func (stubAuthService) Logout(context.Context, auth.LogoutRequest) error { return nil }

type stubRegisterService struct{}

func (stubRegisterService) Register(context.Context, auth.RegisterRequest) (*users.UserDTO, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubAdminRegisterService struct{}

func (stubAdminRegisterService) Register(context.Context, auth.AdminRegisterRequest) (*users.UserDTO, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubAttendanceService struct{}

func (stubAttendanceService) CheckIn(context.Context, attendance.CheckinInput) (*attendance.AttendanceDTO, error) {
	return &attendance.AttendanceDTO{}, nil
}

func (stubAttendanceService) ListOwn(context.Context, attendance.ListParams) (*attendance.ListResult, error) {
	return &attendance.ListResult{}, nil
}

type stubAdminService struct{}

func (stubAdminService) LoadOverview(ctx context.Context, actorRole enums.AppRole) (*admin.Overview, error) {
	if actorRole != enums.AppRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	return &admin.Overview{}, nil
}

type stubLeadsService struct{}

func (stubLeadsService) Create(context.Context, uuid.UUID, leads.CreateLeadRequest) (*leads.LeadDTO, error) {
	return &leads.LeadDTO{}, nil
}

func (stubLeadsService) ListOwn(context.Context, leads.ListParams) (*leads.ListResult, error) {
	return &leads.ListResult{}, nil
}

func (stubLeadsService) UpdateStatus(context.Context, uuid.UUID, uuid.UUID, leads.UpdateStatusRequest) (*leads.LeadDTO, error) {
	return &leads.LeadDTO{}, nil
}

type stubTasksService struct{}

func (stubTasksService) Create(context.Context, uuid.UUID, tasks.CreateTaskRequest) (*tasks.TaskDTO, error) {
	return &tasks.TaskDTO{}, nil
}

func (stubTasksService) ListForRole(context.Context, tasks.ListParams) (*tasks.ListResult, error) {
	return &tasks.ListResult{}, nil
}

func (stubTasksService) UpdateStatus(context.Context, uuid.UUID, enums.AppRole, uuid.UUID, tasks.UpdateStatusRequest) (*tasks.TaskDTO, error) {
	return &tasks.TaskDTO{}, nil
}

type stubCommissionsService struct{}

func (stubCommissionsService) ListOwn(context.Context, uuid.UUID) (*commissions.ListResult, error) {
	return &commissions.ListResult{}, nil
}

type stubPostsService struct{}

func (stubPostsService) CreatePost(context.Context, uuid.UUID, codeposts.CreatePostRequest) (*codeposts.PostDTO, error) {
	return &codeposts.PostDTO{}, nil
}

func (stubPostsService) ListPosts(context.Context, codeposts.ListParams) (*codeposts.ListResult, error) {
	return &codeposts.ListResult{}, nil
}

func (stubPostsService) UpdateStatus(context.Context, uuid.UUID, uuid.UUID, codeposts.UpdateStatusRequest) (*codeposts.PostDTO, error) {
	return &codeposts.PostDTO{}, nil
}

func (stubPostsService) AddComment(context.Context, uuid.UUID, uuid.UUID, codeposts.CreateCommentRequest) (*codeposts.CommentDTO, error) {
	return &codeposts.CommentDTO{}, nil
}

func (stubPostsService) ListComments(context.Context, uuid.UUID) ([]codeposts.CommentDTO, error) {
	return nil, nil
}

type stubUploadsService struct{}

func (stubUploadsService) Upload(context.Context, uploads.UploadInput) (*uploads.UploadDTO, error) {
	return &uploads.UploadDTO{}, nil
}

func (stubUploadsService) ListOwn(context.Context, uuid.UUID) ([]uploads.UploadDTO, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "teamops",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubPinger{},
		nil, // geocode client
		nil, // prometheus registry
		nil, // http metrics
		stubSessionChecker{},
		stubAuthService{},
		stubRegisterService{},
		stubAdminRegisterService{},
		stubAttendanceService{},
		stubAdminService{},
		stubLeadsService{},
		stubTasksService{},
		stubCommissionsService{},
		stubPostsService{},
		stubUploadsService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.AppRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestProtectedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAttendanceListSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AppRoleCoder))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for attendance list got %d", resp.Code)
	}
}

func TestAdminOverviewRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/overview", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AppRoleCoder))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	adminReq := httptest.NewRequest(http.MethodGet, "/api/admin/v1/overview", nil)
	adminReq.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AppRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, adminReq)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestLeadRoutesRequireMarketingRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	coder := httptest.NewRequest(http.MethodGet, "/api/v1/leads/", nil)
	coder.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AppRoleCoder))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, coder)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for coder got %d", resp.Code)
	}

	manager := httptest.NewRequest(http.MethodGet, "/api/v1/leads/", nil)
	manager.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AppRoleMarketingManager))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, manager)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for marketing manager got %d", resp.Code)
	}
}

func TestCodePostRoutesRequireCoderRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	manager := httptest.NewRequest(http.MethodGet, "/api/v1/code-posts/", nil)
	manager.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AppRoleMarketingManager))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, manager)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for marketing manager got %d", resp.Code)
	}

	coder := httptest.NewRequest(http.MethodGet, "/api/v1/code-posts/", nil)
	coder.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AppRoleCoder))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, coder)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for coder got %d", resp.Code)
	}
}

func TestAdminRegisterHiddenInProduction(t *testing.T) {
	cfg := testConfig()
	cfg.App.Env = "production"
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/register", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound && resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected admin register unmounted in production, got %d", resp.Code)
	}
}
