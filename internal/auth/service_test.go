package auth

import (
	"context"
	"testing"
	"time"

	pkgAuth "github.com/anuverse/teamops-backend/pkg/auth"
	"github.com/anuverse/teamops-backend/pkg/auth/session"
	"github.com/anuverse/teamops-backend/pkg/config"
	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/enums"
	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
	"github.com/anuverse/teamops-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestServiceLoginIssuesRoleClaim(t *testing.T) {
	password := "coder-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "coder@example.com",
		PasswordHash: mustHashPassword(t, password),
		IsActive:     true,
	}
	cfg := testJWTConfig()

	svc, sessions := buildTestService(t, user, enums.AppRoleCoder, "Dewi Lestari", cfg)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.AppRoleCoder {
		t.Fatalf("expected coder role claim, got %s", claims.Role)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id claim %s, got %s", user.ID, claims.UserID)
	}
	if resp.Name != "Dewi Lestari" {
		t.Fatalf("expected profile name in response, got %q", resp.Name)
	}
	if resp.RefreshToken == "" {
		t.Fatalf("expected refresh token to be set")
	}
	if sessions.generatedFor != claims.ID {
		t.Fatalf("session stored under %q, token carries jti %q", sessions.generatedFor, claims.ID)
	}
	if user.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}
}

func TestServiceLoginRejectsWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "coder@example.com",
		PasswordHash: mustHashPassword(t, "right-password"),
		IsActive:     true,
	}

	svc, _ := buildTestService(t, user, enums.AppRoleCoder, "", testJWTConfig())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	assertUnauthorized(t, err)
}

func TestServiceLoginRejectsInactiveUser(t *testing.T) {
	password := "inactive-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "inactive@example.com",
		PasswordHash: mustHashPassword(t, password),
		IsActive:     false,
	}

	svc, _ := buildTestService(t, user, enums.AppRoleAdmin, "", testJWTConfig())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	assertUnauthorized(t, err)
}

func TestServiceLoginRequiresRoleAssignment(t *testing.T) {
	password := "no-role"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "no-role@example.com",
		PasswordHash: mustHashPassword(t, password),
		IsActive:     true,
	}

	svc, err := NewService(ServiceParams{
		UserRepo:       &stubUserRepo{user: user},
		ProfileRepo:    stubProfileRepo{},
		RoleRepo:       stubRoleRepo{err: gorm.ErrRecordNotFound},
		SessionManager: &stubSessionManager{refreshToken: "refresh"},
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	assertUnauthorized(t, err)
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	oldAccessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   enums.AppRoleMarketingManager,
		JTI:    oldAccessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	sessions := &stubSessionManager{
		refreshToken:   "old-refresh",
		rotatedID:      session.NewAccessID(),
		rotatedRefresh: "new-refresh",
	}
	svc := serviceWithSessions(t, sessions, cfg)

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  accessToken,
		RefreshToken: "old-refresh",
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if sessions.rotateCalledWith != oldAccessID {
		t.Fatalf("expected rotate for %q, got %q", oldAccessID, sessions.rotateCalledWith)
	}
	if resp.RefreshToken != "new-refresh" {
		t.Fatalf("expected rotated refresh token, got %q", resp.RefreshToken)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse new token: %v", err)
	}
	if claims.ID != sessions.rotatedID {
		t.Fatalf("expected new token jti %q, got %q", sessions.rotatedID, claims.ID)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id carried over, got %s", claims.UserID)
	}
}

func TestServiceRefreshRejectsInvalidRefreshToken(t *testing.T) {
	cfg := testJWTConfig()
	accessToken, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.AppRoleCoder,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	sessions := &stubSessionManager{rotateErr: session.ErrInvalidRefreshToken}
	svc := serviceWithSessions(t, sessions, cfg)

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  accessToken,
		RefreshToken: "stolen",
	})
	assertUnauthorized(t, err)
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	cfg := testJWTConfig()
	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.AppRoleAdmin,
		JTI:    accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	sessions := &stubSessionManager{}
	svc := serviceWithSessions(t, sessions, cfg)

	if err := svc.Logout(context.Background(), LogoutRequest{AccessToken: accessToken}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessions.revokedID != accessID {
		t.Fatalf("expected revoke for %q, got %q", accessID, sessions.revokedID)
	}
}

func buildTestService(t *testing.T, user *models.User, role enums.AppRole, name string, cfg config.JWTConfig) (Service, *stubSessionManager) {
	t.Helper()
	sessions := &stubSessionManager{refreshToken: "refresh-token"}
	params := ServiceParams{
		UserRepo:       &stubUserRepo{user: user},
		ProfileRepo:    stubProfileRepo{},
		RoleRepo:       stubRoleRepo{role: &models.UserRole{UserID: user.ID, Role: role}},
		SessionManager: sessions,
		JWTConfig:      cfg,
	}
	if name != "" {
		params.ProfileRepo = stubProfileRepo{profile: &models.Profile{UserID: user.ID, Name: name, Active: true}}
	}
	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, sessions
}

func serviceWithSessions(t *testing.T, sessions *stubSessionManager, cfg config.JWTConfig) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       &stubUserRepo{},
		ProfileRepo:    stubProfileRepo{},
		RoleRepo:       stubRoleRepo{},
		SessionManager: sessions,
		JWTConfig:      cfg,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "teamops",
		ExpirationMinutes: 30,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected unauthorized error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

type stubUserRepo struct {
	user *models.User
	err  error
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

type stubProfileRepo struct {
	profile *models.Profile
	err     error
}

func (s stubProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.profile == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.profile, nil
}

type stubRoleRepo struct {
	role *models.UserRole
	err  error
}

func (s stubRoleRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.UserRole, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.role == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.role, nil
}

type stubSessionManager struct {
	refreshToken     string
	generatedFor     string
	rotatedID        string
	rotatedRefresh   string
	rotateCalledWith string
	rotateErr        error
	revokedID        string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.generatedFor = accessID
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	s.rotateCalledWith = oldAccessID
	return s.rotatedID, s.rotatedRefresh, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revokedID = accessID
	return nil
}
