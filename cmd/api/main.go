package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/anuverse/teamops-backend/api/routes"
	"github.com/anuverse/teamops-backend/internal/admin"
	"github.com/anuverse/teamops-backend/internal/attendance"
	"github.com/anuverse/teamops-backend/internal/audit"
	"github.com/anuverse/teamops-backend/internal/auth"
	"github.com/anuverse/teamops-backend/internal/codeposts"
	"github.com/anuverse/teamops-backend/internal/commissions"
	"github.com/anuverse/teamops-backend/internal/leads"
	"github.com/anuverse/teamops-backend/internal/profiles"
	"github.com/anuverse/teamops-backend/internal/roles"
	"github.com/anuverse/teamops-backend/internal/tasks"
	"github.com/anuverse/teamops-backend/internal/uploads"
	"github.com/anuverse/teamops-backend/internal/users"
	"github.com/anuverse/teamops-backend/pkg/auth/session"
	"github.com/anuverse/teamops-backend/pkg/config"
	"github.com/anuverse/teamops-backend/pkg/db"
	"github.com/anuverse/teamops-backend/pkg/geocode"
	"github.com/anuverse/teamops-backend/pkg/logger"
	"github.com/anuverse/teamops-backend/pkg/metrics"
	"github.com/anuverse/teamops-backend/pkg/migrate"
	"github.com/anuverse/teamops-backend/pkg/redis"
	"github.com/anuverse/teamops-backend/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}

	var geoClient *geocode.Client
	if cfg.Geocode.BaseURL != "" {
		geoClient = geocode.NewClient(
			geocode.WithBaseURL(cfg.Geocode.BaseURL),
			geocode.WithTimeout(cfg.Geocode.Timeout),
		)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		ProfileRepo:    profiles.NewRepository(dbClient.DB()),
		RoleRepo:       roles.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	adminRegisterService, err := auth.NewAdminRegisterService(auth.AdminRegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin register service", err)
		os.Exit(1)
	}

	auditRecorder := audit.NewRecorder(audit.NewRepository(dbClient.DB()), logg)

	attendanceRepo := attendance.NewRepository(dbClient.DB())
	attendanceService, err := attendance.NewService(attendanceRepo, gcsClient, auditRecorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create attendance service", err)
		os.Exit(1)
	}

	adminService, err := admin.NewService(
		profiles.NewRepository(dbClient.DB()),
		roles.NewRepository(dbClient.DB()),
		attendanceRepo,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

	leadsService, err := leads.NewService(leads.NewRepository(dbClient.DB()), auditRecorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create leads service", err)
		os.Exit(1)
	}

	tasksService, err := tasks.NewService(tasks.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create tasks service", err)
		os.Exit(1)
	}

	commissionsService, err := commissions.NewService(commissions.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create commissions service", err)
		os.Exit(1)
	}

	postsService, err := codeposts.NewService(codeposts.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create posts service", err)
		os.Exit(1)
	}

	uploadsService, err := uploads.NewService(uploads.NewRepository(dbClient.DB()), gcsClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create uploads service", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(promRegistry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			gcsClient,
			geoClient,
			promRegistry,
			httpMetrics,
			sessionManager,
			authService,
			registerService,
			adminRegisterService,
			attendanceService,
			adminService,
			leadsService,
			tasksService,
			commissionsService,
			postsService,
			uploadsService,
		),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server stopped")
}
