package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anuverse/teamops-backend/api/controllers"
	"github.com/anuverse/teamops-backend/api/middleware"
	"github.com/anuverse/teamops-backend/internal/admin"
	"github.com/anuverse/teamops-backend/internal/attendance"
	"github.com/anuverse/teamops-backend/internal/auth"
	"github.com/anuverse/teamops-backend/internal/codeposts"
	"github.com/anuverse/teamops-backend/internal/commissions"
	"github.com/anuverse/teamops-backend/internal/leads"
	"github.com/anuverse/teamops-backend/internal/tasks"
	"github.com/anuverse/teamops-backend/internal/uploads"
	"github.com/anuverse/teamops-backend/pkg/auth/session"
	"github.com/anuverse/teamops-backend/pkg/config"
	"github.com/anuverse/teamops-backend/pkg/db"
	"github.com/anuverse/teamops-backend/pkg/enums"
	"github.com/anuverse/teamops-backend/pkg/geocode"
	"github.com/anuverse/teamops-backend/pkg/logger"
	"github.com/anuverse/teamops-backend/pkg/metrics"
	"github.com/anuverse/teamops-backend/pkg/redis"
	"github.com/anuverse/teamops-backend/pkg/storage/gcs"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gcsClient gcs.Pinger,
	geoClient *geocode.Client,
	promRegistry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	sessionChecker session.AccessSessionChecker,
	authService auth.Service,
	registerService auth.RegisterService,
	adminRegisterService auth.AdminRegisterService,
	attendanceService attendance.Service,
	adminService admin.Service,
	leadsService leads.Service,
	tasksService tasks.Service,
	commissionsService commissions.Service,
	postsService codeposts.Service,
	uploadsService uploads.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient, gcsClient))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		if !cfg.App.IsProd() {
			r.Post("/register", controllers.AdminAuthRegister(adminRegisterService, logg))
		}
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/checkin", controllers.AttendanceCheckin(attendanceService, geoClient, cfg, logg))
			r.Get("/", controllers.AttendanceList(attendanceService, logg))
		})

		r.Route("/leads", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, string(enums.AppRoleMarketingManager), string(enums.AppRoleAdmin)))
			r.Post("/", controllers.LeadCreate(leadsService, logg))
			r.Get("/", controllers.LeadList(leadsService, logg))
			r.Patch("/{leadId}/status", controllers.LeadUpdateStatus(leadsService, logg))
		})

		r.Route("/tasks", func(r chi.Router) {
			r.With(middleware.RequireRole(string(enums.AppRoleAdmin), logg)).Post("/", controllers.TaskCreate(tasksService, logg))
			r.Get("/", controllers.TaskList(tasksService, logg))
			r.Patch("/{taskId}/status", controllers.TaskUpdateStatus(tasksService, logg))
		})

		r.Route("/commissions", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, string(enums.AppRoleMarketingManager), string(enums.AppRoleAdmin)))
			r.Get("/", controllers.CommissionList(commissionsService, logg))
		})

		r.Route("/code-posts", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, string(enums.AppRoleCoder), string(enums.AppRoleAdmin)))
			r.Post("/", controllers.PostCreate(postsService, logg))
			r.Get("/", controllers.PostList(postsService, logg))
			r.Patch("/{postId}/status", controllers.PostUpdateStatus(postsService, logg))
			r.Route("/{postId}/comments", func(r chi.Router) {
				r.Post("/", controllers.CommentCreate(postsService, logg))
				r.Get("/", controllers.CommentList(postsService, logg))
			})
		})

		r.Route("/uploads", func(r chi.Router) {
			r.Post("/", controllers.UploadCreate(uploadsService, cfg, logg))
			r.Get("/", controllers.UploadList(uploadsService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.RequireRole(string(enums.AppRoleAdmin), logg))
		r.Get("/overview", controllers.AdminOverview(adminService, logg))
	})

	return r
}
