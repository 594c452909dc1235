package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/user"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/handler/http/middleware"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/jwt"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	ServiceName    string
	Version        string
	Env            string
	AllowedOrigins []string
	LogLevel       slog.Level
	// UploadsDir is served under /uploads when set
	UploadsDir string
}

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Directory  DirectoryHandler
	Analytics  AnalyticsHandler
	Payroll    PayrollHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) http.Handler {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.ServiceName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Post("/auth/login", h.Auth.Login)

		// Requires authentication
		r.Group(func(r chi.Router) {
			// header only: revocation is keyed on the bearer token
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/logout", h.Auth.Logout)
				r.Get("/me", h.Auth.Me)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendanceClock)).Post("/clock", h.Attendance.Clock)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).Get("/today", h.Attendance.Today)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).Get("/my", h.Attendance.GetMyAttendance)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/", h.Attendance.List)
					r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/sessions", h.Attendance.Sessions)
					r.With(middleware.RequirePermission(user.PermissionAttendanceDelete)).Delete("/users/{userID}/days/{date}", h.Attendance.DeleteDay)
				})
			})

			r.Route("/analytics", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAnalyticsViewOwn)).Get("/me/dashboard", h.Analytics.MyDashboard)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Use(middleware.RequirePermission(user.PermissionAnalyticsViewAll))
					r.Get("/today", h.Analytics.TodaySummary)
					r.Get("/org", h.Analytics.OrgStats)
					r.Get("/heatmap", h.Analytics.Heatmap)
					r.Get("/employees/{userID}/dashboard", h.Analytics.EmployeeDashboard)
					r.Get("/employees/{userID}/stats", h.Analytics.EmployeeStats)
				})
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionDirectoryManage))

					r.Route("/users", func(r chi.Router) {
						r.Get("/", h.Directory.ListUsers)
						r.Post("/", h.Directory.CreateUser)
						r.Get("/{id}", h.Directory.GetUser)
						r.Put("/{id}", h.Directory.UpdateUser)
						r.Delete("/{id}", h.Directory.DeleteUser)
					})

					r.Route("/sedes", func(r chi.Router) {
						r.Get("/", h.Directory.ListSedes)
						r.Post("/", h.Directory.CreateSede)
						r.Get("/{id}", h.Directory.GetSede)
						r.Put("/{id}", h.Directory.UpdateSede)
						r.Delete("/{id}", h.Directory.DeleteSede)
					})
				})

				r.Route("/payroll", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollExport))
					r.Get("/", h.Payroll.Preview)
					r.Get("/export", h.Payroll.Export)
					r.Post("/archive", h.Payroll.Archive)
				})
			})
		})
	})

	return otelhttp.NewHandler(r, cfg.ServiceName)
}
