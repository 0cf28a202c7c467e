package http

import (
	"log/slog"
	"os"

	"github.com/KilluwheQT/qrams2.0/internal/config"
	"github.com/KilluwheQT/qrams2.0/internal/handler/http/middleware"
	"github.com/KilluwheQT/qrams2.0/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Session    SessionHandler
	Event      EventHandler
	Student    StudentHandler
	Attendance AttendanceHandler
	QR         QRHandler
	Report     ReportHandler
}

func NewRouter(cfg *config.Config, jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       logLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "qrams"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/metrics", promhttp.Handler())

	// The scan and login paths take the brunt of a hall full of phones.
	scanLimiter := middleware.NewTokenBucket(30, 60)
	loginLimiter := middleware.NewTokenBucket(10, 20)

	r.Route("/api/v1", func(r chi.Router) {

		// Public
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter.Handler).Post("/login", h.Session.Login)
			r.With(loginLimiter.Handler).Post("/register", h.Student.Register)
		})

		// Display boards are unauthenticated; the rotating token is the
		// control, not the endpoint.
		r.Route("/qr/{id}/{type}", func(r chi.Router) {
			r.Get("/", h.QR.Snapshot)
			r.Get("/image", h.QR.Image)
			r.Get("/stream", h.QR.Stream)
		})

		// Student session required
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.SessionRequired(jwtService))
			r.Use(middleware.StudentOnly)

			r.Post("/auth/logout", h.Session.Logout)
			r.Put("/profile", h.Student.UpdateProfile)
			r.With(scanLimiter.Handler).Post("/attendance/scan", h.Attendance.Scan)
			r.Get("/attendance/my", h.Attendance.MyAttendance)
		})

		// Staff only
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.StaffOnly)

			r.Route("/events", func(r chi.Router) {
				r.Get("/", h.Event.List)
				r.Post("/", h.Event.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Event.Get)
					r.Put("/", h.Event.Update)
					r.Delete("/", h.Event.Delete)
					r.Get("/attendance", h.Attendance.ListByEvent)
					r.Get("/summary", h.Attendance.EventSummary)
					r.Get("/export", h.Report.EventCSV)
				})
			})

			r.Route("/students", func(r chi.Router) {
				r.Get("/", h.Student.List)
				r.Post("/", h.Student.Create)
				r.Get("/pending", h.Student.ListPending)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Student.Get)
					r.Put("/", h.Student.Update)
					r.Delete("/", h.Student.Delete)
					r.Post("/approve", h.Student.Approve)
					r.Post("/reject", h.Student.Reject)
				})
			})

			r.Get("/dashboard", h.Report.Dashboard)
		})
	})

	return r
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
