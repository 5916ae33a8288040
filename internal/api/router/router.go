package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/meditrack/meditrack-server/internal/admintable"
	"github.com/meditrack/meditrack-server/internal/appointments"
	"github.com/meditrack/meditrack-server/internal/export"
	"github.com/meditrack/meditrack-server/internal/http/handlers"
	httpmiddleware "github.com/meditrack/meditrack-server/internal/http/middleware"
	"github.com/meditrack/meditrack-server/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	AppointmentsHandler *appointments.Handler
	AdminTableHandler   *admintable.Handler
	ExportHandler       *export.Handler
	AdminSessionHandler *handlers.AdminSessionHandler
	AdminAuthSecret     string
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.AdminSessionHandler != nil {
			// Throttled so the passkey cannot be brute forced.
			public.With(httpmiddleware.RateLimit(1, 5)).
				Post("/admin/session", cfg.AdminSessionHandler.CreateSession)
		}
	})

	// Patient-facing appointment workflow
	if cfg.AppointmentsHandler != nil {
		r.Route("/appointments", func(api chi.Router) {
			api.Post("/", cfg.AppointmentsHandler.Create)
			api.Get("/{appointmentID}", cfg.AppointmentsHandler.Get)
			api.Patch("/{appointmentID}", cfg.AppointmentsHandler.Update)
		})
	}

	// Admin dashboard, session-token protected
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin/appointments", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			if cfg.AdminTableHandler != nil {
				admin.Get("/", cfg.AdminTableHandler.ListAppointments)
			}
			if cfg.ExportHandler != nil {
				admin.Get("/{appointmentID}/summary.pdf", cfg.ExportHandler.Download)
			}
		})
	}

	return r
}
