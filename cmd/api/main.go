package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/meditrack/meditrack-server/cmd/mainconfig"
	"github.com/meditrack/meditrack-server/internal/admintable"
	"github.com/meditrack/meditrack-server/internal/api/router"
	"github.com/meditrack/meditrack-server/internal/appointments"
	appconfig "github.com/meditrack/meditrack-server/internal/config"
	"github.com/meditrack/meditrack-server/internal/export"
	"github.com/meditrack/meditrack-server/internal/http/handlers"
	"github.com/meditrack/meditrack-server/internal/notify"
	"github.com/meditrack/meditrack-server/internal/observability/metrics"
	"github.com/meditrack/meditrack-server/internal/viewcache"
	"github.com/meditrack/meditrack-server/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting meditrack API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Metrics registry shared by every component
	registry := prometheus.NewRegistry()
	notifyMetrics := metrics.NewNotificationMetrics(registry)
	apptMetrics := metrics.NewAppointmentMetrics(registry)

	// Appointment store: Postgres when configured, in-memory otherwise
	var repo appointments.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo = appointments.NewPostgresRepository(pool)
		logger.Info("using postgres appointment store")
	} else {
		repo = appointments.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, using in-memory appointment store")
	}

	// Admin view cache: Redis when configured
	var viewCache viewcache.Cache = viewcache.NoopCache{}
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		viewCache = viewcache.NewRedisCache(redis.NewClient(opts), cfg.ViewCacheTTL, logger)
		logger.Info("admin view cache enabled", "addr", cfg.RedisAddr)
	}

	// Notification transports
	var smsSender notify.SMSSender
	switch cfg.SMSProvider {
	case "telnyx":
		if sender := notify.NewTelnyxSender(notify.TelnyxConfig{
			APIKey:             cfg.TelnyxAPIKey,
			MessagingProfileID: cfg.TelnyxMessagingProfileID,
			FromNumber:         cfg.TelnyxFromNumber,
		}, logger); sender != nil {
			smsSender = sender
		}
	case "stub":
		smsSender = notify.NewStubSMSSender(logger)
	}

	var emailSender notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			emailSender = sender
		}
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		if sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); sender != nil {
			emailSender = sender
		}
	case "stub":
		emailSender = notify.NewStubEmailSender(logger)
	}

	dispatcher := notify.NewDispatcher(smsSender, emailSender, notifyMetrics, logger)

	// Workflow and handlers
	service := appointments.NewService(repo, dispatcher, viewCache, apptMetrics, logger, cfg.ClinicName)
	presenter := admintable.NewPresenter(admintable.DefaultColumns(), admintable.ExportAction(), cfg.AdminPageSize)

	r := router.New(&router.Config{
		Logger:              logger,
		AppointmentsHandler: appointments.NewHandler(service, logger),
		AdminTableHandler:   admintable.NewHandler(service, presenter, viewCache, apptMetrics, logger),
		ExportHandler:       export.NewHandler(service, logger),
		AdminSessionHandler: handlers.NewAdminSessionHandler(cfg.AdminPasskey, cfg.AdminJWTSecret, cfg.AdminSessionTTL, logger),
		AdminAuthSecret:     cfg.AdminJWTSecret,
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
