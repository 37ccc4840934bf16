package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/hibiken/asynq"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/apps"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/apps/consent"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/apps/documents"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/apps/sharing"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/apps/verification"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/blob"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/bootstrap"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/config"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/database"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/jobs"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/logging"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/routes"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := bootstrap.OpenStore(ctx, cfg, true)
	if err != nil {
		slog.Error("store setup failed", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}

	var pgLogHandler *logging.PGHandler
	cleanupDone := make(chan struct{})
	ping := func() error { return nil }
	if database.DB != nil {
		// PostgreSQL log handler (ERROR+ async batch)
		pgLogHandler = logging.NewPGHandler(database.DB)
		slog.SetDefault(slog.New(logging.NewMultiHandler(
			logging.StdoutHandler(cfg.LogLevel),
			pgLogHandler,
		)))
		logging.StartCleanup(database.DB, cfg.LogRetention, cleanupDone)
		ping = database.Ping
	}

	content, err := blob.New(ctx, cfg)
	if err != nil {
		slog.Error("blob storage setup failed", "driver", cfg.BlobDriver, "error", err)
		os.Exit(1)
	}

	signer, err := bootstrap.Signer(cfg)
	if err != nil {
		slog.Error("signing key setup failed", "error", err)
		os.Exit(1)
	}

	// Digest jobs: Redis when configured, otherwise in-process
	var (
		digests    services.DigestDispatcher
		pool       *jobs.Pool
		dispatcher *jobs.Dispatcher
	)
	if cfg.UseAsynq() {
		dispatcher = jobs.NewDispatcher(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		digests = dispatcher
	} else {
		pool = jobs.NewPool(cfg.WorkerConcurrency, 64)
		digests = pool
	}

	// Services
	authService := services.NewAuthService(st.Users, st.RefreshTokens, cfg)
	documentService := services.NewDocumentService(st.Documents, st.Activities, content, digests, cfg.BlobURLTTL, cfg.MaxContentSize)
	sharingService := services.NewSharingService(st.Documents, st.Shares, st.Activities, documentService)
	consentService := services.NewConsentService(st.Documents, st.Consents)
	verificationService := services.NewVerificationService(st.Documents, st.Activities, signer, documentService, cfg.PublicBaseURL)

	if pool != nil {
		pool.Start(ctx, jobs.NewProcessor(content, documentService))
	}

	plugins := []apps.Plugin{
		documents.New(documentService),
		sharing.New(sharingService),
		consent.New(consentService),
		verification.New(verificationService),
	}

	h := routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService),
		Users:  handlers.NewUserHandler(authService),
		Health: handlers.NewHealthHandler(cfg.StoreDriver, ping),
	}
	if local, ok := content.(*blob.Local); ok {
		h.Blob = handlers.NewBlobHandler(local)
	}

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "no-referrer")
		return c.Next()
	})

	routes.Setup(app, cfg, st.Users, h, plugins)
	for _, p := range plugins {
		slog.Info("plugin registered", "plugin", p.ID())
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreDriver, "blob", cfg.BlobDriver, "asynq", cfg.UseAsynq())
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if pool != nil {
		pool.Stop()
	}
	if dispatcher != nil {
		if err := dispatcher.Close(); err != nil {
			slog.Error("job queue close error", "error", err)
		}
	}

	close(cleanupDone)
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if database.DB != nil {
		if err := database.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// 5xx details stay in the logs
	if code >= 500 {
		slog.Error("unhandled server error", "request_id", apps.RequestID(c), "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
