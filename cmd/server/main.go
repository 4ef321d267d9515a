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

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apps/dicas"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apps/quizzes"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apps/receitas"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/passwordreset"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdoutHandler := logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	ctx := context.Background()

	// Theme catalog
	themes, err := catalog.LoadFromFile(cfg.ThemesConfigPath)
	if err != nil {
		slog.Error("failed to load theme catalog", "path", cfg.ThemesConfigPath, "error", err)
		os.Exit(1)
	}
	slog.Info("theme catalog loaded", "themes", len(themes.All()))

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// Migrate shared models
	if err := database.MigrateShared(db); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdoutHandler, pgLogHandler)))

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)

	plugins := []apps.Plugin{
		dicas.New(),
		receitas.New(),
		quizzes.New(),
	}

	// Migrate plugin models
	for _, p := range plugins {
		if models := p.Models(); len(models) > 0 {
			if err := database.MigrateModels(db, models); err != nil {
				slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("plugin migrated", "plugin", p.ID(), "models", len(models))
		}
	}

	if err := database.SeedThemes(ctx, db, themes.All()); err != nil {
		slog.Error("theme seeding failed", "error", err)
		os.Exit(1)
	}

	// Object storage
	objects, err := storage.New(ctx, cfg)
	if err != nil {
		slog.Error("storage init failed", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}

	// Redis: single-use reset tokens and the email queue
	rdb, err := passwordreset.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	queue, err := mailer.NewQueueMailer(cfg.RedisURL)
	if err != nil {
		slog.Error("email queue init failed", "error", err)
		os.Exit(1)
	}

	var sender mailer.Sender = mailer.LogSender{}
	if cfg.SMTPHost != "" {
		sender = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	} else {
		slog.Warn("SMTP_HOST not set, emails will only be logged")
	}
	stopWorker, err := mailer.StartWorker(cfg.RedisURL, sender, slog.Default())
	if err != nil {
		slog.Error("email worker failed to start", "error", err)
		os.Exit(1)
	}

	metrics.MustRegister()

	// Services
	store := repository.New(db)
	temaService, err := services.NewTemaService(store, themes)
	if err != nil {
		slog.Error("tema service init failed", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(store, cfg, objects, passwordreset.NewRedisStore(rdb), queue)
	userService := services.NewUserService(store, objects)

	deps := &apps.Deps{
		Store:   store,
		Config:  cfg,
		Storage: objects,
		Temas:   temaService,
		Auth:    middleware.JWTProtected(cfg),
		Admin:   middleware.AdminRequired(store.Users, cfg),
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, func(c *fiber.Ctx) bool {
		return middleware.IsAdmin(c, store.Users, cfg)
	})
	temaHandler := handlers.NewTemaHandler(temaService)
	healthHandler := handlers.NewHealthHandler(db, temaService.CatalogSize)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    45 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.Metrics())
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	if local, ok := objects.(*storage.Local); ok {
		app.Static("/uploads", local.Root())
	}

	// Routes
	routes.Setup(app, deps, authHandler, userHandler, temaHandler, healthHandler, plugins)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	stopWorker()
	if err := queue.Close(); err != nil {
		slog.Error("email queue close error", "error", err)
	}
	if err := rdb.Close(); err != nil {
		slog.Error("redis close error", "error", err)
	}
	temaService.Close()

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
