package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"prophunter_backend/internal/controller"
	"prophunter_backend/internal/leadsync"
	"prophunter_backend/internal/middleware"
	"prophunter_backend/internal/model"
	"prophunter_backend/internal/pipeline"
	"prophunter_backend/internal/search"
	"prophunter_backend/internal/search/gemini"
	"prophunter_backend/internal/store"
	"prophunter_backend/pkg/config"
	"prophunter_backend/pkg/cron"
	"prophunter_backend/pkg/database"
	"prophunter_backend/pkg/email"
	"prophunter_backend/pkg/logger"
	"prophunter_backend/pkg/utils/storage"
)

func setupRoutes(app *fiber.App, jwtSecret string) {
	api := app.Group("/api")

	// Auth Routes
	api.Post("/auth/token", controller.IssueToken)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware(jwtSecret))

	// Search results
	protected.Post("/search", controller.StartSearch)
	protected.Get("/listings", controller.GetListings)
	protected.Get("/listings/export", controller.ExportListings)

	// Pipeline
	leads := protected.Group("/leads")
	leads.Get("/", controller.GetLeads)
	leads.Post("/", controller.CreateLead)
	leads.Post("/resync", controller.ResyncLeads)
	leads.Get("/export", controller.ExportLeads)
	leads.Put("/:id/status", controller.UpdateLeadStatus)
	leads.Delete("/:id", controller.DeleteLead)

	// Dashboard routes
	protected.Get("/dashboard/stats", controller.GetDashboardStats)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	if code >= fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	ctx := context.Background()

	db, err := database.InitDB(cfg.Database.URL)
	if err != nil {
		slog.Error("could not connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.MigrateDatabase(db, &model.LeadRecord{}); err != nil {
		slog.Warn("migration warning", "error", err)
	}

	policy, err := leadsync.ParsePolicy(cfg.Sync.Policy)
	if err != nil {
		slog.Error("invalid SYNC_POLICY", "error", err)
		os.Exit(1)
	}
	leadStore := store.NewLeadStore(db)
	repo := leadsync.NewRepository(pipeline.NewBoard(), leadStore, policy, slog.Default())
	if err := repo.Load(ctx); err != nil {
		slog.Error("could not load leads, starting with an empty board", "error", err)
	}

	provider, err := gemini.NewProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		slog.Error("could not initialize gemini", "error", err)
		os.Exit(1)
	}
	orchestrator, err := search.NewOrchestrator(provider,
		search.WithTimeout(cfg.Gemini.SearchTimeout),
		search.WithMaxResults(cfg.Gemini.MaxResults),
		search.WithLogger(slog.Default()),
	)
	if err != nil {
		slog.Error("could not initialize search", "error", err)
		os.Exit(1)
	}

	controller.InitSearchController(orchestrator)
	controller.InitLeadController(repo)
	controller.InitAuthController(cfg.Auth.JWTSecret, cfg.Auth.AccessKeyHash, cfg.Auth.TokenTTL)

	if cfg.Export.Bucket != "" {
		archive, err := storage.NewExportStorage(ctx, storage.Config{
			Bucket:    cfg.Export.Bucket,
			Region:    cfg.Export.Region,
			Endpoint:  cfg.Export.Endpoint,
			AccessKey: cfg.Export.AccessKey,
			SecretKey: cfg.Export.SecretKey,
		})
		if err != nil {
			slog.Error("could not initialize export storage", "error", err)
			os.Exit(1)
		}
		controller.InitExportController(archive)
	}

	scheduler := cron.NewScheduler()
	if cfg.Sync.ResyncCron != "" {
		if err := cron.AddResyncJob(scheduler, cfg.Sync.ResyncCron, repo); err != nil {
			slog.Error("could not schedule resync", "error", err)
			os.Exit(1)
		}
	}
	if cfg.Digest.To != "" && cfg.Digest.ResendAPIKey != "" {
		mailer, err := email.NewEmailService(cfg.Digest.ResendAPIKey)
		if err != nil {
			slog.Error("could not initialize email service", "error", err)
			os.Exit(1)
		}
		if err := cron.AddDigestJob(scheduler, cfg.Digest.Cron, leadStore, mailer, cfg.Digest.To); err != nil {
			slog.Error("could not schedule digest", "error", err)
			os.Exit(1)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	setupRoutes(app, cfg.Auth.JWTSecret)

	slog.Info("server is running", "port", cfg.Server.Port, "leads", repo.Board().Len())
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		slog.Error("server stopped", "error", err)
	}
}
