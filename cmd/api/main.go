package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kardexcare/service-api/docs"
	"github.com/kardexcare/service-api/internal/auth"
	"github.com/kardexcare/service-api/internal/config"
	"github.com/kardexcare/service-api/internal/database"
	"github.com/kardexcare/service-api/internal/http/handler"
	"github.com/kardexcare/service-api/internal/http/middleware"
	"github.com/kardexcare/service-api/internal/http/router"
	"github.com/kardexcare/service-api/internal/jobs"
	"github.com/kardexcare/service-api/internal/logger"
	"github.com/kardexcare/service-api/internal/repository"
	"github.com/kardexcare/service-api/internal/service"
	"github.com/kardexcare/service-api/internal/storage"
	"go.uber.org/zap"
)

// @title KardexCare Service API
// @version 1.0
// @description Field service backend: customers, installed machines, service tickets and sales offers

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				log.Warn("Failed to close database pool", zap.Error(closeErr))
			}
		}
	}()

	// Run pending migrations when FORCE_MIGRATE is set
	if cfg.Database.ForceMigrate {
		log.Info("Running database migrations")
		if err := database.Migrate(db, "migrations"); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize attachment storage (local directory or Azure blob)
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Repositories
	zoneRepo := repository.NewZoneRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	contactRepo := repository.NewContactRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	userRepo := repository.NewUserRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	sequenceRepo := repository.NewNumberSequenceRepository(db)

	// Services
	referenceService := service.NewReferenceService(sequenceRepo, zoneRepo, log)
	zoneService := service.NewZoneService(zoneRepo, userRepo, log)
	customerService := service.NewCustomerService(customerRepo, zoneRepo, log)
	contactService := service.NewContactService(contactRepo, customerRepo, log)
	assetService := service.NewAssetService(assetRepo, customerRepo, log)
	ticketService := service.NewTicketService(ticketRepo, customerRepo, userRepo, referenceService, log)
	offerService := service.NewOfferService(offerRepo, customerRepo, assetRepo, userRepo, referenceService, log)
	userService := service.NewUserService(userRepo, log)
	dashboardService := service.NewDashboardService(customerRepo, assetRepo, ticketRepo, offerRepo, log)
	reportService := service.NewReportService(ticketRepo, offerRepo, log)
	importService := service.NewImportService(customerRepo, assetRepo, zoneRepo, zoneService, log)
	attachmentService := service.NewAttachmentService(attachmentRepo, ticketRepo, offerRepo, fileStorage, log)
	qualityService := service.NewQualityService(offerRepo, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(cfg, userRepo, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	authHandler := handler.NewAuthHandler(log)
	customerHandler := handler.NewCustomerHandler(customerService, contactService, assetService, log)
	contactHandler := handler.NewContactHandler(contactService, log)
	assetHandler := handler.NewAssetHandler(assetService, log)
	ticketHandler := handler.NewTicketHandler(ticketService, log)
	offerHandler := handler.NewOfferHandler(offerService, log)
	zoneHandler := handler.NewZoneHandler(zoneService, log)
	userHandler := handler.NewUserHandler(userService, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)
	reportHandler := handler.NewReportHandler(reportService, log)
	importHandler := handler.NewImportHandler(importService, log)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService, log)

	// Router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		customerHandler,
		contactHandler,
		assetHandler,
		ticketHandler,
		offerHandler,
		zoneHandler,
		userHandler,
		dashboardHandler,
		reportHandler,
		importHandler,
		attachmentHandler,
	)

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)
		if err := jobs.RegisterQualitySweep(scheduler, cfg.Jobs.QualitySweepSchedule, qualityService, log); err != nil {
			log.Error("Failed to register quality sweep job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started",
				zap.String("quality_sweep_schedule", cfg.Jobs.QualitySweepSchedule),
			)
		}
	} else {
		log.Info("Background jobs disabled")
	}

	// HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
