package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kardexcare/service-api/internal/auth"
	"github.com/kardexcare/service-api/internal/config"
	"github.com/kardexcare/service-api/internal/database"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/http/handler"
	"github.com/kardexcare/service-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/kardexcare/service-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg               *config.Config
	logger            *zap.Logger
	db                *gorm.DB
	authMiddleware    *auth.Middleware
	rateLimiter       *middleware.RateLimiter
	authHandler       *handler.AuthHandler
	customerHandler   *handler.CustomerHandler
	contactHandler    *handler.ContactHandler
	assetHandler      *handler.AssetHandler
	ticketHandler     *handler.TicketHandler
	offerHandler      *handler.OfferHandler
	zoneHandler       *handler.ZoneHandler
	userHandler       *handler.UserHandler
	dashboardHandler  *handler.DashboardHandler
	reportHandler     *handler.ReportHandler
	importHandler     *handler.ImportHandler
	attachmentHandler *handler.AttachmentHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	customerHandler *handler.CustomerHandler,
	contactHandler *handler.ContactHandler,
	assetHandler *handler.AssetHandler,
	ticketHandler *handler.TicketHandler,
	offerHandler *handler.OfferHandler,
	zoneHandler *handler.ZoneHandler,
	userHandler *handler.UserHandler,
	dashboardHandler *handler.DashboardHandler,
	reportHandler *handler.ReportHandler,
	importHandler *handler.ImportHandler,
	attachmentHandler *handler.AttachmentHandler,
) *Router {
	return &Router{
		cfg:               cfg,
		logger:            logger,
		db:                db,
		authMiddleware:    authMiddleware,
		rateLimiter:       rateLimiter,
		authHandler:       authHandler,
		customerHandler:   customerHandler,
		contactHandler:    contactHandler,
		assetHandler:      assetHandler,
		ticketHandler:     ticketHandler,
		offerHandler:      offerHandler,
		zoneHandler:       zoneHandler,
		userHandler:       userHandler,
		dashboardHandler:  dashboardHandler,
		reportHandler:     reportHandler,
		importHandler:     importHandler,
		attachmentHandler: attachmentHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		if !allHealthy {
			status = "unhealthy"
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API routes (all authenticated)
	r.Route("/api", func(r chi.Router) {
		r.Use(rt.authMiddleware.Authenticate)

		requireStaff := rt.authMiddleware.RequireRole(
			domain.RoleAdmin,
			domain.RoleZoneManager,
			domain.RoleZoneUser,
			domain.RoleServicePerson,
			domain.RoleExpertHelpdesk,
		)

		// Auth
		r.Get("/auth/me", rt.authHandler.Me)

		// Customers
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", rt.customerHandler.List)
			r.Get("/{id}", rt.customerHandler.GetByID)
			r.With(rt.authMiddleware.RequireAdmin).Post("/", rt.customerHandler.Create)
			r.With(rt.authMiddleware.RequireAdmin).Put("/{id}", rt.customerHandler.Update)
			r.With(rt.authMiddleware.RequireAdmin).Delete("/{id}", rt.customerHandler.Delete)

			// Contact ownership (ADMIN or the customer's own CUSTOMER_OWNER)
			// is checked in the service, which knows the target customer.
			r.Get("/{id}/contacts", rt.customerHandler.ListContacts)
			r.Post("/{id}/contacts", rt.customerHandler.CreateContact)

			r.Get("/{id}/assets", rt.customerHandler.ListAssets)
			r.With(rt.authMiddleware.RequireAdmin).Post("/{id}/assets", rt.customerHandler.CreateAsset)
		})

		// Contacts
		r.Route("/contacts", func(r chi.Router) {
			r.Get("/{id}", rt.contactHandler.GetByID)
			r.Put("/{id}", rt.contactHandler.Update)
			r.Delete("/{id}", rt.contactHandler.Delete)
		})

		// Assets
		r.Route("/assets", func(r chi.Router) {
			r.Get("/", rt.assetHandler.List)
			r.Get("/{id}", rt.assetHandler.GetByID)
			r.With(rt.authMiddleware.RequireAdmin).Post("/", rt.assetHandler.Create)
			r.With(rt.authMiddleware.RequireAdmin).Put("/{id}", rt.assetHandler.Update)
			r.With(rt.authMiddleware.RequireAdmin).Delete("/{id}", rt.assetHandler.Delete)
		})

		// Tickets
		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", rt.ticketHandler.List)
			r.Get("/{id}", rt.ticketHandler.GetByID)
			r.Get("/{id}/history", rt.ticketHandler.History)
			r.Get("/{id}/attachments", rt.attachmentHandler.ListByTicket)

			r.Group(func(r chi.Router) {
				r.Use(requireStaff)
				r.Post("/", rt.ticketHandler.Create)
				r.Put("/{id}", rt.ticketHandler.Update)
				r.Delete("/{id}", rt.ticketHandler.Delete)
				r.Patch("/{id}/status", rt.ticketHandler.UpdateStatus)
				r.Post("/{id}/assign", rt.ticketHandler.Assign)
				r.Post("/{id}/attachments", rt.attachmentHandler.UploadToTicket)
			})
		})

		// Offers
		r.Route("/offers", func(r chi.Router) {
			r.Get("/", rt.offerHandler.List)
			r.Get("/{id}", rt.offerHandler.GetByID)
			r.Get("/{id}/remarks", rt.offerHandler.Remarks)
			r.Get("/{id}/assets", rt.offerHandler.ListAssets)
			r.Get("/{id}/attachments", rt.attachmentHandler.ListByOffer)

			r.Group(func(r chi.Router) {
				r.Use(requireStaff)
				r.Post("/", rt.offerHandler.Create)
				r.Put("/{id}", rt.offerHandler.Update)
				r.Delete("/{id}", rt.offerHandler.Delete)
				r.Patch("/{id}/stage", rt.offerHandler.UpdateStage)
				r.Post("/{id}/remarks", rt.offerHandler.AddRemark)
				r.Post("/{id}/assets", rt.offerHandler.AddAsset)
				r.Delete("/{id}/assets/{linkId}", rt.offerHandler.RemoveAsset)
				r.Post("/{id}/attachments", rt.attachmentHandler.UploadToOffer)
			})
		})

		// Service zones
		r.Route("/service-zones", func(r chi.Router) {
			r.Get("/", rt.zoneHandler.List)
			r.Get("/{id}", rt.zoneHandler.GetByID)
			r.Get("/{id}/assignments", rt.zoneHandler.ListAssignments)

			r.Group(func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireAdmin)
				r.Post("/", rt.zoneHandler.Create)
				r.Put("/{id}", rt.zoneHandler.Update)
				r.Delete("/{id}", rt.zoneHandler.Delete)
				r.Post("/{id}/assignments", rt.zoneHandler.AssignUser)
				r.Delete("/{id}/assignments/{userId}", rt.zoneHandler.UnassignUser)
			})
		})

		// Users (ADMIN only)
		r.Route("/users", func(r chi.Router) {
			r.Use(rt.authMiddleware.RequireAdmin)
			r.Get("/", rt.userHandler.List)
			r.Post("/", rt.userHandler.Create)
			r.Get("/{id}", rt.userHandler.GetByID)
			r.Put("/{id}", rt.userHandler.Update)
			r.Delete("/{id}", rt.userHandler.Delete)
		})

		// Dashboard
		r.Get("/dashboard/metrics", rt.dashboardHandler.GetMetrics)

		// Reports
		r.With(rt.authMiddleware.RequireInternal).Get("/reports/tickets/export", rt.reportHandler.ExportTickets)
		r.With(rt.authMiddleware.RequireInternal).Get("/reports/offers/export", rt.reportHandler.ExportOffers)

		// Imports (ADMIN only)
		r.With(rt.authMiddleware.RequireAdmin).Post("/imports/customers/validate", rt.importHandler.Validate)
		r.With(rt.authMiddleware.RequireAdmin).Post("/imports/customers", rt.importHandler.Import)

		// Attachments
		r.Get("/attachments/{id}/download", rt.attachmentHandler.Download)
		r.With(rt.authMiddleware.RequireInternal).Delete("/attachments/{id}", rt.attachmentHandler.Delete)
	})

	return r
}
