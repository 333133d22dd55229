package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kardexcare/service-api/internal/auth"
	"github.com/kardexcare/service-api/internal/config"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/http/handler"
	"github.com/kardexcare/service-api/internal/http/middleware"
	"github.com/kardexcare/service-api/internal/http/router"
	"github.com/kardexcare/service-api/internal/repository"
	"github.com/kardexcare/service-api/internal/service"
	"github.com/kardexcare/service-api/internal/storage"
	"github.com/kardexcare/service-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testAPI struct {
	handler   http.Handler
	db        *gorm.DB
	validator *auth.JWTValidator
}

// setupAPI wires the full middleware and route tree against an in-memory
// database, the way cmd/api does in production.
func setupAPI(t *testing.T) *testAPI {
	t.Helper()

	db := testutil.SetupTestDB(t)
	log := zap.NewNop()

	cfg := &config.Config{
		App:  config.AppConfig{Name: "kardexcare-test", Environment: "test"},
		Auth: config.AuthConfig{Secret: "router-test-secret", TokenTTL: 3600},
		Storage: config.StorageConfig{
			Mode:          "local",
			LocalBasePath: t.TempDir(),
		},
		RateLimit: config.RateLimitConfig{Enabled: false},
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	require.NoError(t, err)

	zoneRepo := repository.NewZoneRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	contactRepo := repository.NewContactRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	userRepo := repository.NewUserRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	sequenceRepo := repository.NewNumberSequenceRepository(db)

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

	rt := router.NewRouter(
		cfg,
		log,
		db,
		auth.NewMiddleware(cfg, userRepo, log),
		middleware.NewRateLimiter(&cfg.RateLimit, log),
		handler.NewAuthHandler(log),
		handler.NewCustomerHandler(customerService, contactService, assetService, log),
		handler.NewContactHandler(contactService, log),
		handler.NewAssetHandler(assetService, log),
		handler.NewTicketHandler(ticketService, log),
		handler.NewOfferHandler(offerService, log),
		handler.NewZoneHandler(zoneService, log),
		handler.NewUserHandler(userService, log),
		handler.NewDashboardHandler(dashboardService, log),
		handler.NewReportHandler(reportService, log),
		handler.NewImportHandler(importService, log),
		handler.NewAttachmentHandler(attachmentService, log),
	)

	return &testAPI{
		handler:   rt.Setup(),
		db:        db,
		validator: auth.NewJWTValidator(&cfg.Auth),
	}
}

func (api *testAPI) tokenFor(t *testing.T, user *domain.User) string {
	t.Helper()
	token, err := api.validator.IssueToken(user, nil)
	require.NoError(t, err)
	return token
}

func (api *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) domain.ErrorCode {
	t.Helper()
	var envelope domain.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.False(t, envelope.Success)
	return envelope.Code
}

func TestRoutesRequireAuthentication(t *testing.T) {
	api := setupAPI(t)

	t.Run("health is public", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no token yields 401", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/api/tickets", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, domain.CodeUnauthorized, errorCode(t, rec))
	})

	t.Run("invalid token yields 401", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/api/customers", "definitely.not.jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, domain.CodeUnauthorized, errorCode(t, rec))
	})

	t.Run("deactivated user's token yields 401", func(t *testing.T) {
		user := testutil.CreateTestUser(t, api.db, "Former Admin", domain.RoleAdmin)
		token := api.tokenFor(t, user)
		require.NoError(t, api.db.Model(user).Update("is_active", false).Error)

		rec := api.do(t, http.MethodGet, "/api/tickets", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, domain.CodeUnauthorized, errorCode(t, rec))
	})

	t.Run("active user's token passes", func(t *testing.T) {
		user := testutil.CreateTestUser(t, api.db, "Admin", domain.RoleAdmin)
		rec := api.do(t, http.MethodGet, "/api/tickets", api.tokenFor(t, user), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRoutesEnforceRoles(t *testing.T) {
	api := setupAPI(t)

	zone := testutil.CreateTestZone(t, api.db, "North Zone", "N")
	customer := testutil.CreateTestCustomer(t, api.db, zone.ID, "Acme Industries", "Delhi")

	admin := testutil.CreateTestUser(t, api.db, "Admin", domain.RoleAdmin)
	zoneUser := testutil.CreateTestUser(t, api.db, "Zone User", domain.RoleZoneUser)
	owner := testutil.CreateTestUser(t, api.db, "Owner", domain.RoleCustomerOwner)
	owner.CustomerID = &customer.ID
	require.NoError(t, api.db.Save(owner).Error)

	t.Run("customer management is admin-only", func(t *testing.T) {
		body := map[string]interface{}{"companyName": "Beta Corp", "zoneId": zone.ID}

		rec := api.do(t, http.MethodPost, "/api/customers", api.tokenFor(t, zoneUser), body)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, domain.CodeForbidden, errorCode(t, rec))

		rec = api.do(t, http.MethodPost, "/api/customers", api.tokenFor(t, admin), body)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("asset registration at the root collection is admin-only", func(t *testing.T) {
		body := map[string]interface{}{"customerId": customer.ID, "serialNumber": "SN-9001"}

		rec := api.do(t, http.MethodPost, "/api/assets", api.tokenFor(t, zoneUser), body)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = api.do(t, http.MethodPost, "/api/assets", api.tokenFor(t, admin), body)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("reports are staff-only", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/api/reports/tickets/export", api.tokenFor(t, owner), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, domain.CodeForbidden, errorCode(t, rec))
	})

	t.Run("customer delete is admin-only", func(t *testing.T) {
		rec := api.do(t, http.MethodDelete, fmt.Sprintf("/api/customers/%s", customer.ID), api.tokenFor(t, zoneUser), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
