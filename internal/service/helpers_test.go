package service_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/auth"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/repository"
	"github.com/kardexcare/service-api/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// adminContext returns a context authenticated as an unrestricted admin
func adminContext() context.Context {
	return contextForRole(domain.RoleAdmin)
}

func contextForRole(role domain.UserRole) context.Context {
	userCtx := &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Test User",
		Email:       "test@example.com",
		Role:        role,
	}
	return auth.WithUserContext(context.Background(), userCtx)
}

// zoneScopedContext returns a context for a zone-scoped user covering the
// given zones
func zoneScopedContext(role domain.UserRole, zoneIDs ...uuid.UUID) context.Context {
	userCtx := &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Zone User",
		Email:       "zone@example.com",
		Role:        role,
		ZoneIDs:     zoneIDs,
	}
	return auth.WithUserContext(context.Background(), userCtx)
}

// customerContext returns a context for a customer-scoped user
func customerContext(role domain.UserRole, customerID uuid.UUID) context.Context {
	userCtx := &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Customer User",
		Email:       "customer@example.com",
		Role:        role,
		CustomerID:  &customerID,
	}
	return auth.WithUserContext(context.Background(), userCtx)
}

func newZoneService(db *gorm.DB) *service.ZoneService {
	return service.NewZoneService(
		repository.NewZoneRepository(db),
		repository.NewUserRepository(db),
		zap.NewNop(),
	)
}

func newReferenceService(db *gorm.DB) *service.ReferenceService {
	return service.NewReferenceService(
		repository.NewNumberSequenceRepository(db),
		repository.NewZoneRepository(db),
		zap.NewNop(),
	)
}

func newTicketService(db *gorm.DB) *service.TicketService {
	return service.NewTicketService(
		repository.NewTicketRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewUserRepository(db),
		newReferenceService(db),
		zap.NewNop(),
	)
}

func newOfferService(db *gorm.DB) *service.OfferService {
	return service.NewOfferService(
		repository.NewOfferRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewAssetRepository(db),
		repository.NewUserRepository(db),
		newReferenceService(db),
		zap.NewNop(),
	)
}

func newQualityService(db *gorm.DB) *service.QualityService {
	return service.NewQualityService(repository.NewOfferRepository(db), zap.NewNop())
}

func newImportService(db *gorm.DB) *service.ImportService {
	return service.NewImportService(
		repository.NewCustomerRepository(db),
		repository.NewAssetRepository(db),
		repository.NewZoneRepository(db),
		newZoneService(db),
		zap.NewNop(),
	)
}

func newCustomerService(db *gorm.DB) *service.CustomerService {
	return service.NewCustomerService(
		repository.NewCustomerRepository(db),
		repository.NewZoneRepository(db),
		zap.NewNop(),
	)
}

func newContactService(db *gorm.DB) *service.ContactService {
	return service.NewContactService(
		repository.NewContactRepository(db),
		repository.NewCustomerRepository(db),
		zap.NewNop(),
	)
}

func newUserService(db *gorm.DB) *service.UserService {
	return service.NewUserService(repository.NewUserRepository(db), zap.NewNop())
}
