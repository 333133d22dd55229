package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/auth"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/mapper"
	"github.com/kardexcare/service-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ContactService struct {
	contactRepo  *repository.ContactRepository
	customerRepo *repository.CustomerRepository
	logger       *zap.Logger
}

func NewContactService(
	contactRepo *repository.ContactRepository,
	customerRepo *repository.CustomerRepository,
	logger *zap.Logger,
) *ContactService {
	return &ContactService{
		contactRepo:  contactRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// canManage reports whether the caller may create or modify contacts of the
// given customer. Admins manage any customer; customer owners only their own.
func (s *ContactService) canManage(ctx context.Context, customerID uuid.UUID) bool {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return false
	}
	if userCtx.IsAdmin() {
		return true
	}
	if userCtx.Role == domain.RoleCustomerOwner {
		return userCtx.CanAccessCustomer(customerID)
	}
	return false
}

func (s *ContactService) Create(ctx context.Context, customerID uuid.UUID, req *domain.CreateContactRequest) (*domain.ContactDTO, error) {
	if !s.canManage(ctx, customerID) {
		return nil, ErrPermissionDenied
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	role := req.Role
	if role == "" {
		role = domain.ContactRoleContact
	}

	contact := &domain.Contact{
		CustomerID: customer.ID,
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Role:       role,
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	s.logger.Info("contact created",
		zap.String("contactID", contact.ID.String()),
		zap.String("customerID", customer.ID.String()))

	contact.Customer = customer
	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactDTO, error) {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

func (s *ContactService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateContactRequest) (*domain.ContactDTO, error) {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	if !s.canManage(ctx, contact.CustomerID) {
		return nil, ErrPermissionDenied
	}

	contact.Name = req.Name
	contact.Phone = req.Phone
	contact.Email = req.Email
	if req.Role != "" {
		contact.Role = req.Role
	}

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get contact: %w", err)
	}

	if !s.canManage(ctx, contact.CustomerID) {
		return ErrPermissionDenied
	}

	if err := s.contactRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}

// ListByCustomer returns the contacts of a customer, subject to scope
func (s *ContactService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.ContactDTO, error) {
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	contacts, err := s.contactRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	dtos := make([]domain.ContactDTO, len(contacts))
	for i := range contacts {
		dtos[i] = mapper.ToContactDTO(&contacts[i])
	}
	return dtos, nil
}
