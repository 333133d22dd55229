package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/mapper"
	"github.com/kardexcare/service-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CustomerService struct {
	customerRepo *repository.CustomerRepository
	zoneRepo     *repository.ZoneRepository
	logger       *zap.Logger
}

func NewCustomerService(
	customerRepo *repository.CustomerRepository,
	zoneRepo *repository.ZoneRepository,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		zoneRepo:     zoneRepo,
		logger:       logger,
	}
}

func (s *CustomerService) Create(ctx context.Context, req *domain.CreateCustomerRequest) (*domain.CustomerDTO, error) {
	zone, err := s.zoneRepo.GetByID(ctx, req.ZoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}
	if !repository.ScopeAllowsZone(ctx, zone.ID.String()) {
		return nil, ErrPermissionDenied
	}

	status := req.Status
	if status == "" {
		status = domain.CustomerStatusActive
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown customer status %q", ErrInvalidStatus, status)
	}

	customer := &domain.Customer{
		CompanyName:   req.CompanyName,
		Place:         req.Place,
		Department:    req.Department,
		Status:        status,
		ServiceZoneID: zone.ID,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("customer created",
		zap.String("customerID", customer.ID.String()),
		zap.String("companyName", customer.CompanyName),
		zap.String("zoneID", zone.ID.String()))

	customer.ServiceZone = zone
	dto := mapper.ToCustomerDTO(customer, 0, 0)
	return &dto, nil
}

func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CustomerWithDetailsDTO, error) {
	customer, err := s.customerRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	dto := mapper.ToCustomerWithDetailsDTO(customer)
	return &dto, nil
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateCustomerRequest) (*domain.CustomerDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	if req.ZoneID != customer.ServiceZoneID {
		if _, err := s.zoneRepo.GetByID(ctx, req.ZoneID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrZoneNotFound
			}
			return nil, fmt.Errorf("failed to get zone: %w", err)
		}
		// Moving a customer into a zone the caller does not cover would
		// put the record out of their own sight
		if !repository.ScopeAllowsZone(ctx, req.ZoneID.String()) {
			return nil, ErrPermissionDenied
		}
	}

	customer.CompanyName = req.CompanyName
	customer.Place = req.Place
	customer.Department = req.Department
	customer.ServiceZoneID = req.ZoneID
	if req.Status != "" {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown customer status %q", ErrInvalidStatus, req.Status)
		}
		customer.Status = req.Status
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	contacts, _ := s.customerRepo.GetContactsCount(ctx, id)
	assets, _ := s.customerRepo.GetAssetsCount(ctx, id)
	customer.ServiceZone = nil
	dto := mapper.ToCustomerDTO(customer, int(contacts), int(assets))
	return &dto, nil
}

func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customerRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get customer: %w", err)
	}
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

func (s *CustomerService) List(ctx context.Context, page, pageSize int, search string, zoneID *uuid.UUID) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > repository.MaxPageSize {
		pageSize = repository.MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	customers, total, err := s.customerRepo.List(ctx, page, pageSize, search, zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	dtos := make([]domain.CustomerDTO, len(customers))
	for i := range customers {
		dtos[i] = mapper.ToCustomerDTO(&customers[i], 0, 0)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
