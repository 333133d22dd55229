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

type AssetService struct {
	assetRepo    *repository.AssetRepository
	customerRepo *repository.CustomerRepository
	logger       *zap.Logger
}

func NewAssetService(
	assetRepo *repository.AssetRepository,
	customerRepo *repository.CustomerRepository,
	logger *zap.Logger,
) *AssetService {
	return &AssetService{
		assetRepo:    assetRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

func (s *AssetService) Create(ctx context.Context, customerID uuid.UUID, req *domain.CreateAssetRequest) (*domain.AssetDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	if existing, err := s.assetRepo.GetBySerialNumber(ctx, req.SerialNumber); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: serial number %q already registered", ErrConflict, req.SerialNumber)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check serial number: %w", err)
	}

	status := req.Status
	if status == "" {
		status = "ACTIVE"
	}

	asset := &domain.Asset{
		CustomerID:   customer.ID,
		SerialNumber: req.SerialNumber,
		Model:        req.Model,
		MachineType:  req.MachineType,
		Location:     req.Location,
		Status:       status,
	}
	if err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	s.logger.Info("asset created",
		zap.String("assetID", asset.ID.String()),
		zap.String("serialNumber", asset.SerialNumber),
		zap.String("customerID", customer.ID.String()))

	asset.Customer = customer
	dto := mapper.ToAssetDTO(asset)
	return &dto, nil
}

func (s *AssetService) GetByID(ctx context.Context, id uuid.UUID) (*domain.AssetDTO, error) {
	asset, err := s.assetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	dto := mapper.ToAssetDTO(asset)
	return &dto, nil
}

func (s *AssetService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateAssetRequest) (*domain.AssetDTO, error) {
	asset, err := s.assetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	if req.SerialNumber != asset.SerialNumber {
		if existing, err := s.assetRepo.GetBySerialNumber(ctx, req.SerialNumber); err == nil && existing.ID != asset.ID {
			return nil, fmt.Errorf("%w: serial number %q already registered", ErrConflict, req.SerialNumber)
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check serial number: %w", err)
		}
	}

	asset.SerialNumber = req.SerialNumber
	asset.Model = req.Model
	asset.MachineType = req.MachineType
	asset.Location = req.Location
	if req.Status != "" {
		asset.Status = req.Status
	}

	if err := s.assetRepo.Update(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to update asset: %w", err)
	}

	dto := mapper.ToAssetDTO(asset)
	return &dto, nil
}

func (s *AssetService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.assetRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get asset: %w", err)
	}
	if err := s.assetRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}

func (s *AssetService) List(ctx context.Context, page, pageSize int, search string, customerID *uuid.UUID) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > repository.MaxPageSize {
		pageSize = repository.MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	assets, total, err := s.assetRepo.List(ctx, page, pageSize, search, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	dtos := make([]domain.AssetDTO, len(assets))
	for i := range assets {
		dtos[i] = mapper.ToAssetDTO(&assets[i])
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

// ListByCustomer returns all assets installed at a customer
func (s *AssetService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.AssetDTO, error) {
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	assets, err := s.assetRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	dtos := make([]domain.AssetDTO, len(assets))
	for i := range assets {
		dtos[i] = mapper.ToAssetDTO(&assets[i])
	}
	return dtos, nil
}
