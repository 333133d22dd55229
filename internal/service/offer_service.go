package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/auth"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/mapper"
	"github.com/kardexcare/service-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OfferService struct {
	offerRepo    *repository.OfferRepository
	customerRepo *repository.CustomerRepository
	assetRepo    *repository.AssetRepository
	userRepo     *repository.UserRepository
	references   *ReferenceService
	logger       *zap.Logger
}

func NewOfferService(
	offerRepo *repository.OfferRepository,
	customerRepo *repository.CustomerRepository,
	assetRepo *repository.AssetRepository,
	userRepo *repository.UserRepository,
	references *ReferenceService,
	logger *zap.Logger,
) *OfferService {
	return &OfferService{
		offerRepo:    offerRepo,
		customerRepo: customerRepo,
		assetRepo:    assetRepo,
		userRepo:     userRepo,
		references:   references,
		logger:       logger,
	}
}

// Create registers an offer for a customer. The offer inherits the
// customer's zone, gets a generated reference and starts at INITIAL.
func (s *OfferService) Create(ctx context.Context, req *domain.CreateOfferRequest) (*domain.OfferDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	customer, err := s.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	registrationDate := time.Now().Truncate(24 * time.Hour)
	if req.RegistrationDate != "" {
		registrationDate, err = time.Parse("2006-01-02", req.RegistrationDate)
		if err != nil {
			return nil, fmt.Errorf("%w: registration date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}

	offerMonth := req.OfferMonth
	if offerMonth == "" {
		offerMonth = registrationDate.Format("2006-01")
	}

	if req.AssignedToID != nil {
		if _, err := s.userRepo.GetByID(ctx, *req.AssignedToID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to get assignee: %w", err)
		}
	}

	reference, err := s.references.NextOfferReference(ctx, customer.ServiceZoneID)
	if err != nil {
		return nil, err
	}

	offer := &domain.Offer{
		Reference:        reference,
		Title:            req.Title,
		Stage:            domain.OfferStageInitial,
		OfferValue:       req.OfferValue,
		CustomerID:       customer.ID,
		ZoneID:           customer.ServiceZoneID,
		AssignedToID:     req.AssignedToID,
		CreatedByID:      userCtx.UserID,
		RegistrationDate: registrationDate,
		OfferMonth:       offerMonth,
		POExpectedMonth:  req.POExpectedMonth,
	}
	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	// Seed the remark log with the opening stage
	remark := &domain.StageRemark{
		OfferID:       offer.ID,
		FromStage:     nil,
		ToStage:       domain.OfferStageInitial,
		CreatedByID:   userCtx.UserID,
		CreatedByName: userCtx.DisplayName,
	}
	if err := s.offerRepo.AddRemark(ctx, remark); err != nil {
		s.logger.Warn("failed to record opening stage", zap.Error(err))
	}

	s.logger.Info("offer created",
		zap.String("offerID", offer.ID.String()),
		zap.String("reference", offer.Reference),
		zap.String("customerID", customer.ID.String()))

	offer.Customer = customer
	dto := mapper.ToOfferDTO(offer)
	return &dto, nil
}

func (s *OfferService) GetByID(ctx context.Context, id uuid.UUID) (*domain.OfferWithDetailsDTO, error) {
	offer, err := s.offerRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	dto := mapper.ToOfferWithDetailsDTO(offer)
	return &dto, nil
}

func (s *OfferService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateOfferRequest) (*domain.OfferDTO, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	if req.AssignedToID != nil {
		if _, err := s.userRepo.GetByID(ctx, *req.AssignedToID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to get assignee: %w", err)
		}
	}

	offer.Title = req.Title
	offer.OfferValue = req.OfferValue
	offer.POValue = req.POValue
	offer.AssignedToID = req.AssignedToID
	if req.OfferMonth != "" {
		offer.OfferMonth = req.OfferMonth
	}
	if req.POExpectedMonth != "" {
		offer.POExpectedMonth = req.POExpectedMonth
	}
	if req.POReceivedMonth != "" {
		offer.POReceivedMonth = req.POReceivedMonth
	}

	if err := s.offerRepo.Update(ctx, offer); err != nil {
		return nil, fmt.Errorf("failed to update offer: %w", err)
	}

	dto := mapper.ToOfferDTO(offer)
	return &dto, nil
}

// Delete removes the offer together with its asset links and remark log.
// The repository deletes the dependents first, inside one transaction.
func (s *OfferService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.offerRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get offer: %w", err)
	}
	if err := s.offerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}
	return nil
}

func (s *OfferService) List(ctx context.Context, page, pageSize int, filters repository.OfferFilters) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > repository.MaxPageSize {
		pageSize = repository.MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	offers, total, err := s.offerRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	dtos := make([]domain.OfferDTO, len(offers))
	for i := range offers {
		dtos[i] = mapper.ToOfferDTO(&offers[i])
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

// UpdateStage overwrites the offer stage with any valid value and appends a
// StageRemark row. No transition check: a LOST offer can go back to
// NEGOTIATION by plain overwrite. Moving to WON (or the deprecated
// PO_RECEIVED alias) stamps poReceivedMonth when it is still empty.
func (s *OfferService) UpdateStage(ctx context.Context, id uuid.UUID, req *domain.UpdateOfferStageRequest) (*domain.OfferDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if !req.Stage.IsValid() {
		return nil, fmt.Errorf("%w: unknown offer stage %q", ErrInvalidStatus, req.Stage)
	}

	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	previous := offer.Stage
	offer.Stage = req.Stage

	if (req.Stage == domain.OfferStageWon || req.Stage == domain.OfferStagePOReceived) && offer.POReceivedMonth == "" {
		offer.POReceivedMonth = time.Now().Format("2006-01")
	}

	remark := &domain.StageRemark{
		OfferID:       offer.ID,
		FromStage:     &previous,
		ToStage:       req.Stage,
		Remark:        req.Remark,
		CreatedByID:   userCtx.UserID,
		CreatedByName: userCtx.DisplayName,
	}
	if err := s.offerRepo.UpdateStage(ctx, offer, remark); err != nil {
		return nil, fmt.Errorf("failed to update offer stage: %w", err)
	}

	s.logger.Info("offer stage updated",
		zap.String("offerID", offer.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(req.Stage)),
		zap.String("changedBy", userCtx.UserID.String()))

	dto := mapper.ToOfferDTO(offer)
	return &dto, nil
}

// AddRemark appends a remark without changing the stage
func (s *OfferService) AddRemark(ctx context.Context, id uuid.UUID, req *domain.AddStageRemarkRequest) (*domain.StageRemarkDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	stage := offer.Stage
	remark := &domain.StageRemark{
		OfferID:       offer.ID,
		FromStage:     &stage,
		ToStage:       stage,
		Remark:        req.Remark,
		CreatedByID:   userCtx.UserID,
		CreatedByName: userCtx.DisplayName,
	}
	if err := s.offerRepo.AddRemark(ctx, remark); err != nil {
		return nil, fmt.Errorf("failed to add remark: %w", err)
	}

	dto := mapper.ToStageRemarkDTO(remark)
	return &dto, nil
}

// Remarks returns the remark log for an offer, newest first
func (s *OfferService) Remarks(ctx context.Context, id uuid.UUID) ([]domain.StageRemarkDTO, error) {
	if _, err := s.offerRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	remarks, err := s.offerRepo.Remarks(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list remarks: %w", err)
	}

	dtos := make([]domain.StageRemarkDTO, len(remarks))
	for i := range remarks {
		dtos[i] = mapper.ToStageRemarkDTO(&remarks[i])
	}
	return dtos, nil
}

// AddAsset links a machine to the offer
func (s *OfferService) AddAsset(ctx context.Context, id uuid.UUID, req *domain.AddOfferAssetRequest) (*domain.OfferAssetDTO, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	asset, err := s.assetRepo.GetByID(ctx, req.AssetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	link := &domain.OfferAsset{
		OfferID:     offer.ID,
		AssetID:     asset.ID,
		Quantity:    quantity,
		Description: req.Description,
	}
	if err := s.offerRepo.AddAsset(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to link asset to offer: %w", err)
	}

	link.Asset = asset
	dto := mapper.ToOfferAssetDTO(link)
	return &dto, nil
}

// RemoveAsset unlinks a machine from the offer
func (s *OfferService) RemoveAsset(ctx context.Context, offerID, linkID uuid.UUID) error {
	if _, err := s.offerRepo.GetByID(ctx, offerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get offer: %w", err)
	}
	if err := s.offerRepo.RemoveAsset(ctx, offerID, linkID); err != nil {
		return fmt.Errorf("failed to unlink asset from offer: %w", err)
	}
	return nil
}
