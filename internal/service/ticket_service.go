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

type TicketService struct {
	ticketRepo   *repository.TicketRepository
	customerRepo *repository.CustomerRepository
	userRepo     *repository.UserRepository
	references   *ReferenceService
	logger       *zap.Logger
}

func NewTicketService(
	ticketRepo *repository.TicketRepository,
	customerRepo *repository.CustomerRepository,
	userRepo *repository.UserRepository,
	references *ReferenceService,
	logger *zap.Logger,
) *TicketService {
	return &TicketService{
		ticketRepo:   ticketRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		references:   references,
		logger:       logger,
	}
}

// Create opens a ticket for a customer. The ticket inherits the customer's
// zone and gets a generated reference.
func (s *TicketService) Create(ctx context.Context, req *domain.CreateTicketRequest) (*domain.TicketDTO, error) {
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

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidStatus, priority)
	}

	reference, err := s.references.NextTicketReference(ctx, customer.ServiceZoneID)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Reference:   reference,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TicketStatusOpen,
		Priority:    priority,
		CustomerID:  customer.ID,
		ContactID:   req.ContactID,
		AssetID:     req.AssetID,
		ZoneID:      customer.ServiceZoneID,
		CreatedByID: userCtx.UserID,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	// Seed the history with the opening status
	history := &domain.TicketStatusHistory{
		TicketID:      ticket.ID,
		FromStatus:    nil,
		ToStatus:      domain.TicketStatusOpen,
		ChangedByID:   userCtx.UserID,
		ChangedByName: userCtx.DisplayName,
	}
	if err := s.ticketRepo.AddHistory(ctx, history); err != nil {
		s.logger.Warn("failed to record opening status", zap.Error(err))
	}

	s.logger.Info("ticket created",
		zap.String("ticketID", ticket.ID.String()),
		zap.String("reference", ticket.Reference),
		zap.String("customerID", customer.ID.String()))

	ticket.Customer = customer
	dto := mapper.ToTicketDTO(ticket)
	return &dto, nil
}

func (s *TicketService) GetByID(ctx context.Context, id uuid.UUID) (*domain.TicketDTO, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	dto := mapper.ToTicketDTO(ticket)
	return &dto, nil
}

func (s *TicketService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateTicketRequest) (*domain.TicketDTO, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	ticket.Title = req.Title
	ticket.Description = req.Description
	ticket.ContactID = req.ContactID
	ticket.AssetID = req.AssetID
	if req.Priority != "" {
		if !req.Priority.IsValid() {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidStatus, req.Priority)
		}
		ticket.Priority = req.Priority
	}

	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}

	dto := mapper.ToTicketDTO(ticket)
	return &dto, nil
}

func (s *TicketService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ticketRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get ticket: %w", err)
	}
	if err := s.ticketRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}
	return nil
}

func (s *TicketService) List(ctx context.Context, page, pageSize int, filters repository.TicketFilters) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > repository.MaxPageSize {
		pageSize = repository.MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	tickets, total, err := s.ticketRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	dtos := make([]domain.TicketDTO, len(tickets))
	for i := range tickets {
		dtos[i] = mapper.ToTicketDTO(&tickets[i])
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

// UpdateStatus overwrites the ticket status with any valid value and appends
// a history row. There is no transition table; CLOSED tickets can be set
// straight back to IN_PROGRESS if the caller says so.
func (s *TicketService) UpdateStatus(ctx context.Context, id uuid.UUID, req *domain.UpdateTicketStatusRequest) (*domain.TicketDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown ticket status %q", ErrInvalidStatus, req.Status)
	}

	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	previous := ticket.Status
	ticket.Status = req.Status

	history := &domain.TicketStatusHistory{
		TicketID:      ticket.ID,
		FromStatus:    &previous,
		ToStatus:      req.Status,
		ChangedByID:   userCtx.UserID,
		ChangedByName: userCtx.DisplayName,
		Note:          req.Note,
	}
	if err := s.ticketRepo.UpdateStatus(ctx, ticket, history); err != nil {
		return nil, fmt.Errorf("failed to update ticket status: %w", err)
	}

	s.logger.Info("ticket status updated",
		zap.String("ticketID", ticket.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(req.Status)),
		zap.String("changedBy", userCtx.UserID.String()))

	dto := mapper.ToTicketDTO(ticket)
	return &dto, nil
}

// Assign sets or clears the responsible user for a ticket
func (s *TicketService) Assign(ctx context.Context, id uuid.UUID, req *domain.AssignTicketRequest) (*domain.TicketDTO, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	if req.AssignedToID != nil {
		assignee, err := s.userRepo.GetByID(ctx, *req.AssignedToID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to get assignee: %w", err)
		}
		ticket.AssignedToID = &assignee.ID
		ticket.AssignedTo = assignee
	} else {
		ticket.AssignedToID = nil
		ticket.AssignedTo = nil
	}

	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to assign ticket: %w", err)
	}

	dto := mapper.ToTicketDTO(ticket)
	return &dto, nil
}

// History returns the status log for a ticket, newest first
func (s *TicketService) History(ctx context.Context, id uuid.UUID) ([]domain.TicketStatusHistoryDTO, error) {
	if _, err := s.ticketRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	entries, err := s.ticketRepo.History(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket history: %w", err)
	}

	dtos := make([]domain.TicketStatusHistoryDTO, len(entries))
	for i := range entries {
		dtos[i] = mapper.ToTicketStatusHistoryDTO(&entries[i])
	}
	return dtos, nil
}
