package service

import (
	"context"
	"fmt"

	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/mapper"
	"github.com/kardexcare/service-api/internal/repository"
	"go.uber.org/zap"
)

const recentItemsLimit = 5

type DashboardService struct {
	customerRepo *repository.CustomerRepository
	assetRepo    *repository.AssetRepository
	ticketRepo   *repository.TicketRepository
	offerRepo    *repository.OfferRepository
	logger       *zap.Logger
}

func NewDashboardService(
	customerRepo *repository.CustomerRepository,
	assetRepo *repository.AssetRepository,
	ticketRepo *repository.TicketRepository,
	offerRepo *repository.OfferRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		customerRepo: customerRepo,
		assetRepo:    assetRepo,
		ticketRepo:   ticketRepo,
		offerRepo:    offerRepo,
		logger:       logger,
	}
}

// GetMetrics aggregates the landing-page counters. Every number respects
// the caller's zone/customer scope because the repositories apply it.
func (s *DashboardService) GetMetrics(ctx context.Context) (*domain.DashboardMetrics, error) {
	totalCustomers, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	totalAssets, err := s.assetRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count assets: %w", err)
	}

	openTickets, closedTickets, err := s.ticketRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	ticketsByZone, err := s.ticketRepo.StatsByZone(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tickets by zone: %w", err)
	}

	activeOffers, err := s.offerRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active offers: %w", err)
	}
	wonOffers, wonValue, err := s.offerRepo.WonStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate won offers: %w", err)
	}
	offersByStage, err := s.offerRepo.StageFunnel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate offer funnel: %w", err)
	}

	recentTickets, err := s.ticketRepo.Recent(ctx, recentItemsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent tickets: %w", err)
	}
	recentOffers, err := s.offerRepo.Recent(ctx, recentItemsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent offers: %w", err)
	}

	metrics := &domain.DashboardMetrics{
		TotalCustomers: totalCustomers,
		TotalAssets:    totalAssets,
		OpenTickets:    openTickets,
		ClosedTickets:  closedTickets,
		ActiveOffers:   activeOffers,
		WonOffers:      wonOffers,
		WonValue:       wonValue,
		TicketsByZone:  ticketsByZone,
		OffersByStage:  offersByStage,
	}
	for i := range recentTickets {
		metrics.RecentTickets = append(metrics.RecentTickets, mapper.ToTicketDTO(&recentTickets[i]))
	}
	for i := range recentOffers {
		metrics.RecentOffers = append(metrics.RecentOffers, mapper.ToOfferDTO(&recentOffers[i]))
	}

	return metrics, nil
}
