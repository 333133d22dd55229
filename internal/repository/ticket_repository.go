package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/domain"
	"gorm.io/gorm"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *TicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	var ticket domain.Ticket
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Contact").
		Preload("Asset").
		Preload("Zone").
		Preload("AssignedTo").
		Where("id = ?", id)
	query = ApplyScope(ctx, query)
	if err := query.First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}

func (r *TicketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.TicketStatusHistory{}, "ticket_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Ticket{}, "id = ?", id).Error
	})
}

// TicketFilters narrows List results
type TicketFilters struct {
	Status       *domain.TicketStatus
	Priority     *domain.TicketPriority
	CustomerID   *uuid.UUID
	ZoneID       *uuid.UUID
	AssignedToID *uuid.UUID
	Search       string
}

func (r *TicketRepository) List(ctx context.Context, page, pageSize int, filters TicketFilters) ([]domain.Ticket, int64, error) {
	var tickets []domain.Ticket
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Ticket{}).
		Preload("Customer").
		Preload("Zone").
		Preload("AssignedTo")
	query = ApplyScope(ctx, query)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Priority != nil {
		query = query.Where("priority = ?", *filters.Priority)
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.ZoneID != nil {
		query = query.Where("zone_id = ?", *filters.ZoneID)
	}
	if filters.AssignedToID != nil {
		query = query.Where("assigned_to_id = ?", *filters.AssignedToID)
	}
	if filters.Search != "" {
		searchPattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(reference) LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order(ListOrder()).Find(&tickets).Error

	return tickets, total, err
}

// UpdateStatus overwrites the ticket status and appends a history row in one
// transaction. No transition table is consulted; the previous status is only
// recorded, never used to veto the change.
func (r *TicketRepository) UpdateStatus(ctx context.Context, ticket *domain.Ticket, history *domain.TicketStatusHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Ticket{}).
			Where("id = ?", ticket.ID).
			Update("status", ticket.Status).Error; err != nil {
			return err
		}
		return tx.Create(history).Error
	})
}

// AddHistory appends a history row without touching the ticket itself
func (r *TicketRepository) AddHistory(ctx context.Context, history *domain.TicketStatusHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// History returns the status change log for a ticket, newest first
func (r *TicketRepository) History(ctx context.Context, ticketID uuid.UUID) ([]domain.TicketStatusHistory, error) {
	var history []domain.TicketStatusHistory
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("changed_at DESC").
		Find(&history).Error
	return history, err
}

// CountByStatus returns ticket counts split into open and closed buckets
func (r *TicketRepository) CountByStatus(ctx context.Context) (open int64, closed int64, err error) {
	terminal := []domain.TicketStatus{domain.TicketStatusClosed, domain.TicketStatusCancelled}

	query := r.db.WithContext(ctx).Model(&domain.Ticket{})
	query = ApplyScope(ctx, query)
	if err = query.Where("status NOT IN ?", terminal).Count(&open).Error; err != nil {
		return
	}

	query = r.db.WithContext(ctx).Model(&domain.Ticket{})
	query = ApplyScope(ctx, query)
	err = query.Where("status IN ?", terminal).Count(&closed).Error
	return
}

// StatsByZone aggregates ticket counts per zone for the dashboard
func (r *TicketRepository) StatsByZone(ctx context.Context) ([]domain.ZoneTicketStats, error) {
	terminal := []domain.TicketStatus{domain.TicketStatusClosed, domain.TicketStatusCancelled}

	var rows []struct {
		ZoneID   uuid.UUID
		ZoneName string
		Open     int64
		Closed   int64
		Total    int64
	}

	query := r.db.WithContext(ctx).Model(&domain.Ticket{}).
		Select(`tickets.zone_id as zone_id,
			service_zones.name as zone_name,
			SUM(CASE WHEN tickets.status NOT IN ? THEN 1 ELSE 0 END) as open,
			SUM(CASE WHEN tickets.status IN ? THEN 1 ELSE 0 END) as closed,
			COUNT(*) as total`, terminal, terminal).
		Joins("JOIN service_zones ON service_zones.id = tickets.zone_id").
		Group("tickets.zone_id, service_zones.name")
	query = ApplyScope(ctx, query)

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := make([]domain.ZoneTicketStats, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, domain.ZoneTicketStats{
			ZoneID:      row.ZoneID,
			ZoneName:    row.ZoneName,
			OpenCount:   row.Open,
			ClosedCount: row.Closed,
			TotalCount:  row.Total,
		})
	}
	return stats, nil
}

// Recent returns the latest tickets for the dashboard
func (r *TicketRepository) Recent(ctx context.Context, limit int) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Zone").
		Order("created_at DESC").
		Limit(limit)
	query = ApplyScope(ctx, query)
	err := query.Find(&tickets).Error
	return tickets, err
}

// ListAll returns every visible ticket without pagination, for exports
func (r *TicketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Zone").
		Preload("AssignedTo").
		Order("created_at DESC")
	query = ApplyScope(ctx, query)
	err := query.Find(&tickets).Error
	return tickets, err
}
