package service

import (
	"context"
	"fmt"

	"github.com/kardexcare/service-api/internal/excel"
	"github.com/kardexcare/service-api/internal/repository"
	"go.uber.org/zap"
)

// ReportService produces .xlsx exports. Rows are filtered by the caller's
// scope because the repositories apply it.
type ReportService struct {
	ticketRepo *repository.TicketRepository
	offerRepo  *repository.OfferRepository
	logger     *zap.Logger
}

func NewReportService(
	ticketRepo *repository.TicketRepository,
	offerRepo *repository.OfferRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		ticketRepo: ticketRepo,
		offerRepo:  offerRepo,
		logger:     logger,
	}
}

var ticketExportHeader = []string{
	"Reference", "Title", "Status", "Priority", "Customer", "Zone",
	"Assigned To", "Created At",
}

// ExportTickets returns all visible tickets as an .xlsx workbook
func (s *ReportService) ExportTickets(ctx context.Context) ([]byte, error) {
	tickets, err := s.ticketRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets for export: %w", err)
	}

	rows := make([][]interface{}, len(tickets))
	for i := range tickets {
		t := &tickets[i]
		customerName := ""
		if t.Customer != nil {
			customerName = t.Customer.CompanyName
		}
		zoneName := ""
		if t.Zone != nil {
			zoneName = t.Zone.Name
		}
		assignedTo := ""
		if t.AssignedTo != nil {
			assignedTo = t.AssignedTo.Name
		}
		rows[i] = []interface{}{
			t.Reference, t.Title, string(t.Status), string(t.Priority),
			customerName, zoneName, assignedTo,
			t.CreatedAt.Format("2006-01-02 15:04"),
		}
	}

	s.logger.Info("ticket export generated", zap.Int("rows", len(rows)))
	return excel.WriteSheet("Tickets", ticketExportHeader, rows)
}

var offerExportHeader = []string{
	"Reference", "Title", "Stage", "Offer Value", "PO Value", "Customer",
	"Zone", "Assigned To", "Registration Date", "Offer Month",
	"PO Expected Month", "PO Received Month",
}

// ExportOffers returns all visible offers as an .xlsx workbook
func (s *ReportService) ExportOffers(ctx context.Context) ([]byte, error) {
	offers, err := s.offerRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load offers for export: %w", err)
	}

	rows := make([][]interface{}, len(offers))
	for i := range offers {
		o := &offers[i]
		customerName := ""
		if o.Customer != nil {
			customerName = o.Customer.CompanyName
		}
		zoneName := ""
		if o.Zone != nil {
			zoneName = o.Zone.Name
		}
		assignedTo := ""
		if o.AssignedTo != nil {
			assignedTo = o.AssignedTo.Name
		}
		rows[i] = []interface{}{
			o.Reference, o.Title, string(o.Stage), o.OfferValue, o.POValue,
			customerName, zoneName, assignedTo,
			o.RegistrationDate.Format("2006-01-02"),
			o.OfferMonth, o.POExpectedMonth, o.POReceivedMonth,
		}
	}

	s.logger.Info("offer export generated", zap.Int("rows", len(rows)))
	return excel.WriteSheet("Offers", offerExportHeader, rows)
}
