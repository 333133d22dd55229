package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/excel"
	"github.com/kardexcare/service-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImportService ingests customer/asset spreadsheets. A dry-run validation
// pass and a committing pass share the same parser.
type ImportService struct {
	customerRepo *repository.CustomerRepository
	assetRepo    *repository.AssetRepository
	zoneRepo     *repository.ZoneRepository
	zoneService  *ZoneService
	logger       *zap.Logger
}

func NewImportService(
	customerRepo *repository.CustomerRepository,
	assetRepo *repository.AssetRepository,
	zoneRepo *repository.ZoneRepository,
	zoneService *ZoneService,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		customerRepo: customerRepo,
		assetRepo:    assetRepo,
		zoneRepo:     zoneRepo,
		zoneService:  zoneService,
		logger:       logger,
	}
}

// Validate parses the workbook and reports problems without writing
// anything. New zones and serial numbers are listed so the caller can
// preview what a commit would create.
func (s *ImportService) Validate(ctx context.Context, r io.Reader) (*domain.ImportValidationResult, error) {
	sheet, err := excel.ParseImport(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	result := &domain.ImportValidationResult{
		RowCount: len(sheet.Rows),
	}
	for _, col := range sheet.MissingColumns {
		result.Errors = append(result.Errors, domain.ImportRowError{
			Row:     1,
			Column:  col,
			Message: fmt.Sprintf("required column %q is missing", col),
		})
	}
	if len(sheet.MissingColumns) > 0 {
		return result, nil
	}
	if len(sheet.Rows) == 0 {
		result.Errors = append(result.Errors, domain.ImportRowError{
			Row:     2,
			Message: "workbook has no data rows",
		})
		return result, nil
	}

	seenZones := map[string]bool{}
	seenSerials := map[string]bool{}
	for _, row := range sheet.Rows {
		if rowErr := validateRow(row); rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			continue
		}

		if !seenZones[row.Zone] {
			seenZones[row.Zone] = true
			if _, err := s.zoneRepo.GetByName(ctx, row.Zone); errors.Is(err, gorm.ErrRecordNotFound) {
				result.NewZones = append(result.NewZones, row.Zone)
			} else if err != nil {
				return nil, fmt.Errorf("failed to look up zone %q: %w", row.Zone, err)
			}
		}
		if !seenSerials[row.SerialNumber] {
			seenSerials[row.SerialNumber] = true
			if _, err := s.assetRepo.GetBySerialNumber(ctx, row.SerialNumber); errors.Is(err, gorm.ErrRecordNotFound) {
				result.NewSerials = append(result.NewSerials, row.SerialNumber)
			} else if err != nil {
				return nil, fmt.Errorf("failed to look up serial %q: %w", row.SerialNumber, err)
			}
		}
	}

	result.Valid = len(result.Errors) == 0
	return result, nil
}

func validateRow(row excel.ImportRow) *domain.ImportRowError {
	switch {
	case row.CustomerName == "":
		return &domain.ImportRowError{Row: row.Line, Column: "Name of the Customer", Message: "customer name is required"}
	case row.Zone == "":
		return &domain.ImportRowError{Row: row.Line, Column: "Zone", Message: "zone is required"}
	case row.SerialNumber == "":
		return &domain.ImportRowError{Row: row.Line, Column: "Serial Number", Message: "serial number is required"}
	}
	return nil
}

// Import parses the workbook and upserts its rows: zones are resolved by
// name (auto-created with a derived short form), customers by company name
// and place, assets by serial number. Invalid rows are skipped and counted.
func (s *ImportService) Import(ctx context.Context, r io.Reader) (*domain.ImportResult, error) {
	sheet, err := excel.ParseImport(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(sheet.MissingColumns) > 0 {
		return nil, fmt.Errorf("%w: missing columns %v", ErrInvalidInput, sheet.MissingColumns)
	}
	if len(sheet.Rows) == 0 {
		return nil, fmt.Errorf("%w: workbook has no data rows", ErrInvalidInput)
	}

	result := &domain.ImportResult{}
	for _, row := range sheet.Rows {
		if rowErr := validateRow(row); rowErr != nil {
			s.logger.Warn("skipping invalid import row",
				zap.Int("row", row.Line),
				zap.String("column", rowErr.Column),
				zap.String("reason", rowErr.Message))
			result.RowsSkipped++
			continue
		}

		zone, created, err := s.zoneService.EnsureZone(ctx, row.Zone)
		if err != nil {
			return result, fmt.Errorf("row %d: %w", row.Line, err)
		}
		if created {
			result.ZonesCreated++
		}

		customer, err := s.customerRepo.GetByNameAndPlace(ctx, row.CustomerName, row.Place)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			customer = &domain.Customer{
				CompanyName:   row.CustomerName,
				Place:         row.Place,
				Department:    row.Department,
				Status:        domain.CustomerStatusActive,
				ServiceZoneID: zone.ID,
			}
			if err := s.customerRepo.Create(ctx, customer); err != nil {
				return result, fmt.Errorf("row %d: failed to create customer: %w", row.Line, err)
			}
			result.CustomersCreated++
		case err != nil:
			return result, fmt.Errorf("row %d: failed to look up customer: %w", row.Line, err)
		default:
			changed := false
			if row.Department != "" && customer.Department != row.Department {
				customer.Department = row.Department
				changed = true
			}
			if customer.ServiceZoneID != zone.ID {
				customer.ServiceZoneID = zone.ID
				changed = true
			}
			if changed {
				if err := s.customerRepo.Update(ctx, customer); err != nil {
					return result, fmt.Errorf("row %d: failed to update customer: %w", row.Line, err)
				}
				result.CustomersUpdated++
			}
		}

		asset, err := s.assetRepo.GetBySerialNumber(ctx, row.SerialNumber)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			asset = &domain.Asset{
				CustomerID:   customer.ID,
				SerialNumber: row.SerialNumber,
				Status:       "ACTIVE",
			}
			if err := s.assetRepo.Create(ctx, asset); err != nil {
				return result, fmt.Errorf("row %d: failed to create asset: %w", row.Line, err)
			}
			result.AssetsCreated++
		case err != nil:
			return result, fmt.Errorf("row %d: failed to look up asset: %w", row.Line, err)
		default:
			if asset.CustomerID != customer.ID {
				asset.CustomerID = customer.ID
				if err := s.assetRepo.Update(ctx, asset); err != nil {
					return result, fmt.Errorf("row %d: failed to update asset: %w", row.Line, err)
				}
				result.AssetsUpdated++
			}
		}
	}

	s.logger.Info("customer import finished",
		zap.Int("customersCreated", result.CustomersCreated),
		zap.Int("customersUpdated", result.CustomersUpdated),
		zap.Int("assetsCreated", result.AssetsCreated),
		zap.Int("assetsUpdated", result.AssetsUpdated),
		zap.Int("zonesCreated", result.ZonesCreated),
		zap.Int("rowsSkipped", result.RowsSkipped))
	return result, nil
}
