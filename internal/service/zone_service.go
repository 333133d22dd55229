package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/mapper"
	"github.com/kardexcare/service-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// knownShortForms maps well-known zone names to their established codes.
// Unknown names fall back to the first letter of the name.
var knownShortForms = map[string]string{
	"North Zone":   "N",
	"South Zone":   "S",
	"East Zone":    "E",
	"West Zone":    "W",
	"Central Zone": "C",
	"North East":   "NE",
	"North West":   "NW",
	"South East":   "SE",
	"South West":   "SW",
}

type ZoneService struct {
	zoneRepo *repository.ZoneRepository
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewZoneService(
	zoneRepo *repository.ZoneRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *ZoneService {
	return &ZoneService{
		zoneRepo: zoneRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// DeriveShortForm produces a shortForm for a zone name: the known mapping
// when the name matches, otherwise the first letter uppercased.
func DeriveShortForm(name string) string {
	name = strings.TrimSpace(name)
	if sf, ok := knownShortForms[name]; ok {
		return sf
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return strings.ToUpper(string(r))
		}
	}
	return ""
}

func (s *ZoneService) Create(ctx context.Context, req *domain.CreateServiceZoneRequest) (*domain.ServiceZoneDTO, error) {
	shortForm := strings.TrimSpace(req.ShortForm)
	if shortForm == "" {
		shortForm = DeriveShortForm(req.Name)
	}
	if shortForm == "" {
		return nil, fmt.Errorf("%w: cannot derive short form from name %q", ErrInvalidInput, req.Name)
	}

	if _, err := s.zoneRepo.GetByName(ctx, req.Name); err == nil {
		return nil, fmt.Errorf("%w: zone name %q already exists", ErrConflict, req.Name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check zone name: %w", err)
	}
	if _, err := s.zoneRepo.GetByShortForm(ctx, shortForm); err == nil {
		return nil, fmt.Errorf("%w: short form %q already in use", ErrConflict, shortForm)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check short form: %w", err)
	}

	zone := &domain.ServiceZone{
		Name:      req.Name,
		ShortForm: shortForm,
		IsActive:  true,
	}
	if err := s.zoneRepo.Create(ctx, zone); err != nil {
		return nil, fmt.Errorf("failed to create zone: %w", err)
	}

	s.logger.Info("zone created",
		zap.String("zoneID", zone.ID.String()),
		zap.String("name", zone.Name),
		zap.String("shortForm", zone.ShortForm))

	dto := mapper.ToServiceZoneDTO(zone, 0, 0)
	return &dto, nil
}

// EnsureZone returns the zone with the given name, creating it with a
// derived shortForm when it does not exist. Used by the customer import.
func (s *ZoneService) EnsureZone(ctx context.Context, name string) (*domain.ServiceZone, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, fmt.Errorf("%w: zone name is empty", ErrInvalidInput)
	}

	zone, err := s.zoneRepo.GetByName(ctx, name)
	if err == nil {
		return zone, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up zone: %w", err)
	}

	shortForm := DeriveShortForm(name)
	// On collision with an existing shortForm, extend with further
	// letters of the name until unique.
	candidate := shortForm
	letters := []rune(strings.ToUpper(strings.ReplaceAll(name, " ", "")))
	for i := len(candidate); ; i++ {
		_, err := s.zoneRepo.GetByShortForm(ctx, candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to check short form: %w", err)
		}
		if i >= len(letters) {
			return nil, false, fmt.Errorf("%w: cannot derive unique short form for %q", ErrConflict, name)
		}
		candidate = string(letters[:i+1])
	}

	zone = &domain.ServiceZone{
		Name:      name,
		ShortForm: candidate,
		IsActive:  true,
	}
	if err := s.zoneRepo.Create(ctx, zone); err != nil {
		return nil, false, fmt.Errorf("failed to create zone: %w", err)
	}

	s.logger.Info("zone auto-created during import",
		zap.String("name", name),
		zap.String("shortForm", candidate))
	return zone, true, nil
}

func (s *ZoneService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceZoneDTO, error) {
	zone, err := s.zoneRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}

	customerCount, err := s.zoneRepo.CustomerCount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count zone customers: %w", err)
	}
	assignments, err := s.zoneRepo.ListAssignments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list zone assignments: %w", err)
	}

	dto := mapper.ToServiceZoneDTO(zone, int(customerCount), len(assignments))
	return &dto, nil
}

func (s *ZoneService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateServiceZoneRequest) (*domain.ServiceZoneDTO, error) {
	zone, err := s.zoneRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}

	zone.Name = req.Name
	if sf := strings.TrimSpace(req.ShortForm); sf != "" {
		if existing, err := s.zoneRepo.GetByShortForm(ctx, sf); err == nil && existing.ID != zone.ID {
			return nil, fmt.Errorf("%w: short form %q already in use", ErrConflict, sf)
		}
		zone.ShortForm = sf
	}
	if req.IsActive != nil {
		zone.IsActive = *req.IsActive
	}

	if err := s.zoneRepo.Update(ctx, zone); err != nil {
		return nil, fmt.Errorf("failed to update zone: %w", err)
	}

	dto := mapper.ToServiceZoneDTO(zone, 0, 0)
	return &dto, nil
}

// Delete removes a zone. Zones that still own customers cannot be deleted.
func (s *ZoneService) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.zoneRepo.CustomerCount(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count zone customers: %w", err)
	}
	if count > 0 {
		return ErrZoneHasCustomers
	}
	if err := s.zoneRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete zone: %w", err)
	}
	return nil
}

func (s *ZoneService) List(ctx context.Context) ([]domain.ServiceZoneDTO, error) {
	zones, err := s.zoneRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}

	dtos := make([]domain.ServiceZoneDTO, len(zones))
	for i := range zones {
		customerCount, err := s.zoneRepo.CustomerCount(ctx, zones[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count zone customers: %w", err)
		}
		dtos[i] = mapper.ToServiceZoneDTO(&zones[i], int(customerCount), 0)
	}
	return dtos, nil
}

// AssignUser links a service person or zone user to a zone
func (s *ZoneService) AssignUser(ctx context.Context, req *domain.AssignZoneRequest) (*domain.ZoneAssignmentDTO, error) {
	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	zone, err := s.zoneRepo.GetByID(ctx, req.ZoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}

	if _, err := s.zoneRepo.GetAssignment(ctx, req.UserID, req.ZoneID); err == nil {
		return nil, ErrAlreadyAssigned
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}

	link := &domain.ServicePersonZone{
		UserID:        req.UserID,
		ServiceZoneID: req.ZoneID,
	}
	if err := s.zoneRepo.AssignUser(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to assign user to zone: %w", err)
	}

	s.logger.Info("user assigned to zone",
		zap.String("userID", user.ID.String()),
		zap.String("zoneID", zone.ID.String()))

	link.User = user
	link.ServiceZone = zone
	dto := mapper.ToZoneAssignmentDTO(link)
	return &dto, nil
}

// UnassignUser removes a user's link to a zone
func (s *ZoneService) UnassignUser(ctx context.Context, userID, zoneID uuid.UUID) error {
	if _, err := s.zoneRepo.GetAssignment(ctx, userID, zoneID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to check assignment: %w", err)
	}
	if err := s.zoneRepo.UnassignUser(ctx, userID, zoneID); err != nil {
		return fmt.Errorf("failed to unassign user from zone: %w", err)
	}
	return nil
}

// ListAssignments returns the people assigned to a zone
func (s *ZoneService) ListAssignments(ctx context.Context, zoneID uuid.UUID) ([]domain.ZoneAssignmentDTO, error) {
	if _, err := s.zoneRepo.GetByID(ctx, zoneID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}

	links, err := s.zoneRepo.ListAssignments(ctx, zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	dtos := make([]domain.ZoneAssignmentDTO, len(links))
	for i := range links {
		dtos[i] = mapper.ToZoneAssignmentDTO(&links[i])
	}
	return dtos, nil
}
