package domain

import (
	"github.com/google/uuid"
)

// DTOs for API responses

type ServiceZoneDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ShortForm     string    `json:"shortForm"`
	IsActive      bool      `json:"isActive"`
	CustomerCount int       `json:"customerCount,omitempty"`
	PersonCount   int       `json:"personCount,omitempty"`
	CreatedAt     string    `json:"createdAt"` // ISO 8601
	UpdatedAt     string    `json:"updatedAt"` // ISO 8601
}

type ZoneAssignmentDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	UserEmail string    `json:"userEmail,omitempty"`
	ZoneID    uuid.UUID `json:"zoneId"`
	ZoneName  string    `json:"zoneName,omitempty"`
	CreatedAt string    `json:"createdAt"`
}

type CustomerDTO struct {
	ID           uuid.UUID      `json:"id"`
	CompanyName  string         `json:"companyName"`
	Place        string         `json:"place,omitempty"`
	Department   string         `json:"department,omitempty"`
	Status       CustomerStatus `json:"status"`
	ZoneID       uuid.UUID      `json:"zoneId"`
	ZoneName     string         `json:"zoneName,omitempty"`
	ContactCount int            `json:"contactCount,omitempty"`
	AssetCount   int            `json:"assetCount,omitempty"`
	CreatedAt    string         `json:"createdAt"` // ISO 8601
	UpdatedAt    string         `json:"updatedAt"` // ISO 8601
}

// CustomerWithDetailsDTO includes customer data with related entities
type CustomerWithDetailsDTO struct {
	CustomerDTO
	Contacts []ContactDTO `json:"contacts,omitempty"`
	Assets   []AssetDTO   `json:"assets,omitempty"`
}

type ContactDTO struct {
	ID           uuid.UUID   `json:"id"`
	CustomerID   uuid.UUID   `json:"customerId"`
	CustomerName string      `json:"customerName,omitempty"`
	Name         string      `json:"name"`
	Phone        string      `json:"phone,omitempty"`
	Email        string      `json:"email,omitempty"`
	Role         ContactRole `json:"role"`
	CreatedAt    string      `json:"createdAt"`
	UpdatedAt    string      `json:"updatedAt"`
}

type AssetDTO struct {
	ID           uuid.UUID `json:"id"`
	CustomerID   uuid.UUID `json:"customerId"`
	CustomerName string    `json:"customerName,omitempty"`
	SerialNumber string    `json:"serialNumber"`
	Model        string    `json:"model,omitempty"`
	MachineType  string    `json:"machineType,omitempty"`
	Location     string    `json:"location,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

type TicketDTO struct {
	ID             uuid.UUID      `json:"id"`
	Reference      string         `json:"reference"`
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	Status         TicketStatus   `json:"status"`
	Priority       TicketPriority `json:"priority"`
	CustomerID     uuid.UUID      `json:"customerId"`
	CustomerName   string         `json:"customerName,omitempty"`
	ContactID      *uuid.UUID     `json:"contactId,omitempty"`
	ContactName    string         `json:"contactName,omitempty"`
	AssetID        *uuid.UUID     `json:"assetId,omitempty"`
	AssetSerial    string         `json:"assetSerial,omitempty"`
	ZoneID         uuid.UUID      `json:"zoneId"`
	ZoneName       string         `json:"zoneName,omitempty"`
	AssignedToID   *uuid.UUID     `json:"assignedToId,omitempty"`
	AssignedToName string         `json:"assignedToName,omitempty"`
	CreatedByID    uuid.UUID      `json:"createdById"`
	CreatedAt      string         `json:"createdAt"` // ISO 8601
	UpdatedAt      string         `json:"updatedAt"` // ISO 8601
}

type TicketStatusHistoryDTO struct {
	ID            uuid.UUID     `json:"id"`
	TicketID      uuid.UUID     `json:"ticketId"`
	FromStatus    *TicketStatus `json:"fromStatus,omitempty"`
	ToStatus      TicketStatus  `json:"toStatus"`
	ChangedByID   uuid.UUID     `json:"changedById"`
	ChangedByName string        `json:"changedByName,omitempty"`
	Note          string        `json:"note,omitempty"`
	ChangedAt     string        `json:"changedAt"`
}

type OfferDTO struct {
	ID               uuid.UUID  `json:"id"`
	Reference        string     `json:"reference"`
	Title            string     `json:"title"`
	Stage            OfferStage `json:"stage"`
	OfferValue       float64    `json:"offerValue"`
	POValue          float64    `json:"poValue"`
	CustomerID       uuid.UUID  `json:"customerId"`
	CustomerName     string     `json:"customerName,omitempty"`
	ZoneID           uuid.UUID  `json:"zoneId"`
	ZoneName         string     `json:"zoneName,omitempty"`
	AssignedToID     *uuid.UUID `json:"assignedToId,omitempty"`
	AssignedToName   string     `json:"assignedToName,omitempty"`
	CreatedByID      uuid.UUID  `json:"createdById"`
	RegistrationDate string     `json:"registrationDate"` // YYYY-MM-DD
	OfferMonth       string     `json:"offerMonth,omitempty"`
	POExpectedMonth  string     `json:"poExpectedMonth,omitempty"`
	POReceivedMonth  string     `json:"poReceivedMonth,omitempty"`
	CreatedAt        string     `json:"createdAt"`
	UpdatedAt        string     `json:"updatedAt"`
}

// OfferWithDetailsDTO includes offer data with linked assets and remarks
type OfferWithDetailsDTO struct {
	OfferDTO
	Assets  []OfferAssetDTO  `json:"assets,omitempty"`
	Remarks []StageRemarkDTO `json:"remarks,omitempty"`
}

type OfferAssetDTO struct {
	ID          uuid.UUID `json:"id"`
	OfferID     uuid.UUID `json:"offerId"`
	AssetID     uuid.UUID `json:"assetId"`
	AssetSerial string    `json:"assetSerial,omitempty"`
	AssetModel  string    `json:"assetModel,omitempty"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description,omitempty"`
	CreatedAt   string    `json:"createdAt"`
}

type StageRemarkDTO struct {
	ID            uuid.UUID   `json:"id"`
	OfferID       uuid.UUID   `json:"offerId"`
	FromStage     *OfferStage `json:"fromStage,omitempty"`
	ToStage       OfferStage  `json:"toStage"`
	Remark        string      `json:"remark,omitempty"`
	CreatedByID   uuid.UUID   `json:"createdById"`
	CreatedByName string      `json:"createdByName,omitempty"`
	CreatedAt     string      `json:"createdAt"`
}

type UserDTO struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	Role        UserRole    `json:"role"`
	CustomerID  *uuid.UUID  `json:"customerId,omitempty"`
	IsActive    bool        `json:"isActive"`
	Zones       []uuid.UUID `json:"zones,omitempty"`
	LastLoginAt string      `json:"lastLoginAt,omitempty"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
}

type AttachmentDTO struct {
	ID          uuid.UUID      `json:"id"`
	Filename    string         `json:"filename"`
	ContentType string         `json:"contentType"`
	Size        int64          `json:"size"`
	Kind        AttachmentKind `json:"kind"`
	TicketID    *uuid.UUID     `json:"ticketId,omitempty"`
	OfferID     *uuid.UUID     `json:"offerId,omitempty"`
	CreatedAt   string         `json:"createdAt"`
}

// Dashboard DTOs

type ZoneTicketStats struct {
	ZoneID      uuid.UUID `json:"zoneId"`
	ZoneName    string    `json:"zoneName"`
	OpenCount   int64     `json:"openCount"`
	ClosedCount int64     `json:"closedCount"`
	TotalCount  int64     `json:"totalCount"`
}

type StageFunnelData struct {
	Stage      OfferStage `json:"stage"`
	Count      int64      `json:"count"`
	TotalValue float64    `json:"totalValue"`
}

// DashboardMetrics contains the aggregate counts shown on the landing page.
// Counts respect the caller's zone/customer scope.
type DashboardMetrics struct {
	TotalCustomers  int64             `json:"totalCustomers"`
	TotalAssets     int64             `json:"totalAssets"`
	OpenTickets     int64             `json:"openTickets"`
	ClosedTickets   int64             `json:"closedTickets"`
	ActiveOffers    int64             `json:"activeOffers"`
	WonOffers       int64             `json:"wonOffers"`
	WonValue        float64           `json:"wonValue"`
	TicketsByZone   []ZoneTicketStats `json:"ticketsByZone"`
	OffersByStage   []StageFunnelData `json:"offersByStage"`
	RecentTickets   []TicketDTO       `json:"recentTickets"`
	RecentOffers    []OfferDTO        `json:"recentOffers"`
}

// Pagination response wrapper
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// Request DTOs

type CreateServiceZoneRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	ShortForm string `json:"shortForm,omitempty" validate:"max=10"`
}

type UpdateServiceZoneRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	ShortForm string `json:"shortForm,omitempty" validate:"max=10"`
	IsActive  *bool  `json:"isActive,omitempty"`
}

type AssignZoneRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
	ZoneID uuid.UUID `json:"zoneId" validate:"required"`
}

type CreateCustomerRequest struct {
	CompanyName string         `json:"companyName" validate:"required,max=200"`
	Place       string         `json:"place,omitempty" validate:"max=200"`
	Department  string         `json:"department,omitempty" validate:"max=200"`
	Status      CustomerStatus `json:"status,omitempty"`
	ZoneID      uuid.UUID      `json:"zoneId" validate:"required"`
}

type UpdateCustomerRequest struct {
	CompanyName string         `json:"companyName" validate:"required,max=200"`
	Place       string         `json:"place,omitempty" validate:"max=200"`
	Department  string         `json:"department,omitempty" validate:"max=200"`
	Status      CustomerStatus `json:"status,omitempty"`
	ZoneID      uuid.UUID      `json:"zoneId" validate:"required"`
}

type CreateContactRequest struct {
	Name  string      `json:"name" validate:"required,max=200"`
	Phone string      `json:"phone,omitempty" validate:"max=50"`
	Email string      `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Role  ContactRole `json:"role,omitempty"`
}

type UpdateContactRequest struct {
	Name  string      `json:"name" validate:"required,max=200"`
	Phone string      `json:"phone,omitempty" validate:"max=50"`
	Email string      `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Role  ContactRole `json:"role,omitempty"`
}

type CreateAssetRequest struct {
	SerialNumber string `json:"serialNumber" validate:"required,max=100"`
	Model        string `json:"model,omitempty" validate:"max=200"`
	MachineType  string `json:"machineType,omitempty" validate:"max=100"`
	Location     string `json:"location,omitempty" validate:"max=200"`
	Status       string `json:"status,omitempty" validate:"max=50"`
}

// RegisterAssetRequest creates an asset through the root collection, naming
// the owning customer in the body instead of the URL.
type RegisterAssetRequest struct {
	CustomerID uuid.UUID `json:"customerId" validate:"required"`
	CreateAssetRequest
}

type UpdateAssetRequest struct {
	SerialNumber string `json:"serialNumber" validate:"required,max=100"`
	Model        string `json:"model,omitempty" validate:"max=200"`
	MachineType  string `json:"machineType,omitempty" validate:"max=100"`
	Location     string `json:"location,omitempty" validate:"max=200"`
	Status       string `json:"status,omitempty" validate:"max=50"`
}

type CreateTicketRequest struct {
	Title       string         `json:"title" validate:"required,max=200"`
	Description string         `json:"description,omitempty"`
	Priority    TicketPriority `json:"priority,omitempty"`
	CustomerID  uuid.UUID      `json:"customerId" validate:"required"`
	ContactID   *uuid.UUID     `json:"contactId,omitempty"`
	AssetID     *uuid.UUID     `json:"assetId,omitempty"`
}

type UpdateTicketRequest struct {
	Title       string         `json:"title" validate:"required,max=200"`
	Description string         `json:"description,omitempty"`
	Priority    TicketPriority `json:"priority,omitempty"`
	ContactID   *uuid.UUID     `json:"contactId,omitempty"`
	AssetID     *uuid.UUID     `json:"assetId,omitempty"`
}

// UpdateTicketStatusRequest overwrites the ticket status. Any valid status
// value is accepted regardless of the current one.
type UpdateTicketStatusRequest struct {
	Status TicketStatus `json:"status" validate:"required"`
	Note   string       `json:"note,omitempty" validate:"max=2000"`
}

type AssignTicketRequest struct {
	AssignedToID *uuid.UUID `json:"assignedToId"` // nullable to unassign
}

type CreateOfferRequest struct {
	Title            string     `json:"title" validate:"required,max=200"`
	OfferValue       float64    `json:"offerValue,omitempty" validate:"gte=0"`
	CustomerID       uuid.UUID  `json:"customerId" validate:"required"`
	AssignedToID     *uuid.UUID `json:"assignedToId,omitempty"`
	RegistrationDate string     `json:"registrationDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	OfferMonth       string     `json:"offerMonth,omitempty" validate:"omitempty,len=7"`
	POExpectedMonth  string     `json:"poExpectedMonth,omitempty" validate:"omitempty,len=7"`
}

type UpdateOfferRequest struct {
	Title           string     `json:"title" validate:"required,max=200"`
	OfferValue      float64    `json:"offerValue,omitempty" validate:"gte=0"`
	POValue         float64    `json:"poValue,omitempty" validate:"gte=0"`
	AssignedToID    *uuid.UUID `json:"assignedToId,omitempty"`
	OfferMonth      string     `json:"offerMonth,omitempty" validate:"omitempty,len=7"`
	POExpectedMonth string     `json:"poExpectedMonth,omitempty" validate:"omitempty,len=7"`
	POReceivedMonth string     `json:"poReceivedMonth,omitempty" validate:"omitempty,len=7"`
}

// UpdateOfferStageRequest overwrites the offer stage. Like ticket statuses,
// no transition check is applied.
type UpdateOfferStageRequest struct {
	Stage  OfferStage `json:"stage" validate:"required"`
	Remark string     `json:"remark,omitempty" validate:"max=2000"`
}

type AddStageRemarkRequest struct {
	Remark string `json:"remark" validate:"required,max=2000"`
}

type AddOfferAssetRequest struct {
	AssetID     uuid.UUID `json:"assetId" validate:"required"`
	Quantity    int       `json:"quantity,omitempty" validate:"gte=1"`
	Description string    `json:"description,omitempty"`
}

type CreateUserRequest struct {
	Email      string     `json:"email" validate:"required,email,max=255"`
	Name       string     `json:"name" validate:"required,max=200"`
	Password   string     `json:"password" validate:"required,min=8,max=72"`
	Role       UserRole   `json:"role" validate:"required"`
	CustomerID *uuid.UUID `json:"customerId,omitempty"`
}

type UpdateUserRequest struct {
	Name       string     `json:"name" validate:"required,max=200"`
	Role       UserRole   `json:"role" validate:"required"`
	CustomerID *uuid.UUID `json:"customerId,omitempty"`
	IsActive   *bool      `json:"isActive,omitempty"`
}

// Import DTOs

// ImportRowError pinpoints a rejected spreadsheet row
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

// ImportValidationResult is returned by the dry-run validation endpoint
type ImportValidationResult struct {
	Valid      bool             `json:"valid"`
	RowCount   int              `json:"rowCount"`
	Errors     []ImportRowError `json:"errors,omitempty"`
	NewZones   []string         `json:"newZones,omitempty"`
	NewSerials []string         `json:"newSerials,omitempty"`
}

// ImportResult summarizes a committed import run
type ImportResult struct {
	CustomersCreated int `json:"customersCreated"`
	CustomersUpdated int `json:"customersUpdated"`
	AssetsCreated    int `json:"assetsCreated"`
	AssetsUpdated    int `json:"assetsUpdated"`
	ZonesCreated     int `json:"zonesCreated"`
	RowsSkipped      int `json:"rowsSkipped"`
}
