package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns a UUID when none was provided
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// UserRole represents the role of a user in the system
type UserRole string

const (
	RoleAdmin           UserRole = "ADMIN"
	RoleZoneManager     UserRole = "ZONE_MANAGER"
	RoleZoneUser        UserRole = "ZONE_USER"
	RoleServicePerson   UserRole = "SERVICE_PERSON"
	RoleExternalUser    UserRole = "EXTERNAL_USER"
	RoleExpertHelpdesk  UserRole = "EXPERT_HELPDESK"
	RoleCustomerOwner   UserRole = "CUSTOMER_OWNER"
	RoleCustomerContact UserRole = "CUSTOMER_CONTACT"
)

// IsValid checks if the UserRole is a valid enum value
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleZoneManager, RoleZoneUser, RoleServicePerson,
		RoleExternalUser, RoleExpertHelpdesk, RoleCustomerOwner, RoleCustomerContact:
		return true
	}
	return false
}

// IsCustomerRole reports whether the role is scoped to a single customer
func (r UserRole) IsCustomerRole() bool {
	return r == RoleCustomerOwner || r == RoleCustomerContact
}

// IsZoneScoped reports whether the role's visibility is limited to assigned zones
func (r UserRole) IsZoneScoped() bool {
	return r == RoleZoneManager || r == RoleZoneUser
}

// User represents a user in the system
type User struct {
	BaseModel
	Email        string              `gorm:"type:varchar(255);not null;unique;index"`
	Name         string              `gorm:"type:varchar(200);not null"`
	PasswordHash string              `gorm:"type:varchar(255);not null;column:password_hash"`
	Role         UserRole            `gorm:"type:varchar(50);not null;index"`
	CustomerID   *uuid.UUID          `gorm:"type:uuid;column:customer_id;index"`
	Customer     *Customer           `gorm:"foreignKey:CustomerID"`
	IsActive     bool                `gorm:"not null;default:true;column:is_active"`
	LastLoginAt  *time.Time          `gorm:"column:last_login_at"`
	ZoneLinks    []ServicePersonZone `gorm:"foreignKey:UserID"`
}

// ServiceZone represents a geographic grouping of customers and service
// personnel. ShortForm feeds ticket/offer reference numbers and must stay
// unique once assigned.
type ServiceZone struct {
	BaseModel
	Name      string `gorm:"type:varchar(200);not null;unique;index"`
	ShortForm string `gorm:"type:varchar(10);unique;column:short_form"`
	IsActive  bool   `gorm:"not null;default:true;column:is_active"`
}

// ServicePersonZone links a service person or zone user to a zone they cover.
// Pairs are unique; rows are created and deleted administratively.
type ServicePersonZone struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_zone;column:user_id"`
	User          *User        `gorm:"foreignKey:UserID"`
	ServiceZoneID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_zone;column:service_zone_id"`
	ServiceZone   *ServiceZone `gorm:"foreignKey:ServiceZoneID"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (s *ServicePersonZone) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName matches the migration
func (ServicePersonZone) TableName() string {
	return "service_person_zones"
}

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "ACTIVE"
	CustomerStatusInactive  CustomerStatus = "INACTIVE"
	CustomerStatusSuspended CustomerStatus = "SUSPENDED"
)

// IsValid checks if the CustomerStatus is a valid enum value
func (cs CustomerStatus) IsValid() bool {
	switch cs {
	case CustomerStatusActive, CustomerStatusInactive, CustomerStatusSuspended:
		return true
	}
	return false
}

// Customer represents a customer organization served out of a zone
type Customer struct {
	BaseModel
	CompanyName   string         `gorm:"type:varchar(200);not null;index;column:company_name"`
	Place         string         `gorm:"type:varchar(200)"`
	Department    string         `gorm:"type:varchar(200)"`
	Status        CustomerStatus `gorm:"type:varchar(50);not null;default:'ACTIVE';index"`
	ServiceZoneID uuid.UUID      `gorm:"type:uuid;not null;index;column:service_zone_id"`
	ServiceZone   *ServiceZone   `gorm:"foreignKey:ServiceZoneID"`
	Contacts      []Contact      `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Assets        []Asset        `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// ContactRole represents the classification of a customer contact
type ContactRole string

const (
	ContactRoleAccountOwner ContactRole = "ACCOUNT_OWNER"
	ContactRoleContact      ContactRole = "CONTACT"
)

// Contact represents an individual person at a customer
type Contact struct {
	BaseModel
	CustomerID uuid.UUID   `gorm:"type:uuid;not null;index;column:customer_id"`
	Customer   *Customer   `gorm:"foreignKey:CustomerID"`
	Name       string      `gorm:"type:varchar(200);not null"`
	Phone      string      `gorm:"type:varchar(50)"`
	Email      string      `gorm:"type:varchar(255)"`
	Role       ContactRole `gorm:"type:varchar(50);not null;default:'CONTACT'"`
}

// Asset represents a tracked machine installed at a customer
type Asset struct {
	BaseModel
	CustomerID   uuid.UUID `gorm:"type:uuid;not null;index;column:customer_id"`
	Customer     *Customer `gorm:"foreignKey:CustomerID"`
	SerialNumber string    `gorm:"type:varchar(100);not null;unique;column:serial_number"`
	Model        string    `gorm:"type:varchar(200)"`
	MachineType  string    `gorm:"type:varchar(100);column:machine_type"`
	Location     string    `gorm:"type:varchar(200)"`
	Status       string    `gorm:"type:varchar(50);not null;default:'ACTIVE'"`
}

// TicketStatus represents the processing state of a service ticket.
// Values are persisted verbatim; the system does not enforce a transition
// table, any authorized caller may overwrite the status with any value.
type TicketStatus string

const (
	TicketStatusOpen                  TicketStatus = "OPEN"
	TicketStatusAssigned              TicketStatus = "ASSIGNED"
	TicketStatusInProgress            TicketStatus = "IN_PROGRESS"
	TicketStatusWaitingCustomer       TicketStatus = "WAITING_CUSTOMER"
	TicketStatusOnsiteVisitPlanned    TicketStatus = "ONSITE_VISIT_PLANNED"
	TicketStatusOnsiteVisitStarted    TicketStatus = "ONSITE_VISIT_STARTED"
	TicketStatusOnsiteVisitReached    TicketStatus = "ONSITE_VISIT_REACHED"
	TicketStatusOnsiteVisitInProgress TicketStatus = "ONSITE_VISIT_IN_PROGRESS"
	TicketStatusOnsiteVisitResolved   TicketStatus = "ONSITE_VISIT_RESOLVED"
	TicketStatusOnsiteVisitCompleted  TicketStatus = "ONSITE_VISIT_COMPLETED"
	TicketStatusPONeeded              TicketStatus = "PO_NEEDED"
	TicketStatusPOReceived            TicketStatus = "PO_RECEIVED"
	TicketStatusSparePartsNeeded      TicketStatus = "SPARE_PARTS_NEEDED"
	TicketStatusSparePartsBooked      TicketStatus = "SPARE_PARTS_BOOKED"
	TicketStatusSparePartsDelivered   TicketStatus = "SPARE_PARTS_DELIVERED"
	TicketStatusClosedPending         TicketStatus = "CLOSED_PENDING"
	TicketStatusClosed                TicketStatus = "CLOSED"
	TicketStatusCancelled             TicketStatus = "CANCELLED"
	TicketStatusReopened              TicketStatus = "REOPENED"
	TicketStatusOnHold                TicketStatus = "ON_HOLD"
	TicketStatusEscalated             TicketStatus = "ESCALATED"
)

// AllTicketStatuses lists every valid ticket status
var AllTicketStatuses = []TicketStatus{
	TicketStatusOpen, TicketStatusAssigned, TicketStatusInProgress,
	TicketStatusWaitingCustomer, TicketStatusOnsiteVisitPlanned,
	TicketStatusOnsiteVisitStarted, TicketStatusOnsiteVisitReached,
	TicketStatusOnsiteVisitInProgress, TicketStatusOnsiteVisitResolved,
	TicketStatusOnsiteVisitCompleted, TicketStatusPONeeded,
	TicketStatusPOReceived, TicketStatusSparePartsNeeded,
	TicketStatusSparePartsBooked, TicketStatusSparePartsDelivered,
	TicketStatusClosedPending, TicketStatusClosed, TicketStatusCancelled,
	TicketStatusReopened, TicketStatusOnHold, TicketStatusEscalated,
}

// IsValid checks if the TicketStatus is a valid enum value
func (ts TicketStatus) IsValid() bool {
	for _, s := range AllTicketStatuses {
		if s == ts {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status labels a finished ticket. Terminal
// statuses are labels only; tickets can still be reopened by overwriting.
func (ts TicketStatus) IsTerminal() bool {
	return ts == TicketStatusClosed || ts == TicketStatusCancelled
}

// TicketPriority represents how urgent a ticket is
type TicketPriority string

const (
	PriorityLow      TicketPriority = "LOW"
	PriorityMedium   TicketPriority = "MEDIUM"
	PriorityHigh     TicketPriority = "HIGH"
	PriorityCritical TicketPriority = "CRITICAL"
)

// IsValid checks if the TicketPriority is a valid enum value
func (p TicketPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Ticket represents a customer support/service request
type Ticket struct {
	BaseModel
	Reference    string                `gorm:"type:varchar(50);unique;index"`
	Title        string                `gorm:"type:varchar(200);not null"`
	Description  string                `gorm:"type:text"`
	Status       TicketStatus          `gorm:"type:varchar(50);not null;default:'OPEN';index"`
	Priority     TicketPriority        `gorm:"type:varchar(50);not null;default:'MEDIUM';index"`
	CustomerID   uuid.UUID             `gorm:"type:uuid;not null;index;column:customer_id"`
	Customer     *Customer             `gorm:"foreignKey:CustomerID"`
	ContactID    *uuid.UUID            `gorm:"type:uuid;column:contact_id"`
	Contact      *Contact              `gorm:"foreignKey:ContactID"`
	AssetID      *uuid.UUID            `gorm:"type:uuid;index;column:asset_id"`
	Asset        *Asset                `gorm:"foreignKey:AssetID"`
	ZoneID       uuid.UUID             `gorm:"type:uuid;not null;index;column:zone_id"`
	Zone         *ServiceZone          `gorm:"foreignKey:ZoneID"`
	AssignedToID *uuid.UUID            `gorm:"type:uuid;index;column:assigned_to_id"`
	AssignedTo   *User                 `gorm:"foreignKey:AssignedToID"`
	CreatedByID  uuid.UUID             `gorm:"type:uuid;column:created_by_id"`
	History      []TicketStatusHistory `gorm:"foreignKey:TicketID"`
}

// TicketStatusHistory is an append-only log of status overwrites
type TicketStatusHistory struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key"`
	TicketID      uuid.UUID     `gorm:"type:uuid;not null;index;column:ticket_id"`
	Ticket        *Ticket       `gorm:"foreignKey:TicketID"`
	FromStatus    *TicketStatus `gorm:"type:varchar(50);column:from_status"`
	ToStatus      TicketStatus  `gorm:"type:varchar(50);not null;column:to_status"`
	ChangedByID   uuid.UUID     `gorm:"type:uuid;not null;column:changed_by_id"`
	ChangedByName string        `gorm:"type:varchar(200);column:changed_by_name"`
	Note          string        `gorm:"type:text"`
	ChangedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP;column:changed_at"`
}

func (h *TicketStatusHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// TableName matches the migration
func (TicketStatusHistory) TableName() string {
	return "ticket_status_history"
}

// OfferStage represents the stage of a sales offer.
// Like ticket statuses, stages are unconstrained: callers overwrite freely.
type OfferStage string

const (
	OfferStageInitial      OfferStage = "INITIAL"
	OfferStageProposalSent OfferStage = "PROPOSAL_SENT"
	OfferStageNegotiation  OfferStage = "NEGOTIATION"
	OfferStagePOExpected   OfferStage = "PO_EXPECTED"
	OfferStageWon          OfferStage = "WON"
	// OfferStagePOReceived is a deprecated alias of WON kept for legacy rows;
	// the quality sweep collapses it into WON.
	OfferStagePOReceived OfferStage = "PO_RECEIVED"
	OfferStageLost       OfferStage = "LOST"
)

// AllOfferStages lists every valid offer stage
var AllOfferStages = []OfferStage{
	OfferStageInitial, OfferStageProposalSent, OfferStageNegotiation,
	OfferStagePOExpected, OfferStageWon, OfferStagePOReceived, OfferStageLost,
}

// IsValid checks if the OfferStage is a valid enum value
func (os OfferStage) IsValid() bool {
	for _, s := range AllOfferStages {
		if s == os {
			return true
		}
	}
	return false
}

// Offer represents a sales quotation tracked through stages to WON/LOST
type Offer struct {
	BaseModel
	Reference        string       `gorm:"type:varchar(50);unique;index"`
	Title            string       `gorm:"type:varchar(200);not null"`
	Stage            OfferStage   `gorm:"type:varchar(50);not null;default:'INITIAL';index"`
	OfferValue       float64      `gorm:"type:decimal(15,2);not null;default:0;column:offer_value"`
	POValue          float64      `gorm:"type:decimal(15,2);not null;default:0;column:po_value"`
	CustomerID       uuid.UUID    `gorm:"type:uuid;not null;index;column:customer_id"`
	Customer         *Customer    `gorm:"foreignKey:CustomerID"`
	ZoneID           uuid.UUID    `gorm:"type:uuid;not null;index;column:zone_id"`
	Zone             *ServiceZone `gorm:"foreignKey:ZoneID"`
	AssignedToID     *uuid.UUID   `gorm:"type:uuid;index;column:assigned_to_id"`
	AssignedTo       *User        `gorm:"foreignKey:AssignedToID"`
	CreatedByID      uuid.UUID    `gorm:"type:uuid;column:created_by_id"`
	RegistrationDate time.Time    `gorm:"type:date;not null;column:registration_date"`
	// Month fields are "YYYY-MM" strings persisted verbatim. Their year is
	// expected to match RegistrationDate's year; this is repaired by the
	// quality sweep, not enforced at write time.
	OfferMonth      string        `gorm:"type:varchar(7);column:offer_month"`
	POExpectedMonth string        `gorm:"type:varchar(7);column:po_expected_month"`
	POReceivedMonth string        `gorm:"type:varchar(7);column:po_received_month"`
	Assets          []OfferAsset  `gorm:"foreignKey:OfferID"`
	Remarks         []StageRemark `gorm:"foreignKey:OfferID"`
}

// OfferAsset links an offer to a machine it quotes for
type OfferAsset struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	OfferID     uuid.UUID `gorm:"type:uuid;not null;index;column:offer_id"`
	Offer       *Offer    `gorm:"foreignKey:OfferID"`
	AssetID     uuid.UUID `gorm:"type:uuid;not null;index;column:asset_id"`
	Asset       *Asset    `gorm:"foreignKey:AssetID"`
	Quantity    int       `gorm:"not null;default:1"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (oa *OfferAsset) BeforeCreate(tx *gorm.DB) error {
	if oa.ID == uuid.Nil {
		oa.ID = uuid.New()
	}
	return nil
}

// StageRemark is an append-only log of offer stage overwrites
type StageRemark struct {
	ID            uuid.UUID   `gorm:"type:uuid;primary_key"`
	OfferID       uuid.UUID   `gorm:"type:uuid;not null;index;column:offer_id"`
	Offer         *Offer      `gorm:"foreignKey:OfferID"`
	FromStage     *OfferStage `gorm:"type:varchar(50);column:from_stage"`
	ToStage       OfferStage  `gorm:"type:varchar(50);not null;column:to_stage"`
	Remark        string      `gorm:"type:text"`
	CreatedByID   uuid.UUID   `gorm:"type:uuid;not null;column:created_by_id"`
	CreatedByName string      `gorm:"type:varchar(200);column:created_by_name"`
	CreatedAt     time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (sr *StageRemark) BeforeCreate(tx *gorm.DB) error {
	if sr.ID == uuid.Nil {
		sr.ID = uuid.New()
	}
	return nil
}

// AttachmentKind tells which storage subtree a file lives in
type AttachmentKind string

const (
	AttachmentKindImage    AttachmentKind = "IMAGE"
	AttachmentKindDocument AttachmentKind = "DOCUMENT"
)

// Attachment represents an uploaded image or document linked to a ticket or offer
type Attachment struct {
	BaseModel
	Filename    string         `gorm:"type:varchar(255);not null"`
	ContentType string         `gorm:"type:varchar(100);not null;column:content_type"`
	Size        int64          `gorm:"not null"`
	Kind        AttachmentKind `gorm:"type:varchar(20);not null"`
	StoragePath string         `gorm:"type:varchar(500);not null;unique;column:storage_path"`
	TicketID    *uuid.UUID     `gorm:"type:uuid;index;column:ticket_id"`
	OfferID     *uuid.UUID     `gorm:"type:uuid;index;column:offer_id"`
	UploadedBy  uuid.UUID      `gorm:"type:uuid;column:uploaded_by"`
}

// NumberSequence is the per-zone, per-year counter behind ticket and offer
// reference numbers. Tickets and offers share the counter so references are
// unique across both.
type NumberSequence struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ZoneID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_zone_year;column:zone_id"`
	Year      int       `gorm:"not null;uniqueIndex:idx_zone_year"`
	Counter   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (n *NumberSequence) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
