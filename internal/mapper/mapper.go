package mapper

import (
	"time"

	"github.com/kardexcare/service-api/internal/domain"
)

const timeLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ToServiceZoneDTO converts ServiceZone to ServiceZoneDTO
func ToServiceZoneDTO(zone *domain.ServiceZone, customerCount, personCount int) domain.ServiceZoneDTO {
	return domain.ServiceZoneDTO{
		ID:            zone.ID,
		Name:          zone.Name,
		ShortForm:     zone.ShortForm,
		IsActive:      zone.IsActive,
		CustomerCount: customerCount,
		PersonCount:   personCount,
		CreatedAt:     formatTime(zone.CreatedAt),
		UpdatedAt:     formatTime(zone.UpdatedAt),
	}
}

// ToZoneAssignmentDTO converts ServicePersonZone to ZoneAssignmentDTO
func ToZoneAssignmentDTO(link *domain.ServicePersonZone) domain.ZoneAssignmentDTO {
	dto := domain.ZoneAssignmentDTO{
		ID:        link.ID,
		UserID:    link.UserID,
		ZoneID:    link.ServiceZoneID,
		CreatedAt: formatTime(link.CreatedAt),
	}
	if link.User != nil {
		dto.UserName = link.User.Name
		dto.UserEmail = link.User.Email
	}
	if link.ServiceZone != nil {
		dto.ZoneName = link.ServiceZone.Name
	}
	return dto
}

// ToCustomerDTO converts Customer to CustomerDTO
func ToCustomerDTO(customer *domain.Customer, contactCount, assetCount int) domain.CustomerDTO {
	dto := domain.CustomerDTO{
		ID:           customer.ID,
		CompanyName:  customer.CompanyName,
		Place:        customer.Place,
		Department:   customer.Department,
		Status:       customer.Status,
		ZoneID:       customer.ServiceZoneID,
		ContactCount: contactCount,
		AssetCount:   assetCount,
		CreatedAt:    formatTime(customer.CreatedAt),
		UpdatedAt:    formatTime(customer.UpdatedAt),
	}
	if customer.ServiceZone != nil {
		dto.ZoneName = customer.ServiceZone.Name
	}
	return dto
}

// ToCustomerWithDetailsDTO converts a customer together with its contacts and assets
func ToCustomerWithDetailsDTO(customer *domain.Customer) domain.CustomerWithDetailsDTO {
	dto := domain.CustomerWithDetailsDTO{
		CustomerDTO: ToCustomerDTO(customer, len(customer.Contacts), len(customer.Assets)),
	}
	for i := range customer.Contacts {
		dto.Contacts = append(dto.Contacts, ToContactDTO(&customer.Contacts[i]))
	}
	for i := range customer.Assets {
		dto.Assets = append(dto.Assets, ToAssetDTO(&customer.Assets[i]))
	}
	return dto
}

// ToContactDTO converts Contact to ContactDTO
func ToContactDTO(contact *domain.Contact) domain.ContactDTO {
	dto := domain.ContactDTO{
		ID:         contact.ID,
		CustomerID: contact.CustomerID,
		Name:       contact.Name,
		Phone:      contact.Phone,
		Email:      contact.Email,
		Role:       contact.Role,
		CreatedAt:  formatTime(contact.CreatedAt),
		UpdatedAt:  formatTime(contact.UpdatedAt),
	}
	if contact.Customer != nil {
		dto.CustomerName = contact.Customer.CompanyName
	}
	return dto
}

// ToAssetDTO converts Asset to AssetDTO
func ToAssetDTO(asset *domain.Asset) domain.AssetDTO {
	dto := domain.AssetDTO{
		ID:           asset.ID,
		CustomerID:   asset.CustomerID,
		SerialNumber: asset.SerialNumber,
		Model:        asset.Model,
		MachineType:  asset.MachineType,
		Location:     asset.Location,
		Status:       asset.Status,
		CreatedAt:    formatTime(asset.CreatedAt),
		UpdatedAt:    formatTime(asset.UpdatedAt),
	}
	if asset.Customer != nil {
		dto.CustomerName = asset.Customer.CompanyName
	}
	return dto
}

// ToTicketDTO converts Ticket to TicketDTO
func ToTicketDTO(ticket *domain.Ticket) domain.TicketDTO {
	dto := domain.TicketDTO{
		ID:           ticket.ID,
		Reference:    ticket.Reference,
		Title:        ticket.Title,
		Description:  ticket.Description,
		Status:       ticket.Status,
		Priority:     ticket.Priority,
		CustomerID:   ticket.CustomerID,
		ContactID:    ticket.ContactID,
		AssetID:      ticket.AssetID,
		ZoneID:       ticket.ZoneID,
		AssignedToID: ticket.AssignedToID,
		CreatedByID:  ticket.CreatedByID,
		CreatedAt:    formatTime(ticket.CreatedAt),
		UpdatedAt:    formatTime(ticket.UpdatedAt),
	}
	if ticket.Customer != nil {
		dto.CustomerName = ticket.Customer.CompanyName
	}
	if ticket.Contact != nil {
		dto.ContactName = ticket.Contact.Name
	}
	if ticket.Asset != nil {
		dto.AssetSerial = ticket.Asset.SerialNumber
	}
	if ticket.Zone != nil {
		dto.ZoneName = ticket.Zone.Name
	}
	if ticket.AssignedTo != nil {
		dto.AssignedToName = ticket.AssignedTo.Name
	}
	return dto
}

// ToTicketStatusHistoryDTO converts TicketStatusHistory to its DTO
func ToTicketStatusHistoryDTO(entry *domain.TicketStatusHistory) domain.TicketStatusHistoryDTO {
	return domain.TicketStatusHistoryDTO{
		ID:            entry.ID,
		TicketID:      entry.TicketID,
		FromStatus:    entry.FromStatus,
		ToStatus:      entry.ToStatus,
		ChangedByID:   entry.ChangedByID,
		ChangedByName: entry.ChangedByName,
		Note:          entry.Note,
		ChangedAt:     formatTime(entry.ChangedAt),
	}
}

// ToOfferDTO converts Offer to OfferDTO
func ToOfferDTO(offer *domain.Offer) domain.OfferDTO {
	dto := domain.OfferDTO{
		ID:               offer.ID,
		Reference:        offer.Reference,
		Title:            offer.Title,
		Stage:            offer.Stage,
		OfferValue:       offer.OfferValue,
		POValue:          offer.POValue,
		CustomerID:       offer.CustomerID,
		ZoneID:           offer.ZoneID,
		AssignedToID:     offer.AssignedToID,
		CreatedByID:      offer.CreatedByID,
		RegistrationDate: offer.RegistrationDate.Format("2006-01-02"),
		OfferMonth:       offer.OfferMonth,
		POExpectedMonth:  offer.POExpectedMonth,
		POReceivedMonth:  offer.POReceivedMonth,
		CreatedAt:        formatTime(offer.CreatedAt),
		UpdatedAt:        formatTime(offer.UpdatedAt),
	}
	if offer.Customer != nil {
		dto.CustomerName = offer.Customer.CompanyName
	}
	if offer.Zone != nil {
		dto.ZoneName = offer.Zone.Name
	}
	if offer.AssignedTo != nil {
		dto.AssignedToName = offer.AssignedTo.Name
	}
	return dto
}

// ToOfferWithDetailsDTO converts an offer together with its assets and remark log
func ToOfferWithDetailsDTO(offer *domain.Offer) domain.OfferWithDetailsDTO {
	dto := domain.OfferWithDetailsDTO{
		OfferDTO: ToOfferDTO(offer),
	}
	for i := range offer.Assets {
		dto.Assets = append(dto.Assets, ToOfferAssetDTO(&offer.Assets[i]))
	}
	for i := range offer.Remarks {
		dto.Remarks = append(dto.Remarks, ToStageRemarkDTO(&offer.Remarks[i]))
	}
	return dto
}

// ToOfferAssetDTO converts OfferAsset to OfferAssetDTO
func ToOfferAssetDTO(link *domain.OfferAsset) domain.OfferAssetDTO {
	dto := domain.OfferAssetDTO{
		ID:          link.ID,
		OfferID:     link.OfferID,
		AssetID:     link.AssetID,
		Quantity:    link.Quantity,
		Description: link.Description,
		CreatedAt:   formatTime(link.CreatedAt),
	}
	if link.Asset != nil {
		dto.AssetSerial = link.Asset.SerialNumber
		dto.AssetModel = link.Asset.Model
	}
	return dto
}

// ToStageRemarkDTO converts StageRemark to StageRemarkDTO
func ToStageRemarkDTO(remark *domain.StageRemark) domain.StageRemarkDTO {
	return domain.StageRemarkDTO{
		ID:            remark.ID,
		OfferID:       remark.OfferID,
		FromStage:     remark.FromStage,
		ToStage:       remark.ToStage,
		Remark:        remark.Remark,
		CreatedByID:   remark.CreatedByID,
		CreatedByName: remark.CreatedByName,
		CreatedAt:     formatTime(remark.CreatedAt),
	}
}

// ToUserDTO converts User to UserDTO. The password hash never leaves the service layer.
func ToUserDTO(user *domain.User) domain.UserDTO {
	dto := domain.UserDTO{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		CustomerID: user.CustomerID,
		IsActive:   user.IsActive,
		CreatedAt:  formatTime(user.CreatedAt),
		UpdatedAt:  formatTime(user.UpdatedAt),
	}
	if user.LastLoginAt != nil {
		dto.LastLoginAt = formatTime(*user.LastLoginAt)
	}
	for _, link := range user.ZoneLinks {
		dto.Zones = append(dto.Zones, link.ServiceZoneID)
	}
	return dto
}

// ToAttachmentDTO converts Attachment to AttachmentDTO
func ToAttachmentDTO(attachment *domain.Attachment) domain.AttachmentDTO {
	return domain.AttachmentDTO{
		ID:          attachment.ID,
		Filename:    attachment.Filename,
		ContentType: attachment.ContentType,
		Size:        attachment.Size,
		Kind:        attachment.Kind,
		TicketID:    attachment.TicketID,
		OfferID:     attachment.OfferID,
		CreatedAt:   formatTime(attachment.CreatedAt),
	}
}
