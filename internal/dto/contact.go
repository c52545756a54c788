package dto

import (
	"time"

	"github.com/maoucrm/crm/internal/models"
	"github.com/maoucrm/crm/internal/utils"
)

// ContactDTO represents a contact in API responses
type ContactDTO struct {
	ID        uint64    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Position  string    `json:"position"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	OwnerID   uint64    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactListResponse represents a list of contacts. Pagination is set
// only when the caller asked for a page.
type ContactListResponse struct {
	Contacts   []ContactDTO              `json:"contacts"`
	Total      int64                     `json:"total"`
	Pagination *utils.PaginationResponse `json:"pagination,omitempty"`
}

// ToContactDTO converts a Contact model to ContactDTO
func ToContactDTO(contact models.Contact) ContactDTO {
	return ContactDTO{
		ID:        contact.ID,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		FullName:  contact.FullName(),
		Email:     contact.Email,
		Phone:     contact.Phone,
		Company:   contact.Company,
		Position:  contact.Position,
		Address:   contact.Address,
		Notes:     contact.Notes,
		OwnerID:   contact.OwnerID,
		CreatedAt: contact.CreatedAt,
		UpdatedAt: contact.UpdatedAt,
	}
}

func ToContactListResponse(contacts []models.Contact, total int64, pagination *utils.PaginationParams) ContactListResponse {
	items := make([]ContactDTO, len(contacts))
	for i, contact := range contacts {
		items[i] = ToContactDTO(contact)
	}

	return ContactListResponse{
		Contacts:   items,
		Total:      total,
		Pagination: paginationResponse(pagination, total),
	}
}

func paginationResponse(params *utils.PaginationParams, total int64) *utils.PaginationResponse {
	if params == nil {
		return nil
	}
	return &utils.PaginationResponse{
		Page:  params.Page,
		Limit: params.Limit,
		Total: total,
	}
}
