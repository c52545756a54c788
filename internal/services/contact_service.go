package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/maoucrm/crm/internal/models"
	"github.com/maoucrm/crm/internal/repository"
	"github.com/maoucrm/crm/internal/utils"
	"gorm.io/gorm"
)

// ContactService handles contact business logic
type ContactService struct {
	contactRepo repository.ContactRepository
	userRepo    repository.UserRepository
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo repository.ContactRepository, userRepo repository.UserRepository) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		userRepo:    userRepo,
	}
}

// ContactInput represents input for creating a contact
type ContactInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string
	Position  string
	Address   string
	Notes     string
}

// UpdateContactInput represents a partial update. Nil fields are left as is.
type UpdateContactInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Company   *string
	Position  *string
	Address   *string
	Notes     *string
}

// CreateContact creates a contact owned by ownerID
func (s *ContactService) CreateContact(ownerID uint64, input ContactInput) (*models.Contact, error) {
	contact := &models.Contact{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		Company:   strings.TrimSpace(input.Company),
		Position:  strings.TrimSpace(input.Position),
		Address:   input.Address,
		Notes:     input.Notes,
		OwnerID:   ownerID,
	}

	if err := validateContact(contact); err != nil {
		return nil, err
	}
	if err := s.ensureOwner(ownerID); err != nil {
		return nil, err
	}

	if err := s.contactRepo.Create(contact); err != nil {
		return nil, storeError("create contact", err)
	}

	return contact, nil
}

// GetContact retrieves one of the owner's contacts
func (s *ContactService) GetContact(ownerID, id uint64) (*models.Contact, error) {
	contact, err := s.contactRepo.FindByID(ownerID, id)
	if err != nil {
		return nil, lookupError("find contact", err, ErrContactNotFound)
	}
	return contact, nil
}

// ListContacts returns the owner's contacts in insertion order. A nil
// pagination returns all of them.
func (s *ContactService) ListContacts(ownerID uint64, pagination *utils.PaginationParams) ([]models.Contact, int64, error) {
	contacts, total, err := s.contactRepo.List(repository.ContactFilter{
		OwnerID:    ownerID,
		Pagination: pagination,
	})
	if err != nil {
		return nil, 0, storeError("list contacts", err)
	}
	return contacts, total, nil
}

// UpdateContact applies a partial update. The result is re-validated as a
// whole before anything is written.
func (s *ContactService) UpdateContact(ownerID, id uint64, input UpdateContactInput) (*models.Contact, error) {
	contact, err := s.GetContact(ownerID, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		contact.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		contact.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		contact.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		contact.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Company != nil {
		contact.Company = strings.TrimSpace(*input.Company)
	}
	if input.Position != nil {
		contact.Position = strings.TrimSpace(*input.Position)
	}
	if input.Address != nil {
		contact.Address = *input.Address
	}
	if input.Notes != nil {
		contact.Notes = *input.Notes
	}

	if err := validateContact(contact); err != nil {
		return nil, err
	}

	if err := s.contactRepo.Update(contact); err != nil {
		return nil, storeError("update contact", err)
	}

	return contact, nil
}

// DeleteContact removes a contact. Tasks linked to it lose the link but
// are kept.
func (s *ContactService) DeleteContact(ownerID, id uint64) error {
	if err := s.contactRepo.Delete(ownerID, id); err != nil {
		return lookupError("delete contact", err, ErrContactNotFound)
	}
	return nil
}

func (s *ContactService) ensureOwner(ownerID uint64) error {
	if _, err := s.userRepo.FindByID(ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid("owner_id", "does not reference an existing user")
		}
		return storeError("find owner", err)
	}
	return nil
}

func validateContact(c *models.Contact) error {
	switch {
	case c.FirstName == "":
		return invalid("first_name", "is required")
	case c.LastName == "":
		return invalid("last_name", "is required")
	}

	limits := []struct {
		field string
		value string
		max   int
	}{
		{"first_name", c.FirstName, 50},
		{"last_name", c.LastName, 50},
		{"email", c.Email, 120},
		{"phone", c.Phone, 20},
		{"company", c.Company, 100},
		{"position", c.Position, 100},
	}
	for _, l := range limits {
		if len(l.value) > l.max {
			return invalid(l.field, fmt.Sprintf("must be at most %d characters", l.max))
		}
	}

	return nil
}
