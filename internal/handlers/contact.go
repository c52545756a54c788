package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maoucrm/crm/internal/dto"
	apierrors "github.com/maoucrm/crm/internal/errors"
	"github.com/maoucrm/crm/internal/middleware"
	"github.com/maoucrm/crm/internal/services"
	"github.com/maoucrm/crm/internal/utils"
)

type ContactHandler struct {
	contactService *services.ContactService
}

func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// ListContacts returns the current user's contacts. Without page or limit
// the whole list is returned.
func (h *ContactHandler) ListContacts(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var pagination *utils.PaginationParams
	if params, ok := utils.GetPaginationParams(c); ok {
		pagination = &params
	}

	contacts, total, err := h.contactService.ListContacts(userID, pagination)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToContactListResponse(contacts, total, pagination))
}

func (h *ContactHandler) GetContact(c *gin.Context) {
	userID, id, ok := ownerAndRecord(c)
	if !ok {
		return
	}

	contact, err := h.contactService.GetContact(userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToContactDTO(*contact))
}

func (h *ContactHandler) CreateContact(c *gin.Context) {
	type CreateContactRequest struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		Company   string `json:"company"`
		Position  string `json:"position"`
		Address   string `json:"address"`
		Notes     string `json:"notes"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	contact, err := h.contactService.CreateContact(userID, services.ContactInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		Position:  req.Position,
		Address:   req.Address,
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToContactDTO(*contact))
}

// UpdateContact applies the fields present in the body
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	userID, id, ok := ownerAndRecord(c)
	if !ok {
		return
	}

	body, err := bindPatch(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateContactInput
	fields := []struct {
		key    string
		target **string
	}{
		{"first_name", &input.FirstName},
		{"last_name", &input.LastName},
		{"email", &input.Email},
		{"phone", &input.Phone},
		{"company", &input.Company},
		{"position", &input.Position},
		{"address", &input.Address},
		{"notes", &input.Notes},
	}
	for _, f := range fields {
		v, err := body.String(f.key)
		if err != nil {
			respondFieldError(c, err)
			return
		}
		*f.target = v
	}

	contact, err := h.contactService.UpdateContact(userID, id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToContactDTO(*contact))
}

// DeleteContact removes a contact; linked tasks are kept without it
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	userID, id, ok := ownerAndRecord(c)
	if !ok {
		return
	}

	if err := h.contactService.DeleteContact(userID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Contact deleted successfully",
	})
}

// ownerAndRecord reads the session user and the :id parameter, writing
// the error response itself when either is missing.
func ownerAndRecord(c *gin.Context) (userID, id uint64, ok bool) {
	userID, ok = middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, 0, false
	}
	id, ok = middleware.GetRecordID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid ID")
		return 0, 0, false
	}
	return userID, id, true
}
