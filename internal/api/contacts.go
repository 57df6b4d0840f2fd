package api

import (
	"net/http"

	"messaging-gateway/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ContactHandler struct {
	contacts *service.ContactService
}

func NewContactHandler(contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

type CreateContactRequest struct {
	TenantID    string                 `json:"tenantId" binding:"required,uuid"`
	Name        *string                `json:"name" binding:"omitempty,max=150"`
	Phone       string                 `json:"phone" binding:"required,max=20"`
	ExternalRef *string                `json:"external_ref" binding:"omitempty,max=100"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type UpdateContactRequest struct {
	Name        *string                `json:"name" binding:"omitempty,max=150"`
	ExternalRef *string                `json:"external_ref" binding:"omitempty,max=100"`
	Metadata    map[string]interface{} `json:"metadata"`
}

func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	contact, err := h.contacts.Create(c.Request.Context(), service.ContactInput{
		TenantID:    uuid.MustParse(req.TenantID),
		Name:        req.Name,
		Phone:       req.Phone,
		ExternalRef: req.ExternalRef,
		Metadata:    req.Metadata,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, contact)
}

// GetContacts looks a contact up by phone when both tenantId and phone are
// given, otherwise lists the tenant's contacts.
func (h *ContactHandler) GetContacts(c *gin.Context) {
	tenantID, valid := queryID(c, "tenantId")
	if !valid {
		return
	}
	if phone := c.Query("phone"); phone != "" {
		contact, err := h.contacts.FindByPhone(c.Request.Context(), tenantID, phone)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, http.StatusOK, contact)
		return
	}
	contacts, err := h.contacts.ListByTenant(c.Request.Context(), tenantID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, contacts)
}

func (h *ContactHandler) GetContact(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	contact, err := h.contacts.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, contact)
}

func (h *ContactHandler) UpdateContact(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	contact, err := h.contacts.Update(c.Request.Context(), id, service.ContactUpdate{
		Name:        req.Name,
		ExternalRef: req.ExternalRef,
		Metadata:    req.Metadata,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, contact)
}

func (h *ContactHandler) DeleteContact(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := h.contacts.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Contact deleted successfully"})
}
