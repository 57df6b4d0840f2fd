package api

import (
	"net/http"

	"messaging-gateway/internal/service"

	"github.com/gin-gonic/gin"
)

type TenantHandler struct {
	tenants *service.TenantService
}

func NewTenantHandler(tenants *service.TenantService) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

type createTenantRequest struct {
	Name   string `json:"name" binding:"required,max=150"`
	Status string `json:"status" binding:"omitempty,max=20"`
}

type updateTenantRequest struct {
	Name   *string `json:"name" binding:"omitempty,max=150"`
	Status *string `json:"status" binding:"omitempty,max=20"`
}

func (h *TenantHandler) Create(c *gin.Context) {
	var req createTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.tenants.Create(c.Request.Context(), req.Name, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, t)
}

func (h *TenantHandler) List(c *gin.Context) {
	tenants, err := h.tenants.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, tenants)
}

func (h *TenantHandler) Get(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	t, err := h.tenants.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}

func (h *TenantHandler) Update(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req updateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.tenants.Update(c.Request.Context(), id, service.TenantUpdate{Name: req.Name, Status: req.Status})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}

func (h *TenantHandler) Delete(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := h.tenants.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Tenant deleted successfully"})
}
