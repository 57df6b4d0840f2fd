package api

import (
	"fmt"
	"net/http"

	"messaging-gateway/internal/repository"
	"messaging-gateway/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TemplateHandler struct {
	templates *service.TemplateService
}

func NewTemplateHandler(templates *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

type createTemplateRequest struct {
	TenantID   string                 `json:"tenantId" binding:"required,uuid"`
	Name       string                 `json:"name" binding:"required,max=150"`
	Category   *string                `json:"category" binding:"omitempty,max=50"`
	Language   string                 `json:"language" binding:"omitempty,max=10"`
	Components map[string]interface{} `json:"components"`
}

type updateTemplateRequest struct {
	Name       *string                `json:"name" binding:"omitempty,max=150"`
	Category   *string                `json:"category" binding:"omitempty,max=50"`
	Language   *string                `json:"language" binding:"omitempty,max=10"`
	Status     *string                `json:"status"`
	Components map[string]interface{} `json:"components"`
}

type syncTemplatesRequest struct {
	TenantID string `json:"tenantId" binding:"required,uuid"`
	Category string `json:"category" binding:"omitempty,oneof=marketing utility authentication"`
}

func (h *TemplateHandler) List(c *gin.Context) {
	tenantID, valid := queryID(c, "tenantId")
	if !valid {
		return
	}
	templates, err := h.templates.List(c.Request.Context(), repository.TemplateFilter{
		TenantID: tenantID,
		Category: c.Query("category"),
		Language: c.Query("language"),
		Status:   c.Query("status"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, templates)
}

func (h *TemplateHandler) Create(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.templates.Create(c.Request.Context(), service.TemplateInput{
		TenantID:   uuid.MustParse(req.TenantID),
		Name:       req.Name,
		Category:   req.Category,
		Language:   req.Language,
		Components: req.Components,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, t)
}

func (h *TemplateHandler) Sync(c *gin.Context) {
	var req syncTemplatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.templates.Sync(c.Request.Context(), uuid.MustParse(req.TenantID), req.Category)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Successfully synced %d templates", res.Synced),
		"synced":  res.Synced,
		"data":    res.Templates,
	})
}

func (h *TemplateHandler) Get(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	t, err := h.templates.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}

func (h *TemplateHandler) Update(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req updateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.templates.Update(c.Request.Context(), id, service.TemplateUpdate{
		Name:       req.Name,
		Category:   req.Category,
		Language:   req.Language,
		Status:     req.Status,
		Components: req.Components,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := h.templates.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Template deleted successfully"})
}
