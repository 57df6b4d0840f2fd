package api

import (
	"net/http"
	"strconv"

	"messaging-gateway/internal/apperror"
	"messaging-gateway/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ConversationHandler struct {
	tracker *service.ConversationTracker
}

func NewConversationHandler(tracker *service.ConversationTracker) *ConversationHandler {
	return &ConversationHandler{tracker: tracker}
}

type createConversationRequest struct {
	TenantID  string `json:"tenantId" binding:"required,uuid"`
	ContactID string `json:"contactId" binding:"required,uuid"`
	Channel   string `json:"channel" binding:"omitempty,max=50"`
}

func (h *ConversationHandler) Create(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	conv, err := h.tracker.Create(c.Request.Context(),
		uuid.MustParse(req.TenantID), uuid.MustParse(req.ContactID), req.Channel)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, conv)
}

func (h *ConversationHandler) List(c *gin.Context) {
	tenantID, valid := queryID(c, "tenantId")
	if !valid {
		return
	}
	convs, err := h.tracker.ListByTenant(c.Request.Context(), tenantID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, convs)
}

func (h *ConversationHandler) Get(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	conv, err := h.tracker.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, conv)
}

// Messages returns the conversation with up to ?limit (default 50) messages.
func (h *ConversationHandler) Messages(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	limit := service.DefaultMessageLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			fail(c, apperror.Validation(apperror.CodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = n
	}
	res, err := h.tracker.WithMessages(c.Request.Context(), id, limit)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}
