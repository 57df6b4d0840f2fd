package api

import (
	"net/http"

	"messaging-gateway/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MessageHandler struct {
	messages *service.MessageService
}

func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type SendMessageRequest struct {
	TenantID  string                 `json:"tenantId" binding:"required,uuid"`
	ContactID string                 `json:"contactId" binding:"required,uuid"`
	Message   string                 `json:"message"`
	Type      string                 `json:"type" binding:"omitempty,oneof=text template image doc"`
	Language  string                 `json:"language" binding:"omitempty,max=10"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// Send always answers 200 once validation passes; outcome tells the caller
// whether the provider accepted the message.
func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.messages.Send(c.Request.Context(), service.SendRequest{
		TenantID:  uuid.MustParse(req.TenantID),
		ContactID: uuid.MustParse(req.ContactID),
		Content:   req.Message,
		Type:      req.Type,
		Language:  req.Language,
		Metadata:  req.Metadata,
	})
	if err != nil {
		fail(c, err)
		return
	}

	body := gin.H{
		"success": true,
		"data":    res.Message,
		"outcome": res.Outcome,
		"message": "Message sent successfully",
	}
	if res.Outcome == service.OutcomeQueued {
		body["message"] = "Message queued; provider delivery failed"
		body["providerError"] = res.ProviderError
	}
	c.JSON(http.StatusOK, body)
}

func (h *MessageHandler) Get(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	msg, err := h.messages.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, msg)
}
