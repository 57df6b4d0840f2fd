package api

import (
	"context"
	"errors"
	"net/http"

	"messaging-gateway/internal/apperror"
	"messaging-gateway/internal/whatsapp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TextSender is the part of the provider client used for direct sends.
type TextSender interface {
	SendMessage(ctx context.Context, to, body string) (*whatsapp.SendResult, error)
}

type WhatsAppHandler struct {
	client TextSender
	log    *zap.Logger
}

func NewWhatsAppHandler(client TextSender, log *zap.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{client: client, log: log}
}

type directSendRequest struct {
	To      string `json:"to" binding:"required"`
	Message string `json:"message"`
}

// SendMessage calls the provider directly, outside the tenant workflow, so
// provider failures are reported to the caller.
func (h *WhatsAppHandler) SendMessage(c *gin.Context) {
	var req directSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.client.SendMessage(c.Request.Context(), req.To, req.Message)
	if err != nil {
		var pe *whatsapp.ProviderError
		if errors.As(err, &pe) {
			h.log.Error("direct send failed", zap.Error(err))
			fail(c, apperror.Provider("Failed to send message via WhatsApp API", err))
			return
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Message sent successfully",
		"messageId": res.ExternalID,
	})
}
