package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"messaging-gateway/internal/models"
	payload "messaging-gateway/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const processTimeout = 30 * time.Second

// StatusApplier applies a provider delivery receipt to the stored message.
type StatusApplier interface {
	ApplyProviderStatus(ctx context.Context, externalID, status string) (*models.Message, error)
}

type Handler struct {
	verifyToken string
	appSecret   string
	statuses    StatusApplier
	log         *zap.Logger
	wg          sync.WaitGroup
}

func NewHandler(verifyToken, appSecret string, statuses StatusApplier, log *zap.Logger) *Handler {
	return &Handler{
		verifyToken: verifyToken,
		appSecret:   appSecret,
		statuses:    statuses,
		log:         log,
	}
}

func (h *Handler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "" || token == "" {
		c.Status(http.StatusBadRequest)
		return
	}
	if mode == "subscribe" && h.verifyToken != "" && token == h.verifyToken {
		h.log.Info("webhook verified")
		c.String(http.StatusOK, challenge)
		return
	}
	c.Status(http.StatusForbidden)
}

// HandleMessage acknowledges the callback immediately and processes it in
// the background.
func (h *Handler) HandleMessage(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if h.appSecret != "" && !validSignature(h.appSecret, body, c.GetHeader("X-Hub-Signature-256")) {
		h.log.Warn("webhook signature mismatch")
		c.Status(http.StatusUnauthorized)
		return
	}

	var p payload.WebhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		h.log.Warn("webhook payload not understood", zap.Error(err))
		c.Status(http.StatusBadRequest)
		return
	}

	c.Status(http.StatusOK)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()
		h.Process(ctx, p)
	}()
}

// Wait blocks until in-flight payloads have been processed.
func (h *Handler) Wait() {
	h.wg.Wait()
}

// Process applies every status receipt in p. Unknown messages and rejected
// transitions are logged and skipped. Inbound messages are only logged.
func (h *Handler) Process(ctx context.Context, p payload.WebhookPayload) {
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			for _, st := range change.Value.Statuses {
				h.applyStatus(ctx, st)
			}
			for _, msg := range change.Value.Messages {
				h.log.Info("inbound message ignored",
					zap.String("from", msg.From),
					zap.String("type", msg.Type),
					zap.String("wa_message_id", msg.ID))
			}
		}
	}
}

func (h *Handler) applyStatus(ctx context.Context, st payload.StatusUpdate) {
	fields := []zap.Field{
		zap.String("external_id", st.ID),
		zap.String("status", st.Status),
	}
	if len(st.Errors) > 0 {
		fields = append(fields, zap.Int("error_code", st.Errors[0].Code), zap.String("error_title", st.Errors[0].Title))
	}
	msg, err := h.statuses.ApplyProviderStatus(ctx, st.ID, st.Status)
	if err != nil {
		h.log.Warn("status callback skipped", append(fields, zap.Error(err))...)
		return
	}
	h.log.Debug("status callback applied", append(fields, zap.String("message_id", msg.ID.String()))...)
}

func validSignature(secret string, body []byte, header string) bool {
	sig, found := strings.CutPrefix(header, "sha256=")
	if !found {
		return false
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
