package api

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

type AutomationHandler struct {
	maxDelay time.Duration
	log      *zap.Logger
}

func NewAutomationHandler(maxDelay time.Duration, log *zap.Logger) *AutomationHandler {
	return &AutomationHandler{maxDelay: maxDelay, log: log}
}

// Delay answers {delayed: ms} after waiting ms milliseconds, taken from
// "delay" or "ms" in the body. Automation flows use it as a sleep step.
func (h *AutomationHandler) Delay(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		body = map[string]interface{}{}
	}
	raw, found := body["delay"]
	if !found || raw == nil {
		raw = body["ms"]
	}

	ms := 0.0
	if raw != nil {
		v, err := cast.ToFloat64E(raw)
		if err != nil {
			h.invalid(c, raw)
			return
		}
		ms = v
	}
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms < 0 || ms > float64(h.maxDelay)/float64(time.Millisecond) {
		h.invalid(c, raw)
		return
	}

	h.log.Info("delay requested", zap.Float64("ms", ms))
	timer := time.NewTimer(time.Duration(ms * float64(time.Millisecond)))
	defer timer.Stop()
	select {
	case <-timer.C:
		c.JSON(http.StatusOK, gin.H{"delayed": ms})
	case <-c.Request.Context().Done():
		h.log.Debug("delay abandoned by client")
	}
}

func (h *AutomationHandler) invalid(c *gin.Context, raw interface{}) {
	h.log.Warn("invalid delay value", zap.Any("value", raw))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delay value"})
}
