package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	Tenants       *TenantHandler
	Contacts      *ContactHandler
	Conversations *ConversationHandler
	Messages      *MessageHandler
	Templates     *TemplateHandler
	WhatsApp      *WhatsAppHandler
	Automation    *AutomationHandler

	VerifyWebhook gin.HandlerFunc
	HandleWebhook gin.HandlerFunc
	ServeWs       http.HandlerFunc
	// Ping reports store health for /health.
	Ping func(ctx context.Context) error
}

func NewRouter(h Handlers, log *zap.Logger) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(requestLogger(log), recovery(log), cors())

	r.GET("/health", func(c *gin.Context) {
		if h.Ping != nil {
			if err := h.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if h.VerifyWebhook != nil {
		r.GET("/webhook", h.VerifyWebhook)
	}
	if h.HandleWebhook != nil {
		r.POST("/webhook", h.HandleWebhook)
	}
	if h.ServeWs != nil {
		r.GET("/ws", gin.WrapF(h.ServeWs))
	}

	if h.Tenants != nil {
		tenants := r.Group("/tenants")
		{
			tenants.POST("", h.Tenants.Create)
			tenants.GET("", h.Tenants.List)
			tenants.GET("/:id", h.Tenants.Get)
			tenants.PATCH("/:id", h.Tenants.Update)
			tenants.DELETE("/:id", h.Tenants.Delete)
		}
	}

	if h.Contacts != nil {
		contacts := r.Group("/contacts")
		{
			contacts.POST("", h.Contacts.CreateContact)
			contacts.GET("", h.Contacts.GetContacts)
			contacts.GET("/:id", h.Contacts.GetContact)
			contacts.PATCH("/:id", h.Contacts.UpdateContact)
			contacts.DELETE("/:id", h.Contacts.DeleteContact)
		}
	}

	if h.Conversations != nil {
		conversations := r.Group("/conversations")
		{
			conversations.POST("", h.Conversations.Create)
			conversations.GET("", h.Conversations.List)
			conversations.GET("/:id", h.Conversations.Get)
			conversations.GET("/:id/messages", h.Conversations.Messages)
		}
	}

	if h.Messages != nil {
		messages := r.Group("/messages")
		{
			messages.POST("/send", h.Messages.Send)
			messages.GET("/:id", h.Messages.Get)
		}
	}

	if h.Templates != nil {
		templates := r.Group("/templates")
		{
			templates.GET("", h.Templates.List)
			templates.POST("", h.Templates.Create)
			templates.POST("/sync", h.Templates.Sync)
			templates.GET("/:id", h.Templates.Get)
			templates.PATCH("/:id", h.Templates.Update)
			templates.DELETE("/:id", h.Templates.Delete)
		}
	}

	if h.WhatsApp != nil {
		r.POST("/whatsapp/send", h.WhatsApp.SendMessage)
	}
	if h.Automation != nil {
		r.POST("/automation/delay", h.Automation.Delay)
	}

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

func recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": "INTERNAL_ERROR", "message": "Internal server error"},
		})
	})
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PATCH, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
