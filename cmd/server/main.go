package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"messaging-gateway/internal/api"
	"messaging-gateway/internal/config"
	"messaging-gateway/internal/database"
	"messaging-gateway/internal/events"
	"messaging-gateway/internal/logger"
	"messaging-gateway/internal/repository"
	"messaging-gateway/internal/service"
	"messaging-gateway/internal/webhook"
	"messaging-gateway/internal/whatsapp"
	"messaging-gateway/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogMode, cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()
	zap.ReplaceGlobals(zl)

	db, err := database.Open(cfg, zl)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("database migration failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zl.Fatal("database handle unavailable", zap.Error(err))
	}
	defer sqlDB.Close()

	hub := ws.NewHub(zl.Named("ws"))
	go hub.Run()
	publishers := events.Fanout{hub}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQP(cfg.AMQPURL, cfg.AMQPExchange, zl.Named("amqp"))
		if err != nil {
			zl.Warn("event broker unavailable, continuing without it", zap.Error(err))
		} else {
			publishers = append(publishers, amqpPub)
		}
	}
	defer publishers.Close()

	tenantRepo := repository.NewTenantRepository(db)
	contactRepo := repository.NewContactRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	templateRepo := repository.NewTemplateRepository(db)

	whatsappClient := whatsapp.NewClient(cfg, zl.Named("whatsapp"))

	tenantService := service.NewTenantService(tenantRepo, zl.Named("tenant"))
	contactService := service.NewContactService(tenantRepo, contactRepo, zl.Named("contact"))
	templateService := service.NewTemplateService(tenantRepo, templateRepo, zl.Named("template"))
	tracker := service.NewConversationTracker(tenantRepo, contactRepo, conversationRepo, messageRepo, publishers, zl.Named("conversation"))
	messageService := service.NewMessageService(tenantRepo, contactRepo, messageRepo, templateService, tracker, whatsappClient, publishers, zl.Named("message"))
	reconciler := service.NewStatusReconciler(messageRepo, publishers, zl.Named("status"))

	webhookHandler := webhook.NewHandler(cfg.VerifyToken, cfg.AppSecret, reconciler, zl.Named("webhook"))

	gin.SetMode(cfg.GinMode)
	router := api.NewRouter(api.Handlers{
		Tenants:       api.NewTenantHandler(tenantService),
		Contacts:      api.NewContactHandler(contactService),
		Conversations: api.NewConversationHandler(tracker),
		Messages:      api.NewMessageHandler(messageService),
		Templates:     api.NewTemplateHandler(templateService),
		WhatsApp:      api.NewWhatsAppHandler(whatsappClient, zl.Named("whatsapp")),
		Automation:    api.NewAutomationHandler(cfg.AutomationMaxDelay, zl.Named("automation")),
		VerifyWebhook: webhookHandler.VerifyWebhook,
		HandleWebhook: webhookHandler.HandleMessage,
		ServeWs:       hub.ServeWs,
		Ping:          sqlDB.PingContext,
	}, zl)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zl.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
	webhookHandler.Wait()
}
