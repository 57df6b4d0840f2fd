package service

import (
	"context"
	"errors"
	"time"

	"messaging-gateway/internal/events"
	"messaging-gateway/internal/models"
	"messaging-gateway/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultMessageLimit = 50

type ConversationWithMessages struct {
	Conversation *models.Conversation `json:"conversation"`
	Messages     []models.Message     `json:"messages"`
}

// ConversationTracker owns conversation lookup and last-activity bookkeeping.
type ConversationTracker struct {
	tenants       repository.TenantRepository
	contacts      repository.ContactRepository
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	publisher     events.Publisher
	log           *zap.Logger
	now           func() time.Time
}

func NewConversationTracker(
	tenants repository.TenantRepository,
	contacts repository.ContactRepository,
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	publisher events.Publisher,
	log *zap.Logger,
) *ConversationTracker {
	return &ConversationTracker{
		tenants:       tenants,
		contacts:      contacts,
		conversations: conversations,
		messages:      messages,
		publisher:     publisher,
		log:           log,
		now:           time.Now,
	}
}

// FindOrCreate returns the conversation for the triple, creating an open one
// when none exists. Concurrent callers converge on the same row through the
// unique (tenant_id, contact_id, channel) index.
func (t *ConversationTracker) FindOrCreate(ctx context.Context, tenantID, contactID uuid.UUID, channel string) (*models.Conversation, error) {
	if channel == "" {
		channel = models.ChannelWhatsApp
	}
	conv, err := t.conversations.Find(ctx, tenantID, contactID, channel)
	if err == nil {
		t.log.Debug("conversation found", zap.String("conversation_id", conv.ID.String()))
		return conv, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	conv = &models.Conversation{
		TenantID:  tenantID,
		ContactID: contactID,
		Channel:   channel,
		Status:    models.ConversationOpen,
	}
	created, err := t.conversations.CreateIfAbsent(ctx, conv)
	if err != nil {
		return nil, err
	}
	if !created {
		// lost the race to a concurrent insert
		return t.conversations.Find(ctx, tenantID, contactID, channel)
	}

	t.log.Info("conversation created",
		zap.String("conversation_id", conv.ID.String()),
		zap.String("tenant_id", tenantID.String()))
	emit(ctx, t.publisher, t.log, events.ConversationCreated, conv.ID.String(), conv)
	return conv, nil
}

// TouchLastMessage sets last_message_at to now. A missing conversation is
// reported as an error.
func (t *ConversationTracker) TouchLastMessage(ctx context.Context, id uuid.UUID) error {
	if err := t.conversations.TouchLastMessage(ctx, id, t.now().UTC()); err != nil {
		return lookupErr(err, "Conversation", id)
	}
	return nil
}

// Create validates the tenant and contact before FindOrCreate.
func (t *ConversationTracker) Create(ctx context.Context, tenantID, contactID uuid.UUID, channel string) (*models.Conversation, error) {
	if _, err := requireTenant(ctx, t.tenants, tenantID); err != nil {
		return nil, err
	}
	if _, err := t.contacts.GetForTenant(ctx, tenantID, contactID); err != nil {
		return nil, lookupErr(err, "Contact", contactID)
	}
	return t.FindOrCreate(ctx, tenantID, contactID, channel)
}

func (t *ConversationTracker) Get(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	conv, err := t.conversations.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Conversation", id)
	}
	return conv, nil
}

// ListByTenant orders by most recent activity first.
func (t *ConversationTracker) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Conversation, error) {
	if _, err := requireTenant(ctx, t.tenants, tenantID); err != nil {
		return nil, err
	}
	return t.conversations.ListByTenant(ctx, tenantID)
}

func (t *ConversationTracker) WithMessages(ctx context.Context, id uuid.UUID, limit int) (*ConversationWithMessages, error) {
	if limit <= 0 {
		return nil, invalid("limit must be a positive integer")
	}
	conv, err := t.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	msgs, err := t.messages.ListByConversation(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return &ConversationWithMessages{Conversation: conv, Messages: msgs}, nil
}
