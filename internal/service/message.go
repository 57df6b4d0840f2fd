package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"messaging-gateway/internal/apperror"
	"messaging-gateway/internal/events"
	"messaging-gateway/internal/models"
	"messaging-gateway/internal/repository"
	"messaging-gateway/internal/whatsapp"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sender delivers outbound messages to the provider.
type Sender interface {
	SendMessage(ctx context.Context, to, body string) (*whatsapp.SendResult, error)
	SendTemplateMessage(ctx context.Context, to, templateName, languageCode string) (*whatsapp.SendResult, error)
	SendMediaMessage(ctx context.Context, to, mediaType, link, caption string) (*whatsapp.SendResult, error)
}

type Outcome string

const (
	// OutcomeSent means the provider accepted the message.
	OutcomeSent Outcome = "sent"
	// OutcomeQueued means the provider call failed and the message stays queued.
	OutcomeQueued Outcome = "queued"
)

type SendRequest struct {
	TenantID  uuid.UUID
	ContactID uuid.UUID
	Content   string
	// Type is one of text, template, image or doc. Empty means text.
	Type string
	// Language selects the template variant for template sends.
	Language string
	Metadata map[string]interface{}
}

type SendResult struct {
	Message       *models.Message
	Outcome       Outcome
	ProviderError string
}

type MessageService struct {
	tenants   repository.TenantRepository
	contacts  repository.ContactRepository
	messages  repository.MessageRepository
	templates *TemplateService
	tracker   *ConversationTracker
	sender    Sender
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewMessageService(
	tenants repository.TenantRepository,
	contacts repository.ContactRepository,
	messages repository.MessageRepository,
	templates *TemplateService,
	tracker *ConversationTracker,
	sender Sender,
	publisher events.Publisher,
	log *zap.Logger,
) *MessageService {
	return &MessageService{
		tenants:   tenants,
		contacts:  contacts,
		messages:  messages,
		templates: templates,
		tracker:   tracker,
		sender:    sender,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func validMessageType(t string) bool {
	switch t {
	case models.MessageTypeText, models.MessageTypeTemplate, models.MessageTypeImage, models.MessageTypeDoc:
		return true
	}
	return false
}

// Send validates the request, records the message as queued and hands it to
// the provider. Provider failures do not fail Send: the message is returned
// queued with Outcome set to OutcomeQueued.
func (s *MessageService) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if _, err := requireTenant(ctx, s.tenants, req.TenantID); err != nil {
		return nil, err
	}
	contact, err := s.contacts.GetForTenant(ctx, req.TenantID, req.ContactID)
	if err != nil {
		return nil, lookupErr(err, "Contact", req.ContactID)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperror.Validation("EMPTY_MESSAGE", "Message content is required")
	}
	msgType := req.Type
	if msgType == "" {
		msgType = models.MessageTypeText
	}
	if !validMessageType(msgType) {
		return nil, invalid(fmt.Sprintf("Unsupported message type %q", msgType))
	}

	conv, err := s.tracker.FindOrCreate(ctx, req.TenantID, req.ContactID, models.ChannelWhatsApp)
	if err != nil {
		return nil, err
	}

	content := req.Content
	msg := &models.Message{
		TenantID:       req.TenantID,
		ConversationID: conv.ID,
		ContactID:      req.ContactID,
		Channel:        models.ChannelWhatsApp,
		Direction:      models.DirectionOutbound,
		Type:           msgType,
		Content:        &content,
		Metadata:       copyMetadata(req.Metadata),
		Status:         models.StatusQueued,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	// The row exists from here on; the send and its bookkeeping run to
	// completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	s.log.Info("message queued",
		zap.String("message_id", msg.ID.String()),
		zap.String("conversation_id", conv.ID.String()))
	emit(ctx, s.publisher, s.log, events.MessageQueued, msg.ID.String(), msg)

	if err := s.tracker.TouchLastMessage(ctx, conv.ID); err != nil {
		return nil, err
	}

	res, err := s.dispatch(ctx, contact.Phone, msg, req.Language)
	if err != nil {
		s.log.Warn("message not dispatched, remains queued",
			zap.String("message_id", msg.ID.String()),
			zap.Error(err))
		return &SendResult{Message: msg, Outcome: OutcomeQueued, ProviderError: providerMessage(err)}, nil
	}

	if err := msg.ApplyStatus(models.StatusSent, s.now().UTC()); err != nil {
		return nil, err
	}
	msg.SetExternalID(res.ExternalID)
	if err := s.messages.Update(ctx, msg); err != nil {
		return nil, err
	}
	s.log.Info("message sent",
		zap.String("message_id", msg.ID.String()),
		zap.String("external_id", res.ExternalID))
	emit(ctx, s.publisher, s.log, events.MessageSent, msg.ID.String(), msg)

	return &SendResult{Message: msg, Outcome: OutcomeSent}, nil
}

// dispatch hands msg to the provider. Template messages name the template in
// their content; a missing or unapproved template fails the dispatch like any
// provider error.
func (s *MessageService) dispatch(ctx context.Context, phone string, msg *models.Message, language string) (*whatsapp.SendResult, error) {
	switch msg.Type {
	case models.MessageTypeTemplate:
		tpl, err := s.templates.GetByName(ctx, msg.TenantID, strings.TrimSpace(*msg.Content), language)
		if err != nil {
			return nil, err
		}
		if tpl.Status != models.TemplateApproved {
			return nil, invalid(fmt.Sprintf("Template %q is %s and cannot be sent", tpl.Name, tpl.Status))
		}
		return s.sender.SendTemplateMessage(ctx, phone, tpl.Name, tpl.Language)
	case models.MessageTypeImage:
		return s.sender.SendMediaMessage(ctx, phone, "image", *msg.Content, metaString(msg.Metadata, "caption"))
	case models.MessageTypeDoc:
		return s.sender.SendMediaMessage(ctx, phone, "document", *msg.Content, metaString(msg.Metadata, "caption"))
	default:
		return s.sender.SendMessage(ctx, phone, *msg.Content)
	}
}

func (s *MessageService) Get(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	m, err := s.messages.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Message", id)
	}
	return m, nil
}

func copyMetadata(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func metaString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func providerMessage(err error) string {
	var pe *whatsapp.ProviderError
	if errors.As(err, &pe) {
		return pe.Message
	}
	var ae *apperror.Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}
