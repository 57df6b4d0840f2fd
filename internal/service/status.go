package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"messaging-gateway/internal/apperror"
	"messaging-gateway/internal/events"
	"messaging-gateway/internal/models"
	"messaging-gateway/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StatusChange struct {
	Message  *models.Message      `json:"message"`
	Previous models.MessageStatus `json:"previous"`
}

// StatusReconciler applies delivery receipts to stored messages. Transitions
// only move forward; repeating the current status is a no-op.
type StatusReconciler struct {
	messages  repository.MessageRepository
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewStatusReconciler(messages repository.MessageRepository, publisher events.Publisher, log *zap.Logger) *StatusReconciler {
	return &StatusReconciler{messages: messages, publisher: publisher, log: log, now: time.Now}
}

// ApplyStatus moves message id to status. A non-empty externalID replaces the
// stored provider id.
func (r *StatusReconciler) ApplyStatus(ctx context.Context, id uuid.UUID, status, externalID string) (*models.Message, error) {
	msg, err := r.messages.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Message", id)
	}
	return r.apply(ctx, msg, status, externalID)
}

// ApplyProviderStatus resolves the message by the provider's id, as carried
// in webhook status callbacks.
func (r *StatusReconciler) ApplyProviderStatus(ctx context.Context, externalID, status string) (*models.Message, error) {
	if externalID == "" {
		return nil, invalid("external message id is required")
	}
	msg, err := r.messages.FindByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(apperror.CodeNotFound,
				fmt.Sprintf("Message not found: external ID '%s'", externalID))
		}
		return nil, err
	}
	return r.apply(ctx, msg, status, "")
}

func (r *StatusReconciler) apply(ctx context.Context, msg *models.Message, status, externalID string) (*models.Message, error) {
	next, err := models.ParseMessageStatus(status)
	if err != nil {
		return nil, apperror.Validation("INVALID_STATUS", err.Error())
	}

	previous := msg.Status
	idChanged := externalID != "" && (msg.ExternalMessageID == nil || *msg.ExternalMessageID != externalID)
	if previous == next && !idChanged {
		return msg, nil
	}

	if err := msg.ApplyStatus(next, r.now().UTC()); err != nil {
		return nil, apperror.Validation("INVALID_STATUS_TRANSITION", err.Error())
	}
	msg.SetExternalID(externalID)
	if err := r.messages.Update(ctx, msg); err != nil {
		return nil, err
	}

	if previous != next {
		r.log.Info("message status updated",
			zap.String("message_id", msg.ID.String()),
			zap.String("from", string(previous)),
			zap.String("to", string(next)))
		emit(ctx, r.publisher, r.log, events.MessageStatusChanged, msg.ID.String(),
			StatusChange{Message: msg, Previous: previous})
	}
	return msg, nil
}
