package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	MessageQueued        = "message.queued"
	MessageSent          = "message.sent"
	MessageStatusChanged = "message.status_changed"
	ConversationCreated  = "conversation.created"
)

const producer = "messaging-gateway"

type Meta struct {
	CorrelationID *string   `json:"correlation_id,omitempty"`
	ID            string    `json:"id"`
	Producer      *string   `json:"producer,omitempty"`
	Time          time.Time `json:"time"`
	Type          string    `json:"type"`
}

type Envelope struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

// NewEnvelope stamps a fresh event id. correlationID may be empty.
func NewEnvelope(eventType, correlationID string, data any) Envelope {
	p := producer
	env := Envelope{
		Meta: Meta{
			ID:       uuid.NewString(),
			Producer: &p,
			Time:     time.Now().UTC(),
			Type:     eventType,
		},
		Data: data,
	}
	if correlationID != "" {
		env.Meta.CorrelationID = &correlationID
	}
	return env
}

type Publisher interface {
	Publish(ctx context.Context, key string, msg Envelope) error
	Close() error
}

// Fanout delivers every envelope to all publishers and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, key string, msg Envelope) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, key, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) Close() error {
	var errs []error
	for _, p := range f {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) Publish(context.Context, string, Envelope) error { return nil }
func (Nop) Close() error                                   { return nil }
