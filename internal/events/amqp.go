package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type rmqPublisher struct {
	conn     *amqp.Connection
	exchange string
	log      *zap.Logger
}

// NewAMQP connects to the broker and declares a durable topic exchange.
func NewAMQP(url, exchange string, log *zap.Logger) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, err
	}

	return &rmqPublisher{conn: conn, exchange: exchange, log: log}, nil
}

func (r *rmqPublisher) Publish(ctx context.Context, key string, msg Envelope) error {
	ch, err := r.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	if err := ch.Confirm(false); err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	msgID := msg.Meta.ID
	if msgID == "" {
		msgID = uuid.NewString()
	}
	cid := msgID
	if msg.Meta.CorrelationID != nil {
		cid = *msg.Meta.CorrelationID
	}

	dc, err := ch.PublishWithDeferredConfirmWithContext(
		ctx, r.exchange, key, false, false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     msgID,
			CorrelationId: cid,
			Type:          msg.Meta.Type,
			Timestamp:     time.Now(),
			Body:          body,
		},
	)
	if err != nil {
		return err
	}
	acked, err := dc.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return fmt.Errorf("broker nacked %s", key)
	}
	r.log.Debug("published", zap.String("key", key), zap.String("exchange", r.exchange))
	return nil
}

func (r *rmqPublisher) Close() error {
	return r.conn.Close()
}
