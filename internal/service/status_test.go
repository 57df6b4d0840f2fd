package service

import (
	"context"
	"testing"
	"time"

	"messaging-gateway/internal/apperror"
	"messaging-gateway/internal/events"
	"messaging-gateway/internal/models"

	"github.com/google/uuid"
)

func sentMessage(t *testing.T, f *fixture) *models.Message {
	t.Helper()
	tenant, contact := f.seed(t, "T1", "+15551234567")
	res, err := f.messages.Send(context.Background(), SendRequest{TenantID: tenant.ID, ContactID: contact.ID, Content: "Hello"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	return res.Message
}

func TestApplyStatusDelivered(t *testing.T) {
	f := newFixture(t)
	msg := sentMessage(t, f)
	sentAt := *msg.SentAt
	f.statuses.now = fixedClock(sentAt.Add(time.Minute))

	ctx := context.Background()
	if _, err := f.statuses.ApplyStatus(ctx, msg.ID, "delivered", ""); err != nil {
		t.Fatalf("apply: %v", err)
	}
	got, err := f.messages.Get(ctx, msg.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.StatusDelivered || got.DeliveredAt == nil {
		t.Fatalf("unexpected state %s delivered_at=%v", got.Status, got.DeliveredAt)
	}
	if got.SentAt == nil || !got.SentAt.Equal(sentAt) {
		t.Fatalf("sent_at changed: %v -> %v", sentAt, got.SentAt)
	}
	if !f.publisher.has(events.MessageStatusChanged) {
		t.Fatal("expected status change event")
	}
}

func TestApplyStatusRejectsBackward(t *testing.T) {
	f := newFixture(t)
	msg := sentMessage(t, f)
	ctx := context.Background()

	if _, err := f.statuses.ApplyStatus(ctx, msg.ID, "read", ""); err != nil {
		t.Fatalf("apply read: %v", err)
	}
	_, err := f.statuses.ApplyStatus(ctx, msg.ID, "sent", "")
	if !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	got, _ := f.messages.Get(ctx, msg.ID)
	if got.Status != models.StatusRead {
		t.Fatalf("status changed to %s", got.Status)
	}
}

func TestApplyStatusIdempotent(t *testing.T) {
	f := newFixture(t)
	msg := sentMessage(t, f)
	ctx := context.Background()

	first, err := f.statuses.ApplyStatus(ctx, msg.ID, "delivered", "")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	stamp := *first.DeliveredAt
	f.statuses.now = fixedClock(stamp.Add(time.Hour))
	second, err := f.statuses.ApplyStatus(ctx, msg.ID, "delivered", "")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !second.DeliveredAt.Equal(stamp) {
		t.Fatalf("delivered_at rewritten: %v -> %v", stamp, second.DeliveredAt)
	}
}

func TestApplyStatusErrors(t *testing.T) {
	f := newFixture(t)
	msg := sentMessage(t, f)
	ctx := context.Background()

	if _, err := f.statuses.ApplyStatus(ctx, uuid.New(), "delivered", ""); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.statuses.ApplyStatus(ctx, msg.ID, "bounced", ""); !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApplyStatusOverwritesExternalID(t *testing.T) {
	f := newFixture(t)
	msg := sentMessage(t, f)
	ctx := context.Background()

	got, err := f.statuses.ApplyStatus(ctx, msg.ID, "sent", "wamid.456")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if *got.ExternalMessageID != "wamid.456" || got.Metadata[models.MetaExternalMessageID] != "wamid.456" {
		t.Fatalf("external id not replaced: %v %v", *got.ExternalMessageID, got.Metadata)
	}
}

func TestApplyProviderStatus(t *testing.T) {
	f := newFixture(t)
	msg := sentMessage(t, f)
	ctx := context.Background()

	got, err := f.statuses.ApplyProviderStatus(ctx, "wamid.123", "read")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.ID != msg.ID || got.Status != models.StatusRead || got.ReadAt == nil {
		t.Fatalf("unexpected message %+v", got)
	}
	if _, err := f.statuses.ApplyProviderStatus(ctx, "wamid.unknown", "read"); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
