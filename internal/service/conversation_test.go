package service

import (
	"context"
	"sync"
	"testing"

	"messaging-gateway/internal/apperror"
	"messaging-gateway/internal/models"

	"github.com/google/uuid"
)

func TestFindOrCreateReturnsExisting(t *testing.T) {
	f := newFixture(t)
	tenant, contact := f.seed(t, "T1", "+15551234567")
	ctx := context.Background()

	first, err := f.conversations.FindOrCreate(ctx, tenant.ID, contact.ID, "")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if first.Channel != models.ChannelWhatsApp || first.Status != models.ConversationOpen || first.LastMessageAt != nil {
		t.Fatalf("unexpected new conversation %+v", first)
	}
	second, err := f.conversations.FindOrCreate(ctx, tenant.ID, contact.ID, models.ChannelWhatsApp)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.ID != second.ID {
		t.Fatal("expected the same conversation")
	}
}

func TestFindOrCreateConcurrent(t *testing.T) {
	f := newFixture(t)
	tenant, contact := f.seed(t, "T1", "+15551234567")

	var wg sync.WaitGroup
	ids := make(chan uuid.UUID, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conv, err := f.conversations.FindOrCreate(context.Background(), tenant.ID, contact.ID, models.ChannelWhatsApp)
			if err != nil {
				t.Errorf("find or create: %v", err)
				return
			}
			ids <- conv.ID
		}()
	}
	wg.Wait()
	close(ids)

	var first uuid.UUID
	for id := range ids {
		if first == uuid.Nil {
			first = id
		} else if id != first {
			t.Fatalf("got distinct conversations %s and %s", first, id)
		}
	}
	if n := f.count(t, &models.Conversation{}); n != 1 {
		t.Fatalf("expected 1 conversation, got %d", n)
	}
}

func TestTouchLastMessageMissing(t *testing.T) {
	f := newFixture(t)
	err := f.conversations.TouchLastMessage(context.Background(), uuid.New())
	if !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestConversationCreateChecksTenantScope(t *testing.T) {
	f := newFixture(t)
	tenant, _ := f.seed(t, "T1", "+15551234567")
	_, foreign := f.seed(t, "T2", "+15557654321")

	_, err := f.conversations.Create(context.Background(), tenant.ID, foreign.ID, "")
	if !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWithMessages(t *testing.T) {
	f := newFixture(t)
	tenant, contact := f.seed(t, "T1", "+15551234567")
	ctx := context.Background()
	for _, body := range []string{"one", "two", "three"} {
		if _, err := f.messages.Send(ctx, SendRequest{TenantID: tenant.ID, ContactID: contact.ID, Content: body}); err != nil {
			t.Fatalf("send: %v", err)
		}
	}
	convs, err := f.conversations.ListByTenant(ctx, tenant.ID)
	if err != nil || len(convs) != 1 {
		t.Fatalf("list: %v %d", err, len(convs))
	}

	got, err := f.conversations.WithMessages(ctx, convs[0].ID, 2)
	if err != nil {
		t.Fatalf("with messages: %v", err)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got.Messages))
	}
	if _, err := f.conversations.WithMessages(ctx, convs[0].ID, 0); !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("expected validation error for zero limit, got %v", err)
	}
}
