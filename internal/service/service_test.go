package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"messaging-gateway/internal/database"
	"messaging-gateway/internal/events"
	"messaging-gateway/internal/models"
	"messaging-gateway/internal/repository"
	"messaging-gateway/internal/whatsapp"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeSender struct {
	mu        sync.Mutex
	result    *whatsapp.SendResult
	err       error
	texts     []string
	templates []string
	media     []string
	// onSend runs inside SendMessage before the result is returned.
	onSend func()
}

func (f *fakeSender) SendMessage(_ context.Context, to, body string) (*whatsapp.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, to+":"+body)
	if f.onSend != nil {
		f.onSend()
	}
	return f.result, f.err
}

func (f *fakeSender) SendTemplateMessage(_ context.Context, to, name, lang string) (*whatsapp.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templates = append(f.templates, name+"/"+lang)
	return f.result, f.err
}

func (f *fakeSender) SendMediaMessage(_ context.Context, to, mediaType, link, caption string) (*whatsapp.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.media = append(f.media, mediaType+":"+link+":"+caption)
	return f.result, f.err
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// stalledPublisher never confirms; Publish returns only when ctx ends.
type stalledPublisher struct {
	hadDeadline bool
}

func (p *stalledPublisher) Publish(ctx context.Context, _ string, _ events.Envelope) error {
	_, p.hadDeadline = ctx.Deadline()
	<-ctx.Done()
	return ctx.Err()
}

func (p *stalledPublisher) Close() error { return nil }

func (p *recordingPublisher) has(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, k := range p.keys {
		if k == key {
			return true
		}
	}
	return false
}

type fixture struct {
	db            *gorm.DB
	sender        *fakeSender
	publisher     *recordingPublisher
	tenants       *TenantService
	contacts      *ContactService
	templates     *TemplateService
	conversations *ConversationTracker
	messages      *MessageService
	statuses      *StatusReconciler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := zap.NewNop()
	tenantRepo := repository.NewTenantRepository(db)
	contactRepo := repository.NewContactRepository(db)
	convRepo := repository.NewConversationRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	tplRepo := repository.NewTemplateRepository(db)

	f := &fixture{
		db:        db,
		sender:    &fakeSender{result: &whatsapp.SendResult{ExternalID: "wamid.123"}},
		publisher: &recordingPublisher{},
	}
	f.tenants = NewTenantService(tenantRepo, log)
	f.contacts = NewContactService(tenantRepo, contactRepo, log)
	f.templates = NewTemplateService(tenantRepo, tplRepo, log)
	f.conversations = NewConversationTracker(tenantRepo, contactRepo, convRepo, msgRepo, f.publisher, log)
	f.messages = NewMessageService(tenantRepo, contactRepo, msgRepo, f.templates, f.conversations, f.sender, f.publisher, log)
	f.statuses = NewStatusReconciler(msgRepo, f.publisher, log)
	return f
}

func (f *fixture) seed(t *testing.T, tenantName, phone string) (*models.Tenant, *models.Contact) {
	t.Helper()
	ctx := context.Background()
	tenant, err := f.tenants.Create(ctx, tenantName, "")
	if err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	contact, err := f.contacts.Create(ctx, ContactInput{TenantID: tenant.ID, Phone: phone})
	if err != nil {
		t.Fatalf("create contact: %v", err)
	}
	return tenant, contact
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
