package database

import (
	"errors"
	"testing"

	"messaging-gateway/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(":memory:", nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestMigrateEnforcesUniqueContactPhone(t *testing.T) {
	db := newTestDB(t)
	tenant := models.Tenant{Name: "Acme", Status: "active"}
	if err := db.Create(&tenant).Error; err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	if tenant.ID == uuid.Nil {
		t.Fatal("expected id to be assigned")
	}

	first := models.Contact{TenantID: tenant.ID, Phone: "+15551234567"}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("create contact: %v", err)
	}
	dup := models.Contact{TenantID: tenant.ID, Phone: "+15551234567"}
	err := db.Create(&dup).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
}

func TestTenantDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	tenant := models.Tenant{Name: "Acme", Status: "active"}
	db.Create(&tenant)
	contact := models.Contact{TenantID: tenant.ID, Phone: "+15550000001"}
	db.Create(&contact)
	conv := models.Conversation{TenantID: tenant.ID, ContactID: contact.ID, Channel: models.ChannelWhatsApp, Status: models.ConversationOpen}
	if err := db.Create(&conv).Error; err != nil {
		t.Fatalf("create conversation: %v", err)
	}

	if err := db.Delete(&models.Tenant{}, "id = ?", tenant.ID).Error; err != nil {
		t.Fatalf("delete tenant: %v", err)
	}
	var n int64
	db.Model(&models.Conversation{}).Count(&n)
	if n != 0 {
		t.Fatalf("expected conversations to cascade, found %d", n)
	}
}
