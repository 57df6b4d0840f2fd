package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ChannelWhatsApp = "whatsapp"

	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"

	MessageTypeText     = "text"
	MessageTypeTemplate = "template"
	MessageTypeImage    = "image"
	MessageTypeDoc      = "doc"

	ConversationOpen = "open"

	TemplatePending  = "pending"
	TemplateApproved = "approved"
	TemplateRejected = "rejected"

	// MetaExternalMessageID is the metadata key carrying the provider's message id.
	MetaExternalMessageID = "external_message_id"
)

// Tenant is the root of every other record.
type Tenant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(150);not null" json:"name"`
	Status    string    `gorm:"type:varchar(20);not null;default:active" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Contacts      []Contact      `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE;" json:"-"`
	Conversations []Conversation `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE;" json:"-"`
	Messages      []Message      `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE;" json:"-"`
	Templates     []Template     `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Tenant) TableName() string {
	return "tenants"
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Contact is unique per (tenant_id, phone).
type Contact struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID    uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_contact_tenant_phone" json:"tenant_id"`
	Name        *string           `gorm:"type:varchar(150)" json:"name"`
	Phone       string            `gorm:"type:varchar(20);not null;uniqueIndex:idx_contact_tenant_phone" json:"phone"`
	ExternalRef *string           `gorm:"type:varchar(100)" json:"external_ref"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	Conversations []Conversation `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE;" json:"-"`
	Messages      []Message      `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Contact) TableName() string {
	return "contacts"
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Conversation is unique per (tenant_id, contact_id, channel).
type Conversation struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_triple" json:"tenant_id"`
	ContactID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_triple" json:"contact_id"`
	Channel       string     `gorm:"type:varchar(50);not null;default:whatsapp;uniqueIndex:idx_conversation_triple" json:"channel"`
	LastMessageAt *time.Time `json:"last_message_at"`
	Status        string     `gorm:"type:varchar(20);not null;default:open" json:"status"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Message struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ConversationID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"conversation_id"`
	ContactID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"contact_id"`
	Channel           string            `gorm:"type:varchar(50);not null;default:whatsapp" json:"channel"`
	Direction         string            `gorm:"type:varchar(10);not null" json:"direction"`
	Type              string            `gorm:"type:varchar(20);not null;default:text" json:"type"`
	Content           *string           `gorm:"type:text" json:"content"`
	Metadata          datatypes.JSONMap `json:"metadata"`
	ExternalMessageID *string           `gorm:"type:varchar(120);index" json:"external_message_id"`
	Status            MessageStatus     `gorm:"type:varchar(20);not null;default:queued" json:"status"`
	SentAt            *time.Time        `json:"sent_at"`
	DeliveredAt       *time.Time        `json:"delivered_at"`
	ReadAt            *time.Time        `json:"read_at"`
	FailedAt          *time.Time        `json:"failed_at"`
	CreatedAt         time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Template is unique per (tenant_id, name, language).
type Template struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID   uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_template_tenant_name_lang" json:"tenant_id"`
	Name       string            `gorm:"type:varchar(150);not null;uniqueIndex:idx_template_tenant_name_lang" json:"name"`
	Category   *string           `gorm:"type:varchar(50)" json:"category"`
	Language   string            `gorm:"type:varchar(10);not null;default:en;uniqueIndex:idx_template_tenant_name_lang" json:"language"`
	Status     string            `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	Components datatypes.JSONMap `json:"components"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Template) TableName() string {
	return "templates"
}

func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// ValidTemplateStatus reports whether s is a template review state.
func ValidTemplateStatus(s string) bool {
	switch s {
	case TemplatePending, TemplateApproved, TemplateRejected:
		return true
	}
	return false
}
