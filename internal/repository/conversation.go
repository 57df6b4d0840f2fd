package repository

import (
	"context"
	"time"

	"messaging-gateway/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConversationRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	Find(ctx context.Context, tenantID, contactID uuid.UUID, channel string) (*models.Conversation, error)
	// CreateIfAbsent inserts c unless a conversation already exists for its
	// (tenant, contact, channel). It reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, c *models.Conversation) (bool, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Conversation, error)
	TouchLastMessage(ctx context.Context, id uuid.UUID, at time.Time) error
}

type GormConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

func (r *GormConversationRepository) Get(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var c models.Conversation
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *GormConversationRepository) Find(ctx context.Context, tenantID, contactID uuid.UUID, channel string) (*models.Conversation, error) {
	var c models.Conversation
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND contact_id = ? AND channel = ?", tenantID, contactID, channel).
		First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *GormConversationRepository) CreateIfAbsent(ctx context.Context, c *models.Conversation) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "contact_id"}, {Name: "channel"}},
			DoNothing: true,
		}).
		Create(c)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormConversationRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "last_message_at"}, Desc: true}).
		Order("created_at DESC").
		Find(&convs).Error
	return convs, translate(err)
}

func (r *GormConversationRepository) TouchLastMessage(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("last_message_at", at)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
