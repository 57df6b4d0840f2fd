package repository

import (
	"context"

	"messaging-gateway/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, m *models.Message) error
	Get(ctx context.Context, id uuid.UUID) (*models.Message, error)
	FindByExternalID(ctx context.Context, externalID string) (*models.Message, error)
	ListByConversation(ctx context.Context, conversationID uuid.UUID, limit int) ([]models.Message, error)
	Update(ctx context.Context, m *models.Message) error
}

type GormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Create(ctx context.Context, m *models.Message) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *GormMessageRepository) Get(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var m models.Message
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *GormMessageRepository) FindByExternalID(ctx context.Context, externalID string) (*models.Message, error) {
	var m models.Message
	err := r.db.WithContext(ctx).
		Where("external_message_id = ?", externalID).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// ListByConversation returns the oldest limit messages, oldest first.
func (r *GormMessageRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, translate(err)
}

func (r *GormMessageRepository) Update(ctx context.Context, m *models.Message) error {
	return translate(r.db.WithContext(ctx).Save(m).Error)
}
