package repository

import (
	"context"

	"messaging-gateway/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(ctx context.Context, c *models.Contact) error
	Get(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	// GetForTenant only returns the contact when it belongs to tenantID.
	GetForTenant(ctx context.Context, tenantID, id uuid.UUID) (*models.Contact, error)
	FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*models.Contact, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Contact, error)
	Update(ctx context.Context, c *models.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

func (r *GormContactRepository) Create(ctx context.Context, c *models.Contact) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *GormContactRepository) Get(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	var c models.Contact
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *GormContactRepository) GetForTenant(ctx context.Context, tenantID, id uuid.UUID) (*models.Contact, error) {
	var c models.Contact
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *GormContactRepository) FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*models.Contact, error) {
	var c models.Contact
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND phone = ?", tenantID, phone).
		First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *GormContactRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Contact, error) {
	var contacts []models.Contact
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&contacts).Error
	return contacts, translate(err)
}

func (r *GormContactRepository) Update(ctx context.Context, c *models.Contact) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}

func (r *GormContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Contact{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
