package repository

import (
	"context"

	"messaging-gateway/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TenantRepository interface {
	Create(ctx context.Context, t *models.Tenant) error
	Get(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	List(ctx context.Context) ([]models.Tenant, error)
	Update(ctx context.Context, t *models.Tenant) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormTenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

func (r *GormTenantRepository) Create(ctx context.Context, t *models.Tenant) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *GormTenantRepository) Get(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	var t models.Tenant
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *GormTenantRepository) List(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&tenants).Error
	return tenants, translate(err)
}

func (r *GormTenantRepository) Update(ctx context.Context, t *models.Tenant) error {
	return translate(r.db.WithContext(ctx).Save(t).Error)
}

func (r *GormTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Tenant{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
