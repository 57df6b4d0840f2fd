package repository

import (
	"context"

	"messaging-gateway/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TemplateFilter struct {
	TenantID uuid.UUID
	Category string
	Language string
	Status   string
}

type TemplateRepository interface {
	Create(ctx context.Context, t *models.Template) error
	Get(ctx context.Context, id uuid.UUID) (*models.Template, error)
	FindByName(ctx context.Context, tenantID uuid.UUID, name, language string) (*models.Template, error)
	List(ctx context.Context, f TemplateFilter) ([]models.Template, error)
	Update(ctx context.Context, t *models.Template) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormTemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

func (r *GormTemplateRepository) Create(ctx context.Context, t *models.Template) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *GormTemplateRepository) Get(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	var t models.Template
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *GormTemplateRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name, language string) (*models.Template, error) {
	var t models.Template
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND name = ? AND language = ?", tenantID, name, language).
		First(&t).Error
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *GormTemplateRepository) List(ctx context.Context, f TemplateFilter) ([]models.Template, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", f.TenantID)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Language != "" {
		q = q.Where("language = ?", f.Language)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var templates []models.Template
	err := q.Order("category ASC").Order("language ASC").Order("name ASC").Find(&templates).Error
	return templates, translate(err)
}

func (r *GormTemplateRepository) Update(ctx context.Context, t *models.Template) error {
	return translate(r.db.WithContext(ctx).Save(t).Error)
}

func (r *GormTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Template{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
