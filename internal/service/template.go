package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"messaging-gateway/internal/apperror"
	"messaging-gateway/internal/models"
	"messaging-gateway/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultLanguage = "en"

type TemplateInput struct {
	TenantID   uuid.UUID
	Name       string
	Category   *string
	Language   string
	Components map[string]interface{}
}

type TemplateUpdate struct {
	Name       *string
	Category   *string
	Language   *string
	Status     *string
	Components map[string]interface{}
}

type SyncResult struct {
	Synced    int
	Templates []models.Template
}

type TemplateService struct {
	tenants   repository.TenantRepository
	templates repository.TemplateRepository
	log       *zap.Logger
}

func NewTemplateService(tenants repository.TenantRepository, templates repository.TemplateRepository, log *zap.Logger) *TemplateService {
	return &TemplateService{tenants: tenants, templates: templates, log: log}
}

func duplicateTemplate(name, language string) error {
	return apperror.Conflict(apperror.CodeDuplicate,
		fmt.Sprintf("Template with name %q and language %q already exists for this tenant", name, language))
}

func (s *TemplateService) Create(ctx context.Context, in TemplateInput) (*models.Template, error) {
	if _, err := requireTenant(ctx, s.tenants, in.TenantID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("Template name is required")
	}
	language := in.Language
	if language == "" {
		language = defaultLanguage
	}

	t := &models.Template{
		TenantID:   in.TenantID,
		Name:       name,
		Category:   in.Category,
		Language:   language,
		Status:     models.TemplatePending,
		Components: in.Components,
	}
	if err := s.templates.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateTemplate(name, language)
		}
		return nil, err
	}
	s.log.Info("template created",
		zap.String("template_id", t.ID.String()),
		zap.String("tenant_id", t.TenantID.String()))
	return t, nil
}

func (s *TemplateService) List(ctx context.Context, f repository.TemplateFilter) ([]models.Template, error) {
	if _, err := requireTenant(ctx, s.tenants, f.TenantID); err != nil {
		return nil, err
	}
	return s.templates.List(ctx, f)
}

func (s *TemplateService) Get(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	t, err := s.templates.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Template", id)
	}
	return t, nil
}

// GetByName resolves a template for sending. language defaults to "en".
func (s *TemplateService) GetByName(ctx context.Context, tenantID uuid.UUID, name, language string) (*models.Template, error) {
	if language == "" {
		language = defaultLanguage
	}
	t, err := s.templates.FindByName(ctx, tenantID, name, language)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(apperror.CodeNotFound,
				fmt.Sprintf("Template not found: name '%s' (language: '%s', tenant: '%s')", name, language, tenantID))
		}
		return nil, err
	}
	return t, nil
}

func (s *TemplateService) Update(ctx context.Context, id uuid.UUID, u TemplateUpdate) (*models.Template, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Status != nil && !models.ValidTemplateStatus(*u.Status) {
		return nil, invalid("Invalid status. Must be one of: approved, rejected, pending")
	}
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return nil, invalid("Template name must not be empty")
		}
		t.Name = name
	}
	if u.Category != nil {
		t.Category = u.Category
	}
	if u.Language != nil && *u.Language != "" {
		t.Language = *u.Language
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Components != nil {
		t.Components = u.Components
	}
	if err := s.templates.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateTemplate(t.Name, t.Language)
		}
		return nil, err
	}
	return t, nil
}

func (s *TemplateService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.templates.Delete(ctx, id); err != nil {
		return lookupErr(err, "Template", id)
	}
	return nil
}

// Sync copies the built-in templates into the tenant as approved, skipping
// any the tenant already has. category limits the copy when non-empty.
func (s *TemplateService) Sync(ctx context.Context, tenantID uuid.UUID, category string) (*SyncResult, error) {
	if _, err := requireTenant(ctx, s.tenants, tenantID); err != nil {
		return nil, err
	}

	res := &SyncResult{Templates: []models.Template{}}
	for _, st := range systemTemplates {
		if category != "" && st.Category != category {
			continue
		}
		_, err := s.templates.FindByName(ctx, tenantID, st.Name, st.Language)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		cat := st.Category
		t := models.Template{
			TenantID:   tenantID,
			Name:       st.Name,
			Category:   &cat,
			Language:   st.Language,
			Status:     models.TemplateApproved,
			Components: st.Components,
		}
		if err := s.templates.Create(ctx, &t); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return nil, err
		}
		res.Synced++
		res.Templates = append(res.Templates, t)
	}
	s.log.Info("system templates synced",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("synced", res.Synced))
	return res, nil
}
