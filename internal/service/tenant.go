package service

import (
	"context"
	"strings"

	"messaging-gateway/internal/models"
	"messaging-gateway/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TenantUpdate struct {
	Name   *string
	Status *string
}

type TenantService struct {
	tenants repository.TenantRepository
	log     *zap.Logger
}

func NewTenantService(tenants repository.TenantRepository, log *zap.Logger) *TenantService {
	return &TenantService{tenants: tenants, log: log}
}

func (s *TenantService) Create(ctx context.Context, name, status string) (*models.Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("Tenant name is required")
	}
	if status == "" {
		status = "active"
	}
	t := &models.Tenant{Name: name, Status: status}
	if err := s.tenants.Create(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info("tenant created", zap.String("tenant_id", t.ID.String()))
	return t, nil
}

func (s *TenantService) Get(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return requireTenant(ctx, s.tenants, id)
}

func (s *TenantService) List(ctx context.Context) ([]models.Tenant, error) {
	return s.tenants.List(ctx)
}

func (s *TenantService) Update(ctx context.Context, id uuid.UUID, u TenantUpdate) (*models.Tenant, error) {
	t, err := requireTenant(ctx, s.tenants, id)
	if err != nil {
		return nil, err
	}
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return nil, invalid("Tenant name must not be empty")
		}
		t.Name = name
	}
	if u.Status != nil && *u.Status != "" {
		t.Status = *u.Status
	}
	if err := s.tenants.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.tenants.Delete(ctx, id); err != nil {
		return lookupErr(err, "Tenant", id)
	}
	s.log.Info("tenant deleted", zap.String("tenant_id", id.String()))
	return nil
}
