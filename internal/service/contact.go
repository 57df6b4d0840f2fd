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

type ContactInput struct {
	TenantID    uuid.UUID
	Name        *string
	Phone       string
	ExternalRef *string
	Metadata    map[string]interface{}
}

type ContactUpdate struct {
	Name        *string
	ExternalRef *string
	Metadata    map[string]interface{}
}

type ContactService struct {
	tenants  repository.TenantRepository
	contacts repository.ContactRepository
	log      *zap.Logger
}

func NewContactService(tenants repository.TenantRepository, contacts repository.ContactRepository, log *zap.Logger) *ContactService {
	return &ContactService{tenants: tenants, contacts: contacts, log: log}
}

func (s *ContactService) Create(ctx context.Context, in ContactInput) (*models.Contact, error) {
	if _, err := requireTenant(ctx, s.tenants, in.TenantID); err != nil {
		return nil, err
	}
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return nil, invalid("Contact phone is required")
	}
	c := &models.Contact{
		TenantID:    in.TenantID,
		Name:        in.Name,
		Phone:       phone,
		ExternalRef: in.ExternalRef,
		Metadata:    in.Metadata,
	}
	if err := s.contacts.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict(apperror.CodeDuplicate,
				fmt.Sprintf("Contact with phone %q already exists for this tenant", phone))
		}
		return nil, err
	}
	s.log.Info("contact created",
		zap.String("contact_id", c.ID.String()),
		zap.String("tenant_id", c.TenantID.String()))
	return c, nil
}

func (s *ContactService) Get(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	c, err := s.contacts.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Contact", id)
	}
	return c, nil
}

func (s *ContactService) FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*models.Contact, error) {
	c, err := s.contacts.FindByPhone(ctx, tenantID, strings.TrimSpace(phone))
	if err != nil {
		return nil, lookupErr(err, "Contact", phone)
	}
	return c, nil
}

func (s *ContactService) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Contact, error) {
	if _, err := requireTenant(ctx, s.tenants, tenantID); err != nil {
		return nil, err
	}
	return s.contacts.ListByTenant(ctx, tenantID)
}

func (s *ContactService) Update(ctx context.Context, id uuid.UUID, u ContactUpdate) (*models.Contact, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Name != nil {
		c.Name = u.Name
	}
	if u.ExternalRef != nil {
		c.ExternalRef = u.ExternalRef
	}
	if u.Metadata != nil {
		c.Metadata = u.Metadata
	}
	if err := s.contacts.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.contacts.Delete(ctx, id); err != nil {
		return lookupErr(err, "Contact", id)
	}
	return nil
}
