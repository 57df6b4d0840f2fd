package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"messaging-gateway/internal/apperror"
	"messaging-gateway/internal/events"
	"messaging-gateway/internal/models"
	"messaging-gateway/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func notFound(entity string, id any) error {
	return apperror.NotFound(apperror.CodeNotFound, fmt.Sprintf("%s not found: ID '%v'", entity, id))
}

func invalid(msg string) error {
	return apperror.Validation(apperror.CodeInvalidInput, msg)
}

// lookupErr turns repository.ErrNotFound into a NotFound error for entity.
func lookupErr(err error, entity string, id any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(entity, id)
	}
	return err
}

func requireTenant(ctx context.Context, tenants repository.TenantRepository, id uuid.UUID) (*models.Tenant, error) {
	t, err := tenants.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Tenant", id)
	}
	return t, nil
}

// publishTimeout bounds how long an operation waits on its event publisher.
var publishTimeout = 3 * time.Second

// emit publishes an event and logs failures. Events never change the result
// of the operation that raised them.
func emit(ctx context.Context, p events.Publisher, log *zap.Logger, key, correlationID string, data any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.Publish(ctx, key, events.NewEnvelope(key, correlationID, data)); err != nil {
		log.Warn("event publish failed", zap.String("key", key), zap.Error(err))
	}
}
