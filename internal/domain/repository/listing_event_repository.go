package repository

import (
	"context"

	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
)

// ListingEventRepository outbox de eventos de cambio de publicaciones (solo inserción).
type ListingEventRepository interface {
	Create(ctx context.Context, event *entity.ListingEvent) error
	ListByListing(ctx context.Context, listingID string, limit, offset int) ([]*entity.ListingEvent, int, error)
}
