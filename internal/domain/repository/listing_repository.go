package repository

import (
	"context"

	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
)

// ListingRepository puerto de persistencia de publicaciones y sus activos.
type ListingRepository interface {
	// Create persiste una publicación nueva junto con sus activos.
	Create(ctx context.Context, listing *entity.Listing) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	// Update persiste la publicación y sus activos solo si la versión almacenada es expectedVersion;
	// si no, devuelve domain.ErrConcurrentModification. listing.Version ya trae la versión nueva.
	Update(ctx context.Context, listing *entity.Listing, expectedVersion int64) error
	// List devuelve una página filtrada y el total de coincidencias.
	List(ctx context.Context, filter entity.ListingFilter, limit, offset int) ([]*entity.Listing, int, error)
	// Stats calcula la proyección de estadísticas en el momento de la consulta.
	Stats(ctx context.Context) (*entity.ListingStats, error)
}
