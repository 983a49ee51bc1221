package catalog

import (
	"context"

	"github.com/jhoicas/catalog-backoffice/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción del catálogo, pasando repositorios atados a ella.
// Si fn devuelve error no se confirma nada: la transición y su evento se aplican juntos o no se aplican.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		listings repository.ListingRepository,
		events repository.ListingEventRepository,
	) error) error
}
