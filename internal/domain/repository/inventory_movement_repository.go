package repository

import (
	"context"

	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
)

// InventoryMovementRepository puerto del diario de movimientos. Solo inserción y lectura:
// los movimientos nunca se editan ni se borran.
type InventoryMovementRepository interface {
	// Create inserta el movimiento y asigna ID y Seq.
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	ListByProduct(ctx context.Context, productID string, filter entity.MovementFilter, limit, offset int) ([]*entity.InventoryMovement, int, error)
}
