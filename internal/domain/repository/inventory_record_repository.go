package repository

import (
	"context"

	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
)

// InventoryRecordRepository puerto para el stock por (producto, SKU).
type InventoryRecordRepository interface {
	// Get devuelve nil, nil si el registro no existe.
	Get(ctx context.Context, productID, sku string) (*entity.InventoryRecord, error)
	// Create falla con domain.ErrDuplicateInitial si ya existe el par (producto, SKU).
	Create(ctx context.Context, record *entity.InventoryRecord) error
	// Update exige que la versión almacenada sea expectedVersion (domain.ErrConcurrentModification si no).
	Update(ctx context.Context, record *entity.InventoryRecord, expectedVersion int64) error
	ListByProduct(ctx context.Context, productID string, filter entity.InventoryFilter, limit, offset int) ([]*entity.InventoryRecord, int, error)
}
