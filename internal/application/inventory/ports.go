package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
	"github.com/jhoicas/catalog-backoffice/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que cada cambio de cantidad y su movimiento se confirmen juntos.
type TxRunner interface {
	RunInventory(ctx context.Context, fn func(
		records repository.InventoryRecordRepository,
		movements repository.InventoryMovementRepository,
		listings repository.ListingRepository,
	) error) error

	// ReadInventory ejecuta fn de solo lectura sobre una única instantánea del almacén,
	// de modo que stock y diario sean coherentes entre sí.
	ReadInventory(ctx context.Context, fn func(
		records repository.InventoryRecordRepository,
		movements repository.InventoryMovementRepository,
		listings repository.ListingRepository,
	) error) error
}

// HistoryReport datos del reporte PDF del diario de un producto.
type HistoryReport struct {
	ProductID   string
	ProductName string
	Records     []*entity.InventoryRecord
	Movements   []*entity.InventoryMovement
	Filter      entity.MovementFilter
	Truncated   bool
	GeneratedAt time.Time
}

// HistoryPDFGenerator puerto de salida para la generación del reporte (implementado con maroto).
type HistoryPDFGenerator interface {
	GenerateHistoryPDF(ctx context.Context, report HistoryReport) ([]byte, error)
}
