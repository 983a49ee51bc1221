package inventory

import (
	"github.com/jhoicas/catalog-backoffice/internal/application/dto"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
)

func toRecordResponse(r *entity.InventoryRecord) dto.InventoryRecordResponse {
	return dto.InventoryRecordResponse{
		ProductID:         r.ProductID,
		SKU:               r.SKU,
		Quantity:          r.Quantity,
		Reserved:          r.Reserved,
		Available:         r.Available(),
		LowStockThreshold: r.LowStockThreshold,
		LowStock:          r.LowStock(),
		Warehouse:         r.WarehouseID,
		ExpiryDate:        r.ExpiryDate,
		Version:           r.Version,
		UpdatedAt:         r.UpdatedAt,
	}
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		Seq:            m.Seq,
		SKU:            m.SKU,
		Type:           string(m.Type),
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Note:           m.Note,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}
