// Package inventory implementa las reglas puras del diario de inventario: cómo cada tipo de
// movimiento transforma un InventoryRecord y qué delta queda registrado.
package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalog-backoffice/internal/domain"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
)

// Escala de las cantidades en el almacén (NUMERIC(14,3)).
const quantityScale = 3

var maxQuantity = decimal.New(1, 11)

// validQuantity exige a lo sumo 3 decimales y que la magnitud quepa en NUMERIC(14,3);
// un valor más fino se redondearía al persistir y el diario no cuadraría.
func validQuantity(q decimal.Decimal) bool {
	return q.Equal(q.Round(quantityScale)) && q.Abs().LessThan(maxQuantity)
}

// NewRecord crea el registro para un movimiento initial. Reserved inicia en 0.
func NewRecord(productID, sku string, quantity, threshold decimal.Decimal, warehouseID string, expiry *time.Time, now time.Time) (*entity.InventoryRecord, error) {
	if productID == "" || sku == "" {
		return nil, domain.ErrValidation
	}
	if quantity.IsNegative() || threshold.IsNegative() || !validQuantity(quantity) || !validQuantity(threshold) {
		return nil, domain.ErrValidation
	}
	return &entity.InventoryRecord{
		ProductID:         productID,
		SKU:               sku,
		Quantity:          quantity,
		Reserved:          decimal.Zero,
		LowStockThreshold: threshold,
		WarehouseID:       warehouseID,
		ExpiryDate:        expiry,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Apply aplica un movimiento in/out/adjustment sobre rec y devuelve el delta con signo
// que se debe registrar en el diario. Si hay error rec no se modifica.
//   - in: quantity > 0, suma.
//   - out: quantity > 0, resta; falla si dejaría Quantity < Reserved.
//   - adjustment: quantity es el valor absoluto final (>= 0 y >= Reserved).
func Apply(rec *entity.InventoryRecord, typ entity.MovementType, quantity decimal.Decimal) (decimal.Decimal, error) {
	if !validQuantity(quantity) {
		return decimal.Zero, domain.ErrValidation
	}
	var next decimal.Decimal
	switch typ {
	case entity.MovementTypeIn:
		if !quantity.IsPositive() {
			return decimal.Zero, domain.ErrValidation
		}
		next = rec.Quantity.Add(quantity)
		if !validQuantity(next) {
			return decimal.Zero, domain.ErrValidation
		}
	case entity.MovementTypeOut:
		if !quantity.IsPositive() {
			return decimal.Zero, domain.ErrValidation
		}
		next = rec.Quantity.Sub(quantity)
		if next.LessThan(rec.Reserved) || next.IsNegative() {
			return decimal.Zero, domain.ErrInsufficientStock
		}
	case entity.MovementTypeAdjustment:
		if quantity.IsNegative() {
			return decimal.Zero, domain.ErrValidation
		}
		if quantity.LessThan(rec.Reserved) {
			return decimal.Zero, domain.ErrInsufficientStock
		}
		next = quantity
	case entity.MovementTypeInitial:
		return decimal.Zero, domain.ErrDuplicateInitial
	default:
		return decimal.Zero, domain.ErrValidation
	}
	delta := next.Sub(rec.Quantity)
	rec.Quantity = next
	return delta, nil
}

// Reserve aparta quantity del disponible. No altera Quantity, por lo que no genera movimiento.
func Reserve(rec *entity.InventoryRecord, quantity decimal.Decimal) error {
	if !quantity.IsPositive() || !validQuantity(quantity) {
		return domain.ErrValidation
	}
	if rec.Reserved.Add(quantity).GreaterThan(rec.Quantity) {
		return domain.ErrInsufficientStock
	}
	rec.Reserved = rec.Reserved.Add(quantity)
	return nil
}

// Release libera una reserva previa; no puede dejar Reserved negativo.
func Release(rec *entity.InventoryRecord, quantity decimal.Decimal) error {
	if !quantity.IsPositive() || !validQuantity(quantity) || quantity.GreaterThan(rec.Reserved) {
		return domain.ErrValidation
	}
	rec.Reserved = rec.Reserved.Sub(quantity)
	return nil
}

// SetThreshold cambia el umbral de stock bajo; LowStock se recalcula al leer.
func SetThreshold(rec *entity.InventoryRecord, threshold decimal.Decimal) error {
	if threshold.IsNegative() || !validQuantity(threshold) {
		return domain.ErrValidation
	}
	rec.LowStockThreshold = threshold
	return nil
}
