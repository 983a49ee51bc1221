package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del diario de inventario.
type MovementType string

const (
	MovementTypeInitial    MovementType = "initial"    // alta del registro
	MovementTypeIn         MovementType = "in"         // entrada
	MovementTypeOut        MovementType = "out"        // salida
	MovementTypeAdjustment MovementType = "adjustment" // corrección a un valor absoluto
)

func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeInitial, MovementTypeIn, MovementTypeOut, MovementTypeAdjustment:
		return true
	}
	return false
}

// InventoryMovement entrada inmutable del diario de un InventoryRecord.
// Quantity es el delta con signo (initial: cantidad inicial; out: negativo;
// adjustment: nueva cantidad - cantidad anterior). Seq lo asigna el almacén y desempata por orden de inserción.
type InventoryMovement struct {
	ID             string
	Seq            int64
	ProductID      string
	SKU            string
	Type           MovementType
	Quantity       decimal.Decimal
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	Note           string
	CreatedBy      string
	CreatedAt      time.Time
}

// SortOrder orden de lectura del historial.
type SortOrder string

const (
	SortOldestFirst SortOrder = "asc"
	SortNewestFirst SortOrder = "desc"
)

// MovementFilter filtros del historial; campos vacíos no filtran.
type MovementFilter struct {
	SKU       string
	Type      MovementType
	StartDate *time.Time
	EndDate   *time.Time
	Order     SortOrder
}
