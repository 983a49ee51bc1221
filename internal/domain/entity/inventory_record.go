package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord stock de un SKU de una publicación, clave (ProductID, SKU).
// Invariante: Quantity >= Reserved >= 0.
type InventoryRecord struct {
	ProductID         string
	SKU               string
	Quantity          decimal.Decimal
	Reserved          decimal.Decimal
	LowStockThreshold decimal.Decimal
	WarehouseID       string
	ExpiryDate        *time.Time
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Available cantidad no reservada.
func (r *InventoryRecord) Available() decimal.Decimal {
	return r.Quantity.Sub(r.Reserved)
}

// LowStock señal derivada: disponible <= umbral. Se calcula siempre al leer, nunca se persiste.
func (r *InventoryRecord) LowStock() bool {
	return r.Available().LessThanOrEqual(r.LowStockThreshold)
}

// Clone copia el registro.
func (r *InventoryRecord) Clone() *InventoryRecord {
	if r == nil {
		return nil
	}
	c := *r
	if r.ExpiryDate != nil {
		t := *r.ExpiryDate
		c.ExpiryDate = &t
	}
	return &c
}

// InventoryFilter filtros del listado de inventario de un producto.
type InventoryFilter struct {
	SKU          string
	WarehouseID  string
	LowStockOnly bool
}
