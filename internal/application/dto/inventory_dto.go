package dto

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// CreateInventoryRequest body de POST /inventory/{productId}/create (movimiento initial).
type CreateInventoryRequest struct {
	SKU               string          `json:"sku"`
	Quantity          decimal.Decimal `json:"quantity"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	Warehouse         string          `json:"warehouse"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	Note              string          `json:"note,omitempty"`
}

// MovementRequest body de PUT /inventory/{productId}.
// Para in/out la cantidad es el delta positivo; para adjustment es la cantidad final.
// delta es un alias de quantity: se acepta cualquiera de los dos.
type MovementRequest struct {
	SKU      string           `json:"sku"`
	Type     string           `json:"type"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Delta    *decimal.Decimal `json:"delta,omitempty"`
	Note     string           `json:"note,omitempty"`
}

// Amount devuelve quantity o delta; si llegan ambos deben coincidir.
func (r MovementRequest) Amount() (decimal.Decimal, error) {
	switch {
	case r.Quantity == nil && r.Delta == nil:
		return decimal.Zero, errors.New("quantity o delta es obligatorio")
	case r.Quantity != nil && r.Delta != nil && !r.Quantity.Equal(*r.Delta):
		return decimal.Zero, errors.New("quantity y delta no coinciden")
	case r.Quantity != nil:
		return *r.Quantity, nil
	default:
		return *r.Delta, nil
	}
}

// ThresholdRequest body de PUT /inventory/{productId}/threshold.
type ThresholdRequest struct {
	SKU               string          `json:"sku"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
}

// ReservationRequest body de PUT /inventory/{productId}/reserve y /release.
type ReservationRequest struct {
	SKU      string          `json:"sku"`
	Quantity decimal.Decimal `json:"quantity"`
}

// InventoryRecordResponse stock de un SKU con la señal de stock bajo calculada.
type InventoryRecordResponse struct {
	ProductID         string          `json:"product_id"`
	SKU               string          `json:"sku"`
	Quantity          decimal.Decimal `json:"quantity"`
	Reserved          decimal.Decimal `json:"reserved"`
	Available         decimal.Decimal `json:"available"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	LowStock          bool            `json:"low_stock"`
	Warehouse         string          `json:"warehouse"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	Version           int64           `json:"version"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// InventoryListResponse lista paginada de registros.
type InventoryListResponse struct {
	Items []InventoryRecordResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}

// InventoryFilterRequest filtros de GET /inventory/{productId}.
type InventoryFilterRequest struct {
	SKU          string `query:"sku"`
	Warehouse    string `query:"warehouse"`
	LowStockOnly bool   `query:"low_stock"`
}

// MovementResponse entrada del diario.
type MovementResponse struct {
	ID             string          `json:"id"`
	Seq            int64           `json:"seq"`
	SKU            string          `json:"sku"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Note           string          `json:"note,omitempty"`
	CreatedBy      string          `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// MovementListResponse historial paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// HistoryFilterRequest filtros de GET /inventory/{productId}/history.
type HistoryFilterRequest struct {
	SKU       string     `query:"sku"`
	Type      string     `query:"type"`
	StartDate *time.Time `query:"-"`
	EndDate   *time.Time `query:"-"`
	Order     string     `query:"order"` // asc | desc (por defecto desc)
}

// MovementResult respuesta de un movimiento aplicado: registro resultante y entrada escrita.
type MovementResult struct {
	Record   InventoryRecordResponse `json:"record"`
	Movement MovementResponse        `json:"movement"`
}
