package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AssetInput activo declarado al enviar una publicación.
type AssetInput struct {
	Kind  string `json:"kind"` // document | image | model
	Label string `json:"label"`
}

// SubmitListingRequest envío de una publicación por parte de un vendedor.
type SubmitListingRequest struct {
	VendorID       string          `json:"vendor_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	CategoryID     string          `json:"category_id"`
	BasePrice      decimal.Decimal `json:"base_price"`
	CurrencySymbol string          `json:"currency_symbol"`
	Assets         []AssetInput    `json:"assets"`
}

// VerifyAllRequest body de PUT /listings/{id}/verify-all.
type VerifyAllRequest struct {
	Status     string `json:"status"` // approved | rejected
	Reason     string `json:"reason,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// MarkAssetRequest body de PUT /listings/{id}/assets/{assetId}.
type MarkAssetRequest struct {
	Verified   bool   `json:"verified"`
	Reason     string `json:"reason,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ActiveStatusRequest body de PUT /listings/{id}.
type ActiveStatusRequest struct {
	ActiveStatus string `json:"active_status"`
}

// DiscountDTO descuento en peticiones y respuestas.
type DiscountDTO struct {
	Type      string          `json:"type"` // percentage | fixed
	Value     decimal.Decimal `json:"value"`
	ValidTill *time.Time      `json:"valid_till,omitempty"`
}

// TaxDTO impuesto en peticiones y respuestas.
type TaxDTO struct {
	TaxID string          `json:"tax_id"`
	Rate  decimal.Decimal `json:"rate"`
}

// PricingRequest body de PUT /listings/{id}/pricing.
type PricingRequest struct {
	SalePrice decimal.Decimal `json:"sale_price"`
	Discount  *DiscountDTO    `json:"discount,omitempty"`
	Tax       *TaxDTO         `json:"tax,omitempty"`
}

// PricingResponse precio validado.
type PricingResponse struct {
	SalePrice       decimal.Decimal `json:"sale_price"`
	Discount        *DiscountDTO    `json:"discount,omitempty"`
	Tax             *TaxDTO         `json:"tax,omitempty"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
}

// AssetResponse estado de un activo.
type AssetResponse struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Label      string `json:"label"`
	Verified   bool   `json:"verified"`
	Reason     string `json:"reason,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// AssetSummary resumen del libro de verificación.
type AssetSummary struct {
	VerifiedCount int  `json:"verified_count"`
	TotalCount    int  `json:"total_count"`
	AllVerified   bool `json:"all_verified"`
}

// VerificationResponse resultado de la revisión.
type VerificationResponse struct {
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	Suggestion      string     `json:"suggestion,omitempty"`
	ReviewedBy      string     `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
}

// ListingResponse salida de una publicación.
type ListingResponse struct {
	ID             string               `json:"id"`
	VendorID       string               `json:"vendor_id"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	CategoryID     string               `json:"category_id"`
	BasePrice      decimal.Decimal      `json:"base_price"`
	CurrencySymbol string               `json:"currency_symbol"`
	Pricing        *PricingResponse     `json:"pricing,omitempty"`
	Verification   VerificationResponse `json:"verification"`
	Assets         []AssetResponse      `json:"assets"`
	AssetSummary   AssetSummary         `json:"asset_summary"`
	ActiveStatus   string               `json:"active_status"`
	Version        int64                `json:"version"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// ListingListResponse lista paginada de publicaciones.
type ListingListResponse struct {
	Items []ListingResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ListingFilterRequest filtros del listado (query string).
type ListingFilterRequest struct {
	Status       string     `query:"status"`
	ActiveStatus string     `query:"active_status"`
	CategoryID   string     `query:"category_id"`
	From         *time.Time `query:"-"`
	To           *time.Time `query:"-"`
	Search       string     `query:"search"`
}

// ListingStatsResponse estadísticas del catálogo.
type ListingStatsResponse struct {
	Total        int `json:"total"`
	Pending      int `json:"pending"`
	Approved     int `json:"approved"`
	Rejected     int `json:"rejected"`
	Active       int `json:"active"`
	Inactive     int `json:"inactive"`
	LowStockSKUs int `json:"low_stock_skus"`
}

// ListingEventResponse evento de cambio de una publicación.
type ListingEventResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Version   int64           `json:"version"`
	Payload   json.RawMessage `json:"payload"`
	Actor     string          `json:"actor,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListingEventListResponse lista paginada de eventos.
type ListingEventListResponse struct {
	Items []ListingEventResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
