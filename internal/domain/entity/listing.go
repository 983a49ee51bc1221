package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// VerificationStatus estado de revisión de una publicación.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Valid indica si el estado es uno de los conocidos.
func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationApproved, VerificationRejected:
		return true
	}
	return false
}

// ActiveStatus visibilidad operativa; independiente de la verificación.
type ActiveStatus string

const (
	ActiveStatusActive   ActiveStatus = "active"
	ActiveStatusInactive ActiveStatus = "inactive"
)

func (s ActiveStatus) Valid() bool {
	return s == ActiveStatusActive || s == ActiveStatusInactive
}

// DiscountType tipo de descuento.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Discount descuento sobre el precio base. ValidTill nil = sin vencimiento.
type Discount struct {
	Type      DiscountType
	Value     decimal.Decimal
	ValidTill *time.Time
}

// Tax impuesto aplicado a la publicación (Rate en porcentaje 0..100).
type Tax struct {
	TaxID string
	Rate  decimal.Decimal
}

// Pricing precio de venta, descuento e impuesto relativos al precio base.
type Pricing struct {
	SalePrice decimal.Decimal
	Discount  *Discount
	Tax       *Tax
}

// Verification resultado de la revisión de la publicación.
type Verification struct {
	Status          VerificationStatus
	RejectionReason string
	Suggestion      string
	ReviewedBy      string
	ReviewedAt      *time.Time
}

// Listing publicación de catálogo enviada por un vendedor.
// Version se incrementa en cada transición confirmada (concurrencia optimista).
type Listing struct {
	ID             string
	VendorID       string
	Name           string
	Description    string
	CategoryID     string
	BasePrice      decimal.Decimal
	CurrencySymbol string
	Pricing        *Pricing
	Verification   Verification
	Assets         []AssetRecord
	ActiveStatus   ActiveStatus
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Asset devuelve el activo con el ID indicado o nil.
func (l *Listing) Asset(assetID string) *AssetRecord {
	for i := range l.Assets {
		if l.Assets[i].ID == assetID {
			return &l.Assets[i]
		}
	}
	return nil
}

// Clone copia profunda; los repositorios en memoria y los tests la usan para no compartir estado.
func (l *Listing) Clone() *Listing {
	if l == nil {
		return nil
	}
	c := *l
	c.Assets = append([]AssetRecord(nil), l.Assets...)
	if l.Pricing != nil {
		p := *l.Pricing
		if p.Discount != nil {
			d := *p.Discount
			if d.ValidTill != nil {
				t := *d.ValidTill
				d.ValidTill = &t
			}
			p.Discount = &d
		}
		if p.Tax != nil {
			t := *p.Tax
			p.Tax = &t
		}
		c.Pricing = &p
	}
	if l.Verification.ReviewedAt != nil {
		t := *l.Verification.ReviewedAt
		c.Verification.ReviewedAt = &t
	}
	return &c
}
