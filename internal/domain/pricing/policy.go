// Package pricing valida y normaliza el precio de venta, descuento e impuesto de una
// publicación respecto a su precio base. No tiene efectos secundarios: el llamador persiste.
package pricing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalog-backoffice/internal/domain"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Escala de redondeo para montos y porcentajes.
const scale = 2

// ValidateAndApply verifica las reglas contra basePrice con los valores tal como llegan y luego
// normaliza la copia devuelta (redondeo a 2 decimales, fechas en UTC, TaxID sin espacios).
// proposed no se modifica.
func ValidateAndApply(basePrice decimal.Decimal, proposed entity.Pricing, now time.Time) (*entity.Pricing, error) {
	if basePrice.IsNegative() {
		return nil, domain.NewPricingError(domain.NegativeValue, "el precio base %s es negativo", basePrice)
	}

	sale := proposed.SalePrice
	if sale.IsNegative() || sale.GreaterThan(basePrice) {
		return nil, domain.NewPricingError(domain.SaleExceedsBase,
			"el precio de venta %s debe estar entre 0 y el precio base %s", sale, basePrice)
	}
	out := &entity.Pricing{SalePrice: sale.Round(scale)}

	if proposed.Discount != nil {
		d, err := validateDiscount(basePrice, *proposed.Discount, now)
		if err != nil {
			return nil, err
		}
		out.Discount = d
	}

	if proposed.Tax != nil {
		rate := proposed.Tax.Rate
		if rate.IsNegative() || rate.GreaterThan(hundred) {
			return nil, domain.NewPricingError(domain.TaxOutOfRange, "la tasa de impuesto %s debe estar entre 0 y 100", rate)
		}
		out.Tax = &entity.Tax{TaxID: strings.TrimSpace(proposed.Tax.TaxID), Rate: rate.Round(scale)}
	}

	return out, nil
}

func validateDiscount(basePrice decimal.Decimal, d entity.Discount, now time.Time) (*entity.Discount, error) {
	value := d.Value
	switch d.Type {
	case entity.DiscountPercentage:
		if value.IsNegative() || value.GreaterThan(hundred) {
			return nil, domain.NewPricingError(domain.PercentOutOfRange, "el descuento %s%% debe estar entre 0 y 100", value)
		}
	case entity.DiscountFixed:
		if value.IsNegative() {
			return nil, domain.NewPricingError(domain.NegativeValue, "el descuento fijo %s es negativo", value)
		}
		if value.GreaterThan(basePrice) {
			return nil, domain.NewPricingError(domain.FixedExceedsBase,
				"el descuento fijo %s supera el precio base %s", value, basePrice)
		}
	default:
		return nil, domain.NewPricingError(domain.UnknownDiscount, "tipo de descuento %q desconocido", d.Type)
	}

	out := &entity.Discount{Type: d.Type, Value: value.Round(scale)}
	if d.ValidTill != nil {
		till := d.ValidTill.UTC()
		if till.Before(now) {
			return nil, domain.NewPricingError(domain.ExpiredValidity,
				"la vigencia %s ya expiró", till.Format(time.RFC3339))
		}
		out.ValidTill = &till
	}
	return out, nil
}

// DiscountedPrice precio base menos el descuento vigente en now; sin descuento devuelve el precio base.
func DiscountedPrice(basePrice decimal.Decimal, d *entity.Discount, now time.Time) decimal.Decimal {
	if d == nil || (d.ValidTill != nil && d.ValidTill.Before(now)) {
		return basePrice
	}
	var off decimal.Decimal
	if d.Type == entity.DiscountPercentage {
		off = basePrice.Mul(d.Value).Div(hundred)
	} else {
		off = d.Value
	}
	res := basePrice.Sub(off).Round(scale)
	if res.IsNegative() {
		return decimal.Zero
	}
	return res
}
