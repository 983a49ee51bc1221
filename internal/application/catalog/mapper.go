package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalog-backoffice/internal/application/dto"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
	"github.com/jhoicas/catalog-backoffice/internal/domain/pricing"
	"github.com/jhoicas/catalog-backoffice/internal/domain/verification"
)

func toListingResponse(l *entity.Listing, now time.Time) *dto.ListingResponse {
	summary := verification.Status(l)
	resp := &dto.ListingResponse{
		ID:             l.ID,
		VendorID:       l.VendorID,
		Name:           l.Name,
		Description:    l.Description,
		CategoryID:     l.CategoryID,
		BasePrice:      l.BasePrice,
		CurrencySymbol: l.CurrencySymbol,
		Verification: dto.VerificationResponse{
			Status:          string(l.Verification.Status),
			RejectionReason: l.Verification.RejectionReason,
			Suggestion:      l.Verification.Suggestion,
			ReviewedBy:      l.Verification.ReviewedBy,
			ReviewedAt:      l.Verification.ReviewedAt,
		},
		Assets: make([]dto.AssetResponse, 0, len(l.Assets)),
		AssetSummary: dto.AssetSummary{
			VerifiedCount: summary.VerifiedCount,
			TotalCount:    summary.TotalCount,
			AllVerified:   summary.AllVerified,
		},
		ActiveStatus: string(l.ActiveStatus),
		Version:      l.Version,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	for _, a := range l.Assets {
		resp.Assets = append(resp.Assets, dto.AssetResponse{
			ID:         a.ID,
			Kind:       string(a.Kind),
			Label:      a.Label,
			Verified:   a.Verified,
			Reason:     a.Reason,
			Suggestion: a.Suggestion,
		})
	}
	if l.Pricing != nil {
		resp.Pricing = toPricingResponse(l.BasePrice, l.Pricing, now)
	}
	return resp
}

func toPricingResponse(base decimal.Decimal, p *entity.Pricing, now time.Time) *dto.PricingResponse {
	out := &dto.PricingResponse{
		SalePrice:       p.SalePrice,
		DiscountedPrice: pricing.DiscountedPrice(base, p.Discount, now),
	}
	if p.Discount != nil {
		out.Discount = &dto.DiscountDTO{Type: string(p.Discount.Type), Value: p.Discount.Value, ValidTill: p.Discount.ValidTill}
	}
	if p.Tax != nil {
		out.Tax = &dto.TaxDTO{TaxID: p.Tax.TaxID, Rate: p.Tax.Rate}
	}
	return out
}

func toEntityPricing(req dto.PricingRequest) entity.Pricing {
	p := entity.Pricing{SalePrice: req.SalePrice}
	if req.Discount != nil {
		p.Discount = &entity.Discount{
			Type:      entity.DiscountType(req.Discount.Type),
			Value:     req.Discount.Value,
			ValidTill: req.Discount.ValidTill,
		}
	}
	if req.Tax != nil {
		p.Tax = &entity.Tax{TaxID: req.Tax.TaxID, Rate: req.Tax.Rate}
	}
	return p
}

func toEventResponse(e *entity.ListingEvent) dto.ListingEventResponse {
	return dto.ListingEventResponse{
		ID:        e.ID,
		Type:      e.Type,
		Version:   e.Version,
		Payload:   e.Payload,
		Actor:     e.Actor,
		CreatedAt: e.CreatedAt,
	}
}
