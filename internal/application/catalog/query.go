package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/catalog-backoffice/internal/application/dto"
	"github.com/jhoicas/catalog-backoffice/internal/domain"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
	"github.com/jhoicas/catalog-backoffice/internal/domain/repository"
	"github.com/jhoicas/catalog-backoffice/pkg/clock"
)

// QueryUseCase lecturas del catálogo: listado filtrado, detalle, estadísticas y eventos.
// No toma bloqueos; puede ver un snapshot ligeramente desfasado pero nunca una escritura a medias.
type QueryUseCase struct {
	listings    repository.ListingRepository
	events      repository.ListingEventRepository
	clock       clock.Clock
	timeout     time.Duration
	defaultSize int
	maxSize     int
}

// NewQueryUseCase construye el servicio de consultas.
func NewQueryUseCase(
	listings repository.ListingRepository,
	events repository.ListingEventRepository,
	clk clock.Clock,
	timeout time.Duration,
	defaultSize, maxSize int,
) *QueryUseCase {
	return &QueryUseCase{
		listings:    listings,
		events:      events,
		clock:       clk,
		timeout:     timeout,
		defaultSize: defaultSize,
		maxSize:     maxSize,
	}
}

// List devuelve una página de publicaciones; los filtros presentes se combinan con AND.
func (uc *QueryUseCase) List(ctx context.Context, in dto.ListingFilterRequest, p dto.PageRequest) (*dto.ListingListResponse, error) {
	filter := entity.ListingFilter{
		Status:       entity.VerificationStatus(in.Status),
		ActiveStatus: entity.ActiveStatus(in.ActiveStatus),
		CategoryID:   in.CategoryID,
		CreatedFrom:  in.From,
		CreatedTo:    in.To,
		Search:       in.Search,
	}.Normalize()
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: status %q", domain.ErrValidation, in.Status)
	}
	if filter.ActiveStatus != "" && !filter.ActiveStatus.Valid() {
		return nil, fmt.Errorf("%w: active_status %q", domain.ErrValidation, in.ActiveStatus)
	}
	if filter.CreatedFrom != nil && filter.CreatedTo != nil && filter.CreatedTo.Before(*filter.CreatedFrom) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrValidation)
	}
	p = p.Normalize(uc.defaultSize, uc.maxSize)

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	items, total, err := uc.listings.List(ctx, filter, p.Limit(), p.Offset())
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	out := &dto.ListingListResponse{Items: make([]dto.ListingResponse, 0, len(items)), Page: dto.NewPageResponse(p, total)}
	for _, l := range items {
		out.Items = append(out.Items, *toListingResponse(l, now))
	}
	return out, nil
}

// GetByID devuelve la publicación con el resumen de verificación de sus activos.
func (uc *QueryUseCase) GetByID(ctx context.Context, id string) (*dto.ListingResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	l, err := uc.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	return toListingResponse(l, uc.clock.Now()), nil
}

// Stats proyección calculada en el momento; no hay contadores mantenidos aparte.
func (uc *QueryUseCase) Stats(ctx context.Context) (*dto.ListingStatsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	s, err := uc.listings.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ListingStatsResponse{
		Total:        s.Total,
		Pending:      s.Pending,
		Approved:     s.Approved,
		Rejected:     s.Rejected,
		Active:       s.Active,
		Inactive:     s.Inactive,
		LowStockSKUs: s.LowStockSKUs,
	}, nil
}

// Events historial de cambios de una publicación, en orden de aplicación.
func (uc *QueryUseCase) Events(ctx context.Context, listingID string, p dto.PageRequest) (*dto.ListingEventListResponse, error) {
	p = p.Normalize(uc.defaultSize, uc.maxSize)
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	l, err := uc.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	items, total, err := uc.events.ListByListing(ctx, listingID, p.Limit(), p.Offset())
	if err != nil {
		return nil, err
	}
	out := &dto.ListingEventListResponse{Items: make([]dto.ListingEventResponse, 0, len(items)), Page: dto.NewPageResponse(p, total)}
	for _, e := range items {
		out.Items = append(out.Items, toEventResponse(e))
	}
	return out, nil
}
