package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/catalog-backoffice/internal/application/dto"
	"github.com/jhoicas/catalog-backoffice/internal/domain"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
	"github.com/jhoicas/catalog-backoffice/internal/domain/repository"
)

// maxReportMovements tope de entradas del reporte PDF.
const maxReportMovements = 2000

// List registros de inventario de un producto, con low_stock calculado al leer.
func (uc *LedgerUseCase) List(ctx context.Context, productID string, in dto.InventoryFilterRequest, p dto.PageRequest) (*dto.InventoryListResponse, error) {
	filter := entity.InventoryFilter{
		SKU:          strings.TrimSpace(in.SKU),
		WarehouseID:  strings.TrimSpace(in.Warehouse),
		LowStockOnly: in.LowStockOnly,
	}
	p = p.Normalize(uc.defaultSize, uc.maxSize)

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	items, total, err := uc.records.ListByProduct(ctx, productID, filter, p.Limit(), p.Offset())
	if err != nil {
		return nil, err
	}
	out := &dto.InventoryListResponse{Items: make([]dto.InventoryRecordResponse, 0, len(items)), Page: dto.NewPageResponse(p, total)}
	for _, r := range items {
		out.Items = append(out.Items, toRecordResponse(r))
	}
	return out, nil
}

// History lectura del diario filtrada por sku, tipo y rango de fechas. Orden por defecto: más recientes primero;
// los empates de timestamp se resuelven por orden de inserción.
func (uc *LedgerUseCase) History(ctx context.Context, productID string, in dto.HistoryFilterRequest, p dto.PageRequest) (*dto.MovementListResponse, error) {
	filter, err := toMovementFilter(in)
	if err != nil {
		return nil, err
	}
	p = p.Normalize(uc.defaultSize, uc.maxSize)

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	items, total, err := uc.movements.ListByProduct(ctx, productID, filter, p.Limit(), p.Offset())
	if err != nil {
		return nil, err
	}
	out := &dto.MovementListResponse{Items: make([]dto.MovementResponse, 0, len(items)), Page: dto.NewPageResponse(p, total)}
	for _, m := range items {
		out.Items = append(out.Items, toMovementResponse(m))
	}
	return out, nil
}

// ExportHistoryPDF genera el reporte del diario con los mismos filtros del historial.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la publicación no existe.
func (uc *LedgerUseCase) ExportHistoryPDF(ctx context.Context, productID string, in dto.HistoryFilterRequest) (pdfBytes []byte, filename string, err error) {
	filter, err := toMovementFilter(in)
	if err != nil {
		return nil, "", err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	// Publicación, stock y diario salen de una misma instantánea.
	var (
		listing   *entity.Listing
		records   []*entity.InventoryRecord
		movements []*entity.InventoryMovement
		total     int
	)
	err = uc.tx.ReadInventory(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movementRepo repository.InventoryMovementRepository,
		listingRepo repository.ListingRepository,
	) error {
		var err error
		if listing, err = listingRepo.GetByID(ctx, productID); err != nil {
			return err
		}
		if listing == nil {
			return domain.ErrNotFound
		}
		if records, _, err = recordRepo.ListByProduct(ctx, productID, entity.InventoryFilter{SKU: filter.SKU}, uc.maxSize, 0); err != nil {
			return err
		}
		movements, total, err = movementRepo.ListByProduct(ctx, productID, filter, maxReportMovements, 0)
		return err
	})
	if err != nil {
		return nil, "", err
	}

	pdfBytes, err = uc.pdf.GenerateHistoryPDF(ctx, HistoryReport{
		ProductID:   productID,
		ProductName: listing.Name,
		Records:     records,
		Movements:   movements,
		Filter:      filter,
		Truncated:   total > len(movements),
		GeneratedAt: uc.clock.Now(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("movimientos_%s.pdf", productID)
	if filter.SKU != "" {
		filename = fmt.Sprintf("movimientos_%s_%s.pdf", productID, filter.SKU)
	}
	return pdfBytes, filename, nil
}

func toMovementFilter(in dto.HistoryFilterRequest) (entity.MovementFilter, error) {
	f := entity.MovementFilter{
		SKU:       strings.TrimSpace(in.SKU),
		Type:      entity.MovementType(strings.TrimSpace(in.Type)),
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Order:     entity.SortOrder(strings.ToLower(strings.TrimSpace(in.Order))),
	}
	if f.Type != "" && !f.Type.Valid() {
		return f, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrValidation, in.Type)
	}
	switch f.Order {
	case "":
		f.Order = entity.SortNewestFirst
	case entity.SortOldestFirst, entity.SortNewestFirst:
	default:
		return f, fmt.Errorf("%w: order debe ser asc o desc", domain.ErrValidation)
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return f, fmt.Errorf("%w: rango de fechas invertido", domain.ErrValidation)
	}
	return f, nil
}
