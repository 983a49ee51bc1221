package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalog-backoffice/internal/application/dto"
	"github.com/jhoicas/catalog-backoffice/internal/domain"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
	"github.com/jhoicas/catalog-backoffice/internal/domain/inventory"
	"github.com/jhoicas/catalog-backoffice/internal/domain/repository"
	"github.com/jhoicas/catalog-backoffice/pkg/clock"
	"github.com/jhoicas/catalog-backoffice/pkg/logger"
)

// MovementInput entrada de ApplyMovement.
// Para in/out Quantity es el delta positivo; para adjustment la cantidad final; para initial la cantidad inicial.
// LowStockThreshold, WarehouseID y ExpiryDate solo aplican a initial.
type MovementInput struct {
	ProductID         string
	SKU               string
	Type              entity.MovementType
	Quantity          decimal.Decimal
	Note              string
	Actor             string
	ExpectedVersion   *int64
	LowStockThreshold decimal.Decimal
	WarehouseID       string
	ExpiryDate        *time.Time
}

// RecordCommand identifica un registro para operaciones que no mueven la cantidad.
type RecordCommand struct {
	ProductID       string
	SKU             string
	Actor           string
	ExpectedVersion *int64
}

// LedgerUseCase libro de inventario: movimientos tipados con diario inmutable,
// reservas, umbral de stock bajo y consultas del historial.
type LedgerUseCase struct {
	tx          TxRunner
	records     repository.InventoryRecordRepository
	movements   repository.InventoryMovementRepository
	listings    repository.ListingRepository
	pdf         HistoryPDFGenerator
	clock       clock.Clock
	timeout     time.Duration
	defaultSize int
	maxSize     int
	log         *logger.Logger
}

// LedgerDeps dependencias de NewLedgerUseCase.
type LedgerDeps struct {
	Tx          TxRunner
	Records     repository.InventoryRecordRepository
	Movements   repository.InventoryMovementRepository
	Listings    repository.ListingRepository
	PDF         HistoryPDFGenerator
	Clock       clock.Clock
	Timeout     time.Duration
	DefaultSize int
	MaxSize     int
	Log         *logger.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(d LedgerDeps) *LedgerUseCase {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		tx:          d.Tx,
		records:     d.Records,
		movements:   d.Movements,
		listings:    d.Listings,
		pdf:         d.PDF,
		clock:       d.Clock,
		timeout:     d.Timeout,
		defaultSize: d.DefaultSize,
		maxSize:     d.MaxSize,
		log:         log.Component("inventory"),
	}
}

// ApplyMovement aplica un movimiento y escribe exactamente una entrada en el diario, en la misma transacción.
// initial crea el registro (la publicación debe existir); el resto exige un registro existente.
func (uc *LedgerUseCase) ApplyMovement(ctx context.Context, in MovementInput) (*dto.MovementResult, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.SKU = strings.TrimSpace(in.SKU)
	if in.ProductID == "" || in.SKU == "" {
		return nil, fmt.Errorf("%w: product_id y sku son obligatorios", domain.ErrValidation)
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrValidation, in.Type)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	now := uc.clock.Now()

	var (
		rec *entity.InventoryRecord
		mov *entity.InventoryMovement
	)
	err := uc.tx.RunInventory(ctx, func(
		records repository.InventoryRecordRepository,
		movements repository.InventoryMovementRepository,
		listings repository.ListingRepository,
	) error {
		var err error
		if in.Type == entity.MovementTypeInitial {
			rec, mov, err = uc.initial(ctx, records, listings, in, now)
		} else {
			rec, mov, err = uc.move(ctx, records, in, now)
		}
		if err != nil {
			return err
		}
		return movements.Create(ctx, mov)
	})
	if err != nil {
		uc.logFailure(err, in.ProductID, in.SKU, string(in.Type))
		return nil, err
	}

	uc.log.Info().
		Str("product_id", rec.ProductID).
		Str("sku", rec.SKU).
		Str("type", string(mov.Type)).
		Str("delta", mov.Quantity.String()).
		Str("quantity", rec.Quantity.String()).
		Msg("movimiento registrado")
	if rec.LowStock() {
		uc.log.Warn().Str("product_id", rec.ProductID).Str("sku", rec.SKU).
			Str("available", rec.Available().String()).Msg("stock bajo")
	}
	return &dto.MovementResult{Record: toRecordResponse(rec), Movement: toMovementResponse(mov)}, nil
}

func (uc *LedgerUseCase) initial(
	ctx context.Context,
	records repository.InventoryRecordRepository,
	listings repository.ListingRepository,
	in MovementInput,
	now time.Time,
) (*entity.InventoryRecord, *entity.InventoryMovement, error) {
	listing, err := listings.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if listing == nil {
		return nil, nil, domain.ErrNotFound
	}
	existing, err := records.Get(ctx, in.ProductID, in.SKU)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, domain.ErrDuplicateInitial
	}

	rec, err := inventory.NewRecord(in.ProductID, in.SKU, in.Quantity, in.LowStockThreshold,
		strings.TrimSpace(in.WarehouseID), in.ExpiryDate, now)
	if err != nil {
		return nil, nil, err
	}
	if err := records.Create(ctx, rec); err != nil {
		return nil, nil, err
	}
	return rec, uc.newMovement(rec, in, rec.Quantity, decimal.Zero, now), nil
}

func (uc *LedgerUseCase) move(
	ctx context.Context,
	records repository.InventoryRecordRepository,
	in MovementInput,
	now time.Time,
) (*entity.InventoryRecord, *entity.InventoryMovement, error) {
	rec, err := uc.load(ctx, records, in.ProductID, in.SKU, in.ExpectedVersion)
	if err != nil {
		return nil, nil, err
	}
	before := rec.Quantity
	delta, err := inventory.Apply(rec, in.Type, in.Quantity)
	if err != nil {
		return nil, nil, err
	}
	if err := uc.save(ctx, records, rec, now); err != nil {
		return nil, nil, err
	}
	return rec, uc.newMovement(rec, in, delta, before, now), nil
}

func (uc *LedgerUseCase) newMovement(rec *entity.InventoryRecord, in MovementInput, delta, before decimal.Decimal, now time.Time) *entity.InventoryMovement {
	return &entity.InventoryMovement{
		ID:             uuid.New().String(),
		ProductID:      rec.ProductID,
		SKU:            rec.SKU,
		Type:           in.Type,
		Quantity:       delta,
		QuantityBefore: before,
		QuantityAfter:  rec.Quantity,
		Note:           strings.TrimSpace(in.Note),
		CreatedBy:      in.Actor,
		CreatedAt:      now,
	}
}

// SetThreshold cambia el umbral de stock bajo. No genera movimiento.
func (uc *LedgerUseCase) SetThreshold(ctx context.Context, cmd RecordCommand, threshold decimal.Decimal) (*dto.InventoryRecordResponse, error) {
	return uc.mutate(ctx, cmd, "threshold", func(rec *entity.InventoryRecord) error {
		return inventory.SetThreshold(rec, threshold)
	})
}

// Reserve aparta cantidad del disponible.
func (uc *LedgerUseCase) Reserve(ctx context.Context, cmd RecordCommand, quantity decimal.Decimal) (*dto.InventoryRecordResponse, error) {
	return uc.mutate(ctx, cmd, "reserve", func(rec *entity.InventoryRecord) error {
		return inventory.Reserve(rec, quantity)
	})
}

// Release libera una reserva.
func (uc *LedgerUseCase) Release(ctx context.Context, cmd RecordCommand, quantity decimal.Decimal) (*dto.InventoryRecordResponse, error) {
	return uc.mutate(ctx, cmd, "release", func(rec *entity.InventoryRecord) error {
		return inventory.Release(rec, quantity)
	})
}

func (uc *LedgerUseCase) mutate(ctx context.Context, cmd RecordCommand, op string, fn func(rec *entity.InventoryRecord) error) (*dto.InventoryRecordResponse, error) {
	if cmd.ProductID == "" || strings.TrimSpace(cmd.SKU) == "" {
		return nil, fmt.Errorf("%w: product_id y sku son obligatorios", domain.ErrValidation)
	}
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	now := uc.clock.Now()

	var rec *entity.InventoryRecord
	err := uc.tx.RunInventory(ctx, func(
		records repository.InventoryRecordRepository,
		_ repository.InventoryMovementRepository,
		_ repository.ListingRepository,
	) error {
		var err error
		rec, err = uc.load(ctx, records, cmd.ProductID, strings.TrimSpace(cmd.SKU), cmd.ExpectedVersion)
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
		return uc.save(ctx, records, rec, now)
	})
	if err != nil {
		uc.logFailure(err, cmd.ProductID, cmd.SKU, op)
		return nil, err
	}
	uc.log.Info().Str("product_id", rec.ProductID).Str("sku", rec.SKU).Str("op", op).
		Str("reserved", rec.Reserved.String()).Bool("low_stock", rec.LowStock()).Msg("registro actualizado")
	resp := toRecordResponse(rec)
	return &resp, nil
}

func (uc *LedgerUseCase) load(ctx context.Context, records repository.InventoryRecordRepository, productID, sku string, expected *int64) (*entity.InventoryRecord, error) {
	rec, err := records.Get(ctx, productID, sku)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrUnknownInventoryRecord
	}
	if expected != nil && *expected != rec.Version {
		return nil, domain.ErrConcurrentModification
	}
	return rec, nil
}

func (uc *LedgerUseCase) save(ctx context.Context, records repository.InventoryRecordRepository, rec *entity.InventoryRecord, now time.Time) error {
	prev := rec.Version
	rec.Version++
	rec.UpdatedAt = now
	return records.Update(ctx, rec, prev)
}

func (uc *LedgerUseCase) logFailure(err error, productID, sku, op string) {
	ev := uc.log.Warn()
	if errors.Is(err, domain.ErrCollaboratorUnavailable) {
		ev = uc.log.Error()
	}
	ev.Err(err).Str("product_id", productID).Str("sku", sku).Str("op", op).Msg("operación de inventario no aplicada")
}
