package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalog-backoffice/internal/domain"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
	"github.com/jhoicas/catalog-backoffice/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo implementación de InventoryRecordRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

const recordColumns = `product_id, sku, quantity, reserved, low_stock_threshold, warehouse_id, expiry_date, version, created_at, updated_at`

func scanRecord(row pgx.Row) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	err := row.Scan(&rec.ProductID, &rec.SKU, &rec.Quantity, &rec.Reserved, &rec.LowStockThreshold,
		&rec.WarehouseID, &rec.ExpiryDate, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Get obtiene el registro (producto, SKU). nil, nil si no existe.
func (r *InventoryRecordRepo) Get(ctx context.Context, productID, sku string) (*entity.InventoryRecord, error) {
	rec, err := scanRecord(r.q.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM inventory_records WHERE product_id = $1 AND sku = $2`, productID, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get inventory record", err)
	}
	return rec, nil
}

// Create inserta el registro; la PK (product_id, sku) convierte el alta duplicada en ErrDuplicateInitial.
func (r *InventoryRecordRepo) Create(ctx context.Context, rec *entity.InventoryRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ProductID, rec.SKU, rec.Quantity, rec.Reserved, rec.LowStockThreshold,
		rec.WarehouseID, rec.ExpiryDate, rec.Version, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateInitial
		}
		return wrap("create inventory record", err)
	}
	return nil
}

// Update exige que la versión almacenada sea expectedVersion.
func (r *InventoryRecordRepo) Update(ctx context.Context, rec *entity.InventoryRecord, expectedVersion int64) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE inventory_records SET
			quantity = $4, reserved = $5, low_stock_threshold = $6, version = $7, updated_at = $8
		WHERE product_id = $1 AND sku = $2 AND version = $3`,
		rec.ProductID, rec.SKU, expectedVersion,
		rec.Quantity, rec.Reserved, rec.LowStockThreshold, rec.Version, rec.UpdatedAt,
	)
	if err != nil {
		return wrap("update inventory record", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentModification
	}
	return nil
}

// ListByProduct registros del producto; low_stock se evalúa en SQL con la misma fórmula que la entidad.
func (r *InventoryRecordRepo) ListByProduct(ctx context.Context, productID string, filter entity.InventoryFilter, limit, offset int) ([]*entity.InventoryRecord, int, error) {
	var w whereBuilder
	w.add("product_id = ?", productID).
		addIf(filter.SKU != "", "sku = ?", filter.SKU).
		addIf(filter.WarehouseID != "", "warehouse_id = ?", filter.WarehouseID)
	if filter.LowStockOnly {
		w.add("quantity - reserved <= low_stock_threshold")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_records`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, wrap("count inventory records", err)
	}
	pageSQL, args := w.page(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+recordColumns+` FROM inventory_records`+w.sql()+` ORDER BY sku`+pageSQL, args...)
	if err != nil {
		return nil, 0, wrap("list inventory records", err)
	}
	defer rows.Close()

	var list []*entity.InventoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, wrap("scan inventory record", err)
		}
		list = append(list, rec)
	}
	return list, total, wrap("list inventory records", rows.Err())
}
