package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
	"github.com/jhoicas/catalog-backoffice/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// La tabla no admite UPDATE ni DELETE desde la aplicación.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `id, seq, product_id, sku, type, quantity, quantity_before, quantity_after, note, created_by, created_at`

// Create persiste un movimiento; seq lo asigna la secuencia de la tabla.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO inventory_movements (id, product_id, sku, type, quantity, quantity_before, quantity_after, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING seq`,
		m.ID, m.ProductID, m.SKU, string(m.Type), m.Quantity, m.QuantityBefore, m.QuantityAfter,
		m.Note, m.CreatedBy, m.CreatedAt,
	).Scan(&m.Seq)
	return wrap("create inventory movement", err)
}

// ListByProduct historial filtrado; los empates de created_at se ordenan por seq en la misma dirección.
func (r *InventoryMovementRepo) ListByProduct(ctx context.Context, productID string, filter entity.MovementFilter, limit, offset int) ([]*entity.InventoryMovement, int, error) {
	var w whereBuilder
	w.add("product_id = ?", productID).
		addIf(filter.SKU != "", "sku = ?", filter.SKU).
		addIf(filter.Type != "", "type = ?", string(filter.Type)).
		addIf(filter.StartDate != nil, "created_at >= ?", filter.StartDate).
		addIf(filter.EndDate != nil, "created_at <= ?", filter.EndDate)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_movements`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, wrap("count inventory movements", err)
	}

	order := " ORDER BY created_at DESC, seq DESC"
	if filter.Order == entity.SortOldestFirst {
		order = " ORDER BY created_at ASC, seq ASC"
	}
	pageSQL, args := w.page(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+` FROM inventory_movements`+w.sql()+order+pageSQL, args...)
	if err != nil {
		return nil, 0, wrap("list inventory movements", err)
	}
	defer rows.Close()

	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		var typ string
		if err := rows.Scan(&m.ID, &m.Seq, &m.ProductID, &m.SKU, &typ, &m.Quantity, &m.QuantityBefore,
			&m.QuantityAfter, &m.Note, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, 0, wrap("scan inventory movement", err)
		}
		m.Type = entity.MovementType(typ)
		list = append(list, &m)
	}
	return list, total, wrap("list inventory movements", rows.Err())
}
