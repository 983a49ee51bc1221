package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/catalog-backoffice/internal/domain"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
)

type recordRepo struct {
	st    *state
	store *Store
}

func (r *recordRepo) state() *state {
	if r.st != nil {
		return r.st
	}
	return r.store.snapshot()
}

func (r *recordRepo) Get(ctx context.Context, productID, sku string) (*entity.InventoryRecord, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	rec, ok := r.state().records[recordKey{productID, sku}]
	if !ok {
		return nil, nil
	}
	return rec.Clone(), nil
}

func (r *recordRepo) Create(ctx context.Context, record *entity.InventoryRecord) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if r.st == nil {
		return fmt.Errorf("memory: escritura fuera de transacción")
	}
	k := recordKey{record.ProductID, record.SKU}
	if _, ok := r.st.records[k]; ok {
		return domain.ErrDuplicateInitial
	}
	r.st.records[k] = record.Clone()
	return nil
}

func (r *recordRepo) Update(ctx context.Context, record *entity.InventoryRecord, expectedVersion int64) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if r.st == nil {
		return fmt.Errorf("memory: escritura fuera de transacción")
	}
	k := recordKey{record.ProductID, record.SKU}
	cur, ok := r.st.records[k]
	if !ok {
		return domain.ErrUnknownInventoryRecord
	}
	if cur.Version != expectedVersion {
		return domain.ErrConcurrentModification
	}
	r.st.records[k] = record.Clone()
	return nil
}

func (r *recordRepo) ListByProduct(ctx context.Context, productID string, filter entity.InventoryFilter, limit, offset int) ([]*entity.InventoryRecord, int, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, 0, err
	}
	var out []*entity.InventoryRecord
	for k, rec := range r.state().records {
		if k.productID != productID {
			continue
		}
		if filter.SKU != "" && rec.SKU != filter.SKU {
			continue
		}
		if filter.WarehouseID != "" && rec.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.LowStockOnly && !rec.LowStock() {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })

	items := page(out, limit, offset)
	res := make([]*entity.InventoryRecord, len(items))
	for i, rec := range items {
		res[i] = rec.Clone()
	}
	return res, len(out), nil
}

type movementRepo struct {
	st    *state
	store *Store
}

func (r *movementRepo) Create(ctx context.Context, movement *entity.InventoryMovement) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if r.st == nil {
		return fmt.Errorf("memory: escritura fuera de transacción")
	}
	r.st.seq++
	movement.Seq = r.st.seq
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	m := *movement
	r.st.movements = append(r.st.movements, &m)
	return nil
}

func (r *movementRepo) ListByProduct(ctx context.Context, productID string, filter entity.MovementFilter, limit, offset int) ([]*entity.InventoryMovement, int, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, 0, err
	}
	st := r.st
	if st == nil {
		st = r.store.snapshot()
	}
	var out []*entity.InventoryMovement
	for _, m := range st.movements {
		if m.ProductID != productID {
			continue
		}
		if filter.SKU != "" && m.SKU != filter.SKU {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.StartDate != nil && m.CreatedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && m.CreatedAt.After(*filter.EndDate) {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	desc := filter.Order != entity.SortOldestFirst
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if desc {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
		if desc {
			return a.Seq > b.Seq
		}
		return a.Seq < b.Seq
	})
	return page(out, limit, offset), len(out), nil
}
