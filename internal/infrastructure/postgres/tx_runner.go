package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/catalog-backoffice/internal/application/catalog"
	"github.com/jhoicas/catalog-backoffice/internal/application/inventory"
	"github.com/jhoicas/catalog-backoffice/internal/domain/repository"
)

// Ensure TxRunner implements catalog.TxRunner and inventory.TxRunner.
var _ catalog.TxRunner = (*TxRunner)(nil)
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunCatalog inicia una transacción, ejecuta fn con los repos de publicaciones y eventos atados a la tx
// y hace Commit o Rollback.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	listings repository.ListingRepository,
	events repository.ListingEventRepository,
) error) error {
	return r.run(ctx, pgx.TxOptions{}, func(q Querier) error {
		return fn(NewListingRepository(q), NewListingEventRepository(q))
	})
}

// RunInventory inicia una transacción con los repos de inventario y la lectura de publicaciones.
func (r *TxRunner) RunInventory(ctx context.Context, fn func(
	records repository.InventoryRecordRepository,
	movements repository.InventoryMovementRepository,
	listings repository.ListingRepository,
) error) error {
	return r.run(ctx, pgx.TxOptions{}, func(q Querier) error {
		return fn(NewInventoryRecordRepository(q), NewInventoryMovementRepository(q), NewListingRepository(q))
	})
}

// ReadInventory abre una transacción REPEATABLE READ de solo lectura: todas las consultas de fn
// ven la misma instantánea.
func (r *TxRunner) ReadInventory(ctx context.Context, fn func(
	records repository.InventoryRecordRepository,
	movements repository.InventoryMovementRepository,
	listings repository.ListingRepository,
) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	return r.run(ctx, opts, func(q Querier) error {
		return fn(NewInventoryRecordRepository(q), NewInventoryMovementRepository(q), NewListingRepository(q))
	})
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(q Querier) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return wrap("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrap("commit transaction", err)
	}
	return nil
}
