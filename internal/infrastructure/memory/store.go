// Package memory implementa el almacén del catálogo en memoria. Se usa en desarrollo
// (STORE_DRIVER=memory) y como doble de prueba de los casos de uso.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/catalog-backoffice/internal/domain"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
	"github.com/jhoicas/catalog-backoffice/internal/domain/repository"
)

type recordKey struct {
	productID string
	sku       string
}

// state contenido confirmado del almacén.
type state struct {
	listings  map[string]*entity.Listing
	events    []*entity.ListingEvent
	records   map[recordKey]*entity.InventoryRecord
	movements []*entity.InventoryMovement
	seq       int64
}

// Store almacén en memoria. Las transacciones se serializan con un único escritor y
// trabajan sobre una copia que solo se publica al confirmar.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: &state{
		listings: make(map[string]*entity.Listing),
		records:  make(map[recordKey]*entity.InventoryRecord),
	}}
}

// RunCatalog ejecuta fn con repositorios de publicaciones atados a una transacción.
func (s *Store) RunCatalog(ctx context.Context, fn func(listings repository.ListingRepository, events repository.ListingEventRepository) error) error {
	return s.run(ctx, func(tx *state) error {
		return fn(&listingRepo{st: tx}, &eventRepo{st: tx})
	})
}

// RunInventory ejecuta fn con repositorios de inventario atados a una transacción.
func (s *Store) RunInventory(ctx context.Context, fn func(records repository.InventoryRecordRepository, movements repository.InventoryMovementRepository, listings repository.ListingRepository) error) error {
	return s.run(ctx, func(tx *state) error {
		return fn(&recordRepo{st: tx}, &movementRepo{st: tx}, &listingRepo{st: tx})
	})
}

// ReadInventory ejecuta fn sobre la instantánea confirmada; lo que fn escriba se descarta.
func (s *Store) ReadInventory(ctx context.Context, fn func(records repository.InventoryRecordRepository, movements repository.InventoryMovementRepository, listings repository.ListingRepository) error) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	snap := s.snapshot().copy()
	return fn(&recordRepo{st: snap}, &movementRepo{st: snap}, &listingRepo{st: snap})
}

func (s *Store) run(ctx context.Context, fn func(tx *state) error) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.st.copy()
	if err := fn(tx); err != nil {
		return err
	}
	// Cancelado antes de confirmar: nada se publica.
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// Listings repositorio de lectura fuera de transacción.
func (s *Store) Listings() repository.ListingRepository { return &listingRepo{store: s} }

// ListingEvents repositorio de eventos fuera de transacción.
func (s *Store) ListingEvents() repository.ListingEventRepository { return &eventRepo{store: s} }

// InventoryRecords repositorio de registros fuera de transacción.
func (s *Store) InventoryRecords() repository.InventoryRecordRepository { return &recordRepo{store: s} }

// InventoryMovements repositorio del diario fuera de transacción.
func (s *Store) InventoryMovements() repository.InventoryMovementRepository {
	return &movementRepo{store: s}
}

// snapshot devuelve el estado confirmado actual; las entidades nunca se mutan en sitio.
func (s *Store) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st
}

// copy copia los índices; las entidades se comparten porque toda escritura las reemplaza por un clon.
func (st *state) copy() *state {
	c := &state{
		listings:  make(map[string]*entity.Listing, len(st.listings)),
		events:    append([]*entity.ListingEvent(nil), st.events...),
		records:   make(map[recordKey]*entity.InventoryRecord, len(st.records)),
		movements: append([]*entity.InventoryMovement(nil), st.movements...),
		seq:       st.seq,
	}
	for k, v := range st.listings {
		c.listings[k] = v
	}
	for k, v := range st.records {
		c.records[k] = v
	}
	return c
}

func ctxErr(ctx context.Context) error {
	err := ctx.Err()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", domain.ErrCollaboratorUnavailable, err)
	default:
		return err
	}
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
