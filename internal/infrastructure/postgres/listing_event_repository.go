package postgres

import (
	"context"

	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
	"github.com/jhoicas/catalog-backoffice/internal/domain/repository"
)

var _ repository.ListingEventRepository = (*ListingEventRepo)(nil)

// ListingEventRepo outbox de eventos de publicaciones sobre PostgreSQL.
type ListingEventRepo struct {
	q Querier
}

// NewListingEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewListingEventRepository(q Querier) *ListingEventRepo {
	return &ListingEventRepo{q: q}
}

// Create inserta el evento; debe correr en la misma tx que la transición.
func (r *ListingEventRepo) Create(ctx context.Context, e *entity.ListingEvent) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO listing_events (id, listing_id, type, version, payload, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.ListingID, e.Type, e.Version, []byte(e.Payload), e.Actor, e.CreatedAt,
	)
	return wrap("create listing event", err)
}

// ListByListing eventos de una publicación en orden de versión.
func (r *ListingEventRepo) ListByListing(ctx context.Context, listingID string, limit, offset int) ([]*entity.ListingEvent, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM listing_events WHERE listing_id = $1`, listingID).Scan(&total); err != nil {
		return nil, 0, wrap("count listing events", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, listing_id, type, version, payload, actor, created_at
		FROM listing_events WHERE listing_id = $1
		ORDER BY version, created_at
		LIMIT $2 OFFSET $3`, listingID, limit, offset)
	if err != nil {
		return nil, 0, wrap("list listing events", err)
	}
	defer rows.Close()

	var list []*entity.ListingEvent
	for rows.Next() {
		var e entity.ListingEvent
		var payload []byte
		if err := rows.Scan(&e.ID, &e.ListingID, &e.Type, &e.Version, &payload, &e.Actor, &e.CreatedAt); err != nil {
			return nil, 0, wrap("scan listing event", err)
		}
		e.Payload = payload
		list = append(list, &e)
	}
	return list, total, wrap("list listing events", rows.Err())
}
