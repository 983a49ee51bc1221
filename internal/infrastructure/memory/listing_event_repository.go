package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
)

type eventRepo struct {
	st    *state
	store *Store
}

func (r *eventRepo) Create(ctx context.Context, event *entity.ListingEvent) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if r.st == nil {
		return fmt.Errorf("memory: escritura fuera de transacción")
	}
	e := *event
	r.st.events = append(r.st.events, &e)
	return nil
}

// ListByListing devuelve los eventos en orden de inserción.
func (r *eventRepo) ListByListing(ctx context.Context, listingID string, limit, offset int) ([]*entity.ListingEvent, int, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, 0, err
	}
	st := r.st
	if st == nil {
		st = r.store.snapshot()
	}
	var out []*entity.ListingEvent
	for _, e := range st.events {
		if e.ListingID == listingID {
			c := *e
			out = append(out, &c)
		}
	}
	return page(out, limit, offset), len(out), nil
}
