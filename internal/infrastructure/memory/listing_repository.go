package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/catalog-backoffice/internal/domain"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
)

// listingRepo opera sobre st (dentro de una transacción) o sobre el snapshot de store.
type listingRepo struct {
	st    *state
	store *Store
}

func (r *listingRepo) state() *state {
	if r.st != nil {
		return r.st
	}
	return r.store.snapshot()
}

func (r *listingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if r.st == nil {
		return fmt.Errorf("memory: escritura fuera de transacción")
	}
	if _, ok := r.st.listings[listing.ID]; ok {
		return fmt.Errorf("%w: publicación %s ya existe", domain.ErrValidation, listing.ID)
	}
	r.st.listings[listing.ID] = listing.Clone()
	return nil
}

func (r *listingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	l, ok := r.state().listings[id]
	if !ok {
		return nil, nil
	}
	return l.Clone(), nil
}

func (r *listingRepo) Update(ctx context.Context, listing *entity.Listing, expectedVersion int64) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if r.st == nil {
		return fmt.Errorf("memory: escritura fuera de transacción")
	}
	cur, ok := r.st.listings[listing.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return domain.ErrConcurrentModification
	}
	r.st.listings[listing.ID] = listing.Clone()
	return nil
}

func (r *listingRepo) List(ctx context.Context, filter entity.ListingFilter, limit, offset int) ([]*entity.Listing, int, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, 0, err
	}
	filter = filter.Normalize()
	search := strings.ToLower(filter.Search)

	var out []*entity.Listing
	for _, l := range r.state().listings {
		if filter.Status != "" && l.Verification.Status != filter.Status {
			continue
		}
		if filter.ActiveStatus != "" && l.ActiveStatus != filter.ActiveStatus {
			continue
		}
		if filter.CategoryID != "" && l.CategoryID != filter.CategoryID {
			continue
		}
		if filter.CreatedFrom != nil && l.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedTo != nil && l.CreatedAt.After(*filter.CreatedTo) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(l.Name), search) &&
			!strings.Contains(strings.ToLower(l.Description), search) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	total := len(out)
	items := page(out, limit, offset)
	res := make([]*entity.Listing, len(items))
	for i, l := range items {
		res[i] = l.Clone()
	}
	return res, total, nil
}

func (r *listingRepo) Stats(ctx context.Context) (*entity.ListingStats, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	st := r.state()
	stats := &entity.ListingStats{Total: len(st.listings)}
	for _, l := range st.listings {
		switch l.Verification.Status {
		case entity.VerificationPending:
			stats.Pending++
		case entity.VerificationApproved:
			stats.Approved++
		case entity.VerificationRejected:
			stats.Rejected++
		}
		if l.ActiveStatus == entity.ActiveStatusActive {
			stats.Active++
		} else {
			stats.Inactive++
		}
	}
	for _, rec := range st.records {
		if rec.LowStock() {
			stats.LowStockSKUs++
		}
	}
	return stats, nil
}
