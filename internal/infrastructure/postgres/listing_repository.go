package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalog-backoffice/internal/domain"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
	"github.com/jhoicas/catalog-backoffice/internal/domain/repository"
)

var _ repository.ListingRepository = (*ListingRepo)(nil)

// ListingRepo implementación sobre PostgreSQL de publicaciones y sus activos (usable con pool o tx).
type ListingRepo struct {
	q Querier
}

// NewListingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewListingRepository(q Querier) *ListingRepo {
	return &ListingRepo{q: q}
}

const listingColumns = `
	id, vendor_id, name, description, category_id, base_price, currency_symbol,
	sale_price, discount_type, discount_value, discount_valid_till, tax_id, tax_rate,
	verification_status, rejection_reason, suggestion, reviewed_by, reviewed_at,
	active_status, version, created_at, updated_at`

// pricingColumns valores nulos cuando la publicación aún no tiene precio de venta.
type pricingColumns struct {
	salePrice     decimal.NullDecimal
	discountType  *string
	discountValue decimal.NullDecimal
	validTill     *time.Time
	taxID         *string
	taxRate       decimal.NullDecimal
}

func pricingArgs(p *entity.Pricing) pricingColumns {
	var c pricingColumns
	if p == nil {
		return c
	}
	c.salePrice = decimal.NullDecimal{Decimal: p.SalePrice, Valid: true}
	if p.Discount != nil {
		t := string(p.Discount.Type)
		c.discountType = &t
		c.discountValue = decimal.NullDecimal{Decimal: p.Discount.Value, Valid: true}
		c.validTill = p.Discount.ValidTill
	}
	if p.Tax != nil {
		id := p.Tax.TaxID
		c.taxID = &id
		c.taxRate = decimal.NullDecimal{Decimal: p.Tax.Rate, Valid: true}
	}
	return c
}

func (c pricingColumns) toEntity() *entity.Pricing {
	if !c.salePrice.Valid {
		return nil
	}
	p := &entity.Pricing{SalePrice: c.salePrice.Decimal}
	if c.discountType != nil {
		p.Discount = &entity.Discount{
			Type:      entity.DiscountType(*c.discountType),
			Value:     c.discountValue.Decimal,
			ValidTill: c.validTill,
		}
	}
	if c.taxID != nil {
		p.Tax = &entity.Tax{TaxID: *c.taxID, Rate: c.taxRate.Decimal}
	}
	return p
}

func scanListing(row pgx.Row) (*entity.Listing, error) {
	var (
		l          entity.Listing
		pc         pricingColumns
		status     string
		active     string
		vendor     *string
		reviewedAt *time.Time
	)
	err := row.Scan(
		&l.ID, &vendor, &l.Name, &l.Description, &l.CategoryID, &l.BasePrice, &l.CurrencySymbol,
		&pc.salePrice, &pc.discountType, &pc.discountValue, &pc.validTill, &pc.taxID, &pc.taxRate,
		&status, &l.Verification.RejectionReason, &l.Verification.Suggestion, &l.Verification.ReviewedBy, &reviewedAt,
		&active, &l.Version, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if vendor != nil {
		l.VendorID = *vendor
	}
	l.Pricing = pc.toEntity()
	l.Verification.Status = entity.VerificationStatus(status)
	l.Verification.ReviewedAt = reviewedAt
	l.ActiveStatus = entity.ActiveStatus(active)
	return &l, nil
}

// Create persiste la publicación y sus activos con un batch.
func (r *ListingRepo) Create(ctx context.Context, l *entity.Listing) error {
	pc := pricingArgs(l.Pricing)
	var vendor *string
	if l.VendorID != "" {
		vendor = &l.VendorID
	}

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO listings (`+listingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		l.ID, vendor, l.Name, l.Description, l.CategoryID, l.BasePrice, l.CurrencySymbol,
		pc.salePrice, pc.discountType, pc.discountValue, pc.validTill, pc.taxID, pc.taxRate,
		string(l.Verification.Status), l.Verification.RejectionReason, l.Verification.Suggestion,
		l.Verification.ReviewedBy, l.Verification.ReviewedAt,
		string(l.ActiveStatus), l.Version, l.CreatedAt, l.UpdatedAt,
	)
	for _, a := range l.Assets {
		batch.Queue(`
			INSERT INTO listing_assets (id, listing_id, kind, label, position, verified, reason, suggestion)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			a.ID, l.ID, string(a.Kind), a.Label, a.Position, a.Verified, a.Reason, a.Suggestion,
		)
	}
	return wrap("create listing", r.execBatch(ctx, batch))
}

// GetByID obtiene la publicación con sus activos ordenados. nil, nil si no existe.
func (r *ListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	l, err := scanListing(r.q.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get listing", err)
	}
	if err := r.loadAssets(ctx, []*entity.Listing{l}); err != nil {
		return nil, err
	}
	return l, nil
}

// Update aplica la transición solo si la versión almacenada sigue siendo expectedVersion.
// Los activos se actualizan en el mismo batch: aprobar y verificar activos es una sola escritura.
func (r *ListingRepo) Update(ctx context.Context, l *entity.Listing, expectedVersion int64) error {
	pc := pricingArgs(l.Pricing)
	tag, err := r.q.Exec(ctx, `
		UPDATE listings SET
			sale_price = $3, discount_type = $4, discount_value = $5, discount_valid_till = $6,
			tax_id = $7, tax_rate = $8,
			verification_status = $9, rejection_reason = $10, suggestion = $11,
			reviewed_by = $12, reviewed_at = $13,
			active_status = $14, version = $15, updated_at = $16
		WHERE id = $1 AND version = $2`,
		l.ID, expectedVersion,
		pc.salePrice, pc.discountType, pc.discountValue, pc.validTill, pc.taxID, pc.taxRate,
		string(l.Verification.Status), l.Verification.RejectionReason, l.Verification.Suggestion,
		l.Verification.ReviewedBy, l.Verification.ReviewedAt,
		string(l.ActiveStatus), l.Version, l.UpdatedAt,
	)
	if err != nil {
		return wrap("update listing", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentModification
	}
	if len(l.Assets) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, a := range l.Assets {
		batch.Queue(`UPDATE listing_assets SET verified = $3, reason = $4, suggestion = $5 WHERE id = $1 AND listing_id = $2`,
			a.ID, l.ID, a.Verified, a.Reason, a.Suggestion)
	}
	return wrap("update listing assets", r.execBatch(ctx, batch))
}

// List filtra con AND sobre los campos presentes; search busca en nombre y descripción con ILIKE.
func (r *ListingRepo) List(ctx context.Context, filter entity.ListingFilter, limit, offset int) ([]*entity.Listing, int, error) {
	filter = filter.Normalize()
	var w whereBuilder
	w.addIf(filter.Status != "", "verification_status = ?", string(filter.Status)).
		addIf(filter.ActiveStatus != "", "active_status = ?", string(filter.ActiveStatus)).
		addIf(filter.CategoryID != "", "category_id = ?", filter.CategoryID).
		addIf(filter.CreatedFrom != nil, "created_at >= ?", filter.CreatedFrom).
		addIf(filter.CreatedTo != nil, "created_at <= ?", filter.CreatedTo)
	if filter.Search != "" {
		w.add(`(name ILIKE ? OR description ILIKE ?)`, "%"+escapeLike(filter.Search)+"%", "%"+escapeLike(filter.Search)+"%")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM listings`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, wrap("count listings", err)
	}

	pageSQL, args := w.page(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+listingColumns+` FROM listings`+w.sql()+` ORDER BY created_at DESC, id`+pageSQL, args...)
	if err != nil {
		return nil, 0, wrap("list listings", err)
	}
	defer rows.Close()

	var list []*entity.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, wrap("scan listing", err)
		}
		list = append(list, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrap("list listings", err)
	}
	rows.Close()

	if err := r.loadAssets(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Stats proyección de lectura en una sola consulta de agregados.
func (r *ListingRepo) Stats(ctx context.Context) (*entity.ListingStats, error) {
	var s entity.ListingStats
	err := r.q.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE verification_status = 'pending'),
			COUNT(*) FILTER (WHERE verification_status = 'approved'),
			COUNT(*) FILTER (WHERE verification_status = 'rejected'),
			COUNT(*) FILTER (WHERE active_status = 'active'),
			COUNT(*) FILTER (WHERE active_status = 'inactive'),
			(SELECT COUNT(*) FROM inventory_records WHERE quantity - reserved <= low_stock_threshold)
		FROM listings`,
	).Scan(&s.Total, &s.Pending, &s.Approved, &s.Rejected, &s.Active, &s.Inactive, &s.LowStockSKUs)
	if err != nil {
		return nil, wrap("listing stats", err)
	}
	return &s, nil
}

func (r *ListingRepo) loadAssets(ctx context.Context, listings []*entity.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Listing, len(listings))
	ids := make([]string, 0, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
		ids = append(ids, l.ID)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, listing_id, kind, label, position, verified, reason, suggestion
		FROM listing_assets WHERE listing_id = ANY($1)
		ORDER BY listing_id, position`, ids)
	if err != nil {
		return wrap("list listing assets", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a entity.AssetRecord
		var kind string
		if err := rows.Scan(&a.ID, &a.ListingID, &kind, &a.Label, &a.Position, &a.Verified, &a.Reason, &a.Suggestion); err != nil {
			return wrap("scan listing asset", err)
		}
		a.Kind = entity.AssetKind(kind)
		if l, ok := byID[a.ListingID]; ok {
			l.Assets = append(l.Assets, a)
		}
	}
	return wrap("list listing assets", rows.Err())
}

func (r *ListingRepo) execBatch(ctx context.Context, batch *pgx.Batch) error {
	br := r.q.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return err
		}
	}
	return br.Close()
}
