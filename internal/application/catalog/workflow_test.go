package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-backoffice/internal/application/catalog"
	"github.com/jhoicas/catalog-backoffice/internal/application/dto"
	"github.com/jhoicas/catalog-backoffice/internal/domain"
	"github.com/jhoicas/catalog-backoffice/internal/infrastructure/memory"
	"github.com/jhoicas/catalog-backoffice/pkg/clock"
	"github.com/jhoicas/catalog-backoffice/pkg/logger"
)

var start = time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memory.Store
	clock    *clock.MockClock
	workflow *catalog.WorkflowUseCase
	query    *catalog.QueryUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	clk := clock.NewMockClock(start)
	return &fixture{
		store:    store,
		clock:    clk,
		workflow: catalog.NewWorkflowUseCase(store, clk, time.Second, logger.Nop()),
		query:    catalog.NewQueryUseCase(store.Listings(), store.ListingEvents(), clk, time.Second, 20, 100),
	}
}

// submitP1 publicación pendiente con 3 activos de los cuales 2 quedan verificados.
func (f *fixture) submitP1(t *testing.T) *dto.ListingResponse {
	t.Helper()
	ctx := context.Background()
	l, err := f.workflow.Submit(ctx, "admin-1", dto.SubmitListingRequest{
		VendorID:  "v-1",
		Name:      "Silla ergonómica",
		BasePrice: decimal.NewFromInt(1000),
		Assets: []dto.AssetInput{
			{Kind: "document", Label: "ficha técnica"},
			{Kind: "image", Label: "negro"},
			{Kind: "image", Label: "gris"},
		},
	})
	require.NoError(t, err)

	for _, a := range l.Assets[:2] {
		l, err = f.workflow.MarkAsset(ctx, catalog.Command{ListingID: l.ID, Actor: "rev-1"}, a.ID, dto.MarkAssetRequest{Verified: true})
		require.NoError(t, err)
	}
	l, err = f.workflow.MarkAsset(ctx, catalog.Command{ListingID: l.ID, Actor: "rev-1"}, l.Assets[2].ID,
		dto.MarkAssetRequest{Verified: false, Reason: "imagen borrosa", Suggestion: "fondo blanco"})
	require.NoError(t, err)
	require.Equal(t, 2, l.AssetSummary.VerifiedCount)
	return l
}

func version(v int64) *int64 { return &v }

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	l, err := f.workflow.Submit(context.Background(), "admin-1", dto.SubmitListingRequest{
		Name:      "  Lámpara  ",
		BasePrice: decimal.RequireFromString("99.999"),
		Assets:    []dto.AssetInput{{Kind: "model", Label: "glb"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Lámpara", l.Name)
	assert.Equal(t, "pending", l.Verification.Status)
	assert.Equal(t, "inactive", l.ActiveStatus)
	assert.Equal(t, int64(1), l.Version)
	assert.True(t, decimal.NewFromInt(100).Equal(l.BasePrice))
	assert.Equal(t, dto.AssetSummary{VerifiedCount: 0, TotalCount: 1, AllVerified: false}, l.AssetSummary)
}

func TestSubmit_Validacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.workflow.Submit(ctx, "a", dto.SubmitListingRequest{Name: "", BasePrice: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.workflow.Submit(ctx, "a", dto.SubmitListingRequest{Name: "x", BasePrice: decimal.NewFromInt(-1)})
	var pe *domain.PricingError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, domain.NegativeValue, pe.Kind)

	_, err = f.workflow.Submit(ctx, "a", dto.SubmitListingRequest{Name: "x", Assets: []dto.AssetInput{{Kind: "video"}}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestApprove_VerificaTodosLosActivos(t *testing.T) {
	f := newFixture(t)
	p1 := f.submitP1(t)

	l, err := f.workflow.VerifyAll(context.Background(), catalog.Command{ListingID: p1.ID, Actor: "rev-2"},
		dto.VerifyAllRequest{Status: "approved"})
	require.NoError(t, err)

	assert.Equal(t, "approved", l.Verification.Status)
	assert.Equal(t, "rev-2", l.Verification.ReviewedBy)
	assert.Equal(t, dto.AssetSummary{VerifiedCount: 3, TotalCount: 3, AllVerified: true}, l.AssetSummary)
	for _, a := range l.Assets {
		assert.True(t, a.Verified)
		assert.Empty(t, a.Reason)
	}
	assert.Equal(t, p1.Version+1, l.Version)

	// Lo persistido coincide con lo devuelto.
	stored, err := f.query.GetByID(context.Background(), p1.ID)
	require.NoError(t, err)
	assert.Equal(t, l.Version, stored.Version)
	assert.True(t, stored.AssetSummary.AllVerified)
}

func TestApprove_SegundaVezEsTransicionInvalida(t *testing.T) {
	f := newFixture(t)
	p1 := f.submitP1(t)
	cmd := catalog.Command{ListingID: p1.ID, Actor: "rev-1"}

	_, err := f.workflow.Approve(context.Background(), cmd)
	require.NoError(t, err)

	_, err = f.workflow.Approve(context.Background(), cmd)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	var te *domain.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "approved", te.Current)
}

func TestReject_MotivoVacio(t *testing.T) {
	f := newFixture(t)
	p1 := f.submitP1(t)

	_, err := f.workflow.VerifyAll(context.Background(), catalog.Command{ListingID: p1.ID},
		dto.VerifyAllRequest{Status: "rejected", Reason: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyReason)

	l, err := f.query.GetByID(context.Background(), p1.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", l.Verification.Status)
	assert.Equal(t, p1.Version, l.Version)
}

func TestReject_MotivoVacioAunqueNoExista(t *testing.T) {
	f := newFixture(t)
	_, err := f.workflow.Reject(context.Background(), catalog.Command{ListingID: "nope"}, "", "")
	assert.ErrorIs(t, err, domain.ErrEmptyReason)
}

func TestReject_ConservaMotivosDeActivos(t *testing.T) {
	f := newFixture(t)
	p1 := f.submitP1(t)

	l, err := f.workflow.Reject(context.Background(), catalog.Command{ListingID: p1.ID, Actor: "rev-1"},
		"faltan fotos", "agregar vista lateral")
	require.NoError(t, err)

	assert.Equal(t, "rejected", l.Verification.Status)
	assert.Equal(t, "faltan fotos", l.Verification.RejectionReason)
	assert.Equal(t, "agregar vista lateral", l.Verification.Suggestion)
	assert.Equal(t, 2, l.AssetSummary.VerifiedCount)
	assert.Equal(t, "imagen borrosa", l.Assets[2].Reason)
}

func TestResubmit(t *testing.T) {
	f := newFixture(t)
	p1 := f.submitP1(t)
	cmd := catalog.Command{ListingID: p1.ID, Actor: "admin"}

	_, err := f.workflow.Resubmit(context.Background(), cmd)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.workflow.Reject(context.Background(), cmd, "incompleta", "")
	require.NoError(t, err)
	l, err := f.workflow.Resubmit(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "pending", l.Verification.Status)
	assert.Empty(t, l.Verification.RejectionReason)
}

func TestMarkAsset(t *testing.T) {
	f := newFixture(t)
	p1 := f.submitP1(t)
	cmd := catalog.Command{ListingID: p1.ID, Actor: "rev-1"}

	_, err := f.workflow.MarkAsset(context.Background(), cmd, "no-existe", dto.MarkAssetRequest{Verified: true})
	assert.ErrorIs(t, err, domain.ErrAssetNotFound)

	_, err = f.workflow.MarkAsset(context.Background(), cmd, p1.Assets[0].ID, dto.MarkAssetRequest{Verified: false})
	assert.ErrorIs(t, err, domain.ErrEmptyReason)

	_, err = f.workflow.Approve(context.Background(), cmd)
	require.NoError(t, err)
	_, err = f.workflow.MarkAsset(context.Background(), cmd, p1.Assets[0].ID, dto.MarkAssetRequest{Verified: true})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestSetActiveStatus(t *testing.T) {
	f := newFixture(t)
	p1 := f.submitP1(t)
	cmd := catalog.Command{ListingID: p1.ID, Actor: "op-1"}

	// Permitido incluso estando pendiente y sin efecto en la verificación.
	l, err := f.workflow.SetActiveStatus(context.Background(), cmd, dto.ActiveStatusRequest{ActiveStatus: "active"})
	require.NoError(t, err)
	assert.Equal(t, "active", l.ActiveStatus)
	assert.Equal(t, "pending", l.Verification.Status)
	assert.Equal(t, p1.Version+1, l.Version)

	// Sin cambio: ni versión nueva ni evento.
	same, err := f.workflow.SetActiveStatus(context.Background(), cmd, dto.ActiveStatusRequest{ActiveStatus: "active"})
	require.NoError(t, err)
	assert.Equal(t, l.Version, same.Version)

	_, err = f.workflow.SetActiveStatus(context.Background(), cmd, dto.ActiveStatusRequest{ActiveStatus: "hidden"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdatePricing(t *testing.T) {
	f := newFixture(t)
	p1 := f.submitP1(t)
	cmd := catalog.Command{ListingID: p1.ID, Actor: "op-1"}

	_, err := f.workflow.UpdatePricing(context.Background(), cmd, dto.PricingRequest{SalePrice: decimal.NewFromInt(1200)})
	var pe *domain.PricingError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, domain.SaleExceedsBase, pe.Kind)

	validTill := start.Add(48 * time.Hour)
	l, err := f.workflow.UpdatePricing(context.Background(), cmd, dto.PricingRequest{
		SalePrice: decimal.NewFromInt(900),
		Discount:  &dto.DiscountDTO{Type: "percentage", Value: decimal.NewFromInt(10), ValidTill: &validTill},
		Tax:       &dto.TaxDTO{TaxID: " IVA ", Rate: decimal.NewFromInt(19)},
	})
	require.NoError(t, err)
	require.NotNil(t, l.Pricing)
	assert.True(t, decimal.NewFromInt(900).Equal(l.Pricing.DiscountedPrice))
	assert.Equal(t, "IVA", l.Pricing.Tax.TaxID)

	expired := start.Add(-time.Minute)
	_, err = f.workflow.UpdatePricing(context.Background(), cmd, dto.PricingRequest{
		SalePrice: decimal.NewFromInt(900),
		Discount:  &dto.DiscountDTO{Type: "fixed", Value: decimal.NewFromInt(5), ValidTill: &expired},
	})
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, domain.ExpiredValidity, pe.Kind)
}

func TestTransicion_VersionEsperadaObsoleta(t *testing.T) {
	f := newFixture(t)
	p1 := f.submitP1(t)

	_, err := f.workflow.Approve(context.Background(), catalog.Command{ListingID: p1.ID, ExpectedVersion: version(p1.Version - 1)})
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	assert.True(t, domain.IsTransient(err))

	l, err := f.workflow.Approve(context.Background(), catalog.Command{ListingID: p1.ID, ExpectedVersion: version(p1.Version)})
	require.NoError(t, err)
	assert.Equal(t, "approved", l.Verification.Status)
}

func TestTransicion_RevisoresConcurrentes(t *testing.T) {
	f := newFixture(t)
	p1 := f.submitP1(t)
	cmd := catalog.Command{ListingID: p1.ID, ExpectedVersion: version(p1.Version)}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = f.workflow.Approve(context.Background(), cmd)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = f.workflow.Reject(context.Background(), cmd, "duplicada", "")
	}()
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrConcurrentModification):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)

	events, err := f.query.Events(context.Background(), p1.ID, dto.PageRequest{PageSize: 100})
	require.NoError(t, err)
	// submitted + 3 asset_marked + una sola decisión
	assert.Equal(t, 5, events.Page.TotalCount)
}

func TestTransicion_TimeoutEsTransitorioYNoAplica(t *testing.T) {
	f := newFixture(t)
	p1 := f.submitP1(t)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	_, err := f.workflow.Approve(ctx, catalog.Command{ListingID: p1.ID})
	assert.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
	assert.True(t, domain.IsTransient(err))

	l, err := f.query.GetByID(context.Background(), p1.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", l.Verification.Status)
}

func TestTransicion_NoEncontrada(t *testing.T) {
	f := newFixture(t)
	_, err := f.workflow.Approve(context.Background(), catalog.Command{ListingID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
