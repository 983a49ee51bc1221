package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-backoffice/internal/domain"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
	"github.com/jhoicas/catalog-backoffice/internal/domain/inventory"
)

func n(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newRecord(t *testing.T, qty, threshold int64) *entity.InventoryRecord {
	t.Helper()
	rec, err := inventory.NewRecord("P1", "A1", n(qty), n(threshold), "wh-1", nil, time.Now())
	require.NoError(t, err)
	return rec
}

func TestNewRecord(t *testing.T) {
	rec := newRecord(t, 50, 10)
	assert.True(t, rec.Reserved.IsZero())
	assert.Equal(t, int64(1), rec.Version)
	assert.False(t, rec.LowStock())

	_, err := inventory.NewRecord("P1", "A1", n(-1), n(0), "", nil, time.Now())
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = inventory.NewRecord("P1", "", n(1), n(0), "", nil, time.Now())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// Escenario: SKU A1 con 50 y umbral 10; out 45 → 5 y stock bajo; out 10 → InsufficientStock.
func TestApply_EscenarioA1(t *testing.T) {
	rec := newRecord(t, 50, 10)

	delta, err := inventory.Apply(rec, entity.MovementTypeOut, n(45))
	require.NoError(t, err)
	assert.True(t, delta.Equal(n(-45)))
	assert.True(t, rec.Quantity.Equal(n(5)))
	assert.True(t, rec.LowStock())

	_, err = inventory.Apply(rec, entity.MovementTypeOut, n(10))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, rec.Quantity.Equal(n(5)))
}

func TestApply_OutRespetaReservado(t *testing.T) {
	rec := newRecord(t, 20, 0)
	require.NoError(t, inventory.Reserve(rec, n(8)))

	_, err := inventory.Apply(rec, entity.MovementTypeOut, n(13))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = inventory.Apply(rec, entity.MovementTypeOut, n(12))
	require.NoError(t, err)
	assert.True(t, rec.Quantity.Equal(n(8)))
	assert.True(t, rec.Available().IsZero())
}

func TestApply_Adjustment(t *testing.T) {
	rec := newRecord(t, 30, 5)

	delta, err := inventory.Apply(rec, entity.MovementTypeAdjustment, n(12))
	require.NoError(t, err)
	assert.True(t, delta.Equal(n(-18)))
	assert.True(t, rec.Quantity.Equal(n(12)))

	delta, err = inventory.Apply(rec, entity.MovementTypeAdjustment, n(40))
	require.NoError(t, err)
	assert.True(t, delta.Equal(n(28)))

	_, err = inventory.Apply(rec, entity.MovementTypeAdjustment, n(-1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestApply_CantidadesInvalidas(t *testing.T) {
	rec := newRecord(t, 10, 0)
	for _, typ := range []entity.MovementType{entity.MovementTypeIn, entity.MovementTypeOut} {
		_, err := inventory.Apply(rec, typ, n(0))
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = inventory.Apply(rec, typ, n(-3))
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	_, err := inventory.Apply(rec, entity.MovementTypeInitial, n(3))
	assert.ErrorIs(t, err, domain.ErrDuplicateInitial)
	_, err = inventory.Apply(rec, "transfer", n(3))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, rec.Quantity.Equal(n(10)))
}

// La cantidad final es inicial + Σin − Σout + Σdeltas de ajuste.
func TestApply_SumaDeDeltas(t *testing.T) {
	rec := newRecord(t, 100, 10)
	initial := rec.Quantity
	steps := []struct {
		typ entity.MovementType
		qty int64
	}{
		{entity.MovementTypeIn, 15},
		{entity.MovementTypeOut, 40},
		{entity.MovementTypeAdjustment, 60},
		{entity.MovementTypeOut, 7},
		{entity.MovementTypeIn, 3},
		{entity.MovementTypeAdjustment, 90},
	}
	sum := decimal.Zero
	for _, s := range steps {
		delta, err := inventory.Apply(rec, s.typ, n(s.qty))
		require.NoError(t, err)
		sum = sum.Add(delta)
	}
	assert.True(t, rec.Quantity.Equal(initial.Add(sum)))
	assert.True(t, rec.Quantity.Equal(n(90)))
}

func TestLowStock(t *testing.T) {
	rec := newRecord(t, 15, 10)
	assert.False(t, rec.LowStock())

	require.NoError(t, inventory.Reserve(rec, n(5)))
	assert.True(t, rec.LowStock(), "15-5 <= 10")

	require.NoError(t, inventory.Release(rec, n(5)))
	assert.False(t, rec.LowStock())

	require.NoError(t, inventory.SetThreshold(rec, n(15)))
	assert.True(t, rec.LowStock())
	assert.ErrorIs(t, inventory.SetThreshold(rec, n(-1)), domain.ErrValidation)
}

func TestReserveRelease(t *testing.T) {
	rec := newRecord(t, 10, 0)
	assert.ErrorIs(t, inventory.Reserve(rec, n(11)), domain.ErrInsufficientStock)
	assert.ErrorIs(t, inventory.Reserve(rec, n(0)), domain.ErrValidation)
	require.NoError(t, inventory.Reserve(rec, n(10)))
	assert.ErrorIs(t, inventory.Release(rec, n(11)), domain.ErrValidation)
	require.NoError(t, inventory.Release(rec, n(4)))
	assert.True(t, rec.Reserved.Equal(n(6)))
}

// Más de 3 decimales no cabe en el almacén: se rechaza antes de tocar el registro.
func TestCantidadesConDemasiadosDecimales(t *testing.T) {
	fine := decimal.RequireFromString("0.0004")

	_, err := inventory.NewRecord("P1", "A1", fine, n(0), "", nil, time.Now())
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = inventory.NewRecord("P1", "A1", n(1), decimal.RequireFromString("2.5001"), "", nil, time.Now())
	assert.ErrorIs(t, err, domain.ErrValidation)

	rec := newRecord(t, 10, 0)
	for _, typ := range []entity.MovementType{entity.MovementTypeIn, entity.MovementTypeOut, entity.MovementTypeAdjustment} {
		_, err := inventory.Apply(rec, typ, fine)
		assert.ErrorIs(t, err, domain.ErrValidation, "tipo %s", typ)
	}
	assert.True(t, rec.Quantity.Equal(n(10)))

	assert.ErrorIs(t, inventory.Reserve(rec, fine), domain.ErrValidation)
	assert.ErrorIs(t, inventory.SetThreshold(rec, fine), domain.ErrValidation)
	require.NoError(t, inventory.Reserve(rec, n(2)))
	assert.ErrorIs(t, inventory.Release(rec, decimal.RequireFromString("1.0001")), domain.ErrValidation)
	assert.True(t, rec.Reserved.Equal(n(2)))

	delta, err := inventory.Apply(rec, entity.MovementTypeIn, decimal.RequireFromString("0.125"))
	require.NoError(t, err)
	assert.Equal(t, "0.125", delta.String())
	assert.Equal(t, "10.125", rec.Quantity.String())
	// 1.5000 tiene exponente -4 pero su valor cabe en 3 decimales.
	_, err = inventory.Apply(rec, entity.MovementTypeIn, decimal.RequireFromString("1.5000"))
	assert.NoError(t, err)
}

func TestCantidadFueraDeRango(t *testing.T) {
	rec := newRecord(t, 10, 0)
	_, err := inventory.Apply(rec, entity.MovementTypeIn, decimal.New(1, 11))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, rec.Quantity.Equal(n(10)))
}
