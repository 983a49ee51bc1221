package verification_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-backoffice/internal/domain"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
	"github.com/jhoicas/catalog-backoffice/internal/domain/verification"
)

var now = time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)

// pendingListing "P1" con 3 activos, 2 verificados.
func pendingListing() *entity.Listing {
	return &entity.Listing{
		ID:           "P1",
		Verification: entity.Verification{Status: entity.VerificationPending},
		ActiveStatus: entity.ActiveStatusInactive,
		Assets: []entity.AssetRecord{
			{ID: "a1", Kind: entity.AssetKindDocument, Label: "invima", Verified: true},
			{ID: "a2", Kind: entity.AssetKindImage, Label: "rojo", Verified: true},
			{ID: "a3", Kind: entity.AssetKindImage, Label: "azul", Verified: false, Reason: "imagen borrosa", Suggestion: "subir 1080p"},
		},
	}
}

func TestStatus(t *testing.T) {
	l := pendingListing()
	s := verification.Status(l)
	assert.Equal(t, verification.Summary{VerifiedCount: 2, TotalCount: 3, AllVerified: false}, s)

	l.Assets[2].Verified = true
	assert.True(t, verification.Status(l).AllVerified)

	// Sin modelo 3D ni activos opcionales: no bloquea.
	empty := &entity.Listing{}
	assert.Equal(t, verification.Summary{AllVerified: true}, verification.Status(empty))
}

func TestApprove_MarcaTodosLosActivos(t *testing.T) {
	l := pendingListing()
	require.NoError(t, verification.Approve(l, "rev-1", now))

	assert.Equal(t, entity.VerificationApproved, l.Verification.Status)
	assert.Equal(t, "rev-1", l.Verification.ReviewedBy)
	for _, a := range l.Assets {
		assert.True(t, a.Verified, "activo %s", a.ID)
		assert.Empty(t, a.Reason)
	}
	assert.Equal(t, 3, verification.Status(l).VerifiedCount)
}

func TestApprove_DosVecesEsTransicionInvalida(t *testing.T) {
	l := pendingListing()
	require.NoError(t, verification.Approve(l, "rev-1", now))

	err := verification.Approve(l, "rev-2", now)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	var te *domain.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "approved", te.Current)
}

func TestReject(t *testing.T) {
	t.Run("motivo vacío en cualquier estado", func(t *testing.T) {
		for _, st := range []entity.VerificationStatus{entity.VerificationPending, entity.VerificationApproved, entity.VerificationRejected} {
			l := pendingListing()
			l.Verification.Status = st
			err := verification.Reject(l, "   ", "", "rev", now)
			assert.ErrorIs(t, err, domain.ErrEmptyReason, "estado %s", st)
			assert.Equal(t, st, l.Verification.Status)
		}
	})

	t.Run("conserva motivos por activo", func(t *testing.T) {
		l := pendingListing()
		require.NoError(t, verification.Reject(l, " documentos incompletos ", "adjuntar RUT", "rev", now))
		assert.Equal(t, entity.VerificationRejected, l.Verification.Status)
		assert.Equal(t, "documentos incompletos", l.Verification.RejectionReason)
		assert.Equal(t, "adjuntar RUT", l.Verification.Suggestion)
		assert.False(t, l.Assets[2].Verified)
		assert.Equal(t, "imagen borrosa", l.Assets[2].Reason)
		assert.True(t, l.Assets[0].Verified)
	})

	t.Run("no pendiente", func(t *testing.T) {
		l := pendingListing()
		l.Verification.Status = entity.VerificationApproved
		assert.ErrorIs(t, verification.Reject(l, "x", "", "rev", now), domain.ErrInvalidTransition)
	})
}

func TestMarkAsset(t *testing.T) {
	l := pendingListing()

	assert.ErrorIs(t, verification.MarkAsset(l, "a1", false, "", ""), domain.ErrEmptyReason)
	assert.True(t, l.Assets[0].Verified)

	require.NoError(t, verification.MarkAsset(l, "a1", false, "vencido", "renovar"))
	assert.False(t, l.Assets[0].Verified)
	assert.Equal(t, "vencido", l.Assets[0].Reason)

	require.NoError(t, verification.MarkAsset(l, "a3", true, "ignorado", ""))
	assert.True(t, l.Assets[2].Verified)
	assert.Empty(t, l.Assets[2].Reason)

	assert.ErrorIs(t, verification.MarkAsset(l, "nope", true, "", ""), domain.ErrAssetNotFound)

	l.Verification.Status = entity.VerificationRejected
	assert.ErrorIs(t, verification.MarkAsset(l, "a1", true, "", ""), domain.ErrInvalidTransition)
}

func TestResubmit(t *testing.T) {
	l := pendingListing()
	assert.ErrorIs(t, verification.Resubmit(l), domain.ErrInvalidTransition)

	require.NoError(t, verification.Reject(l, "fotos", "", "rev", now))
	require.NoError(t, verification.Resubmit(l))
	assert.Equal(t, entity.Verification{Status: entity.VerificationPending}, l.Verification)
	assert.Equal(t, "imagen borrosa", l.Assets[2].Reason)
}

func TestSetActiveStatus(t *testing.T) {
	for _, st := range []entity.VerificationStatus{entity.VerificationPending, entity.VerificationApproved, entity.VerificationRejected} {
		l := pendingListing()
		l.Verification.Status = st
		changed, err := verification.SetActiveStatus(l, entity.ActiveStatusActive)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, st, l.Verification.Status)
	}

	l := pendingListing()
	changed, err := verification.SetActiveStatus(l, entity.ActiveStatusInactive)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = verification.SetActiveStatus(l, "archived")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
