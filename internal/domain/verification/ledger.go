// Package verification contiene las reglas de verificación de una publicación:
// el libro de activos (documentos, imágenes por variante, modelo 3D) y la máquina de
// estados pending → approved | rejected. Opera sobre la entidad en memoria; persistir es
// responsabilidad del caso de uso.
package verification

import (
	"strings"
	"time"

	"github.com/jhoicas/catalog-backoffice/internal/domain"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
)

// Summary resumen de verificación de los activos de una publicación.
type Summary struct {
	VerifiedCount int
	TotalCount    int
	AllVerified   bool
}

// Status cuenta los activos verificados. AllVerified es true si todos los activos presentes
// lo están; la ausencia de un activo opcional (p. ej. sin modelo 3D) no bloquea.
func Status(listing *entity.Listing) Summary {
	s := Summary{TotalCount: len(listing.Assets)}
	for _, a := range listing.Assets {
		if a.Verified {
			s.VerifiedCount++
		}
	}
	s.AllVerified = s.VerifiedCount == s.TotalCount
	return s
}

// MarkAsset marca un activo como verificado o rechazado. Rechazar exige motivo.
// Solo se permite mientras la publicación está pendiente de revisión.
func MarkAsset(listing *entity.Listing, assetID string, verified bool, reason, suggestion string) error {
	if err := requirePending(listing, "marcar activos de"); err != nil {
		return err
	}
	asset := listing.Asset(assetID)
	if asset == nil {
		return domain.ErrAssetNotFound
	}
	reason = strings.TrimSpace(reason)
	suggestion = strings.TrimSpace(suggestion)
	if !verified && reason == "" {
		return domain.ErrEmptyReason
	}
	asset.Verified = verified
	if verified {
		asset.Reason = ""
	} else {
		asset.Reason = reason
	}
	asset.Suggestion = suggestion
	return nil
}

// Approve pasa la publicación a approved y marca todos los activos como verificados,
// descartando motivos de rechazo previos.
func Approve(listing *entity.Listing, reviewer string, now time.Time) error {
	if err := requirePending(listing, "aprobar"); err != nil {
		return err
	}
	for i := range listing.Assets {
		listing.Assets[i].Verified = true
		listing.Assets[i].Reason = ""
		listing.Assets[i].Suggestion = ""
	}
	listing.Verification = entity.Verification{
		Status:     entity.VerificationApproved,
		ReviewedBy: reviewer,
		ReviewedAt: &now,
	}
	return nil
}

// Reject pasa la publicación a rejected con motivo obligatorio. Los activos no se tocan:
// sus motivos individuales se conservan para mostrarlos al vendedor.
// El motivo vacío se comprueba antes que el estado.
func Reject(listing *entity.Listing, reason, suggestion, reviewer string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.ErrEmptyReason
	}
	if err := requirePending(listing, "rechazar"); err != nil {
		return err
	}
	listing.Verification = entity.Verification{
		Status:          entity.VerificationRejected,
		RejectionReason: reason,
		Suggestion:      strings.TrimSpace(suggestion),
		ReviewedBy:      reviewer,
		ReviewedAt:      &now,
	}
	return nil
}

// Resubmit reabre una publicación revisada (nuevo envío del vendedor).
func Resubmit(listing *entity.Listing) error {
	if listing.Verification.Status == entity.VerificationPending {
		return &domain.TransitionError{Current: string(listing.Verification.Status), Attempted: "reenviar"}
	}
	listing.Verification = entity.Verification{Status: entity.VerificationPending}
	return nil
}

// SetActiveStatus cambia la visibilidad; permitido en cualquier estado de verificación.
// Devuelve false si el estado ya era el solicitado.
func SetActiveStatus(listing *entity.Listing, status entity.ActiveStatus) (bool, error) {
	if !status.Valid() {
		return false, domain.ErrValidation
	}
	if listing.ActiveStatus == status {
		return false, nil
	}
	listing.ActiveStatus = status
	return true, nil
}

func requirePending(listing *entity.Listing, attempted string) error {
	if listing.Verification.Status != entity.VerificationPending {
		return &domain.TransitionError{Current: string(listing.Verification.Status), Attempted: attempted}
	}
	return nil
}
