package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound   = errors.New("recurso no encontrado")
	ErrForbidden  = errors.New("acceso denegado")
	ErrValidation = errors.New("entrada inválida")

	// Flujo de verificación
	ErrEmptyReason       = errors.New("el motivo de rechazo es obligatorio")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrAssetNotFound     = errors.New("activo no encontrado en la publicación")

	// Inventario
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrDuplicateInitial       = errors.New("el registro de inventario ya existe")
	ErrUnknownInventoryRecord = errors.New("registro de inventario desconocido")

	// Transitorios: el llamador puede reintentar tras releer
	ErrConcurrentModification  = errors.New("modificación concurrente detectada")
	ErrCollaboratorUnavailable = errors.New("catálogo no disponible, intente de nuevo")
)

// PricingErrorKind identifica la regla de precios violada.
type PricingErrorKind string

const (
	SaleExceedsBase   PricingErrorKind = "SaleExceedsBase"
	PercentOutOfRange PricingErrorKind = "PercentOutOfRange"
	FixedExceedsBase  PricingErrorKind = "FixedExceedsBase"
	TaxOutOfRange     PricingErrorKind = "TaxOutOfRange"
	ExpiredValidity   PricingErrorKind = "ExpiredValidity"
	NegativeValue     PricingErrorKind = "NegativeValue"
	UnknownDiscount   PricingErrorKind = "UnknownDiscount"
)

// PricingError error de validación de precios. errors.Is(err, ErrValidation) es true.
type PricingError struct {
	Kind    PricingErrorKind
	Message string
}

func (e *PricingError) Error() string {
	return fmt.Sprintf("precio inválido (%s): %s", e.Kind, e.Message)
}

func (e *PricingError) Is(target error) bool {
	return target == ErrValidation
}

// NewPricingError construye un PricingError.
func NewPricingError(kind PricingErrorKind, format string, args ...any) *PricingError {
	return &PricingError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// TransitionError transición inválida; lleva el estado actual para que el cliente se resincronice.
type TransitionError struct {
	Current   string
	Attempted string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("no se puede %s una publicación en estado %q", e.Attempted, e.Current)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// IsTransient indica si el error es reintentable (conflicto de versión o catálogo caído).
func IsTransient(err error) bool {
	return errors.Is(err, ErrConcurrentModification) || errors.Is(err, ErrCollaboratorUnavailable)
}
