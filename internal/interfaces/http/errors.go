package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalog-backoffice/internal/application/dto"
	"github.com/jhoicas/catalog-backoffice/internal/domain"
)

// retryAfterSeconds sugerido al cliente cuando el catálogo no responde.
const retryAfterSeconds = 2

// writeError traduce un error de dominio a su respuesta HTTP.
func writeError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	if status == fiber.StatusServiceUnavailable {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds))
	}
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	var pe *domain.PricingError
	if errors.As(err, &pe) {
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "INVALID_PRICING", Kind: string(pe.Kind), Message: pe.Message}
	}
	var te *domain.TransitionError
	if errors.As(err, &te) {
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INVALID_TRANSITION", CurrentStatus: te.Current, Message: err.Error()}
	}

	switch {
	case errors.Is(err, domain.ErrConcurrentModification):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONCURRENT_MODIFICATION", Message: "la publicación cambió; relea y reintente", Retryable: true}
	case errors.Is(err, domain.ErrCollaboratorUnavailable):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "UNAVAILABLE", Message: domain.ErrCollaboratorUnavailable.Error(), Retryable: true}
	case errors.Is(err, domain.ErrEmptyReason):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "EMPTY_REASON", Message: err.Error()}
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrAssetNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "ASSET_NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrUnknownInventoryRecord):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "UNKNOWN_RECORD", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicateInitial):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE_INITIAL", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
