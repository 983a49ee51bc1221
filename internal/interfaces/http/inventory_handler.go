package http

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalog-backoffice/internal/application/dto"
	"github.com/jhoicas/catalog-backoffice/internal/application/inventory"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
)

// InventoryHandler rutas del libro de inventario por publicación.
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Create godoc
// @Summary      Alta de inventario de un SKU (movimiento initial)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                      true  "ID de la publicación"
// @Param        body       body  dto.CreateInventoryRequest  true  "Registro inicial"
// @Success      201  {object}  dto.MovementResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId}/create [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.ApplyMovement(c.UserContext(), inventory.MovementInput{
		ProductID:         c.Params("productId"),
		SKU:               in.SKU,
		Type:              entity.MovementTypeInitial,
		Quantity:          in.Quantity,
		Note:              in.Note,
		Actor:             GetUserID(c),
		LowStockThreshold: in.LowStockThreshold,
		WarehouseID:       in.Warehouse,
		ExpiryDate:        in.ExpiryDate,
	})
	if err != nil {
		return writeError(c, err)
	}
	setETag(c, out.Record.Version)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Move godoc
// @Summary      Registrar entrada, salida o ajuste
// @Description  in/out: quantity es el delta positivo. adjustment: quantity es la cantidad final.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path    string               true   "ID de la publicación"
// @Param        If-Match   header  string               false  "Versión esperada del registro"
// @Param        body       body    dto.MovementRequest  true   "Movimiento"
// @Success      200  {object}  dto.MovementResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId} [put]
func (h *InventoryHandler) Move(c *fiber.Ctx) error {
	expected, err := parseIfMatch(c)
	if err != nil {
		return badRequest(c, "INVALID_IF_MATCH", err.Error())
	}
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	t := entity.MovementType(strings.ToLower(strings.TrimSpace(in.Type)))
	if t == entity.MovementTypeInitial {
		return badRequest(c, "VALIDATION", "el alta se hace con POST /inventory/{productId}/create")
	}
	qty, err := in.Amount()
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	out, err := h.uc.ApplyMovement(c.UserContext(), inventory.MovementInput{
		ProductID:       c.Params("productId"),
		SKU:             in.SKU,
		Type:            t,
		Quantity:        qty,
		Note:            in.Note,
		Actor:           GetUserID(c),
		ExpectedVersion: expected,
	})
	if err != nil {
		return writeError(c, err)
	}
	setETag(c, out.Record.Version)
	return c.JSON(out)
}

// SetThreshold godoc
// @Summary      Cambiar el umbral de stock bajo de un SKU
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path    string                true   "ID de la publicación"
// @Param        If-Match   header  string                false  "Versión esperada del registro"
// @Param        body       body    dto.ThresholdRequest  true   "Umbral"
// @Success      200  {object}  dto.InventoryRecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId}/threshold [put]
func (h *InventoryHandler) SetThreshold(c *fiber.Ctx) error {
	var in dto.ThresholdRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	cmd, err := h.recordCommand(c, in.SKU)
	if err != nil {
		return badRequest(c, "INVALID_IF_MATCH", err.Error())
	}
	out, err := h.uc.SetThreshold(c.UserContext(), cmd, in.LowStockThreshold)
	return h.respondRecord(c, out, err)
}

// Reserve godoc
// @Summary      Reservar unidades disponibles
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path    string                  true   "ID de la publicación"
// @Param        If-Match   header  string                  false  "Versión esperada del registro"
// @Param        body       body    dto.ReservationRequest  true   "Cantidad"
// @Success      200  {object}  dto.InventoryRecordResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId}/reserve [put]
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	return h.reservation(c, h.uc.Reserve)
}

// Release godoc
// @Summary      Liberar unidades reservadas
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path    string                  true   "ID de la publicación"
// @Param        If-Match   header  string                  false  "Versión esperada del registro"
// @Param        body       body    dto.ReservationRequest  true   "Cantidad"
// @Success      200  {object}  dto.InventoryRecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId}/release [put]
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	return h.reservation(c, h.uc.Release)
}

// List godoc
// @Summary      Registros de inventario de una publicación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID de la publicación"
// @Param        sku        query  string  false  "SKU"
// @Param        warehouse  query  string  false  "Bodega"
// @Param        low_stock  query  bool    false  "Solo stock bajo"
// @Param        page       query  int     false  "Página"
// @Param        page_size  query  int     false  "Tamaño"
// @Success      200  {object}  dto.InventoryListResponse
// @Router       /api/inventory/{productId} [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	var f dto.InventoryFilterRequest
	if err := c.QueryParser(&f); err != nil {
		return badRequest(c, "INVALID_PARAMS", "parámetros de consulta inválidos")
	}
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, "INVALID_PARAMS", err.Error())
	}
	out, err := h.uc.List(c.UserContext(), c.Params("productId"), f, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId   path   string  true   "ID de la publicación"
// @Param        sku         query  string  false  "SKU"
// @Param        type        query  string  false  "initial | in | out | adjustment"
// @Param        start_date  query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        order       query  string  false  "asc | desc"  default(desc)
// @Param        page        query  int     false  "Página"
// @Param        page_size   query  int     false  "Tamaño"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId}/history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	f, err := historyFilter(c)
	if err != nil {
		return badRequest(c, "INVALID_PARAMS", err.Error())
	}
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, "INVALID_PARAMS", err.Error())
	}
	out, err := h.uc.History(c.UserContext(), c.Params("productId"), f, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// HistoryPDF godoc
// @Summary      Exportar historial de movimientos en PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        productId   path   string  true   "ID de la publicación"
// @Param        sku         query  string  false  "SKU"
// @Param        type        query  string  false  "Tipo de movimiento"
// @Param        start_date  query  string  false  "Desde"
// @Param        end_date    query  string  false  "Hasta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId}/history.pdf [get]
func (h *InventoryHandler) HistoryPDF(c *fiber.Ctx) error {
	f, err := historyFilter(c)
	if err != nil {
		return badRequest(c, "INVALID_PARAMS", err.Error())
	}
	pdfBytes, filename, err := h.uc.ExportHistoryPDF(c.UserContext(), c.Params("productId"), f)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}

func (h *InventoryHandler) recordCommand(c *fiber.Ctx, sku string) (inventory.RecordCommand, error) {
	expected, err := parseIfMatch(c)
	if err != nil {
		return inventory.RecordCommand{}, err
	}
	return inventory.RecordCommand{
		ProductID:       c.Params("productId"),
		SKU:             sku,
		Actor:           GetUserID(c),
		ExpectedVersion: expected,
	}, nil
}

type reservationFunc func(ctx context.Context, cmd inventory.RecordCommand, quantity decimal.Decimal) (*dto.InventoryRecordResponse, error)

func (h *InventoryHandler) reservation(c *fiber.Ctx, fn reservationFunc) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	cmd, err := h.recordCommand(c, in.SKU)
	if err != nil {
		return badRequest(c, "INVALID_IF_MATCH", err.Error())
	}
	out, err := fn(c.UserContext(), cmd, in.Quantity)
	return h.respondRecord(c, out, err)
}

func (h *InventoryHandler) respondRecord(c *fiber.Ctx, out *dto.InventoryRecordResponse, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	setETag(c, out.Version)
	return c.JSON(out)
}

func historyFilter(c *fiber.Ctx) (dto.HistoryFilterRequest, error) {
	var f dto.HistoryFilterRequest
	if err := c.QueryParser(&f); err != nil {
		return f, fmt.Errorf("parámetros de consulta inválidos")
	}
	var err error
	if f.StartDate, err = parseTimeQuery(c, "start_date", false); err != nil {
		return f, err
	}
	if f.EndDate, err = parseTimeQuery(c, "end_date", true); err != nil {
		return f, err
	}
	return f, nil
}
