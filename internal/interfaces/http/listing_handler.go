package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalog-backoffice/internal/application/catalog"
	"github.com/jhoicas/catalog-backoffice/internal/application/dto"
)

// ListingHandler rutas de publicaciones: revisión, precios, visibilidad y consultas.
type ListingHandler struct {
	workflow *catalog.WorkflowUseCase
	query    *catalog.QueryUseCase
}

// NewListingHandler construye el handler.
func NewListingHandler(workflow *catalog.WorkflowUseCase, query *catalog.QueryUseCase) *ListingHandler {
	return &ListingHandler{workflow: workflow, query: query}
}

func (h *ListingHandler) command(c *fiber.Ctx) (catalog.Command, error) {
	expected, err := parseIfMatch(c)
	if err != nil {
		return catalog.Command{}, err
	}
	return catalog.Command{ListingID: c.Params("id"), Actor: GetUserID(c), ExpectedVersion: expected}, nil
}

func (h *ListingHandler) respond(c *fiber.Ctx, status int, out *dto.ListingResponse, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	setETag(c, out.Version)
	return c.Status(status).JSON(out)
}

// Submit godoc
// @Summary      Registrar publicación de un vendedor
// @Tags         listings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitListingRequest  true  "Publicación"
// @Success      201   {object}  dto.ListingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/listings [post]
func (h *ListingHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitListingRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.workflow.Submit(c.UserContext(), GetUserID(c), in)
	return h.respond(c, fiber.StatusCreated, out, err)
}

// List godoc
// @Summary      Listar publicaciones
// @Description  Filtros conjuntivos; search busca en nombre y descripción sin distinguir mayúsculas.
// @Tags         listings
// @Security     Bearer
// @Produce      json
// @Param        status         query  string  false  "pending | approved | rejected"
// @Param        active_status  query  string  false  "active | inactive"
// @Param        category_id    query  string  false  "Categoría"
// @Param        from           query  string  false  "Creadas desde (RFC3339 o YYYY-MM-DD)"
// @Param        to             query  string  false  "Creadas hasta (RFC3339 o YYYY-MM-DD)"
// @Param        search         query  string  false  "Texto"
// @Param        page           query  int     false  "Página"  default(1)
// @Param        page_size      query  int     false  "Tamaño"  default(20)
// @Success      200  {object}  dto.ListingListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/listings [get]
func (h *ListingHandler) List(c *fiber.Ctx) error {
	var f dto.ListingFilterRequest
	if err := c.QueryParser(&f); err != nil {
		return badRequest(c, "INVALID_PARAMS", "parámetros de consulta inválidos")
	}
	var err error
	if f.From, err = parseTimeQuery(c, "from", false); err != nil {
		return badRequest(c, "INVALID_PARAMS", err.Error())
	}
	if f.To, err = parseTimeQuery(c, "to", true); err != nil {
		return badRequest(c, "INVALID_PARAMS", err.Error())
	}
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, "INVALID_PARAMS", err.Error())
	}
	out, err := h.query.List(c.UserContext(), f, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas del catálogo
// @Tags         listings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListingStatsResponse
// @Router       /api/listings/stats [get]
func (h *ListingHandler) Stats(c *fiber.Ctx) error {
	out, err := h.query.Stats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener publicación con resumen de activos
// @Tags         listings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la publicación"
// @Success      200  {object}  dto.ListingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/listings/{id} [get]
func (h *ListingHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.GetByID(c.UserContext(), c.Params("id"))
	return h.respond(c, fiber.StatusOK, out, err)
}

// Events godoc
// @Summary      Eventos de cambio de una publicación
// @Tags         listings
// @Security     Bearer
// @Produce      json
// @Param        id         path   string  true   "ID de la publicación"
// @Param        page       query  int     false  "Página"
// @Param        page_size  query  int     false  "Tamaño"
// @Success      200  {object}  dto.ListingEventListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/listings/{id}/events [get]
func (h *ListingHandler) Events(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, "INVALID_PARAMS", err.Error())
	}
	out, err := h.query.Events(c.UserContext(), c.Params("id"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// VerifyAll godoc
// @Summary      Aprobar o rechazar la publicación completa
// @Description  approved marca todos los activos como verificados; rejected exige reason.
// @Tags         listings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id        path    string                true   "ID de la publicación"
// @Param        If-Match  header  string                false  "Versión esperada"
// @Param        body      body    dto.VerifyAllRequest  true   "Decisión"
// @Success      200  {object}  dto.ListingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/listings/{id}/verify-all [put]
func (h *ListingHandler) VerifyAll(c *fiber.Ctx) error {
	cmd, err := h.command(c)
	if err != nil {
		return badRequest(c, "INVALID_IF_MATCH", err.Error())
	}
	var in dto.VerifyAllRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.workflow.VerifyAll(c.UserContext(), cmd, in)
	return h.respond(c, fiber.StatusOK, out, err)
}

// MarkAsset godoc
// @Summary      Marcar un activo como verificado o no verificado
// @Tags         listings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id        path    string                true   "ID de la publicación"
// @Param        assetId   path    string                true   "ID del activo"
// @Param        If-Match  header  string                false  "Versión esperada"
// @Param        body      body    dto.MarkAssetRequest  true   "Estado del activo"
// @Success      200  {object}  dto.ListingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/listings/{id}/assets/{assetId} [put]
func (h *ListingHandler) MarkAsset(c *fiber.Ctx) error {
	cmd, err := h.command(c)
	if err != nil {
		return badRequest(c, "INVALID_IF_MATCH", err.Error())
	}
	var in dto.MarkAssetRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.workflow.MarkAsset(c.UserContext(), cmd, c.Params("assetId"), in)
	return h.respond(c, fiber.StatusOK, out, err)
}

// Resubmit godoc
// @Summary      Reenviar una publicación rechazada a revisión
// @Tags         listings
// @Security     Bearer
// @Produce      json
// @Param        id        path    string  true   "ID de la publicación"
// @Param        If-Match  header  string  false  "Versión esperada"
// @Success      200  {object}  dto.ListingResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/listings/{id}/resubmit [put]
func (h *ListingHandler) Resubmit(c *fiber.Ctx) error {
	cmd, err := h.command(c)
	if err != nil {
		return badRequest(c, "INVALID_IF_MATCH", err.Error())
	}
	out, err := h.workflow.Resubmit(c.UserContext(), cmd)
	return h.respond(c, fiber.StatusOK, out, err)
}

// UpdatePricing godoc
// @Summary      Fijar precio de venta, descuento e impuesto
// @Tags         listings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id        path    string              true   "ID de la publicación"
// @Param        If-Match  header  string              false  "Versión esperada"
// @Param        body      body    dto.PricingRequest  true   "Precios"
// @Success      200  {object}  dto.ListingResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/listings/{id}/pricing [put]
func (h *ListingHandler) UpdatePricing(c *fiber.Ctx) error {
	cmd, err := h.command(c)
	if err != nil {
		return badRequest(c, "INVALID_IF_MATCH", err.Error())
	}
	var in dto.PricingRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.workflow.UpdatePricing(c.UserContext(), cmd, in)
	return h.respond(c, fiber.StatusOK, out, err)
}

// SetActiveStatus godoc
// @Summary      Activar o desactivar una publicación
// @Tags         listings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id        path    string                   true   "ID de la publicación"
// @Param        If-Match  header  string                   false  "Versión esperada"
// @Param        body      body    dto.ActiveStatusRequest  true   "active | inactive"
// @Success      200  {object}  dto.ListingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/listings/{id} [put]
func (h *ListingHandler) SetActiveStatus(c *fiber.Ctx) error {
	cmd, err := h.command(c)
	if err != nil {
		return badRequest(c, "INVALID_IF_MATCH", err.Error())
	}
	var in dto.ActiveStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.workflow.SetActiveStatus(c.UserContext(), cmd, in)
	return h.respond(c, fiber.StatusOK, out, err)
}
