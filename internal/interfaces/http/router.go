package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalog-backoffice/internal/application/catalog"
	"github.com/jhoicas/catalog-backoffice/internal/application/dto"
	"github.com/jhoicas/catalog-backoffice/internal/application/inventory"
	"github.com/jhoicas/catalog-backoffice/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Workflow  *catalog.WorkflowUseCase
	Query     *catalog.QueryUseCase
	Ledger    *inventory.LedgerUseCase
	Health    func(ctx context.Context) error // nil = siempre sano
	JWTSecret string
	AppName   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps))

	// Todas las rutas de /api requieren Bearer Token
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	var (
		anyStaff   = RequireRole(jwt.RoleAdmin, jwt.RoleReviewer, jwt.RoleOperator)
		reviewers  = RequireRole(jwt.RoleAdmin, jwt.RoleReviewer)
		operators  = RequireRole(jwt.RoleAdmin, jwt.RoleOperator)
		adminsOnly = RequireRole(jwt.RoleAdmin)
	)

	// Listings
	listings := api.Group("/listings")
	listingHandler := NewListingHandler(deps.Workflow, deps.Query)
	listings.Get("/", reviewers, listingHandler.List)
	listings.Post("/", adminsOnly, listingHandler.Submit)
	listings.Get("/stats", anyStaff, listingHandler.Stats)
	listings.Get("/:id", anyStaff, listingHandler.GetByID)
	listings.Get("/:id/events", reviewers, listingHandler.Events)
	listings.Put("/:id/verify-all", reviewers, listingHandler.VerifyAll)
	listings.Put("/:id/assets/:assetId", reviewers, listingHandler.MarkAsset)
	listings.Put("/:id/resubmit", adminsOnly, listingHandler.Resubmit)
	listings.Put("/:id/pricing", operators, listingHandler.UpdatePricing)
	listings.Put("/:id", operators, listingHandler.SetActiveStatus)

	// Inventory
	inv := api.Group("/inventory", operators)
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	inv.Get("/:productId/history.pdf", inventoryHandler.HistoryPDF)
	inv.Get("/:productId/history", inventoryHandler.History)
	inv.Get("/:productId", inventoryHandler.List)
	inv.Post("/:productId/create", inventoryHandler.Create)
	inv.Put("/:productId/threshold", inventoryHandler.SetThreshold)
	inv.Put("/:productId/reserve", inventoryHandler.Reserve)
	inv.Put("/:productId/release", inventoryHandler.Release)
	inv.Put("/:productId", inventoryHandler.Move)
}

// healthHandler godoc
// @Summary      Liveness y conexión al almacén
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /health [get]
func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Health != nil {
			if err := deps.Health(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
					Code: "UNAVAILABLE", Message: "almacén no disponible", Retryable: true,
				})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	}
}
