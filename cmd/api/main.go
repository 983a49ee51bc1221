package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/catalog-backoffice/internal/application/catalog"
	"github.com/jhoicas/catalog-backoffice/internal/application/inventory"
	"github.com/jhoicas/catalog-backoffice/internal/domain/repository"
	"github.com/jhoicas/catalog-backoffice/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/catalog-backoffice/internal/infrastructure/pdf"
	"github.com/jhoicas/catalog-backoffice/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/catalog-backoffice/internal/interfaces/http"
	"github.com/jhoicas/catalog-backoffice/pkg/clock"
	"github.com/jhoicas/catalog-backoffice/pkg/config"
	"github.com/jhoicas/catalog-backoffice/pkg/logger"
)

// backend agrupa lo que los casos de uso necesitan del almacén elegido.
type backend struct {
	tx interface {
		catalog.TxRunner
		inventory.TxRunner
	}
	listings  repository.ListingRepository
	events    repository.ListingEventRepository
	records   repository.InventoryRecordRepository
	movements repository.InventoryMovementRepository
	health    func(ctx context.Context) error
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacén")
	}
	defer store.close()

	clk := clock.NewRealClock()
	workflowUC := catalog.NewWorkflowUseCase(store.tx, clk, cfg.Store.Timeout, log)
	queryUC := catalog.NewQueryUseCase(store.listings, store.events, clk, cfg.Store.Timeout,
		cfg.Paging.DefaultSize, cfg.Paging.MaxSize)
	ledgerUC := inventory.NewLedgerUseCase(inventory.LedgerDeps{
		Tx:          store.tx,
		Records:     store.records,
		Movements:   store.movements,
		Listings:    store.listings,
		PDF:         infrapdf.NewMarotoPDFGenerator(),
		Clock:       clk,
		Timeout:     cfg.Store.Timeout,
		DefaultSize: cfg.Paging.DefaultSize,
		MaxSize:     cfg.Paging.MaxSize,
		Log:         log,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Catalog Back-office API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Workflow:  workflowUC,
		Query:     queryUC,
		Ledger:    ledgerUC,
		Health:    store.health,
		JWTSecret: cfg.JWT.Secret,
		AppName:   cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	if cfg.Store.Driver == "memory" {
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &backend{
			tx:        s,
			listings:  s.Listings(),
			events:    s.ListingEvents(),
			records:   s.InventoryRecords(),
			movements: s.InventoryMovements(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.Store.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema aplicado")
	}
	return &backend{
		tx:        postgres.NewTxRunner(pool),
		listings:  postgres.NewListingRepository(pool),
		events:    postgres.NewListingEventRepository(pool),
		records:   postgres.NewInventoryRecordRepository(pool),
		movements: postgres.NewInventoryMovementRepository(pool),
		health:    func(ctx context.Context) error { return postgres.Ping(ctx, pool) },
		close:     pool.Close,
	}, nil
}
