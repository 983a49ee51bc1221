package main

import (
	"context"
	"flag"
	"time"

	"github.com/jhoicas/catalog-backoffice/internal/infrastructure/postgres"
	"github.com/jhoicas/catalog-backoffice/pkg/config"
	"github.com/jhoicas/catalog-backoffice/pkg/logger"
)

var timeout = flag.Duration("timeout", 30*time.Second, "límite para aplicar el esquema")

// Aplica internal/infrastructure/postgres/schema.sql sobre la base configurada por DB_* o DATABASE_URL.
func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level}).Component("migrate")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// El DDL puede tardar más que una consulta del almacén.
	cfg.DB.StatementTimeout = *timeout
	cfg.DB.ApplicationName = cfg.App.Name + "-migrate"
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración fallida")
	}
	log.Info().Str("db", cfg.DB.DBName).Msg("esquema aplicado")
}
