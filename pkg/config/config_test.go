package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-backoffice/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "catalog-backoffice", cfg.App.Name)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.Equal(t, 20, cfg.Paging.DefaultSize)
	assert.Equal(t, 100, cfg.Paging.MaxSize)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.False(t, cfg.Store.Migrate)
}

func TestLoad_DBDerivaDeAppYStore(t *testing.T) {
	t.Setenv("APP_NAME", "catalogo")
	t.Setenv("STORE_TIMEOUT_MS", "1500")
	t.Setenv("DB_MIN_CONNS", "4")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "catalogo", cfg.DB.ApplicationName)
	assert.Equal(t, 1500*time.Millisecond, cfg.DB.StatementTimeout)
	assert.Equal(t, 4, cfg.DB.MinConns)
	assert.Equal(t, time.Hour, cfg.DB.ConnMaxLifetime)
}

func TestLoad_MinConnsMayorQueMax(t *testing.T) {
	t.Setenv("DB_MIN_CONNS", "30")
	t.Setenv("DB_MAX_CONNS", "10")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_DriverMemory(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("STORE_MIGRATE", "true")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.True(t, cfg.Store.Migrate)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STORE_TIMEOUT_MS", "750")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("PAGE_SIZE_DEFAULT", "10")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 750*time.Millisecond, cfg.Store.Timeout)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 10, cfg.Paging.DefaultSize)
}

func TestLoad_ProduccionExigeSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w", DBName: "catalog", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw@db:5432/catalog?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
