package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-inventory/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "Bakery Polina", cfg.Bakery.Name)
	assert.Equal(t, "Rs.", cfg.Bakery.Currency)
	assert.Equal(t, 90, cfg.Bakery.HistoryDays)
	assert.Equal(t, 1, cfg.Bakery.EditableRangeDays)
	assert.Equal(t, 500, cfg.Autosave.DebounceMS)
	assert.False(t, cfg.JWT.Enabled())

	loc, err := cfg.Bakery.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Colombo", loc.String())
}

func TestLoad_EnvSobrescribe(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("BAKERY_EDITABLE_RANGE_DAYS", "3")
	t.Setenv("AUTOSAVE_DEBOUNCE_MS", "250")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Bakery.EditableRangeDays)
	assert.Equal(t, int64(250), cfg.Autosave.Debounce().Milliseconds())
	assert.True(t, cfg.JWT.Enabled())
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("BAKERY_TIMEZONE", "Marte/Olympus")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$x")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
	assert.Contains(t, err.Error(), "BAKERY_TIMEZONE")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "baker", Password: "p@ss", DBName: "bakery", SSLMode: "disable"}
	assert.Equal(t, "postgres://baker:p%40ss@db:5432/bakery?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
