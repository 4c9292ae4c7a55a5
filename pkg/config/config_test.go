package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsYEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("TX_TIMEOUT_MS", "1500")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 1500*time.Millisecond, cfg.Tx.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := Config{
		JWT:         JWTConfig{Secret: "x"},
		Storage:     StorageConfig{Driver: StoragePostgres},
		HTTP:        HTTPConfig{Port: 8080},
		Idempotency: IdempotencyConfig{TTL: time.Minute},
	}
	require.NoError(t, base.Validate())

	c := base
	c.JWT.Secret = ""
	assert.Error(t, c.Validate())

	c = base
	c.Storage.Driver = "sqlite"
	assert.Error(t, c.Validate())

	c = base
	c.HTTP.Port = 0
	assert.Error(t, c.Validate())
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "servitec", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/servitec?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgresql://x@y/z"
	assert.Equal(t, "postgresql://x@y/z", c.ConnectionString())
}
