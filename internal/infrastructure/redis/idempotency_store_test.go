//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/jhoicas/Servitec-api/internal/application/ports"
	"github.com/jhoicas/Servitec-api/pkg/config"
)

func TestIdempotencyStore_Redis(t *testing.T) {
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	client, err := NewClient(ctx, config.RedisConfig{Addr: uri[len("redis://"):]})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := NewIdempotencyStore(client, "test:")

	guardada, ok, err := store.Reservar(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, guardada)

	// segunda petición mientras la primera sigue en curso
	guardada, ok, err = store.Reservar(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, guardada)

	resp := ports.RespuestaGuardada{Status: 201, ContentType: "application/json", Body: []byte(`{"id":"v-1"}`)}
	require.NoError(t, store.Guardar(ctx, "k1", resp, time.Minute))
	guardada, ok, err = store.Reservar(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NotNil(t, guardada)
	assert.Equal(t, resp, *guardada)

	require.NoError(t, store.Liberar(ctx, "k1"))
	_, ok, err = store.Reservar(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
