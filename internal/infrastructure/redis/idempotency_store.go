// Package redis implementa el almacén de idempotencia compartido entre instancias.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Servitec-api/internal/application/ports"
	"github.com/jhoicas/Servitec-api/pkg/config"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

const (
	defaultPrefix = "servitec:idem:"
	enCurso       = "pending"
)

// IdempotencyStore claves de idempotencia sobre Redis (SET NX con TTL).
type IdempotencyStore struct {
	client *goredis.Client
	prefix string
}

// NewClient crea el cliente y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return client, nil
}

// NewIdempotencyStore construye el almacén sobre un cliente existente.
func NewIdempotencyStore(client *goredis.Client, prefix string) *IdempotencyStore {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &IdempotencyStore{client: client, prefix: prefix}
}

func (s *IdempotencyStore) Reservar(ctx context.Context, key string, ttl time.Duration) (*ports.RespuestaGuardada, bool, error) {
	k := s.prefix + key
	ok, err := s.client.SetNX(ctx, k, enCurso, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("reservar clave de idempotencia: %w", err)
	}
	if ok {
		return nil, true, nil
	}
	raw, err := s.client.Get(ctx, k).Bytes()
	if errors.Is(err, goredis.Nil) {
		// expiró entre SETNX y GET
		return s.Reservar(ctx, key, ttl)
	}
	if err != nil {
		return nil, false, fmt.Errorf("leer clave de idempotencia: %w", err)
	}
	if string(raw) == enCurso {
		return nil, false, nil
	}
	var resp ports.RespuestaGuardada
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, fmt.Errorf("decodificar respuesta guardada: %w", err)
	}
	return &resp, false, nil
}

func (s *IdempotencyStore) Guardar(ctx context.Context, key string, resp ports.RespuestaGuardada, ttl time.Duration) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("codificar respuesta: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("guardar respuesta: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) Liberar(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("liberar clave de idempotencia: %w", err)
	}
	return nil
}
