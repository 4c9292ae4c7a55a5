package ports

import (
	"context"
	"time"
)

// RespuestaGuardada respuesta HTTP retenida para una clave de idempotencia.
type RespuestaGuardada struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// IdempotencyStore puerto de salida para X-Idempotency-Key. Redis en producción, memoria en tests.
type IdempotencyStore interface {
	// Reservar toma la clave si está libre (adquirida = true). Si ya existe devuelve la respuesta
	// guardada, o nil mientras la primera petición sigue en curso.
	Reservar(ctx context.Context, key string, ttl time.Duration) (guardada *RespuestaGuardada, adquirida bool, err error)
	// Guardar retiene la respuesta final bajo la clave.
	Guardar(ctx context.Context, key string, resp RespuestaGuardada, ttl time.Duration) error
	// Liberar borra la clave para permitir reintentos (la petición falló).
	Liberar(ctx context.Context, key string) error
}
