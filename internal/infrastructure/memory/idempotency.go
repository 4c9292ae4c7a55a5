package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Servitec-api/internal/application/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

type idemEntry struct {
	resp      *ports.RespuestaGuardada
	expiresAt time.Time
}

// IdempotencyStore almacén de idempotencia local (una sola instancia y tests).
// Las entradas vencidas se descartan al consultarlas.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idemEntry
	now     func() time.Time
}

// NewIdempotencyStore construye el almacén vacío.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{entries: make(map[string]idemEntry), now: time.Now}
}

func (s *IdempotencyStore) Reservar(_ context.Context, key string, ttl time.Duration) (*ports.RespuestaGuardada, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		if e.resp == nil {
			return nil, false, nil
		}
		resp := *e.resp
		return &resp, false, nil
	}
	s.entries[key] = idemEntry{expiresAt: now.Add(ttl)}
	return nil, true, nil
}

func (s *IdempotencyStore) Guardar(_ context.Context, key string, resp ports.RespuestaGuardada, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp.Body = append([]byte(nil), resp.Body...)
	s.entries[key] = idemEntry{resp: &resp, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *IdempotencyStore) Liberar(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
