package repository

import (
	"context"

	"github.com/jhoicas/Servitec-api/internal/domain/entity"
)

// SedeRepository define el puerto de persistencia para Sede.
// GetByID devuelve (nil, nil) si no existe.
type SedeRepository interface {
	Create(ctx context.Context, sede *entity.Sede) error
	GetByID(ctx context.Context, id string) (*entity.Sede, error)
	Update(ctx context.Context, sede *entity.Sede) error
	List(ctx context.Context, limit, offset int) ([]*entity.Sede, int, error)
}
