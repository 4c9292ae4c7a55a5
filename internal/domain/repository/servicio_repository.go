package repository

import (
	"context"

	"github.com/jhoicas/Servitec-api/internal/domain/entity"
)

// ServicioRepository define el puerto de persistencia de tickets, sus repuestos y su historial.
type ServicioRepository interface {
	NextNumero(ctx context.Context) (string, error)
	Create(ctx context.Context, s *entity.Servicio) error
	// GetByID carga el ticket con Items e Historial.
	GetByID(ctx context.Context, id string) (*entity.Servicio, error)
	// GetForUpdate bloquea la fila del ticket y carga sus Items.
	GetForUpdate(ctx context.Context, id string) (*entity.Servicio, error)
	Update(ctx context.Context, s *entity.Servicio) error
	List(ctx context.Context, filter entity.ServicioFilter) ([]*entity.Servicio, int, error)

	CreateItem(ctx context.Context, item *entity.ServicioItem) error
	UpdateItem(ctx context.Context, item *entity.ServicioItem) error
	DeleteItem(ctx context.Context, id string) error

	AddHistorial(ctx context.Context, h *entity.ServicioHistorial) error
}
