package repository

import (
	"context"

	"github.com/jhoicas/Servitec-api/internal/domain/entity"
)

// VentaRepository define el puerto de persistencia de ventas, items y pagos.
type VentaRepository interface {
	NextNumero(ctx context.Context) (string, error)
	// Create persiste cabecera, items y pagos.
	Create(ctx context.Context, v *entity.Venta) error
	GetByID(ctx context.Context, id string) (*entity.Venta, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Venta, error)
	Anular(ctx context.Context, id, motivo, usuarioID string) error
	List(ctx context.Context, filter entity.VentaFilter) ([]*entity.Venta, int, error)
}
