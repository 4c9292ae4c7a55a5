package repository

import (
	"context"

	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/inventory"
)

// MovimientoRepository define el puerto del kardex. Las filas solo se insertan;
// la única modificación permitida es marcar anulado.
type MovimientoRepository interface {
	Create(ctx context.Context, mov *entity.Movimiento) error
	GetByID(ctx context.Context, id string) (*entity.Movimiento, error)
	MarcarAnulado(ctx context.Context, id string) error
	List(ctx context.Context, filter entity.MovimientoFilter) ([]*entity.Movimiento, int, error)
	// TotalesPorTipo agrega filas no anuladas del producto (sedeID vacío = todas las sedes).
	TotalesPorTipo(ctx context.Context, productoID, sedeID string) ([]inventory.TotalTipo, error)
	ListTraspasos(ctx context.Context, sedeID string, limit, offset int) ([]entity.Traspaso, int, error)
}
