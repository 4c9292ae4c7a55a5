package repository

import (
	"context"

	"github.com/jhoicas/Servitec-api/internal/domain/entity"
)

// StockRepository define el puerto del saldo por producto+sede.
// Get devuelve stock 0 si el par aún no existe.
type StockRepository interface {
	Get(ctx context.Context, productoID, sedeID string) (*entity.ProductoSede, error)
	// GetForUpdate crea el par en 0 si no existe y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productoID, sedeID string) (*entity.ProductoSede, error)
	Upsert(ctx context.Context, stock *entity.ProductoSede) error
	ListByProducto(ctx context.Context, productoID string) ([]*entity.ProductoSede, error)
	TotalByProducto(ctx context.Context, productoID string) (int, error)
	ListBajoMinimo(ctx context.Context, sedeID string) ([]entity.StockBajo, error)
}
