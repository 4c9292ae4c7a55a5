package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Servitec-api/internal/domain/entity"
)

// ProductoRepository define el puerto de persistencia para Producto.
type ProductoRepository interface {
	Create(ctx context.Context, producto *entity.Producto) error
	GetByID(ctx context.Context, id string) (*entity.Producto, error)
	GetByCodigo(ctx context.Context, codigo string) (*entity.Producto, error)
	Update(ctx context.Context, producto *entity.Producto) error
	UpdateCosto(ctx context.Context, productoID string, costo decimal.Decimal) error
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Producto, int, error)
}
