package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

var stockColumns = []string{"producto_id", "sede_id", "stock", "updated_at"}

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto en una sede (0 si el par no existe).
func (r *StockRepo) Get(ctx context.Context, productoID, sedeID string) (*entity.ProductoSede, error) {
	ps, err := getOne[entity.ProductoSede](ctx, r.q, psql.Select(stockColumns...).From("producto_sede").
		Where(squirrel.Eq{"producto_id": productoID, "sede_id": sedeID}), "get stock")
	if err != nil {
		return nil, err
	}
	if ps == nil {
		return &entity.ProductoSede{ProductoID: productoID, SedeID: sedeID}, nil
	}
	return ps, nil
}

// GetForUpdate crea el par en 0 si no existe y lo bloquea (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *StockRepo) GetForUpdate(ctx context.Context, productoID, sedeID string) (*entity.ProductoSede, error) {
	_, err := exec(ctx, r.q, psql.Insert("producto_sede").
		Columns("producto_id", "sede_id", "stock").
		Values(productoID, sedeID, 0).
		Suffix("ON CONFLICT (producto_id, sede_id) DO NOTHING"), "init stock")
	if err != nil {
		return nil, err
	}
	ps, err := getOne[entity.ProductoSede](ctx, r.q, psql.Select(stockColumns...).From("producto_sede").
		Where(squirrel.Eq{"producto_id": productoID, "sede_id": sedeID}).
		Suffix("FOR UPDATE"), "get stock for update")
	if err != nil {
		return nil, err
	}
	if ps == nil {
		return nil, fmt.Errorf("get stock for update: par %s/%s no encontrado", productoID, sedeID)
	}
	return ps, nil
}

// Upsert inserta o actualiza la cantidad en stock (por producto y sede).
func (r *StockRepo) Upsert(ctx context.Context, s *entity.ProductoSede) error {
	_, err := exec(ctx, r.q, psql.Insert("producto_sede").
		Columns("producto_id", "sede_id", "stock", "updated_at").
		Values(s.ProductoID, s.SedeID, s.Stock, squirrel.Expr("now()")).
		Suffix("ON CONFLICT (producto_id, sede_id) DO UPDATE SET stock = EXCLUDED.stock, updated_at = now()"), "upsert stock")
	return err
}

func (r *StockRepo) ListByProducto(ctx context.Context, productoID string) ([]*entity.ProductoSede, error) {
	return selectAll[*entity.ProductoSede](ctx, r.q, psql.Select(stockColumns...).From("producto_sede").
		Where(squirrel.Eq{"producto_id": productoID}).OrderBy("sede_id"), "list stock by producto")
}

func (r *StockRepo) TotalByProducto(ctx context.Context, productoID string) (int, error) {
	return count(ctx, r.q, psql.Select("COALESCE(SUM(stock), 0)").From("producto_sede").
		Where(squirrel.Eq{"producto_id": productoID}), "total stock")
}

// ListBajoMinimo productos activos con mínimo definido cuyo stock en la sede está por debajo.
func (r *StockRepo) ListBajoMinimo(ctx context.Context, sedeID string) ([]entity.StockBajo, error) {
	b := psql.Select(
		"p.id AS producto_id", "p.codigo", "p.nombre",
		"COALESCE(ps.stock, 0) AS stock", "p.stock_minimo",
	).From("productos p").
		LeftJoin("producto_sede ps ON ps.producto_id = p.id AND ps.sede_id = ?", sedeID).
		Where("p.activo AND p.stock_minimo > 0").
		Where("COALESCE(ps.stock, 0) < p.stock_minimo").
		OrderBy("p.codigo")
	return selectAll[entity.StockBajo](ctx, r.q, b, "list stock bajo minimo")
}
