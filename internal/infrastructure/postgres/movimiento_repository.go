package postgres

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/inventory"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

var _ repository.MovimientoRepository = (*MovimientoRepo)(nil)

var movimientoColumns = []string{
	"id", "producto_id", "sede_id", "tipo", "cantidad", "stock_antes", "stock_despues",
	"motivo", "referencia", "observaciones", "usuario_id", "fecha", "anulado",
	"lote_id", "traspaso_relacionado_id", "sede_origen_id", "sede_destino_id", "estado_traspaso",
}

// MovimientoRepo kardex sobre PostgreSQL. seq desempata filas con la misma fecha.
type MovimientoRepo struct {
	q Querier
}

// NewMovimientoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovimientoRepository(q Querier) *MovimientoRepo {
	return &MovimientoRepo{q: q}
}

func (r *MovimientoRepo) Create(ctx context.Context, m *entity.Movimiento) error {
	_, err := exec(ctx, r.q, psql.Insert("movimientos").Columns(movimientoColumns...).Values(
		m.ID, m.ProductoID, m.SedeID, string(m.Tipo), m.Cantidad, m.StockAntes, m.StockDespues,
		m.Motivo, m.Referencia, m.Observaciones, m.UsuarioID, m.Fecha, m.Anulado,
		m.LoteID, m.TraspasoRelacionadoID, m.SedeOrigenID, m.SedeDestinoID, string(m.EstadoTraspaso),
	), "insert movimiento")
	return err
}

func (r *MovimientoRepo) GetByID(ctx context.Context, id string) (*entity.Movimiento, error) {
	return getOne[entity.Movimiento](ctx, r.q, psql.Select(movimientoColumns...).From("movimientos").Where(squirrel.Eq{"id": id}), "get movimiento")
}

// MarcarAnulado única modificación permitida sobre una fila del kardex.
func (r *MovimientoRepo) MarcarAnulado(ctx context.Context, id string) error {
	tag, err := exec(ctx, r.q, psql.Update("movimientos").Set("anulado", true).Where(squirrel.Eq{"id": id}), "anular movimiento")
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func movimientoWhere(f entity.MovimientoFilter) squirrel.And {
	where := squirrel.And{}
	if f.ProductoID != "" {
		where = append(where, squirrel.Eq{"producto_id": f.ProductoID})
	}
	if f.SedeID != "" {
		where = append(where, squirrel.Eq{"sede_id": f.SedeID})
	}
	if f.Tipo != "" {
		where = append(where, squirrel.Eq{"tipo": string(f.Tipo)})
	}
	if f.Referencia != "" {
		where = append(where, squirrel.Eq{"referencia": f.Referencia})
	}
	if f.FechaDesde != nil {
		where = append(where, squirrel.GtOrEq{"fecha": *f.FechaDesde})
	}
	if f.FechaHasta != nil {
		where = append(where, squirrel.LtOrEq{"fecha": *f.FechaHasta})
	}
	return where
}

// List filtra el kardex. Limit 0 devuelve todas las filas.
func (r *MovimientoRepo) List(ctx context.Context, f entity.MovimientoFilter) ([]*entity.Movimiento, int, error) {
	where := movimientoWhere(f)
	total, err := count(ctx, r.q, psql.Select("COUNT(*)").From("movimientos").Where(where), "count movimientos")
	if err != nil {
		return nil, 0, err
	}
	order := []string{"fecha DESC", "seq DESC"}
	if f.Ascendente {
		order = []string{"fecha", "seq"}
	}
	b := psql.Select(movimientoColumns...).From("movimientos").Where(where).OrderBy(order...)
	list, err := selectAll[*entity.Movimiento](ctx, r.q, paginate(b, f.Limit, f.Offset), "list movimientos")
	return list, total, err
}

// TotalesPorTipo agrega filas no anuladas del producto; sedeID vacío suma todas las sedes.
func (r *MovimientoRepo) TotalesPorTipo(ctx context.Context, productoID, sedeID string) ([]inventory.TotalTipo, error) {
	where := squirrel.Eq{"producto_id": productoID, "anulado": false}
	if sedeID != "" {
		where["sede_id"] = sedeID
	}
	b := psql.Select("tipo", "SUM(cantidad) AS cantidad", "COUNT(*) AS filas").
		From("movimientos").Where(where).GroupBy("tipo").OrderBy("tipo")
	return selectAll[inventory.TotalTipo](ctx, r.q, b, "totales por tipo")
}

// ListTraspasos lista lotes de traspaso (fila de salida con su entrada) en los que participa la sede.
func (r *MovimientoRepo) ListTraspasos(ctx context.Context, sedeID string, limit, offset int) ([]entity.Traspaso, int, error) {
	where := squirrel.And{squirrel.Eq{"tipo": string(entity.MovTraspasoSalida)}}
	if sedeID != "" {
		where = append(where, squirrel.Or{squirrel.Eq{"sede_origen_id": sedeID}, squirrel.Eq{"sede_destino_id": sedeID}})
	}
	total, err := count(ctx, r.q, psql.Select("COUNT(*)").From("movimientos").Where(where), "count traspasos")
	if err != nil {
		return nil, 0, err
	}
	b := psql.Select(
		"lote_id", "id AS salida_id", "traspaso_relacionado_id AS entrada_id", "producto_id",
		"sede_origen_id", "sede_destino_id", "cantidad", "estado_traspaso AS estado",
		"motivo", "usuario_id", "fecha",
	).From("movimientos").Where(where).OrderBy("fecha DESC", "seq DESC")
	list, err := selectAll[entity.Traspaso](ctx, r.q, paginate(b, limit, offset), "list traspasos")
	return list, total, err
}
