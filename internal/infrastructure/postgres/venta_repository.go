package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

var _ repository.VentaRepository = (*VentaRepo)(nil)

// cliente_id y servicio_id son FK opcionales: NULL en la tabla, "" en la entidad.
var ventaColumns = []string{
	"id", "numero", "sede_id", "COALESCE(cliente_id, '') AS cliente_id", "usuario_id", "COALESCE(servicio_id, '') AS servicio_id",
	"subtotal", "descuento", "total", "estado", "motivo_anulacion", "anulada_por", "created_at", "updated_at",
}

var (
	ventaItemColumns = []string{"id", "venta_id", "producto_id", "producto_nombre", "cantidad", "precio_unit", "subtotal"}
	pagoColumns      = []string{"id", "venta_id", "metodo", "monto", "created_at"}
)

// VentaRepo ventas, items y pagos sobre PostgreSQL.
type VentaRepo struct {
	q Querier
}

// NewVentaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVentaRepository(q Querier) *VentaRepo {
	return &VentaRepo{q: q}
}

// NextNumero toma el siguiente correlativo V-000001 de la secuencia.
func (r *VentaRepo) NextNumero(ctx context.Context) (string, error) {
	var n int64
	if err := r.q.QueryRow(ctx, "SELECT nextval('ventas_numero_seq')").Scan(&n); err != nil {
		return "", fmt.Errorf("next numero venta: %w", err)
	}
	return fmt.Sprintf("V-%06d", n), nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Create persiste cabecera, items y pagos (un INSERT multi-fila por tabla).
func (r *VentaRepo) Create(ctx context.Context, v *entity.Venta) error {
	_, err := exec(ctx, r.q, psql.Insert("ventas").Columns(
		"id", "numero", "sede_id", "cliente_id", "usuario_id", "servicio_id",
		"subtotal", "descuento", "total", "estado", "motivo_anulacion", "anulada_por", "created_at", "updated_at",
	).Values(
		v.ID, v.Numero, v.SedeID, nullIfEmpty(v.ClienteID), v.UsuarioID, nullIfEmpty(v.ServicioID),
		v.Subtotal, v.Descuento, v.Total, v.Estado, v.MotivoAnulacion, v.AnuladaPor, v.CreatedAt, v.UpdatedAt,
	), "insert venta")
	if err != nil {
		return err
	}
	if len(v.Items) > 0 {
		ins := psql.Insert("venta_items").Columns(ventaItemColumns...)
		for _, it := range v.Items {
			ins = ins.Values(it.ID, v.ID, it.ProductoID, it.ProductoNombre, it.Cantidad, it.PrecioUnit, it.Subtotal)
		}
		if _, err := exec(ctx, r.q, ins, "insert venta items"); err != nil {
			return err
		}
	}
	if len(v.Pagos) > 0 {
		ins := psql.Insert("pagos").Columns(pagoColumns...)
		for _, p := range v.Pagos {
			ins = ins.Values(p.ID, v.ID, p.Metodo, p.Monto, p.CreatedAt)
		}
		if _, err := exec(ctx, r.q, ins, "insert pagos"); err != nil {
			return err
		}
	}
	return nil
}

func (r *VentaRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Venta, error) {
	b := psql.Select(ventaColumns...).From("ventas").Where(squirrel.Eq{"id": id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	v, err := getOne[entity.Venta](ctx, r.q, b, "get venta")
	if err != nil || v == nil {
		return nil, err
	}
	if v.Items, err = selectAll[entity.VentaItem](ctx, r.q, psql.Select(ventaItemColumns...).From("venta_items").
		Where(squirrel.Eq{"venta_id": id}).OrderBy("producto_nombre"), "list venta items"); err != nil {
		return nil, err
	}
	if v.Pagos, err = selectAll[entity.Pago](ctx, r.q, psql.Select(pagoColumns...).From("pagos").
		Where(squirrel.Eq{"venta_id": id}).OrderBy("created_at", "id"), "list pagos"); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *VentaRepo) GetByID(ctx context.Context, id string) (*entity.Venta, error) {
	return r.get(ctx, id, false)
}

func (r *VentaRepo) GetForUpdate(ctx context.Context, id string) (*entity.Venta, error) {
	return r.get(ctx, id, true)
}

func (r *VentaRepo) Anular(ctx context.Context, id, motivo, usuarioID string) error {
	tag, err := exec(ctx, r.q, psql.Update("ventas").
		Set("estado", entity.VentaAnulada).
		Set("motivo_anulacion", motivo).
		Set("anulada_por", usuarioID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}), "anular venta")
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve cabeceras (sin items ni pagos).
func (r *VentaRepo) List(ctx context.Context, f entity.VentaFilter) ([]*entity.Venta, int, error) {
	where := squirrel.Eq{}
	if f.SedeID != "" {
		where["sede_id"] = f.SedeID
	}
	if f.Estado != "" {
		where["estado"] = f.Estado
	}
	total, err := count(ctx, r.q, psql.Select("COUNT(*)").From("ventas").Where(where), "count ventas")
	if err != nil {
		return nil, 0, err
	}
	b := psql.Select(ventaColumns...).From("ventas").Where(where).OrderBy("numero DESC")
	list, err := selectAll[*entity.Venta](ctx, r.q, paginate(b, f.Limit, f.Offset), "list ventas")
	return list, total, err
}
