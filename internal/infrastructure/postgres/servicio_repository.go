package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

var _ repository.ServicioRepository = (*ServicioRepo)(nil)

// equipos y servicios_adicionales son jsonb; fotos_* son text[].
var servicioColumns = []string{
	"id", "numero", "sede_id", "cliente_id", "cliente_nombre", "tipo",
	"equipos", "servicios_adicionales", "diagnostico", "solucion", "fotos_antes", "fotos_despues",
	"costo_servicio", "costo_repuestos", "monto_servicios_adicionales", "total", "a_cuenta", "saldo",
	"estado", "fecha_recepcion", "fecha_reparacion", "fecha_entrega",
	"quien_recibe_nombre", "quien_recibe_dni", "motivo_cancelacion", "adelanto_devuelto", "metodo_devolucion",
	"usuario_id", "created_at", "updated_at",
}

var (
	servicioItemColumns = []string{"id", "servicio_id", "producto_id", "producto_nombre", "cantidad", "precio_unit", "subtotal"}
	historialColumns    = []string{"id", "servicio_id", "estado_anterior", "estado_nuevo", "usuario_id", "comentario", "fecha"}
)

// ServicioRepo tickets de servicio técnico sobre PostgreSQL.
type ServicioRepo struct {
	q Querier
}

// NewServicioRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServicioRepository(q Querier) *ServicioRepo {
	return &ServicioRepo{q: q}
}

// NextNumero toma el siguiente correlativo ST-000001 de la secuencia.
func (r *ServicioRepo) NextNumero(ctx context.Context) (string, error) {
	var n int64
	if err := r.q.QueryRow(ctx, "SELECT nextval('servicios_numero_seq')").Scan(&n); err != nil {
		return "", fmt.Errorf("next numero servicio: %w", err)
	}
	return fmt.Sprintf("ST-%06d", n), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (r *ServicioRepo) Create(ctx context.Context, s *entity.Servicio) error {
	_, err := exec(ctx, r.q, psql.Insert("servicios").Columns(servicioColumns...).Values(
		s.ID, s.Numero, s.SedeID, s.ClienteID, s.ClienteNombre, string(s.Tipo),
		nonNil(s.Equipos), nonNil(s.ServiciosAdicionales), s.Diagnostico, s.Solucion, nonNil(s.FotosAntes), nonNil(s.FotosDespues),
		s.CostoServicio, s.CostoRepuestos, s.MontoServiciosAdicionales, s.Total, s.ACuenta, s.Saldo,
		string(s.Estado), s.FechaRecepcion, s.FechaReparacion, s.FechaEntrega,
		s.QuienRecibeNombre, s.QuienRecibeDNI, s.MotivoCancelacion, s.AdelantoDevuelto, s.MetodoDevolucion,
		s.UsuarioID, s.CreatedAt, s.UpdatedAt,
	), "insert servicio")
	return err
}

func (r *ServicioRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Servicio, error) {
	b := psql.Select(servicioColumns...).From("servicios").Where(squirrel.Eq{"id": id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	s, err := getOne[entity.Servicio](ctx, r.q, b, "get servicio")
	if err != nil || s == nil {
		return nil, err
	}
	items, err := selectAll[entity.ServicioItem](ctx, r.q, psql.Select(servicioItemColumns...).From("servicio_items").
		Where(squirrel.Eq{"servicio_id": id}).OrderBy("producto_nombre"), "list servicio items")
	if err != nil {
		return nil, err
	}
	s.Items = items
	return s, nil
}

// GetByID carga el ticket con Items e Historial.
func (r *ServicioRepo) GetByID(ctx context.Context, id string) (*entity.Servicio, error) {
	s, err := r.get(ctx, id, false)
	if err != nil || s == nil {
		return nil, err
	}
	historial, err := selectAll[entity.ServicioHistorial](ctx, r.q, psql.Select(historialColumns...).From("servicio_historial").
		Where(squirrel.Eq{"servicio_id": id}).OrderBy("fecha", "seq"), "list historial")
	if err != nil {
		return nil, err
	}
	s.Historial = historial
	return s, nil
}

// GetForUpdate bloquea la fila del ticket y carga sus Items.
func (r *ServicioRepo) GetForUpdate(ctx context.Context, id string) (*entity.Servicio, error) {
	return r.get(ctx, id, true)
}

func (r *ServicioRepo) Update(ctx context.Context, s *entity.Servicio) error {
	tag, err := exec(ctx, r.q, psql.Update("servicios").SetMap(map[string]any{
		"diagnostico":                 s.Diagnostico,
		"solucion":                    s.Solucion,
		"fotos_despues":               nonNil(s.FotosDespues),
		"costo_servicio":              s.CostoServicio,
		"costo_repuestos":             s.CostoRepuestos,
		"monto_servicios_adicionales": s.MontoServiciosAdicionales,
		"total":                       s.Total,
		"a_cuenta":                    s.ACuenta,
		"saldo":                       s.Saldo,
		"estado":                      string(s.Estado),
		"fecha_reparacion":            s.FechaReparacion,
		"fecha_entrega":               s.FechaEntrega,
		"quien_recibe_nombre":         s.QuienRecibeNombre,
		"quien_recibe_dni":            s.QuienRecibeDNI,
		"motivo_cancelacion":          s.MotivoCancelacion,
		"adelanto_devuelto":           s.AdelantoDevuelto,
		"metodo_devolucion":           s.MetodoDevolucion,
		"updated_at":                  s.UpdatedAt,
	}).Where(squirrel.Eq{"id": s.ID}), "update servicio")
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ServicioRepo) List(ctx context.Context, f entity.ServicioFilter) ([]*entity.Servicio, int, error) {
	where := squirrel.Eq{}
	if f.SedeID != "" {
		where["sede_id"] = f.SedeID
	}
	if f.ClienteID != "" {
		where["cliente_id"] = f.ClienteID
	}
	if f.Estado != "" {
		where["estado"] = string(f.Estado)
	}
	total, err := count(ctx, r.q, psql.Select("COUNT(*)").From("servicios").Where(where), "count servicios")
	if err != nil {
		return nil, 0, err
	}
	b := psql.Select(servicioColumns...).From("servicios").Where(where).OrderBy("numero DESC")
	list, err := selectAll[*entity.Servicio](ctx, r.q, paginate(b, f.Limit, f.Offset), "list servicios")
	return list, total, err
}

func (r *ServicioRepo) CreateItem(ctx context.Context, it *entity.ServicioItem) error {
	_, err := exec(ctx, r.q, psql.Insert("servicio_items").Columns(servicioItemColumns...).
		Values(it.ID, it.ServicioID, it.ProductoID, it.ProductoNombre, it.Cantidad, it.PrecioUnit, it.Subtotal), "insert servicio item")
	return err
}

func (r *ServicioRepo) UpdateItem(ctx context.Context, it *entity.ServicioItem) error {
	tag, err := exec(ctx, r.q, psql.Update("servicio_items").
		Set("cantidad", it.Cantidad).
		Set("precio_unit", it.PrecioUnit).
		Set("subtotal", it.Subtotal).
		Where(squirrel.Eq{"id": it.ID}), "update servicio item")
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ServicioRepo) DeleteItem(ctx context.Context, id string) error {
	_, err := exec(ctx, r.q, psql.Delete("servicio_items").Where(squirrel.Eq{"id": id}), "delete servicio item")
	return err
}

func (r *ServicioRepo) AddHistorial(ctx context.Context, h *entity.ServicioHistorial) error {
	_, err := exec(ctx, r.q, psql.Insert("servicio_historial").Columns(historialColumns...).
		Values(h.ID, h.ServicioID, string(h.EstadoAnterior), string(h.EstadoNuevo), h.UsuarioID, h.Comentario, h.Fecha), "insert historial")
	return err
}
