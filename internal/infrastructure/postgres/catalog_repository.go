package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

var (
	_ repository.SedeRepository     = (*SedeRepo)(nil)
	_ repository.ProductoRepository = (*ProductoRepo)(nil)
	_ repository.ClienteRepository  = (*ClienteRepo)(nil)
)

var (
	sedeColumns     = []string{"id", "nombre", "direccion", "activa", "created_at", "updated_at"}
	productoColumns = []string{"id", "codigo", "nombre", "descripcion", "precio_venta", "precio_compra", "stock_minimo", "activo", "created_at", "updated_at"}
	clienteColumns  = []string{"id", "nombre", "documento", "telefono", "email", "direccion", "created_at", "updated_at"}
)

// getOne ejecuta un SELECT de una fila; (nil, nil) si no existe.
func getOne[T any](ctx context.Context, q Querier, b squirrel.SelectBuilder, op string) (*T, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}
	var out T
	if err := pgxscan.Get(ctx, q, &out, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

// selectAll ejecuta un SELECT de varias filas.
func selectAll[T any](ctx context.Context, q Querier, b squirrel.SelectBuilder, op string) ([]T, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}
	var out []T
	if err := pgxscan.Select(ctx, q, &out, sql, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func paginate(b squirrel.SelectBuilder, limit, offset int) squirrel.SelectBuilder {
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}
	return b
}

// SedeRepo implementación de SedeRepository sobre PostgreSQL (usable con pool o tx).
type SedeRepo struct {
	q Querier
}

// NewSedeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSedeRepository(q Querier) *SedeRepo {
	return &SedeRepo{q: q}
}

func (r *SedeRepo) Create(ctx context.Context, s *entity.Sede) error {
	_, err := exec(ctx, r.q, psql.Insert("sedes").Columns(sedeColumns...).
		Values(s.ID, s.Nombre, s.Direccion, s.Activa, s.CreatedAt, s.UpdatedAt), "insert sede")
	return err
}

func (r *SedeRepo) GetByID(ctx context.Context, id string) (*entity.Sede, error) {
	return getOne[entity.Sede](ctx, r.q, psql.Select(sedeColumns...).From("sedes").Where(squirrel.Eq{"id": id}), "get sede")
}

func (r *SedeRepo) Update(ctx context.Context, s *entity.Sede) error {
	tag, err := exec(ctx, r.q, psql.Update("sedes").
		Set("nombre", s.Nombre).
		Set("direccion", s.Direccion).
		Set("activa", s.Activa).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID}), "update sede")
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SedeRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sede, int, error) {
	total, err := count(ctx, r.q, psql.Select("COUNT(*)").From("sedes"), "count sedes")
	if err != nil {
		return nil, 0, err
	}
	list, err := selectAll[*entity.Sede](ctx, r.q, paginate(psql.Select(sedeColumns...).From("sedes").OrderBy("nombre"), limit, offset), "list sedes")
	return list, total, err
}

// ProductoRepo implementación de ProductoRepository sobre PostgreSQL.
type ProductoRepo struct {
	q Querier
}

// NewProductoRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductoRepository(q Querier) *ProductoRepo {
	return &ProductoRepo{q: q}
}

// Create persiste un nuevo producto. Un código repetido devuelve domain.ErrDuplicate.
func (r *ProductoRepo) Create(ctx context.Context, p *entity.Producto) error {
	_, err := exec(ctx, r.q, psql.Insert("productos").Columns(productoColumns...).
		Values(p.ID, p.Codigo, p.Nombre, p.Descripcion, p.PrecioVenta, p.PrecioCompra, p.StockMinimo, p.Activo, p.CreatedAt, p.UpdatedAt),
		"insert producto")
	return err
}

func (r *ProductoRepo) GetByID(ctx context.Context, id string) (*entity.Producto, error) {
	return getOne[entity.Producto](ctx, r.q, psql.Select(productoColumns...).From("productos").Where(squirrel.Eq{"id": id}), "get producto")
}

func (r *ProductoRepo) GetByCodigo(ctx context.Context, codigo string) (*entity.Producto, error) {
	return getOne[entity.Producto](ctx, r.q, psql.Select(productoColumns...).From("productos").Where(squirrel.Eq{"codigo": codigo}), "get producto by codigo")
}

// Update actualiza un producto existente. No toca precio_compra (se maneja vía movimientos).
func (r *ProductoRepo) Update(ctx context.Context, p *entity.Producto) error {
	tag, err := exec(ctx, r.q, psql.Update("productos").
		Set("nombre", p.Nombre).
		Set("descripcion", p.Descripcion).
		Set("precio_venta", p.PrecioVenta).
		Set("stock_minimo", p.StockMinimo).
		Set("activo", p.Activo).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"id": p.ID}), "update producto")
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCosto actualiza solo el costo promedio (usado por el kardex).
func (r *ProductoRepo) UpdateCosto(ctx context.Context, productoID string, costo decimal.Decimal) error {
	_, err := exec(ctx, r.q, psql.Update("productos").
		Set("precio_compra", costo).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": productoID}), "update producto costo")
	return err
}

func (r *ProductoRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Producto, int, error) {
	where := squirrel.And{}
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + s + "%"
		where = append(where, squirrel.Or{squirrel.ILike{"nombre": like}, squirrel.ILike{"codigo": like}})
	}
	total, err := count(ctx, r.q, psql.Select("COUNT(*)").From("productos").Where(where), "count productos")
	if err != nil {
		return nil, 0, err
	}
	b := psql.Select(productoColumns...).From("productos").Where(where).OrderBy("nombre")
	list, err := selectAll[*entity.Producto](ctx, r.q, paginate(b, limit, offset), "list productos")
	return list, total, err
}

// ClienteRepo implementación de ClienteRepository sobre PostgreSQL.
type ClienteRepo struct {
	q Querier
}

// NewClienteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClienteRepository(q Querier) *ClienteRepo {
	return &ClienteRepo{q: q}
}

func (r *ClienteRepo) Create(ctx context.Context, c *entity.Cliente) error {
	_, err := exec(ctx, r.q, psql.Insert("clientes").Columns(clienteColumns...).
		Values(c.ID, c.Nombre, c.Documento, c.Telefono, c.Email, c.Direccion, c.CreatedAt, c.UpdatedAt), "insert cliente")
	return err
}

func (r *ClienteRepo) GetByID(ctx context.Context, id string) (*entity.Cliente, error) {
	return getOne[entity.Cliente](ctx, r.q, psql.Select(clienteColumns...).From("clientes").Where(squirrel.Eq{"id": id}), "get cliente")
}

func (r *ClienteRepo) GetByDocumento(ctx context.Context, documento string) (*entity.Cliente, error) {
	if documento == "" {
		return nil, nil
	}
	return getOne[entity.Cliente](ctx, r.q, psql.Select(clienteColumns...).From("clientes").Where(squirrel.Eq{"documento": documento}), "get cliente by documento")
}

func (r *ClienteRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Cliente, int, error) {
	where := squirrel.And{}
	if s := strings.TrimSpace(search); s != "" {
		where = append(where, squirrel.Or{squirrel.ILike{"nombre": "%" + s + "%"}, squirrel.Like{"documento": "%" + s + "%"}})
	}
	total, err := count(ctx, r.q, psql.Select("COUNT(*)").From("clientes").Where(where), "count clientes")
	if err != nil {
		return nil, 0, err
	}
	b := psql.Select(clienteColumns...).From("clientes").Where(where).OrderBy("nombre")
	list, err := selectAll[*entity.Cliente](ctx, r.q, paginate(b, limit, offset), "list clientes")
	return list, total, err
}
