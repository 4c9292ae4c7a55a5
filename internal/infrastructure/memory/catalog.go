package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

var (
	_ repository.SedeRepository     = (*sedeRepo)(nil)
	_ repository.ProductoRepository = (*productoRepo)(nil)
	_ repository.ClienteRepository  = (*clienteRepo)(nil)
	_ repository.StockRepository    = (*stockRepo)(nil)
)

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}

type sedeRepo struct{ at access }

func (r *sedeRepo) Create(_ context.Context, sede *entity.Sede) error {
	d, done := r.at()
	defer done()
	if _, ok := d.sedes[sede.ID]; ok {
		return domain.ErrDuplicate
	}
	d.sedes[sede.ID] = *sede
	return nil
}

func (r *sedeRepo) GetByID(_ context.Context, id string) (*entity.Sede, error) {
	d, done := r.at()
	defer done()
	s, ok := d.sedes[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *sedeRepo) Update(_ context.Context, sede *entity.Sede) error {
	d, done := r.at()
	defer done()
	if _, ok := d.sedes[sede.ID]; !ok {
		return domain.ErrNotFound
	}
	d.sedes[sede.ID] = *sede
	return nil
}

func (r *sedeRepo) List(_ context.Context, limit, offset int) ([]*entity.Sede, int, error) {
	d, done := r.at()
	defer done()
	list := make([]*entity.Sede, 0, len(d.sedes))
	for _, s := range d.sedes {
		s := s
		list = append(list, &s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Nombre < list[j].Nombre })
	return page(list, limit, offset), len(list), nil
}

type productoRepo struct{ at access }

func (r *productoRepo) Create(_ context.Context, p *entity.Producto) error {
	d, done := r.at()
	defer done()
	for _, existing := range d.productos {
		if existing.Codigo == p.Codigo {
			return domain.ErrDuplicate
		}
	}
	d.productos[p.ID] = *p
	return nil
}

func (r *productoRepo) GetByID(_ context.Context, id string) (*entity.Producto, error) {
	d, done := r.at()
	defer done()
	p, ok := d.productos[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productoRepo) GetByCodigo(_ context.Context, codigo string) (*entity.Producto, error) {
	d, done := r.at()
	defer done()
	for _, p := range d.productos {
		if p.Codigo == codigo {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *productoRepo) Update(_ context.Context, p *entity.Producto) error {
	d, done := r.at()
	defer done()
	if _, ok := d.productos[p.ID]; !ok {
		return domain.ErrNotFound
	}
	d.productos[p.ID] = *p
	return nil
}

func (r *productoRepo) UpdateCosto(_ context.Context, productoID string, costo decimal.Decimal) error {
	d, done := r.at()
	defer done()
	p, ok := d.productos[productoID]
	if !ok {
		return domain.ErrNotFound
	}
	p.PrecioCompra = costo
	p.UpdatedAt = time.Now()
	d.productos[productoID] = p
	return nil
}

func (r *productoRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Producto, int, error) {
	d, done := r.at()
	defer done()
	search = strings.ToLower(strings.TrimSpace(search))
	list := make([]*entity.Producto, 0, len(d.productos))
	for _, p := range d.productos {
		if search != "" && !strings.Contains(strings.ToLower(p.Nombre), search) &&
			!strings.Contains(strings.ToLower(p.Codigo), search) {
			continue
		}
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Nombre < list[j].Nombre })
	return page(list, limit, offset), len(list), nil
}

type clienteRepo struct{ at access }

func (r *clienteRepo) Create(_ context.Context, c *entity.Cliente) error {
	d, done := r.at()
	defer done()
	if c.Documento != "" {
		for _, existing := range d.clientes {
			if existing.Documento == c.Documento {
				return domain.ErrDuplicate
			}
		}
	}
	d.clientes[c.ID] = *c
	return nil
}

func (r *clienteRepo) GetByID(_ context.Context, id string) (*entity.Cliente, error) {
	d, done := r.at()
	defer done()
	c, ok := d.clientes[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *clienteRepo) GetByDocumento(_ context.Context, documento string) (*entity.Cliente, error) {
	d, done := r.at()
	defer done()
	for _, c := range d.clientes {
		if documento != "" && c.Documento == documento {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *clienteRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Cliente, int, error) {
	d, done := r.at()
	defer done()
	search = strings.ToLower(strings.TrimSpace(search))
	list := make([]*entity.Cliente, 0, len(d.clientes))
	for _, c := range d.clientes {
		if search != "" && !strings.Contains(strings.ToLower(c.Nombre), search) &&
			!strings.Contains(c.Documento, search) {
			continue
		}
		c := c
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Nombre < list[j].Nombre })
	return page(list, limit, offset), len(list), nil
}

type stockRepo struct {
	at  access
	now func() time.Time
}

func (r *stockRepo) Get(_ context.Context, productoID, sedeID string) (*entity.ProductoSede, error) {
	d, done := r.at()
	defer done()
	ps, ok := d.stock[stockKey{productoID, sedeID}]
	if !ok {
		return &entity.ProductoSede{ProductoID: productoID, SedeID: sedeID}, nil
	}
	return &ps, nil
}

func (r *stockRepo) GetForUpdate(_ context.Context, productoID, sedeID string) (*entity.ProductoSede, error) {
	d, done := r.at()
	defer done()
	key := stockKey{productoID, sedeID}
	ps, ok := d.stock[key]
	if !ok {
		ps = entity.ProductoSede{ProductoID: productoID, SedeID: sedeID, UpdatedAt: r.now()}
		d.stock[key] = ps
	}
	return &ps, nil
}

func (r *stockRepo) Upsert(_ context.Context, s *entity.ProductoSede) error {
	d, done := r.at()
	defer done()
	s.UpdatedAt = r.now()
	d.stock[stockKey{s.ProductoID, s.SedeID}] = *s
	return nil
}

func (r *stockRepo) ListByProducto(_ context.Context, productoID string) ([]*entity.ProductoSede, error) {
	d, done := r.at()
	defer done()
	var list []*entity.ProductoSede
	for k, v := range d.stock {
		if k.productoID == productoID {
			v := v
			list = append(list, &v)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SedeID < list[j].SedeID })
	return list, nil
}

func (r *stockRepo) TotalByProducto(_ context.Context, productoID string) (int, error) {
	d, done := r.at()
	defer done()
	total := 0
	for k, v := range d.stock {
		if k.productoID == productoID {
			total += v.Stock
		}
	}
	return total, nil
}

func (r *stockRepo) ListBajoMinimo(_ context.Context, sedeID string) ([]entity.StockBajo, error) {
	d, done := r.at()
	defer done()
	var list []entity.StockBajo
	for _, p := range d.productos {
		if !p.Activo || p.StockMinimo <= 0 {
			continue
		}
		stock := d.stock[stockKey{p.ID, sedeID}].Stock
		if stock < p.StockMinimo {
			list = append(list, entity.StockBajo{
				ProductoID:  p.ID,
				Codigo:      p.Codigo,
				Nombre:      p.Nombre,
				Stock:       stock,
				StockMinimo: p.StockMinimo,
			})
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Codigo < list[j].Codigo })
	return list, nil
}
