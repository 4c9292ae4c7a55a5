package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

var (
	_ repository.ServicioRepository = (*servicioRepo)(nil)
	_ repository.VentaRepository    = (*ventaRepo)(nil)
)

func cloneServicio(s entity.Servicio) entity.Servicio {
	s.Equipos = append([]entity.Equipo(nil), s.Equipos...)
	s.ServiciosAdicionales = append([]entity.ServicioAdicional(nil), s.ServiciosAdicionales...)
	s.FotosAntes = append([]string(nil), s.FotosAntes...)
	s.FotosDespues = append([]string(nil), s.FotosDespues...)
	if s.FechaReparacion != nil {
		t := *s.FechaReparacion
		s.FechaReparacion = &t
	}
	if s.FechaEntrega != nil {
		t := *s.FechaEntrega
		s.FechaEntrega = &t
	}
	s.Items = nil
	s.Historial = nil
	return s
}

type servicioRepo struct{ at access }

func (r *servicioRepo) NextNumero(_ context.Context) (string, error) {
	d, done := r.at()
	defer done()
	d.seqServicio++
	return fmt.Sprintf("ST-%06d", d.seqServicio), nil
}

func (r *servicioRepo) Create(_ context.Context, s *entity.Servicio) error {
	d, done := r.at()
	defer done()
	if _, ok := d.servicios[s.ID]; ok {
		return domain.ErrDuplicate
	}
	d.servicios[s.ID] = cloneServicio(*s)
	return nil
}

func (r *servicioRepo) load(d *data, id string, historial bool) *entity.Servicio {
	stored, ok := d.servicios[id]
	if !ok {
		return nil
	}
	s := cloneServicio(stored)
	for _, it := range d.items {
		if it.ServicioID == id {
			s.Items = append(s.Items, it)
		}
	}
	sort.Slice(s.Items, func(i, j int) bool { return s.Items[i].ProductoNombre < s.Items[j].ProductoNombre })
	if historial {
		for _, h := range d.historial {
			if h.ServicioID == id {
				s.Historial = append(s.Historial, h)
			}
		}
	}
	return &s
}

func (r *servicioRepo) GetByID(_ context.Context, id string) (*entity.Servicio, error) {
	d, done := r.at()
	defer done()
	return r.load(d, id, true), nil
}

func (r *servicioRepo) GetForUpdate(_ context.Context, id string) (*entity.Servicio, error) {
	d, done := r.at()
	defer done()
	return r.load(d, id, false), nil
}

func (r *servicioRepo) Update(_ context.Context, s *entity.Servicio) error {
	d, done := r.at()
	defer done()
	if _, ok := d.servicios[s.ID]; !ok {
		return domain.ErrNotFound
	}
	d.servicios[s.ID] = cloneServicio(*s)
	return nil
}

func (r *servicioRepo) List(_ context.Context, f entity.ServicioFilter) ([]*entity.Servicio, int, error) {
	d, done := r.at()
	defer done()
	var list []*entity.Servicio
	for _, stored := range d.servicios {
		if f.SedeID != "" && stored.SedeID != f.SedeID {
			continue
		}
		if f.ClienteID != "" && stored.ClienteID != f.ClienteID {
			continue
		}
		if f.Estado != "" && stored.Estado != f.Estado {
			continue
		}
		s := cloneServicio(stored)
		list = append(list, &s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Numero > list[j].Numero })
	return page(list, f.Limit, f.Offset), len(list), nil
}

func (r *servicioRepo) CreateItem(_ context.Context, item *entity.ServicioItem) error {
	d, done := r.at()
	defer done()
	for _, it := range d.items {
		if it.ServicioID == item.ServicioID && it.ProductoID == item.ProductoID {
			return domain.ErrDuplicate
		}
	}
	d.items[item.ID] = *item
	return nil
}

func (r *servicioRepo) UpdateItem(_ context.Context, item *entity.ServicioItem) error {
	d, done := r.at()
	defer done()
	if _, ok := d.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	d.items[item.ID] = *item
	return nil
}

func (r *servicioRepo) DeleteItem(_ context.Context, id string) error {
	d, done := r.at()
	defer done()
	delete(d.items, id)
	return nil
}

func (r *servicioRepo) AddHistorial(_ context.Context, h *entity.ServicioHistorial) error {
	d, done := r.at()
	defer done()
	d.historial = append(d.historial, *h)
	return nil
}

func cloneVenta(v entity.Venta) entity.Venta {
	v.Items = append([]entity.VentaItem(nil), v.Items...)
	v.Pagos = append([]entity.Pago(nil), v.Pagos...)
	return v
}

type ventaRepo struct{ at access }

func (r *ventaRepo) NextNumero(_ context.Context) (string, error) {
	d, done := r.at()
	defer done()
	d.seqVenta++
	return fmt.Sprintf("V-%06d", d.seqVenta), nil
}

func (r *ventaRepo) Create(_ context.Context, v *entity.Venta) error {
	d, done := r.at()
	defer done()
	if _, ok := d.ventas[v.ID]; ok {
		return domain.ErrDuplicate
	}
	d.ventas[v.ID] = cloneVenta(*v)
	return nil
}

func (r *ventaRepo) GetByID(_ context.Context, id string) (*entity.Venta, error) {
	d, done := r.at()
	defer done()
	v, ok := d.ventas[id]
	if !ok {
		return nil, nil
	}
	v = cloneVenta(v)
	return &v, nil
}

func (r *ventaRepo) GetForUpdate(ctx context.Context, id string) (*entity.Venta, error) {
	return r.GetByID(ctx, id)
}

func (r *ventaRepo) Anular(_ context.Context, id, motivo, usuarioID string) error {
	d, done := r.at()
	defer done()
	v, ok := d.ventas[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.Estado = entity.VentaAnulada
	v.MotivoAnulacion = motivo
	v.AnuladaPor = usuarioID
	d.ventas[id] = v
	return nil
}

func (r *ventaRepo) List(_ context.Context, f entity.VentaFilter) ([]*entity.Venta, int, error) {
	d, done := r.at()
	defer done()
	var list []*entity.Venta
	for _, stored := range d.ventas {
		if f.SedeID != "" && stored.SedeID != f.SedeID {
			continue
		}
		if f.Estado != "" && stored.Estado != f.Estado {
			continue
		}
		v := cloneVenta(stored)
		list = append(list, &v)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Numero > list[j].Numero })
	return page(list, f.Limit, f.Offset), len(list), nil
}
