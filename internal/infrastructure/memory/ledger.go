package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/inventory"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

var _ repository.MovimientoRepository = (*movimientoRepo)(nil)

type movimientoRepo struct{ at access }

func (r *movimientoRepo) Create(_ context.Context, mov *entity.Movimiento) error {
	d, done := r.at()
	defer done()
	for _, m := range d.movimientos {
		if m.ID == mov.ID {
			return domain.ErrDuplicate
		}
	}
	d.movimientos = append(d.movimientos, *mov)
	return nil
}

func (r *movimientoRepo) GetByID(_ context.Context, id string) (*entity.Movimiento, error) {
	d, done := r.at()
	defer done()
	for _, m := range d.movimientos {
		if m.ID == id {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (r *movimientoRepo) MarcarAnulado(_ context.Context, id string) error {
	d, done := r.at()
	defer done()
	for i := range d.movimientos {
		if d.movimientos[i].ID == id {
			d.movimientos[i].Anulado = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func matches(m entity.Movimiento, f entity.MovimientoFilter) bool {
	switch {
	case f.ProductoID != "" && m.ProductoID != f.ProductoID:
		return false
	case f.SedeID != "" && m.SedeID != f.SedeID:
		return false
	case f.Tipo != "" && m.Tipo != f.Tipo:
		return false
	case f.Referencia != "" && m.Referencia != f.Referencia:
		return false
	case f.FechaDesde != nil && m.Fecha.Before(*f.FechaDesde):
		return false
	case f.FechaHasta != nil && m.Fecha.After(*f.FechaHasta):
		return false
	}
	return true
}

func (r *movimientoRepo) List(_ context.Context, f entity.MovimientoFilter) ([]*entity.Movimiento, int, error) {
	d, done := r.at()
	defer done()
	// d.movimientos está en orden de inserción; el orden estable lo desempata.
	list := make([]*entity.Movimiento, 0)
	for _, m := range d.movimientos {
		if matches(m, f) {
			m := m
			list = append(list, &m)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Fecha.Before(list[j].Fecha) })
	if !f.Ascendente {
		for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
			list[i], list[j] = list[j], list[i]
		}
	}
	return page(list, f.Limit, f.Offset), len(list), nil
}

func (r *movimientoRepo) TotalesPorTipo(_ context.Context, productoID, sedeID string) ([]inventory.TotalTipo, error) {
	d, done := r.at()
	defer done()
	acc := make(map[entity.TipoMovimiento]*inventory.TotalTipo)
	for _, m := range d.movimientos {
		if m.Anulado || m.ProductoID != productoID || (sedeID != "" && m.SedeID != sedeID) {
			continue
		}
		t, ok := acc[m.Tipo]
		if !ok {
			t = &inventory.TotalTipo{Tipo: m.Tipo}
			acc[m.Tipo] = t
		}
		t.Cantidad += m.Cantidad
		t.Filas++
	}
	out := make([]inventory.TotalTipo, 0, len(acc))
	for _, t := range acc {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tipo < out[j].Tipo })
	return out, nil
}

func (r *movimientoRepo) ListTraspasos(_ context.Context, sedeID string, limit, offset int) ([]entity.Traspaso, int, error) {
	d, done := r.at()
	defer done()
	var list []entity.Traspaso
	for i := len(d.movimientos) - 1; i >= 0; i-- {
		m := d.movimientos[i]
		if m.Tipo != entity.MovTraspasoSalida {
			continue
		}
		if sedeID != "" && m.SedeOrigenID != sedeID && m.SedeDestinoID != sedeID {
			continue
		}
		list = append(list, entity.Traspaso{
			LoteID:        m.LoteID,
			SalidaID:      m.ID,
			EntradaID:     m.TraspasoRelacionadoID,
			ProductoID:    m.ProductoID,
			SedeOrigenID:  m.SedeOrigenID,
			SedeDestinoID: m.SedeDestinoID,
			Cantidad:      m.Cantidad,
			Estado:        m.EstadoTraspaso,
			Motivo:        m.Motivo,
			UsuarioID:     m.UsuarioID,
			Fecha:         m.Fecha,
		})
	}
	return page(list, limit, offset), len(list), nil
}
