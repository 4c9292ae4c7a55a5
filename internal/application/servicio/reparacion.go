package servicio

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/application/inventory"
	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

// IniciarReparacion RECEPCIONADO -> EN_REPARACION.
func (uc *UseCase) IniciarReparacion(ctx context.Context, actor entity.Actor, id string) (*dto.ServicioResponse, error) {
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		s, err := uc.bloquear(ctx, r, actor, id)
		if err != nil {
			return err
		}
		if !s.Estado.PuedeTransicionarA(entity.EstadoEnReparacion) {
			return transicionInvalida(s, entity.EstadoEnReparacion)
		}
		anterior := s.Estado
		s.Estado = entity.EstadoEnReparacion
		s.UpdatedAt = uc.now()
		if err := r.Servicios.Update(ctx, s); err != nil {
			return err
		}
		return uc.historial(ctx, r, s, anterior, actor.UserID, "Inicio de reparación")
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, actor, id)
}

// MarcarReparado registra diagnóstico, solución y repuestos usados. Cada repuesto se verifica
// contra el stock de la sede del ticket antes de escribir nada; si alguno no alcanza se aborta
// toda la transición.
func (uc *UseCase) MarcarReparado(ctx context.Context, actor entity.Actor, id string, in dto.MarcarReparadoRequest) (*dto.ServicioResponse, error) {
	diagnostico := strings.TrimSpace(in.Diagnostico)
	solucion := strings.TrimSpace(in.Solucion)
	if diagnostico == "" || solucion == "" {
		return nil, domain.Invalid("diagnóstico y solución son requeridos")
	}
	repuestos, err := inventory.ResolverLineas(ctx, uc.productRepo, in.RepuestosUsados)
	if err != nil {
		return nil, err
	}

	err = uc.txRunner.RunWithOptions(ctx, repository.TxOptions{Name: "servicios.marcar_reparado"}, func(r repository.TxRepos) error {
		s, err := uc.bloquear(ctx, r, actor, id)
		if err != nil {
			return err
		}
		if !s.Estado.PuedeTransicionarA(entity.EstadoReparado) {
			return transicionInvalida(s, entity.EstadoReparado)
		}
		fecha := uc.now()
		if in.FechaReparacion != nil {
			fecha = *in.FechaReparacion
		}
		if fecha.Before(s.FechaRecepcion) {
			return domain.Invalid("la fecha de reparación no puede ser anterior a la fecha de recepción")
		}

		if len(repuestos) > 0 {
			if err := uc.ledger.Reservar(ctx, r, inventory.Requerimientos(repuestos, s.SedeID), repuestoInsuficiente); err != nil {
				return err
			}
		}
		costo, err := uc.consumir(ctx, r, s, repuestos, entity.MovSalidaReparacion, actor.UserID)
		if err != nil {
			return err
		}
		s.CostoRepuestos = s.CostoRepuestos.Add(costo)
		s.Total = s.Total.Add(costo)
		s.Saldo = s.Saldo.Add(costo)

		anterior := s.Estado
		s.Diagnostico = diagnostico
		s.Solucion = solucion
		if in.FotosDespues != nil {
			s.FotosDespues = in.FotosDespues
		}
		s.FechaReparacion = &fecha
		s.Estado = entity.EstadoReparado
		s.UpdatedAt = uc.now()
		if err := r.Servicios.Update(ctx, s); err != nil {
			return err
		}
		comentario := "Equipo reparado"
		if len(repuestos) > 0 {
			comentario = fmt.Sprintf("Equipo reparado. Repuestos: %d, costo repuestos: %s", len(repuestos), costo.StringFixed(2))
		}
		return uc.historial(ctx, r, s, anterior, actor.UserID, comentario)
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, actor, id)
}

// EditarReparacion corrige una reparación antes de la entrega. La lista de repuestos recibida se
// compara por producto contra la actual y solo se mueve la diferencia: faltantes vuelven con
// ENTRADA_DEVOLUCION, nuevos o aumentos salen con SALIDA_REPARACION. Los costos se ajustan por el
// delta neto. No agrega fila de historial.
func (uc *UseCase) EditarReparacion(ctx context.Context, actor entity.Actor, id string, in dto.EditarReparacionRequest) (*dto.ServicioResponse, error) {
	var deseados []inventory.Linea
	if in.RepuestosActualizados != nil {
		var err error
		deseados, err = inventory.ResolverLineas(ctx, uc.productRepo, in.RepuestosActualizados)
		if err != nil {
			return nil, err
		}
	}
	if in.Diagnostico != nil && strings.TrimSpace(*in.Diagnostico) == "" {
		return nil, domain.Invalid("el diagnóstico no puede quedar vacío")
	}
	if in.Solucion != nil && strings.TrimSpace(*in.Solucion) == "" {
		return nil, domain.Invalid("la solución no puede quedar vacía")
	}

	err := uc.txRunner.RunWithOptions(ctx, repository.TxOptions{Name: "servicios.editar_reparacion"}, func(r repository.TxRepos) error {
		s, err := uc.bloquear(ctx, r, actor, id)
		if err != nil {
			return err
		}
		if s.Estado != entity.EstadoReparado {
			return domain.Conflict("solo se puede editar una reparación en estado REPARADO; el servicio %s está en %s", s.Numero, s.Estado).
				WithDetail("estadoActual", string(s.Estado))
		}
		if in.Diagnostico != nil {
			s.Diagnostico = strings.TrimSpace(*in.Diagnostico)
		}
		if in.Solucion != nil {
			s.Solucion = strings.TrimSpace(*in.Solucion)
		}
		if in.FotosDespues != nil {
			s.FotosDespues = in.FotosDespues
		}
		if in.RepuestosActualizados != nil {
			delta, err := uc.ajustarRepuestos(ctx, r, s, deseados, actor.UserID)
			if err != nil {
				return err
			}
			s.CostoRepuestos = s.CostoRepuestos.Add(delta)
			s.Total = s.Total.Add(delta)
			s.Saldo = s.Saldo.Add(delta)
		}
		s.UpdatedAt = uc.now()
		return r.Servicios.Update(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, actor, id)
}

type ajuste struct {
	item     *entity.ServicioItem // nil: repuesto nuevo
	linea    *inventory.Linea     // nil: repuesto quitado
	delta    int                  // unidades a sacar (>0) o devolver (<0)
	subtotal decimal.Decimal      // subtotal final del item modificado
}

func (a ajuste) productoID() string {
	if a.item != nil {
		return a.item.ProductoID
	}
	return a.linea.Producto.ID
}

// ajustarRepuestos aplica la diferencia entre los repuestos actuales y los deseados y devuelve el
// delta de costo. Los movimientos se aplican en orden de producto.
func (uc *UseCase) ajustarRepuestos(ctx context.Context, r repository.TxRepos, s *entity.Servicio, deseados []inventory.Linea, usuarioID string) (decimal.Decimal, error) {
	actuales := make(map[string]*entity.ServicioItem, len(s.Items))
	for i := range s.Items {
		actuales[s.Items[i].ProductoID] = &s.Items[i]
	}
	var ajustes []ajuste
	vistos := make(map[string]bool, len(deseados))
	for i := range deseados {
		l := &deseados[i]
		vistos[l.Producto.ID] = true
		it, ok := actuales[l.Producto.ID]
		if !ok {
			ajustes = append(ajustes, ajuste{linea: l, delta: l.Cantidad})
			continue
		}
		delta := l.Cantidad - it.Cantidad
		if l.PrecioExplicito {
			if delta != 0 || !l.Subtotal().Equal(it.Subtotal) {
				ajustes = append(ajustes, ajuste{item: it, linea: l, delta: delta, subtotal: l.Subtotal()})
			}
			continue
		}
		// Sin precio nuevo se conserva lo ya cobrado y solo la diferencia se valoriza al precio del item.
		if delta != 0 {
			subtotal := it.Subtotal.Add(it.PrecioUnit.Mul(decimal.NewFromInt(int64(delta))))
			ajustes = append(ajustes, ajuste{item: it, linea: l, delta: delta, subtotal: subtotal})
		}
	}
	for i := range s.Items {
		it := &s.Items[i]
		if !vistos[it.ProductoID] {
			ajustes = append(ajustes, ajuste{item: it, delta: -it.Cantidad})
		}
	}
	sort.Slice(ajustes, func(i, j int) bool { return ajustes[i].productoID() < ajustes[j].productoID() })

	var reqs []inventory.Requerimiento
	for _, a := range ajustes {
		if a.delta > 0 {
			reqs = append(reqs, inventory.Requerimiento{ProductoID: a.productoID(), SedeID: s.SedeID, Cantidad: a.delta})
		}
	}
	if len(reqs) > 0 {
		if err := uc.ledger.Reservar(ctx, r, reqs, repuestoInsuficiente); err != nil {
			return decimal.Zero, err
		}
	}
	for _, a := range ajustes {
		if a.delta == 0 {
			continue
		}
		tipo, cantidad := entity.MovSalidaReparacion, a.delta
		if a.delta < 0 {
			tipo, cantidad = entity.MovEntradaDevolucion, -a.delta
		}
		_, err := uc.ledger.Apply(ctx, r, inventory.Entrada{
			ProductoID: a.productoID(),
			SedeID:     s.SedeID,
			Tipo:       tipo,
			Cantidad:   cantidad,
			Motivo:     "Edición de reparación " + s.Numero,
			Referencia: s.ID,
			UsuarioID:  usuarioID,
		})
		if err != nil {
			return decimal.Zero, err
		}
	}

	// Primero modificar y borrar: agregarItem puede realojar s.Items.
	costo := decimal.Zero
	var nuevos []inventory.Linea
	for _, a := range ajustes {
		switch {
		case a.item == nil:
			nuevos = append(nuevos, *a.linea)
		case a.linea == nil:
			if err := r.Servicios.DeleteItem(ctx, a.item.ID); err != nil {
				return decimal.Zero, err
			}
			costo = costo.Sub(a.item.Subtotal)
		default:
			anterior := a.item.Subtotal
			a.item.Cantidad = a.linea.Cantidad
			a.item.Subtotal = a.subtotal
			a.item.PrecioUnit = precioPromedio(a.subtotal, a.linea.Cantidad)
			if a.linea.PrecioExplicito {
				a.item.PrecioUnit = a.linea.Precio
			}
			if err := r.Servicios.UpdateItem(ctx, a.item); err != nil {
				return decimal.Zero, err
			}
			costo = costo.Add(a.item.Subtotal.Sub(anterior))
		}
	}
	s.Items = quitarBorrados(s.Items, vistos)
	for _, l := range nuevos {
		if err := uc.agregarItem(ctx, r, s, l); err != nil {
			return decimal.Zero, err
		}
		costo = costo.Add(l.Subtotal())
	}
	return costo, nil
}

func quitarBorrados(items []entity.ServicioItem, vistos map[string]bool) []entity.ServicioItem {
	out := make([]entity.ServicioItem, 0, len(items))
	for _, it := range items {
		if vistos[it.ProductoID] {
			out = append(out, it)
		}
	}
	return out
}
