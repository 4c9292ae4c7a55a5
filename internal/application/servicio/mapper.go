package servicio

import (
	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
)

func toResponse(s *entity.Servicio) dto.ServicioResponse {
	out := dto.ServicioResponse{
		ID:                        s.ID,
		Numero:                    s.Numero,
		SedeID:                    s.SedeID,
		ClienteID:                 s.ClienteID,
		ClienteNombre:             s.ClienteNombre,
		TipoServicio:              string(s.Tipo),
		Diagnostico:               s.Diagnostico,
		Solucion:                  s.Solucion,
		FotosAntes:                s.FotosAntes,
		FotosDespues:              s.FotosDespues,
		CostoServicio:             s.CostoServicio,
		CostoRepuestos:            s.CostoRepuestos,
		MontoServiciosAdicionales: s.MontoServiciosAdicionales,
		Total:                     s.Total,
		ACuenta:                   s.ACuenta,
		Saldo:                     s.Saldo,
		Estado:                    string(s.Estado),
		FechaRecepcion:            s.FechaRecepcion,
		FechaReparacion:           s.FechaReparacion,
		FechaEntrega:              s.FechaEntrega,
		QuienRecibeNombre:         s.QuienRecibeNombre,
		QuienRecibeDNI:            s.QuienRecibeDNI,
		MotivoCancelacion:         s.MotivoCancelacion,
		AdelantoDevuelto:          s.AdelantoDevuelto,
		MetodoDevolucion:          s.MetodoDevolucion,
		UsuarioID:                 s.UsuarioID,
		Items:                     make([]dto.ServicioItemResponse, 0, len(s.Items)),
		CreatedAt:                 s.CreatedAt,
		UpdatedAt:                 s.UpdatedAt,
	}
	for _, e := range s.Equipos {
		out.Equipos = append(out.Equipos, dto.EquipoRequest{
			Tipo:       e.Tipo,
			Marca:      e.Marca,
			Modelo:     e.Modelo,
			Serie:      e.Serie,
			Falla:      e.Falla,
			Accesorios: e.Accesorios,
			Costo:      e.Costo,
		})
	}
	for _, a := range s.ServiciosAdicionales {
		out.ServiciosAdicionales = append(out.ServiciosAdicionales, dto.ServicioAdicionalRequest{Descripcion: a.Descripcion, Precio: a.Precio})
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.ServicioItemResponse{
			ID:             it.ID,
			ProductoID:     it.ProductoID,
			ProductoNombre: it.ProductoNombre,
			Cantidad:       it.Cantidad,
			PrecioUnit:     it.PrecioUnit,
			Subtotal:       it.Subtotal,
		})
	}
	for _, h := range s.Historial {
		out.Historial = append(out.Historial, dto.HistorialResponse{
			ID:             h.ID,
			EstadoAnterior: string(h.EstadoAnterior),
			EstadoNuevo:    string(h.EstadoNuevo),
			UsuarioID:      h.UsuarioID,
			Comentario:     h.Comentario,
			Fecha:          h.Fecha,
		})
	}
	return out
}
