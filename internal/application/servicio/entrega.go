package servicio

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/application/inventory"
	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

// MarcarEntregado REPARADO -> ENTREGADO. Los productos vendidos en mostrador generan una venta
// ligada al ticket (un item y una SALIDA_VENTA por producto) y se suman al total. Con saldoPagado
// el ticket queda saldado y la venta registra su pago; sin él lo vendido queda en el saldo del ticket.
func (uc *UseCase) MarcarEntregado(ctx context.Context, actor entity.Actor, id string, in dto.MarcarEntregadoRequest) (*dto.ServicioResponse, error) {
	if in.FechaEntrega == nil {
		return nil, domain.Invalid("fechaEntrega es requerida")
	}
	quienRecibe := strings.TrimSpace(in.QuienRecibeNombre)
	if quienRecibe == "" {
		return nil, domain.Invalid("quienRecibeNombre es requerido")
	}
	if in.MetodoPagoSaldo != "" && !entity.MetodoPagoValido(in.MetodoPagoSaldo) {
		return nil, domain.Invalid("método de pago inválido: %s", in.MetodoPagoSaldo)
	}
	vendidos, err := inventory.ResolverLineas(ctx, uc.productRepo, in.ProductosVendidos)
	if err != nil {
		return nil, err
	}

	var ventaID string
	err = uc.txRunner.RunWithOptions(ctx, repository.TxOptions{Name: "servicios.marcar_entregado"}, func(r repository.TxRepos) error {
		s, err := uc.bloquear(ctx, r, actor, id)
		if err != nil {
			return err
		}
		if !s.Estado.PuedeTransicionarA(entity.EstadoEntregado) {
			return transicionInvalida(s, entity.EstadoEntregado)
		}
		if s.Diagnostico == "" || s.Solucion == "" {
			return domain.Invalid("el servicio %s no tiene diagnóstico y solución registrados", s.Numero)
		}
		if in.FechaEntrega.Before(s.FechaRecepcion) {
			return domain.Invalid("la fecha de entrega no puede ser anterior a la fecha de recepción")
		}

		if len(vendidos) > 0 {
			if err := uc.ledger.Reservar(ctx, r, inventory.Requerimientos(vendidos, s.SedeID), inventory.StockInsuficiente); err != nil {
				return err
			}
			venta, err := uc.venderEnMostrador(ctx, r, actor, s, vendidos, in.MetodoPagoSaldo, in.SaldoPagado)
			if err != nil {
				return err
			}
			ventaID = venta.ID
			s.Total = s.Total.Add(venta.Total)
		}

		pendiente := decimal.Max(decimal.Zero, s.Total.Sub(s.ACuenta))
		if in.SaldoPagado {
			if pendiente.IsPositive() && in.MetodoPagoSaldo == "" {
				return domain.Invalid("metodoPagoSaldo es requerido para cobrar el saldo de %s", pendiente.StringFixed(2))
			}
			s.ACuenta = s.Total
			pendiente = decimal.Zero
		}
		s.Saldo = pendiente

		anterior := s.Estado
		fecha := *in.FechaEntrega
		s.FechaEntrega = &fecha
		s.QuienRecibeNombre = quienRecibe
		s.QuienRecibeDNI = strings.TrimSpace(in.QuienRecibeDNI)
		s.Estado = entity.EstadoEntregado
		s.UpdatedAt = uc.now()
		if err := r.Servicios.Update(ctx, s); err != nil {
			return err
		}

		comentario := fmt.Sprintf("Entregado a %s", quienRecibe)
		if s.QuienRecibeDNI != "" {
			comentario += " (DNI " + s.QuienRecibeDNI + ")"
		}
		comentario += fmt.Sprintf(". Total: %s, a cuenta: %s, saldo: %s", s.Total.StringFixed(2), s.ACuenta.StringFixed(2), s.Saldo.StringFixed(2))
		if in.SaldoPagado && in.MetodoPagoSaldo != "" {
			comentario += ", saldo cobrado con " + in.MetodoPagoSaldo
		}
		return uc.historial(ctx, r, s, anterior, actor.UserID, comentario)
	})
	if err != nil {
		return nil, err
	}
	out, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out.VentaID = ventaID
	return out, nil
}

// venderEnMostrador crea la venta ligada al ticket y descuenta cada producto con SALIDA_VENTA.
// El pago se registra solo si se cobra en el acto. El stock ya está reservado.
func (uc *UseCase) venderEnMostrador(
	ctx context.Context, r repository.TxRepos, actor entity.Actor, s *entity.Servicio,
	lineas []inventory.Linea, metodo string, pagado bool,
) (*entity.Venta, error) {
	numero, err := r.Ventas.NextNumero(ctx)
	if err != nil {
		return nil, err
	}
	if metodo == "" {
		metodo = entity.MetodoEfectivo
	}
	now := uc.now()
	total := inventory.TotalLineas(lineas)
	v := &entity.Venta{
		ID:         uuid.New().String(),
		Numero:     numero,
		SedeID:     s.SedeID,
		ClienteID:  s.ClienteID,
		UsuarioID:  actor.UserID,
		ServicioID: s.ID,
		Subtotal:   total,
		Descuento:  decimal.Zero,
		Total:      total,
		Estado:     entity.VentaCompletada,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, l := range lineas {
		v.Items = append(v.Items, entity.VentaItem{
			ID:             uuid.New().String(),
			VentaID:        v.ID,
			ProductoID:     l.Producto.ID,
			ProductoNombre: l.Producto.Nombre,
			Cantidad:       l.Cantidad,
			PrecioUnit:     l.Precio,
			Subtotal:       l.Subtotal(),
		})
	}
	if pagado {
		v.Pagos = []entity.Pago{{ID: uuid.New().String(), VentaID: v.ID, Metodo: metodo, Monto: total, CreatedAt: now}}
	}
	if err := r.Ventas.Create(ctx, v); err != nil {
		return nil, err
	}
	for _, l := range lineas {
		_, err := uc.ledger.Apply(ctx, r, inventory.Entrada{
			ProductoID: l.Producto.ID,
			SedeID:     s.SedeID,
			Tipo:       entity.MovSalidaVenta,
			Cantidad:   l.Cantidad,
			Motivo:     fmt.Sprintf("Venta %s (servicio %s)", v.Numero, s.Numero),
			Referencia: v.ID,
			UsuarioID:  actor.UserID,
		})
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}
