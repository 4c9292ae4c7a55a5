package servicio

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/application/inventory"
	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

// Anular cancela un ticket no terminal. Solo admin. Todo repuesto registrado vuelve al stock de la
// sede con AJUSTE_DEVOLUCION; la devolución del adelanto queda acotada por aCuenta.
func (uc *UseCase) Anular(ctx context.Context, actor entity.Actor, id string, in dto.AnularServicioRequest) (*dto.ServicioResponse, error) {
	if !actor.EsAdmin() {
		return nil, domain.Forbidden("solo un administrador puede anular servicios")
	}
	motivo := strings.TrimSpace(in.Motivo)
	if motivo == "" {
		return nil, domain.Invalid("el motivo de anulación es requerido")
	}
	if in.DevolverAdelanto {
		if !in.MontoDevolucion.IsPositive() {
			return nil, domain.Invalid("montoDevolucion debe ser mayor a cero")
		}
		if in.MetodoDevolucion == "" {
			return nil, domain.Invalid("metodoDevolucion es requerido para devolver el adelanto")
		}
		if !entity.MetodoPagoValido(in.MetodoDevolucion) {
			return nil, domain.Invalid("método de devolución inválido: %s", in.MetodoDevolucion)
		}
	}

	err := uc.txRunner.RunWithOptions(ctx, repository.TxOptions{Name: "servicios.anular"}, func(r repository.TxRepos) error {
		s, err := uc.bloquear(ctx, r, actor, id)
		if err != nil {
			return err
		}
		if s.Estado.EsTerminal() {
			return domain.Conflict("el servicio %s ya está %s", s.Numero, s.Estado).
				WithDetail("estadoActual", string(s.Estado))
		}
		if in.DevolverAdelanto && in.MontoDevolucion.GreaterThan(s.ACuenta) {
			return domain.Invalid("montoDevolucion (%s) no puede superar lo pagado a cuenta (%s)",
				in.MontoDevolucion.StringFixed(2), s.ACuenta.StringFixed(2))
		}

		devueltas := 0
		for _, it := range s.Items {
			_, err := uc.ledger.Apply(ctx, r, inventory.Entrada{
				ProductoID: it.ProductoID,
				SedeID:     s.SedeID,
				Tipo:       entity.MovAjusteDevolucion,
				Cantidad:   it.Cantidad,
				Motivo:     "Anulación de servicio " + s.Numero,
				Referencia: s.ID,
				UsuarioID:  actor.UserID,
			})
			if err != nil {
				return err
			}
			devueltas += it.Cantidad
		}

		anterior := s.Estado
		s.Estado = entity.EstadoCancelado
		s.MotivoCancelacion = motivo
		s.AdelantoDevuelto = decimal.Zero
		if in.DevolverAdelanto {
			s.AdelantoDevuelto = in.MontoDevolucion
			s.MetodoDevolucion = in.MetodoDevolucion
		}
		s.UpdatedAt = uc.now()
		if err := r.Servicios.Update(ctx, s); err != nil {
			return err
		}

		comentario := "Anulado. Motivo: " + motivo
		if in.Observaciones != "" {
			comentario += ". Obs: " + in.Observaciones
		}
		if in.DevolverAdelanto {
			comentario += fmt.Sprintf(". Adelanto devuelto: %s (%s)", s.AdelantoDevuelto.StringFixed(2), s.MetodoDevolucion)
		}
		if len(s.Items) > 0 {
			comentario += fmt.Sprintf(". Repuestos devueltos: %d (%d unidades)", len(s.Items), devueltas)
		}
		return uc.historial(ctx, r, s, anterior, actor.UserID, comentario)
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, actor, id)
}
