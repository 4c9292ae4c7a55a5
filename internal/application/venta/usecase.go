// Package venta implementa ventas de mostrador y su anulación sobre el kardex.
package venta

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/application/inventory"
	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

// UseCase casos de uso de ventas.
type UseCase struct {
	txRunner    repository.TxRunner
	sedeRepo    repository.SedeRepository
	productRepo repository.ProductoRepository
	clienteRepo repository.ClienteRepository
	ventaRepo   repository.VentaRepository
	ledger      *inventory.Ledger
	txTimeout   time.Duration
	now         func() time.Time
}

// NewUseCase construye los casos de uso de ventas. txTimeout acota la transacción de creación
// (lock_timeout y statement_timeout en Postgres).
func NewUseCase(
	txRunner repository.TxRunner,
	sedeRepo repository.SedeRepository,
	productRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	ventaRepo repository.VentaRepository,
	ledger *inventory.Ledger,
	txTimeout time.Duration,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		sedeRepo:    sedeRepo,
		productRepo: productRepo,
		clienteRepo: clienteRepo,
		ventaRepo:   ventaRepo,
		ledger:      ledger,
		txTimeout:   txTimeout,
		now:         time.Now,
	}
}

// Create registra una venta: los pagos deben cubrir el total (el exceso es vuelto) y cada línea
// descuenta stock con SALIDA_VENTA en la misma transacción.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateVentaRequest) (*dto.VentaResponse, error) {
	if in.SedeID == "" || len(in.Items) == 0 || len(in.Pagos) == 0 {
		return nil, domain.Invalid("sedeId, items y pagos son requeridos")
	}
	if in.Descuento.IsNegative() {
		return nil, domain.Invalid("descuento no puede ser negativo")
	}
	pagado := decimal.Zero
	for _, p := range in.Pagos {
		if !entity.MetodoPagoValido(p.Metodo) {
			return nil, domain.Invalid("método de pago inválido: %s", p.Metodo)
		}
		if !p.Monto.IsPositive() {
			return nil, domain.Invalid("el monto de cada pago debe ser mayor a cero")
		}
		pagado = pagado.Add(p.Monto)
	}
	sede, err := uc.sedeRepo.GetByID(ctx, in.SedeID)
	if err != nil {
		return nil, err
	}
	if sede == nil {
		return nil, domain.NotFound("sede")
	}
	if !actor.PuedeOperarSede(in.SedeID) {
		return nil, domain.Forbidden("no puede vender en otra sede")
	}
	if in.ClienteID != "" {
		c, err := uc.clienteRepo.GetByID(ctx, in.ClienteID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, domain.NotFound("cliente")
		}
	}
	lineas, err := inventory.ResolverLineas(ctx, uc.productRepo, in.Items)
	if err != nil {
		return nil, err
	}
	subtotal := inventory.TotalLineas(lineas)
	if in.Descuento.GreaterThan(subtotal) {
		return nil, domain.Invalid("el descuento no puede superar el subtotal")
	}
	total := subtotal.Sub(in.Descuento)
	if pagado.LessThan(total) {
		return nil, domain.Invalid("los pagos (%s) no cubren el total (%s)", pagado.StringFixed(2), total.StringFixed(2))
	}

	now := uc.now()
	v := &entity.Venta{
		ID:        uuid.New().String(),
		SedeID:    in.SedeID,
		ClienteID: in.ClienteID,
		UsuarioID: actor.UserID,
		Subtotal:  subtotal,
		Descuento: in.Descuento,
		Total:     total,
		Estado:    entity.VentaCompletada,
		CreatedAt: now,
		UpdatedAt: now,
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
	for _, p := range in.Pagos {
		v.Pagos = append(v.Pagos, entity.Pago{ID: uuid.New().String(), VentaID: v.ID, Metodo: p.Metodo, Monto: p.Monto, CreatedAt: now})
	}

	opts := repository.TxOptions{Timeout: uc.txTimeout, Name: "ventas.crear"}
	err = uc.txRunner.RunWithOptions(ctx, opts, func(r repository.TxRepos) error {
		if err := uc.ledger.Reservar(ctx, r, inventory.Requerimientos(lineas, in.SedeID), inventory.StockInsuficiente); err != nil {
			return err
		}
		numero, err := r.Ventas.NextNumero(ctx)
		if err != nil {
			return err
		}
		v.Numero = numero
		if err := r.Ventas.Create(ctx, v); err != nil {
			return err
		}
		for _, l := range lineas {
			_, err := uc.ledger.Apply(ctx, r, inventory.Entrada{
				ProductoID: l.Producto.ID,
				SedeID:     in.SedeID,
				Tipo:       entity.MovSalidaVenta,
				Cantidad:   l.Cantidad,
				Motivo:     "Venta " + v.Numero,
				Referencia: v.ID,
				UsuarioID:  actor.UserID,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toResponse(v)
	out.Vuelto = pagado.Sub(total)
	return &out, nil
}

// Anular revierte una venta de mostrador: cada SALIDA_VENTA no anulada de la venta vuelve al stock
// por el kardex. Las ventas nacidas de una entrega de servicio técnico no se anulan aquí.
func (uc *UseCase) Anular(ctx context.Context, actor entity.Actor, id string, in dto.AnularVentaRequest) (*dto.VentaResponse, error) {
	motivo := strings.TrimSpace(in.Motivo)
	if motivo == "" {
		return nil, domain.Invalid("el motivo de anulación es requerido")
	}
	var out dto.VentaResponse
	err := uc.txRunner.RunWithOptions(ctx, repository.TxOptions{Timeout: uc.txTimeout, Name: "ventas.anular"}, func(r repository.TxRepos) error {
		v, err := r.Ventas.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.NotFound("venta")
		}
		if !actor.PuedeOperarSede(v.SedeID) {
			return domain.Forbidden("la venta pertenece a otra sede")
		}
		if v.Estado == entity.VentaAnulada {
			return domain.Conflict("la venta %s ya está anulada", v.Numero)
		}
		if v.ServicioID != "" {
			return domain.Conflict("la venta %s pertenece a un servicio técnico; corríjala desde el servicio", v.Numero).
				WithDetail("servicioId", v.ServicioID)
		}

		movs, _, err := r.Movimientos.List(ctx, entity.MovimientoFilter{
			Tipo:       entity.MovSalidaVenta,
			Referencia: v.ID,
			Ascendente: true,
		})
		if err != nil {
			return err
		}
		for _, m := range movs {
			if m.Anulado {
				continue
			}
			if _, err := uc.ledger.Reverse(ctx, r, m.ID, actor.UserID, fmt.Sprintf("Anulación de venta %s: %s", v.Numero, motivo)); err != nil {
				return err
			}
		}
		if err := r.Ventas.Anular(ctx, v.ID, motivo, actor.UserID); err != nil {
			return err
		}
		v.Estado = entity.VentaAnulada
		v.MotivoAnulacion = motivo
		v.AnuladaPor = actor.UserID
		out = toResponse(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Get devuelve una venta.
func (uc *UseCase) Get(ctx context.Context, actor entity.Actor, id string) (*dto.VentaResponse, error) {
	v, err := uc.ventaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.NotFound("venta")
	}
	if !actor.PuedeOperarSede(v.SedeID) {
		return nil, domain.Forbidden("la venta pertenece a otra sede")
	}
	out := toResponse(v)
	return &out, nil
}

// List lista ventas; quien no es admin solo ve las de su sede.
func (uc *UseCase) List(ctx context.Context, actor entity.Actor, q dto.VentaQuery) (*dto.VentaListResponse, error) {
	q.DefaultPage()
	if q.Estado != "" && q.Estado != entity.VentaCompletada && q.Estado != entity.VentaAnulada {
		return nil, domain.Invalid("estado inválido: %s", q.Estado)
	}
	sedeID := q.SedeID
	if !actor.EsAdmin() {
		sedeID = actor.SedeID
	}
	list, total, err := uc.ventaRepo.List(ctx, entity.VentaFilter{SedeID: sedeID, Estado: q.Estado, Limit: q.Limit, Offset: q.Offset()})
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaResponse, 0, len(list))
	for _, v := range list {
		items = append(items, toResponse(v))
	}
	return &dto.VentaListResponse{Items: items, Page: dto.NewPageResponse(q.PageRequest, total)}, nil
}

func toResponse(v *entity.Venta) dto.VentaResponse {
	out := dto.VentaResponse{
		ID:              v.ID,
		Numero:          v.Numero,
		SedeID:          v.SedeID,
		ClienteID:       v.ClienteID,
		UsuarioID:       v.UsuarioID,
		ServicioID:      v.ServicioID,
		Subtotal:        v.Subtotal,
		Descuento:       v.Descuento,
		Total:           v.Total,
		Vuelto:          decimal.Zero,
		Estado:          v.Estado,
		MotivoAnulacion: v.MotivoAnulacion,
		Items:           make([]dto.VentaItemResponse, 0, len(v.Items)),
		Pagos:           make([]dto.PagoResponse, 0, len(v.Pagos)),
		CreatedAt:       v.CreatedAt,
	}
	for _, it := range v.Items {
		out.Items = append(out.Items, dto.VentaItemResponse{
			ID:             it.ID,
			ProductoID:     it.ProductoID,
			ProductoNombre: it.ProductoNombre,
			Cantidad:       it.Cantidad,
			PrecioUnit:     it.PrecioUnit,
			Subtotal:       it.Subtotal,
		})
	}
	for _, p := range v.Pagos {
		out.Pagos = append(out.Pagos, dto.PagoResponse{ID: p.ID, Metodo: p.Metodo, Monto: p.Monto})
	}
	return out
}
