package inventory

import (
	"context"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Servitec-api/internal/domain/inventory"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos manuales del kardex (ingresos, ajustes, mermas,
// devoluciones), lista movimientos y anula movimientos manuales.
type RegisterMovementUseCase struct {
	txRunner    repository.TxRunner
	sedeRepo    repository.SedeRepository
	productRepo repository.ProductoRepository
	movRepo     repository.MovimientoRepository
	ledger      *Ledger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner repository.TxRunner,
	sedeRepo repository.SedeRepository,
	productRepo repository.ProductoRepository,
	movRepo repository.MovimientoRepository,
	ledger *Ledger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		sedeRepo:    sedeRepo,
		productRepo: productRepo,
		movRepo:     movRepo,
		ledger:      ledger,
	}
}

// Register valida fuera de la transacción (tipo, sede, productos, permisos) y luego, en una sola
// transacción, bloquea las filas de stock, verifica disponibilidad y aplica cada línea.
// Un INGRESO con costoUnitario recalcula el costo promedio ponderado del producto.
func (uc *RegisterMovementUseCase) Register(ctx context.Context, actor entity.Actor, in dto.RegisterMovimientoRequest) ([]dto.MovimientoResponse, error) {
	tipo := entity.TipoMovimiento(in.Tipo)
	if !tipo.Valido() {
		return nil, domain.Invalid("tipo de movimiento inválido: %s", in.Tipo)
	}
	if !tipo.EsManual() {
		return nil, domain.Invalid("el tipo %s no se registra manualmente", in.Tipo)
	}
	if in.SedeID == "" || in.Motivo == "" || len(in.Lineas) == 0 {
		return nil, domain.Invalid("sedeId, motivo y al menos una línea son requeridos")
	}
	for _, l := range in.Lineas {
		if l.ProductoID == "" || l.Cantidad <= 0 {
			return nil, domain.Invalid("cada línea requiere productoId y cantidad mayor a cero")
		}
		if l.CostoUnitario != nil && l.CostoUnitario.IsNegative() {
			return nil, domain.Invalid("costoUnitario no puede ser negativo")
		}
	}
	sede, err := uc.sedeRepo.GetByID(ctx, in.SedeID)
	if err != nil {
		return nil, err
	}
	if sede == nil {
		return nil, domain.NotFound("sede")
	}
	if !actor.PuedeOperarSede(in.SedeID) {
		return nil, domain.Forbidden("no puede registrar movimientos en otra sede")
	}
	for _, l := range in.Lineas {
		p, err := uc.productRepo.GetByID(ctx, l.ProductoID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.NotFound("producto " + l.ProductoID)
		}
	}

	var out []dto.MovimientoResponse
	err = uc.txRunner.RunWithOptions(ctx, repository.TxOptions{Name: "movimientos.registrar"}, func(r repository.TxRepos) error {
		if tipo.Disminuye() {
			reqs := make([]Requerimiento, 0, len(in.Lineas))
			for _, l := range in.Lineas {
				reqs = append(reqs, Requerimiento{ProductoID: l.ProductoID, SedeID: in.SedeID, Cantidad: l.Cantidad})
			}
			if err := uc.ledger.Reservar(ctx, r, reqs, StockInsuficiente); err != nil {
				return err
			}
		}
		for _, l := range in.Lineas {
			if tipo == entity.MovIngreso && l.CostoUnitario != nil {
				if err := actualizarCosto(ctx, r, l); err != nil {
					return err
				}
			}
			mov, err := uc.ledger.Apply(ctx, r, Entrada{
				ProductoID:    l.ProductoID,
				SedeID:        in.SedeID,
				Tipo:          tipo,
				Cantidad:      l.Cantidad,
				Motivo:        in.Motivo,
				Referencia:    in.Referencia,
				Observaciones: in.Observaciones,
				UsuarioID:     actor.UserID,
			})
			if err != nil {
				return err
			}
			out = append(out, toMovimientoResponse(mov))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// actualizarCosto aplica CostCalculator sobre el stock total del producto (todas las sedes).
func actualizarCosto(ctx context.Context, r repository.TxRepos, l dto.MovimientoLineaRequest) error {
	p, err := r.Productos.GetByID(ctx, l.ProductoID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.NotFound("producto " + l.ProductoID)
	}
	total, err := r.Stock.TotalByProducto(ctx, l.ProductoID)
	if err != nil {
		return err
	}
	costo := domaininv.CostCalculator(total, p.PrecioCompra, l.Cantidad, *l.CostoUnitario)
	return r.Productos.UpdateCosto(ctx, l.ProductoID, costo)
}

// List lista movimientos paginados; quien no es admin solo ve su sede.
func (uc *RegisterMovementUseCase) List(ctx context.Context, actor entity.Actor, q dto.MovimientoQuery) (*dto.MovimientoListResponse, error) {
	q.DefaultPage()
	if q.Tipo != "" && !entity.TipoMovimiento(q.Tipo).Valido() {
		return nil, domain.Invalid("tipo de movimiento inválido: %s", q.Tipo)
	}
	sedeID := q.SedeID
	if !actor.EsAdmin() {
		sedeID = actor.SedeID
	}
	list, total, err := uc.movRepo.List(ctx, entity.MovimientoFilter{
		ProductoID: q.ProductoID,
		SedeID:     sedeID,
		Tipo:       entity.TipoMovimiento(q.Tipo),
		FechaDesde: q.FechaDesde,
		FechaHasta: q.FechaHasta,
		Limit:      q.Limit,
		Offset:     q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovimientoResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovimientoResponse(m))
	}
	return &dto.MovimientoListResponse{Items: items, Page: dto.NewPageResponse(q.PageRequest, total)}, nil
}

// Anular revierte un movimiento manual. Solo admin.
func (uc *RegisterMovementUseCase) Anular(ctx context.Context, actor entity.Actor, id string, in dto.AnularMovimientoRequest) (*dto.MovimientoResponse, error) {
	if !actor.EsAdmin() {
		return nil, domain.Forbidden("solo un administrador puede anular movimientos")
	}
	if in.Motivo == "" {
		return nil, domain.Invalid("motivo es requerido")
	}
	var out dto.MovimientoResponse
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		orig, err := r.Movimientos.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if orig == nil {
			return domain.NotFound("movimiento")
		}
		if !orig.Tipo.EsManual() {
			return domain.Conflict("el movimiento %s (%s) se corrige desde su módulo de origen", orig.ID, orig.Tipo)
		}
		comp, err := uc.ledger.Reverse(ctx, r, id, actor.UserID, "Anulación: "+in.Motivo)
		if err != nil {
			return err
		}
		out = toMovimientoResponse(comp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func toMovimientoResponse(m *entity.Movimiento) dto.MovimientoResponse {
	return dto.MovimientoResponse{
		ID:                    m.ID,
		ProductoID:            m.ProductoID,
		SedeID:                m.SedeID,
		Tipo:                  string(m.Tipo),
		Cantidad:              m.Cantidad,
		StockAntes:            m.StockAntes,
		StockDespues:          m.StockDespues,
		Motivo:                m.Motivo,
		Referencia:            m.Referencia,
		Observaciones:         m.Observaciones,
		UsuarioID:             m.UsuarioID,
		Fecha:                 m.Fecha,
		Anulado:               m.Anulado,
		LoteID:                m.LoteID,
		TraspasoRelacionadoID: m.TraspasoRelacionadoID,
		SedeOrigenID:          m.SedeOrigenID,
		SedeDestinoID:         m.SedeDestinoID,
		EstadoTraspaso:        string(m.EstadoTraspaso),
	}
}
