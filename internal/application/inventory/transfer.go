package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

// TransferUseCase traspasos entre sedes: dos filas enlazadas por producto, todo o nada.
type TransferUseCase struct {
	txRunner    repository.TxRunner
	sedeRepo    repository.SedeRepository
	productRepo repository.ProductoRepository
	movRepo     repository.MovimientoRepository
	ledger      *Ledger
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner repository.TxRunner,
	sedeRepo repository.SedeRepository,
	productRepo repository.ProductoRepository,
	movRepo repository.MovimientoRepository,
	ledger *Ledger,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:    txRunner,
		sedeRepo:    sedeRepo,
		productRepo: productRepo,
		movRepo:     movRepo,
		ledger:      ledger,
	}
}

// Create valida sedes y productos, y en una transacción verifica el stock de origen de todos los
// productos antes de escribir. Por producto: TRASPASO_SALIDA en origen y TRASPASO_ENTRADA en destino,
// mismo lote, referencia cruzada y estado PENDIENTE.
func (uc *TransferUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateTraspasoRequest) (*dto.TraspasoResponse, error) {
	if in.SedeOrigenID == "" || in.SedeDestinoID == "" || len(in.Productos) == 0 {
		return nil, domain.Invalid("sedeOrigenId, sedeDestinoId y productos son requeridos")
	}
	if in.SedeOrigenID == in.SedeDestinoID {
		return nil, domain.Invalid("la sede de origen y destino deben ser distintas")
	}
	for _, p := range in.Productos {
		if p.ProductoID == "" || p.Cantidad <= 0 {
			return nil, domain.Invalid("cada producto requiere productoId y cantidad mayor a cero")
		}
	}
	origen, err := uc.sedeRepo.GetByID(ctx, in.SedeOrigenID)
	if err != nil {
		return nil, err
	}
	destino, err := uc.sedeRepo.GetByID(ctx, in.SedeDestinoID)
	if err != nil {
		return nil, err
	}
	if origen == nil || destino == nil {
		return nil, domain.Invalid("sede de origen o destino inexistente")
	}
	if !actor.PuedeOperarSede(in.SedeOrigenID) {
		return nil, domain.Forbidden("solo puede trasladar desde su propia sede")
	}
	for _, p := range in.Productos {
		prod, err := uc.productRepo.GetByID(ctx, p.ProductoID)
		if err != nil {
			return nil, err
		}
		if prod == nil {
			return nil, domain.NotFound("producto " + p.ProductoID)
		}
	}

	motivo := in.Motivo
	if motivo == "" {
		motivo = fmt.Sprintf("Traspaso %s -> %s", origen.Nombre, destino.Nombre)
	}
	loteID := uuid.New().String()
	out := &dto.TraspasoResponse{LoteID: loteID, Estado: string(entity.EstadoTraspasoPendiente)}

	err = uc.txRunner.RunWithOptions(ctx, repository.TxOptions{Name: "traspasos.crear"}, func(r repository.TxRepos) error {
		reqs := make([]Requerimiento, 0, len(in.Productos))
		for _, p := range in.Productos {
			reqs = append(reqs, Requerimiento{ProductoID: p.ProductoID, SedeID: in.SedeOrigenID, Cantidad: p.Cantidad})
		}
		if err := uc.ledger.Reservar(ctx, r, reqs, StockInsuficiente); err != nil {
			return err
		}
		for _, p := range in.Productos {
			salidaID, entradaID := uuid.New().String(), uuid.New().String()
			base := Entrada{
				ProductoID:     p.ProductoID,
				Cantidad:       p.Cantidad,
				Motivo:         motivo,
				Referencia:     loteID,
				Observaciones:  in.Observaciones,
				UsuarioID:      actor.UserID,
				LoteID:         loteID,
				SedeOrigenID:   in.SedeOrigenID,
				SedeDestinoID:  in.SedeDestinoID,
				EstadoTraspaso: entity.EstadoTraspasoPendiente,
			}

			salida := base
			salida.ID = salidaID
			salida.SedeID = in.SedeOrigenID
			salida.Tipo = entity.MovTraspasoSalida
			salida.TraspasoRelacionadoID = entradaID
			movSalida, err := uc.ledger.Apply(ctx, r, salida)
			if err != nil {
				return err
			}

			entrada := base
			entrada.ID = entradaID
			entrada.SedeID = in.SedeDestinoID
			entrada.Tipo = entity.MovTraspasoEntrada
			entrada.TraspasoRelacionadoID = salidaID
			movEntrada, err := uc.ledger.Apply(ctx, r, entrada)
			if err != nil {
				return err
			}
			out.Movimientos = append(out.Movimientos, toMovimientoResponse(movSalida), toMovimientoResponse(movEntrada))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List lista lotes de traspaso; quien no es admin solo ve los de su sede.
func (uc *TransferUseCase) List(ctx context.Context, actor entity.Actor, sedeID string, page dto.PageRequest) (*dto.TraspasoListResponse, error) {
	page.DefaultPage()
	if !actor.EsAdmin() {
		sedeID = actor.SedeID
	}
	list, total, err := uc.movRepo.ListTraspasos(ctx, sedeID, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.TraspasoListItem, 0, len(list))
	for _, t := range list {
		items = append(items, dto.TraspasoListItem{
			LoteID:        t.LoteID,
			SalidaID:      t.SalidaID,
			EntradaID:     t.EntradaID,
			ProductoID:    t.ProductoID,
			SedeOrigenID:  t.SedeOrigenID,
			SedeDestinoID: t.SedeDestinoID,
			Cantidad:      t.Cantidad,
			Estado:        string(t.Estado),
			Motivo:        t.Motivo,
			UsuarioID:     t.UsuarioID,
			Fecha:         t.Fecha,
		})
	}
	return &dto.TraspasoListResponse{Items: items, Page: dto.NewPageResponse(page, total)}, nil
}
