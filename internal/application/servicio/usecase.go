// Package servicio implementa el ciclo de vida del ticket de servicio técnico: recepción,
// reparación, edición de repuestos, entrega y anulación. Cada transición bloquea el ticket y
// mueve el kardex dentro de la misma transacción.
package servicio

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/application/inventory"
	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

// UseCase casos de uso del servicio técnico.
type UseCase struct {
	txRunner     repository.TxRunner
	sedeRepo     repository.SedeRepository
	productRepo  repository.ProductoRepository
	servicioRepo repository.ServicioRepository
	ledger       *inventory.Ledger
	now          func() time.Time
}

// NewUseCase construye los casos de uso del servicio técnico.
func NewUseCase(
	txRunner repository.TxRunner,
	sedeRepo repository.SedeRepository,
	productRepo repository.ProductoRepository,
	servicioRepo repository.ServicioRepository,
	ledger *inventory.Ledger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		sedeRepo:     sedeRepo,
		productRepo:  productRepo,
		servicioRepo: servicioRepo,
		ledger:       ledger,
		now:          time.Now,
	}
}

// Get devuelve el ticket con repuestos e historial.
func (uc *UseCase) Get(ctx context.Context, actor entity.Actor, id string) (*dto.ServicioResponse, error) {
	s, err := uc.servicioRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFound("servicio")
	}
	if !actor.PuedeOperarSede(s.SedeID) {
		return nil, domain.Forbidden("el servicio pertenece a otra sede")
	}
	out := toResponse(s)
	return &out, nil
}

// List lista tickets; quien no es admin solo ve los de su sede.
func (uc *UseCase) List(ctx context.Context, actor entity.Actor, q dto.ServicioQuery) (*dto.ServicioListResponse, error) {
	q.DefaultPage()
	estado := entity.EstadoServicio(q.Estado)
	if q.Estado != "" && !estado.Valido() {
		return nil, domain.Invalid("estado inválido: %s", q.Estado)
	}
	sedeID := q.SedeID
	if !actor.EsAdmin() {
		sedeID = actor.SedeID
	}
	list, total, err := uc.servicioRepo.List(ctx, entity.ServicioFilter{
		SedeID:    sedeID,
		ClienteID: q.ClienteID,
		Estado:    estado,
		Limit:     q.Limit,
		Offset:    q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ServicioResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toResponse(s))
	}
	return &dto.ServicioListResponse{Items: items, Page: dto.NewPageResponse(q.PageRequest, total)}, nil
}

// bloquear toma el ticket con FOR UPDATE y verifica que el actor opere su sede.
func (uc *UseCase) bloquear(ctx context.Context, r repository.TxRepos, actor entity.Actor, id string) (*entity.Servicio, error) {
	s, err := r.Servicios.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFound("servicio")
	}
	if !actor.PuedeOperarSede(s.SedeID) {
		return nil, domain.Forbidden("el servicio pertenece a otra sede")
	}
	return s, nil
}

func transicionInvalida(s *entity.Servicio, destino entity.EstadoServicio) error {
	return domain.Conflict("el servicio %s está en estado %s y no puede pasar a %s", s.Numero, s.Estado, destino).
		WithDetail("estadoActual", string(s.Estado))
}

func (uc *UseCase) historial(ctx context.Context, r repository.TxRepos, s *entity.Servicio, anterior entity.EstadoServicio, usuarioID, comentario string) error {
	return r.Servicios.AddHistorial(ctx, &entity.ServicioHistorial{
		ID:             uuid.New().String(),
		ServicioID:     s.ID,
		EstadoAnterior: anterior,
		EstadoNuevo:    s.Estado,
		UsuarioID:      usuarioID,
		Comentario:     comentario,
		Fecha:          uc.now(),
	})
}

// consumir descuenta las líneas del kardex con el tipo indicado y las agrega como repuestos del
// ticket, fusionando con el item existente del mismo producto. Devuelve el costo agregado.
// El llamador ya reservó el stock.
func (uc *UseCase) consumir(
	ctx context.Context, r repository.TxRepos, s *entity.Servicio, lineas []inventory.Linea,
	tipo entity.TipoMovimiento, usuarioID string,
) (decimal.Decimal, error) {
	costo := decimal.Zero
	for _, l := range lineas {
		_, err := uc.ledger.Apply(ctx, r, inventory.Entrada{
			ProductoID: l.Producto.ID,
			SedeID:     s.SedeID,
			Tipo:       tipo,
			Cantidad:   l.Cantidad,
			Motivo:     "Servicio técnico " + s.Numero,
			Referencia: s.ID,
			UsuarioID:  usuarioID,
		})
		if err != nil {
			return decimal.Zero, err
		}
		if err := uc.agregarItem(ctx, r, s, l); err != nil {
			return decimal.Zero, err
		}
		costo = costo.Add(l.Subtotal())
	}
	return costo, nil
}

func (uc *UseCase) agregarItem(ctx context.Context, r repository.TxRepos, s *entity.Servicio, l inventory.Linea) error {
	for i := range s.Items {
		it := &s.Items[i]
		if it.ProductoID != l.Producto.ID {
			continue
		}
		it.Cantidad += l.Cantidad
		it.Subtotal = it.Subtotal.Add(l.Subtotal())
		it.PrecioUnit = precioPromedio(it.Subtotal, it.Cantidad)
		return r.Servicios.UpdateItem(ctx, it)
	}
	item := entity.ServicioItem{
		ID:             uuid.New().String(),
		ServicioID:     s.ID,
		ProductoID:     l.Producto.ID,
		ProductoNombre: l.Producto.Nombre,
		Cantidad:       l.Cantidad,
		PrecioUnit:     l.Precio,
		Subtotal:       l.Subtotal(),
	}
	if err := r.Servicios.CreateItem(ctx, &item); err != nil {
		return err
	}
	s.Items = append(s.Items, item)
	return nil
}

// precioPromedio precio unitario de un item que acumuló consumos a precios distintos.
func precioPromedio(subtotal decimal.Decimal, cantidad int) decimal.Decimal {
	return subtotal.DivRound(decimal.NewFromInt(int64(cantidad)), 2)
}

func repuestoInsuficiente(producto string, disponible, requerido int) error {
	return domain.RepuestoInsuficiente(producto, disponible, requerido)
}
