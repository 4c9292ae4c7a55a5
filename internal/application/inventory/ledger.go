package inventory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Servitec-api/internal/domain/inventory"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

// Entrada datos de un movimiento a aplicar sobre el kardex.
type Entrada struct {
	ID            string // opcional; se genera si viene vacío
	ProductoID    string
	SedeID        string
	Tipo          entity.TipoMovimiento
	Cantidad      int
	Motivo        string
	Referencia    string
	Observaciones string
	UsuarioID     string
	Anulado       bool

	LoteID                string
	TraspasoRelacionadoID string
	SedeOrigenID          string
	SedeDestinoID         string
	EstadoTraspaso        entity.EstadoTraspaso
}

// Requerimiento unidades que una operación va a sacar de una sede.
type Requerimiento struct {
	ProductoID string
	SedeID     string
	Cantidad   int
}

// FaltanteFunc construye el error de stock insuficiente con el nombre del producto.
type FaltanteFunc func(producto string, disponible, requerido int) error

// StockInsuficiente mensaje para movimientos y traspasos.
func StockInsuficiente(producto string, disponible, requerido int) error {
	return domain.StockInsuficiente(producto, disponible, requerido)
}

// Ledger aplica movimientos de stock dentro de la transacción del llamador.
// Toda mutación de ProductoSede pasa por aquí y deja exactamente una fila en el kardex.
type Ledger struct {
	now func() time.Time
}

// NewLedger construye el servicio de kardex.
func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// Reservar bloquea las filas de stock involucradas en orden (productoId, sedeId) y verifica
// que cada par tenga stock suficiente. Requerimientos repetidos del mismo par se suman.
func (l *Ledger) Reservar(ctx context.Context, r repository.TxRepos, reqs []Requerimiento, faltante FaltanteFunc) error {
	type key struct{ producto, sede string }
	total := make(map[key]int, len(reqs))
	keys := make([]key, 0, len(reqs))
	for _, req := range reqs {
		k := key{req.ProductoID, req.SedeID}
		if _, ok := total[k]; !ok {
			keys = append(keys, k)
		}
		total[k] += req.Cantidad
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].producto != keys[j].producto {
			return keys[i].producto < keys[j].producto
		}
		return keys[i].sede < keys[j].sede
	})
	for _, k := range keys {
		ps, err := r.Stock.GetForUpdate(ctx, k.producto, k.sede)
		if err != nil {
			return err
		}
		if ps.Stock < total[k] {
			return faltante(nombreProducto(ctx, r, k.producto), ps.Stock, total[k])
		}
	}
	return nil
}

// nombreProducto nombre para mensajes de error; si no se puede leer se usa el id.
func nombreProducto(ctx context.Context, r repository.TxRepos, productoID string) string {
	if p, err := r.Productos.GetByID(ctx, productoID); err == nil && p != nil {
		return p.Nombre
	}
	return productoID
}

// Apply bloquea el par producto+sede, calcula el saldo según la dirección del tipo,
// actualiza ProductoSede y agrega la fila del kardex.
func (l *Ledger) Apply(ctx context.Context, r repository.TxRepos, in Entrada) (*entity.Movimiento, error) {
	ps, err := r.Stock.GetForUpdate(ctx, in.ProductoID, in.SedeID)
	if err != nil {
		return nil, err
	}
	despues, err := domaininv.AplicarMovimiento(ps.Stock, in.Tipo, in.Cantidad)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			return nil, StockInsuficiente(nombreProducto(ctx, r, in.ProductoID), ps.Stock, in.Cantidad)
		}
		return nil, err
	}
	now := l.now()
	antes := ps.Stock
	ps.Stock = despues
	ps.UpdatedAt = now
	if err := r.Stock.Upsert(ctx, ps); err != nil {
		return nil, err
	}
	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}
	mov := &entity.Movimiento{
		ID:                    id,
		ProductoID:            in.ProductoID,
		SedeID:                in.SedeID,
		Tipo:                  in.Tipo,
		Cantidad:              in.Cantidad,
		StockAntes:            antes,
		StockDespues:          despues,
		Motivo:                in.Motivo,
		Referencia:            in.Referencia,
		Observaciones:         in.Observaciones,
		UsuarioID:             in.UsuarioID,
		Fecha:                 now,
		Anulado:               in.Anulado,
		LoteID:                in.LoteID,
		TraspasoRelacionadoID: in.TraspasoRelacionadoID,
		SedeOrigenID:          in.SedeOrigenID,
		SedeDestinoID:         in.SedeDestinoID,
		EstadoTraspaso:        in.EstadoTraspaso,
	}
	if err := r.Movimientos.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// Reverse crea la fila compensatoria de un movimiento (dirección inversa, misma cantidad) y
// marca ambas como anuladas, de modo que los totales sobre filas no anuladas sigan
// cuadrando con el saldo.
func (l *Ledger) Reverse(ctx context.Context, r repository.TxRepos, movimientoID, usuarioID, motivo string) (*entity.Movimiento, error) {
	orig, err := r.Movimientos.GetByID(ctx, movimientoID)
	if err != nil {
		return nil, err
	}
	if orig == nil {
		return nil, domain.NotFound("movimiento")
	}
	if orig.Anulado {
		return nil, domain.Conflict("el movimiento %s ya está anulado", orig.ID)
	}
	tipo := orig.Tipo.TipoReverso()
	if tipo.Disminuye() {
		err := l.Reservar(ctx, r, []Requerimiento{{orig.ProductoID, orig.SedeID, orig.Cantidad}}, StockInsuficiente)
		if err != nil {
			return nil, err
		}
	}
	comp, err := l.Apply(ctx, r, Entrada{
		ProductoID: orig.ProductoID,
		SedeID:     orig.SedeID,
		Tipo:       tipo,
		Cantidad:   orig.Cantidad,
		Motivo:     motivo,
		Referencia: orig.ID,
		UsuarioID:  usuarioID,
		Anulado:    true,
	})
	if err != nil {
		return nil, err
	}
	if err := r.Movimientos.MarcarAnulado(ctx, orig.ID); err != nil {
		return nil, err
	}
	return comp, nil
}
