// Package memory implementa los repositorios en memoria (STORAGE_DRIVER=memory y tests).
// Una transacción trabaja sobre una copia del estado bajo un único mutex: Commit reemplaza el
// estado, Rollback descarta la copia. Las transacciones quedan serializadas.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type stockKey struct {
	productoID string
	sedeID     string
}

type data struct {
	sedes       map[string]entity.Sede
	productos   map[string]entity.Producto
	stock       map[stockKey]entity.ProductoSede
	movimientos []entity.Movimiento
	clientes    map[string]entity.Cliente
	servicios   map[string]entity.Servicio
	items       map[string]entity.ServicioItem
	historial   []entity.ServicioHistorial
	ventas      map[string]entity.Venta
	seqServicio int
	seqVenta    int
}

func newData() *data {
	return &data{
		sedes:     make(map[string]entity.Sede),
		productos: make(map[string]entity.Producto),
		stock:     make(map[stockKey]entity.ProductoSede),
		clientes:  make(map[string]entity.Cliente),
		servicios: make(map[string]entity.Servicio),
		items:     make(map[string]entity.ServicioItem),
		ventas:    make(map[string]entity.Venta),
	}
}

// clone copia superficial de mapas y slices. Los slices dentro de las entidades se copian
// al escribir y al leer, así que compartir el arreglo subyacente entre copias es seguro.
func (d *data) clone() *data {
	c := &data{
		sedes:       make(map[string]entity.Sede, len(d.sedes)),
		productos:   make(map[string]entity.Producto, len(d.productos)),
		stock:       make(map[stockKey]entity.ProductoSede, len(d.stock)),
		movimientos: append([]entity.Movimiento(nil), d.movimientos...),
		clientes:    make(map[string]entity.Cliente, len(d.clientes)),
		servicios:   make(map[string]entity.Servicio, len(d.servicios)),
		items:       make(map[string]entity.ServicioItem, len(d.items)),
		historial:   append([]entity.ServicioHistorial(nil), d.historial...),
		ventas:      make(map[string]entity.Venta, len(d.ventas)),
		seqServicio: d.seqServicio,
		seqVenta:    d.seqVenta,
	}
	for k, v := range d.sedes {
		c.sedes[k] = v
	}
	for k, v := range d.productos {
		c.productos[k] = v
	}
	for k, v := range d.stock {
		c.stock[k] = v
	}
	for k, v := range d.clientes {
		c.clientes[k] = v
	}
	for k, v := range d.servicios {
		c.servicios[k] = v
	}
	for k, v := range d.items {
		c.items[k] = v
	}
	for k, v := range d.ventas {
		c.ventas[k] = v
	}
	return c
}

// access entrega el estado sobre el que operar y la función que libera el acceso.
type access func() (*data, func())

// Store almacenamiento en memoria con transacciones.
type Store struct {
	mu  sync.Mutex
	d   *data
	now func() time.Time
}

// New crea un Store vacío.
func New() *Store {
	return &Store{d: newData(), now: time.Now}
}

func (s *Store) direct() (*data, func()) {
	s.mu.Lock()
	return s.d, s.mu.Unlock
}

// Repos repositorios fuera de transacción (cada llamada toma el lock).
// No usarlos dentro de fn de Run: el lock ya está tomado.
func (s *Store) Repos() repository.TxRepos {
	return s.reposFor(s.direct)
}

func (s *Store) reposFor(at access) repository.TxRepos {
	return repository.TxRepos{
		Sedes:       &sedeRepo{at: at},
		Productos:   &productoRepo{at: at},
		Stock:       &stockRepo{at: at, now: s.now},
		Movimientos: &movimientoRepo{at: at},
		Clientes:    &clienteRepo{at: at},
		Servicios:   &servicioRepo{at: at},
		Ventas:      &ventaRepo{at: at},
	}
}

// Run ejecuta fn en una transacción.
func (s *Store) Run(ctx context.Context, fn func(r repository.TxRepos) error) error {
	return s.RunWithOptions(ctx, repository.TxOptions{}, fn)
}

// RunWithOptions ejecuta fn en una transacción. El timeout se aplica a la espera del lock.
func (s *Store) RunWithOptions(ctx context.Context, opts repository.TxOptions, fn func(r repository.TxRepos) error) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	if err := s.lock(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer s.mu.Unlock()

	work := s.d.clone()
	held := func() (*data, func()) { return work, func() {} }
	if err := fn(s.reposFor(held)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	s.d = work
	return nil
}

func (s *Store) lock(ctx context.Context) error {
	for {
		if s.mu.TryLock() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
}
