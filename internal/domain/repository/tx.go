package repository

import (
	"context"
	"time"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Sedes       SedeRepository
	Productos   ProductoRepository
	Stock       StockRepository
	Movimientos MovimientoRepository
	Clientes    ClienteRepository
	Servicios   ServicioRepository
	Ventas      VentaRepository
}

// TxOptions ajustes de una transacción puntual.
type TxOptions struct {
	// Timeout acota la espera por locks y la duración de cada sentencia (0 = sin límite).
	Timeout time.Duration
	// Name identifica la operación en trazas y logs.
	Name string
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
	RunWithOptions(ctx context.Context, opts TxOptions, fn func(r TxRepos) error) error
}
