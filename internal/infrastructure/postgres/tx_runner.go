package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

var tracer = otel.Tracer("github.com/jhoicas/Servitec-api/postgres")

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// NewRepos arma el conjunto de repos sobre pool o tx.
func NewRepos(q Querier) repository.TxRepos {
	return repository.TxRepos{
		Sedes:       NewSedeRepository(q),
		Productos:   NewProductoRepository(q),
		Stock:       NewStockRepository(q),
		Movimientos: NewMovimientoRepository(q),
		Clientes:    NewClienteRepository(q),
		Servicios:   NewServicioRepository(q),
		Ventas:      NewVentaRepository(q),
	}
}

// Run inicia una transacción sin límites propios.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	return r.RunWithOptions(ctx, repository.TxOptions{}, fn)
}

// RunWithOptions inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Con Timeout > 0 fija lock_timeout y statement_timeout locales a la tx; la contención se
// reporta como conflicto para que el cliente reintente.
func (r *TxRunner) RunWithOptions(ctx context.Context, opts repository.TxOptions, fn func(repos repository.TxRepos) error) (err error) {
	name := opts.Name
	if name == "" {
		name = "tx"
	}
	ctx, span := tracer.Start(ctx, "postgres."+name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.Int64("db.tx.timeout_ms", opts.Timeout.Milliseconds()),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if opts.Timeout > 0 {
		ms := opts.Timeout.Milliseconds()
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", ms)); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", ms)); err != nil {
			return fmt.Errorf("set statement_timeout: %w", err)
		}
	}

	if err := fn(NewRepos(tx)); err != nil {
		if isContention(err) {
			return domain.Conflict("operación concurrente sobre el mismo stock; reintente").WithDetail("causa", err.Error())
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isContention(err) {
			return domain.Conflict("operación concurrente sobre el mismo stock; reintente")
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
