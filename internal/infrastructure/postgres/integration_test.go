//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/application/inventory"
	"github.com/jhoicas/Servitec-api/internal/application/venta"
	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/pkg/config"
)

var admin = entity.Actor{UserID: "u-admin", Role: entity.RoleAdmin}

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("servitec_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := NewMigrator(dsn, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
	require.NoError(t, m.Close())

	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seed(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()
	r := NewRepos(pool)
	now := time.Now()
	require.NoError(t, r.Sedes.Create(ctx, &entity.Sede{ID: "sede-a", Nombre: "Centro", Activa: true, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, r.Sedes.Create(ctx, &entity.Sede{ID: "sede-b", Nombre: "Norte", Activa: true, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, r.Productos.Create(ctx, &entity.Producto{
		ID: "p-ssd", Codigo: "SSD-480", Nombre: "SSD 480GB", PrecioVenta: decimal.NewFromInt(150),
		StockMinimo: 2, Activo: true, CreatedAt: now, UpdatedAt: now,
	}))
}

func TestPostgres_KardexYTraspaso(t *testing.T) {
	pool := newTestPool(t)
	seed(t, pool)
	ctx := context.Background()
	runner := NewTxRunner(pool)
	repos := NewRepos(pool)
	ledger := inventory.NewLedger()

	movs := inventory.NewRegisterMovementUseCase(runner, repos.Sedes, repos.Productos, repos.Movimientos, ledger)
	costo := decimal.NewFromInt(100)
	_, err := movs.Register(ctx, admin, dto.RegisterMovimientoRequest{
		SedeID: "sede-a",
		Tipo:   string(entity.MovIngreso),
		Lineas: []dto.MovimientoLineaRequest{{ProductoID: "p-ssd", Cantidad: 10, CostoUnitario: &costo}},
		Motivo: "Compra",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, repos.Productos.Create(ctx, &entity.Producto{ID: "x", Codigo: "SSD-480", Nombre: "dup"}), domain.ErrDuplicate)

	traspasos := inventory.NewTransferUseCase(runner, repos.Sedes, repos.Productos, repos.Movimientos, ledger)
	_, err = traspasos.Create(ctx, admin, dto.CreateTraspasoRequest{
		SedeOrigenID:  "sede-a",
		SedeDestinoID: "sede-b",
		Productos:     []dto.TraspasoProductoRequest{{ProductoID: "p-ssd", Cantidad: 4}},
		Motivo:        "Reposición",
	})
	require.NoError(t, err)

	a, err := repos.Stock.Get(ctx, "p-ssd", "sede-a")
	require.NoError(t, err)
	b, err := repos.Stock.Get(ctx, "p-ssd", "sede-b")
	require.NoError(t, err)
	assert.Equal(t, 6, a.Stock)
	assert.Equal(t, 4, b.Stock)

	kardex := inventory.NewKardexUseCase(repos.Productos, repos.Sedes, repos.Stock, repos.Movimientos)
	k, err := kardex.Kardex(ctx, "p-ssd", dto.KardexQuery{SedeID: "sede-a", Orden: "asc"})
	require.NoError(t, err)
	require.Len(t, k.Movimientos, 2)
	assert.Equal(t, 10, k.Movimientos[0].StockDespues)
	assert.Equal(t, 6, k.Movimientos[1].StockDespues)

	lotes, total, err := repos.Movimientos.ListTraspasos(ctx, "sede-b", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "sede-a", lotes[0].SedeOrigenID)
}

func TestPostgres_VentasConcurrentesNoSobrevenden(t *testing.T) {
	pool := newTestPool(t)
	seed(t, pool)
	ctx := context.Background()
	runner := NewTxRunner(pool)
	repos := NewRepos(pool)
	ledger := inventory.NewLedger()
	require.NoError(t, repos.Stock.Upsert(ctx, &entity.ProductoSede{ProductoID: "p-ssd", SedeID: "sede-a", Stock: 5}))

	uc := venta.NewUseCase(runner, repos.Sedes, repos.Productos, repos.Clientes, repos.Ventas, ledger, 5*time.Second)
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		oks int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Create(ctx, admin, dto.CreateVentaRequest{
				SedeID: "sede-a",
				Items:  []dto.VentaItemRequest{{ProductoID: "p-ssd", Cantidad: 1}},
				Pagos:  []dto.PagoRequest{{Metodo: entity.MetodoEfectivo, Monto: decimal.NewFromInt(150)}},
			})
			if err == nil {
				mu.Lock()
				oks++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, oks)
	ps, err := repos.Stock.Get(ctx, "p-ssd", "sede-a")
	require.NoError(t, err)
	assert.Equal(t, 0, ps.Stock)

	movs, total, err := repos.Movimientos.List(ctx, entity.MovimientoFilter{ProductoID: "p-ssd", SedeID: "sede-a", Ascendente: true})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	for i, m := range movs {
		assert.Equal(t, 5-i, m.StockAntes)
		assert.Equal(t, 4-i, m.StockDespues)
	}
}
