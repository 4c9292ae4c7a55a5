package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Servitec-api/internal/application/inventory"
	"github.com/jhoicas/Servitec-api/internal/application/ports"
	"github.com/jhoicas/Servitec-api/internal/application/servicio"
	"github.com/jhoicas/Servitec-api/internal/application/usecase"
	"github.com/jhoicas/Servitec-api/internal/application/venta"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
	"github.com/jhoicas/Servitec-api/internal/infrastructure/memory"
	"github.com/jhoicas/Servitec-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Servitec-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Servitec-api/internal/interfaces/http"
	"github.com/jhoicas/Servitec-api/pkg/config"
	"github.com/jhoicas/Servitec-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner repository.TxRunner
		repos    repository.TxRepos
		ping     func(ctx context.Context) error
	)
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.New()
		txRunner = store
		repos = store.Repos()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		if cfg.DB.AutoMigrate {
			runMigrations(cfg.DB, log)
		}
		var pool *pgxpool.Pool
		pool, err = postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool)
		repos = postgres.NewRepos(pool)
		ping = pool.Ping
	}

	var idemStore ports.IdempotencyStore
	if cfg.Redis.Enabled() {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		idemStore = infraredis.NewIdempotencyStore(client, "")
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: idempotencia en memoria (una sola instancia)")
		idemStore = memory.NewIdempotencyStore()
	}

	ledger := inventory.NewLedger()
	sedeUC := usecase.NewSedeUseCase(repos.Sedes)
	productoUC := usecase.NewProductoUseCase(repos.Productos)
	clienteUC := usecase.NewClienteUseCase(repos.Clientes)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, repos.Sedes, repos.Productos, repos.Movimientos, ledger)
	transferUC := inventory.NewTransferUseCase(txRunner, repos.Sedes, repos.Productos, repos.Movimientos, ledger)
	kardexUC := inventory.NewKardexUseCase(repos.Productos, repos.Sedes, repos.Stock, repos.Movimientos)
	replenishmentUC := inventory.NewReplenishmentUseCase(repos.Sedes, repos.Stock)
	servicioUC := servicio.NewUseCase(txRunner, repos.Sedes, repos.Productos, repos.Servicios, ledger)
	ventaUC := venta.NewUseCase(txRunner, repos.Sedes, repos.Productos, repos.Clientes, repos.Ventas, ledger, cfg.Tx.Timeout)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs (generado con swag init)
	if _, err := os.Stat(cfg.HTTP.DocsPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.DocsPath,
			Path:     "docs",
			Title:    "Servitec API",
		}))
	} else {
		log.Info().Str("path", cfg.HTTP.DocsPath).Msg("swagger.json no encontrado; /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		SedeUC:           sedeUC,
		ProductoUC:       productoUC,
		ClienteUC:        clienteUC,
		RegisterMovement: registerMovementUC,
		Transfer:         transferUC,
		Kardex:           kardexUC,
		Replenishment:    replenishmentUC,
		Servicios:        servicioUC,
		Ventas:           ventaUC,
		Idempotency:      idemStore,
		IdempotencyTTL:   cfg.Idempotency.TTL,
		Logger:           log,
		JWTSecret:        cfg.JWT.Secret,
		AppName:          cfg.App.Name,
		Ping:             ping,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func runMigrations(cfg config.DBConfig, log *logger.Logger) {
	m, err := postgres.NewMigrator(cfg.ConnectionString(), log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer m.Close()
	if err := m.Up(); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
}
