package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/application/inventory"
	"github.com/jhoicas/Servitec-api/internal/application/ports"
	"github.com/jhoicas/Servitec-api/internal/application/servicio"
	"github.com/jhoicas/Servitec-api/internal/application/usecase"
	"github.com/jhoicas/Servitec-api/internal/application/venta"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SedeUC           *usecase.SedeUseCase
	ProductoUC       *usecase.ProductoUseCase
	ClienteUC        *usecase.ClienteUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Transfer         *inventory.TransferUseCase
	Kardex           *inventory.KardexUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	Servicios        *servicio.UseCase
	Ventas           *venta.UseCase
	Idempotency      ports.IdempotencyStore
	IdempotencyTTL   time.Duration
	Logger           *logger.Logger
	JWTSecret        string
	AppName          string
	// Ping verifica el almacenamiento para /health; nil = siempre ok.
	Ping func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Ping != nil {
			if err := deps.Ping(c.UserContext()); err != nil {
				deps.Logger.Error().Err(err).Msg("health: almacenamiento no disponible")
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UNAVAILABLE", Message: "almacenamiento no disponible"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	if deps.Idempotency != nil {
		protected.Use(Idempotency(deps.Idempotency, deps.IdempotencyTTL, deps.Logger))
	}

	adminOnly := RequireRole(entity.RoleAdmin)
	almacen := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	mostrador := RequireRole(entity.RoleAdmin, entity.RoleVendedor)

	// Sedes
	sedes := protected.Group("/sedes")
	sedeHandler := NewSedeHandler(deps.SedeUC, deps.Replenishment)
	sedes.Post("/", adminOnly, sedeHandler.Create)
	sedes.Get("/", sedeHandler.List)
	sedes.Get("/:id", sedeHandler.GetByID)
	sedes.Put("/:id", adminOnly, sedeHandler.Update)
	sedes.Get("/:id/stock-bajo", sedeHandler.StockBajo)

	// Productos, stock y kardex
	productos := protected.Group("/productos")
	productoHandler := NewProductoHandler(deps.ProductoUC, deps.Kardex)
	productos.Post("/", almacen, productoHandler.Create)
	productos.Get("/", productoHandler.List)
	productos.Get("/:id", productoHandler.GetByID)
	productos.Put("/:id", almacen, productoHandler.Update)
	productos.Get("/:id/kardex", productoHandler.Kardex)
	productos.Get("/:id/stock", productoHandler.Stock)

	// Clientes
	clientes := protected.Group("/clientes")
	clienteHandler := NewClienteHandler(deps.ClienteUC)
	clientes.Post("/", clienteHandler.Create)
	clientes.Get("/", clienteHandler.List)
	clientes.Get("/:id", clienteHandler.GetByID)

	// Movimientos y traspasos
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Transfer)
	movimientos := protected.Group("/movimientos")
	movimientos.Post("/", almacen, inventoryHandler.RegisterMovement)
	movimientos.Get("/", inventoryHandler.ListMovements)
	movimientos.Post("/:id/anular", adminOnly, inventoryHandler.AnularMovement)
	traspasos := protected.Group("/traspasos")
	traspasos.Post("/", almacen, inventoryHandler.CreateTransfer)
	traspasos.Get("/", inventoryHandler.ListTransfers)

	// Servicio técnico
	servicios := protected.Group("/servicios")
	servicioHandler := NewServicioHandler(deps.Servicios)
	servicios.Post("/", servicioHandler.Create)
	servicios.Get("/", servicioHandler.List)
	servicios.Get("/:id", servicioHandler.GetByID)
	servicios.Post("/:id/iniciar-reparacion", servicioHandler.IniciarReparacion)
	servicios.Post("/:id/marcar-reparado", servicioHandler.MarcarReparado)
	servicios.Post("/:id/editar-reparacion", servicioHandler.EditarReparacion)
	servicios.Post("/:id/marcar-entregado", servicioHandler.MarcarEntregado)
	servicios.Post("/:id/anular", adminOnly, servicioHandler.Anular)

	// Ventas
	ventas := protected.Group("/ventas")
	ventaHandler := NewVentaHandler(deps.Ventas)
	ventas.Post("/", mostrador, ventaHandler.Create)
	ventas.Get("/", ventaHandler.List)
	ventas.Get("/:id", ventaHandler.GetByID)
	ventas.Post("/:id/anular", mostrador, ventaHandler.Anular)
}
