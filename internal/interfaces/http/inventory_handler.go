package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/application/inventory"
)

// InventoryHandler maneja movimientos manuales y traspasos entre sedes (protegido).
// El stock insuficiente en estas rutas responde 400.
type InventoryHandler struct {
	movimientos *inventory.RegisterMovementUseCase
	traspasos   *inventory.TransferUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(movimientos *inventory.RegisterMovementUseCase, traspasos *inventory.TransferUseCase) *InventoryHandler {
	return &InventoryHandler{movimientos: movimientos, traspasos: traspasos}
}

func writeInventoryError(c *fiber.Ctx, err error) error {
	return writeErrorStock(c, err, fiber.StatusBadRequest)
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Tipos manuales: INGRESO, AJUSTE_POSITIVO, AJUSTE_NEGATIVO, MERMA, DEVOLUCION.
// @Description  Todas las líneas se aplican en una sola transacción.
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovimientoRequest  true  "sedeId, tipo, lineas[{productoId, cantidad, costoUnitario}], motivo"
// @Success      201   {array}   dto.MovimientoResponse
// @Failure      400   {object}  dto.ErrorResponse  "validación o stock insuficiente"
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movimientos [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovimientoRequest
	if err := parseBody(c, &in); err != nil {
		return writeInventoryError(c, err)
	}
	out, err := h.movimientos.Register(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeInventoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Description  Más recientes primero. Quien no es admin solo ve su sede.
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        tipo        query  string  false  "Tipo de movimiento"
// @Param        sedeId      query  string  false  "Sede"
// @Param        productoId  query  string  false  "Producto"
// @Param        fechaDesde  query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        fechaHasta  query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        page        query  int     false  "Página (desde 1)"
// @Param        limit       query  int     false  "Tamaño de página (máx 100)"
// @Success      200         {object}  dto.MovimientoListResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/movimientos [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	desde, hasta, err := rangoFechas(c)
	if err != nil {
		return writeInventoryError(c, err)
	}
	q := dto.MovimientoQuery{
		PageRequest: pageFromQuery(c),
		Tipo:        c.Query("tipo"),
		SedeID:      c.Query("sedeId"),
		ProductoID:  c.Query("productoId"),
		FechaDesde:  desde,
		FechaHasta:  hasta,
	}
	out, err := h.movimientos.List(c.UserContext(), GetActor(c), q)
	if err != nil {
		return writeInventoryError(c, err)
	}
	return c.JSON(out)
}

// AnularMovement godoc
// @Summary      Anular movimiento manual
// @Description  Registra el movimiento compensatorio y marca ambos como anulados.
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del movimiento"
// @Param        body  body  dto.AnularMovimientoRequest  true  "motivo"
// @Success      200   {object}  dto.MovimientoResponse  "movimiento compensatorio"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "ya anulado o tipo no anulable"
// @Router       /api/movimientos/{id}/anular [post]
func (h *InventoryHandler) AnularMovement(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return writeInventoryError(c, err)
	}
	var in dto.AnularMovimientoRequest
	if err := parseBody(c, &in); err != nil {
		return writeInventoryError(c, err)
	}
	out, err := h.movimientos.Anular(c.UserContext(), GetActor(c), id, in)
	if err != nil {
		return writeInventoryError(c, err)
	}
	return c.JSON(out)
}

// CreateTransfer godoc
// @Summary      Traspaso entre sedes
// @Description  Un lote con SALIDA en origen y ENTRADA en destino por producto; todo o nada.
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTraspasoRequest  true  "productos, sedeOrigenId, sedeDestinoId, motivo"
// @Success      201   {object}  dto.TraspasoResponse
// @Failure      400   {object}  dto.ErrorResponse  "validación, misma sede o stock insuficiente"
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/traspasos [post]
func (h *InventoryHandler) CreateTransfer(c *fiber.Ctx) error {
	var in dto.CreateTraspasoRequest
	if err := parseBody(c, &in); err != nil {
		return writeInventoryError(c, err)
	}
	out, err := h.traspasos.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeInventoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListTransfers godoc
// @Summary      Listar traspasos
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        sedeId  query  string  false  "Sede origen o destino"
// @Param        page    query  int     false  "Página (desde 1)"
// @Param        limit   query  int     false  "Tamaño de página (máx 100)"
// @Success      200     {object}  dto.TraspasoListResponse
// @Router       /api/traspasos [get]
func (h *InventoryHandler) ListTransfers(c *fiber.Ctx) error {
	out, err := h.traspasos.List(c.UserContext(), GetActor(c), c.Query("sedeId"), pageFromQuery(c))
	if err != nil {
		return writeInventoryError(c, err)
	}
	return c.JSON(out)
}
