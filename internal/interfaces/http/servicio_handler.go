package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/application/servicio"
)

// ServicioHandler maneja los tickets de servicio técnico (protegido).
type ServicioHandler struct {
	uc *servicio.UseCase
}

// NewServicioHandler construye el handler.
func NewServicioHandler(uc *servicio.UseCase) *ServicioHandler {
	return &ServicioHandler{uc: uc}
}

// Create godoc
// @Summary      Recepcionar equipo(s)
// @Description  Estado inicial según tipoServicio: TALLER→RECEPCIONADO, DOMICILIO→EN_DOMICILIO, EXPRESS→REPARADO.
// @Description  Los repuestos indicados se descuentan del stock en la misma transacción.
// @Tags         servicios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateServicioRequest  true  "Ticket"
// @Success      201   {object}  dto.ServicioResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente de repuesto"
// @Router       /api/servicios [post]
func (h *ServicioHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateServicioRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// IniciarReparacion godoc
// @Summary      Iniciar reparación
// @Tags         servicios
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del servicio"
// @Success      200  {object}  dto.ServicioResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "estado inválido"
// @Router       /api/servicios/{id}/iniciar-reparacion [post]
func (h *ServicioHandler) IniciarReparacion(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.IniciarReparacion(c.UserContext(), GetActor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MarcarReparado godoc
// @Summary      Marcar reparado
// @Tags         servicios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del servicio"
// @Param        body  body  dto.MarcarReparadoRequest  true  "Diagnóstico, solución y repuestos usados"
// @Success      200   {object}  dto.ServicioResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "estado inválido o stock insuficiente"
// @Router       /api/servicios/{id}/marcar-reparado [post]
func (h *ServicioHandler) MarcarReparado(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.MarcarReparadoRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.MarcarReparado(c.UserContext(), GetActor(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// EditarReparacion godoc
// @Summary      Editar reparación
// @Description  Solo en REPARADO. repuestosActualizados es la lista completa deseada.
// @Tags         servicios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del servicio"
// @Param        body  body  dto.EditarReparacionRequest  true  "Cambios"
// @Success      200   {object}  dto.ServicioResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/servicios/{id}/editar-reparacion [post]
func (h *ServicioHandler) EditarReparacion(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.EditarReparacionRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.EditarReparacion(c.UserContext(), GetActor(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MarcarEntregado godoc
// @Summary      Marcar entregado
// @Description  Registra quién recibe, el cobro del saldo y los productos vendidos en la entrega.
// @Tags         servicios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del servicio"
// @Param        body  body  dto.MarcarEntregadoRequest  true  "Entrega"
// @Success      200   {object}  dto.ServicioResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/servicios/{id}/marcar-entregado [post]
func (h *ServicioHandler) MarcarEntregado(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.MarcarEntregadoRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.MarcarEntregado(c.UserContext(), GetActor(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Anular godoc
// @Summary      Cancelar servicio
// @Description  Devuelve al stock todos los repuestos del ticket. Solo admin.
// @Tags         servicios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del servicio"
// @Param        body  body  dto.AnularServicioRequest  true  "Motivo y devolución del adelanto"
// @Success      200   {object}  dto.ServicioResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/servicios/{id}/anular [post]
func (h *ServicioHandler) Anular(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.AnularServicioRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Anular(c.UserContext(), GetActor(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener servicio con repuestos e historial
// @Tags         servicios
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del servicio"
// @Success      200  {object}  dto.ServicioResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/servicios/{id} [get]
func (h *ServicioHandler) GetByID(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.UserContext(), GetActor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar servicios
// @Tags         servicios
// @Security     Bearer
// @Produce      json
// @Param        estado     query  string  false  "Estado"
// @Param        sedeId     query  string  false  "Sede (solo admin)"
// @Param        clienteId  query  string  false  "Cliente"
// @Param        page       query  int     false  "Página (desde 1)"
// @Param        limit      query  int     false  "Tamaño de página (máx 100)"
// @Success      200        {object}  dto.ServicioListResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/servicios [get]
func (h *ServicioHandler) List(c *fiber.Ctx) error {
	q := dto.ServicioQuery{
		PageRequest: pageFromQuery(c),
		Estado:      c.Query("estado"),
		SedeID:      c.Query("sedeId"),
		ClienteID:   c.Query("clienteId"),
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
