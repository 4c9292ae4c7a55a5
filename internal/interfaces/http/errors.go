package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/domain"
)

type errorMapping struct {
	kind   error
	status int
	code   string
}

// El orden importa: ErrDuplicate y ErrInsufficientStock se evalúan antes que los genéricos.
var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// writeError traduce un error de dominio a respuesta HTTP. Los 500 no exponen la causa.
func writeError(c *fiber.Ctx, err error) error {
	return writeErrorStock(c, err, fiber.StatusConflict)
}

// writeErrorStock igual que writeError pero con el status a usar para stock insuficiente:
// movimientos y traspasos responden 400, servicios y ventas 409.
func writeErrorStock(c *fiber.Ctx, err error, stockStatus int) error {
	for _, m := range errorMappings {
		if !errors.Is(err, m.kind) {
			continue
		}
		status := m.status
		if m.kind == domain.ErrInsufficientStock {
			status = stockStatus
		}
		body := dto.ErrorResponse{Code: m.code, Message: err.Error()}
		var de *domain.Error
		if errors.As(err, &de) {
			body.Details = de.Details
		}
		return c.Status(status).JSON(body)
	}
	log.Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

// ErrorHandler para fiber.Config: errores que escapan de los handlers (404 de ruta, panics recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "ROUTE_NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusRequestEntityTooLarge:
			code = "BODY_TOO_LARGE"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}
