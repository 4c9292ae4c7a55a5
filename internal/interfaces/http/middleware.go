package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/application/ports"
	"github.com/jhoicas/Servitec-api/pkg/logger"
)

// Cabeceras de idempotencia.
const (
	HeaderIdempotencyKey      = "X-Idempotency-Key"
	HeaderIdempotencyReplayed = "X-Idempotency-Replayed"
	maxIdempotencyKeyLen      = 128
)

// RequestLogger registra cada petición con método, ruta, status, latencia y request id.
// Debe ir después de requestid.New().
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Deja que el ErrorHandler escriba la respuesta antes de leer el status.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return nil
	}
}

// Idempotency hace que un POST repetido con la misma X-Idempotency-Key devuelva la respuesta
// original sin volver a ejecutar la operación. La clave se acota por usuario, método y ruta.
// Solo aplica a POST; sin cabecera la petición pasa tal cual. Las respuestas 5xx no se retienen.
func Idempotency(store ports.IdempotencyStore, ttl time.Duration, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
		if key == "" || c.Method() != fiber.MethodPost {
			return c.Next()
		}
		if len(key) > maxIdempotencyKeyLen {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: HeaderIdempotencyKey + " demasiado larga"})
		}
		scoped := GetUserID(c) + ":" + c.Method() + ":" + c.Path() + ":" + key
		ctx := c.UserContext()

		saved, acquired, err := store.Reservar(ctx, scoped, ttl)
		if err != nil {
			log.Warn().Err(err).Str("path", c.Path()).Msg("idempotencia no disponible; se procesa sin clave")
			return c.Next()
		}
		if !acquired {
			if saved == nil {
				return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_IN_PROGRESS", Message: "una petición con la misma clave sigue en curso"})
			}
			c.Set(HeaderIdempotencyReplayed, "true")
			if saved.ContentType != "" {
				c.Set(fiber.HeaderContentType, saved.ContentType)
			}
			return c.Status(saved.Status).Send(saved.Body)
		}

		if err := c.Next(); err != nil {
			if lerr := store.Liberar(ctx, scoped); lerr != nil {
				log.Warn().Err(lerr).Msg("liberar clave de idempotencia")
			}
			return err
		}
		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			if lerr := store.Liberar(ctx, scoped); lerr != nil {
				log.Warn().Err(lerr).Msg("liberar clave de idempotencia")
			}
			return nil
		}
		resp := ports.RespuestaGuardada{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if err := store.Guardar(ctx, scoped, resp, ttl); err != nil {
			log.Warn().Err(err).Msg("guardar respuesta idempotente")
		}
		return nil
	}
}
