package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Error error de dominio con mensaje legible para el usuario.
// Envuelve uno de los sentinels anteriores para que errors.Is siga funcionando.
type Error struct {
	Kind    error
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// WithDetail agrega un detalle estructurado.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Errorf construye un *Error del tipo indicado.
func Errorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound recurso inexistente, nombrado.
func NotFound(recurso string) *Error {
	return Errorf(ErrNotFound, "%s no encontrado", recurso)
}

// Invalid entrada inválida con mensaje.
func Invalid(format string, args ...any) *Error {
	return Errorf(ErrInvalidInput, format, args...)
}

// Conflict conflicto con el estado actual.
func Conflict(format string, args ...any) *Error {
	return Errorf(ErrConflict, format, args...)
}

// Forbidden acción no permitida al actor.
func Forbidden(format string, args ...any) *Error {
	return Errorf(ErrForbidden, format, args...)
}

// StockInsuficiente error de stock para movimientos y traspasos.
func StockInsuficiente(producto string, disponible, solicitado int) *Error {
	return Errorf(ErrInsufficientStock,
		"Stock insuficiente para %s. Disponible: %d, solicitado: %d", producto, disponible, solicitado).
		WithDetail("producto", producto).
		WithDetail("disponible", disponible).
		WithDetail("solicitado", solicitado)
}

// RepuestoInsuficiente error de stock para repuestos de un servicio técnico.
func RepuestoInsuficiente(producto string, disponible, requerido int) *Error {
	return Errorf(ErrInsufficientStock,
		"Stock insuficiente del repuesto %s. Disponible: %d, Requerido: %d", producto, disponible, requerido).
		WithDetail("producto", producto).
		WithDetail("disponible", disponible).
		WithDetail("requerido", requerido)
}
