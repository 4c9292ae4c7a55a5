package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// VentaItemRequest línea de venta.
type VentaItemRequest = LineaProductoRequest

// PagoRequest pago recibido.
type PagoRequest struct {
	Metodo string          `json:"metodo" validate:"required"`
	Monto  decimal.Decimal `json:"monto"`
}

// CreateVentaRequest body para POST /api/ventas.
type CreateVentaRequest struct {
	SedeID    string             `json:"sedeId" validate:"required"`
	ClienteID string             `json:"clienteId"`
	Items     []VentaItemRequest `json:"items" validate:"required,min=1,dive"`
	Pagos     []PagoRequest      `json:"pagos" validate:"required,min=1,dive"`
	Descuento decimal.Decimal    `json:"descuento"`
}

// AnularVentaRequest body para POST /api/ventas/:id/anular.
type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,max=250"`
}

// VentaItemResponse línea de venta.
type VentaItemResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"productoId"`
	ProductoNombre string          `json:"productoNombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnit     decimal.Decimal `json:"precioUnit"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// PagoResponse pago registrado.
type PagoResponse struct {
	ID     string          `json:"id"`
	Metodo string          `json:"metodo"`
	Monto  decimal.Decimal `json:"monto"`
}

// VentaResponse venta completa.
type VentaResponse struct {
	ID              string              `json:"id"`
	Numero          string              `json:"numero"`
	SedeID          string              `json:"sedeId"`
	ClienteID       string              `json:"clienteId,omitempty"`
	UsuarioID       string              `json:"usuarioId"`
	ServicioID      string              `json:"servicioId,omitempty"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Descuento       decimal.Decimal     `json:"descuento"`
	Total           decimal.Decimal     `json:"total"`
	Vuelto          decimal.Decimal     `json:"vuelto"`
	Estado          string              `json:"estado"`
	MotivoAnulacion string              `json:"motivoAnulacion,omitempty"`
	Items           []VentaItemResponse `json:"items"`
	Pagos           []PagoResponse      `json:"pagos"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// VentaQuery filtros de GET /api/ventas.
type VentaQuery struct {
	PageRequest
	SedeID string `query:"sedeId"`
	Estado string `query:"estado"`
}

// VentaListResponse lista paginada de ventas.
type VentaListResponse struct {
	Items []VentaResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
