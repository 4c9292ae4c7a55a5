package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de venta.
const (
	VentaCompletada = "COMPLETADA"
	VentaAnulada    = "ANULADA"
)

// Métodos de pago aceptados.
const (
	MetodoEfectivo      = "EFECTIVO"
	MetodoTarjeta       = "TARJETA"
	MetodoYape          = "YAPE"
	MetodoPlin          = "PLIN"
	MetodoTransferencia = "TRANSFERENCIA"
)

// MetodoPagoValido indica si el método de pago es aceptado.
func MetodoPagoValido(m string) bool {
	switch m {
	case MetodoEfectivo, MetodoTarjeta, MetodoYape, MetodoPlin, MetodoTransferencia:
		return true
	}
	return false
}

// Venta cabecera de venta. ServicioID no vacío indica que nació de una entrega de servicio técnico.
type Venta struct {
	ID              string
	Numero          string
	SedeID          string
	ClienteID       string
	UsuarioID       string
	ServicioID      string
	Subtotal        decimal.Decimal
	Descuento       decimal.Decimal
	Total           decimal.Decimal
	Estado          string
	MotivoAnulacion string
	AnuladaPor      string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []VentaItem
	Pagos []Pago
}

// VentaItem línea de venta.
type VentaItem struct {
	ID             string
	VentaID        string
	ProductoID     string
	ProductoNombre string
	Cantidad       int
	PrecioUnit     decimal.Decimal
	Subtotal       decimal.Decimal
}

// Pago pago asociado a una venta.
type Pago struct {
	ID        string
	VentaID   string
	Metodo    string
	Monto     decimal.Decimal
	CreatedAt time.Time
}

// VentaFilter filtros para listar ventas.
type VentaFilter struct {
	SedeID string
	Estado string
	Limit  int
	Offset int
}
