package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EquipoRequest equipo recibido.
type EquipoRequest struct {
	Tipo       string          `json:"tipo" validate:"required,max=60"`
	Marca      string          `json:"marca" validate:"max=60"`
	Modelo     string          `json:"modelo" validate:"max=60"`
	Serie      string          `json:"serie" validate:"max=80"`
	Falla      string          `json:"falla" validate:"required,max=500"`
	Accesorios string          `json:"accesorios" validate:"max=250"`
	Costo      decimal.Decimal `json:"costo"`
}

// ServicioAdicionalRequest cargo adicional.
type ServicioAdicionalRequest struct {
	Descripcion string          `json:"descripcion" validate:"required,max=200"`
	Precio      decimal.Decimal `json:"precio"`
}

// RepuestoRequest repuesto a consumir.
type RepuestoRequest = LineaProductoRequest

// CreateServicioRequest body para POST /api/servicios (recepción).
// Se exige clienteId o cliente para crear uno nuevo.
type CreateServicioRequest struct {
	SedeID               string                     `json:"sedeId" validate:"required"`
	ClienteID            string                     `json:"clienteId"`
	Cliente              *CreateClienteRequest      `json:"cliente,omitempty"`
	TipoServicio         string                     `json:"tipoServicio" validate:"required"`
	Equipos              []EquipoRequest            `json:"equipos" validate:"required,min=1,dive"`
	ServiciosAdicionales []ServicioAdicionalRequest `json:"serviciosAdicionales" validate:"dive"`
	Repuestos            []RepuestoRequest          `json:"repuestos" validate:"dive"`
	ACuenta              decimal.Decimal            `json:"aCuenta"`
	Diagnostico          string                     `json:"diagnostico" validate:"max=1000"`
	Solucion             string                     `json:"solucion" validate:"max=1000"`
	FotosAntes           []string                   `json:"fotosAntes"`
}

// MarcarReparadoRequest body para POST /api/servicios/:id/marcar-reparado.
type MarcarReparadoRequest struct {
	Diagnostico     string            `json:"diagnostico" validate:"required,max=1000"`
	Solucion        string            `json:"solucion" validate:"required,max=1000"`
	FotosDespues    []string          `json:"fotosDespues"`
	RepuestosUsados []RepuestoRequest `json:"repuestosUsados" validate:"dive"`
	FechaReparacion *time.Time        `json:"fechaReparacion,omitempty"`
}

// EditarReparacionRequest body para POST /api/servicios/:id/editar-reparacion.
// RepuestosActualizados es la lista completa deseada y se compara contra los repuestos actuales;
// si no viene, los repuestos no se tocan.
type EditarReparacionRequest struct {
	Diagnostico           *string           `json:"diagnostico" validate:"omitempty,min=1,max=1000"`
	Solucion              *string           `json:"solucion" validate:"omitempty,min=1,max=1000"`
	FotosDespues          []string          `json:"fotosDespues"`
	RepuestosActualizados []RepuestoRequest `json:"repuestosActualizados" validate:"dive"`
}

// ProductoVendidoRequest producto vendido en la entrega.
type ProductoVendidoRequest = RepuestoRequest

// MarcarEntregadoRequest body para POST /api/servicios/:id/marcar-entregado.
type MarcarEntregadoRequest struct {
	FechaEntrega      *time.Time               `json:"fechaEntrega" validate:"required"`
	SaldoPagado       bool                     `json:"saldoPagado"`
	MetodoPagoSaldo   string                   `json:"metodoPagoSaldo"`
	QuienRecibeNombre string                   `json:"quienRecibeNombre" validate:"required,max=200"`
	QuienRecibeDNI    string                   `json:"quienRecibeDni" validate:"max=20"`
	ProductosVendidos []ProductoVendidoRequest `json:"productosVendidos" validate:"dive"`
}

// AnularServicioRequest body para POST /api/servicios/:id/anular.
type AnularServicioRequest struct {
	Motivo           string          `json:"motivo" validate:"required,max=500"`
	Observaciones    string          `json:"observaciones" validate:"max=1000"`
	DevolverAdelanto bool            `json:"devolverAdelanto"`
	MontoDevolucion  decimal.Decimal `json:"montoDevolucion"`
	MetodoDevolucion string          `json:"metodoDevolucion"`
}

// ServicioItemResponse repuesto del ticket.
type ServicioItemResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"productoId"`
	ProductoNombre string          `json:"productoNombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnit     decimal.Decimal `json:"precioUnit"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// HistorialResponse fila del historial del ticket.
type HistorialResponse struct {
	ID             string    `json:"id"`
	EstadoAnterior string    `json:"estadoAnterior"`
	EstadoNuevo    string    `json:"estadoNuevo"`
	UsuarioID      string    `json:"usuarioId"`
	Comentario     string    `json:"comentario"`
	Fecha          time.Time `json:"fecha"`
}

// ServicioResponse ticket completo.
type ServicioResponse struct {
	ID                        string                     `json:"id"`
	Numero                    string                     `json:"numero"`
	SedeID                    string                     `json:"sedeId"`
	ClienteID                 string                     `json:"clienteId"`
	ClienteNombre             string                     `json:"clienteNombre"`
	TipoServicio              string                     `json:"tipoServicio"`
	Equipos                   []EquipoRequest            `json:"equipos"`
	ServiciosAdicionales      []ServicioAdicionalRequest `json:"serviciosAdicionales"`
	Diagnostico               string                     `json:"diagnostico"`
	Solucion                  string                     `json:"solucion"`
	FotosAntes                []string                   `json:"fotosAntes"`
	FotosDespues              []string                   `json:"fotosDespues"`
	CostoServicio             decimal.Decimal            `json:"costoServicio"`
	CostoRepuestos            decimal.Decimal            `json:"costoRepuestos"`
	MontoServiciosAdicionales decimal.Decimal            `json:"montoServiciosAdicionales"`
	Total                     decimal.Decimal            `json:"total"`
	ACuenta                   decimal.Decimal            `json:"aCuenta"`
	Saldo                     decimal.Decimal            `json:"saldo"`
	Estado                    string                     `json:"estado"`
	FechaRecepcion            time.Time                  `json:"fechaRecepcion"`
	FechaReparacion           *time.Time                 `json:"fechaReparacion,omitempty"`
	FechaEntrega              *time.Time                 `json:"fechaEntrega,omitempty"`
	QuienRecibeNombre         string                     `json:"quienRecibeNombre,omitempty"`
	QuienRecibeDNI            string                     `json:"quienRecibeDni,omitempty"`
	MotivoCancelacion         string                     `json:"motivoCancelacion,omitempty"`
	AdelantoDevuelto          decimal.Decimal            `json:"adelantoDevuelto"`
	MetodoDevolucion          string                     `json:"metodoDevolucion,omitempty"`
	UsuarioID                 string                     `json:"usuarioId"`
	VentaID                   string                     `json:"ventaId,omitempty"`
	Items                     []ServicioItemResponse     `json:"items"`
	Historial                 []HistorialResponse        `json:"historial,omitempty"`
	CreatedAt                 time.Time                  `json:"createdAt"`
	UpdatedAt                 time.Time                  `json:"updatedAt"`
}

// ServicioQuery filtros de GET /api/servicios.
type ServicioQuery struct {
	PageRequest
	Estado    string `query:"estado"`
	SedeID    string `query:"sedeId"`
	ClienteID string `query:"clienteId"`
}

// ServicioListResponse lista paginada de tickets.
type ServicioListResponse struct {
	Items []ServicioResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
