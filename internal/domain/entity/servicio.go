package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EstadoServicio estado del ticket de servicio técnico.
type EstadoServicio string

const (
	EstadoRecepcionado EstadoServicio = "RECEPCIONADO"
	EstadoEnDomicilio  EstadoServicio = "EN_DOMICILIO"
	EstadoEnReparacion EstadoServicio = "EN_REPARACION"
	EstadoReparado     EstadoServicio = "REPARADO"
	EstadoEntregado    EstadoServicio = "ENTREGADO"
	EstadoCancelado    EstadoServicio = "CANCELADO"
)

var transicionesServicio = map[EstadoServicio][]EstadoServicio{
	EstadoRecepcionado: {EstadoEnReparacion, EstadoReparado, EstadoCancelado},
	EstadoEnDomicilio:  {EstadoReparado, EstadoCancelado},
	EstadoEnReparacion: {EstadoReparado, EstadoCancelado},
	EstadoReparado:     {EstadoEntregado, EstadoCancelado},
}

// Valido indica si el estado pertenece al enum.
func (e EstadoServicio) Valido() bool {
	switch e {
	case EstadoRecepcionado, EstadoEnDomicilio, EstadoEnReparacion,
		EstadoReparado, EstadoEntregado, EstadoCancelado:
		return true
	}
	return false
}

// EsTerminal ENTREGADO y CANCELADO no admiten más transiciones.
func (e EstadoServicio) EsTerminal() bool {
	return e == EstadoEntregado || e == EstadoCancelado
}

// PuedeTransicionarA consulta la tabla de transiciones.
func (e EstadoServicio) PuedeTransicionarA(destino EstadoServicio) bool {
	for _, s := range transicionesServicio[e] {
		if s == destino {
			return true
		}
	}
	return false
}

// TipoServicio modalidad del servicio; determina el estado inicial.
type TipoServicio string

const (
	TipoServicioTaller    TipoServicio = "TALLER"
	TipoServicioDomicilio TipoServicio = "DOMICILIO"
	TipoServicioExpress   TipoServicio = "EXPRESS"
)

// EstadoInicial estado con el que se recepciona un ticket de este tipo.
func (t TipoServicio) EstadoInicial() (EstadoServicio, bool) {
	switch t {
	case TipoServicioTaller:
		return EstadoRecepcionado, true
	case TipoServicioDomicilio:
		return EstadoEnDomicilio, true
	case TipoServicioExpress:
		return EstadoReparado, true
	}
	return "", false
}

// Equipo equipo recibido en el ticket.
type Equipo struct {
	Tipo       string          `json:"tipo"`
	Marca      string          `json:"marca"`
	Modelo     string          `json:"modelo"`
	Serie      string          `json:"serie"`
	Falla      string          `json:"falla"`
	Accesorios string          `json:"accesorios"`
	Costo      decimal.Decimal `json:"costo"`
}

// ServicioAdicional cargo extra (limpieza, instalación de software, etc).
type ServicioAdicional struct {
	Descripcion string          `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
}

// Servicio ticket de servicio técnico.
// Total = CostoServicio + CostoRepuestos + MontoServiciosAdicionales; Saldo = Total - ACuenta.
type Servicio struct {
	ID                   string
	Numero               string
	SedeID               string
	ClienteID            string
	ClienteNombre        string
	Tipo                 TipoServicio
	Equipos              []Equipo
	ServiciosAdicionales []ServicioAdicional
	Diagnostico          string
	Solucion             string
	FotosAntes           []string
	FotosDespues         []string

	CostoServicio             decimal.Decimal
	CostoRepuestos            decimal.Decimal
	MontoServiciosAdicionales decimal.Decimal
	Total                     decimal.Decimal
	ACuenta                   decimal.Decimal
	Saldo                     decimal.Decimal

	Estado            EstadoServicio
	FechaRecepcion    time.Time
	FechaReparacion   *time.Time
	FechaEntrega      *time.Time
	QuienRecibeNombre string
	QuienRecibeDNI    string
	MotivoCancelacion string
	AdelantoDevuelto  decimal.Decimal
	MetodoDevolucion  string

	UsuarioID string
	CreatedAt time.Time
	UpdatedAt time.Time

	Items     []ServicioItem
	Historial []ServicioHistorial
}

// RecalcularTotales recalcula Total y Saldo desde los componentes de costo.
func (s *Servicio) RecalcularTotales() {
	s.Total = s.CostoServicio.Add(s.CostoRepuestos).Add(s.MontoServiciosAdicionales)
	s.Saldo = s.Total.Sub(s.ACuenta)
}

// ServicioItem repuesto consumido por el ticket. Único por (ServicioID, ProductoID).
type ServicioItem struct {
	ID             string
	ServicioID     string
	ProductoID     string
	ProductoNombre string
	Cantidad       int
	PrecioUnit     decimal.Decimal
	Subtotal       decimal.Decimal
}

// ServicioHistorial fila de auditoría de una transición.
type ServicioHistorial struct {
	ID             string
	ServicioID     string
	EstadoAnterior EstadoServicio
	EstadoNuevo    EstadoServicio
	UsuarioID      string
	Comentario     string
	Fecha          time.Time
}

// ServicioFilter filtros para listar tickets.
type ServicioFilter struct {
	SedeID    string
	ClienteID string
	Estado    EstadoServicio
	Limit     int
	Offset    int
}
