package entity

import "time"

// TipoMovimiento tipo cerrado de fila del kardex.
type TipoMovimiento string

const (
	MovIngreso           TipoMovimiento = "INGRESO"
	MovAjustePositivo    TipoMovimiento = "AJUSTE_POSITIVO"
	MovTraspasoEntrada   TipoMovimiento = "TRASPASO_ENTRADA"
	MovDevolucion        TipoMovimiento = "DEVOLUCION"
	MovEntradaDevolucion TipoMovimiento = "ENTRADA_DEVOLUCION"
	MovAjusteDevolucion  TipoMovimiento = "AJUSTE_DEVOLUCION"

	MovAjusteNegativo   TipoMovimiento = "AJUSTE_NEGATIVO"
	MovMerma            TipoMovimiento = "MERMA"
	MovTraspasoSalida   TipoMovimiento = "TRASPASO_SALIDA"
	MovSalidaReparacion TipoMovimiento = "SALIDA_REPARACION"
	MovSalidaVenta      TipoMovimiento = "SALIDA_VENTA"
	MovUsoServicio      TipoMovimiento = "USO_SERVICIO"
)

// Direccion signo con el que un tipo afecta el stock.
type Direccion int

const (
	Disminuye Direccion = -1
	Aumenta   Direccion = 1
)

var direccionPorTipo = map[TipoMovimiento]Direccion{
	MovIngreso:           Aumenta,
	MovAjustePositivo:    Aumenta,
	MovTraspasoEntrada:   Aumenta,
	MovDevolucion:        Aumenta,
	MovEntradaDevolucion: Aumenta,
	MovAjusteDevolucion:  Aumenta,

	MovAjusteNegativo:   Disminuye,
	MovMerma:            Disminuye,
	MovTraspasoSalida:   Disminuye,
	MovSalidaReparacion: Disminuye,
	MovSalidaVenta:      Disminuye,
	MovUsoServicio:      Disminuye,
}

// Tipos que el usuario puede registrar a mano en POST /api/movimientos.
var tiposManuales = map[TipoMovimiento]bool{
	MovIngreso:        true,
	MovAjustePositivo: true,
	MovAjusteNegativo: true,
	MovMerma:          true,
	MovDevolucion:     true,
}

// Valido indica si el tipo pertenece al enum.
func (t TipoMovimiento) Valido() bool {
	_, ok := direccionPorTipo[t]
	return ok
}

// Direccion devuelve el signo del tipo; 0 para tipos desconocidos.
func (t TipoMovimiento) Direccion() Direccion {
	return direccionPorTipo[t]
}

// Aumenta indica si el tipo suma stock.
func (t TipoMovimiento) Aumenta() bool { return t.Direccion() == Aumenta }

// Disminuye indica si el tipo resta stock.
func (t TipoMovimiento) Disminuye() bool { return t.Direccion() == Disminuye }

// EsManual indica si el tipo puede registrarse directamente.
func (t TipoMovimiento) EsManual() bool { return tiposManuales[t] }

// TipoReverso tipo de la fila compensatoria que revierte una fila de este tipo.
func (t TipoMovimiento) TipoReverso() TipoMovimiento {
	if t.Aumenta() {
		return MovAjusteNegativo
	}
	return MovDevolucion
}

// EstadoTraspaso estado del lote de traspaso.
type EstadoTraspaso string

const EstadoTraspasoPendiente EstadoTraspaso = "PENDIENTE"

// Movimiento fila inmutable del kardex. Solo se modifica para marcar Anulado.
type Movimiento struct {
	ID            string
	ProductoID    string
	SedeID        string
	Tipo          TipoMovimiento
	Cantidad      int // siempre > 0; el signo lo da Tipo
	StockAntes    int
	StockDespues  int
	Motivo        string
	Referencia    string
	Observaciones string
	UsuarioID     string
	Fecha         time.Time
	Anulado       bool

	// Solo traspasos.
	LoteID                string
	TraspasoRelacionadoID string
	SedeOrigenID          string
	SedeDestinoID         string
	EstadoTraspaso        EstadoTraspaso
}

// Entradas cantidad que suma al kardex (0 si el tipo resta).
func (m *Movimiento) Entradas() int {
	if m.Tipo.Aumenta() {
		return m.Cantidad
	}
	return 0
}

// Salidas cantidad que resta del kardex (0 si el tipo suma).
func (m *Movimiento) Salidas() int {
	if m.Tipo.Disminuye() {
		return m.Cantidad
	}
	return 0
}

// MovimientoFilter filtros para listar movimientos y kardex.
type MovimientoFilter struct {
	ProductoID string
	SedeID     string
	Tipo       TipoMovimiento
	Referencia string
	FechaDesde *time.Time
	FechaHasta *time.Time
	Ascendente bool
	Limit      int
	Offset     int
}

// Traspaso vista de un lote: fila de salida con su fila de entrada pareada.
type Traspaso struct {
	LoteID        string
	SalidaID      string
	EntradaID     string
	ProductoID    string
	SedeOrigenID  string
	SedeDestinoID string
	Cantidad      int
	Estado        EstadoTraspaso
	Motivo        string
	UsuarioID     string
	Fecha         time.Time
}
