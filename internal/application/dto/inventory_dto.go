package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovimientoLineaRequest línea de un movimiento manual.
type MovimientoLineaRequest struct {
	ProductoID    string           `json:"productoId" validate:"required"`
	Cantidad      int              `json:"cantidad" validate:"required,gt=0"`
	CostoUnitario *decimal.Decimal `json:"costoUnitario,omitempty"`
}

// RegisterMovimientoRequest body para POST /api/movimientos.
type RegisterMovimientoRequest struct {
	SedeID        string                   `json:"sedeId" validate:"required"`
	Tipo          string                   `json:"tipo" validate:"required"`
	Lineas        []MovimientoLineaRequest `json:"lineas" validate:"required,min=1,dive"`
	Motivo        string                   `json:"motivo" validate:"required,max=250"`
	Referencia    string                   `json:"referencia" validate:"max=120"`
	Observaciones string                   `json:"observaciones" validate:"max=500"`
}

// AnularMovimientoRequest body para POST /api/movimientos/:id/anular.
type AnularMovimientoRequest struct {
	Motivo string `json:"motivo" validate:"required,max=250"`
}

// MovimientoResponse fila del kardex.
type MovimientoResponse struct {
	ID                    string    `json:"id"`
	ProductoID            string    `json:"productoId"`
	SedeID                string    `json:"sedeId"`
	Tipo                  string    `json:"tipo"`
	Cantidad              int       `json:"cantidad"`
	StockAntes            int       `json:"stockAntes"`
	StockDespues          int       `json:"stockDespues"`
	Motivo                string    `json:"motivo"`
	Referencia            string    `json:"referencia,omitempty"`
	Observaciones         string    `json:"observaciones,omitempty"`
	UsuarioID             string    `json:"usuarioId"`
	Fecha                 time.Time `json:"fecha"`
	Anulado               bool      `json:"anulado"`
	LoteID                string    `json:"loteId,omitempty"`
	TraspasoRelacionadoID string    `json:"traspasoRelacionadoId,omitempty"`
	SedeOrigenID          string    `json:"sedeOrigenId,omitempty"`
	SedeDestinoID         string    `json:"sedeDestinoId,omitempty"`
	EstadoTraspaso        string    `json:"estadoTraspaso,omitempty"`
}

// MovimientoQuery filtros de GET /api/movimientos.
type MovimientoQuery struct {
	PageRequest
	Tipo       string     `query:"tipo"`
	SedeID     string     `query:"sedeId"`
	ProductoID string     `query:"productoId"`
	FechaDesde *time.Time `query:"-"`
	FechaHasta *time.Time `query:"-"`
}

// MovimientoListResponse lista paginada de movimientos.
type MovimientoListResponse struct {
	Items []MovimientoResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// KardexQuery filtros de GET /api/productos/:id/kardex.
type KardexQuery struct {
	PageRequest
	Tipo       string     `query:"tipo"`
	SedeID     string     `query:"sedeId"`
	Orden      string     `query:"orden"` // asc | desc (default)
	FechaDesde *time.Time `query:"-"`
	FechaHasta *time.Time `query:"-"`
}

// KardexFila movimiento anotado con entradas, salidas y saldo.
type KardexFila struct {
	MovimientoResponse
	Entradas int `json:"entradas"`
	Salidas  int `json:"salidas"`
	Saldo    int `json:"saldo"`
}

// KardexEstadisticas totales por categoría sobre filas no anuladas.
type KardexEstadisticas struct {
	Ingresos         int `json:"ingresos"`
	Salidas          int `json:"salidas"`
	AjustesPositivos int `json:"ajustesPositivos"`
	AjustesNegativos int `json:"ajustesNegativos"`
	TraspasosEntrada int `json:"traspasosEntrada"`
	TraspasosSalida  int `json:"traspasosSalida"`
	UsoServicio      int `json:"usoServicio"`
	Devoluciones     int `json:"devoluciones"`
	Mermas           int `json:"mermas"`
	TotalEntradas    int `json:"totalEntradas"`
	TotalSalidas     int `json:"totalSalidas"`
	TotalMovimientos int `json:"totalMovimientos"`
}

// StockSedeResponse stock de un producto en una sede.
type StockSedeResponse struct {
	SedeID     string `json:"sedeId"`
	SedeNombre string `json:"sedeNombre"`
	Stock      int    `json:"stock"`
}

// KardexResponse respuesta del kardex de un producto.
type KardexResponse struct {
	Producto     ProductoResponse    `json:"producto"`
	StockActual  int                 `json:"stockActual"`
	StockPorSede []StockSedeResponse `json:"stockPorSede"`
	Estadisticas KardexEstadisticas  `json:"estadisticas"`
	Movimientos  []KardexFila        `json:"movimientos"`
	Page         PageResponse        `json:"page"`
}

// TraspasoProductoRequest producto a trasladar.
type TraspasoProductoRequest struct {
	ProductoID string `json:"productoId" validate:"required"`
	Cantidad   int    `json:"cantidad" validate:"required,gt=0"`
}

// CreateTraspasoRequest body para POST /api/traspasos.
type CreateTraspasoRequest struct {
	Productos     []TraspasoProductoRequest `json:"productos" validate:"required,min=1,dive"`
	SedeOrigenID  string                    `json:"sedeOrigenId" validate:"required"`
	SedeDestinoID string                    `json:"sedeDestinoId" validate:"required"`
	Motivo        string                    `json:"motivo" validate:"max=250"`
	Observaciones string                    `json:"observaciones" validate:"max=500"`
}

// TraspasoResponse resultado de un traspaso: un lote con sus filas pareadas.
type TraspasoResponse struct {
	LoteID      string               `json:"loteId"`
	Estado      string               `json:"estado"`
	Movimientos []MovimientoResponse `json:"movimientos"`
}

// TraspasoListItem lote de traspaso en listados.
type TraspasoListItem struct {
	LoteID        string    `json:"loteId"`
	SalidaID      string    `json:"salidaId"`
	EntradaID     string    `json:"entradaId"`
	ProductoID    string    `json:"productoId"`
	SedeOrigenID  string    `json:"sedeOrigenId"`
	SedeDestinoID string    `json:"sedeDestinoId"`
	Cantidad      int       `json:"cantidad"`
	Estado        string    `json:"estado"`
	Motivo        string    `json:"motivo"`
	UsuarioID     string    `json:"usuarioId"`
	Fecha         time.Time `json:"fecha"`
}

// TraspasoListResponse lista paginada de traspasos.
type TraspasoListResponse struct {
	Items []TraspasoListItem `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockBajoResponse producto por debajo de su mínimo en una sede.
type StockBajoResponse struct {
	ProductoID       string `json:"productoId"`
	Codigo           string `json:"codigo"`
	Nombre           string `json:"nombre"`
	Stock            int    `json:"stock"`
	StockMinimo      int    `json:"stockMinimo"`
	Deficit          int    `json:"deficit"`
	CantidadSugerida int    `json:"cantidadSugerida"` // llevar a 1.5 x mínimo
	Prioridad        int    `json:"prioridad"`        // 1 = más urgente
}
