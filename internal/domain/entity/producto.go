package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto representa un artículo vendible o repuesto.
// PrecioCompra es costo promedio ponderado recalculado en cada INGRESO con costo; el stock vive en ProductoSede.
type Producto struct {
	ID           string
	Codigo       string // único
	Nombre       string
	Descripcion  string
	PrecioVenta  decimal.Decimal
	PrecioCompra decimal.Decimal
	StockMinimo  int
	Activo       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
