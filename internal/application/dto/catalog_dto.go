package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSedeRequest entrada para crear una sede.
type CreateSedeRequest struct {
	Nombre    string `json:"nombre" validate:"required,min=1,max=120"`
	Direccion string `json:"direccion" validate:"max=250"`
}

// UpdateSedeRequest entrada para actualizar una sede.
type UpdateSedeRequest struct {
	Nombre    *string `json:"nombre" validate:"omitempty,min=1,max=120"`
	Direccion *string `json:"direccion" validate:"omitempty,max=250"`
	Activa    *bool   `json:"activa"`
}

// SedeResponse salida de una sede.
type SedeResponse struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	Direccion string    `json:"direccion"`
	Activa    bool      `json:"activa"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SedeListResponse lista de sedes.
type SedeListResponse struct {
	Items []SedeResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CreateProductoRequest entrada para crear un producto. PrecioCompra se calcula vía ingresos.
type CreateProductoRequest struct {
	Codigo      string          `json:"codigo" validate:"required,min=1,max=60"`
	Nombre      string          `json:"nombre" validate:"required,min=1,max=200"`
	Descripcion string          `json:"descripcion"`
	PrecioVenta decimal.Decimal `json:"precioVenta"`
	StockMinimo int             `json:"stockMinimo" validate:"min=0"`
}

// UpdateProductoRequest entrada para actualizar un producto (sin stock ni costo).
type UpdateProductoRequest struct {
	Nombre      *string          `json:"nombre" validate:"omitempty,min=1,max=200"`
	Descripcion *string          `json:"descripcion"`
	PrecioVenta *decimal.Decimal `json:"precioVenta"`
	StockMinimo *int             `json:"stockMinimo" validate:"omitempty,min=0"`
	Activo      *bool            `json:"activo"`
}

// ProductoResponse salida de un producto.
type ProductoResponse struct {
	ID           string          `json:"id"`
	Codigo       string          `json:"codigo"`
	Nombre       string          `json:"nombre"`
	Descripcion  string          `json:"descripcion"`
	PrecioVenta  decimal.Decimal `json:"precioVenta"`
	PrecioCompra decimal.Decimal `json:"precioCompra"`
	StockMinimo  int             `json:"stockMinimo"`
	Activo       bool            `json:"activo"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ProductoListResponse lista paginada de productos.
type ProductoListResponse struct {
	Items []ProductoResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateClienteRequest entrada para crear un cliente.
type CreateClienteRequest struct {
	Nombre    string `json:"nombre" validate:"required,min=1,max=200"`
	Documento string `json:"documento" validate:"omitempty,min=8,max=11,numeric"`
	Telefono  string `json:"telefono" validate:"max=30"`
	Email     string `json:"email" validate:"omitempty,email"`
	Direccion string `json:"direccion" validate:"max=250"`
}

// ClienteResponse salida de un cliente.
type ClienteResponse struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	Documento string    `json:"documento"`
	Telefono  string    `json:"telefono"`
	Email     string    `json:"email"`
	Direccion string    `json:"direccion"`
	CreatedAt time.Time `json:"createdAt"`
}

// ClienteListResponse lista de clientes.
type ClienteListResponse struct {
	Items []ClienteResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
