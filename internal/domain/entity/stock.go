package entity

import "time"

// ProductoSede saldo de un producto en una sede. Se crea en 0 la primera vez que un
// movimiento referencia el par y nunca se elimina.
type ProductoSede struct {
	ProductoID string
	SedeID     string
	Stock      int
	UpdatedAt  time.Time
}

// StockBajo producto de una sede por debajo de su stock mínimo.
type StockBajo struct {
	ProductoID  string
	Codigo      string
	Nombre      string
	Stock       int
	StockMinimo int
}
