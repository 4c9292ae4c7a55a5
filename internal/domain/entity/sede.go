package entity

import "time"

// Sede representa una sucursal de la tienda. El stock se particiona por sede.
type Sede struct {
	ID        string
	Nombre    string
	Direccion string
	Activa    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
