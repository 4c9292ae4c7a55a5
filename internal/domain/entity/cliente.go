package entity

import "time"

// Cliente cliente de la tienda o dueño del equipo en reparación.
type Cliente struct {
	ID        string
	Nombre    string
	Documento string // DNI o RUC, único si viene informado
	Telefono  string
	Email     string
	Direccion string
	CreatedAt time.Time
	UpdatedAt time.Time
}
