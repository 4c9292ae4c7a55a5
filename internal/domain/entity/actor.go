package entity

// Roles válidos.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
	RoleTecnico   = "tecnico"
)

// Actor quién ejecuta una operación. Se pasa explícitamente a cada caso de uso.
type Actor struct {
	UserID string
	Role   string
	SedeID string
}

// EsAdmin indica si el actor es administrador.
func (a Actor) EsAdmin() bool { return a.Role == RoleAdmin }

// PuedeOperarSede admin opera cualquier sede; el resto solo la suya.
func (a Actor) PuedeOperarSede(sedeID string) bool {
	return a.EsAdmin() || (a.SedeID != "" && a.SedeID == sedeID)
}
