// token emite un JWT de desarrollo firmado con JWT_SECRET. La API no gestiona usuarios ni login;
// los tokens los emite un proveedor externo y este comando lo reemplaza en local.
//
// Uso: go run ./cmd/token -role bodeguero -sede <sedeId> [-user <id>] [-minutes 60]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/pkg/config"
	"github.com/jhoicas/Servitec-api/pkg/jwt"
)

func main() {
	role := flag.String("role", entity.RoleAdmin, "admin | bodeguero | vendedor | tecnico")
	sede := flag.String("sede", "", "sede asignada (requerida salvo admin)")
	user := flag.String("user", "", "id de usuario (por defecto uno aleatorio)")
	minutes := flag.Int("minutes", 0, "vigencia en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	switch *role {
	case entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor, entity.RoleTecnico:
	default:
		fmt.Fprintf(os.Stderr, "rol inválido: %s\n", *role)
		os.Exit(2)
	}
	if *role != entity.RoleAdmin && *sede == "" {
		fmt.Fprintln(os.Stderr, "-sede es requerido para roles distintos de admin")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET no configurado")
		os.Exit(1)
	}
	if *user == "" {
		*user = uuid.New().String()
	}
	exp := cfg.JWT.Expiration
	if *minutes > 0 {
		exp = *minutes
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, *user, *sede, *role, cfg.JWT.Issuer, exp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
