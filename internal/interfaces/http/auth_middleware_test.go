package http_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Servitec-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Servitec-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "servitec-test"
	testExpMin    = 60
)

type actorEnSede struct {
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	SedeID      string `json:"sedeId"`
	PuedeOperar bool   `json:"puedeOperar"`
}

// sedeApp monta GET /sedes/:id con auth, los roles indicados y un handler que expone el actor
// y si puede operar la sede del path.
func sedeApp(roles ...string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Get("/sedes/:id",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(roles...),
		func(c *fiber.Ctx) error {
			actor := apphttp.GetActor(c)
			return c.JSON(actorEnSede{
				UserID:      actor.UserID,
				Role:        actor.Role,
				SedeID:      actor.SedeID,
				PuedeOperar: actor.PuedeOperarSede(c.Params("id")),
			})
		},
	)
	return app
}

func token(t *testing.T, userID, sedeID, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, sedeID, role, testIssuer, expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestGetActor_SedeDelToken(t *testing.T) {
	todos := []string{entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor, entity.RoleTecnico}
	tests := []struct {
		name        string
		role        string
		sedeToken   string
		sedePath    string
		puedeOperar bool
	}{
		{"tecnico en su sede", entity.RoleTecnico, "sede-b", "sede-b", true},
		{"tecnico en otra sede", entity.RoleTecnico, "sede-b", "sede-a", false},
		{"vendedor en otra sede", entity.RoleVendedor, "sede-a", "sede-b", false},
		{"bodeguero sin sede", entity.RoleBodeguero, "", "sede-a", false},
		{"admin sin sede opera cualquiera", entity.RoleAdmin, "", "sede-b", true},
	}
	app := sedeApp(todos...)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, app, fiber.MethodGet, "/sedes/"+tt.sedePath, token(t, "u-1", tt.sedeToken, tt.role, testExpMin), nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			got := decode[actorEnSede](t, resp)
			assert.Equal(t, actorEnSede{UserID: "u-1", Role: tt.role, SedeID: tt.sedeToken, PuedeOperar: tt.puedeOperar}, got)
		})
	}
}

func TestRequireRole_PorRol(t *testing.T) {
	tests := []struct {
		name    string
		roles   []string
		role    string
		status  int
		errCode string
	}{
		{"tecnico en ruta de taller", []string{entity.RoleAdmin, entity.RoleTecnico}, entity.RoleTecnico, http.StatusOK, ""},
		{"tecnico fuera de almacén", []string{entity.RoleAdmin, entity.RoleBodeguero}, entity.RoleTecnico, http.StatusForbidden, "FORBIDDEN"},
		{"vendedor en mostrador", []string{entity.RoleAdmin, entity.RoleVendedor}, entity.RoleVendedor, http.StatusOK, ""},
		{"bodeguero en mostrador", []string{entity.RoleAdmin, entity.RoleVendedor}, entity.RoleBodeguero, http.StatusForbidden, "FORBIDDEN"},
		{"rol desconocido", []string{entity.RoleAdmin}, "supervisor", http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", []string{entity.RoleAdmin}, "", http.StatusUnauthorized, "MISSING_ROLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, sedeApp(tt.roles...), fiber.MethodGet, "/sedes/sede-a", token(t, "u-1", "sede-a", tt.role, testExpMin), nil)
			require.Equal(t, tt.status, resp.StatusCode)
			if tt.errCode == "" {
				resp.Body.Close()
				return
			}
			assert.Equal(t, tt.errCode, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

func TestAuthMiddleware_TokenRechazado(t *testing.T) {
	otroSecret, err := pkgjwt.Generate("otro-secret", "u-1", "sede-a", entity.RoleTecnico, testIssuer, testExpMin)
	require.NoError(t, err)

	tests := []struct {
		name    string
		auth    string
		errCode string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Token abc", "INVALID_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"expirado", token(t, "u-1", "sede-a", entity.RoleTecnico, -1), "INVALID_TOKEN"},
		{"firmado con otro secret", "Bearer " + otroSecret, "INVALID_TOKEN"},
	}
	app := sedeApp(entity.RoleTecnico)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, app, fiber.MethodGet, "/sedes/sede-a", tt.auth, nil)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tt.errCode, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}
