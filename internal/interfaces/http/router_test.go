package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/application/inventory"
	"github.com/jhoicas/Servitec-api/internal/application/servicio"
	"github.com/jhoicas/Servitec-api/internal/application/usecase"
	"github.com/jhoicas/Servitec-api/internal/application/venta"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Servitec-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Servitec-api/pkg/jwt"
	"github.com/jhoicas/Servitec-api/pkg/logger"
)

// newTestServer arma la API completa sobre el almacenamiento en memoria con dos sedes y dos productos.
func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.New()
	r := store.Repos()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, r.Sedes.Create(ctx, &entity.Sede{ID: "sede-a", Nombre: "Centro", Activa: true, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, r.Sedes.Create(ctx, &entity.Sede{ID: "sede-b", Nombre: "Norte", Activa: true, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, r.Productos.Create(ctx, &entity.Producto{ID: "p-cable", Codigo: "HDMI-2", Nombre: "Cable HDMI", PrecioVenta: decimal.NewFromInt(15), StockMinimo: 3, Activo: true}))
	require.NoError(t, r.Productos.Create(ctx, &entity.Producto{ID: "p-pantalla", Codigo: "LCD-A10", Nombre: "Pantalla A10", PrecioVenta: decimal.NewFromInt(120), Activo: true}))

	ledger := inventory.NewLedger()
	log := logger.Nop()
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Use(requestid.New())
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		SedeUC:           usecase.NewSedeUseCase(r.Sedes),
		ProductoUC:       usecase.NewProductoUseCase(r.Productos),
		ClienteUC:        usecase.NewClienteUseCase(r.Clientes),
		RegisterMovement: inventory.NewRegisterMovementUseCase(store, r.Sedes, r.Productos, r.Movimientos, ledger),
		Transfer:         inventory.NewTransferUseCase(store, r.Sedes, r.Productos, r.Movimientos, ledger),
		Kardex:           inventory.NewKardexUseCase(r.Productos, r.Sedes, r.Stock, r.Movimientos),
		Replenishment:    inventory.NewReplenishmentUseCase(r.Sedes, r.Stock),
		Servicios:        servicio.NewUseCase(store, r.Sedes, r.Productos, r.Servicios, ledger),
		Ventas:           venta.NewUseCase(store, r.Sedes, r.Productos, r.Clientes, r.Ventas, ledger, 5*time.Second),
		Idempotency:      memory.NewIdempotencyStore(),
		IdempotencyTTL:   time.Hour,
		Logger:           log,
		JWTSecret:        testJWTSecret,
		AppName:          "servitec-test",
	})
	return app
}

func bearer(t *testing.T, role, sedeID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, "u-"+role, sedeID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body any, headers ...string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func ingreso(t *testing.T, app *fiber.App, productoID string, cantidad int) {
	t.Helper()
	resp := call(t, app, fiber.MethodPost, "/api/movimientos", bearer(t, entity.RoleBodeguero, "sede-a"), dto.RegisterMovimientoRequest{
		SedeID: "sede-a",
		Tipo:   string(entity.MovIngreso),
		Lineas: []dto.MovimientoLineaRequest{{ProductoID: productoID, Cantidad: cantidad}},
		Motivo: "Compra proveedor",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestHealth(t *testing.T) {
	app := newTestServer(t)
	resp := call(t, app, fiber.MethodGet, "/health", "", nil)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestRutaInexistente_Retorna404JSON(t *testing.T) {
	app := newTestServer(t)
	resp := call(t, app, fiber.MethodGet, "/nada", "", nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ROUTE_NOT_FOUND", body.Code)
}

func TestSedes_CrearSoloAdmin(t *testing.T) {
	app := newTestServer(t)
	in := dto.CreateSedeRequest{Nombre: "Sur", Direccion: "Av. Sur 100"}

	resp := call(t, app, fiber.MethodPost, "/api/sedes", bearer(t, entity.RoleVendedor, "sede-a"), in)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, fiber.MethodPost, "/api/sedes", bearer(t, entity.RoleAdmin, ""), in)
	created := decode[dto.SedeResponse](t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Sur", created.Nombre)

	resp = call(t, app, fiber.MethodGet, "/api/sedes?limit=2", bearer(t, entity.RoleVendedor, "sede-a"), nil)
	list := decode[dto.SedeListResponse](t, resp)
	assert.Equal(t, 3, list.Page.Total)
	assert.Len(t, list.Items, 2)

	resp = call(t, app, fiber.MethodGet, "/api/sedes/no-existe", bearer(t, entity.RoleAdmin, ""), nil)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errBody.Code)
}

func TestProductos_ValidacionYDuplicado(t *testing.T) {
	app := newTestServer(t)
	admin := bearer(t, entity.RoleAdmin, "")

	resp := call(t, app, fiber.MethodPost, "/api/productos", admin, map[string]any{"nombre": "Sin código"})
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Contains(t, errBody.Message, "codigo es requerido")

	resp = call(t, app, fiber.MethodPost, "/api/productos", admin, dto.CreateProductoRequest{Codigo: "HDMI-2", Nombre: "Otro cable"})
	errBody = decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", errBody.Code)

	resp = call(t, app, fiber.MethodPost, "/api/productos", bearer(t, entity.RoleTecnico, "sede-a"), dto.CreateProductoRequest{Codigo: "X-1", Nombre: "X"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestMovimientos_StockInsuficienteResponde400(t *testing.T) {
	app := newTestServer(t)
	ingreso(t, app, "p-cable", 5)

	resp := call(t, app, fiber.MethodPost, "/api/movimientos", bearer(t, entity.RoleBodeguero, "sede-a"), dto.RegisterMovimientoRequest{
		SedeID: "sede-a",
		Tipo:   string(entity.MovMerma),
		Lineas: []dto.MovimientoLineaRequest{{ProductoID: "p-cable", Cantidad: 8}},
		Motivo: "Rotura",
	})
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)
	assert.Contains(t, errBody.Message, "Cable HDMI")
	assert.EqualValues(t, 5, errBody.Details["disponible"])

	resp = call(t, app, fiber.MethodPost, "/api/movimientos", bearer(t, entity.RoleBodeguero, "sede-a"), dto.RegisterMovimientoRequest{
		SedeID: "sede-b",
		Tipo:   string(entity.MovIngreso),
		Lineas: []dto.MovimientoLineaRequest{{ProductoID: "p-cable", Cantidad: 1}},
		Motivo: "Compra",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestKardex_EstadisticasYFechas(t *testing.T) {
	app := newTestServer(t)
	ingreso(t, app, "p-cable", 10)
	admin := bearer(t, entity.RoleAdmin, "")

	resp := call(t, app, fiber.MethodPost, "/api/traspasos", admin, dto.CreateTraspasoRequest{
		Productos:     []dto.TraspasoProductoRequest{{ProductoID: "p-cable", Cantidad: 4}},
		SedeOrigenID:  "sede-a",
		SedeDestinoID: "sede-b",
		Motivo:        "Reposición",
	})
	tr := decode[dto.TraspasoResponse](t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Len(t, tr.Movimientos, 2)

	resp = call(t, app, fiber.MethodGet, "/api/productos/p-cable/kardex?orden=asc", admin, nil)
	k := decode[dto.KardexResponse](t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 10, k.StockActual)
	assert.Equal(t, 10, k.Estadisticas.Ingresos)
	assert.Equal(t, 4, k.Estadisticas.TraspasosSalida)
	assert.Equal(t, 4, k.Estadisticas.TraspasosEntrada)
	require.Len(t, k.Movimientos, 3)

	resp = call(t, app, fiber.MethodGet, "/api/productos/p-cable/stock", admin, nil)
	stock := decode[[]dto.StockSedeResponse](t, resp)
	assert.Len(t, stock, 2)

	resp = call(t, app, fiber.MethodGet, "/api/productos/p-cable/kardex?fechaDesde=ayer", admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, fiber.MethodGet, "/api/productos/p-cable/kardex?fechaDesde=2026-02-01&fechaHasta=2026-01-01", admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestTraspasos_MismaSede(t *testing.T) {
	app := newTestServer(t)
	resp := call(t, app, fiber.MethodPost, "/api/traspasos", bearer(t, entity.RoleAdmin, ""), dto.CreateTraspasoRequest{
		Productos:     []dto.TraspasoProductoRequest{{ProductoID: "p-cable", Cantidad: 1}},
		SedeOrigenID:  "sede-a",
		SedeDestinoID: "sede-a",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestStockBajo(t *testing.T) {
	app := newTestServer(t)
	ingreso(t, app, "p-cable", 1)
	resp := call(t, app, fiber.MethodGet, "/api/sedes/sede-a/stock-bajo", bearer(t, entity.RoleBodeguero, "sede-a"), nil)
	out := decode[[]dto.StockBajoResponse](t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, out)
	assert.Equal(t, "p-cable", out[0].ProductoID)
	assert.Equal(t, 2, out[0].Deficit)
}

func TestVentas_IdempotenciaYStock(t *testing.T) {
	app := newTestServer(t)
	ingreso(t, app, "p-cable", 5)
	vend := bearer(t, entity.RoleVendedor, "sede-a")
	in := dto.CreateVentaRequest{
		SedeID: "sede-a",
		Items:  []dto.VentaItemRequest{{ProductoID: "p-cable", Cantidad: 2}},
		Pagos:  []dto.PagoRequest{{Metodo: entity.MetodoEfectivo, Monto: decimal.NewFromInt(50)}},
	}

	resp := call(t, app, fiber.MethodPost, "/api/ventas", vend, in, apphttp.HeaderIdempotencyKey, "venta-123")
	first := decode[dto.VentaResponse](t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, first.Vuelto.Equal(decimal.NewFromInt(20)))

	resp = call(t, app, fiber.MethodPost, "/api/ventas", vend, in, apphttp.HeaderIdempotencyKey, "venta-123")
	assert.Equal(t, "true", resp.Header.Get(apphttp.HeaderIdempotencyReplayed))
	second := decode[dto.VentaResponse](t, resp)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, first.ID, second.ID)

	resp = call(t, app, fiber.MethodGet, "/api/productos/p-cable/stock", vend, nil)
	stock := decode[[]dto.StockSedeResponse](t, resp)
	require.Len(t, stock, 1)
	assert.Equal(t, 3, stock[0].Stock)

	in.Items[0].Cantidad = 9
	in.Pagos[0].Monto = decimal.NewFromInt(200)
	resp = call(t, app, fiber.MethodPost, "/api/ventas", vend, in)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)

	resp = call(t, app, fiber.MethodPost, "/api/ventas", bearer(t, entity.RoleTecnico, "sede-a"), in)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, fiber.MethodPost, "/api/ventas/"+first.ID+"/anular", vend, dto.AnularVentaRequest{Motivo: "Devolución"})
	anulada := decode[dto.VentaResponse](t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.VentaAnulada, anulada.Estado)
}

func TestServicios_FlujoYPermisos(t *testing.T) {
	app := newTestServer(t)
	tec := bearer(t, entity.RoleTecnico, "sede-a")

	resp := call(t, app, fiber.MethodPost, "/api/servicios", tec, dto.CreateServicioRequest{
		SedeID:       "sede-a",
		Cliente:      &dto.CreateClienteRequest{Nombre: "Ana Pérez", Documento: "45678912"},
		TipoServicio: string(entity.TipoServicioTaller),
		Equipos:      []dto.EquipoRequest{{Tipo: "Laptop", Falla: "No enciende", Costo: decimal.NewFromInt(80)}},
	})
	st := decode[dto.ServicioResponse](t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, string(entity.EstadoRecepcionado), st.Estado)

	resp = call(t, app, fiber.MethodPost, "/api/servicios/"+st.ID+"/iniciar-reparacion", tec, nil)
	st = decode[dto.ServicioResponse](t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(entity.EstadoEnReparacion), st.Estado)

	resp = call(t, app, fiber.MethodPost, "/api/servicios/"+st.ID+"/iniciar-reparacion", tec, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, fiber.MethodPost, "/api/servicios/"+st.ID+"/marcar-reparado", tec, dto.MarcarReparadoRequest{
		Diagnostico:     "Pantalla rota",
		Solucion:        "Cambio de pantalla",
		RepuestosUsados: []dto.RepuestoRequest{{ProductoID: "p-pantalla", Cantidad: 1}},
	})
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)
	assert.Contains(t, errBody.Message, "Pantalla A10")

	resp = call(t, app, fiber.MethodPost, "/api/servicios/"+st.ID+"/marcar-reparado", tec, map[string]any{"diagnostico": "x"})
	errBody = decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, errBody.Message, "solucion es requerido")

	resp = call(t, app, fiber.MethodPost, "/api/servicios/"+st.ID+"/anular", tec, dto.AnularServicioRequest{Motivo: "Cliente desiste"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, fiber.MethodPost, "/api/servicios/"+st.ID+"/anular", bearer(t, entity.RoleAdmin, ""), dto.AnularServicioRequest{Motivo: "Cliente desiste"})
	st = decode[dto.ServicioResponse](t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(entity.EstadoCancelado), st.Estado)

	resp = call(t, app, fiber.MethodGet, "/api/servicios/"+st.ID, bearer(t, entity.RoleVendedor, "sede-b"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, fiber.MethodGet, "/api/servicios?estado=CANCELADO", tec, nil)
	list := decode[dto.ServicioListResponse](t, resp)
	assert.Equal(t, 1, list.Page.Total)
}
