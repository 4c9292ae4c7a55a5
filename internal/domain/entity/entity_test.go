package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTipoMovimiento_TablaDeDireccion(t *testing.T) {
	aumentan := []TipoMovimiento{MovIngreso, MovAjustePositivo, MovTraspasoEntrada,
		MovDevolucion, MovEntradaDevolucion, MovAjusteDevolucion}
	disminuyen := []TipoMovimiento{MovAjusteNegativo, MovMerma, MovTraspasoSalida,
		MovSalidaReparacion, MovSalidaVenta, MovUsoServicio}

	for _, tipo := range aumentan {
		assert.True(t, tipo.Aumenta(), tipo)
		assert.Equal(t, MovAjusteNegativo, tipo.TipoReverso(), tipo)
	}
	for _, tipo := range disminuyen {
		assert.True(t, tipo.Disminuye(), tipo)
		assert.Equal(t, MovDevolucion, tipo.TipoReverso(), tipo)
	}
	assert.Len(t, direccionPorTipo, len(aumentan)+len(disminuyen))
	assert.False(t, TipoMovimiento("OTRO").Valido())
	assert.Equal(t, Direccion(0), TipoMovimiento("OTRO").Direccion())
}

func TestTipoMovimiento_SoloAlgunosSonManuales(t *testing.T) {
	assert.True(t, MovIngreso.EsManual())
	assert.True(t, MovMerma.EsManual())
	assert.False(t, MovTraspasoSalida.EsManual())
	assert.False(t, MovSalidaVenta.EsManual())
	assert.False(t, MovAjusteDevolucion.EsManual())
}

func TestEstadoServicio_Transiciones(t *testing.T) {
	assert.True(t, EstadoRecepcionado.PuedeTransicionarA(EstadoEnReparacion))
	assert.True(t, EstadoRecepcionado.PuedeTransicionarA(EstadoReparado))
	assert.True(t, EstadoEnDomicilio.PuedeTransicionarA(EstadoReparado))
	assert.True(t, EstadoReparado.PuedeTransicionarA(EstadoEntregado))
	assert.True(t, EstadoReparado.PuedeTransicionarA(EstadoCancelado))

	assert.False(t, EstadoRecepcionado.PuedeTransicionarA(EstadoEntregado))
	assert.False(t, EstadoEnDomicilio.PuedeTransicionarA(EstadoEnReparacion))
}

func TestEstadoServicio_TerminalesNoTransicionan(t *testing.T) {
	todos := []EstadoServicio{EstadoRecepcionado, EstadoEnDomicilio, EstadoEnReparacion,
		EstadoReparado, EstadoEntregado, EstadoCancelado}
	for _, terminal := range []EstadoServicio{EstadoEntregado, EstadoCancelado} {
		assert.True(t, terminal.EsTerminal())
		for _, destino := range todos {
			assert.False(t, terminal.PuedeTransicionarA(destino), "%s -> %s", terminal, destino)
		}
	}
}

func TestTipoServicio_EstadoInicial(t *testing.T) {
	e, ok := TipoServicioTaller.EstadoInicial()
	assert.True(t, ok)
	assert.Equal(t, EstadoRecepcionado, e)

	e, _ = TipoServicioDomicilio.EstadoInicial()
	assert.Equal(t, EstadoEnDomicilio, e)

	e, _ = TipoServicioExpress.EstadoInicial()
	assert.Equal(t, EstadoReparado, e)

	_, ok = TipoServicio("VIRTUAL").EstadoInicial()
	assert.False(t, ok)
}

func TestActor_PuedeOperarSede(t *testing.T) {
	admin := Actor{UserID: "u1", Role: RoleAdmin}
	vendedor := Actor{UserID: "u2", Role: RoleVendedor, SedeID: "s1"}

	assert.True(t, admin.PuedeOperarSede("s9"))
	assert.True(t, vendedor.PuedeOperarSede("s1"))
	assert.False(t, vendedor.PuedeOperarSede("s2"))
	assert.False(t, Actor{Role: RoleTecnico}.PuedeOperarSede(""))
}
