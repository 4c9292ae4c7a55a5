package inventory

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
)

func TestAplicarMovimiento_DireccionPorTipo(t *testing.T) {
	casos := []struct {
		tipo     entity.TipoMovimiento
		antes    int
		cantidad int
		despues  int
	}{
		{entity.MovIngreso, 0, 10, 10},
		{entity.MovAjustePositivo, 3, 2, 5},
		{entity.MovTraspasoEntrada, 1, 4, 5},
		{entity.MovDevolucion, 0, 1, 1},
		{entity.MovEntradaDevolucion, 2, 1, 3},
		{entity.MovAjusteDevolucion, 2, 2, 4},
		{entity.MovAjusteNegativo, 5, 2, 3},
		{entity.MovMerma, 5, 5, 0},
		{entity.MovTraspasoSalida, 10, 4, 6},
		{entity.MovSalidaReparacion, 3, 1, 2},
		{entity.MovSalidaVenta, 3, 3, 0},
		{entity.MovUsoServicio, 7, 2, 5},
	}
	for _, c := range casos {
		t.Run(string(c.tipo), func(t *testing.T) {
			got, err := AplicarMovimiento(c.antes, c.tipo, c.cantidad)
			require.NoError(t, err)
			assert.Equal(t, c.despues, got)
		})
	}
}

func TestAplicarMovimiento_NoRecortaANegativo(t *testing.T) {
	_, err := AplicarMovimiento(3, entity.MovSalidaVenta, 5)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
}

func TestAplicarMovimiento_EntradaInvalida(t *testing.T) {
	_, err := AplicarMovimiento(3, entity.MovIngreso, 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = AplicarMovimiento(3, entity.TipoMovimiento("REGALO"), 1)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestResumir_AgrupaCategorias(t *testing.T) {
	r := Resumir([]TotalTipo{
		{Tipo: entity.MovIngreso, Cantidad: 20, Filas: 2},
		{Tipo: entity.MovSalidaVenta, Cantidad: 5, Filas: 3},
		{Tipo: entity.MovSalidaReparacion, Cantidad: 2, Filas: 1},
		{Tipo: entity.MovDevolucion, Cantidad: 1, Filas: 1},
		{Tipo: entity.MovAjusteDevolucion, Cantidad: 2, Filas: 1},
		{Tipo: entity.MovTraspasoSalida, Cantidad: 4, Filas: 1},
		{Tipo: entity.MovMerma, Cantidad: 1, Filas: 1},
	})

	assert.Equal(t, 20, r.Ingresos)
	assert.Equal(t, 7, r.Salidas)
	assert.Equal(t, 3, r.Devoluciones)
	assert.Equal(t, 4, r.TraspasosSalida)
	assert.Equal(t, 1, r.Mermas)
	assert.Equal(t, 23, r.TotalEntradas)
	assert.Equal(t, 12, r.TotalSalidas)
	assert.Equal(t, 11, r.Neto())
	assert.Equal(t, 10, r.MovimientosTotal)
}

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 u a 5.00 + 10 u a 7.00 = 6.00
	got := CostCalculator(10, decimal.NewFromInt(5), 10, decimal.NewFromInt(7))
	assert.True(t, got.Equal(decimal.NewFromInt(6)), "got %s", got)

	assert.True(t, CostCalculator(0, decimal.Zero, 0, decimal.NewFromInt(3)).IsZero())
}
