package inventory

import (
	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
)

// AplicarMovimiento calcula el stock resultante de aplicar un movimiento.
// No recorta: un resultado negativo devuelve ErrInsufficientStock.
func AplicarMovimiento(stockAntes int, tipo entity.TipoMovimiento, cantidad int) (int, error) {
	if !tipo.Valido() {
		return 0, domain.Invalid("tipo de movimiento inválido: %s", tipo)
	}
	if cantidad <= 0 {
		return 0, domain.Invalid("la cantidad debe ser mayor a cero")
	}
	despues := stockAntes + int(tipo.Direccion())*cantidad
	if despues < 0 {
		return 0, domain.ErrInsufficientStock
	}
	return despues, nil
}

// ResumenKardex totales por categoría sobre filas no anuladas.
type ResumenKardex struct {
	Ingresos         int
	Salidas          int
	AjustesPositivos int
	AjustesNegativos int
	TraspasosEntrada int
	TraspasosSalida  int
	UsoServicio      int
	Devoluciones     int
	Mermas           int
	TotalEntradas    int
	TotalSalidas     int
	MovimientosTotal int
}

// TotalTipo suma de cantidades y conteo de filas de un tipo.
type TotalTipo struct {
	Tipo     entity.TipoMovimiento
	Cantidad int
	Filas    int
}

// Resumir agrupa los totales por tipo en las categorías del kardex.
func Resumir(totales []TotalTipo) ResumenKardex {
	var r ResumenKardex
	for _, t := range totales {
		switch t.Tipo {
		case entity.MovIngreso:
			r.Ingresos += t.Cantidad
		case entity.MovSalidaVenta, entity.MovSalidaReparacion:
			r.Salidas += t.Cantidad
		case entity.MovAjustePositivo:
			r.AjustesPositivos += t.Cantidad
		case entity.MovAjusteNegativo:
			r.AjustesNegativos += t.Cantidad
		case entity.MovTraspasoEntrada:
			r.TraspasosEntrada += t.Cantidad
		case entity.MovTraspasoSalida:
			r.TraspasosSalida += t.Cantidad
		case entity.MovUsoServicio:
			r.UsoServicio += t.Cantidad
		case entity.MovDevolucion, entity.MovEntradaDevolucion, entity.MovAjusteDevolucion:
			r.Devoluciones += t.Cantidad
		case entity.MovMerma:
			r.Mermas += t.Cantidad
		default:
			continue
		}
		if t.Tipo.Aumenta() {
			r.TotalEntradas += t.Cantidad
		} else {
			r.TotalSalidas += t.Cantidad
		}
		r.MovimientosTotal += t.Filas
	}
	return r
}

// Neto entradas menos salidas; igual al stock actual si no hubo saldo inicial.
func (r ResumenKardex) Neto() int {
	return r.TotalEntradas - r.TotalSalidas
}
