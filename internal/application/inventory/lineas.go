package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

// Linea producto resuelto con cantidad y precio unitario.
type Linea struct {
	Producto        *entity.Producto
	Cantidad        int
	Precio          decimal.Decimal
	PrecioExplicito bool
}

// Subtotal precio por cantidad.
func (l Linea) Subtotal() decimal.Decimal {
	return l.Precio.Mul(decimal.NewFromInt(int64(l.Cantidad)))
}

// ResolverLineas valida cantidades y precios, carga cada producto y fusiona líneas repetidas del
// mismo producto (suma cantidades, conserva el primer precio). Mantiene el orden de aparición.
func ResolverLineas(ctx context.Context, productRepo repository.ProductoRepository, in []dto.LineaProductoRequest) ([]Linea, error) {
	out := make([]Linea, 0, len(in))
	idx := make(map[string]int, len(in))
	for _, l := range in {
		if l.ProductoID == "" || l.Cantidad <= 0 {
			return nil, domain.Invalid("cada producto requiere productoId y cantidad mayor a cero")
		}
		if l.PrecioUnit != nil && l.PrecioUnit.IsNegative() {
			return nil, domain.Invalid("precioUnit no puede ser negativo")
		}
		if i, ok := idx[l.ProductoID]; ok {
			out[i].Cantidad += l.Cantidad
			continue
		}
		p, err := productRepo.GetByID(ctx, l.ProductoID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.NotFound("producto " + l.ProductoID)
		}
		linea := Linea{Producto: p, Cantidad: l.Cantidad, Precio: p.PrecioVenta}
		if l.PrecioUnit != nil {
			linea.Precio = *l.PrecioUnit
			linea.PrecioExplicito = true
		}
		idx[l.ProductoID] = len(out)
		out = append(out, linea)
	}
	return out, nil
}

// Requerimientos convierte líneas en requerimientos de stock sobre una sede.
func Requerimientos(lineas []Linea, sedeID string) []Requerimiento {
	reqs := make([]Requerimiento, 0, len(lineas))
	for _, l := range lineas {
		reqs = append(reqs, Requerimiento{ProductoID: l.Producto.ID, SedeID: sedeID, Cantidad: l.Cantidad})
	}
	return reqs
}

// TotalLineas suma de subtotales.
func TotalLineas(lineas []Linea) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lineas {
		total = total.Add(l.Subtotal())
	}
	return total
}
