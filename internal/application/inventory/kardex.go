package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Servitec-api/internal/domain/inventory"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

// KardexUseCase reconstruye el kardex de un producto y consulta stock por sede.
type KardexUseCase struct {
	productRepo repository.ProductoRepository
	sedeRepo    repository.SedeRepository
	stockRepo   repository.StockRepository
	movRepo     repository.MovimientoRepository
}

// NewKardexUseCase construye el caso de uso.
func NewKardexUseCase(
	productRepo repository.ProductoRepository,
	sedeRepo repository.SedeRepository,
	stockRepo repository.StockRepository,
	movRepo repository.MovimientoRepository,
) *KardexUseCase {
	return &KardexUseCase{productRepo: productRepo, sedeRepo: sedeRepo, stockRepo: stockRepo, movRepo: movRepo}
}

// Kardex devuelve las filas filtradas (orden desc por defecto, asc para saldo corrido), las
// estadísticas por categoría sobre todas las filas no anuladas del producto (acotadas a la sede
// si se indica) y el stock actual total y por sede.
func (uc *KardexUseCase) Kardex(ctx context.Context, productoID string, q dto.KardexQuery) (*dto.KardexResponse, error) {
	q.DefaultPage()
	producto, err := uc.productRepo.GetByID(ctx, productoID)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.NotFound("producto")
	}
	if q.Tipo != "" && !entity.TipoMovimiento(q.Tipo).Valido() {
		return nil, domain.Invalid("tipo de movimiento inválido: %s", q.Tipo)
	}
	if q.FechaDesde != nil && q.FechaHasta != nil && q.FechaHasta.Before(*q.FechaDesde) {
		return nil, domain.Invalid("fechaHasta no puede ser anterior a fechaDesde")
	}

	rows, total, err := uc.movRepo.List(ctx, entity.MovimientoFilter{
		ProductoID: productoID,
		SedeID:     q.SedeID,
		Tipo:       entity.TipoMovimiento(q.Tipo),
		FechaDesde: q.FechaDesde,
		FechaHasta: q.FechaHasta,
		Ascendente: strings.EqualFold(q.Orden, "asc"),
		Limit:      q.Limit,
		Offset:     q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	filas := make([]dto.KardexFila, 0, len(rows))
	for _, m := range rows {
		filas = append(filas, dto.KardexFila{
			MovimientoResponse: toMovimientoResponse(m),
			Entradas:           m.Entradas(),
			Salidas:            m.Salidas(),
			Saldo:              m.StockDespues,
		})
	}

	totales, err := uc.movRepo.TotalesPorTipo(ctx, productoID, q.SedeID)
	if err != nil {
		return nil, err
	}
	resumen := domaininv.Resumir(totales)

	porSede, stockTotal, err := uc.stockPorSede(ctx, productoID)
	if err != nil {
		return nil, err
	}

	return &dto.KardexResponse{
		Producto:     ToProductoResponse(producto),
		StockActual:  stockTotal,
		StockPorSede: porSede,
		Estadisticas: dto.KardexEstadisticas{
			Ingresos:         resumen.Ingresos,
			Salidas:          resumen.Salidas,
			AjustesPositivos: resumen.AjustesPositivos,
			AjustesNegativos: resumen.AjustesNegativos,
			TraspasosEntrada: resumen.TraspasosEntrada,
			TraspasosSalida:  resumen.TraspasosSalida,
			UsoServicio:      resumen.UsoServicio,
			Devoluciones:     resumen.Devoluciones,
			Mermas:           resumen.Mermas,
			TotalEntradas:    resumen.TotalEntradas,
			TotalSalidas:     resumen.TotalSalidas,
			TotalMovimientos: resumen.MovimientosTotal,
		},
		Movimientos: filas,
		Page:        dto.NewPageResponse(q.PageRequest, total),
	}, nil
}

// StockPorProducto stock de un producto en cada sede.
func (uc *KardexUseCase) StockPorProducto(ctx context.Context, productoID string) ([]dto.StockSedeResponse, error) {
	producto, err := uc.productRepo.GetByID(ctx, productoID)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.NotFound("producto")
	}
	porSede, _, err := uc.stockPorSede(ctx, productoID)
	return porSede, err
}

func (uc *KardexUseCase) stockPorSede(ctx context.Context, productoID string) ([]dto.StockSedeResponse, int, error) {
	list, err := uc.stockRepo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.StockSedeResponse, 0, len(list))
	total := 0
	for _, ps := range list {
		nombre := ""
		if s, err := uc.sedeRepo.GetByID(ctx, ps.SedeID); err == nil && s != nil {
			nombre = s.Nombre
		}
		out = append(out, dto.StockSedeResponse{SedeID: ps.SedeID, SedeNombre: nombre, Stock: ps.Stock})
		total += ps.Stock
	}
	return out, total, nil
}

// ToProductoResponse mapea un producto a su DTO.
func ToProductoResponse(p *entity.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:           p.ID,
		Codigo:       p.Codigo,
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		PrecioVenta:  p.PrecioVenta,
		PrecioCompra: p.PrecioCompra,
		StockMinimo:  p.StockMinimo,
		Activo:       p.Activo,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
