package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

// ReplenishmentUseCase lista de reposición de una sede: productos bajo su stock mínimo.
type ReplenishmentUseCase struct {
	sedeRepo  repository.SedeRepository
	stockRepo repository.StockRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(sedeRepo repository.SedeRepository, stockRepo repository.StockRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{sedeRepo: sedeRepo, stockRepo: stockRepo}
}

// StockBajo devuelve los productos de la sede bajo su mínimo con la cantidad sugerida
// (llevar a 1.5 x mínimo), ordenados por déficit relativo y luego absoluto.
func (uc *ReplenishmentUseCase) StockBajo(ctx context.Context, sedeID string) ([]dto.StockBajoResponse, error) {
	sede, err := uc.sedeRepo.GetByID(ctx, sedeID)
	if err != nil {
		return nil, err
	}
	if sede == nil {
		return nil, domain.NotFound("sede")
	}
	raw, err := uc.stockRepo.ListBajoMinimo(ctx, sedeID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockBajoResponse, 0, len(raw))
	for _, it := range raw {
		ideal := (it.StockMinimo*3 + 1) / 2
		sugerida := ideal - it.Stock
		if sugerida < 0 {
			sugerida = 0
		}
		out = append(out, dto.StockBajoResponse{
			ProductoID:       it.ProductoID,
			Codigo:           it.Codigo,
			Nombre:           it.Nombre,
			Stock:            it.Stock,
			StockMinimo:      it.StockMinimo,
			Deficit:          it.StockMinimo - it.Stock,
			CantidadSugerida: sugerida,
		})
	}

	// Primero mayor déficit relativo (stock/mínimo más bajo), desempate por déficit absoluto.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		ra := a.Stock * b.StockMinimo
		rb := b.Stock * a.StockMinimo
		if ra != rb {
			return ra < rb
		}
		return a.Deficit > b.Deficit
	})
	for i := range out {
		out[i].Prioridad = i + 1
	}
	return out, nil
}
