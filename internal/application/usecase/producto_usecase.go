package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/application/inventory"
	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

// ProductoUseCase casos de uso CRUD para productos. Costo y stock se manejan vía movimientos.
type ProductoUseCase struct {
	repo repository.ProductoRepository
}

// NewProductoUseCase construye el caso de uso.
func NewProductoUseCase(repo repository.ProductoRepository) *ProductoUseCase {
	return &ProductoUseCase{repo: repo}
}

// Create crea un nuevo producto. PrecioCompra inicia en 0.
func (uc *ProductoUseCase) Create(ctx context.Context, in dto.CreateProductoRequest) (*dto.ProductoResponse, error) {
	codigo := strings.TrimSpace(in.Codigo)
	if codigo == "" || strings.TrimSpace(in.Nombre) == "" {
		return nil, domain.Invalid("codigo y nombre son requeridos")
	}
	if in.PrecioVenta.IsNegative() || in.StockMinimo < 0 {
		return nil, domain.Invalid("precioVenta y stockMinimo no pueden ser negativos")
	}
	existing, err := uc.repo.GetByCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Errorf(domain.ErrDuplicate, "ya existe un producto con código %s", codigo)
	}
	now := time.Now()
	producto := &entity.Producto{
		ID:           uuid.New().String(),
		Codigo:       codigo,
		Nombre:       strings.TrimSpace(in.Nombre),
		Descripcion:  in.Descripcion,
		PrecioVenta:  in.PrecioVenta,
		PrecioCompra: decimal.Zero,
		StockMinimo:  in.StockMinimo,
		Activo:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, producto); err != nil {
		return nil, err
	}
	out := inventory.ToProductoResponse(producto)
	return &out, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductoUseCase) GetByID(ctx context.Context, id string) (*dto.ProductoResponse, error) {
	producto, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.NotFound("producto")
	}
	out := inventory.ToProductoResponse(producto)
	return &out, nil
}

// Update actualiza un producto. No permite modificar costo ni stock.
func (uc *ProductoUseCase) Update(ctx context.Context, id string, in dto.UpdateProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.NotFound("producto")
	}
	if in.Nombre != nil {
		producto.Nombre = strings.TrimSpace(*in.Nombre)
	}
	if in.Descripcion != nil {
		producto.Descripcion = *in.Descripcion
	}
	if in.PrecioVenta != nil {
		if in.PrecioVenta.IsNegative() {
			return nil, domain.Invalid("precioVenta no puede ser negativo")
		}
		producto.PrecioVenta = *in.PrecioVenta
	}
	if in.StockMinimo != nil {
		if *in.StockMinimo < 0 {
			return nil, domain.Invalid("stockMinimo no puede ser negativo")
		}
		producto.StockMinimo = *in.StockMinimo
	}
	if in.Activo != nil {
		producto.Activo = *in.Activo
	}
	producto.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, producto); err != nil {
		return nil, err
	}
	out := inventory.ToProductoResponse(producto)
	return &out, nil
}

// List lista productos con búsqueda por nombre o código.
func (uc *ProductoUseCase) List(ctx context.Context, search string, page dto.PageRequest) (*dto.ProductoListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, search, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductoResponse, 0, len(list))
	for _, p := range list {
		items = append(items, inventory.ToProductoResponse(p))
	}
	return &dto.ProductoListResponse{Items: items, Page: dto.NewPageResponse(page, total)}, nil
}
