package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/infrastructure/memory"
)

func TestSedeUseCase_CRUD(t *testing.T) {
	ctx := context.Background()
	uc := NewSedeUseCase(memory.New().Repos().Sedes)

	_, err := uc.Create(ctx, dto.CreateSedeRequest{Nombre: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	norte, err := uc.Create(ctx, dto.CreateSedeRequest{Nombre: "Norte", Direccion: "Av. Túpac Amaru 120"})
	require.NoError(t, err)
	assert.True(t, norte.Activa)
	_, err = uc.Create(ctx, dto.CreateSedeRequest{Nombre: "Centro"})
	require.NoError(t, err)

	inactiva := false
	nombre := "Norte 2"
	upd, err := uc.Update(ctx, norte.ID, dto.UpdateSedeRequest{Nombre: &nombre, Activa: &inactiva})
	require.NoError(t, err)
	assert.Equal(t, "Norte 2", upd.Nombre)
	assert.False(t, upd.Activa)
	assert.Equal(t, "Av. Túpac Amaru 120", upd.Direccion)

	_, err = uc.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Update(ctx, "nope", dto.UpdateSedeRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, dto.PageRequest{Page: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Centro", list.Items[0].Nombre)
	assert.Equal(t, 2, list.Page.Total)
}

func TestProductoUseCase_CodigoUnicoYCostoEnCero(t *testing.T) {
	ctx := context.Background()
	uc := NewProductoUseCase(memory.New().Repos().Productos)

	p, err := uc.Create(ctx, dto.CreateProductoRequest{Codigo: "SSD-480", Nombre: "SSD 480GB", PrecioVenta: decimal.NewFromInt(150), StockMinimo: 3})
	require.NoError(t, err)
	assert.True(t, p.PrecioCompra.IsZero())
	assert.True(t, p.Activo)

	_, err = uc.Create(ctx, dto.CreateProductoRequest{Codigo: "SSD-480", Nombre: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateProductoRequest{Codigo: "X", Nombre: "X", PrecioVenta: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	precio := decimal.NewFromInt(140)
	negativo := -2
	_, err = uc.Update(ctx, p.ID, dto.UpdateProductoRequest{StockMinimo: &negativo})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	upd, err := uc.Update(ctx, p.ID, dto.UpdateProductoRequest{PrecioVenta: &precio})
	require.NoError(t, err)
	assert.True(t, upd.PrecioVenta.Equal(precio))
	assert.Equal(t, 3, upd.StockMinimo)

	_, err = uc.Create(ctx, dto.CreateProductoRequest{Codigo: "RAM-8", Nombre: "Memoria RAM 8GB", PrecioVenta: decimal.NewFromInt(120)})
	require.NoError(t, err)
	list, err := uc.List(ctx, "ssd", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "SSD-480", list.Items[0].Codigo)
	assert.Equal(t, 20, list.Page.Limit)

	_, err = uc.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClienteUseCase_DocumentoUnico(t *testing.T) {
	ctx := context.Background()
	uc := NewClienteUseCase(memory.New().Repos().Clientes)

	c, err := uc.Create(ctx, dto.CreateClienteRequest{Nombre: "Ana Torres", Documento: "45678912"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateClienteRequest{Nombre: "Otra Ana", Documento: "45678912"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// sin documento no se valida unicidad
	_, err = uc.Create(ctx, dto.CreateClienteRequest{Nombre: "Luis"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateClienteRequest{Nombre: "Luis"})
	require.NoError(t, err)

	got, err := uc.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Torres", got.Nombre)

	list, err := uc.List(ctx, "4567", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	list, err = uc.List(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Page.Total)
}
