package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tokokita-api/internal/application/dto"
	"github.com/jhoicas/tokokita-api/internal/application/usecase"
	"github.com/jhoicas/tokokita-api/internal/domain"
	"github.com/jhoicas/tokokita-api/internal/domain/entity"
	"github.com/jhoicas/tokokita-api/internal/infrastructure/memory"
)

func TestProduct_CRUDWithStock(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewProductUseCase(store.Products(), store.Batches())

	created, err := uc.Create(ctx, dto.CreateProductRequest{Name: "  Kopi  ", SellingPrice: decimal.NewFromInt(1500), MinimumStock: 5})
	require.NoError(t, err)
	assert.Equal(t, "Kopi", created.Name)
	assert.Equal(t, "pcs", created.Unit, "unidad por defecto")

	require.NoError(t, store.Batches().Create(ctx, &entity.StockBatch{
		ID: "b1", ProductID: created.ID, Quantity: 4, RemainingQuantity: 4,
		UnitCost: decimal.NewFromInt(1000), BatchDate: time.Now(),
	}))

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.TotalStock)
	assert.True(t, got.LowStock, "4 <= mínimo 5")

	minStock := int64(2)
	_, err = uc.Update(ctx, created.ID, dto.UpdateProductRequest{MinimumStock: &minStock})
	require.NoError(t, err)

	list, err := uc.List(ctx, 20, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, int64(4), list.Items[0].TotalStock)
	assert.False(t, list.Items[0].LowStock)

	assert.ErrorIs(t, uc.Delete(ctx, created.ID), domain.ErrConflict, "tiene lotes")
}

func TestProduct_Validation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewProductUseCase(store.Products(), store.Batches())

	_, err := uc.Create(ctx, dto.CreateProductRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "x", MinimumStock: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "x", SellingPrice: decimal.RequireFromString("9.999")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	created, err := uc.Create(ctx, dto.CreateProductRequest{Name: "x", SellingPrice: decimal.RequireFromString("9.99")})
	require.NoError(t, err)
	price := decimal.RequireFromString("1.005")
	_, err = uc.Update(ctx, created.ID, dto.UpdateProductRequest{SellingPrice: &price})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing, err := uc.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSupplier_CRUD(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewSupplierUseCase(store.Suppliers())

	s, err := uc.Create(ctx, dto.CreateSupplierRequest{Name: "Toko Jaya", Phone: "0812"})
	require.NoError(t, err)

	email := "jaya@example.com"
	updated, err := uc.Update(ctx, s.ID, dto.UpdateSupplierRequest{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)
	assert.Equal(t, "0812", updated.Phone)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, uc.Delete(ctx, s.ID))
	assert.ErrorIs(t, uc.Delete(ctx, s.ID), domain.ErrNotFound)
}
