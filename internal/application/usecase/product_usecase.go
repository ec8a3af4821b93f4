package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tokokita-api/internal/application/dto"
	"github.com/jhoicas/tokokita-api/internal/domain"
	"github.com/jhoicas/tokokita-api/internal/domain/entity"
	"github.com/jhoicas/tokokita-api/internal/domain/inventory"
	"github.com/jhoicas/tokokita-api/internal/domain/repository"
)

const defaultUnit = "pcs"

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía compras y ventas.
type ProductUseCase struct {
	repo      repository.ProductRepository
	batchRepo repository.StockBatchRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, batchRepo repository.StockBatchRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, batchRepo: batchRepo}
}

// Create crea un nuevo producto sin stock.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if err := inventory.ValidateMoney("el precio", in.SellingPrice); err != nil {
		return nil, err
	}
	if in.MinimumStock < 0 {
		return nil, fmt.Errorf("%w: el stock mínimo no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.Unit == "" {
		in.Unit = defaultUnit
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		Unit:         in.Unit,
		SellingPrice: in.SellingPrice,
		MinimumStock: in.MinimumStock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductWithStockResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	batches, err := uc.batchRepo.LoadAvailable(ctx, id)
	if err != nil {
		return nil, err
	}
	out := withStock(product, inventory.TotalAvailable(batches))
	return &out, nil
}

// Update actualiza un producto. No permite modificar stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Unit != nil && *in.Unit != "" {
		product.Unit = *in.Unit
	}
	if in.SellingPrice != nil {
		if err := inventory.ValidateMoney("el precio", *in.SellingPrice); err != nil {
			return nil, err
		}
		product.SellingPrice = *in.SellingPrice
	}
	if in.MinimumStock != nil {
		if *in.MinimumStock < 0 {
			return nil, fmt.Errorf("%w: el stock mínimo no puede ser negativo", domain.ErrInvalidInput)
		}
		product.MinimumStock = *in.MinimumStock
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación, incluyendo stock total y alerta de stock bajo.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	available, err := uc.batchRepo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	stock := make(map[string]int64, len(list))
	for _, b := range available {
		stock[b.ProductID] += b.RemainingQuantity
	}
	items := make([]dto.ProductWithStockResponse, 0, len(list))
	for _, p := range list {
		items = append(items, withStock(p, stock[p.ID]))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un producto por ID. Falla con ErrConflict si tiene lotes, compras o ventas.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func withStock(p *entity.Product, total int64) dto.ProductWithStockResponse {
	return dto.ProductWithStockResponse{
		ProductResponse: *toProductResponse(p),
		TotalStock:      total,
		LowStock:        inventory.ClassifyStock(total, p.MinimumStock) != inventory.StockNormal,
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Unit:         p.Unit,
		SellingPrice: p.SellingPrice,
		MinimumStock: p.MinimumStock,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
