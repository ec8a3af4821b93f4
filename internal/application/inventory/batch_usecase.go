package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tokokita-api/internal/application/dto"
	"github.com/jhoicas/tokokita-api/internal/domain"
	"github.com/jhoicas/tokokita-api/internal/domain/entity"
	"github.com/jhoicas/tokokita-api/internal/domain/inventory"
	"github.com/jhoicas/tokokita-api/internal/domain/repository"
)

// BatchUseCase alta directa, consulta y corrección de lotes.
// Después del alta, el remanente solo cambia por ventas.
type BatchUseCase struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	batchRepo    repository.StockBatchRepository
	itemRepo     repository.SaleBatchItemRepository
	now          func() time.Time
}

// NewBatchUseCase construye el caso de uso.
func NewBatchUseCase(
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	batchRepo repository.StockBatchRepository,
	itemRepo repository.SaleBatchItemRepository,
) *BatchUseCase {
	return &BatchUseCase{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		batchRepo:    batchRepo,
		itemRepo:     itemRepo,
		now:          time.Now,
	}
}

// Create da de alta un lote sin compra (stock inicial, ajustes de inventario).
// Remanente = cantidad; entra a la cola FIFO por (BatchDate, Seq) como cualquier otro lote.
func (uc *BatchUseCase) Create(ctx context.Context, in dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	if in.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id es obligatorio", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if err := inventory.ValidateMoney("el costo", in.UnitCost); err != nil {
		return nil, err
	}
	now := uc.now()
	batchDate := entity.DateOnly(now)
	if d, err := dto.ParseDate(in.BatchDate); err != nil {
		return nil, err
	} else if d != nil {
		batchDate = *d
	}
	var expiry *time.Time
	if in.ExpiryDate != nil {
		d, err := dto.ParseDate(*in.ExpiryDate)
		if err != nil {
			return nil, err
		}
		if d != nil && d.Before(batchDate) {
			return nil, fmt.Errorf("%w: el vencimiento no puede ser anterior al lote", domain.ErrInvalidInput)
		}
		expiry = d
	}

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrUnknownProduct
	}
	var supplierID *string
	if in.SupplierID != nil && *in.SupplierID != "" {
		supplier, err := uc.supplierRepo.GetByID(ctx, *in.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, fmt.Errorf("%w: proveedor desconocido", domain.ErrInvalidInput)
		}
		supplierID = &supplier.ID
	}

	batch := &entity.StockBatch{
		ID:                uuid.New().String(),
		ProductID:         product.ID,
		SupplierID:        supplierID,
		Quantity:          in.Quantity,
		RemainingQuantity: in.Quantity,
		UnitCost:          in.UnitCost,
		BatchDate:         batchDate,
		ExpiryDate:        expiry,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.batchRepo.Create(ctx, batch); err != nil {
		return nil, fmt.Errorf("alta de lote: %w", err)
	}
	out := toBatchResponse(batch)
	return &out, nil
}

// ListByProduct devuelve todos los lotes del producto, incluidos los agotados.
func (uc *BatchUseCase) ListByProduct(ctx context.Context, productID string) ([]dto.BatchResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.batchRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBatchResponse(b))
	}
	return out, nil
}

// ListAvailable devuelve los lotes con remanente de todos los productos.
func (uc *BatchUseCase) ListAvailable(ctx context.Context) ([]dto.BatchResponse, error) {
	list, err := uc.batchRepo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBatchResponse(b))
	}
	return out, nil
}

// Update corrige costo unitario, fecha de lote o vencimiento.
// El COGS de ventas pasadas no cambia: cada consumo guarda su propio costo.
func (uc *BatchUseCase) Update(ctx context.Context, id string, in dto.UpdateBatchRequest) (*dto.BatchResponse, error) {
	batch, err := uc.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, nil
	}
	if in.UnitCost != nil {
		if err := inventory.ValidateMoney("el costo", *in.UnitCost); err != nil {
			return nil, err
		}
		batch.UnitCost = *in.UnitCost
	}
	if in.BatchDate != nil {
		d, err := dto.ParseDate(*in.BatchDate)
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, fmt.Errorf("%w: batch_date no puede ser vacío", domain.ErrInvalidInput)
		}
		batch.BatchDate = *d
	}
	if in.ExpiryDate != nil {
		d, err := dto.ParseDate(*in.ExpiryDate)
		if err != nil {
			return nil, err
		}
		batch.ExpiryDate = d
	}
	batch.UpdatedAt = time.Now()
	if err := uc.batchRepo.Update(ctx, batch); err != nil {
		return nil, err
	}
	out := toBatchResponse(batch)
	return &out, nil
}

// Consumptions devuelve los lotes consumidos por una venta.
func (uc *BatchUseCase) Consumptions(ctx context.Context, saleID string) ([]dto.BatchConsumptionResponse, error) {
	items, err := uc.itemRepo.ListBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchConsumptionResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toConsumptionResponse(it))
	}
	return out, nil
}
