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
	"github.com/jhoicas/tokokita-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// PurchaseUseCase registra compras. Cada compra crea su lote FIFO en la misma transacción.
type PurchaseUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	purchaseRepo repository.PurchaseRepository
	log          *logger.Logger
	now          func() time.Time
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	purchaseRepo repository.PurchaseRepository,
	log *logger.Logger,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		purchaseRepo: purchaseRepo,
		log:          log,
		now:          time.Now,
	}
}

// Record valida y registra la compra junto con su lote (remanente = cantidad).
func (uc *PurchaseUseCase) Record(ctx context.Context, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id es obligatorio", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if err := inventory.ValidateMoney("el precio de compra", in.PurchasePrice); err != nil {
		return nil, err
	}
	now := uc.now()
	purchaseDate := entity.DateOnly(now)
	if d, err := dto.ParseDate(in.PurchaseDate); err != nil {
		return nil, err
	} else if d != nil {
		purchaseDate = *d
	}
	var expiry *time.Time
	if in.ExpiryDate != nil {
		d, err := dto.ParseDate(*in.ExpiryDate)
		if err != nil {
			return nil, err
		}
		if d != nil && d.Before(purchaseDate) {
			return nil, fmt.Errorf("%w: el vencimiento no puede ser anterior a la compra", domain.ErrInvalidInput)
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

	purchase := &entity.Purchase{
		ID:            uuid.New().String(),
		ProductID:     product.ID,
		SupplierID:    supplierID,
		Quantity:      in.Quantity,
		PurchasePrice: in.PurchasePrice,
		TotalAmount:   in.PurchasePrice.Mul(decimal.NewFromInt(in.Quantity)),
		PurchaseDate:  purchaseDate,
		Notes:         in.Notes,
		CreatedAt:     now,
	}
	batch := &entity.StockBatch{
		ID:                uuid.New().String(),
		ProductID:         product.ID,
		PurchaseID:        &purchase.ID,
		SupplierID:        supplierID,
		Quantity:          in.Quantity,
		RemainingQuantity: in.Quantity,
		UnitCost:          in.PurchasePrice,
		BatchDate:         purchaseDate,
		ExpiryDate:        expiry,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = uc.txRunner.RunPurchase(ctx, func(purchaseRepo repository.PurchaseRepository, batchRepo repository.StockBatchRepository) error {
		if err := purchaseRepo.Create(ctx, purchase); err != nil {
			return err
		}
		return batchRepo.Create(ctx, batch)
	})
	if err != nil {
		return nil, fmt.Errorf("registrar compra: %w", err)
	}
	purchase.BatchID = batch.ID

	uc.log.Info().
		Str("purchase_id", purchase.ID).
		Str("product_id", product.ID).
		Str("batch_id", batch.ID).
		Int64("quantity", in.Quantity).
		Msg("compra registrada")

	out := toPurchaseResponse(purchase)
	return &out, nil
}

// GetByID obtiene una compra; nil si no existe.
func (uc *PurchaseUseCase) GetByID(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.purchaseRepo.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	out := toPurchaseResponse(p)
	return &out, nil
}

// List lista todas las compras (más recientes primero).
func (uc *PurchaseUseCase) List(ctx context.Context) ([]dto.PurchaseResponse, error) {
	return uc.list(ctx, repository.PurchaseFilter{})
}

// ListByDateRange lista compras entre from y to (ambos inclusivos; nil = sin límite).
func (uc *PurchaseUseCase) ListByDateRange(ctx context.Context, from, to *time.Time) ([]dto.PurchaseResponse, error) {
	f, t := dayRange(from, to, time.UTC) // purchase_date es DATE
	return uc.list(ctx, repository.PurchaseFilter{From: f, To: t})
}

// ListBySupplier lista las compras de un proveedor.
func (uc *PurchaseUseCase) ListBySupplier(ctx context.Context, supplierID string) ([]dto.PurchaseResponse, error) {
	if supplierID == "" {
		return nil, fmt.Errorf("%w: supplier_id es obligatorio", domain.ErrInvalidInput)
	}
	return uc.list(ctx, repository.PurchaseFilter{SupplierID: supplierID})
}

func (uc *PurchaseUseCase) list(ctx context.Context, f repository.PurchaseFilter) ([]dto.PurchaseResponse, error) {
	list, err := uc.purchaseRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPurchaseResponse(p))
	}
	return out, nil
}

// Delete elimina la compra y su lote. Solo se permite mientras ninguna venta haya consumido el lote.
func (uc *PurchaseUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.RunPurchase(ctx, func(purchaseRepo repository.PurchaseRepository, batchRepo repository.StockBatchRepository) error {
		p, err := purchaseRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.BatchID != "" {
			batch, err := batchRepo.GetByID(ctx, p.BatchID)
			if err != nil {
				return err
			}
			if batch != nil {
				if !batch.IsUntouched() {
					return fmt.Errorf("%w: el lote de la compra ya fue consumido", domain.ErrConflict)
				}
				if err := batchRepo.Delete(ctx, batch.ID); err != nil {
					return err
				}
			}
		}
		return purchaseRepo.Delete(ctx, id)
	})
}
