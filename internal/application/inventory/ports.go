package inventory

import (
	"context"

	"github.com/jhoicas/tokokita-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; nada de lo escrito queda visible.
type TxRunner interface {
	// RunSettlement agrupa carga de lotes, venta, consumos y decrementos.
	RunSettlement(ctx context.Context, fn func(
		batchRepo repository.StockBatchRepository,
		saleRepo repository.SaleRepository,
		itemRepo repository.SaleBatchItemRepository,
	) error) error
	// RunPurchase agrupa compra y lote generado.
	RunPurchase(ctx context.Context, fn func(
		purchaseRepo repository.PurchaseRepository,
		batchRepo repository.StockBatchRepository,
	) error) error
}

// ProductLocker serializa las liquidaciones de un mismo producto.
// unlock debe llamarse siempre que err == nil.
type ProductLocker interface {
	Lock(ctx context.Context, productID string) (unlock func(), err error)
}
