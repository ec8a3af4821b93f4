package repository

import (
	"context"

	"github.com/jhoicas/tokokita-api/internal/domain/entity"
)

// StockBatchRepository es el libro de lotes de cada producto.
type StockBatchRepository interface {
	// Create persiste el lote y asigna Seq (monótono).
	Create(ctx context.Context, batch *entity.StockBatch) error
	GetByID(ctx context.Context, id string) (*entity.StockBatch, error)
	// LoadAvailable devuelve los lotes con remanente > 0 del producto, ordenados por (batch_date, seq).
	// Dentro de una transacción de liquidación los lotes quedan bloqueados hasta el commit.
	LoadAvailable(ctx context.Context, productID string) ([]*entity.StockBatch, error)
	// ListAvailable devuelve los lotes con remanente de todos los productos.
	ListAvailable(ctx context.Context) ([]*entity.StockBatch, error)
	// ListByProduct incluye lotes agotados (auditoría).
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockBatch, error)
	// Update corrige costo unitario, fecha de lote y vencimiento. Nunca cantidades.
	Update(ctx context.Context, batch *entity.StockBatch) error
	// DecrementRemaining resta amount solo si el remanente sigue siendo expectedRemaining.
	// Si cambió devuelve domain.ErrConcurrentModification.
	DecrementRemaining(ctx context.Context, batchID string, amount, expectedRemaining int64) (int64, error)
	Delete(ctx context.Context, id string) error
}
