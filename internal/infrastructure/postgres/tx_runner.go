package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/tokokita-api/internal/application/inventory"
	"github.com/jhoicas/tokokita-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSettlement abre una tx con los repos de lotes, ventas y consumos.
// LoadAvailable dentro de esta tx bloquea los lotes (FOR UPDATE) hasta el commit.
func (r *TxRunner) RunSettlement(ctx context.Context, fn func(
	batchRepo repository.StockBatchRepository,
	saleRepo repository.SaleRepository,
	itemRepo repository.SaleBatchItemRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(newStockBatchRepo(tx, true), NewSaleRepository(tx), NewSaleBatchItemRepository(tx))
	})
}

// RunPurchase abre una tx con los repos de compras y lotes.
func (r *TxRunner) RunPurchase(ctx context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	batchRepo repository.StockBatchRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewPurchaseRepository(tx), newStockBatchRepo(tx, true))
	})
}

// run inicia la transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
